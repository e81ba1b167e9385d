package data

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

const (
	testPrivateKey = "4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"
	testAddress    = "0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1"
)

func TestNewAccount(t *testing.T) {
	account, err := NewAccount(testPrivateKey)
	require.NoError(t, err)
	require.Equal(t, testAddress, account.Address.Hex())
	require.Equal(t, account.Address, account.From())

	prefixed, err := NewAccount("0x" + testPrivateKey)
	require.NoError(t, err)
	require.Equal(t, account.Address, prefixed.Address)

	_, err = NewAccount("not a key")
	require.Error(t, err)
}

func TestSignTx(t *testing.T) {
	account, err := NewAccount(testPrivateKey)
	require.NoError(t, err)

	chainID := big.NewInt(84532)
	to := common.HexToAddress("0xFFcf8FDEE72ac11b5c542428B35EEF5769C409f0")

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     1,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       21000,
		To:        &to,
		Value:     big.NewInt(1000),
	})

	signed, err := account.SignTx(tx, chainID)
	require.NoError(t, err)

	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	require.Equal(t, account.Address, sender)
}
