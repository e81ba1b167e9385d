package data

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// EthereumAccount is the funding identity of the faucet.
type EthereumAccount struct {
	PrivateKey *ecdsa.PrivateKey
	PublicKey  *ecdsa.PublicKey
	Address    common.Address
}

// NewAccount parses a hex private key, with or without a 0x prefix.
func NewAccount(key string) (*EthereumAccount, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(key), "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	publicKey := privateKey.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("error casting public key to ECDSA")
	}

	return &EthereumAccount{
		PrivateKey: privateKey,
		PublicKey:  publicKeyECDSA,
		Address:    crypto.PubkeyToAddress(*publicKeyECDSA),
	}, nil
}

func (a *EthereumAccount) From() common.Address {
	return a.Address
}

// SignTx signs tx with the latest signer for chainID, so both legacy and
// dynamic fee transactions are accepted.
func (a *EthereumAccount) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), a.PrivateKey)
}
