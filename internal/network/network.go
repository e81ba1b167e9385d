// Package network opens the single JSON-RPC connection the faucet talks to.
package network

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// BaseSepoliaChainID is the chain id of the Base Sepolia test network.
const BaseSepoliaChainID = 84532

// Dial connects to rawURL and returns the client with the chain id it reports.
// A non-zero expectedChainID must match the endpoint's chain id.
func Dial(ctx context.Context, rawURL string, expectedChainID uint64) (*ethclient.Client, *big.Int, error) {
	if rawURL == "" {
		return nil, nil, fmt.Errorf("empty RPC endpoint")
	}

	rpcClient, err := rpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to API: %w", err)
	}
	client := ethclient.NewClient(rpcClient)

	chainID, err := VerifyChainID(ctx, client, expectedChainID)
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	return client, chainID, nil
}

type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

func VerifyChainID(ctx context.Context, r ChainIDReader, expected uint64) (*big.Int, error) {
	chainID, err := r.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	if expected != 0 && (!chainID.IsUint64() || chainID.Uint64() != expected) {
		return nil, fmt.Errorf("endpoint is on chain %s, expected %d", chainID, expected)
	}
	return chainID, nil
}
