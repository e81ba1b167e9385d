// Command faucetctl is an operator tool for inspecting and debugging a faucet.
package main

import (
	"context"
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"

	"github.com/consensus-shipyard/base-faucet/internal/network"
	"github.com/consensus-shipyard/base-faucet/pkg/version"
)

var (
	rpcURL  string
	chainID uint64

	log = logging.Logger("FAUCETCTL")
)

var rootCmd = &cobra.Command{
	Use:           "faucetctl",
	Short:         "Inspect and exercise a Base Sepolia faucet",
	Version:       version.Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc", "http://127.0.0.1:8545", "JSON-RPC endpoint")
	rootCmd.PersistentFlags().Uint64Var(&chainID, "chain-id", network.BaseSepoliaChainID, "expected chain id, 0 accepts any")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
