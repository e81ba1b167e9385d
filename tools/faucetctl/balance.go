package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/consensus-shipyard/base-faucet/internal/network"
	"github.com/consensus-shipyard/base-faucet/internal/types"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Show the ETH balance of an address",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	addr, err := types.ParseAddress(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, _, err := network.Dial(ctx, rpcURL, chainID)
	if err != nil {
		return err
	}
	defer client.Close()

	balance, err := client.BalanceAt(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("BalanceAt: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s ETH\n", addr.Hex(), types.FormatEther(balance))
	return nil
}
