package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/consensus-shipyard/base-faucet/internal/data"
	"github.com/consensus-shipyard/base-faucet/internal/faucet"
	"github.com/consensus-shipyard/base-faucet/internal/network"
	"github.com/consensus-shipyard/base-faucet/internal/types"
)

var sendCmd = &cobra.Command{
	Use:   "send <address>",
	Short: "Send ETH from the funding key, bypassing the cooldown",
	Long: `Send signs and broadcasts a single transfer the same way the faucet does.
The key is read from --key or FAUCET_ETHEREUM_PRIVATE_KEY. No claim is recorded.`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().String("key", "", "hex private key of the funding account")
	sendCmd.Flags().String("amount", "0.001", "amount in ETH")
}

func runSend(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("key")
	amountStr, _ := cmd.Flags().GetString("amount")

	if key == "" {
		key = os.Getenv("FAUCET_ETHEREUM_PRIVATE_KEY")
	}

	to, err := types.ParseAddress(args[0])
	if err != nil {
		return err
	}
	amount, err := types.ParseEther(amountStr)
	if err != nil {
		return err
	}
	account, err := data.NewAccount(key)
	if err != nil {
		return fmt.Errorf("failed to initialize account: %w", err)
	}

	ctx := cmd.Context()
	client, id, err := network.Dial(ctx, rpcURL, chainID)
	if err != nil {
		return err
	}
	defer client.Close()

	log.Infow("sending", "from", account.Address, "to", to, "amount", types.FormatEther(amount), "chain_id", id)

	tx, err := faucet.Transfer(ctx, client, account, id, to, amount)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "tx sent: %s\n", tx.Hash().Hex())
	return nil
}
