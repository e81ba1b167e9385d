package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/consensus-shipyard/base-faucet/internal/explorer"
	"github.com/consensus-shipyard/base-faucet/internal/history"
	"github.com/consensus-shipyard/base-faucet/internal/metrics"
	"github.com/consensus-shipyard/base-faucet/internal/types"
)

var historyCmd = &cobra.Command{
	Use:   "history <funding-address>",
	Short: "List the most recent outgoing transfers of a funding address",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("explorer", explorer.DefaultAPIHost, "explorer API endpoint")
	historyCmd.Flags().String("api-key", "", "explorer API key")
	historyCmd.Flags().Int("limit", history.DefaultLimit, "number of transfers to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	host, _ := cmd.Flags().GetString("explorer")
	apiKey, _ := cmd.Flags().GetString("api-key")
	limit, _ := cmd.Flags().GetInt("limit")

	funding, err := types.ParseAddress(args[0])
	if err != nil {
		return err
	}

	client := explorer.NewClient(log, explorer.Config{
		APIHost: host,
		APIKey:  apiKey,
		ChainID: chainID,
	}, nil)

	// The viewer hides explorer errors; the raw list surfaces them here.
	txs, err := client.TxList(cmd.Context(), funding)
	if err != nil {
		return err
	}

	viewer := history.NewViewer(log, metrics.NoopMetrics{}, client, funding, limit, "")
	views := viewer.Render(history.Outgoing(txs, funding, limit), time.Now())

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HASH\tTO\tVALUE\tAGE")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%s ETH\t%s\n", v.Hash, v.To, v.Value, v.Age)
	}
	return w.Flush()
}
