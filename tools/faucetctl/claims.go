package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	datastore "github.com/ipfs/go-ds-leveldb"
	"github.com/spf13/cobra"
	ldbopts "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/consensus-shipyard/base-faucet/internal/db"
)

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "List the recorded last claim of every address",
	Args:  cobra.NoArgs,
	RunE:  runClaims,
}

func init() {
	rootCmd.AddCommand(claimsCmd)

	claimsCmd.Flags().String("db", "./_db_data", "path of the faucet leveldb store")
}

func runClaims(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("db")

	store, err := datastore.NewDatastore(path, &datastore.Options{
		Compression: ldbopts.NoCompression,
		Strict:      ldbopts.StrictAll,
		ReadOnly:    true,
	})
	if err != nil {
		return fmt.Errorf("couldn't open leveldb database: %w", err)
	}
	defer store.Close()

	claims, err := db.NewDatabase(store).Claims(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tLAST CLAIM")
	for _, c := range claims {
		fmt.Fprintf(w, "%s\t%s\n", c.Address, time.UnixMilli(c.Timestamp).UTC().Format(time.RFC3339))
	}
	return w.Flush()
}
