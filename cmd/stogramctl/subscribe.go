package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stogramctl/pkg/subscriptions"
	"stogramctl/pkg/ui"
)

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <username>",
	Short: "Register a new username in the subscriptions table",
	Long: `Subscribe registers a username in the Stogram subscriptions table so
that fetch and import runs can attribute media to it.

The row is written exactly the way the Stogram application writes it:
a random 16-byte identifier, the standard attributes blob and a local
timestamp. No uniqueness check is performed; subscribing the same name
twice creates two rows, matching the application's own behavior.

Examples:
  stogramctl subscribe natgeo`,
	Args: cobra.ExactArgs(1),
	RunE: runSubscribe,
}

func init() {
	rootCmd.AddCommand(subscribeCmd)
}

func runSubscribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	db, _, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := subscriptions.NewRepository(db)
	receipt, err := repo.Add(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Subscribed @%s", receipt.Username))
	ui.PrintInfo("ID", receipt.IDHex)
	ui.PrintInfo("Added", receipt.DateAdded)
	return nil
}
