package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"stogramctl/pkg/media"
	"stogramctl/pkg/subscriptions"
	"stogramctl/pkg/ui"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List tracked subscriptions",
	Long: `Users lists every subscription in the Stogram database along with the
number of media rows recorded for it.`,
	Args: cobra.NoArgs,
	RunE: runUsers,
}

func init() {
	rootCmd.AddCommand(usersCmd)
}

func runUsers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	db, _, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	subs, err := subscriptions.NewRepository(db).List(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		ui.PrintWarning("No subscriptions found")
		return nil
	}

	mediaRepo := media.NewRepository(db)

	ui.PrintHighlight(fmt.Sprintf("%-20s %-34s %-20s %s", "USERNAME", "ID", "ADDED", "MEDIA"))
	for _, sub := range subs {
		count, err := mediaRepo.Count(ctx, sub.Query)
		if err != nil {
			return err
		}
		ui.PrintLine(fmt.Sprintf("%-20s %-34s %-20s %d",
			sub.Query, hex.EncodeToString(sub.ID), sub.DateAdded, count))
	}

	return nil
}
