package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stogramctl/pkg/ingest"
	"stogramctl/pkg/subscriptions"
	"stogramctl/pkg/ui"
)

var importMediaDir string

var importCmd = &cobra.Command{
	Use:   "import <username> [file...]",
	Short: "Push existing files through the reconciliation pipeline",
	Long: `Import records media files in the database without running gallery-dl.

With file arguments, each file is copied into the user's media directory
first; files whose names already exist there are left alone. Without
arguments, the user's entire media directory is reconciled as-is.

Unlike fetch, import ignores file ages: every media file not yet present
in the database gets a row. Videos found beside no thumbnail get one
extracted next to the file.

Examples:
  stogramctl import natgeo ~/Downloads/natgeo_123.jpg
  stogramctl import natgeo`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importMediaDir, "media-dir", "", "media root directory (default \"instagram\")")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	username := strings.TrimSpace(args[0])
	files := args[1:]

	flags := map[string]interface{}{}
	if importMediaDir != "" {
		flags["media-dir"] = importMediaDir
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	db, _, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	subsRepo := subscriptions.NewRepository(db)
	sub, err := subsRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("@%s is not subscribed; run \"stogramctl subscribe %s\" first: %w",
			username, username, err)
	}

	ingester := buildIngester(cfg, db, subsRepo, ingest.LineFunc(ui.PrintLine))

	var summary *ingest.Summary
	if len(files) > 0 {
		summary, err = ingester.ImportFiles(ctx, sub, files)
	} else {
		summary, err = ingester.ImportDirectory(ctx, sub)
	}
	if err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Done: %d inserted, %d skipped", summary.Inserted, summary.Skipped))
	return nil
}
