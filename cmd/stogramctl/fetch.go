package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"stogramctl/pkg/config"
	"stogramctl/pkg/gallerydl"
	"stogramctl/pkg/ingest"
	"stogramctl/pkg/logger"
	"stogramctl/pkg/runner"
	"stogramctl/pkg/settings"
	"stogramctl/pkg/subscriptions"
	"stogramctl/pkg/ui"
	"stogramctl/pkg/ui/tui"
)

var (
	fetchBrowser   string
	fetchMediaType string
	fetchPostLimit int
	fetchMediaDir  string
	fetchTUI       bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <username>",
	Short: "Run gallery-dl for a user and reconcile the results",
	Long: `Fetch downloads Instagram media for a tracked user into the per-user
media directory, then records every file created by this run as a row in
the Stogram database. Videos get a thumbnail extracted with ffmpeg.

The username must already exist in the subscriptions table; use the
subscribe command first for new users. gallery-dl authenticates by
borrowing session cookies from a local browser profile, so you must be
logged in to Instagram in that browser.

Examples:
  stogramctl fetch natgeo
  stogramctl fetch natgeo --media-type stories --browser chrome
  stogramctl fetch natgeo --post-limit 50 --tui`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchBrowser, "browser", "b", "", "browser to borrow Instagram session cookies from")
	fetchCmd.Flags().StringVarP(&fetchMediaType, "media-type", "m", "", "what to fetch: posts or stories")
	fetchCmd.Flags().IntVarP(&fetchPostLimit, "post-limit", "n", 0, "maximum number of posts to fetch")
	fetchCmd.Flags().StringVar(&fetchMediaDir, "media-dir", "", "media root directory (default \"instagram\")")
	fetchCmd.Flags().BoolVar(&fetchTUI, "tui", false, "show interactive progress instead of plain output")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	username := strings.TrimSpace(args[0])

	// Saved settings fill in whatever flags the user didn't pass this run.
	mgr, err := settings.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize settings: %w", err)
	}
	saved, err := mgr.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	flags := map[string]interface{}{}
	if cmd.Flags().Changed("browser") {
		flags["browser"] = fetchBrowser
	} else if saved.Browser != "" {
		flags["browser"] = saved.Browser
	}
	if cmd.Flags().Changed("media-type") {
		flags["media-type"] = fetchMediaType
	} else if saved.MediaType != "" {
		flags["media-type"] = saved.MediaType
	}
	if cmd.Flags().Changed("post-limit") {
		flags["post-limit"] = fetchPostLimit
	} else if saved.PostLimit > 0 {
		flags["post-limit"] = saved.PostLimit
	}
	if fetchMediaDir != "" {
		flags["media-dir"] = fetchMediaDir
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	if err := mgr.Save(&settings.Settings{
		Browser:   cfg.Scraper.Browser,
		MediaType: cfg.Scraper.MediaType,
		PostLimit: cfg.Scraper.PostLimit,
		Username:  username,
	}); err != nil {
		logger.WithError(err).Warn("Failed to save settings")
	}

	db, _, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if cfg.Scraper.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Scraper.Timeout)
		defer cancel()
	}

	subsRepo := subscriptions.NewRepository(db)
	sub, err := subsRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("@%s is not subscribed; run \"stogramctl subscribe %s\" first: %w",
			username, username, err)
	}

	req := ingest.FetchRequest{
		MediaType: cfg.Scraper.MediaType,
		Browser:   cfg.Scraper.Browser,
		PostLimit: cfg.Scraper.PostLimit,
	}

	if fetchTUI {
		return runFetchTUI(ctx, cfg, db, subsRepo, sub, req)
	}

	orch := buildOrchestrator(cfg, db, subsRepo,
		runner.NewExecRunner(), ingest.LineFunc(ui.PrintLine))

	summary, err := orch.Run(ctx, sub, req)
	if err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Done: %d inserted, %d skipped", summary.Inserted, summary.Skipped))
	return nil
}

// runFetchTUI runs the fetch pipeline behind a bubbletea progress view.
// The scraper runs quiet since its output would clobber the alt screen.
func runFetchTUI(ctx context.Context, cfg *config.Config, db *sql.DB, subsRepo *subscriptions.Repository,
	sub *subscriptions.Subscription, req ingest.FetchRequest) error {
	view := tui.New(sub.Query)
	orch := buildOrchestrator(cfg, db, subsRepo, runner.NewQuietRunner(), view)

	errCh := make(chan error, 1)
	go func() {
		view.SetPhase("downloading " + strings.ToLower(req.MediaType))
		summary, err := orch.Run(ctx, sub, req)
		errCh <- err
		if err != nil {
			view.Finish(fmt.Sprintf("fetch failed: %v", err), true)
			return
		}
		view.Finish(fmt.Sprintf("%d inserted, %d skipped", summary.Inserted, summary.Skipped), false)
	}()

	if err := view.Start(); err != nil {
		return err
	}

	runErr, finished := tuiRunOutcome(errCh)
	if !finished {
		ui.PrintWarning("Aborted before the run finished; files downloaded so far remain on disk")
		return nil
	}
	return runErr
}

// tuiRunOutcome reports the pipeline result once the view has exited.
// An empty channel means the view was quit mid-run.
func tuiRunOutcome(errCh <-chan error) (error, bool) {
	select {
	case err := <-errCh:
		return err, true
	default:
		return nil, false
	}
}

// buildOrchestrator wires the scraper in front of the shared ingester.
func buildOrchestrator(cfg *config.Config, db *sql.DB, subsRepo *subscriptions.Repository,
	scraperRunner runner.Runner, reporter ingest.ProgressReporter) *ingest.Orchestrator {
	scraper := gallerydl.NewClient(cfg.Scraper.Binary, scraperRunner)
	return ingest.NewOrchestrator(scraper, buildIngester(cfg, db, subsRepo, reporter))
}
