package main

import (
	"database/sql"

	"stogramctl/pkg/config"
	"stogramctl/pkg/database"
	"stogramctl/pkg/ingest"
	"stogramctl/pkg/logger"
	"stogramctl/pkg/media"
	"stogramctl/pkg/runner"
	"stogramctl/pkg/subscriptions"
	"stogramctl/pkg/thumbnail"
	"stogramctl/pkg/ui"
)

// loadConfig loads configuration with the global flags applied and
// initializes logging.
func loadConfig(extraFlags map[string]interface{}) (*config.Config, error) {
	flags := map[string]interface{}{}
	if databasePath != "" {
		flags["database"] = databasePath
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	for k, v := range extraFlags {
		flags[k] = v
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, err
	}

	return cfg, nil
}

// openDatabase resolves and opens the Stogram database described by the
// configuration. The caller owns the handle.
func openDatabase(cfg *config.Config) (*sql.DB, string, error) {
	path, err := database.Resolve(cfg.Database.Path, cfg.Database.SearchDir, cfg.Database.Suffix)
	if err != nil {
		return nil, "", err
	}

	db, err := database.Open(path)
	if err != nil {
		return nil, "", err
	}

	ui.PrintInfo("Database", path)
	return db, path, nil
}

// buildIngester wires the reconciliation pipeline from configuration.
// Thumbnails always run quiet; ffmpeg chatter is never interesting at
// the console.
func buildIngester(cfg *config.Config, db *sql.DB, subsRepo *subscriptions.Repository,
	reporter ingest.ProgressReporter) *ingest.Ingester {
	thumbs := thumbnail.NewExtractor(cfg.Thumbnail.Binary, cfg.Thumbnail.SeekSeconds, runner.NewQuietRunner())

	return ingest.New(db, subsRepo, media.NewRepository(db), thumbs, ingest.Options{
		BaseDir:          cfg.Output.BaseDirectory,
		ThumbnailDirName: cfg.Output.ThumbnailDirName,
		FreshWindow:      cfg.Output.FreshWindow,
	}, reporter)
}
