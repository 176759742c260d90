package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "stogramctl/pkg/errors"
	"stogramctl/pkg/gallerydl"
	"stogramctl/pkg/subscriptions"
)

// Orchestrator drives the full fetch pipeline: invoke the scraper into the
// per-user directory, then reconcile the directory into the database.
type Orchestrator struct {
	scraper  *gallerydl.Client
	ingester *Ingester
	reporter ProgressReporter
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(scraper *gallerydl.Client, ingester *Ingester) *Orchestrator {
	return &Orchestrator{
		scraper:  scraper,
		ingester: ingester,
		reporter: ingester.reporter,
	}
}

// FetchRequest describes one fetch-and-reconcile run. The target username
// comes from the subscription itself.
type FetchRequest struct {
	MediaType string
	Browser   string
	PostLimit int
}

// Run fetches media for the subscription and reconciles the results.
//
// A scraper failure aborts the run before any database work; files the
// scraper wrote before failing stay on disk and are picked up by a later
// run, subject to the freshness window and path dedup.
func (o *Orchestrator) Run(ctx context.Context, sub *subscriptions.Subscription, req FetchRequest) (*Summary, error) {
	userDir := o.ingester.UserDir(sub.Query)
	thumbDir := filepath.Join(userDir, o.ingester.opts.ThumbnailDirName)
	for _, dir := range []string{userDir, thumbDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrorTypeStorage, "cannot create media directory", err)
		}
	}

	o.reporter.Line(fmt.Sprintf("Downloading %s from Instagram for @%s...",
		strings.ToLower(req.MediaType), sub.Query))

	err := o.scraper.Fetch(ctx, gallerydl.Request{
		Username:  sub.Query,
		MediaType: req.MediaType,
		Browser:   req.Browser,
		PostLimit: req.PostLimit,
		OutputDir: userDir,
	})
	if err != nil {
		o.reporter.Line(fmt.Sprintf("gallery-dl failed: %v", err))
		return nil, err
	}

	return o.ingester.Reconcile(ctx, sub)
}
