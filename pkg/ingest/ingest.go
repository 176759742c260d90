// Package ingest reconciles downloaded media files into the Stogram
// database.
//
// Reconciliation matches files in a per-user directory against the photos
// table, generates video thumbnails, and inserts one row per new file.
// Dedup is by the file's relative path, which makes every run idempotent:
// the freshness window may re-surface files from a previous run, but a
// path already recorded is skipped, never inserted twice.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "stogramctl/pkg/errors"
	"stogramctl/pkg/logger"
	"stogramctl/pkg/media"
	"stogramctl/pkg/subscriptions"
	"stogramctl/pkg/thumbnail"
)

// mediaExtensions are the file types eligible for ingestion.
var mediaExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".mp4":  true,
}

// ProgressReporter receives human-readable progress lines, one per file
// decision, as they happen.
type ProgressReporter interface {
	Line(text string)
}

// LineFunc adapts a function to the ProgressReporter interface.
type LineFunc func(string)

func (f LineFunc) Line(text string) { f(text) }

// Summary counts the outcomes of one reconciliation run.
type Summary struct {
	Inserted int
	Skipped  int
}

// Options configures an Ingester.
type Options struct {
	// BaseDir is the media root; relative paths stored in the database
	// are computed from its parent directory.
	BaseDir string
	// ThumbnailDirName is the per-user subdirectory for video thumbnails.
	ThumbnailDirName string
	// FreshWindow scopes a scrape-driven reconciliation to recently
	// created files. The boundary is inclusive.
	FreshWindow time.Duration
	// Now supplies the clock; defaults to time.Now.
	Now func() time.Time
}

// Ingester reconciles a per-user media directory into the database.
type Ingester struct {
	db       *sql.DB
	subs     *subscriptions.Repository
	media    *media.Repository
	thumbs   *thumbnail.Extractor
	opts     Options
	reporter ProgressReporter
	log      logger.Logger
}

// New creates an Ingester.
func New(db *sql.DB, subs *subscriptions.Repository, mediaRepo *media.Repository,
	thumbs *thumbnail.Extractor, opts Options, reporter ProgressReporter) *Ingester {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if reporter == nil {
		reporter = LineFunc(func(string) {})
	}
	return &Ingester{
		db:       db,
		subs:     subs,
		media:    mediaRepo,
		thumbs:   thumbs,
		opts:     opts,
		reporter: reporter,
		log:      logger.GetLogger(),
	}
}

// UserDir returns the media directory for a username.
func (i *Ingester) UserDir(username string) string {
	return filepath.Join(i.opts.BaseDir, username)
}

// Reconcile matches files created within the freshness window against the
// photos table and inserts the new ones. All inserts share one transaction
// committed at the end.
func (i *Ingester) Reconcile(ctx context.Context, sub *subscriptions.Subscription) (*Summary, error) {
	userDir := i.UserDir(sub.Query)
	cutoff := i.opts.Now().Add(-i.opts.FreshWindow)

	i.reporter.Line(fmt.Sprintf("Scanning for new media in %s (created within last %s)...",
		userDir, i.opts.FreshWindow))

	fresh := func(info fs.FileInfo) bool {
		return !info.ModTime().Before(cutoff)
	}
	return i.reconcileDir(ctx, sub, userDir, fresh, i.scrapeThumbPath)
}

// ImportDirectory forces every eligible file in the per-user directory
// through the reconciliation pipeline, with no freshness window. Video
// thumbnails are written beside the video, matching the manual-add flow.
func (i *Ingester) ImportDirectory(ctx context.Context, sub *subscriptions.Subscription) (*Summary, error) {
	userDir := i.UserDir(sub.Query)
	if _, err := os.Stat(userDir); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeStorage,
			fmt.Sprintf("path does not exist: %s", userDir), err)
	}

	all := func(fs.FileInfo) bool { return true }
	return i.reconcileDir(ctx, sub, userDir, all, i.siblingThumbPath)
}

// ImportFiles copies arbitrary files into the per-user directory and then
// imports the directory. A copy is skipped when a same-named file already
// exists at the destination; the existing file wins.
func (i *Ingester) ImportFiles(ctx context.Context, sub *subscriptions.Subscription, paths []string) (*Summary, error) {
	userDir := i.UserDir(sub.Query)
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeStorage, "cannot create user directory", err)
	}

	for _, src := range paths {
		dst := filepath.Join(userDir, filepath.Base(src))
		if _, err := os.Stat(dst); err == nil {
			i.reporter.Line(fmt.Sprintf("Already present, not copying: %s", filepath.Base(src)))
			continue
		}
		if err := copyFile(src, dst); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrorTypeStorage,
				fmt.Sprintf("failed to copy %s", src), err)
		}
		i.reporter.Line(fmt.Sprintf("Copied: %s", filepath.Base(src)))
	}

	return i.ImportDirectory(ctx, sub)
}

// scrapeThumbPath places video thumbnails in the per-user thumbnails
// subdirectory.
func (i *Ingester) scrapeThumbPath(userDir, filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return filepath.Join(userDir, i.opts.ThumbnailDirName, stem+".jpg")
}

// siblingThumbPath places video thumbnails beside the video itself.
func (i *Ingester) siblingThumbPath(userDir, filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return filepath.Join(userDir, stem+".jpg")
}

// reconcileDir runs the per-candidate loop shared by all ingest variants.
func (i *Ingester) reconcileDir(ctx context.Context, sub *subscriptions.Subscription,
	userDir string, keep func(fs.FileInfo) bool, thumbPath func(userDir, filename string) string) (*Summary, error) {

	ownerID, err := i.subs.OwnerID(ctx, sub.Query)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(userDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeStorage,
			fmt.Sprintf("cannot read %s", userDir), err)
	}

	createdTime := i.opts.Now().Unix()
	baseParent := filepath.Dir(i.opts.BaseDir)

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeStorage, "cannot begin transaction", err)
	}
	defer tx.Rollback()

	summary := &Summary{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !mediaExtensions[ext] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !keep(info) {
			continue
		}

		fullPath := filepath.Join(userDir, entry.Name())
		relPath, err := filepath.Rel(baseParent, fullPath)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrorTypeStorage,
				fmt.Sprintf("cannot compute relative path for %s", fullPath), err)
		}

		exists, err := i.media.Exists(ctx, relPath)
		if err != nil {
			return nil, err
		}
		if exists {
			summary.Skipped++
			i.reporter.Line(fmt.Sprintf("Skipping existing: %s", entry.Name()))
			continue
		}

		thumbRel := relPath
		if ext == ".mp4" {
			thumb := thumbPath(userDir, entry.Name())
			if err := i.thumbs.Extract(ctx, fullPath, thumb); err != nil {
				// Thumbnail failures never block the insert; the row may
				// reference a thumbnail that was not produced.
				i.log.WithError(err).WithField("file", entry.Name()).Debug("thumbnail extraction failed")
			}
			thumbRel, err = filepath.Rel(baseParent, thumb)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrorTypeStorage,
					fmt.Sprintf("cannot compute relative path for %s", thumb), err)
			}
		}

		row := media.Row{
			SubscriptionID: sub.ID,
			CreatedTime:    createdTime,
			File:           relPath,
			ThumbnailFile:  thumbRel,
			OwnerName:      sub.Query,
			OwnerID:        ownerID,
		}
		if err := i.media.Insert(ctx, tx, row); err != nil {
			return nil, err
		}
		summary.Inserted++
		i.reporter.Line(fmt.Sprintf("Inserted: %s", entry.Name()))
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeStorage, "failed to commit ingest transaction", err)
	}

	i.reporter.Line(fmt.Sprintf("Done: %d inserted, %d skipped.", summary.Inserted, summary.Skipped))
	return summary, nil
}

// copyFile copies src to dst without preserving metadata.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	closeErr := out.Close()
	if err != nil {
		os.Remove(dst)
		return err
	}
	if closeErr != nil {
		os.Remove(dst)
		return closeErr
	}
	return nil
}
