package ingest

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"stogramctl/pkg/gallerydl"
	"stogramctl/pkg/media"
	"stogramctl/pkg/runner"
	"stogramctl/pkg/subscriptions"
	"stogramctl/pkg/thumbnail"
)

// testEnv bundles everything one ingest test needs.
type testEnv struct {
	db      *sql.DB
	subs    *subscriptions.Repository
	media   *media.Repository
	sub     *subscriptions.Subscription
	baseDir string
	userDir string
	lines   *[]string
	now     time.Time
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	baseDir := filepath.Join(root, "instagram")
	userDir := filepath.Join(baseDir, "alice")
	require.NoError(t, os.MkdirAll(filepath.Join(userDir, "thumbnails"), 0755))

	db, err := sql.Open("sqlite3", filepath.Join(root, "test.stogram.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
	CREATE TABLE subscriptions (
		id BLOB PRIMARY KEY,
		query TEXT,
		instagram_id INTEGER,
		attributes TEXT,
		display_name TEXT,
		date_added TEXT
	);
	CREATE TABLE photos (
		subscriptionId BLOB,
		created_time INTEGER,
		thumbnail_file TEXT,
		file TEXT,
		ownerName TEXT,
		ownerId INTEGER
	)`)
	require.NoError(t, err)

	subsRepo := subscriptions.NewRepository(db)
	_, err = subsRepo.Add(context.Background(), "alice")
	require.NoError(t, err)
	sub, err := subsRepo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	lines := []string{}
	return &testEnv{
		db:      db,
		subs:    subsRepo,
		media:   media.NewRepository(db),
		sub:     sub,
		baseDir: baseDir,
		userDir: userDir,
		lines:   &lines,
		// Whole seconds so boundary comparisons survive filesystem
		// timestamp granularity.
		now: time.Now().Truncate(time.Second),
	}
}

func (e *testEnv) ingester(t *testing.T, thumbRunner runner.Runner) *Ingester {
	t.Helper()

	reporter := LineFunc(func(s string) { *e.lines = append(*e.lines, s) })
	return New(e.db, e.subs, e.media,
		thumbnail.NewExtractor("ffmpeg", 3, thumbRunner),
		Options{
			BaseDir:          e.baseDir,
			ThumbnailDirName: "thumbnails",
			FreshWindow:      30 * time.Minute,
			Now:              func() time.Time { return e.now },
		},
		reporter,
	)
}

func (e *testEnv) writeFile(t *testing.T, name string, age time.Duration) string {
	t.Helper()

	path := filepath.Join(e.userDir, name)
	require.NoError(t, os.WriteFile(path, []byte("media"), 0644))
	mtime := e.now.Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func (e *testEnv) rows(t *testing.T) []media.Row {
	t.Helper()

	out := []media.Row{}
	rows, err := e.db.Query("SELECT file, thumbnail_file, ownerName, created_time FROM photos ORDER BY file")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var r media.Row
		require.NoError(t, rows.Scan(&r.File, &r.ThumbnailFile, &r.OwnerName, &r.CreatedTime))
		out = append(out, r)
	}
	return out
}

func (e *testEnv) hasLine(substr string) bool {
	for _, l := range *e.lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestReconcileImageAndVideo(t *testing.T) {
	env := setupEnv(t)
	fake := &runner.FakeRunner{}
	ing := env.ingester(t, fake)

	env.writeFile(t, "photo1.jpg", time.Minute)
	env.writeFile(t, "clip.mp4", time.Minute)

	summary, err := ing.Reconcile(context.Background(), env.sub)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 0, summary.Skipped)

	rows := env.rows(t)
	require.Len(t, rows, 2)

	videoRow := rows[0]
	imageRow := rows[1]
	require.Equal(t, filepath.Join("instagram", "alice", "clip.mp4"), videoRow.File)
	require.Equal(t, filepath.Join("instagram", "alice", "photo1.jpg"), imageRow.File)

	// Image thumbnail is the image itself.
	assert.Equal(t, imageRow.File, imageRow.ThumbnailFile)

	// Video thumbnail is a separate jpg under the thumbnails subdirectory.
	assert.NotEqual(t, videoRow.File, videoRow.ThumbnailFile)
	assert.True(t, strings.HasSuffix(videoRow.ThumbnailFile, ".jpg"))
	assert.Equal(t, filepath.Join("instagram", "alice", "thumbnails", "clip.jpg"), videoRow.ThumbnailFile)

	// ffmpeg was invoked once, for the video only.
	calls := fake.CallsTo("ffmpeg")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Args, filepath.Join(env.userDir, "clip.mp4"))
}

func TestReconcileIdempotent(t *testing.T) {
	env := setupEnv(t)
	ing := env.ingester(t, &runner.FakeRunner{})
	ctx := context.Background()

	env.writeFile(t, "photo1.jpg", time.Minute)

	// First run inserts, second run skips.
	_, err := ing.Reconcile(ctx, env.sub)
	require.NoError(t, err)

	summary, err := ing.Reconcile(ctx, env.sub)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 1, summary.Skipped)
	assert.True(t, env.hasLine("Skipping existing: photo1.jpg"))

	require.Len(t, env.rows(t), 1)
}

func TestFreshWindowBoundary(t *testing.T) {
	env := setupEnv(t)
	ing := env.ingester(t, &runner.FakeRunner{})

	// Exactly 30 minutes old is inclusive; 40 minutes is out.
	env.writeFile(t, "boundary.jpg", 30*time.Minute)
	env.writeFile(t, "stale.jpg", 40*time.Minute)

	summary, err := ing.Reconcile(context.Background(), env.sub)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)

	rows := env.rows(t)
	require.Len(t, rows, 1)
	assert.Equal(t, filepath.Join("instagram", "alice", "boundary.jpg"), rows[0].File)
}

func TestThumbnailFailureStillInserts(t *testing.T) {
	env := setupEnv(t)
	fake := &runner.FakeRunner{Err: errors.New("ffmpeg exited with code 1")}
	ing := env.ingester(t, fake)

	env.writeFile(t, "clip.mp4", time.Minute)

	summary, err := ing.Reconcile(context.Background(), env.sub)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)

	// Row still references the thumbnail path that was never produced.
	rows := env.rows(t)
	require.Len(t, rows, 1)
	assert.Equal(t, filepath.Join("instagram", "alice", "thumbnails", "clip.jpg"), rows[0].ThumbnailFile)
}

func TestReconcileIgnoresOtherExtensions(t *testing.T) {
	env := setupEnv(t)
	ing := env.ingester(t, &runner.FakeRunner{})

	env.writeFile(t, "notes.txt", time.Minute)
	env.writeFile(t, "photo.JPG", time.Minute) // extension match is case-insensitive

	summary, err := ing.Reconcile(context.Background(), env.sub)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
}

func TestReconcileSingleCreatedTime(t *testing.T) {
	env := setupEnv(t)
	ing := env.ingester(t, &runner.FakeRunner{})

	env.writeFile(t, "a.jpg", time.Minute)
	env.writeFile(t, "b.jpg", time.Minute)

	_, err := ing.Reconcile(context.Background(), env.sub)
	require.NoError(t, err)

	rows := env.rows(t)
	require.Len(t, rows, 2)
	assert.Equal(t, rows[0].CreatedTime, rows[1].CreatedTime)
	assert.Equal(t, env.now.Unix(), rows[0].CreatedTime)
}

func TestOrchestratorScraperFailure(t *testing.T) {
	env := setupEnv(t)

	partial := filepath.Join(env.userDir, "partial.jpg")
	fake := &runner.FakeRunner{
		ErrFor: func(name string, args []string) error {
			if name == "gallery-dl" {
				return errors.New("gallery-dl exited with code 1")
			}
			return nil
		},
		OnRun: func(name string, args []string) {
			if name == "gallery-dl" {
				os.WriteFile(partial, []byte("partial"), 0644)
			}
		},
	}

	ing := env.ingester(t, fake)
	orch := NewOrchestrator(gallerydl.NewClient("gallery-dl", fake), ing)

	_, err := orch.Run(context.Background(), env.sub, FetchRequest{
		MediaType: "posts",
		Browser:   "firefox",
		PostLimit: 10,
	})
	require.Error(t, err)

	// No rows inserted, failure reported, partial file left in place.
	assert.Empty(t, env.rows(t))
	assert.True(t, env.hasLine("gallery-dl failed"))
	_, statErr := os.Stat(partial)
	assert.NoError(t, statErr)
}

func TestOrchestratorSuccess(t *testing.T) {
	env := setupEnv(t)

	fake := &runner.FakeRunner{
		OnRun: func(name string, args []string) {
			if name == "gallery-dl" {
				path := filepath.Join(env.userDir, "fresh.jpg")
				os.WriteFile(path, []byte("media"), 0644)
			}
		},
	}

	ing := env.ingester(t, fake)
	orch := NewOrchestrator(gallerydl.NewClient("gallery-dl", fake), ing)

	summary, err := orch.Run(context.Background(), env.sub, FetchRequest{
		MediaType: "posts",
		Browser:   "firefox",
		PostLimit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)

	// The scraper was invoked with the expected contract.
	calls := fake.CallsTo("gallery-dl")
	require.Len(t, calls, 1)
	assert.Equal(t, "https://www.instagram.com/alice/", calls[0].Args[0])
	assert.Contains(t, calls[0].Args, "--cookies-from-browser")
	assert.Contains(t, calls[0].Args, env.userDir)
}

func TestImportDirectoryIgnoresFreshWindow(t *testing.T) {
	env := setupEnv(t)
	ing := env.ingester(t, &runner.FakeRunner{})

	// Far older than the window; manual import takes it anyway.
	env.writeFile(t, "old.jpg", 48*time.Hour)

	summary, err := ing.ImportDirectory(context.Background(), env.sub)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
}

func TestImportDirectoryVideoThumbnailBesideFile(t *testing.T) {
	env := setupEnv(t)
	ing := env.ingester(t, &runner.FakeRunner{})

	env.writeFile(t, "clip.mp4", time.Hour)

	_, err := ing.ImportDirectory(context.Background(), env.sub)
	require.NoError(t, err)

	rows := env.rows(t)
	require.Len(t, rows, 1)
	assert.Equal(t, filepath.Join("instagram", "alice", "clip.jpg"), rows[0].ThumbnailFile)
}

func TestImportDirectoryMissingPath(t *testing.T) {
	env := setupEnv(t)
	ing := env.ingester(t, &runner.FakeRunner{})

	_, err := env.subs.Add(context.Background(), "ghost")
	require.NoError(t, err)

	ghost, err := env.subs.FindByUsername(context.Background(), "ghost")
	require.NoError(t, err)

	_, err = ing.ImportDirectory(context.Background(), ghost)
	require.Error(t, err)
}

func TestImportFilesCopiesAndSkipsCollisions(t *testing.T) {
	env := setupEnv(t)
	ing := env.ingester(t, &runner.FakeRunner{})
	ctx := context.Background()

	// A source file elsewhere on disk.
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "imported.jpg")
	require.NoError(t, os.WriteFile(src, []byte("from elsewhere"), 0644))

	// A colliding name already present in the user directory.
	existing := filepath.Join(env.userDir, "taken.jpg")
	require.NoError(t, os.WriteFile(existing, []byte("original content"), 0644))
	srcCollision := filepath.Join(srcDir, "taken.jpg")
	require.NoError(t, os.WriteFile(srcCollision, []byte("new content"), 0644))

	summary, err := ing.ImportFiles(ctx, env.sub, []string{src, srcCollision})
	require.NoError(t, err)

	// Both files end up ingested (copied one and the pre-existing one).
	assert.Equal(t, 2, summary.Inserted)

	// The collision was not overwritten.
	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "original content", string(content))

	// The copied file is in place.
	copied, err := os.ReadFile(filepath.Join(env.userDir, "imported.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "from elsewhere", string(copied))
}
