package media

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.stogram.sqlite"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
	CREATE TABLE photos (
		subscriptionId BLOB,
		created_time INTEGER,
		thumbnail_file TEXT,
		file TEXT,
		ownerName TEXT,
		ownerId INTEGER
	)`)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}

func insertRow(t *testing.T, db *sql.DB, repo *Repository, row Row) {
	t.Helper()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Insert(ctx, tx, row); err != nil {
		tx.Rollback()
		t.Fatalf("Insert failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
}

func TestInsertAndExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	subID := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	row := Row{
		SubscriptionID: subID,
		CreatedTime:    1756600000,
		File:           "instagram/alice/photo1.jpg",
		ThumbnailFile:  "instagram/alice/photo1.jpg",
		OwnerName:      "alice",
		OwnerID:        sql.NullInt64{Int64: 42, Valid: true},
	}

	exists, err := repo.Exists(ctx, row.File)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Fatal("row should not exist before insert")
	}

	insertRow(t, db, repo, row)

	exists, err = repo.Exists(ctx, row.File)
	if err != nil {
		t.Fatalf("Exists failed after insert: %v", err)
	}
	if !exists {
		t.Error("row should exist after insert")
	}

	var file, thumb, owner string
	var ownerID sql.NullInt64
	var created int64
	var gotSub []byte
	err = db.QueryRow("SELECT subscriptionId, created_time, thumbnail_file, file, ownerName, ownerId FROM photos").
		Scan(&gotSub, &created, &thumb, &file, &owner, &ownerID)
	if err != nil {
		t.Fatal(err)
	}
	if string(gotSub) != string(subID) {
		t.Error("subscription id blob not stored verbatim")
	}
	if created != 1756600000 || owner != "alice" || !ownerID.Valid || ownerID.Int64 != 42 {
		t.Errorf("unexpected stored row: created=%d owner=%s ownerId=%+v", created, owner, ownerID)
	}
}

func TestInsertNullOwnerID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	insertRow(t, db, repo, Row{
		SubscriptionID: []byte{1},
		CreatedTime:    1,
		File:           "instagram/bob/clip.mp4",
		ThumbnailFile:  "instagram/bob/thumbnails/clip.jpg",
		OwnerName:      "bob",
	})

	var ownerID sql.NullInt64
	if err := db.QueryRow("SELECT ownerId FROM photos").Scan(&ownerID); err != nil {
		t.Fatal(err)
	}
	if ownerID.Valid {
		t.Errorf("expected NULL ownerId, got %+v", ownerID)
	}
}

func TestInsertRollback(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Insert(ctx, tx, Row{File: "instagram/alice/x.jpg"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatal(err)
	}

	exists, err := repo.Exists(ctx, "instagram/alice/x.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("rolled back insert must not be visible")
	}
}

func TestCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	insertRow(t, db, repo, Row{File: "instagram/alice/a.jpg", OwnerName: "alice"})
	insertRow(t, db, repo, Row{File: "instagram/alice/b.jpg", OwnerName: "alice"})
	insertRow(t, db, repo, Row{File: "instagram/bob/c.jpg", OwnerName: "bob"})

	count, err := repo.Count(ctx, "alice")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 rows for alice, got %d", count)
	}
}
