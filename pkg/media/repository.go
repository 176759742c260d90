// Package media appends rows to the Stogram-owned photos table.
//
// Rows are insert-only: this tool never updates or deletes media records.
// The file column's relative path acts as the natural key for dedup.
package media

import (
	"context"
	"database/sql"

	"stogramctl/pkg/database"
	apperrors "stogramctl/pkg/errors"
)

// Row is one media record as written to the photos table.
type Row struct {
	SubscriptionID []byte
	CreatedTime    int64
	File           string
	ThumbnailFile  string
	OwnerName      string
	OwnerID        sql.NullInt64
}

// Repository provides access to the photos table.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository over an open database handle.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Exists reports whether a row with the exact relative path is already
// recorded.
func (r *Repository) Exists(ctx context.Context, relPath string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+database.MediaTable+" WHERE file = ?",
		relPath,
	).Scan(&count)
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrorTypeStorage, "failed to check media row", err)
	}
	return count > 0, nil
}

// Insert appends one media row inside the given transaction.
func (r *Repository) Insert(ctx context.Context, tx *sql.Tx, row Row) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO "+database.MediaTable+" (subscriptionId, created_time, thumbnail_file, file, ownerName, ownerId) VALUES (?, ?, ?, ?, ?, ?)",
		row.SubscriptionID, row.CreatedTime, row.ThumbnailFile, row.File, row.OwnerName, row.OwnerID,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrorTypeStorage, "failed to insert media row", err)
	}
	return nil
}

// Count returns the number of media rows for a username. Used by status
// output and tests.
func (r *Repository) Count(ctx context.Context, ownerName string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+database.MediaTable+" WHERE ownerName = ?",
		ownerName,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrorTypeStorage, "failed to count media rows", err)
	}
	return count, nil
}
