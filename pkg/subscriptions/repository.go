// Package subscriptions reads and appends rows in the Stogram-owned
// subscriptions table.
package subscriptions

import (
	"context"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"stogramctl/pkg/database"
	apperrors "stogramctl/pkg/errors"
)

// defaultAttributes is the preferences blob Stogram stores per subscription.
// It is written verbatim at creation and never interpreted by this tool.
const defaultAttributes = `{"limited":"_BASE64_MA==","sortMode":"_BASE64_MQ==","visualIndex":"_BASE64_LTE="}`

// Subscription is one tracked username.
type Subscription struct {
	ID          []byte
	Query       string
	DisplayName string
	InstagramID sql.NullInt64
	DateAdded   string
}

// Receipt describes a newly created subscription, in the form surfaced to
// the user.
type Receipt struct {
	Username  string
	IDHex     string
	DateAdded string
}

// Repository provides access to the subscriptions table.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a repository over an open database handle.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// NewRepositoryWithClock creates a repository with an injected clock for tests.
func NewRepositoryWithClock(db *sql.DB, now func() time.Time) *Repository {
	return &Repository{db: db, now: now}
}

// Add inserts a new subscription for username and returns its receipt.
//
// The username is trimmed first; a blank result is refused. No uniqueness
// check is performed: adding the same username twice produces two rows with
// distinct identifiers, matching the Stogram registrar.
func (r *Repository) Add(ctx context.Context, username string) (*Receipt, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.New(apperrors.ErrorTypeEmptyInput, "username cannot be empty")
	}

	id := uuid.New()
	idHex := hex.EncodeToString(id[:])
	dateAdded := r.now().Format("2006-01-02T15:04:05")

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO "+database.SubscriptionsTable+" (id, query, attributes, display_name, date_added) VALUES (?, ?, ?, ?, ?)",
		id[:], username, defaultAttributes, username, dateAdded,
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeStorage, "failed to insert subscription", err)
	}

	return &Receipt{Username: username, IDHex: idHex, DateAdded: dateAdded}, nil
}

// List returns all subscriptions with both an identifier and a username.
func (r *Repository) List(ctx context.Context) ([]Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, query, date_added FROM "+database.SubscriptionsTable+" WHERE id IS NOT NULL AND query IS NOT NULL",
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeStorage, "failed to list subscriptions", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		var dateAdded sql.NullString
		if err := rows.Scan(&sub.ID, &sub.Query, &dateAdded); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrorTypeStorage, "failed to scan subscription", err)
		}
		sub.DateAdded = dateAdded.String
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// FindByUsername returns the first subscription whose query matches username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*Subscription, error) {
	var sub Subscription
	err := r.db.QueryRowContext(ctx,
		"SELECT id, query FROM "+database.SubscriptionsTable+" WHERE query = ? AND id IS NOT NULL",
		username,
	).Scan(&sub.ID, &sub.Query)
	if err == sql.ErrNoRows {
		return nil, apperrors.New(apperrors.ErrorTypeStorage, "no subscription for "+username)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeStorage, "failed to look up subscription", err)
	}
	return &sub, nil
}

// OwnerID resolves the external numeric account identifier for username.
// An absent subscription or a null instagram_id resolves to an invalid
// NullInt64, never an error.
func (r *Repository) OwnerID(ctx context.Context, username string) (sql.NullInt64, error) {
	var ownerID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT instagram_id FROM "+database.SubscriptionsTable+" WHERE query = ?",
		username,
	).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return sql.NullInt64{}, nil
	}
	if err != nil {
		return sql.NullInt64{}, apperrors.Wrap(apperrors.ErrorTypeStorage, "failed to resolve owner id", err)
	}
	return ownerID, nil
}
