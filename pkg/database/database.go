// Package database locates and validates the 4K Stogram database file.
//
// The schema is owned by the Stogram application; this package only confirms
// the two tables this tool reads and writes are present.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	apperrors "stogramctl/pkg/errors"
)

const (
	// MediaTable is the Stogram table holding one row per downloaded asset.
	MediaTable = "photos"
	// SubscriptionsTable is the Stogram table holding tracked usernames.
	SubscriptionsTable = "subscriptions"
)

// Locate finds a database file in dir whose name ends with suffix.
// When several candidates exist the first one in directory-listing order
// wins; this nondeterminism matches the Stogram desktop behaviour.
func Locate(dir, suffix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrorTypeDatabaseNotFound,
			fmt.Sprintf("cannot read directory %s", dir), err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), suffix) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", apperrors.New(apperrors.ErrorTypeDatabaseNotFound,
		fmt.Sprintf("no %s file found in %s", suffix, dir))
}

// Validate opens the file read-only and confirms both required tables exist.
// It distinguishes a missing/unopenable database from one that opens but
// lacks the expected tables.
func Validate(path string) error {
	if _, err := os.Stat(path); err != nil {
		return apperrors.Wrap(apperrors.ErrorTypeDatabaseNotFound, path, err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrorTypeDatabaseInvalid, "cannot open database", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return apperrors.Wrap(apperrors.ErrorTypeDatabaseInvalid, "not a valid database", err)
	}

	for _, table := range []string{MediaTable, SubscriptionsTable} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			return apperrors.New(apperrors.ErrorTypeDatabaseInvalid,
				fmt.Sprintf("missing required table %s", table))
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrorTypeDatabaseInvalid, "not a valid database", err)
		}
	}

	return nil
}

// Open validates the database at path and returns a writable handle.
// Callers own the handle and close it when their operation completes.
func Open(path string) (*sql.DB, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeDatabaseInvalid, "cannot open database", err)
	}

	return db, nil
}

// Resolve returns the database path from an explicit configuration value,
// falling back to suffix discovery in searchDir.
func Resolve(explicit, searchDir, suffix string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", apperrors.Wrap(apperrors.ErrorTypeDatabaseNotFound, explicit, err)
		}
		return explicit, nil
	}
	return Locate(searchDir, suffix)
}
