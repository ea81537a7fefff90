// To handle all database interactions. This is our data access layer,
// keeping SQL queries separate from business logic.

package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by Get* functions when no row matches.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateKey is returned by insert-only operations when a row with
// the same key already exists. Callers that implement "insert if absent"
// semantics are expected to treat it as a skip, not a failure.
var ErrDuplicateKey = errors.New("duplicate key")

// Store provides all functions to interact with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store instance.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// isDuplicate reports whether err is a sqlite UNIQUE/PRIMARY KEY violation.
func isDuplicate(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// nullTime converts an optional time into a sql.NullTime for binding.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// timePtr converts a scanned sql.NullTime back into an optional time.
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// nullString converts an optional string into a sql.NullString for binding.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// stringPtr converts a scanned sql.NullString back into an optional string.
func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// nullInt converts an optional int into a sql.NullInt64 for binding.
func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// intPtr converts a scanned sql.NullInt64 back into an optional int.
func intPtr(i sql.NullInt64) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}
