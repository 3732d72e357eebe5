// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/trackport/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// classifyInsert maps a failed insert onto the store error taxonomy.
// UNIQUE violations become [shared.ErrConflict]; everything else is a persistence failure.
func classifyInsert(entity string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %v", entity, shared.ErrConflict, err)
	}
	return fmt.Errorf("failed to insert %s: %w: %v", entity, shared.ErrPersistence, err)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

// classifyLookup turns [sql.ErrNoRows] into notFound and wraps any other failure.
func classifyLookup(entity string, err error, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return fmt.Errorf("failed to scan %s: %w: %v", entity, shared.ErrPersistence, err)
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func now() time.Time {
	return time.Now().UTC()
}
