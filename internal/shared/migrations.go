package shared

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

const migrationDir = "sql"

// goose keeps its FS, dialect and logger in package state.
var gooseMu sync.Mutex

func withGoose(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return fn()
}

// loadMigrations returns the embedded migrations sorted by version.
func loadMigrations() (goose.Migrations, error) {
	var migrations goose.Migrations
	err := withGoose(func() error {
		var err error
		migrations, err = goose.CollectMigrations(migrationDir, 0, goose.MaxVersion)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	return migrations, nil
}

// RunMigrations executes all pending migrations on the database.
// Applied versions are tracked by goose in goose_db_version.
func RunMigrations(db *sql.DB) error {
	return withGoose(func() error {
		if err := goose.Up(db, migrationDir); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		return nil
	})
}

// RollbackMigration rolls back the most recent migration.
func RollbackMigration(db *sql.DB) error {
	return withGoose(func() error {
		version, err := goose.GetDBVersion(db)
		if err != nil {
			return fmt.Errorf("failed to get current version: %w", err)
		}
		if version == 0 {
			return fmt.Errorf("no migrations to rollback")
		}
		if err := goose.Down(db, migrationDir); err != nil {
			return fmt.Errorf("failed to rollback migration %d: %w", version, err)
		}
		return nil
	})
}

// MigrationVersion returns the highest applied migration version.
func MigrationVersion(db *sql.DB) (int64, error) {
	var version int64
	err := withGoose(func() error {
		var err error
		version, err = goose.GetDBVersion(db)
		return err
	})
	return version, err
}
