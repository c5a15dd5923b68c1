package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// Open opens (or creates) the sqlite database at path and applies
// migrations. A file that cannot be opened or migrated is moved aside and
// replaced with a fresh database: duplicates may reappear once, but the
// pipeline keeps running.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := openAndMigrate(path)
	if err == nil {
		return db, nil
	}

	slog.Warn("Database unusable, starting fresh", "path", path, "error", err)
	if renameErr := os.Rename(path, path+".corrupt"); renameErr != nil && !os.IsNotExist(renameErr) {
		return nil, fmt.Errorf("failed to move corrupt database aside: %w", renameErr)
	}

	db, err = openAndMigrate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to recreate database: %w", err)
	}
	return db, nil
}

func openAndMigrate(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; the pipeline is single-process by contract.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{sqlDB}

	version, dirty, err := RunMigrations(db)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("Database ready", "path", path, "schema_version", version, "dirty", dirty)
	return db, nil
}
