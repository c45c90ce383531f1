package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// TimestampLayout is the stored fetched_at/created_at format (ISO-8601, UTC offset).
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

type DB struct {
	*sql.DB
	path string
}

// Open connects to the sqlite file at path, creating parent directories as needed.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := sqlDB.Exec(pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	return &DB{DB: sqlDB, path: path}, nil
}

func (db *DB) Path() string {
	return db.path
}

// FormatTimestamp renders t in the stored timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Seed executes the SQL script at path when the episodes table is empty.
// It returns the number of episodes after seeding, and false when seeding was skipped.
func Seed(db *DB, path string) (int, bool, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM episodes`).Scan(&count); err != nil {
		return 0, false, fmt.Errorf("failed to count episodes: %w", err)
	}
	if count > 0 {
		return count, false, nil
	}

	script, err := os.ReadFile(path)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read seed file: %w", err)
	}
	if strings.TrimSpace(string(script)) == "" {
		return 0, false, nil
	}

	if _, err := db.Exec(string(script)); err != nil {
		return 0, false, fmt.Errorf("failed to apply seed file: %w", err)
	}

	if err := db.QueryRow(`SELECT COUNT(*) FROM episodes`).Scan(&count); err != nil {
		return 0, false, fmt.Errorf("failed to count episodes: %w", err)
	}

	return count, true, nil
}
