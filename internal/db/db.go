package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// OpenDB opens the backend store at path and brings its schema up to date.
func OpenDB(path string) (*sql.DB, error) {
	memory := path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if memory {
		// each :memory: connection is its own database
		database.SetMaxOpenConns(1)
	}

	if err := prepare(database); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func prepare(database *sql.DB) error {
	for _, p := range pragmas {
		if _, err := database.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := Migrate(database); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
