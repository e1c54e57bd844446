// Package store provides SQLite-backed staging for hand snapshots
// captured from the live pipeline, before they are promoted into the
// evaluation corpus.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is the staging database. The serve pipeline writes samples
// into it while the promote command drains them.
type Store struct {
	db *sql.DB
}

// New opens the database at dbPath, creating it if needed, and brings
// the schema up to date.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// serve and promote may hold the file at the same time; wait out
	// short write locks instead of failing.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
