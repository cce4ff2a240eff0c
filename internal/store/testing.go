package store

import (
	"database/sql"
	"fmt"
)

// OpenTest creates a DB backed by an in-memory SQLite database with the
// full schema applied. Only intended for use in tests.
func OpenTest() (*DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &DB{db}, nil
}
