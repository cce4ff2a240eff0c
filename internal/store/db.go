package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrRecordNotFound is returned when a performance record doesn't exist.
var ErrRecordNotFound = errors.New("performance record not found")

// ErrBlockNotFound is returned when a training block doesn't exist.
var ErrBlockNotFound = errors.New("training block not found")

// ErrWorkoutNotFound is returned when a planned workout doesn't exist.
var ErrWorkoutNotFound = errors.New("planned workout not found")

// ErrActivityNotFound is returned when an activity doesn't exist.
var ErrActivityNotFound = errors.New("activity not found")

// ErrActiveBlockExists is returned when creating a block while another is
// still active for the same athlete.
var ErrActiveBlockExists = errors.New("an active training block already exists")

// ErrInvalidTransition is returned for a workout status change that would
// move the lifecycle backwards.
var ErrInvalidTransition = errors.New("invalid workout status transition")

// ErrRescheduleNotAllowed is returned when rescheduling a completed or
// past-dated workout.
var ErrRescheduleNotAllowed = errors.New("workout can no longer be rescheduled")

// DB wraps the SQLite connection and provides the data access layer.
type DB struct {
	*sql.DB
}

// Open opens the SQLite database at path, creating it if necessary, and
// runs migrations. An empty path defaults to ~/.runcoach/data.db.
func Open(path string) (*DB, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".runcoach", "data.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &DB{db}, nil
}
