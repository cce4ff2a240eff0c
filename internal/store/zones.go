package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveZoneSnapshot persists a newly derived pace-zone set, superseding
// any previous current snapshot for the athlete. Old snapshots are kept
// for audit.
func (db *DB) SaveZoneSnapshot(z *ZoneSnapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE zone_snapshots SET superseded_at = ?
		WHERE athlete_id = ? AND superseded_at IS NULL
	`, time.Now().UTC().Format(time.RFC3339), z.AthleteID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO zone_snapshots (
			athlete_id, fitness_index, easy_min, easy_max, marathon_pace,
			threshold_min, threshold_max, interval_min, interval_max,
			repetition_min, repetition_max
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, z.AthleteID, z.FitnessIndex, z.EasyMin, z.EasyMax, z.MarathonPace,
		z.ThresholdMin, z.ThresholdMax, z.IntervalMin, z.IntervalMax,
		z.RepetitionMin, z.RepetitionMax)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// CurrentZoneSnapshot returns the athlete's current pace zones, or
// ErrRecordNotFound when none have been derived yet.
func (db *DB) CurrentZoneSnapshot(athleteID int64) (*ZoneSnapshot, error) {
	row := db.QueryRow(`
		SELECT id, athlete_id, fitness_index, easy_min, easy_max, marathon_pace,
			threshold_min, threshold_max, interval_min, interval_max,
			repetition_min, repetition_max, created_at, superseded_at
		FROM zone_snapshots
		WHERE athlete_id = ? AND superseded_at IS NULL
	`, athleteID)

	var z ZoneSnapshot
	var createdAt string
	var supersededAt sql.NullString

	err := row.Scan(
		&z.ID, &z.AthleteID, &z.FitnessIndex, &z.EasyMin, &z.EasyMax,
		&z.MarathonPace, &z.ThresholdMin, &z.ThresholdMax, &z.IntervalMin,
		&z.IntervalMax, &z.RepetitionMin, &z.RepetitionMax, &createdAt,
		&supersededAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	if z.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	if supersededAt.Valid {
		t, err := time.Parse(time.RFC3339, supersededAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing superseded_at %q: %w", supersededAt.String, err)
		}
		z.SupersededAt = &t
	}

	return &z, nil
}
