package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SupersedePerformanceRecord records a new personal best for a distance.
// The new record only takes effect when it is strictly faster than the
// current one; in that case the old row is kept with is_current cleared
// and a superseded_at stamp rather than being overwritten. Returns true
// when the record became current.
func (db *DB) SupersedePerformanceRecord(pr *PerformanceRecord) (bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var currentID int64
	var currentTime float64
	err = tx.QueryRow(`
		SELECT id, time_seconds FROM performance_records
		WHERE athlete_id = ? AND distance_label = ? AND is_current = 1
	`, pr.AthleteID, pr.DistanceLabel).Scan(&currentID, &currentTime)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// First record for this distance.
	case err != nil:
		return false, err
	default:
		if pr.TimeSeconds >= currentTime {
			return false, nil
		}
		_, err = tx.Exec(`
			UPDATE performance_records
			SET is_current = 0, superseded_at = ?
			WHERE id = ?
		`, time.Now().UTC().Format(time.RFC3339), currentID)
		if err != nil {
			return false, err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO performance_records (
			athlete_id, distance_label, distance_meters, time_seconds,
			achieved_at, is_current, activity_id
		) VALUES (?, ?, ?, ?, ?, 1, ?)
	`, pr.AthleteID, pr.DistanceLabel, pr.DistanceMeters, pr.TimeSeconds,
		pr.AchievedAt.Format(time.RFC3339), pr.ActivityID)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// CurrentPerformanceRecords returns the athlete's current record for each
// distance, ordered by distance.
func (db *DB) CurrentPerformanceRecords(athleteID int64) ([]PerformanceRecord, error) {
	rows, err := db.Query(`
		SELECT id, athlete_id, distance_label, distance_meters, time_seconds,
			achieved_at, is_current, superseded_at, activity_id
		FROM performance_records
		WHERE athlete_id = ? AND is_current = 1
		ORDER BY distance_meters
	`, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPerformanceRecords(rows)
}

// RecordHistory returns every record ever set for a distance, newest
// first, including superseded rows.
func (db *DB) RecordHistory(athleteID int64, distanceLabel string) ([]PerformanceRecord, error) {
	rows, err := db.Query(`
		SELECT id, athlete_id, distance_label, distance_meters, time_seconds,
			achieved_at, is_current, superseded_at, activity_id
		FROM performance_records
		WHERE athlete_id = ? AND distance_label = ?
		ORDER BY achieved_at DESC
	`, athleteID, distanceLabel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPerformanceRecords(rows)
}

func scanPerformanceRecords(rows *sql.Rows) ([]PerformanceRecord, error) {
	var records []PerformanceRecord
	for rows.Next() {
		var pr PerformanceRecord
		var achievedAt string
		var supersededAt sql.NullString
		var current int64

		err := rows.Scan(
			&pr.ID, &pr.AthleteID, &pr.DistanceLabel, &pr.DistanceMeters,
			&pr.TimeSeconds, &achievedAt, &current, &supersededAt, &pr.ActivityID,
		)
		if err != nil {
			return nil, err
		}
		pr.IsCurrent = current == 1

		pr.AchievedAt, err = time.Parse(time.RFC3339, achievedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing achieved_at %q: %w", achievedAt, err)
		}
		if supersededAt.Valid {
			t, err := time.Parse(time.RFC3339, supersededAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing superseded_at %q: %w", supersededAt.String, err)
			}
			pr.SupersededAt = &t
		}
		records = append(records, pr)
	}
	return records, rows.Err()
}
