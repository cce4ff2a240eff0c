package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertActivity stores a completed run and its cumulative GPS series.
func (db *DB) InsertActivity(a *Activity, samples []ActivitySample) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var inferred *string
	if a.InferredType != nil {
		t := string(*a.InferredType)
		inferred = &t
	}

	result, err := tx.Exec(`
		INSERT INTO activities (athlete_id, name, start_date, distance_meters, moving_time_s, inferred_type, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.AthleteID, a.Name, a.StartDate.Format(time.RFC3339),
		a.DistanceMeters, a.MovingTimeS, inferred, a.Comment)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, s := range samples {
		_, err := tx.Exec(`
			INSERT INTO activity_samples (activity_id, time_s, distance_m)
			VALUES (?, ?, ?)
		`, id, s.TimeS, s.DistanceM)
		if err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

// GetActivity retrieves an activity by ID.
func (db *DB) GetActivity(id int64) (*Activity, error) {
	row := db.QueryRow(`
		SELECT id, athlete_id, name, start_date, distance_meters, moving_time_s, inferred_type, comment
		FROM activities WHERE id = ?
	`, id)

	var a Activity
	var startDate string
	var inferred *string
	err := row.Scan(&a.ID, &a.AthleteID, &a.Name, &startDate, &a.DistanceMeters,
		&a.MovingTimeS, &inferred, &a.Comment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	if inferred != nil {
		t := WorkoutType(*inferred)
		a.InferredType = &t
	}
	if a.StartDate, err = time.Parse(time.RFC3339, startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, err)
	}
	return &a, nil
}

// SetInferredType records the classifier's verdict for an activity.
func (db *DB) SetInferredType(activityID int64, t WorkoutType) error {
	result, err := db.Exec(`
		UPDATE activities SET inferred_type = ? WHERE id = ?
	`, string(t), activityID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// SamplesForActivity returns an activity's cumulative series in time
// order.
func (db *DB) SamplesForActivity(activityID int64) ([]ActivitySample, error) {
	rows, err := db.Query(`
		SELECT activity_id, time_s, distance_m
		FROM activity_samples
		WHERE activity_id = ?
		ORDER BY time_s
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []ActivitySample
	for rows.Next() {
		var s ActivitySample
		if err := rows.Scan(&s.ActivityID, &s.TimeS, &s.DistanceM); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// RecentComments returns non-empty activity comments from the trailing
// window, newest first. Feeds the no-prior-block adjustment path.
func (db *DB) RecentComments(athleteID int64, since time.Time) ([]string, error) {
	rows, err := db.Query(`
		SELECT comment FROM activities
		WHERE athlete_id = ? AND start_date >= ? AND comment IS NOT NULL AND comment != ''
		ORDER BY start_date DESC
	`, athleteID, since.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// TrailingWeeklyVolume returns the athlete's average weekly distance in
// kilometers over the trailing given number of days.
func (db *DB) TrailingWeeklyVolume(athleteID int64, days int, now time.Time) (float64, error) {
	since := now.AddDate(0, 0, -days)

	var totalMeters sql.NullFloat64
	err := db.QueryRow(`
		SELECT SUM(distance_meters) FROM activities
		WHERE athlete_id = ? AND start_date >= ?
	`, athleteID, since.Format(time.RFC3339)).Scan(&totalMeters)
	if err != nil {
		return 0, err
	}
	if !totalMeters.Valid {
		return 0, nil
	}

	weeks := float64(days) / 7
	return totalMeters.Float64 / 1000 / weeks, nil
}
