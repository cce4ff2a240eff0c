package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// CreateBlock inserts a training block together with its planned workouts
// and strengthening sessions in one transaction. Creation is rejected
// with ErrActiveBlockExists while another block is active for the same
// athlete; the check runs inside the transaction and the partial unique
// index on (athlete_id) WHERE status='active' backs it against races
// between concurrent generators.
func (db *DB) CreateBlock(block *TrainingBlock, workouts []PlannedWorkout, strength []StrengthSession) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRow(`
		SELECT id FROM training_blocks
		WHERE athlete_id = ? AND status = 'active'
	`, block.AthleteID).Scan(&existing)
	if err == nil {
		return ErrActiveBlockExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO training_blocks (
			id, athlete_id, phase, start_date, end_date, days_per_week, weeks,
			target_weekly_volume_km, easy_pct, threshold_pct, interval_pct, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, block.ID, block.AthleteID, string(block.Phase),
		block.StartDate.Format(dateFormat), block.EndDate.Format(dateFormat),
		block.DaysPerWeek, block.Weeks, block.TargetWeeklyVolumeKm,
		block.EasyPct, block.ThresholdPct, block.IntervalPct, string(block.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrActiveBlockExists
		}
		return err
	}

	for _, w := range workouts {
		_, err = tx.Exec(`
			INSERT INTO planned_workouts (
				id, block_id, week_number, scheduled_date, workout_type,
				distance_km, pace_min_sec_km, pace_max_sec_km, description, status
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, w.ID, w.BlockID, w.WeekNumber, w.ScheduledDate.Format(dateFormat),
			string(w.Type), w.DistanceKm, w.PaceMinSecKm, w.PaceMaxSecKm,
			w.Description, string(w.Status))
		if err != nil {
			return err
		}
	}

	for _, s := range strength {
		_, err = tx.Exec(`
			INSERT INTO strength_sessions (block_id, scheduled_date, focus, duration_min)
			VALUES (?, ?, ?, ?)
		`, s.BlockID, s.ScheduledDate.Format(dateFormat), s.Focus, s.DurationMin)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// isUniqueViolation reports whether err is a SQLite unique constraint
// failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ActiveBlock returns the athlete's active training block, or
// ErrBlockNotFound when none exists.
func (db *DB) ActiveBlock(athleteID int64) (*TrainingBlock, error) {
	row := db.QueryRow(blockSelect+` WHERE athlete_id = ? AND status = 'active'`, athleteID)
	return scanBlock(row)
}

// LatestCompletedBlock returns the most recently ended completed block,
// or ErrBlockNotFound when the athlete has never completed one.
func (db *DB) LatestCompletedBlock(athleteID int64) (*TrainingBlock, error) {
	row := db.QueryRow(blockSelect+`
		WHERE athlete_id = ? AND status = 'completed'
		ORDER BY end_date DESC LIMIT 1`, athleteID)
	return scanBlock(row)
}

// GetBlock retrieves a block by ID.
func (db *DB) GetBlock(id string) (*TrainingBlock, error) {
	row := db.QueryRow(blockSelect+` WHERE id = ?`, id)
	return scanBlock(row)
}

// SetBlockStatus moves a block to a new lifecycle status.
func (db *DB) SetBlockStatus(id string, status BlockStatus) error {
	result, err := db.Exec(`UPDATE training_blocks SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBlockNotFound
	}
	return nil
}

// DeleteBlock removes a block on explicit user action. Workouts, strength
// sessions and feedback cascade.
func (db *DB) DeleteBlock(id string) error {
	result, err := db.Exec(`DELETE FROM training_blocks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBlockNotFound
	}
	return nil
}

const blockSelect = `
	SELECT id, athlete_id, phase, start_date, end_date, days_per_week, weeks,
		target_weekly_volume_km, easy_pct, threshold_pct, interval_pct, status, created_at
	FROM training_blocks`

func scanBlock(row *sql.Row) (*TrainingBlock, error) {
	var b TrainingBlock
	var phase, status, startDate, endDate, createdAt string

	err := row.Scan(
		&b.ID, &b.AthleteID, &phase, &startDate, &endDate, &b.DaysPerWeek,
		&b.Weeks, &b.TargetWeeklyVolumeKm, &b.EasyPct, &b.ThresholdPct,
		&b.IntervalPct, &status, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, err
	}

	b.Phase = Phase(phase)
	b.Status = BlockStatus(status)

	if b.StartDate, err = time.Parse(dateFormat, startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, err)
	}
	if b.EndDate, err = time.Parse(dateFormat, endDate); err != nil {
		return nil, fmt.Errorf("parsing end_date %q: %w", endDate, err)
	}
	if b.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}

	return &b, nil
}

// parseTimestamp accepts both RFC3339 and SQLite's CURRENT_TIMESTAMP
// format.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
