package store

import (
	"database/sql"
	"fmt"
	"time"
)

// WorkoutsForBlock returns a block's planned workouts in schedule order.
func (db *DB) WorkoutsForBlock(blockID string) ([]PlannedWorkout, error) {
	rows, err := db.Query(workoutSelect+`
		WHERE block_id = ?
		ORDER BY scheduled_date, id`, blockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// GetWorkout retrieves a planned workout by ID.
func (db *DB) GetWorkout(id string) (*PlannedWorkout, error) {
	rows, err := db.Query(workoutSelect+` WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts, err := scanWorkouts(rows)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, ErrWorkoutNotFound
	}
	return &workouts[0], nil
}

// WorkoutOnDate returns the scheduled workout for an athlete on a given
// date within the active block, if any.
func (db *DB) WorkoutOnDate(athleteID int64, date time.Time) (*PlannedWorkout, error) {
	rows, err := db.Query(workoutSelect+`
		WHERE scheduled_date = ?
			AND status = 'scheduled'
			AND block_id IN (
				SELECT id FROM training_blocks
				WHERE athlete_id = ? AND status = 'active'
			)
		LIMIT 1`, date.Format(dateFormat), athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts, err := scanWorkouts(rows)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, ErrWorkoutNotFound
	}
	return &workouts[0], nil
}

// CompleteWorkout marks a scheduled or rescheduled workout completed and
// links the completing activity.
func (db *DB) CompleteWorkout(id string, activityID int64) error {
	return db.transitionWorkout(id, WorkoutCompleted, &activityID)
}

// SkipWorkout marks a scheduled or rescheduled workout skipped.
func (db *DB) SkipWorkout(id string) error {
	return db.transitionWorkout(id, WorkoutSkipped, nil)
}

// transitionWorkout applies a forward-only status change.
func (db *DB) transitionWorkout(id string, to WorkoutStatus, activityID *int64) error {
	current, err := db.GetWorkout(id)
	if err != nil {
		return err
	}
	if current.Status != WorkoutScheduled && current.Status != WorkoutRescheduled {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}

	_, err = db.Exec(`
		UPDATE planned_workouts
		SET status = ?, completed_activity_id = ?
		WHERE id = ?
	`, string(to), activityID, id)
	return err
}

// RescheduleWorkout moves a workout to a new date and marks it
// rescheduled. Disallowed once the workout is completed or its scheduled
// date is in the past.
func (db *DB) RescheduleWorkout(id string, newDate, now time.Time) error {
	current, err := db.GetWorkout(id)
	if err != nil {
		return err
	}
	if current.Status == WorkoutCompleted || current.Status == WorkoutSkipped {
		return ErrRescheduleNotAllowed
	}
	if current.ScheduledDate.Before(now.Truncate(24 * time.Hour)) {
		return ErrRescheduleNotAllowed
	}

	_, err = db.Exec(`
		UPDATE planned_workouts
		SET scheduled_date = ?, status = ?
		WHERE id = ?
	`, newDate.Format(dateFormat), string(WorkoutRescheduled), id)
	return err
}

// StrengthSessionsForBlock returns a block's strengthening reminders in
// schedule order.
func (db *DB) StrengthSessionsForBlock(blockID string) ([]StrengthSession, error) {
	rows, err := db.Query(`
		SELECT id, block_id, scheduled_date, focus, duration_min
		FROM strength_sessions
		WHERE block_id = ?
		ORDER BY scheduled_date`, blockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []StrengthSession
	for rows.Next() {
		var s StrengthSession
		var date string
		if err := rows.Scan(&s.ID, &s.BlockID, &date, &s.Focus, &s.DurationMin); err != nil {
			return nil, err
		}
		if s.ScheduledDate, err = time.Parse(dateFormat, date); err != nil {
			return nil, fmt.Errorf("parsing scheduled_date %q: %w", date, err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

const workoutSelect = `
	SELECT id, block_id, week_number, scheduled_date, workout_type,
		distance_km, pace_min_sec_km, pace_max_sec_km, description, status,
		completed_activity_id
	FROM planned_workouts`

func scanWorkouts(rows *sql.Rows) ([]PlannedWorkout, error) {
	var workouts []PlannedWorkout
	for rows.Next() {
		var w PlannedWorkout
		var workoutType, status, date string
		var activityID sql.NullInt64

		err := rows.Scan(
			&w.ID, &w.BlockID, &w.WeekNumber, &date, &workoutType,
			&w.DistanceKm, &w.PaceMinSecKm, &w.PaceMaxSecKm, &w.Description,
			&status, &activityID,
		)
		if err != nil {
			return nil, err
		}

		w.Type = WorkoutType(workoutType)
		w.Status = WorkoutStatus(status)
		if activityID.Valid {
			id := activityID.Int64
			w.CompletedActivityID = &id
		}
		if w.ScheduledDate, err = time.Parse(dateFormat, date); err != nil {
			return nil, fmt.Errorf("parsing scheduled_date %q: %w", date, err)
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}
