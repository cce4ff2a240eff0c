package store

import (
	"fmt"
	"strings"
	"time"
)

// AddWorkoutFeedback stores the athlete's report for a completed workout.
// Feedback is immutable once created.
func (db *DB) AddWorkoutFeedback(fb *WorkoutFeedback) error {
	var difficulty *string
	if fb.Difficulty != nil {
		d := string(*fb.Difficulty)
		difficulty = &d
	}

	_, err := db.Exec(`
		INSERT INTO workout_feedback (workout_id, rpe, difficulty, pain_locations, pace_variance_pct)
		VALUES (?, ?, ?, ?, ?)
	`, fb.WorkoutID, fb.RPE, difficulty,
		strings.Join(fb.PainLocations, ","), fb.PaceVariancePct)
	return err
}

// FeedbackForBlock returns all feedback recorded for a block's workouts.
func (db *DB) FeedbackForBlock(blockID string) ([]WorkoutFeedback, error) {
	rows, err := db.Query(`
		SELECT f.id, f.workout_id, f.rpe, f.difficulty, f.pain_locations,
			f.pace_variance_pct, f.created_at
		FROM workout_feedback f
		JOIN planned_workouts w ON w.id = f.workout_id
		WHERE w.block_id = ?
		ORDER BY f.created_at
	`, blockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedback []WorkoutFeedback
	for rows.Next() {
		var fb WorkoutFeedback
		var difficulty *string
		var pain, createdAt string

		err := rows.Scan(&fb.ID, &fb.WorkoutID, &fb.RPE, &difficulty, &pain,
			&fb.PaceVariancePct, &createdAt)
		if err != nil {
			return nil, err
		}

		if difficulty != nil {
			d := Difficulty(*difficulty)
			fb.Difficulty = &d
		}
		if pain != "" {
			fb.PainLocations = strings.Split(pain, ",")
		}
		if fb.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
		}
		feedback = append(feedback, fb)
	}
	return feedback, rows.Err()
}

// AddInjury records or escalates an injury. A repeat report for the same
// location increments its occurrence count and reactivates it.
func (db *DB) AddInjury(athleteID int64, location string, notedAt time.Time) error {
	result, err := db.Exec(`
		UPDATE injuries
		SET occurrences = occurrences + 1, active = 1, noted_at = ?
		WHERE athlete_id = ? AND location = ?
	`, notedAt.Format(time.RFC3339), athleteID, location)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	_, err = db.Exec(`
		INSERT INTO injuries (athlete_id, location, active, occurrences, noted_at)
		VALUES (?, ?, 1, 1, ?)
	`, athleteID, location, notedAt.Format(time.RFC3339))
	return err
}

// ResolveInjury marks an injury inactive.
func (db *DB) ResolveInjury(athleteID int64, location string) error {
	_, err := db.Exec(`
		UPDATE injuries SET active = 0
		WHERE athlete_id = ? AND location = ?
	`, athleteID, location)
	return err
}

// Injuries returns all injuries for an athlete, active first.
func (db *DB) Injuries(athleteID int64) ([]Injury, error) {
	rows, err := db.Query(`
		SELECT id, athlete_id, location, active, occurrences, noted_at
		FROM injuries
		WHERE athlete_id = ?
		ORDER BY active DESC, occurrences DESC
	`, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var injuries []Injury
	for rows.Next() {
		var in Injury
		var active int64
		var notedAt string
		if err := rows.Scan(&in.ID, &in.AthleteID, &in.Location, &active, &in.Occurrences, &notedAt); err != nil {
			return nil, err
		}
		in.Active = active == 1
		if in.NotedAt, err = time.Parse(time.RFC3339, notedAt); err != nil {
			return nil, fmt.Errorf("parsing noted_at %q: %w", notedAt, err)
		}
		injuries = append(injuries, in)
	}
	return injuries, rows.Err()
}
