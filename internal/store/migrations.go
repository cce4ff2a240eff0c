package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Performance records. Superseded rows are kept for audit; the
		// partial unique index enforces at most one current record per
		// athlete and distance.
		`CREATE TABLE IF NOT EXISTS performance_records (
			id INTEGER PRIMARY KEY,
			athlete_id INTEGER NOT NULL,
			distance_label TEXT NOT NULL,
			distance_meters REAL NOT NULL,
			time_seconds REAL NOT NULL,
			achieved_at TEXT NOT NULL,
			is_current INTEGER NOT NULL DEFAULT 1,
			superseded_at TEXT,
			activity_id INTEGER,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_records_current
			ON performance_records(athlete_id, distance_label)
			WHERE is_current = 1`,

		// Pace-zone snapshots, superseded rather than deleted.
		`CREATE TABLE IF NOT EXISTS zone_snapshots (
			id INTEGER PRIMARY KEY,
			athlete_id INTEGER NOT NULL,
			fitness_index REAL NOT NULL,
			easy_min REAL NOT NULL,
			easy_max REAL NOT NULL,
			marathon_pace REAL NOT NULL,
			threshold_min REAL NOT NULL,
			threshold_max REAL NOT NULL,
			interval_min REAL NOT NULL,
			interval_max REAL NOT NULL,
			repetition_min REAL NOT NULL,
			repetition_max REAL NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			superseded_at TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_zone_snapshots_athlete
			ON zone_snapshots(athlete_id)`,

		// Training blocks. The partial unique index backs the
		// one-active-block invariant alongside the transactional
		// check-and-insert in CreateBlock.
		`CREATE TABLE IF NOT EXISTS training_blocks (
			id TEXT PRIMARY KEY,
			athlete_id INTEGER NOT NULL,
			phase TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			days_per_week INTEGER NOT NULL,
			weeks INTEGER NOT NULL,
			target_weekly_volume_km REAL NOT NULL,
			easy_pct INTEGER NOT NULL,
			threshold_pct INTEGER NOT NULL,
			interval_pct INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_blocks_active
			ON training_blocks(athlete_id)
			WHERE status = 'active'`,

		`CREATE TABLE IF NOT EXISTS planned_workouts (
			id TEXT PRIMARY KEY,
			block_id TEXT NOT NULL,
			week_number INTEGER NOT NULL,
			scheduled_date TEXT NOT NULL,
			workout_type TEXT NOT NULL,
			distance_km REAL NOT NULL,
			pace_min_sec_km REAL NOT NULL,
			pace_max_sec_km REAL NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			completed_activity_id INTEGER,
			FOREIGN KEY (block_id) REFERENCES training_blocks(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workouts_block ON planned_workouts(block_id)`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_date ON planned_workouts(scheduled_date)`,

		`CREATE TABLE IF NOT EXISTS strength_sessions (
			id INTEGER PRIMARY KEY,
			block_id TEXT NOT NULL,
			scheduled_date TEXT NOT NULL,
			focus TEXT NOT NULL,
			duration_min INTEGER NOT NULL,
			FOREIGN KEY (block_id) REFERENCES training_blocks(id) ON DELETE CASCADE
		)`,

		// Feedback is append-only; corrections create new rows.
		`CREATE TABLE IF NOT EXISTS workout_feedback (
			id INTEGER PRIMARY KEY,
			workout_id TEXT NOT NULL,
			rpe INTEGER,
			difficulty TEXT,
			pain_locations TEXT NOT NULL DEFAULT '',
			pace_variance_pct REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (workout_id) REFERENCES planned_workouts(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_feedback_workout ON workout_feedback(workout_id)`,

		// Completed activities and their cumulative GPS series.
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			athlete_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			start_date TEXT NOT NULL,
			distance_meters REAL NOT NULL,
			moving_time_s INTEGER NOT NULL,
			inferred_type TEXT,
			comment TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_athlete_date
			ON activities(athlete_id, start_date)`,

		`CREATE TABLE IF NOT EXISTS activity_samples (
			activity_id INTEGER NOT NULL,
			time_s REAL NOT NULL,
			distance_m REAL NOT NULL,
			PRIMARY KEY (activity_id, time_s),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS injuries (
			id INTEGER PRIMARY KEY,
			athlete_id INTEGER NOT NULL,
			location TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1,
			occurrences INTEGER NOT NULL DEFAULT 1,
			noted_at TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_injuries_athlete ON injuries(athlete_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
