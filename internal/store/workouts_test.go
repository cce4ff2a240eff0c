package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWorkout(t *testing.T, db *DB, date time.Time) string {
	t.Helper()
	block := testBlock("blk-1", 1)
	require.NoError(t, db.CreateBlock(block, []PlannedWorkout{testWorkout("w-1", "blk-1", date)}, nil))
	return "w-1"
}

func TestCompleteWorkout(t *testing.T) {
	db := newTestDB(t)
	id := seedWorkout(t, db, time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC))

	require.NoError(t, db.CompleteWorkout(id, 77))

	got, err := db.GetWorkout(id)
	require.NoError(t, err)
	assert.Equal(t, WorkoutCompleted, got.Status)
	require.NotNil(t, got.CompletedActivityID)
	assert.Equal(t, int64(77), *got.CompletedActivityID)

	// Transitions are forward-only.
	assert.ErrorIs(t, db.CompleteWorkout(id, 78), ErrInvalidTransition)
	assert.ErrorIs(t, db.SkipWorkout(id), ErrInvalidTransition)
}

func TestSkipWorkout(t *testing.T) {
	db := newTestDB(t)
	id := seedWorkout(t, db, time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC))

	require.NoError(t, db.SkipWorkout(id))

	got, err := db.GetWorkout(id)
	require.NoError(t, err)
	assert.Equal(t, WorkoutSkipped, got.Status)
	assert.Nil(t, got.CompletedActivityID)
}

func TestRescheduleWorkout(t *testing.T) {
	now := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	t.Run("future workout moves", func(t *testing.T) {
		db := newTestDB(t)
		id := seedWorkout(t, db, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
		newDate := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

		require.NoError(t, db.RescheduleWorkout(id, newDate, now))

		got, err := db.GetWorkout(id)
		require.NoError(t, err)
		assert.Equal(t, WorkoutRescheduled, got.Status)
		assert.True(t, got.ScheduledDate.Equal(newDate))

		// A rescheduled workout can still be completed.
		require.NoError(t, db.CompleteWorkout(id, 5))
	})

	t.Run("past workout is locked", func(t *testing.T) {
		db := newTestDB(t)
		id := seedWorkout(t, db, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

		err := db.RescheduleWorkout(id, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), now)
		assert.ErrorIs(t, err, ErrRescheduleNotAllowed)
	})

	t.Run("completed workout is locked", func(t *testing.T) {
		db := newTestDB(t)
		id := seedWorkout(t, db, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, db.CompleteWorkout(id, 9))

		err := db.RescheduleWorkout(id, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), now)
		assert.ErrorIs(t, err, ErrRescheduleNotAllowed)
	})
}

func TestWorkoutOnDate(t *testing.T) {
	db := newTestDB(t)
	date := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	id := seedWorkout(t, db, date)

	got, err := db.WorkoutOnDate(1, date)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = db.WorkoutOnDate(1, date.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	// Only the active block's schedule is matched.
	require.NoError(t, db.SetBlockStatus("blk-1", BlockAbandoned))
	_, err = db.WorkoutOnDate(1, date)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}
