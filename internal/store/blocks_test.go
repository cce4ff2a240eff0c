package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBlock(id string, athleteID int64) *TrainingBlock {
	start := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	return &TrainingBlock{
		ID:                   id,
		AthleteID:            athleteID,
		Phase:                PhaseBase,
		StartDate:            start,
		EndDate:              start.AddDate(0, 0, 27),
		DaysPerWeek:          3,
		Weeks:                4,
		TargetWeeklyVolumeKm: 20,
		EasyPct:              85,
		ThresholdPct:         10,
		IntervalPct:          5,
		Status:               BlockActive,
	}
}

func testWorkout(id, blockID string, date time.Time) PlannedWorkout {
	return PlannedWorkout{
		ID:            id,
		BlockID:       blockID,
		WeekNumber:    1,
		ScheduledDate: date,
		Type:          WorkoutEasy,
		DistanceKm:    6,
		PaceMinSecKm:  364,
		PaceMaxSecKm:  407,
		Description:   "6.0km easy run",
		Status:        WorkoutScheduled,
	}
}

func TestCreateBlock_SingleActivePerAthlete(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.CreateBlock(testBlock("blk-1", 1), nil, nil))

	err := db.CreateBlock(testBlock("blk-2", 1), nil, nil)
	assert.ErrorIs(t, err, ErrActiveBlockExists)

	// A different athlete is unaffected.
	require.NoError(t, db.CreateBlock(testBlock("blk-3", 2), nil, nil))

	// Completing the first block frees the slot.
	require.NoError(t, db.SetBlockStatus("blk-1", BlockCompleted))
	require.NoError(t, db.CreateBlock(testBlock("blk-4", 1), nil, nil))
}

func TestCreateBlock_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	block := testBlock("blk-1", 1)
	workouts := []PlannedWorkout{
		testWorkout("w-1", "blk-1", block.StartDate.AddDate(0, 0, 1)),
		testWorkout("w-2", "blk-1", block.StartDate.AddDate(0, 0, 3)),
	}
	strength := []StrengthSession{
		{BlockID: "blk-1", ScheduledDate: block.StartDate, Focus: "core and hip stability", DurationMin: 20},
	}
	require.NoError(t, db.CreateBlock(block, workouts, strength))

	got, err := db.ActiveBlock(1)
	require.NoError(t, err)
	assert.Equal(t, "blk-1", got.ID)
	assert.Equal(t, PhaseBase, got.Phase)
	assert.True(t, got.StartDate.Equal(block.StartDate))
	assert.True(t, got.EndDate.Equal(block.EndDate))
	assert.Equal(t, 20.0, got.TargetWeeklyVolumeKm)

	gotWorkouts, err := db.WorkoutsForBlock("blk-1")
	require.NoError(t, err)
	require.Len(t, gotWorkouts, 2)
	assert.Equal(t, "w-1", gotWorkouts[0].ID)
	assert.Equal(t, WorkoutScheduled, gotWorkouts[0].Status)
	assert.Nil(t, gotWorkouts[0].CompletedActivityID)

	sessions, err := db.StrengthSessionsForBlock("blk-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "core and hip stability", sessions[0].Focus)
}

func TestActiveBlock_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.ActiveBlock(42)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestLatestCompletedBlock(t *testing.T) {
	db := newTestDB(t)

	first := testBlock("blk-1", 1)
	require.NoError(t, db.CreateBlock(first, nil, nil))
	require.NoError(t, db.SetBlockStatus("blk-1", BlockCompleted))

	second := testBlock("blk-2", 1)
	second.StartDate = first.EndDate.AddDate(0, 0, 1)
	second.EndDate = second.StartDate.AddDate(0, 0, 27)
	require.NoError(t, db.CreateBlock(second, nil, nil))
	require.NoError(t, db.SetBlockStatus("blk-2", BlockCompleted))

	latest, err := db.LatestCompletedBlock(1)
	require.NoError(t, err)
	assert.Equal(t, "blk-2", latest.ID)
}

func TestDeleteBlock_Cascades(t *testing.T) {
	db := newTestDB(t)

	block := testBlock("blk-1", 1)
	workouts := []PlannedWorkout{testWorkout("w-1", "blk-1", block.StartDate)}
	require.NoError(t, db.CreateBlock(block, workouts, nil))

	require.NoError(t, db.DeleteBlock("blk-1"))

	_, err := db.GetWorkout("w-1")
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	assert.ErrorIs(t, db.DeleteBlock("blk-1"), ErrBlockNotFound)
}
