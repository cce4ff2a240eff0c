package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenTest()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSupersedePerformanceRecord(t *testing.T) {
	db := newTestDB(t)

	first := &PerformanceRecord{
		AthleteID:      1,
		DistanceLabel:  "5k",
		DistanceMeters: 5000,
		TimeSeconds:    1500,
		AchievedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	became, err := db.SupersedePerformanceRecord(first)
	require.NoError(t, err)
	assert.True(t, became, "first record for a distance is always current")

	t.Run("slower attempt is rejected", func(t *testing.T) {
		slower := &PerformanceRecord{
			AthleteID: 1, DistanceLabel: "5k", DistanceMeters: 5000,
			TimeSeconds: 1560, AchievedAt: time.Now().UTC(),
		}
		became, err := db.SupersedePerformanceRecord(slower)
		require.NoError(t, err)
		assert.False(t, became)

		current, err := db.CurrentPerformanceRecords(1)
		require.NoError(t, err)
		require.Len(t, current, 1)
		assert.Equal(t, 1500.0, current[0].TimeSeconds)
	})

	t.Run("equal time is rejected", func(t *testing.T) {
		equal := &PerformanceRecord{
			AthleteID: 1, DistanceLabel: "5k", DistanceMeters: 5000,
			TimeSeconds: 1500, AchievedAt: time.Now().UTC(),
		}
		became, err := db.SupersedePerformanceRecord(equal)
		require.NoError(t, err)
		assert.False(t, became)
	})

	t.Run("faster attempt supersedes and keeps history", func(t *testing.T) {
		faster := &PerformanceRecord{
			AthleteID: 1, DistanceLabel: "5k", DistanceMeters: 5000,
			TimeSeconds: 1455, AchievedAt: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
		}
		became, err := db.SupersedePerformanceRecord(faster)
		require.NoError(t, err)
		assert.True(t, became)

		current, err := db.CurrentPerformanceRecords(1)
		require.NoError(t, err)
		require.Len(t, current, 1)
		assert.Equal(t, 1455.0, current[0].TimeSeconds)

		history, err := db.RecordHistory(1, "5k")
		require.NoError(t, err)
		require.Len(t, history, 2)

		var superseded *PerformanceRecord
		for i := range history {
			if !history[i].IsCurrent {
				superseded = &history[i]
			}
		}
		require.NotNil(t, superseded, "the old record must survive as history")
		assert.Equal(t, 1500.0, superseded.TimeSeconds)
		assert.NotNil(t, superseded.SupersededAt)
	})
}

func TestCurrentPerformanceRecords_PerDistance(t *testing.T) {
	db := newTestDB(t)

	records := []*PerformanceRecord{
		{AthleteID: 1, DistanceLabel: "1k", DistanceMeters: 1000, TimeSeconds: 255, AchievedAt: time.Now().UTC()},
		{AthleteID: 1, DistanceLabel: "5k", DistanceMeters: 5000, TimeSeconds: 1470, AchievedAt: time.Now().UTC()},
		{AthleteID: 2, DistanceLabel: "5k", DistanceMeters: 5000, TimeSeconds: 1200, AchievedAt: time.Now().UTC()},
	}
	for _, pr := range records {
		_, err := db.SupersedePerformanceRecord(pr)
		require.NoError(t, err)
	}

	current, err := db.CurrentPerformanceRecords(1)
	require.NoError(t, err)
	require.Len(t, current, 2, "records are scoped per athlete")
	// Ordered by distance.
	assert.Equal(t, "1k", current[0].DistanceLabel)
	assert.Equal(t, "5k", current[1].DistanceLabel)
}
