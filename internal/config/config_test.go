package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.EnrichTimeout)
	assert.Equal(t, 20.0, cfg.DefaultWeeklyKm)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RUNCOACH_DB_PATH", "/tmp/test.db")
	t.Setenv("RUNCOACH_ENRICH_TIMEOUT", "30s")
	t.Setenv("RUNCOACH_DEFAULT_WEEKLY_KM", "35")
	t.Setenv("RUNCOACH_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.EnrichTimeout)
	assert.Equal(t, 35.0, cfg.DefaultWeeklyKm)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_RejectsNonPositiveValues(t *testing.T) {
	t.Run("zero timeout", func(t *testing.T) {
		t.Setenv("RUNCOACH_ENRICH_TIMEOUT", "0s")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("negative volume", func(t *testing.T) {
		t.Setenv("RUNCOACH_DEFAULT_WEEKLY_KM", "-5")
		_, err := Load()
		assert.Error(t, err)
	})
}
