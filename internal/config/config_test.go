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

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.FallbackInterval)
	assert.Equal(t, time.Hour, cfg.Scheduler.ErrorBackoff)
	assert.Equal(t, 3, cfg.Retry.Attempts)
	assert.Equal(t, "postgres://postgres:@localhost:5432/studioflow?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_SQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/flow.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flow.db", cfg.ConnectionString())
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestLocation(t *testing.T) {
	cfg := &Config{}

	cfg.App.Timezone = "Local"
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.App.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	cfg.App.Timezone = "Not/AZone"
	_, err = cfg.Location()
	require.Error(t, err)
}
