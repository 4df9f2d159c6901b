package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbbasKothari1552/StreamShield/internal/app/pipeline"
	"github.com/AbbasKothari1552/StreamShield/internal/config"
)

func TestInitializeApp(t *testing.T) {
	cfg := config.DefaultAppConfig()
	cfg.Models.Device = "cpu"
	cfg.Database.DSN = filepath.Join(t.TempDir(), "runs.db")

	application, cleanup, err := InitializeApp(cfg, pipeline.ProgressConfig{})
	require.NoError(t, err)
	defer cleanup()

	assert.Same(t, cfg, application.Config)
	assert.NotNil(t, application.Logger)
	assert.NotNil(t, application.Metrics)
	assert.NotNil(t, application.Settings)
	assert.NotNil(t, application.Inputs)
	assert.NotNil(t, application.Pipeline)
	assert.Equal(t, "cpu", string(application.Loader.Device()))

	runs, err := application.Runs.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpenRunDAO_UnsupportedDriver(t *testing.T) {
	_, err := openRunDAO(config.DatabaseConfig{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpenRunDAO_SQLite(t *testing.T) {
	dao, err := openRunDAO(config.DatabaseConfig{Driver: "sqlite3", DSN: filepath.Join(t.TempDir(), "nested", "runs.db")})
	require.NoError(t, err)
	assert.NoError(t, dao.Close())
}
