package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCoordinatorAppliesDefaults(t *testing.T) {
	cfg, err := LoadCoordinator("")
	require.NoError(t, err)

	assert.Equal(t, ":8787", cfg.Addr)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, "close", cfg.PlannerExhaustion)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadCoordinatorReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coordinator.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\nworkers: 4\nplanner_exhaustion: wrap\n"), 0o644))

	cfg, err := LoadCoordinator(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "wrap", cfg.PlannerExhaustion)
}

func TestLoadCoordinatorRejectsBadExhaustionPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coordinator.yaml")
	require.NoError(t, os.WriteFile(path, []byte("planner_exhaustion: bogus\n"), 0o644))

	_, err := LoadCoordinator(path)
	assert.Error(t, err)
}

func TestLoadCoordinatorRejectsNonPositiveWorkers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coordinator.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 0\n"), 0o644))

	_, err := LoadCoordinator(path)
	assert.Error(t, err)
}

func TestLoadWorkerAppliesDefaults(t *testing.T) {
	cfg, err := LoadWorker("")
	require.NoError(t, err)

	assert.Equal(t, "localhost:8787", cfg.Coordinator)
	assert.False(t, cfg.Reconnect)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("FRAKT_ADDR", ":7000")
	cfg, err := LoadCoordinator("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
}
