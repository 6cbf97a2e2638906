package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cpiq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "cpi.db", cfg.DBPath)
	assert.Equal(t, 820, cfg.Staleness.AnnualMaxAgeDays)
	assert.Equal(t, 90, cfg.Staleness.MonthlyMaxAgeDays)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
db_path: /var/lib/cpiq/cpi.db
default_series: CUSR0000SA0
staleness:
  monthly_max_age_days: 45
log:
  level: debug
  json: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/cpiq/cpi.db", cfg.DBPath)
	assert.Equal(t, "CUSR0000SA0", cfg.DefaultSeries)
	assert.Equal(t, 45, cfg.Staleness.MonthlyMaxAgeDays)
	// Unset fields keep their defaults.
	assert.Equal(t, 820, cfg.Staleness.AnnualMaxAgeDays)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsBadLevel(t *testing.T) {
	path := writeConfig(t, "log:\n  level: loud\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.DBPath = ""
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Staleness.MonthlyMaxAgeDays = -1
	require.Error(t, cfg.Validate())
}
