package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig(t.TempDir()) // no config file present
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "exercise_engine", cfg.Database.Name)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)

	assert.Equal(t, 7, cfg.Engine.Readiness.CurrentMaxDays)
	assert.Equal(t, 30, cfg.Engine.Readiness.RecentMaxDays)
	assert.Equal(t, 90, cfg.Engine.Readiness.DatedMaxDays)
	assert.Equal(t, 70, cfg.Engine.Readiness.NearlyReadyFloor)

	assert.Equal(t, 90, cfg.Engine.Recommendation.ImmediateThreshold)
	assert.Equal(t, 70, cfg.Engine.Recommendation.NearTermThreshold)
	assert.Equal(t, 50, cfg.Engine.Recommendation.LongTermThreshold)

	assert.Equal(t, 80, cfg.Engine.Publishing.QualityApprovalFloor)
}

func TestLoadConfigFromFile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	contents := []byte(`
server:
  address: ":9090"
engine:
  readiness:
    nearly_ready_floor: 80
  publishing:
    quality_approval_floor: 90
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), contents, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 80, cfg.Engine.Readiness.NearlyReadyFloor)
	assert.Equal(t, 90, cfg.Engine.Publishing.QualityApprovalFloor)
	// Untouched keys keep their defaults.
	assert.Equal(t, 7, cfg.Engine.Readiness.CurrentMaxDays)
}
