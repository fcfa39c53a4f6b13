package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2.5, cfg.Slate.HomeCourtAdv)
	assert.Equal(t, 5000, cfg.Simulation.NumSimulations)
	assert.Equal(t, 0.25, cfg.Value.KellyFraction)
	assert.Nil(t, cfg.Seed)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialOverride(t *testing.T) {
	path := writeFile(t, `
seed: 42
workers: 2
simulation:
  num_simulations: 1000
fatigue:
  b2b_penalty: -3
lineup:
  role_impacts:
    star: 6
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(42), *cfg.Seed)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 1000, cfg.Simulation.NumSimulations)
	assert.Equal(t, 12.0, cfg.Simulation.ScoreStd, "unnamed fields keep defaults")
	assert.Equal(t, -3.0, cfg.Fatigue.B2BPenalty)
	assert.Equal(t, -1.0, cfg.Fatigue.ThreeInFourPenalty)
	assert.Equal(t, 6.0, cfg.Lineup.RoleImpacts["star"])
	assert.Equal(t, 2.5, cfg.Lineup.RoleImpacts["starter"], "map entries merge")
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "simulation: [not, a, map]"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "value:\n  kelly_fraction: 2\n"))
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"kelly fraction zero", func(c *Config) { c.Value.KellyFraction = 0 }, "kelly_fraction"},
		{"no simulations", func(c *Config) { c.Simulation.NumSimulations = 0 }, "num_simulations"},
		{"pace bounds inverted", func(c *Config) { c.Pace.MinPace = 120 }, "min_pace"},
		{"blend weight above one", func(c *Config) { c.Probability.BlendWeight = 1.2 }, "blend_weight"},
		{"negative ref std", func(c *Config) { c.Probability.RefStdDev = -13.5 }, "ref_std_dev"},
		{"zero min std", func(c *Config) { c.Probability.MinStdDev = 0 }, "min_std_dev"},
		{"bad month", func(c *Config) { c.Motivation.LateSeasonMonth = 13 }, "late_season_month"},
		{"no workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"bankroll", func(c *Config) { c.Policy.Bankroll = -1 }, "bankroll"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
