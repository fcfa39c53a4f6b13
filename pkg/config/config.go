// Package config holds the run configuration: every module's settings,
// slate defaults, bankroll limits, concurrency, seeding and logging.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phenomenon0/hoopsedge/pkg/features"
	"github.com/phenomenon0/hoopsedge/pkg/model"
	"github.com/phenomenon0/hoopsedge/pkg/policy"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// SlateConfig holds values seeded into every game context.
type SlateConfig struct {
	HomeCourtAdv  float64 `yaml:"home_court_adv"`
	DefaultRating float64 `yaml:"default_rating"` // for teams absent from the ratings table
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Config is the full run configuration.
type Config struct {
	Slate SlateConfig `yaml:"slate"`

	Fatigue    features.FatigueConfig    `yaml:"fatigue"`
	Lineup     features.LineupConfig     `yaml:"lineup"`
	Motivation features.MotivationConfig `yaml:"motivation"`
	Pace       features.PaceConfig       `yaml:"pace"`
	XPTS       features.XPTSConfig       `yaml:"xpts"`

	Expected    model.ExpectedConfig    `yaml:"expected"`
	Simulation  model.SimulationConfig  `yaml:"simulation"`
	Probability model.ProbabilityConfig `yaml:"probability"`
	Value       model.ValueConfig       `yaml:"value"`

	Policy policy.Limits `yaml:"policy"`

	Workers int     `yaml:"workers"` // games processed concurrently
	Seed    *uint64 `yaml:"seed"`    // nil = unseeded simulation

	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		Slate: SlateConfig{HomeCourtAdv: 2.5},

		Fatigue:    *features.DefaultFatigueConfig(),
		Lineup:     *features.DefaultLineupConfig(),
		Motivation: *features.DefaultMotivationConfig(),
		Pace:       *features.DefaultPaceConfig(),
		XPTS:       *features.DefaultXPTSConfig(),

		Expected:    *model.DefaultExpectedConfig(),
		Simulation:  *model.DefaultSimulationConfig(),
		Probability: *model.DefaultProbabilityConfig(),
		Value:       *model.DefaultValueConfig(),

		Policy: *policy.DefaultLimits(),

		Workers: 4,
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults, so a partial file overrides
// only the fields it names. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no module can work with.
func (c *Config) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	check(c.Fatigue.MaxAbsAdjustment >= 0, "fatigue.max_abs_adjustment must be >= 0")
	check(c.Fatigue.DefaultRestDays >= 0, "fatigue.default_rest_days must be >= 0")
	check(c.Lineup.MaxAbsAdjustment >= 0, "lineup.max_abs_adjustment must be >= 0")
	check(validMonth(c.Motivation.LateSeasonMonth), "motivation.late_season_month must be 1-12")
	check(validMonth(c.Motivation.SeasonStartMonth), "motivation.season_start_month must be 1-12")
	check(c.Pace.MinPace <= c.Pace.MaxPace, "pace.min_pace (%v) exceeds pace.max_pace (%v)", c.Pace.MinPace, c.Pace.MaxPace)
	check(c.Pace.LeagueAvgPace > 0, "pace.league_avg_pace must be positive")

	check(c.Expected.RatingScale > 0, "expected.rating_scale must be positive")
	check(c.Simulation.NumSimulations >= 1, "simulation.num_simulations must be >= 1")
	check(c.Simulation.ScoreStd > 0, "simulation.score_std must be positive")
	check(c.Simulation.VarianceMin <= c.Simulation.VarianceMax, "simulation.variance_min exceeds variance_max")
	check(c.Simulation.Workers >= 1, "simulation.workers must be >= 1")
	check(c.Probability.BlendWeight >= 0 && c.Probability.BlendWeight <= 1, "probability.blend_weight must be in [0, 1]")
	check(c.Probability.BaseScale > 0, "probability.base_scale must be positive")
	check(c.Probability.RefStdDev > 0, "probability.ref_std_dev must be positive")
	check(c.Probability.MinStdDev > 0, "probability.min_std_dev must be positive")
	check(c.Value.KellyFraction > 0 && c.Value.KellyFraction <= 1, "value.kelly_fraction must be in (0, 1]")
	check(c.Value.MinEdgePercent >= 0, "value.min_edge_percent must be >= 0")
	check(c.Value.MaxStakeFraction >= 0 && c.Value.MaxStakeFraction <= 1, "value.max_stake_fraction must be in [0, 1]")

	if err := c.Policy.Validate(); err != nil {
		problems = append(problems, fmt.Errorf("policy: %w", err))
	}
	check(c.Workers >= 1, "workers must be >= 1")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(problems...))
	}
	return nil
}

func validMonth(m int) bool {
	return m >= 1 && m <= 12
}
