// Package model implements the model stages of the game pipeline: the
// expected point differential, the Monte Carlo simulation, the blended win
// probability and the multi-market value evaluation.
package model

// ExpectedConfig configures the expected-differential model.
type ExpectedConfig struct {
	RatingScale       float64 `yaml:"rating_scale"`        // Elo-style logistic scale
	BasePointSpread   float64 `yaml:"base_point_spread"`   // points at full logistic swing
	HomeCourtAdv      float64 `yaml:"home_court_adv"`      // used when the context has none
	ShotQualityWeight float64 `yaml:"shot_quality_weight"` // multiplier on shot_quality_delta
	PaceWeight        float64 `yaml:"pace_weight"`
}

// DefaultExpectedConfig returns default configuration.
func DefaultExpectedConfig() *ExpectedConfig {
	return &ExpectedConfig{
		RatingScale:       20,
		BasePointSpread:   15,
		HomeCourtAdv:      2.5,
		ShotQualityWeight: 1.0,
		PaceWeight:        1.0,
	}
}

// SimulationConfig configures the Monte Carlo model.
type SimulationConfig struct {
	NumSimulations   int     `yaml:"num_simulations"`
	ScoreStd         float64 `yaml:"score_std"`
	PaceFactorWeight float64 `yaml:"pace_factor_weight"`
	XPTSWeight       float64 `yaml:"xpts_weight"`
	MinMeanScore     float64 `yaml:"min_mean_score"`
	MinScore         float64 `yaml:"min_score"`
	VarianceMin      float64 `yaml:"variance_min"`
	VarianceMax      float64 `yaml:"variance_max"`
	Workers          int     `yaml:"workers"` // goroutines per game
}

// DefaultSimulationConfig returns default configuration.
func DefaultSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		NumSimulations:   5000,
		ScoreStd:         12.0,
		PaceFactorWeight: 0.5,
		XPTSWeight:       0.3,
		MinMeanScore:     80,
		MinScore:         60,
		VarianceMin:      0.8,
		VarianceMax:      2.0,
		Workers:          1,
	}
}

// ProbabilityConfig configures the probability model.
type ProbabilityConfig struct {
	BaseScale   float64 `yaml:"base_scale"`   // logistic slope per point
	RefStdDev   float64 `yaml:"ref_std_dev"`  // differential std at which the slope is BaseScale
	MinStdDev   float64 `yaml:"min_std_dev"`  // floor on the simulated std
	BlendWeight float64 `yaml:"blend_weight"` // weight of the simulated probability
}

// DefaultProbabilityConfig returns default configuration.
func DefaultProbabilityConfig() *ProbabilityConfig {
	return &ProbabilityConfig{
		BaseScale:   0.1,
		RefStdDev:   13.5,
		MinStdDev:   1.0,
		BlendWeight: 0.5,
	}
}

// ValueConfig configures the value model.
type ValueConfig struct {
	MinEdgePercent   float64 `yaml:"min_edge_percent"`
	KellyFraction    float64 `yaml:"kelly_fraction"`
	MaxStakeFraction float64 `yaml:"max_stake_fraction"` // 0 = uncapped
}

// DefaultValueConfig returns default configuration.
func DefaultValueConfig() *ValueConfig {
	return &ValueConfig{
		MinEdgePercent: 1.0,
		KellyFraction:  0.25,
	}
}
