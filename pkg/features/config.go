// Package features implements the feature stages of the game pipeline:
// fatigue, lineup, motivation, pace and shot quality (xPTS). Each stage
// computes scalar adjustments for both teams from read-only reference data.
package features

import "github.com/phenomenon0/hoopsedge/core"

// FatigueConfig configures the fatigue module.
type FatigueConfig struct {
	B2BPenalty         float64 `yaml:"b2b_penalty"`
	ThreeInFourPenalty float64 `yaml:"three_in_four_penalty"`
	FourInSixPenalty   float64 `yaml:"four_in_six_penalty"`
	RestBonus          float64 `yaml:"rest_bonus"` // applied at 3+ days of rest
	MaxAbsAdjustment   float64 `yaml:"max_abs_adjustment"`
	DefaultRestDays    int     `yaml:"default_rest_days"` // first game of the season
}

// DefaultFatigueConfig returns default configuration.
func DefaultFatigueConfig() *FatigueConfig {
	return &FatigueConfig{
		B2BPenalty:         -2.0,
		ThreeInFourPenalty: -1.0,
		FourInSixPenalty:   -1.5,
		RestBonus:          0.0,
		MaxAbsAdjustment:   5.0,
		DefaultRestDays:    5,
	}
}

// LineupConfig configures the lineup module.
type LineupConfig struct {
	MaxAbsAdjustment     float64 `yaml:"max_abs_adjustment"`
	UnknownInjuryPenalty float64 `yaml:"unknown_injury_penalty"`
	// Points lost for an injured player missing from the impact table,
	// by role. An unlisted role falls back to UnknownInjuryPenalty.
	RoleImpacts map[string]float64 `yaml:"role_impacts"`
}

// DefaultLineupConfig returns default configuration.
func DefaultLineupConfig() *LineupConfig {
	return &LineupConfig{
		MaxAbsAdjustment:     10.0,
		UnknownInjuryPenalty: 0.5,
		RoleImpacts: map[string]float64{
			core.RoleStar:    5.5,
			core.RoleStarter: 2.5,
			core.RoleRole:    1.0,
		},
	}
}

// MotivationConfig configures the motivation module.
type MotivationConfig struct {
	PlayoffBubbleBoost  float64 `yaml:"playoff_bubble_boost"`   // conference rank 6-10
	TopSeedRelaxPenalty float64 `yaml:"top_seed_relax_penalty"` // rank 1-2, late season
	TankingPenalty      float64 `yaml:"tanking_penalty"`        // rank 13+, late season
	RivalryBonus        float64 `yaml:"rivalry_bonus"`          // opponent within 2 ranks
	LateSeasonMonth     int     `yaml:"late_season_month"`
	SeasonStartMonth    int     `yaml:"season_start_month"`
	MinGamesPlayed      int     `yaml:"min_games_played"`
}

// DefaultMotivationConfig returns default configuration.
func DefaultMotivationConfig() *MotivationConfig {
	return &MotivationConfig{
		PlayoffBubbleBoost:  1.5,
		TopSeedRelaxPenalty: -0.7,
		TankingPenalty:      -2.5,
		RivalryBonus:        0.8,
		LateSeasonMonth:     3,
		SeasonStartMonth:    10,
		MinGamesPlayed:      20,
	}
}

// PaceConfig configures the pace module.
type PaceConfig struct {
	DefaultPace   float64 `yaml:"default_pace"`
	LeagueAvgPace float64 `yaml:"league_avg_pace"`
	MinPace       float64 `yaml:"min_pace"`
	MaxPace       float64 `yaml:"max_pace"`
}

// DefaultPaceConfig returns default configuration.
func DefaultPaceConfig() *PaceConfig {
	return &PaceConfig{
		DefaultPace:   99.0,
		LeagueAvgPace: 99.0,
		MinPace:       90.0,
		MaxPace:       110.0,
	}
}

// XPTSConfig configures the shot-quality module.
type XPTSConfig struct {
	ShotQualityWeight float64 `yaml:"shot_quality_weight"`
	DefaultOffXPTS    float64 `yaml:"default_off_xpts"`
	DefaultDefXPTS    float64 `yaml:"default_def_xpts"`
}

// DefaultXPTSConfig returns default configuration.
func DefaultXPTSConfig() *XPTSConfig {
	return &XPTSConfig{
		ShotQualityWeight: 1.0,
		DefaultOffXPTS:    112.0,
		DefaultDefXPTS:    112.0,
	}
}

func clampAbs(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
