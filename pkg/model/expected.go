package model

import (
	"math"

	"github.com/phenomenon0/hoopsedge/core"
)

// ExpectedModel converts ratings and feature adjustments into an expected
// home-minus-away point differential.
type ExpectedModel struct {
	cfg ExpectedConfig
}

// NewExpectedModel creates the model. Weights may be 0; a zero scale or
// base spread takes the default.
func NewExpectedModel(cfg *ExpectedConfig) *ExpectedModel {
	if cfg == nil {
		cfg = DefaultExpectedConfig()
	}
	c := *cfg
	defaults := DefaultExpectedConfig()
	if c.RatingScale == 0 {
		c.RatingScale = defaults.RatingScale
	}
	if c.BasePointSpread == 0 {
		c.BasePointSpread = defaults.BasePointSpread
	}
	return &ExpectedModel{cfg: c}
}

// Name returns the module name used as the owner of its keys.
func (m *ExpectedModel) Name() string { return core.OwnerExpected }

// Reads returns the keys the module reads from earlier modules.
func (m *ExpectedModel) Reads() []core.Key {
	return []core.Key{
		core.RatingHome, core.RatingAway, core.HomeCourtAdv,
		core.FatigueHome, core.FatigueAway,
		core.LineupHome, core.LineupAway,
		core.MotivationHome, core.MotivationAway,
		core.ShotQualityDelta,
		core.PaceMatch, core.LeagueAvgPace,
	}
}

// Writes returns the keys the module writes.
func (m *ExpectedModel) Writes() []core.Key {
	return []core.Key{core.EloDiff, core.BaseDiff, core.PaceFactor, core.ExpectedDiff}
}

// Apply computes expected_diff. Missing adjustments count as 0.
func (m *ExpectedModel) Apply(gc *core.GameContext) (*core.Delta, error) {
	ratingDiff := gc.Float(core.RatingHome, 0) - gc.Float(core.RatingAway, 0)
	elo := m.EloDiff(ratingDiff)
	base := elo + gc.Float(core.HomeCourtAdv, m.cfg.HomeCourtAdv)

	diff := base
	diff += gc.Float(core.FatigueHome, 0) - gc.Float(core.FatigueAway, 0)
	diff += gc.Float(core.LineupHome, 0) - gc.Float(core.LineupAway, 0)
	diff += gc.Float(core.MotivationHome, 0) - gc.Float(core.MotivationAway, 0)
	diff += gc.Float(core.ShotQualityDelta, 0) * m.cfg.ShotQualityWeight

	factor := m.PaceFactor(gc.Float(core.PaceMatch, 0), gc.Float(core.LeagueAvgPace, 0))
	diff *= factor

	return core.NewDelta().
		Input(core.EloDiff, elo).
		Input(core.BaseDiff, base).
		Input(core.PaceFactor, factor).
		Output(core.ExpectedDiff, diff), nil
}

// EloDiff maps a rating difference to a point-spread equivalent:
// (1/(1+10^(-d/scale)) - 0.5) * 2 * basePointSpread.
func (m *ExpectedModel) EloDiff(ratingDiff float64) float64 {
	p := 1 / (1 + math.Pow(10, -ratingDiff/m.cfg.RatingScale))
	return (p - 0.5) * 2 * m.cfg.BasePointSpread
}

// PaceFactor scales the differential by how far the matchup pace is from
// the league average. Non-positive paces give 1.
func (m *ExpectedModel) PaceFactor(match, league float64) float64 {
	if match <= 0 || league <= 0 {
		return 1
	}
	return 1 + (match/league-1)*m.cfg.PaceWeight
}
