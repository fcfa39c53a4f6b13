package features

import (
	"github.com/rs/zerolog/log"

	"github.com/phenomenon0/hoopsedge/core"
)

// PaceModule estimates the possessions per game of a matchup.
type PaceModule struct {
	cfg  PaceConfig
	pace map[string]float64
}

// NewPaceModule creates a pace module over a team → possessions table.
func NewPaceModule(cfg *PaceConfig, pace map[string]float64) *PaceModule {
	if cfg == nil {
		cfg = DefaultPaceConfig()
	}
	c := *cfg
	defaults := DefaultPaceConfig()
	if c.DefaultPace == 0 {
		c.DefaultPace = defaults.DefaultPace
	}
	if c.LeagueAvgPace == 0 {
		c.LeagueAvgPace = defaults.LeagueAvgPace
	}
	if c.MinPace == 0 {
		c.MinPace = defaults.MinPace
	}
	if c.MaxPace == 0 {
		c.MaxPace = defaults.MaxPace
	}
	return &PaceModule{cfg: c, pace: pace}
}

// Name returns the module name used as the owner of its keys.
func (m *PaceModule) Name() string { return core.OwnerPace }

// Reads returns nil; the module works from the pace table.
func (m *PaceModule) Reads() []core.Key { return nil }

// Writes returns the keys the module writes.
func (m *PaceModule) Writes() []core.Key {
	return []core.Key{core.PaceHome, core.PaceAway, core.PaceMatch, core.LeagueAvgPace}
}

// Apply writes both teams' paces, the matchup pace and the league average.
func (m *PaceModule) Apply(gc *core.GameContext) (*core.Delta, error) {
	home := m.TeamPace(gc.Home)
	away := m.TeamPace(gc.Away)
	return core.NewDelta().
		Feature(core.PaceHome, home).
		Feature(core.PaceAway, away).
		Feature(core.PaceMatch, m.MatchPace(home, away)).
		Feature(core.LeagueAvgPace, m.cfg.LeagueAvgPace), nil
}

// TeamPace returns the team's pace, or the default when unknown, clamped to
// [MinPace, MaxPace].
func (m *PaceModule) TeamPace(team string) float64 {
	p, ok := m.pace[team]
	if !ok {
		log.Debug().Str("team", team).Msg("pace: team not in table, using default")
		p = m.cfg.DefaultPace
	}
	if p < m.cfg.MinPace {
		p = m.cfg.MinPace
	}
	if p > m.cfg.MaxPace {
		p = m.cfg.MaxPace
	}
	return p
}

// MatchPace is the harmonic mean of two paces, or the league average if
// either is non-positive.
func (m *PaceModule) MatchPace(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return m.cfg.LeagueAvgPace
	}
	return 2 * a * b / (a + b)
}
