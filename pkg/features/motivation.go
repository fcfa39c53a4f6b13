package features

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/refdata"
)

// MotivationModule estimates how much each team has to play for, from
// standings and the point in the season. The result is not clamped.
type MotivationModule struct {
	cfg       MotivationConfig
	standings map[string]refdata.Standing
}

// NewMotivationModule creates a motivation module. Boosts and penalties may
// be 0; zero months or minimum games take the defaults.
func NewMotivationModule(cfg *MotivationConfig, standings map[string]refdata.Standing) *MotivationModule {
	if cfg == nil {
		cfg = DefaultMotivationConfig()
	}
	c := *cfg
	defaults := DefaultMotivationConfig()
	if c.LateSeasonMonth == 0 {
		c.LateSeasonMonth = defaults.LateSeasonMonth
	}
	if c.SeasonStartMonth == 0 {
		c.SeasonStartMonth = defaults.SeasonStartMonth
	}
	if c.MinGamesPlayed == 0 {
		c.MinGamesPlayed = defaults.MinGamesPlayed
	}
	return &MotivationModule{cfg: c, standings: standings}
}

// Name returns the module name used as the owner of its keys.
func (m *MotivationModule) Name() string { return core.OwnerMotivation }

// Reads returns nil; the module works from the standings.
func (m *MotivationModule) Reads() []core.Key { return nil }

// Writes returns the keys the module writes.
func (m *MotivationModule) Writes() []core.Key {
	return []core.Key{core.MotivationHome, core.MotivationAway}
}

// Apply computes motivation for both teams.
func (m *MotivationModule) Apply(gc *core.GameContext) (*core.Delta, error) {
	return core.NewDelta().
		Feature(core.MotivationHome, m.TeamMotivation(gc.Home, gc.Away, gc.Date)).
		Feature(core.MotivationAway, m.TeamMotivation(gc.Away, gc.Home, gc.Date)), nil
}

// TeamMotivation scores team against opponent on date.
func (m *MotivationModule) TeamMotivation(team, opponent string, date time.Time) float64 {
	st, ok := m.standings[team]
	if !ok {
		log.Debug().Str("team", team).Msg("motivation: team not in standings")
		return 0
	}
	if st.GamesPlayed() < m.cfg.MinGamesPlayed {
		return 0
	}

	late := m.isLateSeason(date.Month())
	rank := st.ConferenceRank
	mot := 0.0

	if rank >= 6 && rank <= 10 {
		mot += m.cfg.PlayoffBubbleBoost
	}
	if (rank == 1 || rank == 2) && late {
		mot += m.cfg.TopSeedRelaxPenalty
	}
	if rank >= 13 && late {
		mot += m.cfg.TankingPenalty
	}
	if opp, ok := m.standings[opponent]; ok {
		if abs(opp.ConferenceRank-rank) <= 2 {
			mot += m.cfg.RivalryBonus
		}
	}
	return mot
}

// isLateSeason reports whether month falls in [LateSeasonMonth, SeasonStartMonth).
// If the window is misconfigured so that it is empty, any month from
// LateSeasonMonth on counts.
func (m *MotivationModule) isLateSeason(month time.Month) bool {
	mo := int(month)
	if m.cfg.SeasonStartMonth <= m.cfg.LateSeasonMonth {
		return mo >= m.cfg.LateSeasonMonth
	}
	return mo >= m.cfg.LateSeasonMonth && mo < m.cfg.SeasonStartMonth
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
