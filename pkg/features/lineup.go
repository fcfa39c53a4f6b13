package features

import (
	"github.com/rs/zerolog/log"

	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/refdata"
)

// LineupModule turns injury reports into point adjustments.
type LineupModule struct {
	cfg     LineupConfig
	impacts *refdata.PlayerImpacts
}

// NewLineupModule creates a lineup module over a player impact table.
func NewLineupModule(cfg *LineupConfig, impacts *refdata.PlayerImpacts) *LineupModule {
	if cfg == nil {
		cfg = DefaultLineupConfig()
	}
	c := *cfg
	defaults := DefaultLineupConfig()
	if c.MaxAbsAdjustment == 0 {
		c.MaxAbsAdjustment = defaults.MaxAbsAdjustment
	}
	if c.RoleImpacts == nil {
		c.RoleImpacts = defaults.RoleImpacts
	}
	if impacts == nil {
		impacts = refdata.NewPlayerImpacts(nil)
	}
	return &LineupModule{cfg: c, impacts: impacts}
}

// Name returns the module name used as the owner of its keys.
func (m *LineupModule) Name() string { return core.OwnerLineup }

// Reads returns nil; the module works from the injury lists and player impacts.
func (m *LineupModule) Reads() []core.Key { return nil }

// Writes returns the keys the module writes.
func (m *LineupModule) Writes() []core.Key {
	return []core.Key{core.LineupHome, core.LineupAway}
}

// Apply computes lineup adjustments from the context's injury lists.
func (m *LineupModule) Apply(gc *core.GameContext) (*core.Delta, error) {
	return core.NewDelta().
		Feature(core.LineupHome, m.TeamAdjustment(gc.Home, gc.Injuries(core.SideHome))).
		Feature(core.LineupAway, m.TeamAdjustment(gc.Away, gc.Injuries(core.SideAway))), nil
}

// TeamAdjustment returns the points a team loses to its injuries, clamped
// to the configured bound. The result is zero or negative for
// non-negative impacts.
func (m *LineupModule) TeamAdjustment(team string, injured []core.Injury) float64 {
	total := 0.0
	for _, inj := range injured {
		if impact, ok := m.impacts.Impact(team, inj.Player); ok {
			total -= impact
			continue
		}
		if impact, ok := m.cfg.RoleImpacts[inj.Role]; ok && inj.Role != "" {
			total -= impact
			continue
		}
		log.Debug().Str("team", team).Str("player", inj.Player).Msg("lineup: injured player not in impact table")
		total -= m.cfg.UnknownInjuryPenalty
	}
	return clampAbs(total, m.cfg.MaxAbsAdjustment)
}
