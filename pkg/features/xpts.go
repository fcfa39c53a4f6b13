package features

import (
	"github.com/rs/zerolog/log"

	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/refdata"
)

// ShotQualityModule adds expected-points (xPTS) matchups.
type ShotQualityModule struct {
	cfg  XPTSConfig
	xpts map[string]refdata.XPTS
}

// NewShotQualityModule creates a shot-quality module. A zero weight is kept;
// zero default xPTS values take the defaults.
func NewShotQualityModule(cfg *XPTSConfig, xpts map[string]refdata.XPTS) *ShotQualityModule {
	if cfg == nil {
		cfg = DefaultXPTSConfig()
	}
	c := *cfg
	defaults := DefaultXPTSConfig()
	if c.DefaultOffXPTS == 0 {
		c.DefaultOffXPTS = defaults.DefaultOffXPTS
	}
	if c.DefaultDefXPTS == 0 {
		c.DefaultDefXPTS = defaults.DefaultDefXPTS
	}
	return &ShotQualityModule{cfg: c, xpts: xpts}
}

// Name returns the module name used as the owner of its keys.
func (m *ShotQualityModule) Name() string { return core.OwnerXPTS }

// Reads returns nil; the module works from the shot-quality table.
func (m *ShotQualityModule) Reads() []core.Key { return nil }

// Writes returns the keys the module writes.
func (m *ShotQualityModule) Writes() []core.Key {
	return []core.Key{
		core.XPTSOffHome, core.XPTSOffAway,
		core.XPTSDefHome, core.XPTSDefAway,
		core.XPTSMatchupHome, core.XPTSMatchupAway,
		core.ShotQualityDelta,
	}
}

// Apply crosses each offense with the opposing defense.
func (m *ShotQualityModule) Apply(gc *core.GameContext) (*core.Delta, error) {
	offHome, defHome := m.TeamXPTS(gc.Home)
	offAway, defAway := m.TeamXPTS(gc.Away)

	matchupHome := offHome - defAway
	matchupAway := offAway - defHome
	delta := (matchupHome - matchupAway) * m.cfg.ShotQualityWeight

	return core.NewDelta().
		Feature(core.XPTSOffHome, offHome).
		Feature(core.XPTSOffAway, offAway).
		Feature(core.XPTSDefHome, defHome).
		Feature(core.XPTSDefAway, defAway).
		Feature(core.XPTSMatchupHome, matchupHome).
		Feature(core.XPTSMatchupAway, matchupAway).
		Feature(core.ShotQualityDelta, delta), nil
}

// TeamXPTS returns offensive and defensive xPTS per game. Unknown teams and
// non-positive values resolve to the configured defaults.
func (m *ShotQualityModule) TeamXPTS(team string) (off, def float64) {
	x, ok := m.xpts[team]
	if !ok {
		log.Debug().Str("team", team).Msg("xpts: team not in table, using defaults")
	}
	off, def = x.Off, x.Def
	if off <= 0 {
		off = m.cfg.DefaultOffXPTS
	}
	if def <= 0 {
		def = m.cfg.DefaultDefXPTS
	}
	return off, def
}
