package features

import (
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/refdata"
)

// ErrScheduleNotLoaded is returned when the fatigue module runs without a
// season schedule. It indicates a wiring mistake, not a data gap.
var ErrScheduleNotLoaded = errors.New("fatigue: team schedules not loaded")

const day = 24 * time.Hour

// FatigueModule penalizes dense stretches of the schedule.
type FatigueModule struct {
	cfg      FatigueConfig
	schedule *refdata.Schedule
}

// NewFatigueModule creates a fatigue module. Penalties may be 0; a zero
// MaxAbsAdjustment or DefaultRestDays takes the default.
func NewFatigueModule(cfg *FatigueConfig, schedule *refdata.Schedule) *FatigueModule {
	if cfg == nil {
		cfg = DefaultFatigueConfig()
	}
	c := *cfg
	defaults := DefaultFatigueConfig()
	if c.MaxAbsAdjustment == 0 {
		c.MaxAbsAdjustment = defaults.MaxAbsAdjustment
	}
	if c.DefaultRestDays == 0 {
		c.DefaultRestDays = defaults.DefaultRestDays
	}
	return &FatigueModule{cfg: c, schedule: schedule}
}

// Name returns the module name used as the owner of its keys.
func (m *FatigueModule) Name() string { return core.OwnerFatigue }

// Reads returns nil; the module works from the season schedule.
func (m *FatigueModule) Reads() []core.Key { return nil }

// Writes returns the keys the module writes.
func (m *FatigueModule) Writes() []core.Key {
	return []core.Key{core.FatigueHome, core.FatigueAway, core.RestDaysHome, core.RestDaysAway}
}

// Apply computes fatigue for both teams on the game date.
func (m *FatigueModule) Apply(gc *core.GameContext) (*core.Delta, error) {
	if m.schedule == nil || m.schedule.Teams() == 0 {
		return nil, ErrScheduleNotLoaded
	}
	d := core.NewDelta()
	home, restHome, okHome := m.TeamFatigue(gc.Home, gc.Date)
	away, restAway, okAway := m.TeamFatigue(gc.Away, gc.Date)
	d.Feature(core.FatigueHome, home).Feature(core.FatigueAway, away)
	if okHome {
		d.Feature(core.RestDaysHome, float64(restHome))
	}
	if okAway {
		d.Feature(core.RestDaysAway, float64(restAway))
	}
	return d, nil
}

// TeamFatigue returns the clamped fatigue adjustment for team on date and
// the rest days before that game. found is false when the date is not on
// the team's schedule, in which case the adjustment is 0.
func (m *FatigueModule) TeamFatigue(team string, date time.Time) (adj float64, restDays int, found bool) {
	dates, ok := m.schedule.Dates(team)
	if !ok {
		log.Debug().Str("team", team).Msg("fatigue: team not in schedule")
		return 0, 0, false
	}
	date = core.Day(date)
	idx := sort.Search(len(dates), func(i int) bool { return !dates[i].Before(date) })
	if idx == len(dates) || !dates[idx].Equal(date) {
		log.Debug().Str("team", team).Time("date", date).Msg("fatigue: game date not in schedule")
		return 0, 0, false
	}

	restDays = m.cfg.DefaultRestDays
	if idx > 0 {
		restDays = int(dates[idx].Sub(dates[idx-1]) / day)
	}

	if restDays == 1 {
		adj += m.cfg.B2BPenalty
	}
	if gamesInWindow(dates, idx, 4) >= 3 {
		adj += m.cfg.ThreeInFourPenalty
	}
	if gamesInWindow(dates, idx, 6) >= 4 {
		adj += m.cfg.FourInSixPenalty
	}
	if restDays >= 3 {
		adj += m.cfg.RestBonus
	}
	return clampAbs(adj, m.cfg.MaxAbsAdjustment), restDays, true
}

// gamesInWindow counts games in the trailing window of days ending at
// dates[idx], inclusive.
func gamesInWindow(dates []time.Time, idx, days int) int {
	since := dates[idx].Add(-time.Duration(days-1) * day)
	n := 0
	for j := idx; j >= 0 && !dates[j].Before(since); j-- {
		n++
	}
	return n
}
