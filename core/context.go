// Package core provides the per-game computation context threaded through the
// modeling pipeline, the typed key registry, and the Module contract.
package core

import (
	"errors"
	"strings"
	"time"
)

// Side identifies one team in a game.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Injury roles with a known average point impact.
const (
	RoleStar    = "star"
	RoleStarter = "starter"
	RoleRole    = "role"
)

// Injury is one injured player on a team's report. Role is optional.
type Injury struct {
	Player string `json:"player"`
	Role   string `json:"role,omitempty"`
}

// Store is an insertion-ordered map of scalar values.
type Store struct {
	keys []Key
	vals map[Key]float64
}

// Set stores v under k. Re-setting a key keeps its original position.
func (s *Store) Set(k Key, v float64) {
	if s.vals == nil {
		s.vals = make(map[Key]float64)
	}
	if _, ok := s.vals[k]; !ok {
		s.keys = append(s.keys, k)
	}
	s.vals[k] = v
}

// Get returns the value for k and whether it was present.
func (s *Store) Get(k Key) (float64, bool) {
	v, ok := s.vals[k]
	return v, ok
}

// Has reports whether k is present.
func (s *Store) Has(k Key) bool {
	_, ok := s.vals[k]
	return ok
}

// Keys returns keys in insertion order.
func (s *Store) Keys() []Key {
	out := make([]Key, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	return len(s.keys)
}

// GameContext is the mutable record for one game. It is owned by a single
// pipeline invocation and is not safe for concurrent mutation.
type GameContext struct {
	GameID string
	Date   time.Time
	Home   string
	Away   string

	Features Store
	Inputs   Store
	Outputs  Store

	InjuriesHome []Injury
	InjuriesAway []Injury

	Distribution *Distribution
	Lines        []ValueLine
}

var errIdentity = errors.New("game context requires game id, home and away")

// NewGameContext creates an empty context. The date is truncated to a
// calendar day in UTC.
func NewGameContext(gameID string, date time.Time, home, away string) (*GameContext, error) {
	if strings.TrimSpace(gameID) == "" || strings.TrimSpace(home) == "" || strings.TrimSpace(away) == "" {
		return nil, errIdentity
	}
	return &GameContext{
		GameID: gameID,
		Date:   Day(date),
		Home:   home,
		Away:   away,
	}, nil
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Team returns the team identifier for a side.
func (gc *GameContext) Team(side Side) string {
	if side == SideAway {
		return gc.Away
	}
	return gc.Home
}

// Injuries returns the injury list for a side. A nil list is returned as empty.
func (gc *GameContext) Injuries(side Side) []Injury {
	if side == SideAway {
		return gc.InjuriesAway
	}
	return gc.InjuriesHome
}

// SetFeature records a caller-supplied feature.
func (gc *GameContext) SetFeature(k Key, v float64) {
	gc.Features.Set(k, v)
}

// Lookup searches features, then model inputs, then model outputs.
func (gc *GameContext) Lookup(k Key) (float64, bool) {
	if v, ok := gc.Features.Get(k); ok {
		return v, true
	}
	if v, ok := gc.Inputs.Get(k); ok {
		return v, true
	}
	return gc.Outputs.Get(k)
}

// Float returns the value for k, or def when absent.
func (gc *GameContext) Float(k Key, def float64) float64 {
	if v, ok := gc.Lookup(k); ok {
		return v
	}
	return def
}

// Merge applies a module's delta to the context.
func (gc *GameContext) Merge(d *Delta) {
	if d == nil {
		return
	}
	for _, w := range d.writes {
		switch w.kind {
		case KindFeature:
			gc.Features.Set(w.key, w.value)
		case KindInput:
			gc.Inputs.Set(w.key, w.value)
		default:
			gc.Outputs.Set(w.key, w.value)
		}
	}
	if d.distribution != nil {
		gc.Distribution = d.distribution
	}
	if d.linesSet {
		gc.Lines = append([]ValueLine(nil), d.lines...)
	}
}
