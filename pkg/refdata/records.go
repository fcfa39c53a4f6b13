// Package refdata holds the read-only reference tables a slate run needs
// (schedules, ratings, standings, pace, xPTS, player impacts, injuries and
// market odds) and loads them from JSON fixtures.
//
// Loaded tables are never mutated and may be shared across goroutines.
package refdata

import (
	"sort"
	"time"

	"github.com/phenomenon0/hoopsedge/core"
)

// Game is one scheduled game.
type Game struct {
	ID   string    `json:"game_id"`
	Date time.Time `json:"date"`
	Home string    `json:"home"`
	Away string    `json:"away"`
}

// Schedule maps each team to its sorted game days.
type Schedule struct {
	byTeam map[string][]time.Time
}

// NewSchedule builds a schedule from team → dates. Dates are truncated to
// calendar days and sorted; the input is not retained.
func NewSchedule(dates map[string][]time.Time) *Schedule {
	s := &Schedule{byTeam: make(map[string][]time.Time, len(dates))}
	for team, ds := range dates {
		days := make([]time.Time, len(ds))
		for i, d := range ds {
			days[i] = core.Day(d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
		s.byTeam[team] = days
	}
	return s
}

// ScheduleFromGames builds a schedule from a list of games.
func ScheduleFromGames(games []Game) *Schedule {
	dates := make(map[string][]time.Time)
	for _, g := range games {
		dates[g.Home] = append(dates[g.Home], g.Date)
		dates[g.Away] = append(dates[g.Away], g.Date)
	}
	return NewSchedule(dates)
}

// Dates returns a team's sorted game days.
func (s *Schedule) Dates(team string) ([]time.Time, bool) {
	if s == nil {
		return nil, false
	}
	d, ok := s.byTeam[team]
	return d, ok
}

// Teams returns the number of teams with a schedule.
func (s *Schedule) Teams() int {
	if s == nil {
		return 0
	}
	return len(s.byTeam)
}

// Standing is a team's place in its conference.
type Standing struct {
	ConferenceRank int `json:"conference_rank"`
	Wins           int `json:"wins"`
	Losses         int `json:"losses"`
}

// GamesPlayed returns wins plus losses.
func (s Standing) GamesPlayed() int {
	return s.Wins + s.Losses
}

// XPTS is a team's expected points per game. A zero value means the source
// did not supply it.
type XPTS struct {
	Off float64 `json:"off_xpts_per_game"`
	Def float64 `json:"def_xpts_per_game"`
}

// TotalOdds is an over/under market.
type TotalOdds struct {
	Line  float64 `json:"line"`
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
}

// SpreadOdds is a handicap market. Line is the home handicap (e.g. -6.5).
type SpreadOdds struct {
	Line float64 `json:"line"`
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// MarketOdds is the bookmaker record for one game, always in decimal odds.
type MarketOdds struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`

	Spread        *SpreadOdds `json:"spread,omitempty"`
	Total         *TotalOdds  `json:"total,omitempty"`
	TeamTotalHome *TotalOdds  `json:"team_total_home,omitempty"`
	TeamTotalAway *TotalOdds  `json:"team_total_away,omitempty"`
}

// Tables is the full reference data for one run.
type Tables struct {
	Games     []Game
	Schedule  *Schedule
	Ratings   map[string]float64
	Standings map[string]Standing
	Pace      map[string]float64
	XPTS      map[string]XPTS
	Impacts   *PlayerImpacts
	Injuries  map[string][]core.Injury
	Odds      map[string]MarketOdds
}

// Empty returns tables with every map allocated and no data.
func Empty() *Tables {
	return &Tables{
		Schedule:  NewSchedule(nil),
		Ratings:   make(map[string]float64),
		Standings: make(map[string]Standing),
		Pace:      make(map[string]float64),
		XPTS:      make(map[string]XPTS),
		Impacts:   NewPlayerImpacts(nil),
		Injuries:  make(map[string][]core.Injury),
		Odds:      make(map[string]MarketOdds),
	}
}
