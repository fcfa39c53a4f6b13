package refdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/oddsmath"
)

// ErrNotFound is returned when a fixture file does not exist.
var ErrNotFound = errors.New("fixture not found")

// Fixture file names inside a data directory.
const (
	FileGamesToday = "schedule_today.json"
	FileSchedule   = "schedule.json"
	FileRatings    = "team_ratings.json"
	FileStandings  = "standings.json"
	FilePace       = "team_pace.json"
	FileXPTS       = "team_xpts.json"
	FilePlayers    = "players.json"
	FileInjuries   = "injuries_today.json"
	FileOdds       = "raw_odds.json"
)

const dateLayout = "2006-01-02"

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// toFloat coerces JSON numbers and numeric strings. Non-finite strings
// such as "inf" or "NaN" are treated as non-numeric.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toInt(v any) int {
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	return int(f)
}

type rawGame struct {
	ID   string `json:"game_id"`
	Date string `json:"date"`
	Home string `json:"home"`
	Away string `json:"away"`
}

func parseGames(path string) ([]Game, error) {
	var raw []rawGame
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	games := make([]Game, 0, len(raw))
	for i, r := range raw {
		d, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: bad date %q: %w", path, i, r.Date, err)
		}
		games = append(games, Game{ID: r.ID, Date: d, Home: r.Home, Away: r.Away})
	}
	return games, nil
}

// LoadGamesToday reads the games to process: [{"game_id","date","home","away"}].
func LoadGamesToday(path string) ([]Game, error) {
	return parseGames(path)
}

// LoadSchedule reads the full season schedule: [{"date","home","away"}].
func LoadSchedule(path string) (*Schedule, error) {
	games, err := parseGames(path)
	if err != nil {
		return nil, err
	}
	return ScheduleFromGames(games), nil
}

// LoadRatings reads team ratings. Each value may be a number, a numeric
// string, {"rating": x} or {"off_rating": o, "def_rating": d} (net o - d).
// Unparseable values become 0.
func LoadRatings(path string) (map[string]float64, error) {
	var raw map[string]any
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(raw))
	for team, v := range raw {
		out[team] = ratingValue(v)
	}
	return out, nil
}

func ratingValue(v any) float64 {
	if f, ok := toFloat(v); ok {
		return f
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return 0
	}
	if f, ok := toFloat(obj["rating"]); ok {
		return f
	}
	off, okOff := toFloat(obj["off_rating"])
	def, okDef := toFloat(obj["def_rating"])
	if okOff && okDef {
		return off - def
	}
	return 0
}

// LoadStandings reads conference standings. Non-numeric fields become 0.
func LoadStandings(path string) (map[string]Standing, error) {
	var raw map[string]map[string]any
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]Standing, len(raw))
	for team, info := range raw {
		out[team] = Standing{
			ConferenceRank: toInt(info["conference_rank"]),
			Wins:           toInt(info["wins"]),
			Losses:         toInt(info["losses"]),
		}
	}
	return out, nil
}

// LoadPace reads possessions per game. Non-numeric entries are skipped.
func LoadPace(path string) (map[string]float64, error) {
	var raw map[string]any
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(raw))
	for team, v := range raw {
		if f, ok := toFloat(v); ok {
			out[team] = f
		}
	}
	return out, nil
}

// LoadXPTS reads offensive and defensive expected points per game. A
// missing or non-numeric field is left at zero.
func LoadXPTS(path string) (map[string]XPTS, error) {
	var raw map[string]map[string]any
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]XPTS, len(raw))
	for team, vals := range raw {
		var x XPTS
		x.Off, _ = toFloat(vals["off_xpts_per_game"])
		x.Def, _ = toFloat(vals["def_xpts_per_game"])
		out[team] = x
	}
	return out, nil
}

// LoadPlayerImpacts reads team → player → point impact. Non-numeric
// impacts are skipped.
func LoadPlayerImpacts(path string) (*PlayerImpacts, error) {
	var raw map[string]map[string]any
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	table := make(map[string]map[string]float64, len(raw))
	for team, players := range raw {
		t := make(map[string]float64, len(players))
		for name, v := range players {
			if f, ok := toFloat(v); ok {
				t[name] = f
			}
		}
		table[team] = t
	}
	return NewPlayerImpacts(table), nil
}

// LoadInjuries reads team → injured players. Entries may be names or
// {"player": name, "role": role}; a non-list value yields an empty list.
func LoadInjuries(path string) (map[string][]core.Injury, error) {
	var raw map[string]any
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[string][]core.Injury, len(raw))
	for team, v := range raw {
		list, ok := v.([]any)
		if !ok {
			out[team] = []core.Injury{}
			continue
		}
		injuries := make([]core.Injury, 0, len(list))
		for _, item := range list {
			switch x := item.(type) {
			case string:
				injuries = append(injuries, core.Injury{Player: x})
			case map[string]any:
				name, _ := x["player"].(string)
				if name == "" {
					name, _ = x["name"].(string)
				}
				if name == "" {
					continue
				}
				role, _ := x["role"].(string)
				injuries = append(injuries, core.Injury{Player: name, Role: strings.ToLower(role)})
			}
		}
		out[team] = injuries
	}
	return out, nil
}

// LoadOdds reads per-game market odds keyed by game id. Prices are decimal
// unless the record sets "format": "american". Unusable prices become 0,
// which downstream valuation treats as no market.
func LoadOdds(path string) (map[string]MarketOdds, error) {
	var raw map[string]map[string]any
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]MarketOdds, len(raw))
	for gameID, entry := range raw {
		american := strings.EqualFold(fmt.Sprint(entry["format"]), "american")
		price := func(v any) float64 {
			f, ok := toFloat(v)
			if !ok {
				return 0
			}
			if american {
				d, err := oddsmath.AmericanToDecimal(f)
				if err != nil {
					return 0
				}
				return d
			}
			return f
		}

		mo := MarketOdds{Home: price(entry["home"]), Away: price(entry["away"])}
		if s, ok := entry["spread"].(map[string]any); ok {
			if line, ok := toFloat(s["line"]); ok {
				mo.Spread = &SpreadOdds{Line: line, Home: price(s["home"]), Away: price(s["away"])}
			}
		}
		mo.Total = totalOdds(entry["total"], price)
		if tt, ok := entry["team_totals"].(map[string]any); ok {
			mo.TeamTotalHome = totalOdds(tt["home"], price)
			mo.TeamTotalAway = totalOdds(tt["away"], price)
		}
		out[gameID] = mo
	}
	return out, nil
}

func totalOdds(v any, price func(any) float64) *TotalOdds {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	line, ok := toFloat(m["line"])
	if !ok {
		return nil
	}
	return &TotalOdds{Line: line, Over: price(m["over"]), Under: price(m["under"])}
}

// LoadDir loads every fixture from dir. The games list and the season
// schedule are required; any other missing file yields an empty table.
func LoadDir(dir string) (*Tables, error) {
	t := Empty()
	var err error

	if t.Games, err = LoadGamesToday(filepath.Join(dir, FileGamesToday)); err != nil {
		return nil, err
	}
	if t.Schedule, err = LoadSchedule(filepath.Join(dir, FileSchedule)); err != nil {
		return nil, fmt.Errorf("season schedule is required for fatigue: %w", err)
	}

	optional := []struct {
		name string
		load func(path string) error
	}{
		{FileRatings, func(p string) (err error) { t.Ratings, err = LoadRatings(p); return }},
		{FileStandings, func(p string) (err error) { t.Standings, err = LoadStandings(p); return }},
		{FilePace, func(p string) (err error) { t.Pace, err = LoadPace(p); return }},
		{FileXPTS, func(p string) (err error) { t.XPTS, err = LoadXPTS(p); return }},
		{FilePlayers, func(p string) (err error) { t.Impacts, err = LoadPlayerImpacts(p); return }},
		{FileInjuries, func(p string) (err error) { t.Injuries, err = LoadInjuries(p); return }},
		{FileOdds, func(p string) (err error) { t.Odds, err = LoadOdds(p); return }},
	}
	fallback := Empty()
	for _, f := range optional {
		err := f.load(filepath.Join(dir, f.name))
		if errors.Is(err, ErrNotFound) {
			log.Debug().Str("file", f.name).Msg("optional fixture missing, using empty table")
			continue
		}
		if err != nil {
			return nil, err
		}
	}
	// Loaders return nil tables only on error; keep maps non-nil regardless.
	if t.Ratings == nil {
		t.Ratings = fallback.Ratings
	}
	if t.Standings == nil {
		t.Standings = fallback.Standings
	}
	if t.Pace == nil {
		t.Pace = fallback.Pace
	}
	if t.XPTS == nil {
		t.XPTS = fallback.XPTS
	}
	if t.Impacts == nil {
		t.Impacts = fallback.Impacts
	}
	if t.Injuries == nil {
		t.Injuries = fallback.Injuries
	}
	if t.Odds == nil {
		t.Odds = fallback.Odds
	}

	log.Info().
		Int("games", len(t.Games)).
		Int("scheduled_teams", t.Schedule.Teams()).
		Int("odds", len(t.Odds)).
		Str("dir", dir).
		Msg("reference data loaded")
	return t, nil
}
