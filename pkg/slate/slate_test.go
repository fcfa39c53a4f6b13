package slate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/config"
	"github.com/phenomenon0/hoopsedge/pkg/features"
	"github.com/phenomenon0/hoopsedge/pkg/refdata"
)

var gameDay = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func testTables() *refdata.Tables {
	t := refdata.Empty()
	t.Games = []refdata.Game{
		{ID: "g1", Date: gameDay, Home: "BOS", Away: "NYK"},
		{ID: "g2", Date: gameDay, Home: "LAL", Away: "DEN"},
		{ID: "g3", Date: gameDay.AddDate(0, 0, 1), Home: "BOS", Away: "MIA"},
	}
	t.Schedule = refdata.NewSchedule(map[string][]time.Time{
		"BOS": {gameDay.AddDate(0, 0, -1), gameDay, gameDay.AddDate(0, 0, 1)},
		"NYK": {gameDay},
		"LAL": {gameDay},
		"DEN": {gameDay},
		"MIA": {gameDay.AddDate(0, 0, 1)},
	})
	t.Ratings = map[string]float64{"BOS": 8, "NYK": 3, "LAL": 1}
	t.Odds = map[string]refdata.MarketOdds{
		"g1": {
			Home:   1.6,
			Away:   2.5,
			Spread: &refdata.SpreadOdds{Line: -4.5, Home: 1.91, Away: 1.91},
			Total:  &refdata.TotalOdds{Line: 224.5, Over: 1.91, Under: 0},
		},
	}
	t.Injuries = map[string][]core.Injury{"NYK": {{Player: "Someone", Role: core.RoleStar}}}
	return t
}

func seededConfig(seed uint64) *config.Config {
	cfg := config.Default()
	cfg.Seed = &seed
	cfg.Simulation.NumSimulations = 400
	cfg.Workers = 2
	return cfg
}

func TestNew_DefaultModuleOrder(t *testing.T) {
	r, err := New(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		core.OwnerFatigue, core.OwnerLineup, core.OwnerPace, core.OwnerMotivation, core.OwnerXPTS,
		core.OwnerExpected, core.OwnerSimulation, core.OwnerProbability, core.OwnerValue,
	}, r.Pipeline().Modules())
}

func TestContexts(t *testing.T) {
	r, err := New(seededConfig(1), testTables())
	require.NoError(t, err)

	games, err := r.Contexts(gameDay)
	require.NoError(t, err)
	require.Len(t, games, 2)

	g1 := games[0]
	assert.Equal(t, "g1", g1.GameID)
	assert.Equal(t, 8.0, g1.Float(core.RatingHome, -1))
	assert.Equal(t, 3.0, g1.Float(core.RatingAway, -1))
	assert.Equal(t, 2.5, g1.Float(core.HomeCourtAdv, -1))
	assert.Equal(t, 1.6, g1.Float(core.OddsHome, -1))
	assert.Equal(t, -4.5, g1.Float(core.SpreadLine, 0))
	assert.Equal(t, 224.5, g1.Float(core.TotalLine, 0))
	assert.False(t, g1.Features.Has(core.TotalUnderPrice), "unusable price is not seeded")
	require.Len(t, g1.InjuriesAway, 1)
	assert.Empty(t, g1.InjuriesHome)

	g2 := games[1]
	assert.Equal(t, 0.0, g2.Float(core.RatingAway, -1), "default rating")
	assert.False(t, g2.Features.Has(core.OddsHome))

	all, err := r.Contexts(time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRun_Slate(t *testing.T) {
	r, err := New(seededConfig(7), testTables())
	require.NoError(t, err)

	res, err := r.Run(context.Background(), gameDay)
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, 0, res.Failed())

	g1 := res.Outcomes[0].Game
	assert.Equal(t, -2.0, g1.Float(core.FatigueHome, 0), "back-to-back")
	assert.Equal(t, 1.0, g1.Float(core.RestDaysHome, 0))
	assert.Equal(t, -5.5, g1.Float(core.LineupAway, 0))
	assert.Greater(t, g1.Float(core.ExpectedDiff, 0), 0.0)

	pHome := g1.Float(core.WinProbHome, -1)
	assert.InDelta(t, 1.0, pHome+g1.Float(core.WinProbAway, -1), 1e-9)
	require.NotNil(t, g1.Distribution)
	assert.Equal(t, 400, g1.Distribution.Trials())

	markets := map[core.MarketKind]int{}
	for _, l := range g1.Lines {
		markets[l.Market]++
	}
	assert.Equal(t, 2, markets[core.MarketMoneyline])
	assert.Equal(t, 2, markets[core.MarketSpread])
	assert.Equal(t, 1, markets[core.MarketTotal], "under has no price")
	assert.True(t, g1.Outputs.Has(core.ProbUnder))

	assert.Empty(t, res.Outcomes[1].Game.Lines, "no odds, no lines")
	require.NotNil(t, res.Plan)
}

func TestRun_Reproducible(t *testing.T) {
	run := func() []float64 {
		r, err := New(seededConfig(99), testTables())
		require.NoError(t, err)
		res, err := r.Run(context.Background(), gameDay)
		require.NoError(t, err)
		var out []float64
		for _, g := range res.Games() {
			out = append(out, g.Float(core.MCWinProbHome, -1), g.Float(core.MCExpectedTotal, -1))
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestRun_MissingScheduleFailsEveryGame(t *testing.T) {
	tables := testTables()
	tables.Schedule = nil
	r, err := New(seededConfig(1), tables)
	require.NoError(t, err)

	res, err := r.Run(context.Background(), gameDay)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed())
	for _, o := range res.Outcomes {
		assert.True(t, errors.Is(o.Err, features.ErrScheduleNotLoaded))
	}
	assert.Empty(t, res.Games())
	assert.Empty(t, res.Plan.Allocations)
}

func TestRun_Cancelled(t *testing.T) {
	r, err := New(seededConfig(1), testTables())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Run(ctx, gameDay)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, res)
	assert.Equal(t, 2, res.Failed())
}

func TestRun_NonFiniteFixturesDoNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		refdata.FileGamesToday: `[
			{"game_id": "g1", "date": "2025-01-15", "home": "LAL", "away": "DEN"},
			{"game_id": "g2", "date": "2025-01-15", "home": "BOS", "away": "NYK"}
		]`,
		refdata.FileSchedule: `[
			{"date": "2025-01-15", "home": "LAL", "away": "DEN"},
			{"date": "2025-01-15", "home": "BOS", "away": "NYK"}
		]`,
		refdata.FileRatings: `{"LAL": "NaN", "DEN": 2, "BOS": 5, "NYK": "inf"}`,
		refdata.FileOdds: `{
			"g1": {"home": "inf", "away": 1.9},
			"g2": {"home": 1.8, "away": 2.1}
		}`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	tables, err := refdata.LoadDir(dir)
	require.NoError(t, err)

	r, err := New(seededConfig(3), tables)
	require.NoError(t, err)
	res, err := r.Run(context.Background(), gameDay)
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, 0, res.Failed())

	g1 := res.Outcomes[0].Game
	assert.Equal(t, 0.0, g1.Float(core.RatingHome, -1))
	assert.False(t, g1.Features.Has(core.OddsHome))
	require.Len(t, g1.Lines, 1)
	assert.Equal(t, string(core.SideAway), g1.Lines[0].Side)

	assert.Len(t, res.Outcomes[1].Game.Lines, 2)
	require.NotNil(t, res.Plan)
}
