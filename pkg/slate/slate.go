// Package slate builds game contexts for a day's games from reference data,
// runs them through the default module order and sizes the resulting bets.
package slate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/config"
	"github.com/phenomenon0/hoopsedge/pkg/features"
	"github.com/phenomenon0/hoopsedge/pkg/model"
	"github.com/phenomenon0/hoopsedge/pkg/pipeline"
	"github.com/phenomenon0/hoopsedge/pkg/policy"
	"github.com/phenomenon0/hoopsedge/pkg/refdata"
	"github.com/phenomenon0/hoopsedge/pkg/simulation"
)

// Runner owns the pipeline and reference tables for one run.
type Runner struct {
	cfg       *config.Config
	tables    *refdata.Tables
	engine    *simulation.Engine
	pipeline  *pipeline.Pipeline
	allocator *policy.Allocator
}

// Result is one completed slate run.
type Result struct {
	RunID    string
	Date     time.Time
	Outcomes []pipeline.Outcome
	Plan     *policy.Plan
	Duration time.Duration
}

// Games returns the contexts that completed without error.
func (r *Result) Games() []*core.GameContext {
	var out []*core.GameContext
	for _, o := range r.Outcomes {
		if o.Err == nil {
			out = append(out, o.Game)
		}
	}
	return out
}

// Failed returns the number of games that errored.
func (r *Result) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// New wires the default modules over tables. A nil cfg uses the defaults.
func New(cfg *config.Config, tables *refdata.Tables) (*Runner, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if tables == nil {
		tables = refdata.Empty()
	}
	engine := simulation.NewEngine(cfg.Seed, cfg.Simulation.Workers)
	feats, models := Modules(cfg, tables, engine)
	p, err := pipeline.New(feats, models)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	return &Runner{
		cfg:       cfg,
		tables:    tables,
		engine:    engine,
		pipeline:  p,
		allocator: policy.NewAllocator(&cfg.Policy),
	}, nil
}

// Modules returns the default feature and model modules in execution order.
func Modules(cfg *config.Config, tables *refdata.Tables, engine *simulation.Engine) (feats, models []core.Module) {
	feats = []core.Module{
		features.NewFatigueModule(&cfg.Fatigue, tables.Schedule),
		features.NewLineupModule(&cfg.Lineup, tables.Impacts),
		features.NewPaceModule(&cfg.Pace, tables.Pace),
		features.NewMotivationModule(&cfg.Motivation, tables.Standings),
		features.NewShotQualityModule(&cfg.XPTS, tables.XPTS),
	}
	models = []core.Module{
		model.NewExpectedModel(&cfg.Expected),
		model.NewSimulationModel(&cfg.Simulation, engine),
		model.NewProbabilityModel(&cfg.Probability),
		model.NewValueModel(&cfg.Value),
	}
	return feats, models
}

// Pipeline returns the validated pipeline, e.g. to attach observers.
func (r *Runner) Pipeline() *pipeline.Pipeline {
	return r.pipeline
}

// Contexts builds a context for every game on date. A zero date takes all
// loaded games.
func (r *Runner) Contexts(date time.Time) ([]*core.GameContext, error) {
	var out []*core.GameContext
	for _, g := range r.tables.Games {
		if !date.IsZero() && !core.Day(g.Date).Equal(core.Day(date)) {
			continue
		}
		gc, err := r.BuildContext(g)
		if err != nil {
			return nil, err
		}
		out = append(out, gc)
	}
	return out, nil
}

// BuildContext seeds a context with ratings, home-court advantage, market
// prices and lines, and both injury lists.
func (r *Runner) BuildContext(g refdata.Game) (*core.GameContext, error) {
	gc, err := core.NewGameContext(g.ID, g.Date, g.Home, g.Away)
	if err != nil {
		return nil, fmt.Errorf("game %q: %w", g.ID, err)
	}

	gc.SetFeature(core.RatingHome, r.rating(g.Home))
	gc.SetFeature(core.RatingAway, r.rating(g.Away))
	gc.SetFeature(core.HomeCourtAdv, r.cfg.Slate.HomeCourtAdv)

	if odds, ok := r.tables.Odds[g.ID]; ok {
		seedOdds(gc, odds)
	}

	gc.InjuriesHome = append([]core.Injury(nil), r.tables.Injuries[g.Home]...)
	gc.InjuriesAway = append([]core.Injury(nil), r.tables.Injuries[g.Away]...)
	return gc, nil
}

func (r *Runner) rating(team string) float64 {
	if v, ok := r.tables.Ratings[team]; ok {
		return v
	}
	return r.cfg.Slate.DefaultRating
}

// seedOdds writes every usable price and line. Prices at or below 1 are
// left out so the matching leg is skipped.
func seedOdds(gc *core.GameContext, o refdata.MarketOdds) {
	price := func(k core.Key, v float64) {
		if v > 1 {
			gc.SetFeature(k, v)
		}
	}
	price(core.OddsHome, o.Home)
	price(core.OddsAway, o.Away)
	if o.Spread != nil {
		gc.SetFeature(core.SpreadLine, o.Spread.Line)
		price(core.SpreadHomePrice, o.Spread.Home)
		price(core.SpreadAwayPrice, o.Spread.Away)
	}
	if o.Total != nil {
		gc.SetFeature(core.TotalLine, o.Total.Line)
		price(core.TotalOverPrice, o.Total.Over)
		price(core.TotalUnderPrice, o.Total.Under)
	}
	if o.TeamTotalHome != nil {
		gc.SetFeature(core.TeamTotalHomeLine, o.TeamTotalHome.Line)
		price(core.TeamTotalHomeOverPrice, o.TeamTotalHome.Over)
		price(core.TeamTotalHomeUnderPrice, o.TeamTotalHome.Under)
	}
	if o.TeamTotalAway != nil {
		gc.SetFeature(core.TeamTotalAwayLine, o.TeamTotalAway.Line)
		price(core.TeamTotalAwayOverPrice, o.TeamTotalAway.Over)
		price(core.TeamTotalAwayUnderPrice, o.TeamTotalAway.Under)
	}
}

// Run processes every game on date and allocates the bankroll across the
// games that completed.
func (r *Runner) Run(ctx context.Context, date time.Time) (*Result, error) {
	games, err := r.Contexts(date)
	if err != nil {
		return nil, err
	}
	res := &Result{RunID: uuid.NewString(), Date: core.Day(date)}
	logger := log.With().Str("run_id", res.RunID).Logger()
	logger.Info().
		Int("games", len(games)).
		Bool("seeded", r.engine.Seeded()).
		Strs("modules", r.pipeline.Modules()).
		Msg("slate run starting")

	start := time.Now()
	res.Outcomes = r.pipeline.RunBatch(ctx, games, r.cfg.Workers)
	for _, o := range res.Outcomes {
		if o.Err != nil {
			logger.Warn().Err(o.Err).Str("game_id", o.Game.GameID).Msg("game failed")
		}
	}
	res.Plan = r.allocator.Allocate(policy.BetsFromGames(res.Games()))
	res.Duration = time.Since(start)

	st := res.Plan.Status()
	logger.Info().
		Int("failed", res.Failed()).
		Int("bets", st.Bets).
		Str("staked", st.Total).
		Dur("duration", res.Duration).
		Msg("slate run complete")
	return res, ctx.Err()
}
