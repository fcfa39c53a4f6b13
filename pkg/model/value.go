package model

import (
	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/oddsmath"
	"github.com/phenomenon0/hoopsedge/pkg/staking"
)

// ValueModel compares model probabilities with bookmaker prices across
// moneyline, spread, total and team-total markets. Every leg is optional:
// a leg without its line, price or distribution is left out.
type ValueModel struct {
	calc *staking.Calculator
}

// NewValueModel creates the model.
func NewValueModel(cfg *ValueConfig) *ValueModel {
	if cfg == nil {
		cfg = DefaultValueConfig()
	}
	return &ValueModel{calc: staking.NewCalculator(&staking.Config{
		KellyFraction:    cfg.KellyFraction,
		MinEdgePercent:   cfg.MinEdgePercent,
		MaxStakeFraction: cfg.MaxStakeFraction,
	})}
}

// Name returns the module name used as the owner of its keys.
func (m *ValueModel) Name() string { return core.OwnerValue }

// Reads returns the keys the module reads from earlier modules.
func (m *ValueModel) Reads() []core.Key {
	return []core.Key{
		core.WinProbHome, core.WinProbAway, core.MCWinProbHome, core.MCWinProbAway,
		core.MCDistribution,
		core.OddsHome, core.OddsAway,
		core.SpreadLine, core.SpreadHomePrice, core.SpreadAwayPrice,
		core.TotalLine, core.TotalOverPrice, core.TotalUnderPrice,
		core.TeamTotalHomeLine, core.TeamTotalHomeOverPrice, core.TeamTotalHomeUnderPrice,
		core.TeamTotalAwayLine, core.TeamTotalAwayOverPrice, core.TeamTotalAwayUnderPrice,
	}
}

// Writes returns the keys the module writes.
func (m *ValueModel) Writes() []core.Key {
	return []core.Key{
		core.EdgeHome, core.EdgeAway, core.KellyHome, core.KellyAway,
		core.ProbSpreadHome, core.ProbSpreadAway, core.EdgeSpreadHome, core.EdgeSpreadAway,
		core.KellySpreadHome, core.KellySpreadAway,
		core.ProbOver, core.ProbUnder, core.EdgeOver, core.EdgeUnder, core.KellyOver, core.KellyUnder,
		core.ProbTTHomeOver, core.ProbTTHomeUnder, core.EdgeTTHomeOver, core.EdgeTTHomeUnder,
		core.KellyTTHomeOver, core.KellyTTHomeUnder,
		core.ProbTTAwayOver, core.ProbTTAwayUnder, core.EdgeTTAwayOver, core.EdgeTTAwayUnder,
		core.KellyTTAwayOver, core.KellyTTAwayUnder,
		core.OverroundML, core.OverroundSpread, core.OverroundTotal,
		core.OverroundTTHome, core.OverroundTTAway,
		core.ValueLines,
	}
}

// leg is one priced side of a two-way market.
type leg struct {
	side     string
	team     string
	line     *float64
	prob     float64
	priceKey core.Key
	probKey  core.Key // empty for moneyline
	edgeKey  core.Key
	kellyKey core.Key
}

// Apply evaluates every market the context has inputs for.
func (m *ValueModel) Apply(gc *core.GameContext) (*core.Delta, error) {
	d := core.NewDelta()
	var lines []core.ValueLine

	if pHome, pAway, ok := winProbs(gc); ok {
		lines = append(lines, m.market(gc, d, core.MarketMoneyline, core.OverroundML,
			leg{side: string(core.SideHome), team: gc.Home, prob: pHome,
				priceKey: core.OddsHome, edgeKey: core.EdgeHome, kellyKey: core.KellyHome},
			leg{side: string(core.SideAway), team: gc.Away, prob: pAway,
				priceKey: core.OddsAway, edgeKey: core.EdgeAway, kellyKey: core.KellyAway},
		)...)
	}

	dist := gc.Distribution
	if dist.Trials() > 0 {
		if line, ok := gc.Features.Get(core.SpreadLine); ok {
			lines = append(lines, m.market(gc, d, core.MarketSpread, core.OverroundSpread,
				leg{side: string(core.SideHome), team: gc.Home, line: core.Float(line),
					prob: dist.HomeCovers(line), priceKey: core.SpreadHomePrice,
					probKey: core.ProbSpreadHome, edgeKey: core.EdgeSpreadHome, kellyKey: core.KellySpreadHome},
				leg{side: string(core.SideAway), team: gc.Away, line: core.Float(-line),
					prob: dist.AwayCovers(line), priceKey: core.SpreadAwayPrice,
					probKey: core.ProbSpreadAway, edgeKey: core.EdgeSpreadAway, kellyKey: core.KellySpreadAway},
			)...)
		}
		if line, ok := gc.Features.Get(core.TotalLine); ok {
			lines = append(lines, m.market(gc, d, core.MarketTotal, core.OverroundTotal,
				leg{side: core.SideOver, line: core.Float(line), prob: dist.ProbOver(line),
					priceKey: core.TotalOverPrice, probKey: core.ProbOver, edgeKey: core.EdgeOver, kellyKey: core.KellyOver},
				leg{side: core.SideUnder, line: core.Float(line), prob: dist.ProbUnder(line),
					priceKey: core.TotalUnderPrice, probKey: core.ProbUnder, edgeKey: core.EdgeUnder, kellyKey: core.KellyUnder},
			)...)
		}
		if line, ok := gc.Features.Get(core.TeamTotalHomeLine); ok {
			scores := dist.Scores(core.SideHome)
			lines = append(lines, m.market(gc, d, core.MarketTeamTotal, core.OverroundTTHome,
				leg{side: core.SideOver, team: gc.Home, line: core.Float(line), prob: core.FractionAbove(scores, line),
					priceKey: core.TeamTotalHomeOverPrice, probKey: core.ProbTTHomeOver,
					edgeKey: core.EdgeTTHomeOver, kellyKey: core.KellyTTHomeOver},
				leg{side: core.SideUnder, team: gc.Home, line: core.Float(line), prob: core.FractionBelow(scores, line),
					priceKey: core.TeamTotalHomeUnderPrice, probKey: core.ProbTTHomeUnder,
					edgeKey: core.EdgeTTHomeUnder, kellyKey: core.KellyTTHomeUnder},
			)...)
		}
		if line, ok := gc.Features.Get(core.TeamTotalAwayLine); ok {
			scores := dist.Scores(core.SideAway)
			lines = append(lines, m.market(gc, d, core.MarketTeamTotal, core.OverroundTTAway,
				leg{side: core.SideOver, team: gc.Away, line: core.Float(line), prob: core.FractionAbove(scores, line),
					priceKey: core.TeamTotalAwayOverPrice, probKey: core.ProbTTAwayOver,
					edgeKey: core.EdgeTTAwayOver, kellyKey: core.KellyTTAwayOver},
				leg{side: core.SideUnder, team: gc.Away, line: core.Float(line), prob: core.FractionBelow(scores, line),
					priceKey: core.TeamTotalAwayUnderPrice, probKey: core.ProbTTAwayUnder,
					edgeKey: core.EdgeTTAwayUnder, kellyKey: core.KellyTTAwayUnder},
			)...)
		}
	}

	return d.AddLines(lines...), nil
}

// market evaluates both legs of a two-way market, writing per-leg scalars
// and the overround, and returns the value lines for legs with a valid price.
func (m *ValueModel) market(gc *core.GameContext, d *core.Delta, kind core.MarketKind, overroundKey core.Key, a, b leg) []core.ValueLine {
	priceA := gc.Float(a.priceKey, 0)
	priceB := gc.Float(b.priceKey, 0)
	fairA, fairB, hasFair := oddsmath.FairPair(priceA, priceB)
	if over, ok := oddsmath.Overround(priceA, priceB); ok {
		d.Output(overroundKey, over)
	}

	var out []core.ValueLine
	for i, l := range []leg{a, b} {
		if l.probKey != "" {
			d.Output(l.probKey, l.prob)
		}
		price := priceA
		fair := fairA
		if i == 1 {
			price, fair = priceB, fairB
		}
		res := m.calc.Evaluate(l.prob, price)
		if !res.Valid {
			continue
		}
		edge, full, stake, ev := res.Floats()
		d.Output(l.edgeKey, edge).Output(l.kellyKey, stake)

		vl := core.ValueLine{
			Market:      kind,
			Side:        l.side,
			Team:        l.team,
			Line:        l.line,
			Price:       price,
			ModelProb:   l.prob,
			ImpliedProb: res.ImpliedProb.InexactFloat64(),
			FairOdds:    oddsmath.FairOdds(l.prob),
			EdgePct:     edge,
			FullKelly:   full,
			Stake:       stake,
			EV:          ev,
		}
		if hasFair {
			vl.FairProb = fair
		}
		out = append(out, vl)
	}
	return out
}

// winProbs returns the blended win probabilities, falling back to the
// simulated ones.
func winProbs(gc *core.GameContext) (home, away float64, ok bool) {
	if h, okH := gc.Outputs.Get(core.WinProbHome); okH {
		if a, okA := gc.Outputs.Get(core.WinProbAway); okA {
			return h, a, true
		}
		return h, 1 - h, true
	}
	if h, okH := gc.Outputs.Get(core.MCWinProbHome); okH {
		if a, okA := gc.Outputs.Get(core.MCWinProbAway); okA {
			return h, a, true
		}
		return h, 1 - h, true
	}
	return 0, 0, false
}
