package model

import (
	"math"

	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/simulation"
)

// Fallbacks when the pace or xPTS features are absent.
const (
	fallbackPace = 100.0
	fallbackXPTS = 112.0
)

// SimulationModel samples the game's score distribution around the
// expected differential.
type SimulationModel struct {
	cfg    SimulationConfig
	engine *simulation.Engine
}

// NewSimulationModel creates the model. A nil engine runs unseeded with
// cfg.Workers goroutines. Zero fields other than the weights take the
// defaults.
func NewSimulationModel(cfg *SimulationConfig, engine *simulation.Engine) *SimulationModel {
	if cfg == nil {
		cfg = DefaultSimulationConfig()
	}
	c := *cfg
	defaults := DefaultSimulationConfig()
	if c.NumSimulations == 0 {
		c.NumSimulations = defaults.NumSimulations
	}
	if c.ScoreStd == 0 {
		c.ScoreStd = defaults.ScoreStd
	}
	if c.MinMeanScore == 0 {
		c.MinMeanScore = defaults.MinMeanScore
	}
	if c.MinScore == 0 {
		c.MinScore = defaults.MinScore
	}
	if c.VarianceMin == 0 {
		c.VarianceMin = defaults.VarianceMin
	}
	if c.VarianceMax == 0 {
		c.VarianceMax = defaults.VarianceMax
	}
	if c.Workers == 0 {
		c.Workers = defaults.Workers
	}
	if engine == nil {
		engine = simulation.NewEngine(nil, c.Workers)
	}
	return &SimulationModel{cfg: c, engine: engine}
}

// Name returns the module name used as the owner of its keys.
func (m *SimulationModel) Name() string { return core.OwnerSimulation }

// Reads returns the keys the module reads from earlier modules.
func (m *SimulationModel) Reads() []core.Key {
	return []core.Key{
		core.ExpectedDiff,
		core.XPTSOffHome, core.XPTSOffAway,
		core.PaceMatch, core.LeagueAvgPace,
	}
}

// Writes returns the keys the module writes.
func (m *SimulationModel) Writes() []core.Key {
	return []core.Key{
		core.MCMeanHome, core.MCMeanAway, core.MCVariance,
		core.MCWinProbHome, core.MCWinProbAway,
		core.MCExpectedHome, core.MCExpectedAway,
		core.MCExpectedTotal, core.MCExpectedDiff,
		core.MCDistribution,
	}
}

// Apply runs the simulation and attaches the distribution.
func (m *SimulationModel) Apply(gc *core.GameContext) (*core.Delta, error) {
	diff := gc.Float(core.ExpectedDiff, 0)
	xHome := gc.Float(core.XPTSOffHome, fallbackXPTS)
	xAway := gc.Float(core.XPTSOffAway, fallbackXPTS)

	meanHome, meanAway := m.Means(diff, xHome, xAway)
	variance := m.VarianceFactor(
		gc.Float(core.PaceMatch, fallbackPace),
		gc.Float(core.LeagueAvgPace, fallbackPace),
		xHome, xAway,
	)

	r := m.engine.Simulate(gc.GameID, simulation.Params{
		MeanHome: meanHome,
		MeanAway: meanAway,
		StdDev:   m.cfg.ScoreStd * variance,
		MinScore: m.cfg.MinScore,
		Trials:   m.cfg.NumSimulations,
	})

	return core.NewDelta().
		Input(core.MCMeanHome, meanHome).
		Input(core.MCMeanAway, meanAway).
		Input(core.MCVariance, variance).
		Output(core.MCWinProbHome, r.WinProbHome).
		Output(core.MCWinProbAway, r.WinProbAway).
		Output(core.MCExpectedHome, r.ExpectedHome).
		Output(core.MCExpectedAway, r.ExpectedAway).
		Output(core.MCExpectedTotal, r.ExpectedTotal).
		Output(core.MCExpectedDiff, r.ExpectedDiff).
		SetDistribution(r.Distribution), nil
}

// Means splits the differential around each offense's xPTS, floored at
// MinMeanScore.
func (m *SimulationModel) Means(diff, xptsHome, xptsAway float64) (home, away float64) {
	home = math.Max(m.cfg.MinMeanScore, xptsHome+diff/2)
	away = math.Max(m.cfg.MinMeanScore, xptsAway-diff/2)
	return home, away
}

// VarianceFactor widens the score spread for fast matchups and divergent
// offenses: (pace/league)^w1 + (|xh-xa|/10)^w2, clamped.
func (m *SimulationModel) VarianceFactor(pace, league, xptsHome, xptsAway float64) float64 {
	ratio := 1.0
	if pace > 0 && league > 0 {
		ratio = pace / league
	}
	v := math.Pow(ratio, m.cfg.PaceFactorWeight) +
		math.Pow(math.Abs(xptsHome-xptsAway)/10, m.cfg.XPTSWeight)
	return math.Max(m.cfg.VarianceMin, math.Min(m.cfg.VarianceMax, v))
}
