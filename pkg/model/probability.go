package model

import (
	"errors"
	"math"

	"github.com/phenomenon0/hoopsedge/core"
)

// ErrNonFiniteProbability is returned when the inputs produce no usable
// win probability.
var ErrNonFiniteProbability = errors.New("win probability is not finite")

// ProbabilityModel turns the expected differential into a home win
// probability, recalibrated by and blended with the simulation when it ran.
type ProbabilityModel struct {
	cfg ProbabilityConfig
}

// NewProbabilityModel creates the model. BlendWeight may be 0 (logistic
// only); other zero fields take the defaults.
func NewProbabilityModel(cfg *ProbabilityConfig) *ProbabilityModel {
	if cfg == nil {
		cfg = DefaultProbabilityConfig()
	}
	c := *cfg
	defaults := DefaultProbabilityConfig()
	if c.BaseScale == 0 {
		c.BaseScale = defaults.BaseScale
	}
	if c.RefStdDev == 0 {
		c.RefStdDev = defaults.RefStdDev
	}
	if c.MinStdDev == 0 {
		c.MinStdDev = defaults.MinStdDev
	}
	return &ProbabilityModel{cfg: c}
}

// Name returns the module name used as the owner of its keys.
func (m *ProbabilityModel) Name() string { return core.OwnerProbability }

// Reads returns the keys the module reads from earlier modules.
func (m *ProbabilityModel) Reads() []core.Key {
	return []core.Key{core.ExpectedDiff, core.MCWinProbHome, core.MCDistribution}
}

// Writes returns the keys the module writes.
func (m *ProbabilityModel) Writes() []core.Key {
	return []core.Key{
		core.LogisticSlope, core.DiffStd,
		core.WinProbLogistic, core.WinProbHome, core.WinProbAway, core.MCModelGap,
	}
}

// Apply writes the logistic and blended probabilities.
func (m *ProbabilityModel) Apply(gc *core.GameContext) (*core.Delta, error) {
	d := core.NewDelta()
	diff := gc.Float(core.ExpectedDiff, 0)

	slope := m.cfg.BaseScale
	if gc.Distribution.Trials() >= 2 {
		std := math.Max(gc.Distribution.DiffStdDev(), m.cfg.MinStdDev)
		slope = m.Slope(std)
		d.Input(core.DiffStd, std)
	}
	d.Input(core.LogisticSlope, slope)

	logistic := Logistic(diff, slope)
	d.Output(core.WinProbLogistic, logistic)

	p := logistic
	if mc, ok := gc.Outputs.Get(core.MCWinProbHome); ok {
		p = m.cfg.BlendWeight*mc + (1-m.cfg.BlendWeight)*logistic
		d.Output(core.MCModelGap, mc-logistic)
	}
	if math.IsNaN(p) {
		return nil, ErrNonFiniteProbability
	}
	p = math.Max(0, math.Min(1, p))

	return d.Output(core.WinProbHome, p).Output(core.WinProbAway, 1-p), nil
}

// Slope recalibrates the logistic slope for a differential standard
// deviation: tighter distributions get steeper curves.
func (m *ProbabilityModel) Slope(std float64) float64 {
	return m.cfg.BaseScale * (m.cfg.RefStdDev / math.Max(std, m.cfg.MinStdDev))
}

// Logistic returns 1/(1+exp(-slope*diff)).
func Logistic(diff, slope float64) float64 {
	return 1 / (1 + math.Exp(-slope*diff))
}
