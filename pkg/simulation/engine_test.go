package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(v uint64) *uint64 { return &v }

var baseParams = Params{
	MeanHome: 114,
	MeanAway: 110,
	StdDev:   12,
	MinScore: 60,
	Trials:   4000,
}

func TestRun_WinProbabilitiesSumToOne(t *testing.T) {
	for _, trials := range []int{1, 2, 7, 1000} {
		p := baseParams
		p.Trials = trials
		r := Run(p, NewRand(42, 1))
		require.Equal(t, trials, r.Distribution.Trials())
		assert.InDelta(t, 1.0, r.WinProbHome+r.WinProbAway, 1e-12, "trials=%d", trials)
	}
}

func TestRun_ZeroTrials(t *testing.T) {
	p := baseParams
	p.Trials = 0
	r := Run(p, NewRand(1, 1))
	assert.Equal(t, 0, r.Distribution.Trials())
	assert.Equal(t, 0.0, r.WinProbHome)
	assert.Equal(t, 0.0, r.ExpectedTotal)
}

func TestRun_TiesSplitCredit(t *testing.T) {
	r := Run(Params{MeanHome: 100, MeanAway: 100, StdDev: 0, MinScore: 60, Trials: 10}, NewRand(3, 3))
	assert.Equal(t, 0.5, r.WinProbHome)
	assert.Equal(t, 0.5, r.WinProbAway)
	assert.Equal(t, 0.0, r.ExpectedDiff)
}

func TestRun_ScoreFloor(t *testing.T) {
	r := Run(Params{MeanHome: 20, MeanAway: 20, StdDev: 5, MinScore: 60, Trials: 200}, NewRand(5, 5))
	for i := range r.Distribution.HomeScores {
		assert.GreaterOrEqual(t, r.Distribution.HomeScores[i], 60)
		assert.GreaterOrEqual(t, r.Distribution.AwayScores[i], 60)
	}
}

func TestRun_Aggregates(t *testing.T) {
	r := Run(baseParams, NewRand(7, 7))
	assert.InDelta(t, 114, r.ExpectedHome, 1.0)
	assert.InDelta(t, 110, r.ExpectedAway, 1.0)
	assert.InDelta(t, r.ExpectedHome+r.ExpectedAway, r.ExpectedTotal, 1e-9)
	assert.InDelta(t, r.ExpectedHome-r.ExpectedAway, r.ExpectedDiff, 1e-9)
	// 4-point edge with a ~17-point differential spread.
	assert.Greater(t, r.WinProbHome, 0.55)
	assert.Less(t, r.WinProbHome, 0.70)
}

func TestEngine_Reproducible(t *testing.T) {
	for _, workers := range []int{1, 4} {
		a := NewEngine(seed(99), workers).Simulate("g1", baseParams)
		b := NewEngine(seed(99), workers).Simulate("g1", baseParams)
		assert.Equal(t, a.Distribution.Diffs, b.Distribution.Diffs, "workers=%d", workers)
		assert.Equal(t, a.WinProbHome, b.WinProbHome)
	}

	a := NewEngine(seed(99), 1).Simulate("g1", baseParams)
	c := NewEngine(seed(99), 1).Simulate("g2", baseParams)
	assert.NotEqual(t, a.Distribution.Diffs, c.Distribution.Diffs, "games get distinct streams")
}

func TestEngine_WorkersCoverAllTrials(t *testing.T) {
	p := baseParams
	p.Trials = 1001
	r := NewEngine(seed(1), 8).Simulate("g1", p)
	assert.Equal(t, 1001, r.Distribution.Trials())
	for _, s := range r.Distribution.HomeScores {
		assert.GreaterOrEqual(t, s, 60)
	}

	few := NewEngine(seed(1), 8)
	p.Trials = 3
	assert.Equal(t, 3, few.Simulate("g1", p).Distribution.Trials())
}

func TestEngine_Unseeded(t *testing.T) {
	e := NewEngine(nil, 0)
	assert.False(t, e.Seeded())
	assert.Equal(t, 1, e.Workers())
	r := e.Simulate("g1", baseParams)
	assert.Equal(t, baseParams.Trials, r.Distribution.Trials())
}
