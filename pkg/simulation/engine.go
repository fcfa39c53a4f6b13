// Package simulation samples final scores for a game and summarizes the
// resulting distribution.
package simulation

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/phenomenon0/hoopsedge/core"
)

// Params describes one game to simulate.
type Params struct {
	MeanHome float64
	MeanAway float64
	StdDev   float64 // per-team score standard deviation
	MinScore float64 // sampled scores are floored here
	Trials   int
}

// Result aggregates a simulated distribution. Win probabilities split tied
// trials evenly, so WinProbHome + WinProbAway == 1 for any Trials >= 1.
type Result struct {
	Distribution  *core.Distribution
	WinProbHome   float64
	WinProbAway   float64
	ExpectedHome  float64
	ExpectedAway  float64
	ExpectedTotal float64
	ExpectedDiff  float64
}

// Run draws p.Trials trials from rng on the calling goroutine.
func Run(p Params, rng *rand.Rand) *Result {
	n := max(p.Trials, 0)
	home := make([]int, n)
	away := make([]int, n)
	fill(p, rng, home, away)
	return summarize(home, away)
}

// Engine runs simulations with a configured seed and worker count. An
// Engine without a seed draws from an unseeded source.
type Engine struct {
	seed    uint64
	seeded  bool
	workers int
}

// NewEngine creates an engine. seed may be nil for production runs; workers
// below 1 means 1.
func NewEngine(seed *uint64, workers int) *Engine {
	e := &Engine{workers: max(workers, 1)}
	if seed != nil {
		e.seed = *seed
		e.seeded = true
	}
	return e
}

// Workers returns the number of goroutines used per simulation.
func (e *Engine) Workers() int { return e.workers }

// Seeded reports whether results are reproducible.
func (e *Engine) Seeded() bool { return e.seeded }

// Simulate runs p for the game identified by label. With a seed, the output
// depends only on (seed, label, workers, p), not on call order, so games in
// a batch can be simulated in any order.
func (e *Engine) Simulate(label string, p Params) *Result {
	n := max(p.Trials, 0)
	home := make([]int, n)
	away := make([]int, n)

	workers := min(e.workers, max(n, 1))
	if workers == 1 {
		fill(p, e.rand(label, 0), home, away)
		return summarize(home, away)
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			fill(p, e.rand(label, w), home[start:end], away[start:end])
		}(w, start, end)
	}
	wg.Wait()
	return summarize(home, away)
}

// rand returns the generator for one worker of one game.
func (e *Engine) rand(label string, worker int) *rand.Rand {
	if !e.seeded {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return NewRand(e.seed, StreamFor(label, worker))
}

// NewRand returns a PCG generator for a seed and stream.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// StreamFor derives a PCG stream from a game label and a worker index.
func StreamFor(label string, worker int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(label))
	return h.Sum64() ^ (uint64(worker) * 0x9e3779b97f4a7c15)
}

func fill(p Params, rng *rand.Rand, home, away []int) {
	for i := range home {
		home[i] = sample(rng, p.MeanHome, p.StdDev, p.MinScore)
		away[i] = sample(rng, p.MeanAway, p.StdDev, p.MinScore)
	}
}

func sample(rng *rand.Rand, mean, std, floor float64) int {
	s := math.Round(rng.NormFloat64()*std + mean)
	if s < floor {
		s = floor
	}
	return int(s)
}

func summarize(home, away []int) *Result {
	dist := core.NewDistribution(len(home))
	wins := 0.0
	for i := range home {
		dist.Append(home[i], away[i])
		switch {
		case home[i] > away[i]:
			wins++
		case home[i] == away[i]:
			wins += 0.5
		}
	}
	r := &Result{Distribution: dist}
	if n := dist.Trials(); n > 0 {
		r.WinProbHome = wins / float64(n)
		r.WinProbAway = 1 - r.WinProbHome
	}
	r.ExpectedHome = core.Mean(dist.HomeScores)
	r.ExpectedAway = core.Mean(dist.AwayScores)
	r.ExpectedTotal = core.Mean(dist.Totals)
	r.ExpectedDiff = core.Mean(dist.Diffs)
	return r
}
