package core

import "math"

// Distribution holds per-trial simulated scores. Diffs and Totals are
// derived from the scores at append time (home minus away, home plus away).
type Distribution struct {
	HomeScores []int `json:"home_scores"`
	AwayScores []int `json:"away_scores"`
	Diffs      []int `json:"diffs"`
	Totals     []int `json:"totals"`
}

// NewDistribution preallocates room for n trials.
func NewDistribution(n int) *Distribution {
	if n < 0 {
		n = 0
	}
	return &Distribution{
		HomeScores: make([]int, 0, n),
		AwayScores: make([]int, 0, n),
		Diffs:      make([]int, 0, n),
		Totals:     make([]int, 0, n),
	}
}

// Append records one trial.
func (d *Distribution) Append(home, away int) {
	d.HomeScores = append(d.HomeScores, home)
	d.AwayScores = append(d.AwayScores, away)
	d.Diffs = append(d.Diffs, home-away)
	d.Totals = append(d.Totals, home+away)
}

// Trials returns the number of recorded trials.
func (d *Distribution) Trials() int {
	if d == nil {
		return 0
	}
	return len(d.Diffs)
}

// ProbOver is the fraction of trials whose total strictly exceeds line.
func (d *Distribution) ProbOver(line float64) float64 {
	return FractionAbove(d.Totals, line)
}

// ProbUnder is the fraction of trials whose total is strictly below line.
func (d *Distribution) ProbUnder(line float64) float64 {
	return FractionBelow(d.Totals, line)
}

// HomeCovers is the fraction of trials where the home team covers the home
// handicap line (diff + line > 0). Pushes count as not covering.
func (d *Distribution) HomeCovers(line float64) float64 {
	return FractionAbove(d.Diffs, -line)
}

// AwayCovers is the fraction of trials where the away team covers against
// the home handicap line (diff + line < 0).
func (d *Distribution) AwayCovers(line float64) float64 {
	return FractionBelow(d.Diffs, -line)
}

// Scores returns the per-trial scores for one side.
func (d *Distribution) Scores(side Side) []int {
	if side == SideAway {
		return d.AwayScores
	}
	return d.HomeScores
}

// DiffStdDev returns the sample standard deviation of the differential.
func (d *Distribution) DiffStdDev() float64 {
	return SampleStdDev(d.Diffs)
}

// FractionAbove returns the share of values strictly greater than line.
func FractionAbove(values []int, line float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := 0
	for _, v := range values {
		if float64(v) > line {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

// FractionBelow returns the share of values strictly less than line.
func FractionBelow(values []int, line float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := 0
	for _, v := range values {
		if float64(v) < line {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// SampleStdDev returns the n-1 standard deviation, or 0 with fewer than two values.
func SampleStdDev(values []int) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	ss := 0.0
	for _, v := range values {
		dv := float64(v) - mean
		ss += dv * dv
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
