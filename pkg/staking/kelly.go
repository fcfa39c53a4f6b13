// Package staking computes edge and fractional-Kelly stakes for single
// market legs priced in decimal odds.
package staking

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/phenomenon0/hoopsedge/pkg/oddsmath"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Calculator evaluates one leg at a time. It holds no mutable state and is
// safe for concurrent use.
type Calculator struct {
	kellyFrac   decimal.Decimal
	minEdgePct  decimal.Decimal
	maxStakePct decimal.Decimal // 0 = uncapped
}

// Config configures the calculator.
type Config struct {
	KellyFraction    float64 // Default: 0.25 (quarter Kelly)
	MinEdgePercent   float64 // Default: 1.0 percentage point
	MaxStakeFraction float64 // Default: 0 (no cap)
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		KellyFraction:  0.25,
		MinEdgePercent: 1.0,
	}
}

// NewCalculator creates a calculator. Zero KellyFraction is replaced by the
// default; MinEdgePercent and MaxStakeFraction may be 0 intentionally.
func NewCalculator(config *Config) *Calculator {
	if config == nil {
		config = DefaultConfig()
	}
	kellyFrac := config.KellyFraction
	if kellyFrac == 0 {
		kellyFrac = DefaultConfig().KellyFraction
	}
	return &Calculator{
		kellyFrac:   decimal.NewFromFloat(kellyFrac),
		minEdgePct:  decimal.NewFromFloat(config.MinEdgePercent),
		maxStakePct: decimal.NewFromFloat(config.MaxStakeFraction),
	}
}

// Result is the evaluation of one leg.
type Result struct {
	ModelProb   decimal.Decimal
	Price       decimal.Decimal
	ImpliedProb decimal.Decimal
	EdgePct     decimal.Decimal // (p - 1/price) * 100
	FullKelly   decimal.Decimal // f* = (b*p - q) / b, floored at 0
	Stake       decimal.Decimal // FullKelly * fraction, 0 below min edge
	EV          decimal.Decimal // p*price - 1 per unit staked
	Valid       bool
	Reason      string
}

// Evaluate computes edge and stake for a leg with model probability prob at
// decimal price. A price at or below 1.0, a non-finite price or a
// probability outside [0, 1] yields an invalid result, which callers treat
// as "no market".
//
// Kelly for decimal odds (win b per unit staked):
//   - b = price - 1
//   - f* = (b*p - q) / b, where q = 1 - p
func (c *Calculator) Evaluate(prob, price float64) Result {
	if !oddsmath.ValidPrice(price) {
		return Result{Reason: "price at or below 1.0 or not finite"}
	}
	if math.IsNaN(prob) || prob < 0 || prob > 1 {
		return Result{Reason: "probability outside [0, 1]"}
	}
	p := decimal.NewFromFloat(prob)
	d := decimal.NewFromFloat(price)
	result := Result{ModelProb: p, Price: d, Valid: true}

	implied := one.Div(d)
	edge := p.Sub(implied).Mul(hundred)
	result.ImpliedProb = implied
	result.EdgePct = edge
	result.EV = p.Mul(d).Sub(one)

	b := d.Sub(one)
	q := one.Sub(p)
	kelly := b.Mul(p).Sub(q).Div(b)
	if !kelly.IsPositive() || !edge.IsPositive() {
		kelly = decimal.Zero
	}
	result.FullKelly = kelly

	if edge.Abs().LessThan(c.minEdgePct) {
		result.Stake = decimal.Zero
		result.Reason = "edge below minimum threshold"
		return result
	}

	stake := kelly.Mul(c.kellyFrac)
	if c.maxStakePct.IsPositive() && stake.GreaterThan(c.maxStakePct) {
		stake = c.maxStakePct
	}
	result.Stake = stake
	if stake.IsPositive() {
		result.Reason = "positive edge above threshold"
	} else {
		result.Reason = "non-positive edge"
	}
	return result
}

// Floats returns the result's edge, full Kelly, stake and EV as float64.
func (r Result) Floats() (edgePct, fullKelly, stake, ev float64) {
	return r.EdgePct.InexactFloat64(), r.FullKelly.InexactFloat64(),
		r.Stake.InexactFloat64(), r.EV.InexactFloat64()
}
