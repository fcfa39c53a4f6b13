// Package policy turns recommended stake fractions across a slate into
// bankroll amounts under exposure limits.
package policy

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/phenomenon0/hoopsedge/core"
)

// Limits defines the bankroll and its exposure caps. Fractions are of the
// bankroll.
type Limits struct {
	Bankroll         float64 `yaml:"bankroll"`
	MaxBetFraction   float64 `yaml:"max_bet_fraction"`   // per leg
	MaxGameFraction  float64 `yaml:"max_game_fraction"`  // across a game's legs
	MaxSlateFraction float64 `yaml:"max_slate_fraction"` // across the slate
}

// DefaultLimits returns conservative default limits.
func DefaultLimits() *Limits {
	return &Limits{
		Bankroll:         1000,
		MaxBetFraction:   0.05,
		MaxGameFraction:  0.08,
		MaxSlateFraction: 0.25,
	}
}

// Validate checks the limits are usable.
func (l *Limits) Validate() error {
	if l.Bankroll <= 0 {
		return fmt.Errorf("bankroll must be positive, got %v", l.Bankroll)
	}
	for name, f := range map[string]float64{
		"max_bet_fraction":   l.MaxBetFraction,
		"max_game_fraction":  l.MaxGameFraction,
		"max_slate_fraction": l.MaxSlateFraction,
	} {
		if f <= 0 || f > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %v", name, f)
		}
	}
	return nil
}

// Bet is one leg with a positive recommended stake.
type Bet struct {
	GameID string
	Line   core.ValueLine
}

// Allocation is the bankroll amount assigned to one bet.
type Allocation struct {
	Bet
	Requested decimal.Decimal `json:"requested"` // bankroll × stake fraction
	Amount    decimal.Decimal `json:"amount"`
	Capped    []string        `json:"capped,omitempty"` // caps that reduced the amount
}

// Plan is the allocation for a whole slate.
type Plan struct {
	Bankroll    decimal.Decimal `json:"bankroll"`
	Allocations []Allocation    `json:"allocations"`
	Total       decimal.Decimal `json:"total"`
}

// Cap names.
const (
	CapBet   = "bet"
	CapGame  = "game"
	CapSlate = "slate"
)

// Allocator applies Limits to bets.
type Allocator struct {
	bankroll decimal.Decimal
	maxBet   decimal.Decimal
	maxGame  decimal.Decimal
	maxSlate decimal.Decimal
}

// NewAllocator creates an allocator. Zero fields take the defaults.
func NewAllocator(limits *Limits) *Allocator {
	if limits == nil {
		limits = DefaultLimits()
	}
	l := *limits
	defaults := DefaultLimits()
	if l.Bankroll == 0 {
		l.Bankroll = defaults.Bankroll
	}
	if l.MaxBetFraction == 0 {
		l.MaxBetFraction = defaults.MaxBetFraction
	}
	if l.MaxGameFraction == 0 {
		l.MaxGameFraction = defaults.MaxGameFraction
	}
	if l.MaxSlateFraction == 0 {
		l.MaxSlateFraction = defaults.MaxSlateFraction
	}
	bankroll := decimal.NewFromFloat(l.Bankroll)
	return &Allocator{
		bankroll: bankroll,
		maxBet:   bankroll.Mul(decimal.NewFromFloat(l.MaxBetFraction)),
		maxGame:  bankroll.Mul(decimal.NewFromFloat(l.MaxGameFraction)),
		maxSlate: bankroll.Mul(decimal.NewFromFloat(l.MaxSlateFraction)),
	}
}

// BetsFromGames collects every leg with a positive stake, in game order.
func BetsFromGames(games []*core.GameContext) []Bet {
	var bets []Bet
	for _, gc := range games {
		for _, l := range gc.Lines {
			if l.IsBet() {
				bets = append(bets, Bet{GameID: gc.GameID, Line: l})
			}
		}
	}
	return bets
}

// Allocate sizes every bet. The per-bet cap applies first; then each game
// whose sum exceeds its cap is scaled down proportionally, then the slate.
// Amounts are floored to cents so no cap is exceeded by rounding.
func (a *Allocator) Allocate(bets []Bet) *Plan {
	plan := &Plan{Bankroll: a.bankroll, Total: decimal.Zero}
	allocs := make([]Allocation, 0, len(bets))
	for _, b := range bets {
		if !b.Line.IsBet() {
			continue
		}
		req := a.bankroll.Mul(decimal.NewFromFloat(b.Line.Stake))
		al := Allocation{Bet: b, Requested: req, Amount: req}
		if al.Amount.GreaterThan(a.maxBet) {
			al.Amount = a.maxBet
			al.Capped = append(al.Capped, CapBet)
		}
		allocs = append(allocs, al)
	}

	byGame := make(map[string][]int)
	var order []string
	for i, al := range allocs {
		if _, ok := byGame[al.GameID]; !ok {
			order = append(order, al.GameID)
		}
		byGame[al.GameID] = append(byGame[al.GameID], i)
	}
	for _, id := range order {
		scaleDown(allocs, byGame[id], a.maxGame, CapGame)
	}

	all := make([]int, len(allocs))
	for i := range allocs {
		all[i] = i
	}
	scaleDown(allocs, all, a.maxSlate, CapSlate)

	for i := range allocs {
		allocs[i].Amount = allocs[i].Amount.RoundFloor(2)
		plan.Total = plan.Total.Add(allocs[i].Amount)
	}
	sort.SliceStable(allocs, func(i, j int) bool {
		return allocs[i].Amount.GreaterThan(allocs[j].Amount)
	})
	plan.Allocations = allocs
	return plan
}

// scaleDown multiplies the amounts at idx by limit/sum when the sum
// exceeds limit.
func scaleDown(allocs []Allocation, idx []int, limit decimal.Decimal, capName string) {
	sum := decimal.Zero
	for _, i := range idx {
		sum = sum.Add(allocs[i].Amount)
	}
	if !sum.GreaterThan(limit) {
		return
	}
	factor := limit.Div(sum)
	for _, i := range idx {
		allocs[i].Amount = allocs[i].Amount.Mul(factor)
		allocs[i].Capped = append(allocs[i].Capped, capName)
	}
}

// Status summarizes a plan for logs.
type Status struct {
	Bets     int    `json:"bets"`
	Total    string `json:"total"`
	Bankroll string `json:"bankroll"`
	Exposure string `json:"exposure"` // total / bankroll
}

// Status returns the plan summary.
func (p *Plan) Status() Status {
	exposure := decimal.Zero
	if !p.Bankroll.IsZero() {
		exposure = p.Total.Div(p.Bankroll)
	}
	return Status{
		Bets:     len(p.Allocations),
		Total:    p.Total.StringFixed(2),
		Bankroll: p.Bankroll.StringFixed(2),
		Exposure: exposure.StringFixed(4),
	}
}
