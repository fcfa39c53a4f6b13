package core

// MarketKind is one of the four evaluated market families.
type MarketKind string

const (
	MarketMoneyline MarketKind = "moneyline"
	MarketSpread    MarketKind = "spread"
	MarketTotal     MarketKind = "total"
	MarketTeamTotal MarketKind = "team_total"
)

// Leg sides beyond home/away.
const (
	SideOver  = "over"
	SideUnder = "under"
)

// ValueLine is one evaluated market leg.
type ValueLine struct {
	Market MarketKind `json:"market"`
	Side   string     `json:"side"`
	Team   string     `json:"team,omitempty"`
	Line   *float64   `json:"line,omitempty"`

	Price       float64 `json:"price"`
	ModelProb   float64 `json:"model_prob"`
	ImpliedProb float64 `json:"implied_prob"`
	FairProb    float64 `json:"fair_prob,omitempty"` // implied with vig removed, when both sides priced
	FairOdds    float64 `json:"fair_odds,omitempty"` // 1 / model_prob

	EdgePct   float64 `json:"edge_pct"`
	FullKelly float64 `json:"full_kelly"`
	Stake     float64 `json:"stake"`
	EV        float64 `json:"ev"` // expected profit per unit staked
}

// LineValue returns the line, or 0 for moneyline legs.
func (v ValueLine) LineValue() float64 {
	if v.Line == nil {
		return 0
	}
	return *v.Line
}

// IsBet reports whether the leg carries a positive recommended stake.
func (v ValueLine) IsBet() bool {
	return v.Stake > 0
}

// Float returns a pointer to f, for ValueLine.Line.
func Float(f float64) *float64 {
	return &f
}
