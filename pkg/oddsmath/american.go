// Package oddsmath converts between bookmaker price formats and probabilities.
package oddsmath

import (
	"fmt"
	"math"
)

// AmericanToDecimal converts American odds to decimal odds.
// +150 → 2.50, -150 → 1.667.
func AmericanToDecimal(american float64) (float64, error) {
	if american == 0 || math.IsNaN(american) || (american > -100 && american < 100) {
		return 0, fmt.Errorf("invalid American odds: %v", american)
	}
	if american > 0 {
		return american/100.0 + 1.0, nil
	}
	return 100.0/-american + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds.
// 2.50 → +150, 1.667 → -150.
func DecimalToAmerican(price float64) (int, error) {
	if !ValidPrice(price) {
		return 0, fmt.Errorf("invalid decimal odds: %v", price)
	}
	if price >= 2.0 {
		return int(math.Round((price - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (price - 1.0))), nil
}

// ValidPrice reports whether a decimal price can be bet: finite and above 1.0.
func ValidPrice(price float64) bool {
	return price > 1.0 && !math.IsInf(price, 0) && !math.IsNaN(price)
}

// ImpliedProbability returns 1/price for a valid decimal price. ok is false
// for prices at or below 1.0, which callers treat as "no market".
func ImpliedProbability(price float64) (p float64, ok bool) {
	if !ValidPrice(price) {
		return 0, false
	}
	return 1.0 / price, true
}

// FairOdds returns the decimal price implied by a probability, or 0 when
// the probability is outside (0,1].
func FairOdds(prob float64) float64 {
	if prob <= 0 || prob > 1 {
		return 0
	}
	return 1.0 / prob
}
