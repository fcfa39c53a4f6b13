package oddsmath

import "fmt"

// Overround returns the sum of implied probabilities of a two-way market.
// ok is false unless both prices are valid.
func Overround(price1, price2 float64) (float64, bool) {
	p1, ok1 := ImpliedProbability(price1)
	p2, ok2 := ImpliedProbability(price2)
	if !ok1 || !ok2 {
		return 0, false
	}
	return p1 + p2, true
}

// RemoveVigMultiplicative normalizes two implied probabilities so they sum
// to 1. This is the standard method for spreads, totals and two-way
// moneylines.
//
// Side A: -110 (52.38%) | Side B: -110 (52.38%) → 50% / 50%.
func RemoveVigMultiplicative(prob1, prob2 float64) (fair1, fair2 float64, err error) {
	if prob1 <= 0 || prob1 >= 1 || prob2 <= 0 || prob2 >= 1 {
		return 0, 0, fmt.Errorf("probabilities must be between 0 and 1")
	}
	total := prob1 + prob2
	return prob1 / total, prob2 / total, nil
}

// FairPair returns no-vig probabilities for a two-way market priced in
// decimal odds. ok is false if either price is invalid.
func FairPair(price1, price2 float64) (fair1, fair2 float64, ok bool) {
	p1, ok1 := ImpliedProbability(price1)
	p2, ok2 := ImpliedProbability(price2)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	f1, f2, err := RemoveVigMultiplicative(p1, p2)
	if err != nil {
		return 0, 0, false
	}
	return f1, f2, true
}
