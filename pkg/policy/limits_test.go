package policy

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenomenon0/hoopsedge/core"
)

func bet(gameID string, stake float64) Bet {
	return Bet{GameID: gameID, Line: core.ValueLine{Market: core.MarketMoneyline, Side: "home", Price: 2.1, Stake: stake}}
}

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()
	require.NoError(t, l.Validate())
	assert.Equal(t, 1000.0, l.Bankroll)
	assert.Less(t, l.MaxBetFraction, l.MaxGameFraction)
	assert.Less(t, l.MaxGameFraction, l.MaxSlateFraction)
}

func TestLimits_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Limits)
	}{
		{"zero bankroll", func(l *Limits) { l.Bankroll = 0 }},
		{"negative bet fraction", func(l *Limits) { l.MaxBetFraction = -0.1 }},
		{"game fraction above one", func(l *Limits) { l.MaxGameFraction = 1.5 }},
		{"zero slate fraction", func(l *Limits) { l.MaxSlateFraction = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DefaultLimits()
			tt.modify(l)
			assert.Error(t, l.Validate())
		})
	}
}

func TestAllocate_PerBetCap(t *testing.T) {
	a := NewAllocator(nil)
	plan := a.Allocate([]Bet{bet("g1", 0.02), bet("g2", 0.10), bet("g3", 0)})

	require.Len(t, plan.Allocations, 2, "zero stakes are not allocated")
	// sorted by amount descending
	assert.Equal(t, "g2", plan.Allocations[0].GameID)
	assert.True(t, plan.Allocations[0].Requested.Equal(decimal.NewFromInt(100)))
	assert.True(t, plan.Allocations[0].Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, []string{CapBet}, plan.Allocations[0].Capped)

	assert.True(t, plan.Allocations[1].Amount.Equal(decimal.NewFromInt(20)))
	assert.Empty(t, plan.Allocations[1].Capped)
	assert.True(t, plan.Total.Equal(decimal.NewFromInt(70)))
}

func TestAllocate_PerGameCap(t *testing.T) {
	a := NewAllocator(nil)
	plan := a.Allocate([]Bet{bet("g1", 0.05), bet("g1", 0.05), bet("g2", 0.01)})

	require.Len(t, plan.Allocations, 3)
	for _, al := range plan.Allocations {
		if al.GameID != "g1" {
			assert.True(t, al.Amount.Equal(decimal.NewFromInt(10)))
			continue
		}
		assert.True(t, al.Amount.Equal(decimal.NewFromInt(40)), "got %s", al.Amount)
		assert.Equal(t, []string{CapGame}, al.Capped)
	}
	assert.True(t, plan.Total.Equal(decimal.NewFromInt(90)))
}

func TestAllocate_PerSlateCap(t *testing.T) {
	a := NewAllocator(nil)
	var bets []Bet
	for i := 0; i < 6; i++ {
		bets = append(bets, bet(fmt.Sprintf("g%d", i), 0.05))
	}
	plan := a.Allocate(bets)

	require.Len(t, plan.Allocations, 6)
	for _, al := range plan.Allocations {
		assert.Equal(t, "41.66", al.Amount.StringFixed(2))
		assert.Contains(t, al.Capped, CapSlate)
	}
	assert.True(t, plan.Total.LessThanOrEqual(decimal.NewFromInt(250)))
	assert.Equal(t, "249.96", plan.Total.StringFixed(2))

	st := plan.Status()
	assert.Equal(t, 6, st.Bets)
	assert.Equal(t, "1000.00", st.Bankroll)
}

func TestBetsFromGames(t *testing.T) {
	gc, err := core.NewGameContext("g1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "H", "A")
	require.NoError(t, err)
	gc.Lines = []core.ValueLine{
		{Market: core.MarketMoneyline, Side: "home", Stake: 0.01},
		{Market: core.MarketMoneyline, Side: "away", Stake: 0},
	}
	bets := BetsFromGames([]*core.GameContext{gc})
	require.Len(t, bets, 1)
	assert.Equal(t, "g1", bets[0].GameID)
	assert.Equal(t, "home", bets[0].Line.Side)
}
