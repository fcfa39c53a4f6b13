package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/policy"
)

func testGames(t *testing.T) []*core.GameContext {
	t.Helper()
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	g1, err := core.NewGameContext("g1", day, "BOS", "NYK")
	require.NoError(t, err)
	g1.SetFeature(core.OddsHome, 1.8)
	g1.Outputs.Set(core.WinProbHome, 0.6)
	g1.Lines = []core.ValueLine{
		{Market: core.MarketMoneyline, Side: "home", Team: "BOS", Price: 1.8, ModelProb: 0.6, EdgePct: 4.44, Stake: 0.02, EV: 0.08},
		{Market: core.MarketMoneyline, Side: "away", Team: "NYK", Price: 2.0, ModelProb: 0.4, EdgePct: -10, EV: -0.2},
	}
	g2, err := core.NewGameContext("g2", day, "LAL", "DEN")
	require.NoError(t, err)
	g2.Lines = []core.ValueLine{
		{Market: core.MarketTotal, Side: core.SideOver, Line: core.Float(224.5), Price: 1.91, ModelProb: 0.58, EdgePct: 5.6, Stake: 0.03, EV: 0.1078},
	}
	return []*core.GameContext{g1, g2}
}

func testPlan(games []*core.GameContext) *policy.Plan {
	return policy.NewAllocator(nil).Allocate(policy.BetsFromGames(games))
}

func TestRows_RankedByEV(t *testing.T) {
	games := testGames(t)
	rows := Rows(games, testPlan(games))
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "g2", rows[0].GameID)
	assert.Equal(t, core.MarketTotal, rows[0].Market)
	assert.Equal(t, "30.00", rows[0].Amount)

	assert.Equal(t, "g1", rows[1].GameID)
	assert.Equal(t, "20.00", rows[1].Amount)
	assert.Equal(t, 3, rows[2].Rank)
	assert.Empty(t, rows[2].Amount, "unstaked legs carry no amount")

	assert.Len(t, Rows(games, nil), 3)
}

func TestWriteJSON(t *testing.T) {
	games := testGames(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, Rows(games, nil)))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 3)
	assert.Equal(t, "g2", out[0]["game_id"])
	assert.Equal(t, "total", out[0]["market"])
	assert.Equal(t, 224.5, out[0]["line"])
	assert.NotContains(t, out[1], "line", "moneyline has no line")

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteCSV(t *testing.T) {
	games := testGames(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, Rows(games, testPlan(games))))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, csvHeader, recs[0])
	assert.Equal(t, []string{"1", "g2", "2025-01-15", "LAL", "DEN", "total", "over", "", "224.5"}, recs[1][:9])
	assert.Equal(t, "30.00", recs[1][len(recs[1])-1])
	assert.Equal(t, "", recs[2][8], "moneyline line column is empty")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, Rows(testGames(t), nil)))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[1], "DEN@LAL")
	assert.Contains(t, lines[1], "+224.5")
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, "xml", nil))
}

func TestWriteGames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGames(&buf, testGames(t), core.ExportOptions{}))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "g1", out[0]["game_id"])
	assert.Equal(t, 1.8, out[0]["odds_home"])
	assert.Equal(t, 0.6, out[0]["win_prob_home"])
	lines, ok := out[0]["value_lines"].([]any)
	require.True(t, ok)
	assert.Len(t, lines, 2)

	// key order follows insertion
	body := buf.String()
	assert.Less(t, strings.Index(body, `"game_id"`), strings.Index(body, `"odds_home"`))
	assert.Less(t, strings.Index(body, `"odds_home"`), strings.Index(body, `"win_prob_home"`))
}

func TestAmountsMatchLegs(t *testing.T) {
	games := testGames(t)
	plan := &policy.Plan{Allocations: []policy.Allocation{{
		Bet:    policy.Bet{GameID: "g1", Line: games[0].Lines[0]},
		Amount: decimal.NewFromFloat(12.345),
	}}}
	rows := Rows(games, plan)
	for _, r := range rows {
		if r.GameID == "g1" && r.Side == "home" {
			assert.Equal(t, "12.35", r.Amount)
			continue
		}
		assert.Empty(t, r.Amount)
	}
}
