// Package report flattens evaluated market legs across a slate, ranks them
// by expected value and writes them as a table, JSON or CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/phenomenon0/hoopsedge/core"
	"github.com/phenomenon0/hoopsedge/pkg/policy"
)

// Formats accepted by Write.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Row is one market leg of one game.
type Row struct {
	Rank   int    `json:"rank"`
	GameID string `json:"game_id"`
	Date   string `json:"date"`
	Home   string `json:"home"`
	Away   string `json:"away"`

	core.ValueLine

	Amount string `json:"amount,omitempty"` // bankroll allocation, when staked
}

// Rows flattens every game's value lines, sorted by EV descending, and
// attaches the plan's amounts. plan may be nil.
func Rows(games []*core.GameContext, plan *policy.Plan) []Row {
	amounts := make(map[string]string)
	if plan != nil {
		for _, a := range plan.Allocations {
			amounts[legKey(a.GameID, a.Line)] = a.Amount.StringFixed(2)
		}
	}

	var rows []Row
	for _, gc := range games {
		for _, l := range gc.Lines {
			rows = append(rows, Row{
				GameID:    gc.GameID,
				Date:      gc.Date.Format("2006-01-02"),
				Home:      gc.Home,
				Away:      gc.Away,
				ValueLine: l,
				Amount:    amounts[legKey(gc.GameID, l)],
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].EV > rows[j].EV
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func legKey(gameID string, l core.ValueLine) string {
	line := ""
	if l.Line != nil {
		line = strconv.FormatFloat(*l.Line, 'f', -1, 64)
	}
	return gameID + "|" + string(l.Market) + "|" + l.Side + "|" + l.Team + "|" + line
}

// Write writes rows in format.
func Write(w io.Writer, format string, rows []Row) error {
	switch format {
	case FormatTable, "":
		return WriteTable(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatCSV:
		return WriteCSV(w, rows)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteJSON writes rows as an indented JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

var csvHeader = []string{
	"rank", "game_id", "date", "home", "away", "market", "side", "team", "line",
	"price", "model_prob", "implied_prob", "fair_prob", "fair_odds",
	"edge_pct", "full_kelly", "stake", "ev", "amount",
}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		line := ""
		if r.Line != nil {
			line = num(*r.Line)
		}
		rec := []string{
			strconv.Itoa(r.Rank), r.GameID, r.Date, r.Home, r.Away,
			string(r.Market), r.Side, r.Team, line,
			num(r.Price), num(r.ModelProb), num(r.ImpliedProb), num(r.FairProb), num(r.FairOdds),
			num(r.EdgePct), num(r.FullKelly), num(r.Stake), num(r.EV), r.Amount,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes an aligned plain-text table of the main columns.
func WriteTable(w io.Writer, rows []Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tGAME\tMATCHUP\tMARKET\tSIDE\tLINE\tPRICE\tMODEL\tEDGE%\tSTAKE\tEV\tAMOUNT")
	for _, r := range rows {
		line := "-"
		if r.Line != nil {
			line = fmt.Sprintf("%+.1f", *r.Line)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s@%s\t%s\t%s\t%s\t%.2f\t%.3f\t%.2f\t%.4f\t%.3f\t%s\n",
			r.Rank, r.GameID, r.Away, r.Home, r.Market, r.Side, line,
			r.Price, r.ModelProb, r.EdgePct, r.Stake, r.EV, r.Amount)
	}
	return tw.Flush()
}

// WriteGames writes the full context export of each game as a JSON array.
func WriteGames(w io.Writer, games []*core.GameContext, opts core.ExportOptions) error {
	out := make([]core.Record, 0, len(games))
	for _, gc := range games {
		out = append(out, gc.Export(opts))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
