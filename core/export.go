package core

import (
	"bytes"
	"encoding/json"
)

// Field is one named value in an ordered export record.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered set of fields that marshals as a JSON object with
// keys in field order.
type Record []Field

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// ExportOptions controls what Export includes.
type ExportOptions struct {
	WithInputs        bool
	WithDistributions bool
}

// Export flattens the context into identity fields, features, optionally
// model inputs, outputs, and value lines, in insertion order.
func (gc *GameContext) Export(opts ExportOptions) Record {
	rec := Record{
		{"game_id", gc.GameID},
		{"date", gc.Date.Format("2006-01-02")},
		{"home", gc.Home},
		{"away", gc.Away},
	}
	rec = appendStore(rec, &gc.Features)
	if opts.WithInputs {
		rec = appendStore(rec, &gc.Inputs)
	}
	rec = appendStore(rec, &gc.Outputs)
	if len(gc.InjuriesHome) > 0 || len(gc.InjuriesAway) > 0 {
		rec = append(rec, Field{"injuries_home", injuryNames(gc.InjuriesHome)})
		rec = append(rec, Field{"injuries_away", injuryNames(gc.InjuriesAway)})
	}
	if opts.WithDistributions && gc.Distribution != nil {
		rec = append(rec,
			Field{"mc_diff_distribution", gc.Distribution.Diffs},
			Field{"mc_total_distribution", gc.Distribution.Totals},
		)
	}
	lines := gc.Lines
	if lines == nil {
		lines = []ValueLine{}
	}
	rec = append(rec, Field{string(ValueLines), lines})
	return rec
}

func appendStore(rec Record, s *Store) Record {
	for _, k := range s.keys {
		rec = append(rec, Field{string(k), s.vals[k]})
	}
	return rec
}

func injuryNames(in []Injury) []string {
	out := make([]string, 0, len(in))
	for _, i := range in {
		out = append(out, i.Player)
	}
	return out
}
