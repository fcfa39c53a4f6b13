package core

// Module is one pipeline stage. Apply reads the context and returns the
// values it wants written; it must not mutate gc. Every key in the returned
// delta must appear in Writes.
type Module interface {
	Name() string
	Reads() []Key
	Writes() []Key
	Apply(gc *GameContext) (*Delta, error)
}

type write struct {
	key   Key
	kind  KeyKind
	value float64
}

// Delta collects the writes produced by one module run.
type Delta struct {
	writes       []write
	distribution *Distribution
	lines        []ValueLine
	linesSet     bool
}

// NewDelta returns an empty delta.
func NewDelta() *Delta {
	return &Delta{}
}

// Feature records a feature write.
func (d *Delta) Feature(k Key, v float64) *Delta {
	d.writes = append(d.writes, write{key: k, kind: KindFeature, value: v})
	return d
}

// Input records an intermediate model value.
func (d *Delta) Input(k Key, v float64) *Delta {
	d.writes = append(d.writes, write{key: k, kind: KindInput, value: v})
	return d
}

// Output records a model output.
func (d *Delta) Output(k Key, v float64) *Delta {
	d.writes = append(d.writes, write{key: k, kind: KindOutput, value: v})
	return d
}

// SetDistribution attaches a simulated score distribution (key MCDistribution).
func (d *Delta) SetDistribution(dist *Distribution) *Delta {
	d.distribution = dist
	return d
}

// AddLines appends evaluated market legs (key ValueLines).
func (d *Delta) AddLines(lines ...ValueLine) *Delta {
	d.lines = append(d.lines, lines...)
	d.linesSet = true
	return d
}

// Keys returns every key the delta writes, in write order.
func (d *Delta) Keys() []Key {
	if d == nil {
		return nil
	}
	out := make([]Key, 0, len(d.writes)+2)
	for _, w := range d.writes {
		out = append(out, w.key)
	}
	if d.distribution != nil {
		out = append(out, MCDistribution)
	}
	if d.linesSet {
		out = append(out, ValueLines)
	}
	return out
}

// Value returns the value written for k, if any.
func (d *Delta) Value(k Key) (float64, bool) {
	if d == nil {
		return 0, false
	}
	for i := len(d.writes) - 1; i >= 0; i-- {
		if d.writes[i].key == k {
			return d.writes[i].value, true
		}
	}
	return 0, false
}

// Len returns the number of scalar writes.
func (d *Delta) Len() int {
	if d == nil {
		return 0
	}
	return len(d.writes)
}
