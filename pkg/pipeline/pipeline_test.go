package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenomenon0/hoopsedge/core"
)

// fakeModule writes fixed values, optionally failing or writing extra keys.
type fakeModule struct {
	name   string
	reads  []core.Key
	writes []core.Key
	extra  core.Key
	err    error
}

func (f *fakeModule) Name() string       { return f.name }
func (f *fakeModule) Reads() []core.Key  { return f.reads }
func (f *fakeModule) Writes() []core.Key { return f.writes }

func (f *fakeModule) Apply(gc *core.GameContext) (*core.Delta, error) {
	if f.err != nil {
		return nil, f.err
	}
	d := core.NewDelta()
	sum := 0.0
	for _, k := range f.reads {
		sum += gc.Float(k, 0)
	}
	for _, k := range f.writes {
		d.Output(k, sum+1)
	}
	if f.extra != "" {
		d.Output(f.extra, 1)
	}
	return d, nil
}

func game(t *testing.T, id string) *core.GameContext {
	t.Helper()
	gc, err := core.NewGameContext(id, time.Now(), "H", "A")
	require.NoError(t, err)
	return gc
}

func TestNew_Validation(t *testing.T) {
	a := &fakeModule{name: "a", writes: []core.Key{core.PaceMatch}}
	b := &fakeModule{name: "b", reads: []core.Key{core.PaceMatch}, writes: []core.Key{core.ExpectedDiff}}
	dupe := &fakeModule{name: "dupe", writes: []core.Key{core.PaceMatch}}

	tests := []struct {
		name     string
		features []core.Module
		models   []core.Module
		wantErr  error
	}{
		{"ordered", []core.Module{a}, []core.Module{b}, nil},
		{"reader before writer", nil, []core.Module{b, a}, ErrMisordered},
		{"model feeding a feature", []core.Module{b}, []core.Module{a}, ErrMisordered},
		{"duplicate writer", []core.Module{a, dupe}, nil, ErrDuplicateWriter},
		{"caller-supplied reads", nil, []core.Module{&fakeModule{name: "c", reads: []core.Key{core.RatingHome}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.features, tt.models)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRun_OrderAndCallbacks(t *testing.T) {
	a := &fakeModule{name: "a", writes: []core.Key{core.PaceMatch}}
	b := &fakeModule{name: "b", reads: []core.Key{core.PaceMatch}, writes: []core.Key{core.ExpectedDiff}}
	p, err := New([]core.Module{a}, []core.Module{b})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Modules())

	var results []*StageResult
	p.OnStageComplete(func(r *StageResult) { results = append(results, r) })

	gc := game(t, "g1")
	require.NoError(t, p.Run(gc))
	assert.Equal(t, 2.0, gc.Float(core.ExpectedDiff, 0))

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Module)
	assert.Equal(t, GroupFeature, results[0].Group)
	assert.Equal(t, GroupModel, results[1].Group)
	assert.True(t, results[1].Success)
	assert.Equal(t, []core.Key{core.ExpectedDiff}, results[1].Keys)
}

func TestRun_UndeclaredWrite(t *testing.T) {
	m := &fakeModule{name: "sneaky", writes: []core.Key{core.PaceMatch}, extra: core.ExpectedDiff}
	p, err := New(nil, []core.Module{m})
	require.NoError(t, err)

	gc := game(t, "g1")
	err = p.Run(gc)
	assert.True(t, errors.Is(err, ErrUndeclaredWrite))
	assert.False(t, gc.Outputs.Has(core.PaceMatch), "rejected delta is not merged")
}

func TestRun_ModuleErrorStopsGame(t *testing.T) {
	boom := errors.New("boom")
	p, err := New(
		[]core.Module{&fakeModule{name: "fail", err: boom}},
		[]core.Module{&fakeModule{name: "after", writes: []core.Key{core.ExpectedDiff}}},
	)
	require.NoError(t, err)

	gc := game(t, "g1")
	err = p.Run(gc)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "module fail")
	assert.False(t, gc.Outputs.Has(core.ExpectedDiff))
}

type countingObserver struct {
	mu     sync.Mutex
	stages int
	games  int
	failed int
}

func (c *countingObserver) ObserveStage(*StageResult) {
	c.mu.Lock()
	c.stages++
	c.mu.Unlock()
}

func (c *countingObserver) ObserveGame(_ string, _ time.Duration, err error) {
	c.mu.Lock()
	c.games++
	if err != nil {
		c.failed++
	}
	c.mu.Unlock()
}

// failFor fails only for one game id.
type failFor struct {
	fakeModule
	gameID string
}

func (f *failFor) Apply(gc *core.GameContext) (*core.Delta, error) {
	if gc.GameID == f.gameID {
		return nil, fmt.Errorf("bad data for %s", gc.GameID)
	}
	return f.fakeModule.Apply(gc)
}

func TestRunBatch_IsolatesFailures(t *testing.T) {
	m := &failFor{fakeModule: fakeModule{name: "m", writes: []core.Key{core.ExpectedDiff}}, gameID: "g3"}
	obs := &countingObserver{}
	p, err := New(nil, []core.Module{m})
	require.NoError(t, err)
	p.WithObserver(obs)

	var games []*core.GameContext
	for i := 0; i < 10; i++ {
		games = append(games, game(t, fmt.Sprintf("g%d", i)))
	}

	outcomes := p.RunBatch(context.Background(), games, 4)
	require.Len(t, outcomes, 10)
	for i, o := range outcomes {
		assert.Same(t, games[i], o.Game)
		if o.Game.GameID == "g3" {
			assert.Error(t, o.Err)
			continue
		}
		assert.NoError(t, o.Err)
		assert.Equal(t, 1.0, o.Game.Float(core.ExpectedDiff, 0))
	}
	assert.Equal(t, 10, obs.games)
	assert.Equal(t, 1, obs.failed)
	assert.Equal(t, 10, obs.stages)
}

type panicFor struct {
	fakeModule
	gameID string
}

func (f *panicFor) Apply(gc *core.GameContext) (*core.Delta, error) {
	if gc.GameID == f.gameID {
		panic("cannot create value")
	}
	return f.fakeModule.Apply(gc)
}

func TestRunBatch_RecoversModulePanic(t *testing.T) {
	m := &panicFor{fakeModule: fakeModule{name: "m", writes: []core.Key{core.ExpectedDiff}}, gameID: "g1"}
	p, err := New(nil, []core.Module{m})
	require.NoError(t, err)

	games := []*core.GameContext{game(t, "g1"), game(t, "g2")}
	outcomes := p.RunBatch(context.Background(), games, 2)
	require.Len(t, outcomes, 2)
	assert.True(t, errors.Is(outcomes[0].Err, ErrModulePanic))
	assert.Contains(t, outcomes[0].Err.Error(), "cannot create value")
	assert.NoError(t, outcomes[1].Err)
	assert.Equal(t, 1.0, outcomes[1].Game.Float(core.ExpectedDiff, 0))
}

func TestRunBatch_Cancelled(t *testing.T) {
	p, err := New(nil, []core.Module{&fakeModule{name: "m", writes: []core.Key{core.ExpectedDiff}}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	games := []*core.GameContext{game(t, "g1"), game(t, "g2"), game(t, "g3")}
	outcomes := p.RunBatch(ctx, games, 2)
	require.Len(t, outcomes, 3)
	cancelled := 0
	for _, o := range outcomes {
		if errors.Is(o.Err, context.Canceled) {
			cancelled++
		}
	}
	assert.Equal(t, 3, cancelled)
}
