// Package pipeline runs feature modules and then model modules over game
// contexts, enforcing the read/write declarations of each module.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenomenon0/hoopsedge/core"
)

var (
	// ErrMisordered means a module reads a key that is written by a module
	// running at or after it.
	ErrMisordered = errors.New("pipeline: module reads a key written later")
	// ErrDuplicateWriter means two modules declare the same written key.
	ErrDuplicateWriter = errors.New("pipeline: key declared by more than one writer")
	// ErrUndeclaredWrite means a module's delta wrote a key it did not declare.
	ErrUndeclaredWrite = errors.New("pipeline: module wrote an undeclared key")
	// ErrModulePanic means a module panicked while applying to a game.
	ErrModulePanic = errors.New("pipeline: module panicked")
)

// Group names a set of modules.
type Group string

const (
	GroupFeature Group = "feature"
	GroupModel   Group = "model"
)

// StageResult holds the result of one module run on one game.
type StageResult struct {
	GameID    string        `json:"game_id"`
	Module    string        `json:"module"`
	Group     Group         `json:"group"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Keys      []core.Key    `json:"keys,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Observer receives stage and game results, e.g. for metrics. It must be
// safe for concurrent use when used with RunBatch.
type Observer interface {
	ObserveStage(r *StageResult)
	ObserveGame(gameID string, d time.Duration, err error)
}

type stage struct {
	module core.Module
	group  Group
	writes map[core.Key]bool
}

// Pipeline is an immutable, validated module order. It is safe for
// concurrent use across distinct contexts.
type Pipeline struct {
	stages   []stage
	observer Observer

	onStageComplete func(*StageResult)
}

// New validates the module order: features first, then models, each in
// the order given.
func New(features, models []core.Module) (*Pipeline, error) {
	p := &Pipeline{}
	for _, m := range features {
		p.stages = append(p.stages, newStage(m, GroupFeature))
	}
	for _, m := range models {
		p.stages = append(p.stages, newStage(m, GroupModel))
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func newStage(m core.Module, g Group) stage {
	w := make(map[core.Key]bool)
	for _, k := range m.Writes() {
		w[k] = true
	}
	return stage{module: m, group: g, writes: w}
}

func (p *Pipeline) validate() error {
	writer := make(map[core.Key]int)
	for i, s := range p.stages {
		for _, k := range s.module.Writes() {
			if j, ok := writer[k]; ok && j != i {
				return fmt.Errorf("%w: %s written by %s and %s",
					ErrDuplicateWriter, k, p.stages[j].module.Name(), s.module.Name())
			}
			writer[k] = i
		}
	}
	for i, s := range p.stages {
		for _, k := range s.module.Reads() {
			j, ok := writer[k]
			if !ok {
				continue // caller-supplied
			}
			if j >= i {
				return fmt.Errorf("%w: %s reads %s, written by %s",
					ErrMisordered, s.module.Name(), k, p.stages[j].module.Name())
			}
		}
	}
	return nil
}

// OnStageComplete sets a callback for stage completions. It must be safe
// for concurrent use when used with RunBatch.
func (p *Pipeline) OnStageComplete(fn func(*StageResult)) {
	p.onStageComplete = fn
}

// WithObserver attaches an observer.
func (p *Pipeline) WithObserver(o Observer) *Pipeline {
	p.observer = o
	return p
}

// Modules returns module names in execution order.
func (p *Pipeline) Modules() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.module.Name()
	}
	return names
}

// Run executes every module on gc in order. The first module error stops
// the game and is returned wrapped with the module name.
func (p *Pipeline) Run(gc *core.GameContext) error {
	start := time.Now()
	err := p.run(gc)
	if p.observer != nil {
		p.observer.ObserveGame(gc.GameID, time.Since(start), err)
	}
	return err
}

func (p *Pipeline) run(gc *core.GameContext) error {
	for _, s := range p.stages {
		if err := p.runStage(gc, s); err != nil {
			return fmt.Errorf("game %s: module %s: %w", gc.GameID, s.module.Name(), err)
		}
	}
	return nil
}

func (p *Pipeline) runStage(gc *core.GameContext, s stage) error {
	start := time.Now()
	d, err := apply(s.module, gc)
	if err == nil {
		for _, k := range d.Keys() {
			if !s.writes[k] {
				err = fmt.Errorf("%w: %s", ErrUndeclaredWrite, k)
				break
			}
		}
	}
	if err == nil {
		gc.Merge(d)
	}

	result := &StageResult{
		GameID:    gc.GameID,
		Module:    s.module.Name(),
		Group:     s.group,
		Success:   err == nil,
		Duration:  time.Since(start),
		Timestamp: time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Keys = d.Keys()
	}

	if p.onStageComplete != nil {
		p.onStageComplete(result)
	}
	if p.observer != nil {
		p.observer.ObserveStage(result)
	}
	return err
}

// apply recovers a module panic into an error so only that game fails.
func apply(m core.Module, gc *core.GameContext) (d *core.Delta, err error) {
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, fmt.Errorf("%w: %v", ErrModulePanic, r)
		}
	}()
	return m.Apply(gc)
}

// Outcome is the result of one game in a batch.
type Outcome struct {
	Game     *core.GameContext
	Err      error
	Duration time.Duration
}

// RunBatch runs games concurrently on up to workers goroutines. Outcomes are
// returned in input order. A failing game does not stop the others;
// cancelling ctx stops dispatch, and undispatched games carry ctx.Err().
func (p *Pipeline) RunBatch(ctx context.Context, games []*core.GameContext, workers int) []Outcome {
	if workers < 1 {
		workers = 1
	}
	outcomes := make([]Outcome, len(games))
	for i, gc := range games {
		outcomes[i].Game = gc
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := time.Now()
				err := p.Run(games[i])
				outcomes[i].Err = err
				outcomes[i].Duration = time.Since(start)
				if err != nil {
					log.Debug().Err(err).Str("game_id", games[i].GameID).Msg("game failed")
				}
			}
		}()
	}

	dispatched := 0
dispatch:
	for i := range games {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
			dispatched++
		}
	}
	close(jobs)
	wg.Wait()

	if dispatched < len(games) {
		for i := dispatched; i < len(games); i++ {
			outcomes[i].Err = ctx.Err()
		}
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	log.Info().
		Int("games", len(games)).
		Int("failed", failed).
		Int("workers", workers).
		Msg("batch complete")
	return outcomes
}
