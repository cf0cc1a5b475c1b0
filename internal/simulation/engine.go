package simulation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"kinematics-sim/internal/common"
)

const (
	// DefaultDisplayInterval is the refresh period of the stats display.
	DefaultDisplayInterval = 100 * time.Millisecond
	// minMeasuredTick is the smallest tick used in MeasuredTick mode.
	minMeasuredTick = time.Millisecond
	// slowTickStreak is the number of consecutive ticks without sleep that
	// triggers the pacing warning.
	slowTickStreak = 10
)

var (
	// ErrInvalidTick is returned for a non-positive tick.
	ErrInvalidTick = errors.New("tick must be positive")
	// ErrInvalidDuration is returned for a negative duration.
	ErrInvalidDuration = errors.New("duration must not be negative")
	// ErrAlreadyRunning is returned when Run is called on a running engine.
	ErrAlreadyRunning = errors.New("engine is already running")
)

// EngineConfig holds the settings fixed for the lifetime of an Engine.
type EngineConfig struct {
	Policy CatchUpPolicy
	// Scale is surface pixels per meter; zero means DefaultScale.
	Scale  float64
	Logger *log.Logger
	Clock  Clock
	// Display, if set, receives stats every DisplayInterval while running.
	Display         StatsSink
	DisplayInterval time.Duration
}

// RunOptions configure one run session.
type RunOptions struct {
	// Duration of simulated time the run must exceed before it ends; zero
	// runs until Stop is called or the context is cancelled.
	Duration time.Duration
	// Tick is the simulation step in FixedTick mode and the pacing budget of
	// every iteration.
	Tick time.Duration
	Mode TickMode
}

func (o RunOptions) validate() error {
	if o.Tick <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTick, o.Tick)
	}
	if o.Duration < 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidDuration, o.Duration)
	}
	if o.Mode != FixedTick && o.Mode != MeasuredTick {
		return fmt.Errorf("unknown tick mode %s", o.Mode)
	}
	return nil
}

// Engine owns the entities and the clock and drives the tick loop.
type Engine struct {
	surface Surface
	cfg     EngineConfig
	logger  *log.Logger
	clock   Clock

	running atomic.Bool

	mu             sync.Mutex // guards the fields below
	entities       []Entity
	virtualRuntime time.Duration
	realStart      time.Time
	realEnd        time.Time
	ticks          int
	frames         frameTimes
	states         []EntityState
}

// EntityState is the position of an entity at the end of a tick.
type EntityState struct {
	ID       string
	Position common.Vec2
}

// NewEngine creates an engine drawing on surface and registers the initial
// entities in order.
func NewEngine(surface Surface, entities []Entity, cfg EngineConfig) (*Engine, error) {
	if cfg.Scale < 0 {
		return nil, fmt.Errorf("scale must not be negative, got %f", cfg.Scale)
	}
	if cfg.Scale == 0 {
		cfg.Scale = DefaultScale
	}
	if cfg.DisplayInterval <= 0 {
		cfg.DisplayInterval = DefaultDisplayInterval
	}
	e := &Engine{
		surface: surface,
		cfg:     cfg,
		logger:  cfg.Logger,
		clock:   cfg.Clock,
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.clock == nil {
		e.clock = NewRealClock()
	}
	for _, ent := range entities {
		e.Register(ent)
	}
	return e, nil
}

// Register appends the entity and fires one zero-duration update so it
// paints its initial state.
func (e *Engine) Register(ent Entity) {
	ent.Bind(Environment{
		Surface: e.surface,
		Policy:  e.cfg.Policy,
		Scale:   e.cfg.Scale,
		Logger:  e.logger,
	})
	e.mu.Lock()
	e.entities = append(e.entities, ent)
	e.mu.Unlock()
	ent.Step(0)
	e.recordStates()
}

// States returns the entity positions recorded after the last tick. Unlike
// reading entities directly it is safe to call while the engine runs.
func (e *Engine) States() []EntityState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]EntityState, len(e.states))
	copy(out, e.states)
	return out
}

// recordStates must be called from the goroutine driving the entities.
func (e *Engine) recordStates() {
	entities := e.Entities()
	states := make([]EntityState, len(entities))
	for i, ent := range entities {
		states[i] = EntityState{ID: ent.GetID(), Position: ent.GetPosition()}
	}
	e.mu.Lock()
	e.states = states
	e.mu.Unlock()
}

// Entities returns the registered entities in update order.
func (e *Engine) Entities() []Entity {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Entity, len(e.entities))
	copy(out, e.entities)
	return out
}

// Running reports whether a run session is active.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Stop requests the end of the current run. The tick in progress completes
// first. Calling Stop on an idle engine does nothing.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// Stats returns a snapshot of the current or last session.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{
		VirtualRuntime: e.virtualRuntime,
		Ticks:          e.ticks,
		FPS:            e.frames.fps(),
		Running:        e.running.Load(),
	}
	switch {
	case e.realStart.IsZero():
	case s.Running:
		s.RealRuntime = e.clock.Now().Sub(e.realStart)
	default:
		s.RealRuntime = e.realEnd.Sub(e.realStart)
	}
	return s
}

// Run executes ticks until the duration expires, Stop is called or ctx is
// cancelled. Engine faults never end a run; only invalid options or a
// concurrent Run return an error.
func (e *Engine) Run(ctx context.Context, opts RunOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	e.mu.Lock()
	e.virtualRuntime = 0
	e.ticks = 0
	e.realStart = e.clock.Now()
	e.realEnd = time.Time{}
	e.frames.reset()
	e.mu.Unlock()

	stopDisplay := e.startDisplay()
	defer func() {
		e.mu.Lock()
		e.realEnd = e.clock.Now()
		e.mu.Unlock()
		e.running.Store(false)
		stopDisplay()
	}()

	tick := opts.Tick
	var prevStart time.Time
	streak := 0
	warned := false

	for e.running.Load() && ctx.Err() == nil {
		start := e.clock.Now()
		if !prevStart.IsZero() {
			frame := start.Sub(prevStart)
			e.mu.Lock()
			e.frames.add(frame)
			e.mu.Unlock()
			if opts.Mode == MeasuredTick {
				tick = max(frame, minMeasuredTick)
			}
		}
		prevStart = start

		for _, ent := range e.Entities() {
			ent.ComputeIfReady(tick)
		}
		e.recordStates()

		// The step that carries virtual time past the duration is applied
		// but neither paced nor counted as a tick.
		e.mu.Lock()
		e.virtualRuntime += tick
		done := opts.Duration > 0 && e.virtualRuntime > opts.Duration
		if !done {
			e.ticks++
		}
		e.mu.Unlock()
		if done {
			break
		}

		e.present()

		sleep := opts.Tick - e.clock.Now().Sub(start)
		if sleep > 0 {
			streak = 0
			e.clock.Sleep(sleep)
			continue
		}
		streak++
		if streak >= slowTickStreak && !warned {
			e.logger.Printf("Warning: ticks take longer than %s, the simulation runs slower than real time", opts.Tick)
			warned = true
		}
	}

	e.present()
	return nil
}

func (e *Engine) present() {
	if p, ok := e.surface.(Presenter); ok {
		p.Present()
	}
}

// startDisplay pushes stats to the configured sink until the returned
// function is called.
func (e *Engine) startDisplay() func() {
	sink := e.cfg.Display
	if sink == nil {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(e.cfg.DisplayInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				sink.ShowStats(e.Stats())
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
		sink.ShowStats(e.Stats())
	}
}
