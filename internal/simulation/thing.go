package simulation

import (
	"errors"
	"fmt"
	"log"
	"time"

	"kinematics-sim/internal/common"

	"github.com/google/uuid"
)

// ErrInvalidInterval is returned for negative update intervals.
var ErrInvalidInterval = errors.New("update interval must not be negative")

// Thing is a simulated body: a position, its own update interval and an
// accumulator deciding when the pluggable update function fires.
type Thing struct {
	id          string
	position    common.Vec2
	interval    time.Duration
	accumulated time.Duration
	update      UpdateFunc
	policy      CatchUpPolicy
	logger      *log.Logger

	beforeMove Hook
	afterMove  Hook

	warnedNoUpdate bool
}

// NewThing creates a new body at pos that updates at most once per interval.
func NewThing(pos common.Vec2, interval time.Duration) (*Thing, error) {
	return newThing("thing", pos, interval)
}

func newThing(prefix string, pos common.Vec2, interval time.Duration) (*Thing, error) {
	if interval < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}
	return &Thing{
		id:       fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8]),
		position: pos,
		interval: interval,
		policy:   FixedStep,
		logger:   log.Default(),
	}, nil
}

// GetID returns the unique identifier of the body.
func (t *Thing) GetID() string {
	return t.id
}

// GetPosition returns the current position.
func (t *Thing) GetPosition() common.Vec2 {
	return t.position
}

// Interval returns the body's own update interval.
func (t *Thing) Interval() time.Duration {
	return t.interval
}

// Accumulated returns the time accrued since the last update.
func (t *Thing) Accumulated() time.Duration {
	return t.accumulated
}

// SetUpdateFunc replaces the body's behavior.
func (t *Thing) SetUpdateFunc(fn UpdateFunc) {
	t.update = fn
	t.warnedNoUpdate = false
}

// SetHooks installs the functions run around every position mutation.
// Either may be nil.
func (t *Thing) SetHooks(before, after Hook) {
	t.beforeMove = before
	t.afterMove = after
}

// Bind applies the engine's catch-up policy and logger.
func (t *Thing) Bind(env Environment) {
	t.policy = env.Policy
	if env.Logger != nil {
		t.logger = env.Logger
	}
}

// SetPosition moves the body to pos.
func (t *Thing) SetPosition(pos common.Vec2) {
	t.move(func() { t.position = pos })
}

// SetX moves the body horizontally.
func (t *Thing) SetX(x float64) {
	t.move(func() { t.position.X = x })
}

// SetY moves the body vertically.
func (t *Thing) SetY(y float64) {
	t.move(func() { t.position.Y = y })
}

// move runs the before hook at the old position, applies the mutation and
// runs the after hook at the new position.
func (t *Thing) move(apply func()) {
	if t.beforeMove != nil {
		t.beforeMove()
	}
	apply()
	if t.afterMove != nil {
		t.afterMove()
	}
}

// ComputeIfReady adds elapsed to the accumulator and fires the update
// function once more than one interval has been accumulated.
func (t *Thing) ComputeIfReady(elapsed time.Duration) {
	if elapsed > 0 {
		t.accumulated += elapsed
	}
	if t.accumulated <= t.interval {
		return
	}

	if t.policy == SingleCatchUp || t.interval == 0 {
		dt := t.accumulated
		t.accumulated = 0
		t.fire(dt.Seconds())
		return
	}

	for t.accumulated > t.interval {
		t.accumulated -= t.interval
		if !t.fire(t.interval.Seconds()) {
			// Failed steps drop the backlog instead of retrying it.
			t.accumulated = 0
			return
		}
	}
}

// Step fires the update function once with dt seconds.
func (t *Thing) Step(dt float64) {
	t.fire(dt)
}

// fire runs the update function and reports whether it succeeded. Errors
// and panics are logged and contained to this body.
func (t *Thing) fire(dt float64) (ok bool) {
	if t.update == nil {
		if !t.warnedNoUpdate {
			t.logger.Printf("Warning: entity %s has no update function, it stays inert", t.id)
			t.warnedNoUpdate = true
		}
		return true
	}

	defer func() {
		if r := recover(); r != nil {
			t.logger.Printf("entity %s: update panicked: %v", t.id, r)
			ok = false
		}
	}()

	if err := t.update(dt); err != nil {
		t.logger.Printf("entity %s: update failed: %v", t.id, err)
		return false
	}
	return true
}

// String representation for logging
func (t *Thing) String() string {
	return fmt.Sprintf("Thing[%s] Pos: %s Interval: %s", t.id, t.position, t.interval)
}
