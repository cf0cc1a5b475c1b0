package simulation

import (
	"log"
	"time"

	"kinematics-sim/internal/common"
)

// Entity defines the interface for any object driven by the Engine.
type Entity interface {
	// GetID returns the unique identifier of the entity.
	GetID() string
	// GetPosition returns the current position of the entity in meters.
	GetPosition() common.Vec2
	// Bind hands the entity the engine resources it may use. It is called
	// once by Engine.Register before the first update.
	Bind(env Environment)
	// ComputeIfReady is called once per engine tick with the global tick
	// size and fires the update function when the entity's own interval has
	// elapsed.
	ComputeIfReady(elapsed time.Duration)
	// Step fires the update function once with dt seconds, bypassing the
	// accumulator.
	Step(dt float64)
}

// Environment carries the engine-owned resources propagated to entities on
// registration.
type Environment struct {
	Surface Surface
	Policy  CatchUpPolicy
	Scale   float64
	Logger  *log.Logger
}

// UpdateFunc computes the new state of an entity for dt seconds of
// simulated time. The entity's own state is usually captured in the closure.
type UpdateFunc func(dt float64) error

// Hook runs immediately before or after a position mutation.
type Hook func()

// Clearer is implemented by surfaces that can wipe their whole area.
type Clearer interface {
	Clear()
}

// Presenter is implemented by surfaces that buffer drawing and need an
// explicit flush once per frame.
type Presenter interface {
	Present()
}
