package simulation

import (
	"fmt"
	"strings"
)

// CatchUpPolicy decides how an entity consumes accumulated time.
type CatchUpPolicy int

const (
	// FixedStep replays the update function in interval-sized steps while
	// more than one interval is accumulated and keeps the remainder.
	FixedStep CatchUpPolicy = iota
	// SingleCatchUp fires the update function once with the whole
	// accumulated time and resets the accumulator.
	SingleCatchUp
)

func (p CatchUpPolicy) String() string {
	switch p {
	case FixedStep:
		return "fixed-step"
	case SingleCatchUp:
		return "single"
	default:
		return fmt.Sprintf("CatchUpPolicy(%d)", int(p))
	}
}

// ParseCatchUpPolicy parses the names produced by CatchUpPolicy.String.
func ParseCatchUpPolicy(s string) (CatchUpPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed-step", "fixed", "":
		return FixedStep, nil
	case "single", "single-catch-up":
		return SingleCatchUp, nil
	}
	return FixedStep, fmt.Errorf("unknown catch-up policy %q", s)
}

// TickMode decides the tick size passed to entities.
type TickMode int

const (
	// FixedTick uses the caller-supplied tick for both simulation and pacing.
	FixedTick TickMode = iota
	// MeasuredTick uses the measured wall time of the previous iteration as
	// the simulation tick and the caller-supplied tick only for pacing.
	MeasuredTick
)

func (m TickMode) String() string {
	switch m {
	case FixedTick:
		return "fixed"
	case MeasuredTick:
		return "measured"
	default:
		return fmt.Sprintf("TickMode(%d)", int(m))
	}
}

// ParseTickMode parses the names produced by TickMode.String.
func ParseTickMode(s string) (TickMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "":
		return FixedTick, nil
	case "measured", "variable":
		return MeasuredTick, nil
	}
	return FixedTick, fmt.Errorf("unknown tick mode %q", s)
}
