package simulation

import "time"

// Clock provides wall time and pacing to the Engine.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock reads the monotonic system clock.
type RealClock struct{}

// NewRealClock creates a clock backed by the time package.
func NewRealClock() *RealClock {
	return &RealClock{}
}

// Now returns the current time with monotonic clock reading
func (RealClock) Now() time.Time {
	return time.Now()
}

// Sleep pauses the calling goroutine for d.
func (RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
