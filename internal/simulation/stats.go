package simulation

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"
)

// fpsWindow is the number of recent frames averaged for the FPS reading.
const fpsWindow = 60

// Stats is a read-only snapshot of an engine session.
type Stats struct {
	VirtualRuntime time.Duration
	RealRuntime    time.Duration
	FPS            float64
	Ticks          int
	Running        bool
}

// String formats the snapshot the way the status displays show it.
func (s Stats) String() string {
	return fmt.Sprintf("engine time: %.2fs | real time: %.2fs | fps: %.1f",
		s.VirtualRuntime.Seconds(), s.RealRuntime.Seconds(), s.FPS)
}

// StatsSink receives stats snapshots at a cosmetic refresh rate.
type StatsSink interface {
	ShowStats(s Stats)
}

// frameTimes keeps the durations of the most recent frames in seconds.
type frameTimes struct {
	samples []float64
	next    int
}

func (f *frameTimes) reset() {
	f.samples = f.samples[:0]
	f.next = 0
}

func (f *frameTimes) add(d time.Duration) {
	if d <= 0 {
		return
	}
	if len(f.samples) < fpsWindow {
		f.samples = append(f.samples, d.Seconds())
		return
	}
	f.samples[f.next] = d.Seconds()
	f.next = (f.next + 1) % fpsWindow
}

func (f *frameTimes) fps() float64 {
	if len(f.samples) == 0 {
		return 0
	}
	mean := stat.Mean(f.samples, nil)
	if mean <= 0 {
		return 0
	}
	return 1 / mean
}
