package simulation

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"sync"
	"time"
)

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	slept time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.slept += d
}

// Advance simulates work taking d of wall time.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Slept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slept
}

type surfaceCall struct {
	op    string
	r     image.Rectangle
	color color.Color
}

type recordingSurface struct {
	width, height int
	calls         []surfaceCall
	presents      int
}

func newRecordingSurface(w, h int) *recordingSurface {
	return &recordingSurface{width: w, height: h}
}

func (s *recordingSurface) FillRect(r image.Rectangle, c color.Color) {
	s.calls = append(s.calls, surfaceCall{op: "fill", r: r, color: c})
}

func (s *recordingSurface) ClearRect(r image.Rectangle) {
	s.calls = append(s.calls, surfaceCall{op: "clear", r: r})
}

func (s *recordingSurface) Width() int  { return s.width }
func (s *recordingSurface) Height() int { return s.height }
func (s *recordingSurface) Present()    { s.presents++ }

func (s *recordingSurface) fills(c color.Color) int {
	n := 0
	for _, call := range s.calls {
		if call.op == "fill" && call.color == c {
			n++
		}
	}
	return n
}

type statsRecorder struct {
	mu    sync.Mutex
	stats []Stats
}

func (r *statsRecorder) ShowStats(s Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = append(r.stats, s)
}

func (r *statsRecorder) last() (Stats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stats) == 0 {
		return Stats{}, false
	}
	return r.stats[len(r.stats)-1], true
}

func newBufferLogger() (*log.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return log.New(buf, "", 0), buf
}
