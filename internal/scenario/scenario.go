package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"kinematics-sim/internal/common"
	"kinematics-sim/internal/simulation"
	"kinematics-sim/internal/visualization"

	"gopkg.in/yaml.v3"
)

// Kinds of bodies a scenario can describe.
const (
	KindConstantVelocity  = "constant-velocity"
	KindFreeFall          = "free-fall"
	KindVerticalThrow     = "vertical-throw"
	KindObliqueThrow      = "oblique-throw"
	KindAcceleratedBounce = "accelerated-bounce"
)

// ErrUnknownKind is returned for a body kind without a behavior.
var ErrUnknownKind = errors.New("unknown body kind")

// defaultParams are the demo constants used for parameters a body omits.
var defaultParams = map[string]map[string]float64{
	KindConstantVelocity:  {"v": 40},
	KindFreeFall:          {"a": -9.81},
	KindVerticalThrow:     {"ay": -1.625, "vy": 10},
	KindObliqueThrow:      {"ay": -9.81, "vx": 20},
	KindAcceleratedBounce: {"ax": 0.2, "ay": -9.81, "vx": 0, "vy": 30},
}

// File is a scenario document.
type File struct {
	Bodies []BodySpec `yaml:"bodies"`
}

// BodySpec describes one renderable body.
type BodySpec struct {
	Kind string  `yaml:"kind"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	// Interval is the body's own update interval in seconds.
	Interval float64            `yaml:"interval"`
	Side     float64            `yaml:"side,omitempty"`
	Color    string             `yaml:"color,omitempty"`
	Trail    *bool              `yaml:"trail,omitempty"`
	Params   map[string]float64 `yaml:"params,omitempty"`
}

// Load decodes a scenario from r.
func Load(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if len(f.Bodies) == 0 {
		return nil, errors.New("scenario has no bodies")
	}
	return &f, nil
}

// LoadFile decodes the scenario stored at path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario: %w", err)
	}
	defer fh.Close()
	return Load(fh)
}

// Build creates the rectangles of every body in order.
func (f *File) Build() ([]*simulation.Rect, error) {
	rects := make([]*simulation.Rect, 0, len(f.Bodies))
	for i, body := range f.Bodies {
		r, err := body.Build()
		if err != nil {
			return nil, fmt.Errorf("body %d (%s): %w", i, body.Kind, err)
		}
		rects = append(rects, r)
	}
	return rects, nil
}

// Entities is Build with the result typed for the engine.
func (f *File) Entities() ([]simulation.Entity, error) {
	rects, err := f.Build()
	if err != nil {
		return nil, err
	}
	entities := make([]simulation.Entity, len(rects))
	for i, r := range rects {
		entities[i] = r
	}
	return entities, nil
}

func (b BodySpec) param(name string) float64 {
	if v, ok := b.Params[name]; ok {
		return v
	}
	return defaultParams[b.Kind][name]
}

// Build creates the rectangle and installs its behavior.
func (b BodySpec) Build() (*simulation.Rect, error) {
	if _, ok := defaultParams[b.Kind]; !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, b.Kind)
	}
	for name := range b.Params {
		if _, ok := defaultParams[b.Kind][name]; !ok {
			return nil, fmt.Errorf("unknown parameter %q for %s", name, b.Kind)
		}
	}
	if b.Interval < 0 {
		return nil, fmt.Errorf("%w: %gs", simulation.ErrInvalidInterval, b.Interval)
	}

	attrs := simulation.DefaultRenderAttributes()
	if b.Side > 0 {
		attrs.SideLength = b.Side
	}
	if b.Color != "" {
		c, err := visualization.ParseColor(b.Color)
		if err != nil {
			return nil, err
		}
		attrs.Color = c
	}
	if b.Trail != nil {
		attrs.Trail = *b.Trail
	}

	interval := time.Duration(b.Interval * float64(time.Second))
	r, err := simulation.NewRect(common.NewVec2(b.X, b.Y), interval, attrs)
	if err != nil {
		return nil, err
	}

	switch b.Kind {
	case KindConstantVelocity:
		r.SetUpdateFunc(ConstantVelocity(r, b.param("v")))
	case KindFreeFall:
		r.SetUpdateFunc(FreeFall(r, b.param("a")))
	case KindVerticalThrow:
		r.SetUpdateFunc(VerticalThrow(r, b.param("ay"), b.param("vy")))
	case KindObliqueThrow:
		r.SetUpdateFunc(ObliqueThrow(r, b.param("ay"), b.param("vx")))
	case KindAcceleratedBounce:
		r.SetUpdateFunc(AcceleratedBounce(r, b.param("ax"), b.param("ay"), b.param("vx"), b.param("vy")))
	}
	return r, nil
}

// Demo returns the bodies of the classroom demo: one body per motion and a
// row of identical accelerated bodies whose intervals span four decades to
// show how the step size changes the trajectory.
func Demo() *File {
	noTrail := false
	f := &File{Bodies: []BodySpec{
		{Kind: KindConstantVelocity, X: 10, Y: 20, Interval: 0.01},
		{Kind: KindFreeFall, X: 20, Y: 40, Interval: 0.01},
		{Kind: KindVerticalThrow, X: 60, Y: 10, Interval: 0.001},
		{Kind: KindObliqueThrow, X: 20, Y: 70, Interval: 0.001, Color: "magenta", Trail: &noTrail},
	}}
	for i, c := range []string{"purple", "red", "orange", "green", "brown"} {
		f.Bodies = append(f.Bodies, BodySpec{
			Kind:     KindAcceleratedBounce,
			X:        30,
			Y:        20,
			Interval: 1 / float64(pow10(i)),
			Color:    c,
		})
	}
	return f
}

func pow10(n int) int {
	p := 1
	for ; n > 0; n-- {
		p *= 10
	}
	return p
}
