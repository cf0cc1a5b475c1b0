package simulation

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"kinematics-sim/internal/common"
)

const (
	// DefaultScale is the number of surface pixels per simulated meter.
	DefaultScale = 10.0
	// DefaultSideLength is the side of a rectangle in meters.
	DefaultSideLength = 1.0
)

var (
	// DefaultColor is used when no color is given.
	DefaultColor color.Color = color.RGBA{0, 0, 255, 255}
	// TrailWash is painted over the previous frame in trail mode,
	// rgba(255, 255, 255, 0.7).
	TrailWash color.Color = color.NRGBA{255, 255, 255, 178}
)

// RenderAttributes describe how a Rect is drawn.
type RenderAttributes struct {
	SideLength float64 // meters
	Color      color.Color
	Trail      bool
}

// DefaultRenderAttributes returns a blue 1m square with a trail.
func DefaultRenderAttributes() RenderAttributes {
	return RenderAttributes{
		SideLength: DefaultSideLength,
		Color:      DefaultColor,
		Trail:      true,
	}
}

// Rect is a Thing that paints itself as a square centered on its position
// and erases its previous frame on every move.
type Rect struct {
	*Thing

	attrs   RenderAttributes
	scale   float64
	surface Surface

	lastPainted image.Rectangle
	painted     bool

	warnedNoSurface bool
}

// NewRect creates a renderable body. Zero attributes fall back to the
// defaults.
func NewRect(pos common.Vec2, interval time.Duration, attrs RenderAttributes) (*Rect, error) {
	thing, err := newThing("rect", pos, interval)
	if err != nil {
		return nil, err
	}
	if attrs.SideLength <= 0 {
		attrs.SideLength = DefaultSideLength
	}
	if attrs.Color == nil {
		attrs.Color = DefaultColor
	}

	r := &Rect{
		Thing: thing,
		attrs: attrs,
		scale: DefaultScale,
	}
	thing.SetHooks(r.erase, r.paintOwn)
	return r, nil
}

// Bind attaches the drawing surface and scale on top of the Thing settings.
func (r *Rect) Bind(env Environment) {
	r.Thing.Bind(env)
	r.surface = env.Surface
	if env.Scale > 0 {
		r.scale = env.Scale
	}
}

// Attributes returns the render attributes.
func (r *Rect) Attributes() RenderAttributes {
	return r.attrs
}

// LastPainted returns the bounds of the last drawn frame.
func (r *Rect) LastPainted() (image.Rectangle, bool) {
	return r.lastPainted, r.painted
}

// Paint draws the square at the current position. A nil color paints with
// the rectangle's own color.
func (r *Rect) Paint(c color.Color) {
	if r.surface == nil {
		if !r.warnedNoSurface {
			r.logger.Printf("Warning: entity %s has no surface to paint on", r.id)
			r.warnedNoSurface = true
		}
		return
	}
	if c == nil {
		c = r.attrs.Color
	}
	bounds := r.bounds()
	r.surface.FillRect(bounds, c)
	r.lastPainted = bounds
	r.painted = true
}

func (r *Rect) paintOwn() {
	r.Paint(nil)
}

// erase fades or clears the last painted frame, never the current position.
func (r *Rect) erase() {
	if r.surface == nil || !r.painted {
		return
	}
	if r.attrs.Trail {
		r.surface.FillRect(r.lastPainted, TrailWash)
	} else {
		r.surface.ClearRect(r.lastPainted)
	}
}

// bounds converts the center position to surface pixels, flipping the
// vertical axis.
func (r *Rect) bounds() image.Rectangle {
	side := r.sidePixels()
	cx := r.position.X * r.scale
	cy := float64(r.surface.Height()) - r.position.Y*r.scale
	x0 := int(math.Round(cx - float64(side)/2))
	y0 := int(math.Round(cy - float64(side)/2))
	return image.Rect(x0, y0, x0+side, y0+side)
}

func (r *Rect) sidePixels() int {
	return int(math.Round(r.attrs.SideLength * r.scale))
}

// VerticalEdgeBounceFactor returns -1 when the square touches the left wall
// moving left or the right wall moving right, else 1.
func (r *Rect) VerticalEdgeBounceFactor(vx float64) float64 {
	if r.surface == nil {
		return 1
	}
	half := r.attrs.SideLength * r.scale / 2
	x := r.position.X * r.scale
	if x-half <= 0 && vx < 0 {
		return -1
	}
	if x+half >= float64(r.surface.Width()) && vx > 0 {
		return -1
	}
	return 1
}

// HorizontalEdgeBounceFactor returns -1 when the square touches the floor
// moving down or the ceiling moving up, else 1.
func (r *Rect) HorizontalEdgeBounceFactor(vy float64) float64 {
	if r.surface == nil {
		return 1
	}
	half := r.attrs.SideLength * r.scale / 2
	y := r.position.Y * r.scale
	if y-half <= 0 && vy < 0 {
		return -1
	}
	if y+half >= float64(r.surface.Height()) && vy > 0 {
		return -1
	}
	return 1
}

// String representation for logging
func (r *Rect) String() string {
	return fmt.Sprintf("Rect[%s] Pos: %s Side: %.2fm Trail: %t", r.id, r.position, r.attrs.SideLength, r.attrs.Trail)
}
