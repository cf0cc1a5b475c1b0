package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"sync"
)

// Background is the color of a cleared canvas.
var Background color.Color = color.RGBA{255, 255, 255, 255}

// Canvas is an in-memory raster surface. It is safe for concurrent use so a
// window can read frames while the engine draws.
type Canvas struct {
	mu         sync.Mutex
	img        *image.RGBA
	background *image.Uniform
}

// NewCanvas creates a canvas of the given pixel size filled with bg. A nil
// bg uses Background.
func NewCanvas(width, height int, bg color.Color) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", width, height)
	}
	if bg == nil {
		bg = Background
	}
	c := &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		background: image.NewUniform(bg),
	}
	c.Clear()
	return c, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.img.Bounds().Dx()
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.img.Bounds().Dy()
}

// FillRect composites col over r, clipped to the canvas.
func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// ClearRect resets r to the background.
func (c *Canvas) ClearRect(r image.Rectangle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), c.background, image.Point{}, draw.Src)
}

// Clear resets the whole canvas.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	draw.Draw(c.img, c.img.Bounds(), c.background, image.Point{}, draw.Src)
}

// At returns the pixel at (x, y).
func (c *Canvas) At(x, y int) color.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.img.RGBAAt(x, y)
}

// WithPixels calls fn with the backing image while holding the canvas lock.
// fn must not retain img.
func (c *Canvas) WithPixels(fn func(img *image.RGBA)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.img)
}

// WritePNG encodes the current frame.
func (c *Canvas) WritePNG(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// SavePNG writes the current frame to path.
func (c *Canvas) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := c.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
