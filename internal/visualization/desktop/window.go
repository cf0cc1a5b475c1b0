package desktop

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"kinematics-sim/internal/simulation"
	"kinematics-sim/internal/visualization"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Window implements ebiten.Game and shows a Canvas the engine draws on.
type Window struct {
	canvas *visualization.Canvas
	frame  *ebiten.Image

	mu    sync.Mutex
	stats simulation.Stats
}

// NewWindow creates a window presenting canvas.
func NewWindow(canvas *visualization.Canvas) *Window {
	return &Window{canvas: canvas}
}

// ShowStats stores the snapshot drawn by the next frame.
func (w *Window) ShowStats(s simulation.Stats) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats = s
}

// Update handles the quit keys.
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

// Draw is called every frame to copy the canvas onto the screen.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.frame == nil {
		w.frame = ebiten.NewImage(w.canvas.Width(), w.canvas.Height())
	}
	w.canvas.WithPixels(func(img *image.RGBA) {
		w.frame.WritePixels(img.Pix)
	})

	screen.Fill(color.White)
	screen.DrawImage(w.frame, nil)

	w.mu.Lock()
	stats := w.stats
	w.mu.Unlock()
	ebitenutil.DebugPrint(screen, debugInfo(stats))
}

func debugInfo(s simulation.Stats) string {
	msg := fmt.Sprintf("Engine time: %.2fs\n", s.VirtualRuntime.Seconds())
	msg += fmt.Sprintf("Real time: %.2fs\n", s.RealRuntime.Seconds())
	msg += fmt.Sprintf("Engine FPS: %.1f\n", s.FPS)
	msg += fmt.Sprintf("FPS: %.1f, TPS: %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	if !s.Running {
		msg += "Stopped (Esc to close)\n"
	}
	return msg
}

// Layout is called when the window size changes. The canvas size is fixed.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.canvas.Width(), w.canvas.Height()
}
