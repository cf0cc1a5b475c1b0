package visualization

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"kinematics-sim/internal/simulation"

	"github.com/gdamore/tcell/v2"
)

const (
	// DefaultCellWidth and DefaultCellHeight are the surface pixels covered
	// by one terminal cell.
	DefaultCellWidth  = 4
	DefaultCellHeight = 8
)

// Terminal is a surface drawn with cell background colors. The last row is
// reserved for the stats line.
type Terminal struct {
	mu           sync.Mutex
	screen       tcell.Screen
	cellW, cellH int
	style        tcell.Style
}

// NewTerminal wraps an initialized screen.
func NewTerminal(screen tcell.Screen, cellWidth, cellHeight int) (*Terminal, error) {
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %dx%d", cellWidth, cellHeight)
	}
	style := tcell.StyleDefault.Background(toTcell(Background)).Foreground(tcell.ColorBlack)
	screen.SetStyle(style)
	return &Terminal{
		screen: screen,
		cellW:  cellWidth,
		cellH:  cellHeight,
		style:  style,
	}, nil
}

func (t *Terminal) drawRows() (int, int) {
	cols, rows := t.screen.Size()
	if rows > 1 {
		rows--
	}
	return cols, rows
}

// Width returns the drawable width in pixels.
func (t *Terminal) Width() int {
	cols, _ := t.drawRows()
	return cols * t.cellW
}

// Height returns the drawable height in pixels.
func (t *Terminal) Height() int {
	_, rows := t.drawRows()
	return rows * t.cellH
}

// cells converts a pixel rectangle into the covered cell range.
func (t *Terminal) cells(r image.Rectangle) image.Rectangle {
	cols, rows := t.drawRows()
	c := image.Rect(
		floorDiv(r.Min.X, t.cellW), floorDiv(r.Min.Y, t.cellH),
		ceilDiv(r.Max.X, t.cellW), ceilDiv(r.Max.Y, t.cellH),
	)
	return c.Intersect(image.Rect(0, 0, cols, rows))
}

// FillRect paints every covered cell. Translucent colors are blended with
// the cell's current background.
func (t *Terminal) FillRect(r image.Rectangle, c color.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, _, _, a := c.RGBA()
	cells := t.cells(r)
	for y := cells.Min.Y; y < cells.Max.Y; y++ {
		for x := cells.Min.X; x < cells.Max.X; x++ {
			fill := c
			if a != 0xffff {
				fill = BlendOver(t.background(x, y), c)
			}
			t.screen.SetContent(x, y, ' ', nil, t.style.Background(toTcell(fill)))
		}
	}
}

// ClearRect resets every covered cell to the background.
func (t *Terminal) ClearRect(r image.Rectangle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cells := t.cells(r)
	for y := cells.Min.Y; y < cells.Max.Y; y++ {
		for x := cells.Min.X; x < cells.Max.X; x++ {
			t.screen.SetContent(x, y, ' ', nil, t.style)
		}
	}
}

// Clear resets the whole screen.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
}

// Present flushes the frame to the terminal.
func (t *Terminal) Present() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

// ShowStats writes the stats line in the reserved bottom row.
func (t *Terminal) ShowStats(s simulation.Stats) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cols, rows := t.screen.Size()
	if rows < 2 {
		return
	}
	line := []rune(s.String() + "  (q to quit)")
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < cols; x++ {
		ch := ' '
		if x < len(line) {
			ch = line[x]
		}
		t.screen.SetContent(x, rows-1, ch, nil, style)
	}
	t.screen.Show()
}

// CellColor returns the background color of a cell.
func (t *Terminal) CellColor(x, y int) color.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.background(x, y)
}

func (t *Terminal) background(x, y int) color.RGBA {
	_, _, style, _ := t.screen.GetContent(x, y)
	_, bg, _ := style.Decompose()
	if bg == tcell.ColorDefault {
		return opaque(Background)
	}
	return fromTcell(bg)
}

// WatchKeys blocks until q, Escape or Ctrl-C is pressed or the screen is
// finalized, then calls onQuit.
func (t *Terminal) WatchKeys(onQuit func()) {
	defer onQuit()
	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}
