package surface

import (
	"image/color"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal is a Surface drawn onto a region of a tcell screen. Logical
// pixels are multiplied by the device pixel ratio; each terminal cell
// covers pxPerCol×pxPerRow device pixels and is painted with the color of
// the pixel at its center. Several Terminal surfaces may share one screen.
// Surfaces whose logical extents do not overlap never paint the same cell.
type Terminal struct {
	mu       sync.Mutex
	screen   tcell.Screen
	dpr      float64
	originX  float64
	originY  float64
	pxPerCol float64
	pxPerRow float64
	width    int
	height   int
	visible  bool
}

// NewTerminal creates a terminal surface. Terminal cells are roughly twice
// as tall as wide, so rows cover twice as many device pixels as columns.
func NewTerminal(screen tcell.Screen, pxPerCol, dpr float64) *Terminal {
	if pxPerCol <= 0 {
		pxPerCol = 1
	}
	if dpr <= 0 {
		dpr = 1
	}
	return &Terminal{
		screen:   screen,
		dpr:      dpr,
		pxPerCol: pxPerCol,
		pxPerRow: pxPerCol * 2,
		width:    1,
		height:   1,
		visible:  true,
	}
}

// SetOrigin moves the surface's top-left corner to a position in logical
// pixels relative to the screen's top-left corner. Positions may be
// negative or beyond the screen; drawing is clipped.
func (t *Terminal) SetOrigin(x, y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.originX, t.originY = x, y
}

// SetVisible enables or disables drawing without touching the screen.
func (t *Terminal) SetVisible(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = v
}

// Cells returns the surface's size in terminal cells.
func (t *Terminal) Cells() (cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cellsLocked()
}

func (t *Terminal) cellsLocked() (int, int) {
	return max(1, int(math.Ceil(float64(BackingSize(t.width, t.dpr))/t.pxPerCol))),
		max(1, int(math.Ceil(float64(BackingSize(t.height, t.dpr))/t.pxPerRow)))
}

// BackingSize returns the surface size in device pixels.
func (t *Terminal) BackingSize() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return BackingSize(t.width, t.dpr), BackingSize(t.height, t.dpr)
}

func (t *Terminal) FillRect(x, y, w, h float64, c color.RGBA) {
	style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
	t.paint(x, y, w, h, style)
}

func (t *Terminal) ClearRect(x, y, w, h float64) {
	t.paint(x, y, w, h, tcell.StyleDefault)
}

// paint sets every screen cell whose center lies inside the rectangle
// clipped to the surface.
func (t *Terminal) paint(x, y, w, h float64, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.screen == nil || !t.visible {
		return
	}
	sw, sh := t.screen.Size()

	x0 := (t.originX + max(x, 0)) * t.dpr
	x1 := (t.originX + min(x+w, float64(t.width))) * t.dpr
	y0 := (t.originY + max(y, 0)) * t.dpr
	y1 := (t.originY + min(y+h, float64(t.height))) * t.dpr

	c0 := max(0, int(math.Ceil(x0/t.pxPerCol-0.5)))
	c1 := min(sw, int(math.Ceil(x1/t.pxPerCol-0.5)))
	r0 := max(0, int(math.Ceil(y0/t.pxPerRow-0.5)))
	r1 := min(sh, int(math.Ceil(y1/t.pxPerRow-0.5)))

	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			t.screen.SetContent(c, r, ' ', nil, style)
		}
	}
}

func (t *Terminal) Resize(width, height int) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.width, t.height = width, height
	return nil
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// Release detaches the surface from the screen. The screen itself is owned
// by the host.
func (t *Terminal) Release() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen = nil
	return nil
}
