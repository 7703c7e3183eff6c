package surface

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.RGBA{R: 0xff, A: 0xff}

func TestBackingSize(t *testing.T) {
	tests := []struct {
		logical int
		dpr     float64
		want    int
	}{
		{100, 1, 100},
		{35, 1.5, 52},
		{10, 2, 20},
		{0, 2, 1},
		{7, 0, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BackingSize(tt.logical, tt.dpr), "%d@%v", tt.logical, tt.dpr)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(2)
	require.NoError(t, r.Resize(20, 10))
	assert.ErrorIs(t, r.Resize(0, 10), ErrInvalidSize)

	w, h := r.BackingSize()
	assert.Equal(t, 40, w)
	assert.Equal(t, 20, h)

	r.FillRect(0, 0, 10, 10, red)
	r.ClearRect(0, 0, 5, 5)
	assert.Len(t, r.Ops(), 2, "partial clear is recorded")
	_, ok := r.ColorAt(1, 1)
	assert.False(t, ok)
	c, ok := r.ColorAt(7, 7)
	require.True(t, ok)
	assert.Equal(t, red, c)

	r.ClearRect(0, 0, 20, 10)
	assert.Len(t, r.Ops(), 1, "full clear starts a new frame")
	assert.Empty(t, r.Fills())

	require.NoError(t, r.Release())
	assert.True(t, r.Released())
}

func TestRaster(t *testing.T) {
	r, err := NewRaster(4, 4, 2)
	require.NoError(t, err)
	defer r.Release()

	assert.Equal(t, 8, r.Image().Bounds().Dx())

	r.FillRect(0, 0, 2, 2, red)
	cr, _, _, ca := r.Image().At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), cr)
	assert.Equal(t, uint32(0xffff), ca)

	r.ClearRect(0, 0, 4, 4)
	_, _, _, ca = r.Image().At(1, 1).RGBA()
	assert.Zero(t, ca)

	require.NoError(t, r.Resize(6, 3))
	w, h := r.Size()
	assert.Equal(t, 6, w)
	assert.Equal(t, 3, h)
	assert.Equal(t, 12, r.Image().Bounds().Dx())
	assert.Equal(t, 6, r.Image().Bounds().Dy())

	var buf bytes.Buffer
	require.NoError(t, r.EncodePNG(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	_, err = NewRaster(0, 4, 1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestRaster_AfterRelease(t *testing.T) {
	r, err := NewRaster(2, 2, 1)
	require.NoError(t, err)
	require.NoError(t, r.Release())
	require.NoError(t, r.Release())

	assert.NotPanics(t, func() { r.FillRect(0, 0, 1, 1, red) })
	assert.Nil(t, r.Image())
	assert.Error(t, r.Resize(3, 3))
	assert.Error(t, r.EncodePNG(&bytes.Buffer{}))
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(20, 10)
	t.Cleanup(s.Fini)
	return s
}

func bg(s tcell.Screen, x, y int) tcell.Color {
	_, _, style, _ := s.GetContent(x, y)
	_, b, _ := style.Decompose()
	return b
}

func TestTerminal_Paint(t *testing.T) {
	screen := newScreen(t)
	term := NewTerminal(screen, 10, 1)
	require.NoError(t, term.Resize(40, 40))

	cols, rows := term.Cells()
	assert.Equal(t, 4, cols)
	assert.Equal(t, 2, rows)

	term.SetOrigin(20, 20)
	term.FillRect(0, 0, 20, 20, red)

	want := tcell.NewRGBColor(0xff, 0, 0)
	assert.Equal(t, want, bg(screen, 2, 1))
	assert.Equal(t, want, bg(screen, 3, 1))
	assert.NotEqual(t, want, bg(screen, 4, 1), "cell center outside the rect")
	assert.NotEqual(t, want, bg(screen, 2, 2))
}

func TestTerminal_ClipsAndHides(t *testing.T) {
	screen := newScreen(t)
	term := NewTerminal(screen, 1, 1)
	require.NoError(t, term.Resize(10, 10))

	term.SetOrigin(-3, 16)
	assert.NotPanics(t, func() { term.FillRect(0, 0, 10, 10, red) })
	assert.Equal(t, tcell.NewRGBColor(0xff, 0, 0), bg(screen, 0, 9))

	term.SetOrigin(10, 0)
	term.SetVisible(false)
	term.FillRect(0, 0, 10, 10, red)
	assert.NotEqual(t, tcell.NewRGBColor(0xff, 0, 0), bg(screen, 10, 0))

	require.NoError(t, term.Release())
	term.SetVisible(true)
	assert.NotPanics(t, func() { term.FillRect(0, 0, 10, 10, red) })
	assert.NotEqual(t, tcell.NewRGBColor(0xff, 0, 0), bg(screen, 10, 0))
}

func TestTerminal_DevicePixelRatio(t *testing.T) {
	screen := newScreen(t)
	term := NewTerminal(screen, 10, 2)
	require.NoError(t, term.Resize(20, 20))

	cols, rows := term.Cells()
	assert.Equal(t, 4, cols)
	assert.Equal(t, 2, rows)
	bw, bh := term.BackingSize()
	assert.Equal(t, 40, bw)
	assert.Equal(t, 40, bh)

	term.FillRect(0, 0, 10, 10, red)
	want := tcell.NewRGBColor(0xff, 0, 0)
	assert.Equal(t, want, bg(screen, 1, 0))
	assert.NotEqual(t, want, bg(screen, 2, 0))
	assert.NotEqual(t, want, bg(screen, 0, 1))
}

func TestTerminal_AdjacentSurfacesShareNoCell(t *testing.T) {
	screen := newScreen(t)
	blue := color.RGBA{B: 0xff, A: 0xff}

	left := NewTerminal(screen, 10, 1)
	require.NoError(t, left.Resize(26, 20))
	right := NewTerminal(screen, 10, 1)
	require.NoError(t, right.Resize(26, 20))
	right.SetOrigin(80.0/3, 0)

	right.FillRect(0, 0, 26, 20, blue)
	left.FillRect(0, 0, 26, 20, red)

	assert.Equal(t, tcell.NewRGBColor(0xff, 0, 0), bg(screen, 2, 0))
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0xff), bg(screen, 3, 0))
}
