package weave

import (
	"image/color"

	"github.com/weave-visualizer/engine/internal/models"
	"github.com/weave-visualizer/engine/internal/surface"
)

var (
	// Background is painted under every frame before cells are drawn.
	Background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	// GridLineColor is the color of the optional cell-boundary overlay.
	GridLineColor = color.RGBA{R: 220, G: 220, B: 220, A: 0xff}
)

// Frame is everything needed to rasterize one pattern pass.
type Frame struct {
	Motif          models.Motif
	Palette        models.Palette
	Grid           models.GridConfig
	Shift          models.ShiftMode
	Orientation    models.Orientation
	Offset         models.Offset
	InvertEvenRows bool
	// Inverted swaps palette slots 0 and 1 for this pass only.
	Inverted  bool
	GridLines bool
}

// CommandKind identifies a draw command.
type CommandKind int

const (
	CommandClear CommandKind = iota
	CommandFill
)

// DrawCommand is one rectangle operation in logical pixels.
type DrawCommand struct {
	Kind       CommandKind
	X, Y, W, H float64
	Color      color.RGBA
}

// Rasterize emits draw commands for every cell of the grid in row-major
// order, preceded by a clear and a background fill.
func Rasterize(f Frame) []DrawCommand {
	return rasterize(f, f.Grid.Cells())
}

// RasterizeReveal draws only the first min(progress+1, width*height) cells
// in row-major order; the rest keep the background.
func RasterizeReveal(f Frame, progress int) []DrawCommand {
	n := min(max(progress+1, 0), f.Grid.Cells())
	return rasterize(f, n)
}

func rasterize(f Frame, count int) []DrawCommand {
	g := f.Grid
	pw, ph := g.PixelSize()
	cs := float64(g.CellSize)

	cmds := make([]DrawCommand, 0, count+2)
	cmds = append(cmds,
		DrawCommand{Kind: CommandClear, W: float64(pw), H: float64(ph)},
		DrawCommand{Kind: CommandFill, W: float64(pw), H: float64(ph), Color: Background},
	)

	palette := f.Palette
	if f.Inverted {
		palette = palette.Swapped()
	}
	zero, one := palette.Color(0), palette.Color(1)
	offset := f.Offset.Linear(g.Width)

	for i := 0; i < count; i++ {
		row, col := i/g.Width, i%g.Width
		v := Value(f.Motif, row, col, g.Width, f.Shift, f.Orientation, offset, f.InvertEvenRows)
		var c color.RGBA
		switch v {
		case 0:
			c = zero
		case 1:
			c = one
		default:
			c = palette.Color(v)
		}
		cmds = append(cmds, DrawCommand{
			Kind:  CommandFill,
			X:     float64(col) * cs,
			Y:     float64(row) * cs,
			W:     cs,
			H:     cs,
			Color: c,
		})
	}

	if f.GridLines {
		cmds = append(cmds, gridLines(g)...)
	}
	return cmds
}

// gridLines returns 1px fills along every cell boundary. The closing
// boundaries are pulled inside the surface so they stay visible.
func gridLines(g models.GridConfig) []DrawCommand {
	pw, ph := g.PixelSize()
	cmds := make([]DrawCommand, 0, g.Width+g.Height+2)
	for row := 0; row <= g.Height; row++ {
		y := min(row*g.CellSize, ph-1)
		cmds = append(cmds, DrawCommand{Kind: CommandFill, Y: float64(y), W: float64(pw), H: 1, Color: GridLineColor})
	}
	for col := 0; col <= g.Width; col++ {
		x := min(col*g.CellSize, pw-1)
		cmds = append(cmds, DrawCommand{Kind: CommandFill, X: float64(x), W: 1, H: float64(ph), Color: GridLineColor})
	}
	return cmds
}

// Scale multiplies the geometry of every command by factor in place and
// returns cmds. Non-positive factors leave them unchanged.
func Scale(cmds []DrawCommand, factor float64) []DrawCommand {
	if factor <= 0 || factor == 1 {
		return cmds
	}
	for i := range cmds {
		c := &cmds[i]
		c.X *= factor
		c.Y *= factor
		c.W *= factor
		c.H *= factor
	}
	return cmds
}

// Draw replays commands onto a surface. A nil surface is ignored.
func Draw(s surface.Surface, cmds []DrawCommand) {
	if s == nil {
		return
	}
	for _, c := range cmds {
		switch c.Kind {
		case CommandClear:
			s.ClearRect(c.X, c.Y, c.W, c.H)
		case CommandFill:
			s.FillRect(c.X, c.Y, c.W, c.H, c.Color)
		}
	}
}
