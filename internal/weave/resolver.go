// Package weave maps grid cells to motif elements and rasterizes pattern
// grids into draw commands.
package weave

import "github.com/weave-visualizer/engine/internal/models"

// Resolve returns the motif index that colors the cell at (row, col).
//
// Vertical orientation swaps row and col before the shift is applied.
// offset only affects ShiftNone and may be negative. The result is always
// in [0, motifLen); motifLen must be at least 1.
func Resolve(row, col, gridWidth int, shift models.ShiftMode, orientation models.Orientation, offset, motifLen int) int {
	r, c := row, col
	if orientation == models.Vertical {
		r, c = col, row
	}

	switch shift {
	case models.ShiftLeft:
		return (c + r) % motifLen
	case models.ShiftNone:
		return floorMod(r*gridWidth+c+offset, motifLen)
	default:
		return floorMod(c-r, motifLen)
	}
}

// Value returns the pattern value (0 or 1) for the cell at (row, col).
// When invertEvenRows is set the value is flipped on even rows of the
// unswapped grid.
func Value(motif models.Motif, row, col, gridWidth int, shift models.ShiftMode, orientation models.Orientation, offset int, invertEvenRows bool) int {
	v := motif[Resolve(row, col, gridWidth, shift, orientation, offset, len(motif))]
	if invertEvenRows && row%2 == 0 {
		if v == 1 {
			return 0
		}
		return 1
	}
	return v
}

func floorMod(a, n int) int {
	return (a%n + n) % n
}
