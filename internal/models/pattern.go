package models

import (
	"image/color"
	"strconv"
	"strings"
)

// DefaultColorHex is used for any pattern value the palette has no entry for.
const DefaultColorHex = "#000000"

// Motif is the minimal repeating binary sequence of a weave.
type Motif []int

// Clone returns a copy that does not share the backing array.
func (m Motif) Clone() Motif {
	out := make(Motif, len(m))
	copy(out, m)
	return out
}

// Palette maps a pattern value (0 or 1) to a "#RRGGBB" color.
// It marshals to JSON as {"0": "#...", "1": "#..."}.
type Palette map[int]string

// Clone returns a shallow copy of the palette.
func (p Palette) Clone() Palette {
	out := make(Palette, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Color returns the RGB color for a pattern value, falling back to
// DefaultColorHex when the entry is missing or unparseable.
func (p Palette) Color(value int) color.RGBA {
	if hex, ok := p[value]; ok {
		if c, ok := ParseHex(hex); ok {
			return c
		}
	}
	c, _ := ParseHex(DefaultColorHex)
	return c
}

// Swapped returns the palette with slots 0 and 1 exchanged.
func (p Palette) Swapped() Palette {
	out := p.Clone()
	zero, hasZero := p[0]
	one, hasOne := p[1]
	delete(out, 0)
	delete(out, 1)
	if hasZero {
		out[1] = zero
	}
	if hasOne {
		out[0] = one
	}
	return out
}

// ParseHex parses "#RRGGBB" or "#RGB" into an opaque color.
func ParseHex(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

// GridConfig describes the rasterized grid in cells and the linear pixel
// size of one cell.
type GridConfig struct {
	Width    int `json:"width" yaml:"width"`
	Height   int `json:"height" yaml:"height"`
	CellSize int `json:"cellSize" yaml:"cell_size"`
}

// Cells returns the total number of cells in the grid.
func (g GridConfig) Cells() int {
	return g.Width * g.Height
}

// PixelSize returns the logical pixel dimensions of the rasterized grid.
func (g GridConfig) PixelSize() (int, int) {
	return g.Width * g.CellSize, g.Height * g.CellSize
}

// ShiftMode determines how the row index perturbs the column-to-motif mapping.
type ShiftMode string

const (
	ShiftRight ShiftMode = "right"
	ShiftLeft  ShiftMode = "left"
	ShiftNone  ShiftMode = "none"
)

// Orientation controls whether the motif tiles along rows or columns.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// PatternSpec is the export/import unit: everything needed to render one pattern.
type PatternSpec struct {
	BinaryPattern Motif          `json:"binaryPattern" yaml:"binary_pattern"`
	ColorScheme   Palette        `json:"colorScheme" yaml:"color_scheme"`
	GridConfig    GridConfig     `json:"gridConfig" yaml:"grid_config"`
	Animation     *AnimationSpec `json:"animation,omitempty" yaml:"animation,omitempty"`
}

// Clone returns a deep copy of the spec.
func (s PatternSpec) Clone() PatternSpec {
	out := PatternSpec{
		BinaryPattern: s.BinaryPattern.Clone(),
		ColorScheme:   s.ColorScheme.Clone(),
		GridConfig:    s.GridConfig,
	}
	if s.Animation != nil {
		a := *s.Animation
		out.Animation = &a
	}
	return out
}
