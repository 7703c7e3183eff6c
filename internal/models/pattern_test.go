package models

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#FF8000", color.RGBA{R: 0xff, G: 0x80, A: 0xff}, true},
		{"#f80", color.RGBA{R: 0xff, G: 0x88, A: 0xff}, true},
		{" 4169E1 ", color.RGBA{R: 0x41, G: 0x69, B: 0xe1, A: 0xff}, true},
		{"#12345", color.RGBA{}, false},
		{"#GGGGGG", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseHex(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPalette_Color(t *testing.T) {
	black := color.RGBA{A: 0xff}
	p := Palette{0: "#FFFFFF", 1: "not a color"}

	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, p.Color(0))
	assert.Equal(t, black, p.Color(1), "unparseable entry falls back")
	assert.Equal(t, black, p.Color(7), "missing entry falls back")
}

func TestPalette_Swapped(t *testing.T) {
	p := Palette{0: "#FFFFFF", 1: "#000000"}
	s := p.Swapped()

	assert.Equal(t, Palette{0: "#000000", 1: "#FFFFFF"}, s)
	assert.Equal(t, "#FFFFFF", p[0], "original untouched")
	assert.Equal(t, Palette{1: "#FFFFFF"}, Palette{0: "#FFFFFF"}.Swapped())
}

func TestPatternSpec_JSON(t *testing.T) {
	spec := PatternSpec{
		BinaryPattern: Motif{1, 0, 1},
		ColorScheme:   Palette{0: "#FFFFFF", 1: "#4169E1"},
		GridConfig:    GridConfig{Width: 25, Height: 25, CellSize: 15},
		Animation:     &AnimationSpec{Direction: DirectionDown, Speed: 5},
	}
	data, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"binaryPattern": [1, 0, 1],
		"colorScheme": {"0": "#FFFFFF", "1": "#4169E1"},
		"gridConfig": {"width": 25, "height": 25, "cellSize": 15},
		"animation": {"direction": "down", "speed": 5}
	}`, string(data))

	var none PatternSpec
	require.NoError(t, json.Unmarshal([]byte(`{"binaryPattern":[1],"animation":{"direction":null,"speed":2}}`), &none))
	assert.Equal(t, DirectionNone, none.Animation.Direction)

	err = json.Unmarshal([]byte(`{"animation":{"direction":"diagonal"}}`), &none)
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestPatternSpec_Clone(t *testing.T) {
	spec := PatternSpec{
		BinaryPattern: Motif{1, 0},
		ColorScheme:   Palette{0: "#FFFFFF"},
		Animation:     &AnimationSpec{Direction: DirectionUp, Speed: 3},
	}
	c := spec.Clone()
	c.BinaryPattern[0] = 0
	c.ColorScheme[0] = "#000000"
	c.Animation.Speed = 9

	assert.Equal(t, 1, spec.BinaryPattern[0])
	assert.Equal(t, "#FFFFFF", spec.ColorScheme[0])
	assert.Equal(t, 3, spec.Animation.Speed)
}

func TestGridConfig(t *testing.T) {
	g := GridConfig{Width: 7, Height: 3, CellSize: 50}
	assert.Equal(t, 21, g.Cells())
	w, h := g.PixelSize()
	assert.Equal(t, 350, w)
	assert.Equal(t, 150, h)
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"", "none", "null"} {
		d, err := ParseDirection(s)
		require.NoError(t, err)
		assert.Equal(t, DirectionNone, d)
	}
	d, err := ParseDirection("left")
	require.NoError(t, err)
	assert.Equal(t, DirectionLeft, d)

	_, err = ParseDirection("Left")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestOffset_Linear(t *testing.T) {
	assert.Equal(t, 0, Offset{}.Linear(8))
	assert.Equal(t, -5, Offset{X: -5}.Linear(8))
	assert.Equal(t, 16+3, Offset{X: 3, Y: 2}.Linear(8))
	assert.Equal(t, 7, Clamp(9, 0, 7))
	assert.Equal(t, 20, ClampSpeed(50))
}
