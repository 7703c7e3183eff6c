package options

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weave-visualizer/engine/internal/models"
	"github.com/weave-visualizer/engine/internal/testutil"
)

func TestDefault(t *testing.T) {
	p := Default()

	assert.NotEmpty(t, p.Motifs)
	assert.NotEmpty(t, p.Palettes)
	assert.NotEmpty(t, p.GridConfigs)
	assert.NotEmpty(t, p.Animations)
	assert.Equal(t, models.Motif{1, 1, 0, 0}, p.Motifs[0].Pattern)
	assert.Equal(t, "#FFFFFF", p.Palettes[0].Colors[0])

	last := p.Animations[len(p.Animations)-1]
	assert.Equal(t, models.DirectionNone, last.Direction, "\"none\" normalizes to no animation")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty document", "", ErrEmptyPool},
		{
			name: "missing animations",
			input: `
motifs: [{name: a, pattern: [1, 0]}]
palettes: [{name: p, colors: {0: "#FFF", 1: "#000"}}]
grid_configs: [{width: 4, height: 4, cell_size: 2}]
`,
			wantErr: ErrEmptyPool,
		},
		{
			name: "non-binary motif",
			input: `
motifs: [{name: a, pattern: [1, 2]}]
palettes: [{name: p, colors: {0: "#FFF", 1: "#000"}}]
grid_configs: [{width: 4, height: 4, cell_size: 2}]
animations: [{direction: up, speed: 3}]
`,
			wantErr: ErrInvalidEntry,
		},
		{
			name: "zero cell size",
			input: `
motifs: [{name: a, pattern: [1, 0]}]
palettes: [{name: p, colors: {0: "#FFF", 1: "#000"}}]
grid_configs: [{width: 4, height: 4, cell_size: 0}]
animations: [{direction: up, speed: 3}]
`,
			wantErr: ErrInvalidEntry,
		},
		{
			name: "unknown direction",
			input: `
motifs: [{name: a, pattern: [1, 0]}]
palettes: [{name: p, colors: {0: "#FFF", 1: "#000"}}]
grid_configs: [{width: 4, height: 4, cell_size: 2}]
animations: [{direction: sideways, speed: 3}]
`,
			wantErr: models.ErrInvalidDirection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_ClampsSpeed(t *testing.T) {
	p, err := Parse(strings.NewReader(`
motifs: [{name: a, pattern: [1, 0]}]
palettes: [{name: p, colors: {0: "#FFF", 1: "#000"}}]
grid_configs: [{width: 4, height: 4, cell_size: 2}]
animations: [{direction: left, speed: 99}, {speed: 1}]
`))
	require.NoError(t, err)
	assert.Equal(t, 20, p.Animations[0].Speed)
	assert.Equal(t, models.DirectionNone, p.Animations[1].Direction)
}

func TestRandom_PicksEachAxisIndependently(t *testing.T) {
	p := Default()
	// motif 2, palette 1, grid 3, animation 0
	spec := p.Random(testutil.NewSeqRand(2, 1, 3, 0))

	assert.Equal(t, p.Motifs[2].Pattern, spec.BinaryPattern)
	assert.Equal(t, p.Palettes[1].Colors, spec.ColorScheme)
	assert.Equal(t, p.GridConfigs[3], spec.GridConfig)
	require.NotNil(t, spec.Animation)
	assert.Equal(t, p.Animations[0], *spec.Animation)
}

func TestRandom_DoesNotAliasPools(t *testing.T) {
	p := Default()
	spec := p.Random(testutil.NewSeqRand(0))

	spec.BinaryPattern[0] = 9
	spec.ColorScheme[0] = "#123456"
	spec.Animation.Speed = 19

	assert.Equal(t, 1, p.Motifs[0].Pattern[0])
	assert.Equal(t, "#FFFFFF", p.Palettes[0].Colors[0])
	assert.NotEqual(t, 19, p.Animations[0].Speed)
}

func TestBatch(t *testing.T) {
	p := Default()
	rng := rand.New(rand.NewSource(1))

	batch := p.Batch(rng, 8)
	assert.Len(t, batch, 8)
	for _, s := range batch {
		assert.NotEmpty(t, s.BinaryPattern)
		assert.Len(t, s.ColorScheme, 2)
	}
	assert.Empty(t, p.Batch(rng, 0))
}
