// Package options holds the pools of motifs, palettes, grid configurations
// and animations that random pattern specs are drawn from.
package options

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/weave-visualizer/engine/internal/models"
)

//go:embed options.yaml
var defaultOptionsYAML []byte

var (
	// ErrEmptyPool is returned when a pool has no entries.
	ErrEmptyPool = errors.New("empty option pool")
	// ErrInvalidEntry is returned for a pool entry that cannot be rendered.
	ErrInvalidEntry = errors.New("invalid option entry")
)

// NamedMotif is a motif with a display name.
type NamedMotif struct {
	Name    string       `yaml:"name"`
	Pattern models.Motif `yaml:"pattern"`
}

// NamedPalette is a palette with a display name.
type NamedPalette struct {
	Name   string         `yaml:"name"`
	Colors models.Palette `yaml:"colors"`
}

// Pools is the set of option lists.
type Pools struct {
	Motifs      []NamedMotif           `yaml:"motifs"`
	Palettes    []NamedPalette         `yaml:"palettes"`
	GridConfigs []models.GridConfig    `yaml:"grid_configs"`
	Animations  []models.AnimationSpec `yaml:"animations"`
}

// Rand is the randomness source used by Random. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Default returns the embedded pools.
func Default() *Pools {
	p, err := parse(defaultOptionsYAML)
	if err != nil {
		panic(fmt.Sprintf("options: embedded pools are invalid: %v", err))
	}
	return p
}

// Parse reads pools from a YAML document. Every pool must be non-empty.
func Parse(r io.Reader) (*Pools, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Pools, error) {
	var p Pools
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse options: %w", err)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks every pool, normalizes animation directions and clamps
// animation speeds.
func (p *Pools) Validate() error {
	switch {
	case len(p.Motifs) == 0:
		return fmt.Errorf("%w: motifs", ErrEmptyPool)
	case len(p.Palettes) == 0:
		return fmt.Errorf("%w: palettes", ErrEmptyPool)
	case len(p.GridConfigs) == 0:
		return fmt.Errorf("%w: grid_configs", ErrEmptyPool)
	case len(p.Animations) == 0:
		return fmt.Errorf("%w: animations", ErrEmptyPool)
	}

	for i, m := range p.Motifs {
		if len(m.Pattern) == 0 {
			return fmt.Errorf("%w: motifs[%d] %q is empty", ErrInvalidEntry, i, m.Name)
		}
		for _, v := range m.Pattern {
			if v != 0 && v != 1 {
				return fmt.Errorf("%w: motifs[%d] %q holds value %d", ErrInvalidEntry, i, m.Name, v)
			}
		}
	}
	for i, g := range p.GridConfigs {
		if g.Width < 1 || g.Height < 1 || g.CellSize < 1 {
			return fmt.Errorf("%w: grid_configs[%d] %dx%d@%d", ErrInvalidEntry, i, g.Width, g.Height, g.CellSize)
		}
	}
	for i := range p.Animations {
		a := &p.Animations[i]
		dir, err := models.ParseDirection(string(a.Direction))
		if err != nil {
			return fmt.Errorf("animations[%d]: %w", i, err)
		}
		a.Direction = dir
		a.Speed = models.ClampSpeed(a.Speed)
	}
	return nil
}

// Random builds a pattern spec by sampling each axis independently and
// uniformly. The result shares no memory with the pools.
func (p *Pools) Random(rng Rand) models.PatternSpec {
	motif := p.Motifs[rng.Intn(len(p.Motifs))]
	palette := p.Palettes[rng.Intn(len(p.Palettes))]
	grid := p.GridConfigs[rng.Intn(len(p.GridConfigs))]
	anim := p.Animations[rng.Intn(len(p.Animations))]

	return models.PatternSpec{
		BinaryPattern: motif.Pattern.Clone(),
		ColorScheme:   palette.Colors.Clone(),
		GridConfig:    grid,
		Animation:     &anim,
	}
}

// Batch returns n random specs.
func (p *Pools) Batch(rng Rand, n int) []models.PatternSpec {
	out := make([]models.PatternSpec, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, p.Random(rng))
	}
	return out
}
