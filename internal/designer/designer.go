// Package designer holds the editable state of the pattern designer and
// converts it to and from the exported JSON document.
package designer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/weave-visualizer/engine/internal/config"
	"github.com/weave-visualizer/engine/internal/models"
	"github.com/weave-visualizer/engine/internal/preview"
)

// ErrInvalidMotif is returned by SetMotif for motifs outside the limits or
// holding values other than 0 and 1.
var ErrInvalidMotif = errors.New("invalid motif")

// ImportError describes why an imported document was rejected.
type ImportError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %s", e.Field, e.Reason)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Designer is the editable pattern.
type Designer struct {
	limits   config.LimitsConfig
	speed    int
	motif    models.Motif
	palette  models.Palette
	inverted bool
	grid     models.GridConfig
	anim     *models.AnimationSpec
	onChange func(models.PatternSpec)
}

// New creates a designer with the starting pattern: a four-cell
// alternating motif on an 8x8 black and white grid. Edits are clamped to
// cfg.Limits and a new animation starts at cfg.Animation.DefaultSpeed.
func New(cfg *config.Config) *Designer {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Designer{
		limits:  cfg.Limits,
		speed:   cfg.Limits.Speed.Clamp(cfg.Animation.DefaultSpeed),
		motif:   models.Motif{0, 1, 0, 1},
		palette: models.Palette{0: "#FFFFFF", 1: "#000000"},
		grid:    models.GridConfig{Width: 8, Height: 8, CellSize: 50},
	}
}

// OnChange registers fn to receive the pattern after every edit.
func (d *Designer) OnChange(fn func(models.PatternSpec)) {
	d.onChange = fn
}

func (d *Designer) changed() {
	if d.onChange != nil {
		d.onChange(d.Spec())
	}
}

// Motif returns a copy of the motif.
func (d *Designer) Motif() models.Motif {
	return d.motif.Clone()
}

// ToggleCell flips one motif cell. It reports false for an index out of
// range.
func (d *Designer) ToggleCell(i int) bool {
	if i < 0 || i >= len(d.motif) {
		return false
	}
	d.motif[i] = 1 - d.motif[i]
	d.changed()
	return true
}

// AddCell appends a 0 cell unless the motif is at its maximum length.
func (d *Designer) AddCell() bool {
	if len(d.motif) >= d.limits.MotifLength.Max {
		return false
	}
	d.motif = append(d.motif, 0)
	d.changed()
	return true
}

// RemoveCell drops the last cell unless the motif is at its minimum length.
func (d *Designer) RemoveCell() bool {
	if len(d.motif) <= d.limits.MotifLength.Min {
		return false
	}
	d.motif = d.motif[:len(d.motif)-1]
	d.changed()
	return true
}

// SetMotif replaces the motif after validating it.
func (d *Designer) SetMotif(m models.Motif) error {
	if err := d.checkMotif(m); err != nil {
		return err
	}
	d.motif = m.Clone()
	d.changed()
	return nil
}

func (d *Designer) checkMotif(m models.Motif) error {
	lim := d.limits.MotifLength
	if len(m) < lim.Min || len(m) > lim.Max {
		return fmt.Errorf("%w: length %d outside [%d, %d]", ErrInvalidMotif, len(m), lim.Min, lim.Max)
	}
	for i, v := range m {
		if v != 0 && v != 1 {
			return fmt.Errorf("%w: cell %d is %d", ErrInvalidMotif, i, v)
		}
	}
	return nil
}

// SetPalette selects a palette. The inverse switch is kept.
func (d *Designer) SetPalette(p models.Palette) {
	d.palette = p.Clone()
	d.changed()
}

// SetInverted toggles the inverse switch, which swaps the palette slots.
func (d *Designer) SetInverted(inverted bool) {
	d.inverted = inverted
	d.changed()
}

// Palette returns the effective palette, swapped when inverted.
func (d *Designer) Palette() models.Palette {
	if d.inverted {
		return d.palette.Swapped()
	}
	return d.palette.Clone()
}

// SetWidth clamps and stores the grid width, returning the stored value.
func (d *Designer) SetWidth(w int) int {
	d.grid.Width = d.limits.Width.Clamp(w)
	d.changed()
	return d.grid.Width
}

// SetHeight clamps and stores the grid height.
func (d *Designer) SetHeight(h int) int {
	d.grid.Height = d.limits.Height.Clamp(h)
	d.changed()
	return d.grid.Height
}

// SetCellSize clamps and stores the cell size.
func (d *Designer) SetCellSize(cs int) int {
	d.grid.CellSize = d.limits.CellSize.Clamp(cs)
	d.changed()
	return d.grid.CellSize
}

// Grid returns the grid configuration.
func (d *Designer) Grid() models.GridConfig {
	return d.grid
}

// SetDirection sets the animation direction.
func (d *Designer) SetDirection(dir models.Direction) {
	d.animation().Direction = dir
	d.changed()
}

// SetSpeed clamps and stores the animation speed.
func (d *Designer) SetSpeed(s int) int {
	a := d.animation()
	a.Speed = d.limits.Speed.Clamp(s)
	d.changed()
	return a.Speed
}

func (d *Designer) animation() *models.AnimationSpec {
	if d.anim == nil {
		d.anim = &models.AnimationSpec{Speed: d.speed}
	}
	return d.anim
}

// Spec returns the current pattern.
func (d *Designer) Spec() models.PatternSpec {
	s := models.PatternSpec{
		BinaryPattern: d.motif.Clone(),
		ColorScheme:   d.Palette(),
		GridConfig:    d.grid,
	}
	if d.anim != nil {
		a := *d.anim
		s.Animation = &a
	}
	return s
}

// Apply pushes the current pattern into a preview.
func (d *Designer) Apply(p *preview.Preview) error {
	s := d.Spec()
	p.SetMotif(s.BinaryPattern)
	p.SetPalette(s.ColorScheme)
	if err := p.SetGridConfig(s.GridConfig); err != nil {
		return fmt.Errorf("failed to apply grid: %w", err)
	}
	p.SetAnimation(s.Animation)
	return nil
}

// Export renders the pattern as two-space indented JSON.
func (d *Designer) Export() ([]byte, error) {
	data, err := json.MarshalIndent(d.Spec(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to export pattern: %w", err)
	}
	return data, nil
}

// Import replaces the designer state with an exported document. Grid,
// speed and motif length are clamped to the limits. On error the state is
// unchanged.
func (d *Designer) Import(data []byte) error {
	s, err := Decode(data, d.limits)
	if err != nil {
		return err
	}
	d.motif = s.BinaryPattern
	d.palette = s.ColorScheme
	d.inverted = false
	d.grid = s.GridConfig
	d.anim = s.Animation
	d.changed()
	return nil
}

type document struct {
	BinaryPattern []int              `json:"binaryPattern"`
	ColorScheme   map[string]string  `json:"colorScheme"`
	GridConfig    *models.GridConfig `json:"gridConfig"`
	Animation     *struct {
		Direction json.RawMessage `json:"direction"`
		Speed     int             `json:"speed"`
	} `json:"animation"`
}

// Decode parses and normalizes an exported document.
func Decode(data []byte, limits config.LimitsConfig) (models.PatternSpec, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return models.PatternSpec{}, &ImportError{Field: "document", Reason: err.Error(), Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return models.PatternSpec{}, &ImportError{Field: "document", Reason: "unexpected data after the pattern"}
	}

	if len(doc.BinaryPattern) == 0 {
		return models.PatternSpec{}, &ImportError{Field: "binaryPattern", Reason: "missing or empty"}
	}
	motif := make(models.Motif, 0, limits.MotifLength.Max)
	for i, v := range doc.BinaryPattern {
		if v != 0 && v != 1 {
			return models.PatternSpec{}, &ImportError{
				Field:  fmt.Sprintf("binaryPattern[%d]", i),
				Reason: fmt.Sprintf("value %d is not 0 or 1", v),
				Err:    ErrInvalidMotif,
			}
		}
		if len(motif) < limits.MotifLength.Max {
			motif = append(motif, v)
		}
	}
	for len(motif) < limits.MotifLength.Min {
		motif = append(motif, 0)
	}

	palette := models.Palette{}
	for key, hex := range doc.ColorScheme {
		switch key {
		case "0":
			palette[0] = hex
		case "1":
			palette[1] = hex
		default:
			continue
		}
		if _, ok := models.ParseHex(hex); !ok {
			return models.PatternSpec{}, &ImportError{Field: "colorScheme." + key, Reason: fmt.Sprintf("%q is not a hex color", hex)}
		}
	}

	if doc.GridConfig == nil {
		return models.PatternSpec{}, &ImportError{Field: "gridConfig", Reason: "missing"}
	}
	grid := models.GridConfig{
		Width:    limits.Width.Clamp(doc.GridConfig.Width),
		Height:   limits.Height.Clamp(doc.GridConfig.Height),
		CellSize: limits.CellSize.Clamp(doc.GridConfig.CellSize),
	}

	spec := models.PatternSpec{BinaryPattern: motif, ColorScheme: palette, GridConfig: grid}
	if doc.Animation != nil {
		var dir models.Direction
		raw := doc.Animation.Direction
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &dir); err != nil {
				return models.PatternSpec{}, &ImportError{Field: "animation.direction", Reason: err.Error(), Err: err}
			}
		}
		spec.Animation = &models.AnimationSpec{Direction: dir, Speed: limits.Speed.Clamp(doc.Animation.Speed)}
	}
	return spec, nil
}
