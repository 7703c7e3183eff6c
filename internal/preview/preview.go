// Package preview renders one pattern onto one surface and keeps it
// animated. A Preview owns its surface, its offset driver and its reveal
// counter; Destroy releases all of them.
package preview

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/weave-visualizer/engine/internal/animation"
	"github.com/weave-visualizer/engine/internal/logutil"
	"github.com/weave-visualizer/engine/internal/models"
	"github.com/weave-visualizer/engine/internal/scheduler"
	"github.com/weave-visualizer/engine/internal/surface"
	"github.com/weave-visualizer/engine/internal/weave"
)

// Settings are process-wide toggles injected into every render.
type Settings struct {
	// AnimationsEnabled gates whether offset animations may run.
	AnimationsEnabled bool
	// PaletteOverride replaces the pattern's palette while non-empty.
	PaletteOverride models.Palette
}

// DefaultSettings enables animations and applies no override.
func DefaultSettings() Settings {
	return Settings{AnimationsEnabled: true}
}

// Options are the per-preview render switches.
type Options struct {
	Shift          models.ShiftMode
	Orientation    models.Orientation
	Inverted       bool
	InvertEvenRows bool
	GridLines      bool
	RevealInterval time.Duration
	// DefaultSpeed is the offset speed used until an animation sets one.
	DefaultSpeed int
	// ReduceFactor is stored with the preview and has no effect on drawing.
	ReduceFactor float64
}

// DefaultOptions renders the plain tiling the gallery uses.
func DefaultOptions() Options {
	return Options{
		Shift:          models.ShiftNone,
		Orientation:    models.Horizontal,
		RevealInterval: animation.DefaultRevealInterval,
		DefaultSpeed:   animation.DefaultSpeed,
		ReduceFactor:   1,
	}
}

// DefaultSpec is the pattern a new preview shows before it is configured.
func DefaultSpec() models.PatternSpec {
	return models.PatternSpec{
		BinaryPattern: models.Motif{1, 1, 0, 1, 1, 1, 0},
		ColorScheme:   models.Palette{0: "#F27821", 1: "#8C3363"},
		GridConfig:    models.GridConfig{Width: 7, Height: 1, CellSize: 50},
	}
}

// Preview is an animated pattern surface.
type Preview struct {
	surf      surface.Surface
	spec      models.PatternSpec
	opts      Options
	scale     float64
	settings  Settings
	driver    *animation.Driver
	reveal    *animation.Reveal
	revealing bool
	destroyed bool
	log       *slog.Logger
}

// New creates a preview drawing on s. A nil surface is logged and leaves
// the preview inert: every call succeeds and nothing is drawn.
func New(s surface.Surface, sched scheduler.Scheduler, opts Options) *Preview {
	p := &Preview{
		surf:     s,
		spec:     DefaultSpec(),
		opts:     opts,
		scale:    1,
		settings: DefaultSettings(),
		log:      logutil.For("preview"),
	}
	p.driver = animation.NewDriver(sched, p.Render)
	p.driver.SetSpeed(opts.DefaultSpeed)
	p.reveal = animation.NewReveal(sched, opts.RevealInterval, p.Render)

	if s == nil {
		p.log.Error("drawing surface not available; preview is inert")
		return p
	}
	if err := p.resize(); err != nil {
		p.log.Error("failed to size surface", "error", err)
	}
	p.Render()
	return p
}

// Inert reports whether the preview has no surface to draw on.
func (p *Preview) Inert() bool {
	return p.surf == nil || p.destroyed
}

// SetMotif replaces the motif. Empty motifs are ignored.
func (p *Preview) SetMotif(m models.Motif) {
	if len(m) == 0 {
		p.log.Warn("ignoring empty motif")
		return
	}
	p.spec.BinaryPattern = m.Clone()
	p.Render()
}

// SetPalette replaces the stored palette.
func (p *Preview) SetPalette(pal models.Palette) {
	p.spec.ColorScheme = pal.Clone()
	p.Render()
}

// SetGridConfig resizes the surface to the new grid and redraws.
func (p *Preview) SetGridConfig(g models.GridConfig) error {
	if g.Width < 1 || g.Height < 1 || g.CellSize < 1 {
		return fmt.Errorf("%w: grid %dx%d cell %d", surface.ErrInvalidSize, g.Width, g.Height, g.CellSize)
	}
	p.spec.GridConfig = g
	if err := p.resize(); err != nil {
		return err
	}
	p.Render()
	return nil
}

// SetAnimation applies a persisted animation. nil means no animation. The
// driver only starts when the injected settings allow animations.
func (p *Preview) SetAnimation(a *models.AnimationSpec) {
	if a == nil {
		p.spec.Animation = nil
		p.driver.SetDirection(models.DirectionNone)
		p.Render()
		return
	}
	spec := models.AnimationSpec{Direction: a.Direction, Speed: models.ClampSpeed(a.Speed)}
	p.spec.Animation = &spec
	p.driver.SetSpeed(spec.Speed)
	p.driver.SetDirection(spec.Direction)
	if !p.settings.AnimationsEnabled || p.destroyed {
		p.driver.Stop()
	}
	p.Render()
}

// SetAnimationDirection changes the direction and resets the offset.
func (p *Preview) SetAnimationDirection(d models.Direction) {
	p.SetAnimation(&models.AnimationSpec{Direction: d, Speed: p.driver.Speed()})
}

// SetAnimationSpeed changes the speed, keeping the current offset.
func (p *Preview) SetAnimationSpeed(speed int) {
	p.driver.SetSpeed(speed)
	if p.spec.Animation != nil {
		p.spec.Animation.Speed = p.driver.Speed()
	}
}

// StopAnimation halts the offset driver, keeping direction, speed and
// offset.
func (p *Preview) StopAnimation() {
	p.driver.Stop()
}

// ResumeAnimation restarts the driver from its current offset.
func (p *Preview) ResumeAnimation() {
	if p.destroyed {
		return
	}
	p.driver.Resume()
}

// Animating reports whether the offset driver is running.
func (p *Preview) Animating() bool {
	return p.driver.Running()
}

// Offset returns the current animation offset.
func (p *Preview) Offset() models.Offset {
	return p.driver.Offset()
}

// SetOptions replaces the render switches and redraws.
func (p *Preview) SetOptions(opts Options) {
	p.opts = opts
	p.Render()
}

// Options returns the render switches.
func (p *Preview) Options() Options {
	return p.opts
}

// SetSettings injects new global toggles. Animations are stopped or resumed
// to match and the preview is redrawn once.
func (p *Preview) SetSettings(s Settings) {
	p.settings = Settings{AnimationsEnabled: s.AnimationsEnabled, PaletteOverride: s.PaletteOverride.Clone()}
	if s.AnimationsEnabled {
		p.ResumeAnimation()
	} else {
		p.driver.Stop()
	}
	p.Render()
}

// StartReveal draws the pattern cell by cell from the first cell.
func (p *Preview) StartReveal() {
	if p.destroyed {
		return
	}
	p.revealing = true
	p.reveal.Start(p.spec.GridConfig.Cells())
	p.Render()
}

// StopReveal cancels a running reveal and shows the full pattern.
func (p *Preview) StopReveal() {
	p.reveal.Stop()
	p.revealing = false
	p.Render()
}

// Revealing reports whether the reveal counter is running.
func (p *Preview) Revealing() bool {
	return p.reveal.Active()
}

// Spec returns a copy of the stored pattern, including the live animation
// settings.
func (p *Preview) Spec() models.PatternSpec {
	return p.spec.Clone()
}

// NaturalSize returns the grid's unscaled size in logical pixels.
func (p *Preview) NaturalSize() models.Size {
	w, h := p.spec.GridConfig.PixelSize()
	return models.Size{Width: float64(w), Height: float64(h)}
}

// Size returns the drawn size in logical pixels: the natural size times
// the display scale, rounded down.
func (p *Preview) Size() models.Size {
	w, h := p.scaledSize()
	return models.Size{Width: float64(w), Height: float64(h)}
}

// SetScale sets the display scale, resizing the surface and redrawing when
// it changes. Non-positive values reset it to 1.
func (p *Preview) SetScale(scale float64) error {
	if scale <= 0 {
		scale = 1
	}
	if scale == p.scale {
		return nil
	}
	p.scale = scale
	if err := p.resize(); err != nil {
		return err
	}
	p.Render()
	return nil
}

// Scale returns the display scale.
func (p *Preview) Scale() float64 {
	return p.scale
}

func (p *Preview) scaledSize() (int, int) {
	w, h := p.spec.GridConfig.PixelSize()
	if p.scale == 1 {
		return w, h
	}
	// Tolerate float error on exact multiples.
	scaled := func(v int) int {
		return max(1, int(math.Floor(float64(v)*p.scale+1e-9)))
	}
	return scaled(w), scaled(h)
}

// Surface returns the drawing surface, which may be nil.
func (p *Preview) Surface() surface.Surface {
	return p.surf
}

// Frame returns the rasterizer input for the current state.
func (p *Preview) Frame() weave.Frame {
	palette := p.spec.ColorScheme
	if len(p.settings.PaletteOverride) > 0 {
		palette = p.settings.PaletteOverride
	}
	return weave.Frame{
		Motif:          p.spec.BinaryPattern,
		Palette:        palette,
		Grid:           p.spec.GridConfig,
		Shift:          p.opts.Shift,
		Orientation:    p.opts.Orientation,
		Offset:         p.driver.Offset(),
		InvertEvenRows: p.opts.InvertEvenRows,
		Inverted:       p.opts.Inverted,
		GridLines:      p.opts.GridLines,
	}
}

// Render redraws the whole surface.
func (p *Preview) Render() {
	if p.Inert() {
		return
	}
	f := p.Frame()
	var cmds []weave.DrawCommand
	if p.revealing {
		cmds = weave.RasterizeReveal(f, p.reveal.Progress())
	} else {
		cmds = weave.Rasterize(f)
	}
	weave.Draw(p.surf, weave.Scale(cmds, p.scale))
}

// StopTimers cancels the offset driver and the reveal counter without
// redrawing.
func (p *Preview) StopTimers() {
	p.driver.Stop()
	p.reveal.Stop()
}

// Destroy stops every timer and releases the surface. Further calls are
// no-ops.
func (p *Preview) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.StopTimers()
	if r, ok := p.surf.(surface.Releaser); ok {
		if err := r.Release(); err != nil {
			p.log.Warn("failed to release surface", "error", err)
		}
	}
}

func (p *Preview) resize() error {
	if p.surf == nil {
		return nil
	}
	w, h := p.scaledSize()
	if err := p.surf.Resize(w, h); err != nil {
		return fmt.Errorf("failed to resize surface to %dx%d: %w", w, h, err)
	}
	return nil
}
