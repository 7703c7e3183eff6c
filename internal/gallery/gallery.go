// Package gallery grows an endless, masonry-packed collection of random
// pattern tiles. Every method must be called from the scheduler's loop.
package gallery

import (
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/weave-visualizer/engine/internal/config"
	"github.com/weave-visualizer/engine/internal/logutil"
	"github.com/weave-visualizer/engine/internal/masonry"
	"github.com/weave-visualizer/engine/internal/models"
	"github.com/weave-visualizer/engine/internal/options"
	"github.com/weave-visualizer/engine/internal/preview"
	"github.com/weave-visualizer/engine/internal/scheduler"
	"github.com/weave-visualizer/engine/internal/surface"
)

// ReducedFactor is stored on tiles created while the viewport is too
// narrow for MinColumns estimated tiles. It has no effect on drawing.
const ReducedFactor = 0.5

// SurfaceFactory creates the drawing surface for a new tile. Returning nil
// yields an inert tile that still takes part in the layout.
type SurfaceFactory func() surface.Surface

// Tile is one gallery entry.
type Tile struct {
	ID string
	// Spec is the pattern as generated. Global toggles never modify it.
	Spec         models.PatternSpec
	Preview      *preview.Preview
	Placement    models.Placement
	ReduceFactor float64
}

// Gallery is the incremental tile loader.
type Gallery struct {
	id         string
	cfg        *config.Config
	sched      scheduler.Scheduler
	pools      *options.Pools
	rng        options.Rand
	newSurface SurfaceFactory

	tiles     []*Tile
	layout    models.PackedLayout
	viewport  models.Size
	scrollTop float64
	sentinelY float64
	settings  preview.Settings

	loading   bool
	observing bool
	closed    bool

	resize   *scheduler.Debouncer
	throttle *scheduler.Throttle
	onLayout func(models.PackedLayout)
	log      *slog.Logger
}

// New creates an empty gallery. Call Start to load the first batch.
func New(cfg *config.Config, sched scheduler.Scheduler, pools *options.Pools, rng options.Rand, newSurface SurfaceFactory) *Gallery {
	if cfg == nil {
		cfg = config.Default()
	}
	id := uuid.New().String()
	return &Gallery{
		id:         id,
		cfg:        cfg,
		sched:      sched,
		pools:      pools,
		rng:        rng,
		newSurface: newSurface,
		settings:   preview.DefaultSettings(),
		resize:     scheduler.NewDebouncer(sched, cfg.Gallery.ResizeDebounce),
		throttle:   scheduler.NewThrottle(sched, cfg.Gallery.ScrollThrottle),
		log:        logutil.For("gallery").With("gallery", id),
	}
}

// ID returns the gallery's unique identifier.
func (g *Gallery) ID() string {
	return g.id
}

// OnLayout registers fn to run after every repack.
func (g *Gallery) OnLayout(fn func(models.PackedLayout)) {
	g.onLayout = fn
}

// Start sizes the viewport, loads the initial batch and begins observing
// the sentinel. It is a no-op after the first call or after Close.
func (g *Gallery) Start(viewportWidth, viewportHeight float64) {
	if g.closed || g.observing || len(g.tiles) > 0 {
		return
	}
	g.viewport = models.Size{Width: viewportWidth, Height: viewportHeight}

	n := g.InitialBatchSize(viewportWidth, viewportHeight)
	g.appendBatch(n)
	g.observing = true
	g.log.Info("gallery started", "tiles", n, "columns", g.layout.Columns)
}

// InitialBatchSize returns enough tiles to fill two viewport heights, and
// never fewer than the configured initial batch.
func (g *Gallery) InitialBatchSize(viewportWidth, viewportHeight float64) int {
	gc := g.cfg.Gallery
	if viewportWidth <= 0 || viewportHeight <= 0 {
		return gc.InitialBatchSize
	}
	columns := max(gc.MinColumns, int(math.Floor(viewportWidth/gc.EstimatedTileWidth)))
	perColumn := int(math.Ceil(viewportHeight * 2 / gc.EstimatedTileHeight))
	return max(gc.InitialBatchSize, perColumn*columns)
}

// LoadMore appends one batch of random tiles. It reports false without
// doing anything while another load is in flight or after Close.
func (g *Gallery) LoadMore() bool {
	if g.closed || g.loading {
		return false
	}
	g.appendBatch(g.cfg.Gallery.LoadBatchSize)
	g.log.Debug("loaded batch", "count", g.cfg.Gallery.LoadBatchSize, "total", len(g.tiles))
	return true
}

func (g *Gallery) appendBatch(n int) {
	g.loading = true
	defer func() { g.loading = false }()

	reduce := g.reduceFactor()
	for _, spec := range g.pools.Batch(g.rng, n) {
		g.tiles = append(g.tiles, g.newTile(spec, reduce))
	}
	g.relayout()
}

func (g *Gallery) newTile(spec models.PatternSpec, reduce float64) *Tile {
	opts := preview.DefaultOptions()
	opts.GridLines = g.cfg.Surface.GridLines
	opts.RevealInterval = g.cfg.Animation.RevealInterval
	opts.DefaultSpeed = g.cfg.Animation.DefaultSpeed
	opts.ReduceFactor = reduce

	var surf surface.Surface
	if g.newSurface != nil {
		surf = g.newSurface()
	}
	p := preview.New(surf, g.sched, opts)
	p.SetSettings(g.settings)
	p.SetMotif(spec.BinaryPattern)
	p.SetPalette(spec.ColorScheme)
	if err := p.SetGridConfig(spec.GridConfig); err != nil {
		g.log.Warn("tile grid rejected", "error", err)
	}
	p.SetAnimation(spec.Animation)

	return &Tile{
		ID:           uuid.New().String(),
		Spec:         spec.Clone(),
		Preview:      p,
		ReduceFactor: reduce,
	}
}

func (g *Gallery) reduceFactor() float64 {
	gc := g.cfg.Gallery
	if int(math.Floor(g.viewport.Width/gc.EstimatedTileWidth)) < gc.MinColumns {
		return ReducedFactor
	}
	return 1
}

// relayout repacks every tile, scales each one to its column width and
// moves the sentinel to the new bottom.
func (g *Gallery) relayout() {
	sizes := make([]models.Size, len(g.tiles))
	for i, t := range g.tiles {
		sizes[i] = t.Preview.NaturalSize()
	}
	g.layout = masonry.Pack(sizes, g.viewport.Width, masonry.Options{
		MinColumns:        g.cfg.Gallery.MinColumns,
		FallbackTileWidth: g.cfg.Masonry.FallbackTileWidth,
		PreserveAspect:    g.cfg.Masonry.PreserveAspect,
	})
	for i, t := range g.tiles {
		t.Placement = g.layout.Placements[i]
		if sizes[i].Width <= 0 {
			continue
		}
		if err := t.Preview.SetScale(t.Placement.Width / sizes[i].Width); err != nil {
			g.log.Warn("failed to scale tile", "tile", t.ID, "error", err)
		}
	}
	g.sentinelY = g.layout.TotalHeight

	if g.onLayout != nil {
		g.onLayout(g.layout)
	}
}

// Scroll records the viewport's scroll position and loads a batch when
// the sentinel comes within the threshold. It reports whether a batch was
// loaded.
func (g *Gallery) Scroll(top float64) bool {
	if g.closed {
		return false
	}
	g.scrollTop = max(0, top)
	return g.CheckSentinel()
}

// ScrollThrottled is the fallback scroll path: at most one visibility
// check is pending at a time.
func (g *Gallery) ScrollThrottled(top float64) {
	if g.closed {
		return
	}
	g.scrollTop = max(0, top)
	g.throttle.Trigger(func() { g.CheckSentinel() })
}

// CheckSentinel loads a batch if the sentinel is observed and near the
// bottom of the viewport.
func (g *Gallery) CheckSentinel() bool {
	if g.closed || !g.observing || g.loading {
		return false
	}
	if !g.SentinelVisible() {
		return false
	}
	return g.LoadMore()
}

// SentinelVisible reports whether the sentinel's top edge is within
// ScrollThreshold pixels of the viewport.
func (g *Gallery) SentinelVisible() bool {
	top := g.sentinelY - g.scrollTop
	threshold := g.cfg.Gallery.ScrollThreshold
	return top < g.viewport.Height+threshold && top+1 > -threshold
}

// Resize records the new viewport and repacks once the resize burst has
// settled.
func (g *Gallery) Resize(width, height float64) {
	if g.closed {
		return
	}
	g.resize.Trigger(func() {
		if g.closed {
			return
		}
		g.viewport = models.Size{Width: width, Height: height}
		g.relayout()
		g.log.Debug("relayout after resize", "width", width, "columns", g.layout.Columns)
	})
}

// SetAnimationsEnabled stops or resumes every tile's offset animation in
// one pass. Direction, speed and offset are kept.
func (g *Gallery) SetAnimationsEnabled(enabled bool) {
	if g.closed {
		return
	}
	g.settings.AnimationsEnabled = enabled
	g.applySettings()
	g.log.Info("animations toggled", "enabled", enabled)
}

// SetPaletteOverride forces the override palette onto every tile, or
// restores each tile's own palette.
func (g *Gallery) SetPaletteOverride(enabled bool) {
	if g.closed {
		return
	}
	if enabled {
		g.settings.PaletteOverride = g.cfg.Gallery.PaletteOverride.Clone()
	} else {
		g.settings.PaletteOverride = nil
	}
	g.applySettings()
	g.log.Info("palette override toggled", "enabled", enabled)
}

// ToggleAnimations flips the animation setting.
func (g *Gallery) ToggleAnimations() {
	g.SetAnimationsEnabled(!g.settings.AnimationsEnabled)
}

// TogglePaletteOverride flips the palette override.
func (g *Gallery) TogglePaletteOverride() {
	g.SetPaletteOverride(len(g.settings.PaletteOverride) == 0)
}

func (g *Gallery) applySettings() {
	for _, t := range g.tiles {
		t.Preview.SetSettings(g.settings)
	}
}

// Settings returns the current global toggles.
func (g *Gallery) Settings() preview.Settings {
	return g.settings
}

// Tiles returns the tiles in load order.
func (g *Gallery) Tiles() []*Tile {
	out := make([]*Tile, len(g.tiles))
	copy(out, g.tiles)
	return out
}

// Len returns the number of loaded tiles.
func (g *Gallery) Len() int {
	return len(g.tiles)
}

// Layout returns the most recent packing.
func (g *Gallery) Layout() models.PackedLayout {
	return g.layout
}

// SentinelY returns the sentinel's vertical position.
func (g *Gallery) SentinelY() float64 {
	return g.sentinelY
}

// ScrollTop returns the last scroll position.
func (g *Gallery) ScrollTop() float64 {
	return g.scrollTop
}

// Viewport returns the viewport size used by the current layout.
func (g *Gallery) Viewport() models.Size {
	return g.viewport
}

// Loading reports whether a batch is being appended.
func (g *Gallery) Loading() bool {
	return g.loading
}

// Closed reports whether Close was called.
func (g *Gallery) Closed() bool {
	return g.closed
}

// VisibleTiles returns the tiles intersecting the viewport.
func (g *Gallery) VisibleTiles() []*Tile {
	var out []*Tile
	top, bottom := g.scrollTop, g.scrollTop+g.viewport.Height
	for _, t := range g.tiles {
		if t.Placement.Bottom() > top && t.Placement.Y < bottom {
			out = append(out, t)
		}
	}
	return out
}

// Close stops every driver and reveal, detaches the sentinel observer,
// cancels pending resize and scroll work, and finally releases every
// surface. Further calls on the gallery are no-ops.
func (g *Gallery) Close() {
	if g.closed {
		return
	}
	g.closed = true

	for _, t := range g.tiles {
		t.Preview.StopTimers()
	}
	g.observing = false
	g.resize.Cancel()
	g.throttle.Cancel()
	for _, t := range g.tiles {
		t.Preview.Destroy()
	}
	g.log.Info("gallery closed", "tiles", len(g.tiles))
	g.tiles = nil
}
