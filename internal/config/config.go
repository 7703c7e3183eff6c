// Package config provides YAML-based configuration for the weave engine.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/weave-visualizer/engine/internal/models"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidRange is returned when a limit has min greater than max.
var ErrInvalidRange = errors.New("invalid range")

// Config is the root configuration structure.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Gallery   GalleryConfig   `yaml:"gallery"`
	Masonry   MasonryConfig   `yaml:"masonry"`
	Animation AnimationConfig `yaml:"animation"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Limits    LimitsConfig    `yaml:"limits"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// GalleryConfig contains incremental loader settings.
type GalleryConfig struct {
	InitialBatchSize    int            `yaml:"initial_batch_size"`
	LoadBatchSize       int            `yaml:"load_batch_size"`
	ScrollThreshold     float64        `yaml:"scroll_threshold"`
	MinColumns          int            `yaml:"min_columns"`
	EstimatedTileWidth  float64        `yaml:"estimated_tile_width"`
	EstimatedTileHeight float64        `yaml:"estimated_tile_height"`
	ResizeDebounce      time.Duration  `yaml:"resize_debounce"`
	ScrollThrottle      time.Duration  `yaml:"scroll_throttle"`
	PaletteOverride     models.Palette `yaml:"palette_override"`
}

// MasonryConfig contains packing settings.
type MasonryConfig struct {
	FallbackTileWidth float64 `yaml:"fallback_tile_width"`
	PreserveAspect    bool    `yaml:"preserve_aspect"`
}

// AnimationConfig contains animation timing.
type AnimationConfig struct {
	DefaultSpeed   int           `yaml:"default_speed"`
	RevealInterval time.Duration `yaml:"reveal_interval"`
}

// SurfaceConfig contains drawing surface settings.
type SurfaceConfig struct {
	DevicePixelRatio float64 `yaml:"device_pixel_ratio"`
	GridLines        bool    `yaml:"grid_lines"`
}

// Range is an inclusive integer bound.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Clamp bounds v to the range.
func (r Range) Clamp(v int) int {
	return models.Clamp(v, r.Min, r.Max)
}

// LimitsConfig holds the clamping bounds for user-entered values.
type LimitsConfig struct {
	MotifLength Range `yaml:"motif_length"`
	Width       Range `yaml:"width"`
	Height      Range `yaml:"height"`
	CellSize    Range `yaml:"cell_size"`
	Speed       Range `yaml:"speed"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Parse reads a YAML document and overlays it on the defaults.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate replaces non-positive sizes and durations with defaults and
// rejects inverted limit ranges.
func (c *Config) Validate() error {
	def := Default()

	g := &c.Gallery
	if g.InitialBatchSize <= 0 {
		g.InitialBatchSize = def.Gallery.InitialBatchSize
	}
	if g.LoadBatchSize <= 0 {
		g.LoadBatchSize = def.Gallery.LoadBatchSize
	}
	if g.ScrollThreshold < 0 {
		g.ScrollThreshold = def.Gallery.ScrollThreshold
	}
	if g.MinColumns <= 0 {
		g.MinColumns = 1
	}
	if g.EstimatedTileWidth <= 0 {
		g.EstimatedTileWidth = def.Gallery.EstimatedTileWidth
	}
	if g.EstimatedTileHeight <= 0 {
		g.EstimatedTileHeight = def.Gallery.EstimatedTileHeight
	}
	if g.ResizeDebounce <= 0 {
		g.ResizeDebounce = def.Gallery.ResizeDebounce
	}
	if g.ScrollThrottle <= 0 {
		g.ScrollThrottle = def.Gallery.ScrollThrottle
	}
	if len(g.PaletteOverride) == 0 {
		g.PaletteOverride = def.Gallery.PaletteOverride
	}

	if c.Masonry.FallbackTileWidth <= 0 {
		c.Masonry.FallbackTileWidth = def.Masonry.FallbackTileWidth
	}
	if c.Animation.RevealInterval <= 0 {
		c.Animation.RevealInterval = def.Animation.RevealInterval
	}
	c.Animation.DefaultSpeed = models.ClampSpeed(c.Animation.DefaultSpeed)
	if c.Surface.DevicePixelRatio <= 0 {
		c.Surface.DevicePixelRatio = 1
	}

	if c.Limits.MotifLength.Min < 1 {
		c.Limits.MotifLength.Min = 1
	}
	if c.Limits.Width.Min < 1 {
		c.Limits.Width.Min = 1
	}
	if c.Limits.Height.Min < 1 {
		c.Limits.Height.Min = 1
	}
	if c.Limits.CellSize.Min < 1 {
		c.Limits.CellSize.Min = 1
	}

	limits := map[string]Range{
		"motif_length": c.Limits.MotifLength,
		"width":        c.Limits.Width,
		"height":       c.Limits.Height,
		"cell_size":    c.Limits.CellSize,
		"speed":        c.Limits.Speed,
	}
	for name, r := range limits {
		if r.Min > r.Max {
			return fmt.Errorf("%w: limits.%s min %d > max %d", ErrInvalidRange, name, r.Min, r.Max)
		}
	}
	return nil
}
