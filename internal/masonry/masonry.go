// Package masonry places variable-height tiles into equal-width columns
// using a greedy shortest-column heuristic.
package masonry

import (
	"math"

	"github.com/weave-visualizer/engine/internal/models"
)

// DefaultFallbackTileWidth is the base tile width used when the first tile
// has not been measured.
const DefaultFallbackTileWidth = 250

// Options tunes a packing pass.
type Options struct {
	// MinColumns is the lower bound on the column count. Values below 1
	// are treated as 1.
	MinColumns int
	// FallbackTileWidth replaces an unmeasured first tile width.
	FallbackTileWidth float64
	// PreserveAspect scales each tile's height by the ratio of the column
	// width to its measured width.
	PreserveAspect bool
}

// Columns returns max(minColumns, floor(containerWidth/baseWidth)).
func Columns(containerWidth, baseWidth float64, minColumns int) int {
	minColumns = max(1, minColumns)
	if baseWidth <= 0 {
		return minColumns
	}
	return max(minColumns, int(math.Floor(containerWidth/baseWidth)))
}

// Pack computes a fresh layout for tiles in input order. Each tile goes to
// the column with the smallest accumulated height, the lowest index
// winning ties. Every tile is resized to containerWidth/columns.
func Pack(tiles []models.Size, containerWidth float64, opts Options) models.PackedLayout {
	if len(tiles) == 0 {
		return models.PackedLayout{}
	}

	base := tiles[0].Width
	if base <= 0 {
		base = opts.FallbackTileWidth
		if base <= 0 {
			base = DefaultFallbackTileWidth
		}
	}
	columns := Columns(containerWidth, base, opts.MinColumns)
	tileWidth := containerWidth / float64(columns)

	heights := make([]float64, columns)
	placements := make([]models.Placement, len(tiles))
	for i, t := range tiles {
		col := shortest(heights)
		h := t.Height
		if opts.PreserveAspect && t.Width > 0 {
			h = t.Height * tileWidth / t.Width
		}
		placements[i] = models.Placement{
			Column: col,
			X:      float64(col) * tileWidth,
			Y:      heights[col],
			Width:  tileWidth,
			Height: h,
		}
		heights[col] += h
	}

	total := 0.0
	for _, h := range heights {
		total = max(total, h)
	}
	return models.PackedLayout{
		Placements:  placements,
		Columns:     columns,
		TileWidth:   tileWidth,
		TotalHeight: total,
	}
}

// shortest returns the index of the first minimum.
func shortest(heights []float64) int {
	best := 0
	for i := 1; i < len(heights); i++ {
		if heights[i] < heights[best] {
			best = i
		}
	}
	return best
}
