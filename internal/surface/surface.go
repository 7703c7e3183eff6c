// Package surface defines the drawing primitive the rasterizer targets and
// ships the concrete backends: an in-memory command recorder, a gg pixmap
// and a tcell terminal screen.
package surface

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

// ErrInvalidSize is returned by Resize for non-positive dimensions.
var ErrInvalidSize = errors.New("surface: invalid size")

// Surface is a 2-D drawing target addressed in logical pixels.
type Surface interface {
	// FillRect paints the rectangle with an opaque color.
	FillRect(x, y, w, h float64, c color.RGBA)
	// ClearRect resets the rectangle to transparent.
	ClearRect(x, y, w, h float64)
	// Resize sets the logical size. Backends map it to their backing store
	// using their device pixel ratio.
	Resize(width, height int) error
	// Size returns the logical size.
	Size() (width, height int)
}

// Releaser is implemented by surfaces holding resources that must be
// freed on teardown.
type Releaser interface {
	Release() error
}

// BackingSize maps a logical dimension to physical backing-store pixels.
func BackingSize(logical int, dpr float64) int {
	if dpr <= 0 {
		dpr = 1
	}
	return max(1, int(math.Floor(float64(logical)*dpr)))
}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return nil
}
