package surface

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/weave-visualizer/engine/internal/logutil"
)

// Raster is a Surface backed by a gg software pixmap. Logical pixels are
// scaled by the device pixel ratio onto the backing store.
type Raster struct {
	dc     *gg.Context
	width  int
	height int
	dpr    float64
}

// NewRaster creates a raster surface of the given logical size.
func NewRaster(width, height int, dpr float64) (*Raster, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	if dpr <= 0 {
		dpr = 1
	}
	r := &Raster{dpr: dpr}
	r.dc = gg.NewContext(BackingSize(width, dpr), BackingSize(height, dpr))
	r.width, r.height = width, height
	r.dc.Scale(dpr, dpr)
	return r, nil
}

func (r *Raster) FillRect(x, y, w, h float64, c color.RGBA) {
	if r.dc == nil {
		return
	}
	r.dc.SetColor(c)
	r.dc.DrawRectangle(x, y, w, h)
	if err := r.dc.Fill(); err != nil {
		logutil.For("raster").Warn("fill failed", "error", err)
	}
}

func (r *Raster) ClearRect(x, y, w, h float64) {
	if r.dc == nil {
		return
	}
	pm := r.dc.ResizeTarget()
	x0 := int(math.Floor(x * r.dpr))
	y0 := int(math.Floor(y * r.dpr))
	x1 := int(math.Ceil((x + w) * r.dpr))
	y1 := int(math.Ceil((y + h) * r.dpr))
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			pm.SetPixel(px, py, gg.Transparent)
		}
	}
}

func (r *Raster) Resize(width, height int) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	if r.dc == nil {
		return fmt.Errorf("raster: resize after release")
	}
	if err := r.dc.Resize(BackingSize(width, r.dpr), BackingSize(height, r.dpr)); err != nil {
		return fmt.Errorf("resizing raster: %w", err)
	}
	r.dc.Identity()
	r.dc.Scale(r.dpr, r.dpr)
	r.width, r.height = width, height
	return nil
}

func (r *Raster) Size() (int, int) {
	return r.width, r.height
}

// Image returns the backing store.
func (r *Raster) Image() image.Image {
	if r.dc == nil {
		return nil
	}
	return r.dc.Image()
}

// EncodePNG writes the backing store as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if r.dc == nil {
		return fmt.Errorf("raster: encode after release")
	}
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func (r *Raster) Release() error {
	if r.dc == nil {
		return nil
	}
	err := r.dc.Close()
	r.dc = nil
	if err != nil {
		return fmt.Errorf("closing raster context: %w", err)
	}
	return nil
}
