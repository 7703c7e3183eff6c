package surface

import (
	"image/color"
	"sync"
)

// OpKind identifies a recorded drawing operation.
type OpKind int

const (
	OpFill OpKind = iota
	OpClear
)

// Op is one recorded drawing call.
type Op struct {
	Kind       OpKind
	X, Y, W, H float64
	Color      color.RGBA
}

// Recorder is a Surface that keeps every call in memory. It backs headless
// rendering and tests.
type Recorder struct {
	mu       sync.Mutex
	width    int
	height   int
	dpr      float64
	ops      []Op
	released bool
}

// NewRecorder creates a recorder with the given device pixel ratio.
func NewRecorder(dpr float64) *Recorder {
	if dpr <= 0 {
		dpr = 1
	}
	return &Recorder{dpr: dpr, width: 1, height: 1}
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, Op{Kind: OpFill, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// A clear of the whole surface starts a new frame.
	if x <= 0 && y <= 0 && w >= float64(r.width) && h >= float64(r.height) {
		r.ops = r.ops[:0]
	}
	r.ops = append(r.ops, Op{Kind: OpClear, X: x, Y: y, W: w, H: h})
}

func (r *Recorder) Resize(width, height int) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	return nil
}

func (r *Recorder) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// BackingSize returns the physical pixel size for the current logical size.
func (r *Recorder) BackingSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return BackingSize(r.width, r.dpr), BackingSize(r.height, r.dpr)
}

// Ops returns a copy of the operations of the current frame.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Fills returns only the fill operations of the current frame.
func (r *Recorder) Fills() []Op {
	var out []Op
	for _, op := range r.Ops() {
		if op.Kind == OpFill {
			out = append(out, op)
		}
	}
	return out
}

// ColorAt returns the color of the last fill covering the point, or false
// if nothing was painted there since the last full clear.
func (r *Recorder) ColorAt(x, y float64) (color.RGBA, bool) {
	ops := r.Ops()
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		if x < op.X || x >= op.X+op.W || y < op.Y || y >= op.Y+op.H {
			continue
		}
		if op.Kind == OpClear {
			return color.RGBA{}, false
		}
		return op.Color, true
	}
	return color.RGBA{}, false
}

func (r *Recorder) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
	r.ops = nil
	return nil
}

// Released reports whether Release was called.
func (r *Recorder) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
