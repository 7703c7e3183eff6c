// mock_surface.go - Surface and randomness fakes for testing
package testutil

import (
	"fmt"
	"sync"

	"github.com/weave-visualizer/engine/internal/surface"
)

// SurfaceFactory hands out in-memory recorders and remembers each one so
// tests can inspect what was drawn.
type SurfaceFactory struct {
	dpr       float64
	surfaces  []*surface.Recorder
	failAfter int
	mu        sync.RWMutex
}

// NewSurfaceFactory creates a factory whose recorders use the given device
// pixel ratio.
func NewSurfaceFactory(dpr float64) *SurfaceFactory {
	return &SurfaceFactory{dpr: dpr, failAfter: -1}
}

// New returns a fresh recorder, or nil once the failure budget set by
// FailAfter is exhausted.
func (f *SurfaceFactory) New() surface.Surface {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAfter >= 0 && len(f.surfaces) >= f.failAfter {
		return nil
	}
	r := surface.NewRecorder(f.dpr)
	f.surfaces = append(f.surfaces, r)
	return r
}

// Test Helper Methods

// FailAfter makes New return nil after n surfaces were handed out.
func (f *SurfaceFactory) FailAfter(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAfter = n
}

// Surfaces returns every recorder created so far.
func (f *SurfaceFactory) Surfaces() []*surface.Recorder {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]*surface.Recorder, len(f.surfaces))
	copy(out, f.surfaces)
	return out
}

// Get returns the i-th recorder.
func (f *SurfaceFactory) Get(i int) (*surface.Recorder, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if i < 0 || i >= len(f.surfaces) {
		return nil, fmt.Errorf("surface %d not found", i)
	}
	return f.surfaces[i], nil
}

// SeqRand is a deterministic random source cycling through fixed values.
// Each value is reduced modulo the requested bound.
type SeqRand struct {
	values []int
	next   int
}

// NewSeqRand creates a source returning values in order, wrapping around.
// With no values it always returns 0.
func NewSeqRand(values ...int) *SeqRand {
	return &SeqRand{values: values}
}

// Intn returns the next value modulo n.
func (s *SeqRand) Intn(n int) int {
	if len(s.values) == 0 || n <= 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return ((v % n) + n) % n
}
