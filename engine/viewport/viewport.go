// Package viewport keeps the renderer surface and the camera projection in step with the window.
package viewport

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// State is the last observed viewport: logical size and device pixel ratio.
type State struct {
	Width      int
	Height     int
	PixelRatio float32
}

// SurfaceSize returns the physical surface size, floor(size × pixel ratio).
func (s State) SurfaceSize() (width, height int) {
	return common.PhysicalSize(s.Width, s.PixelRatio), common.PhysicalSize(s.Height, s.PixelRatio)
}

// Aspect returns width / height, or 0 for an empty viewport.
func (s State) Aspect() float32 {
	if s.Height == 0 {
		return 0
	}
	return float32(s.Width) / float32(s.Height)
}

// SurfaceSizer is the renderer side of a viewport change.
type SurfaceSizer interface {
	SetPixelRatio(ratio float32)
	SetSize(width, height int)
}

// Projector is the camera side of a viewport change.
type Projector interface {
	SetAspect(aspect float32)
	MarkProjectionStale()
}

// Monitor applies viewport changes to a renderer and a camera.
type Monitor struct {
	mu       sync.Mutex
	renderer SurfaceSizer
	camera   Projector
	state    State
	changes  uint64
}

// NewMonitor creates a monitor driving r and cam. Neither may be nil.
//
// Parameters:
//   - r: the renderer whose surface follows the viewport
//   - cam: the camera whose aspect follows the viewport
//
// Returns:
//   - *Monitor: the monitor
func NewMonitor(r SurfaceSizer, cam Projector) *Monitor {
	if r == nil || cam == nil {
		panic("viewport: monitor needs a renderer and a camera")
	}
	return &Monitor{renderer: r, camera: cam, state: State{PixelRatio: 1}}
}

// Notify handles one viewport change. The pixel ratio and size are pushed into the renderer, the camera
// aspect is set to width / height and its projection is marked stale. A zero height (minimized window)
// updates the renderer but leaves the camera aspect alone.
//
// Parameters:
//   - width: logical width
//   - height: logical height
//   - pixelRatio: device pixel ratio; non-positive values are treated as 1
func (m *Monitor) Notify(width, height int, pixelRatio float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	m.state = State{Width: max(width, 0), Height: max(height, 0), PixelRatio: pixelRatio}
	m.changes++

	m.renderer.SetPixelRatio(pixelRatio)
	m.renderer.SetSize(m.state.Width, m.state.Height)

	if m.state.Height > 0 {
		m.camera.SetAspect(m.state.Aspect())
	}
	m.camera.MarkProjectionStale()
}

// State returns the last observed viewport state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Changes returns how many notifications have been handled.
func (m *Monitor) Changes() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changes
}
