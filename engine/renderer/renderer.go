package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend RendererBackend

	pixelRatio float32
	width      int
	height     int

	surfaceWidth  int
	surfaceHeight int

	frames          uint64
	defaultMaterial material.Material

	pendingPresentMode *PresentMode
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the logical viewport size and the device pixel ratio and keeps the backend surface
// at the matching physical size. Render flattens a scene and camera into a Frame and hands it to the
// backend, which allows multiple backend implementations to exist.
type Renderer interface {
	// SetPixelRatio sets the device pixel ratio and resizes the surface to match.
	// Non-positive ratios are treated as 1.
	//
	// Parameters:
	//   - ratio: physical pixels per logical pixel
	SetPixelRatio(ratio float32)

	// PixelRatio returns the current device pixel ratio.
	PixelRatio() float32

	// SetSize sets the logical viewport size and resizes the surface to size × pixel ratio.
	//
	// Parameters:
	//   - width: logical width
	//   - height: logical height
	SetSize(width, height int)

	// Size returns the logical viewport size.
	//
	// Returns:
	//   - width, height: logical size
	Size() (width, height int)

	// SurfaceSize returns the surface size in physical pixels: floor(size × pixel ratio).
	//
	// Returns:
	//   - width, height: physical size
	SurfaceSize() (width, height int)

	// SetPresentMode sets the surface present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Render draws the scene as seen by the camera. A scene without an asset renders its background,
	// ground, grid and lights.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - cam: the viewing camera
	//
	// Returns:
	//   - error: an error if the backend failed to draw the frame
	Render(s scene.Scene, cam camera.Camera) error

	// Frames returns the number of frames rendered successfully.
	Frames() uint64

	// BackendType returns the type of the backend in use.
	BackendType() RendererBackendType

	// Release frees the backend.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer that draws through the given backend.
//
// Parameters:
//   - backend: the backend to draw with, e.g. a headless backend or the WebGPU backend
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backend RendererBackend, options ...RendererBuilderOption) Renderer {
	if backend == nil {
		panic(ErrNoBackend)
	}
	r := &renderer{
		mu:              &sync.Mutex{},
		backend:         backend,
		pixelRatio:      1,
		defaultMaterial: material.NewMaterial(material.WithName("default")),
	}
	for _, opt := range options {
		opt(r)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.configure()
	return r
}

// configure pushes the physical surface size to the backend if it changed. Caller must hold the mutex
// or own the renderer exclusively.
func (r *renderer) configure() {
	w := common.PhysicalSize(r.width, r.pixelRatio)
	h := common.PhysicalSize(r.height, r.pixelRatio)
	if w == r.surfaceWidth && h == r.surfaceHeight {
		return
	}
	r.surfaceWidth, r.surfaceHeight = w, h
	if w > 0 && h > 0 {
		r.backend.ConfigureSurface(w, h)
	}
}

func (r *renderer) SetPixelRatio(ratio float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ratio <= 0 {
		ratio = 1
	}
	r.pixelRatio = ratio
	r.configure()
}

func (r *renderer) PixelRatio() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pixelRatio
}

func (r *renderer) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width = max(width, 0)
	r.height = max(height, 0)
	r.configure()
}

func (r *renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SurfaceSize() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surfaceWidth, r.surfaceHeight
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.SetPresentMode(mode)
	if r.surfaceWidth > 0 && r.surfaceHeight > 0 {
		r.backend.ConfigureSurface(r.surfaceWidth, r.surfaceHeight)
	}
}

func (r *renderer) Render(s scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A minimized window has no surface to draw into.
	if r.surfaceWidth <= 0 || r.surfaceHeight <= 0 {
		return nil
	}

	frame := buildFrame(r.frames, r.surfaceWidth, r.surfaceHeight, s, cam, r.defaultMaterial)
	if err := r.backend.DrawFrame(frame); err != nil {
		return fmt.Errorf("render frame %d: %w", frame.Index, err)
	}
	r.frames++
	return nil
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backend.Type()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}
