package renderer

import "errors"

// ErrNoBackend is returned when a renderer is used without a backend.
var ErrNoBackend = errors.New("renderer has no backend")

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless selects the recording backend that draws nothing.
	BackendTypeHeadless
)

// String returns the backend name.
func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeHeadless:
		return "headless"
	default:
		return "unknown"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend draws prepared frames onto a surface.
// Backends are driven from the render goroutine only.
type RendererBackend interface {
	// Type returns the backend implementation type.
	Type() RendererBackendType

	// ConfigureSurface (re)creates the surface and any size-dependent targets.
	//
	// Parameters:
	//   - width: surface width in physical pixels
	//   - height: surface height in physical pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode; it takes effect on the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// DrawFrame renders one prepared frame and presents it.
	//
	// Parameters:
	//   - frame: the frame to draw; only valid for the duration of the call
	//
	// Returns:
	//   - error: an error if the frame could not be drawn
	DrawFrame(frame *Frame) error

	// Release frees every backend resource. The backend must not be used afterwards.
	Release()
}
