package webgpu

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/logger"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
)

// BackendBuilderOption is a functional option for configuring a Backend.
type BackendBuilderOption func(*Backend)

// WithSampleCount sets the MSAA sample count of the main pass. Defaults to renderer.MSAA4x.
//
// Parameters:
//   - count: renderer.MSAAOff or renderer.MSAA4x
//
// Returns:
//   - BackendBuilderOption: option function to apply
func WithSampleCount(count renderer.MSAASampleCount) BackendBuilderOption {
	return func(b *Backend) {
		if count != renderer.MSAAOff && count != renderer.MSAA4x {
			count = renderer.MSAA4x
		}
		b.sampleCount = count
	}
}

// WithForceFallbackAdapter requests the software fallback adapter.
func WithForceFallbackAdapter(force bool) BackendBuilderOption {
	return func(b *Backend) {
		b.forceFallbackAdapter = force
	}
}

// WithLogger sets the logger for device and resource diagnostics.
func WithLogger(l logger.Logger) BackendBuilderOption {
	return func(b *Backend) {
		b.log = logger.OrNop(l)
	}
}
