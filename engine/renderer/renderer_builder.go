package renderer

import "github.com/Carmen-Shannon/oxy-viewer/engine/material"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithSize sets the initial logical viewport size.
//
// Parameters:
//   - width: logical width
//   - height: logical height
//
// Returns:
//   - RendererBuilderOption: a function that applies the size option to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width = width
		r.height = height
	}
}

// WithPixelRatio sets the initial device pixel ratio.
//
// Parameters:
//   - ratio: physical pixels per logical pixel
//
// Returns:
//   - RendererBuilderOption: a function that applies the pixel ratio option to a renderer
func WithPixelRatio(ratio float32) RendererBuilderOption {
	return func(r *renderer) {
		if ratio > 0 {
			r.pixelRatio = ratio
		}
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithDefaultMaterial sets the material used for mesh nodes that have none.
func WithDefaultMaterial(m material.Material) RendererBuilderOption {
	return func(r *renderer) {
		if m != nil {
			r.defaultMaterial = m
		}
	}
}
