package light

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a functional option for configuring a light during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition sets the world-space position of the light.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = mgl32.Vec3{x, y, z}
	}
}

// WithTarget sets the point a directional light shines toward.
//
// Parameters:
//   - x, y, z: target components
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithTarget(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.target = mgl32.Vec3{x, y, z}
	}
}

// WithColor sets the light color (the sky color for a hemisphere light).
//
// Parameters:
//   - color: the 0xRRGGBB color
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithColor(color common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = color
	}
}

// WithGroundColor sets the ground color of a hemisphere light.
//
// Parameters:
//   - color: the 0xRRGGBB color
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithGroundColor(color common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.groundColor = color
	}
}

// WithIntensity sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value (negative values are clamped to 0)
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = max(intensity, 0)
	}
}

// WithCastsShadows sets whether a directional light renders a shadow map.
//
// Parameters:
//   - castsShadows: true to enable the shadow pass for this light
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

// WithShadowMapSize sets the width and height in texels of the shadow depth texture.
//
// Parameters:
//   - size: the shadow map resolution (values <= 0 keep the default)
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithShadowMapSize(size int) LightBuilderOption {
	return func(l *lightImpl) {
		if size > 0 {
			l.shadow.MapSize = size
		}
	}
}

// WithShadow replaces the whole shadow projection.
//
// Parameters:
//   - shadow: the shadow settings
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithShadow(shadow Shadow) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadow = shadow
	}
}
