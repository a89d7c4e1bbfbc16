package material

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithColor is an option builder that sets the diffuse color of the material.
//
// Parameters:
//   - color: the 0xRRGGBB diffuse color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithShininess is an option builder that sets the Phong specular exponent. Negative values are clamped to 0.
//
// Parameters:
//   - shininess: the specular exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess option to a material
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = max(shininess, 0)
	}
}

// WithOpacity is an option builder that sets the material alpha, clamped to [0, 1].
//
// Parameters:
//   - opacity: the alpha value
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = common.Clamp(opacity, 0, 1)
	}
}

// WithDoubleSided is an option builder that disables back-face culling for the material.
//
// Parameters:
//   - doubleSided: true to render back faces
//
// Returns:
//   - MaterialBuilderOption: a function that applies the double-sided option to a material
func WithDoubleSided(doubleSided bool) MaterialBuilderOption {
	return func(m *material) {
		m.doubleSided = doubleSided
	}
}

// WithBaseTexture is an option builder that sets the base color texture.
//
// Parameters:
//   - texture: the encoded texture extracted from the model file
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithBaseTexture(texture *common.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.baseTexture = texture
	}
}
