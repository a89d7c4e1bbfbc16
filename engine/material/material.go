package material

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// DefaultShininess is the Phong specular exponent used when a material does not set one.
const DefaultShininess float32 = 30

// material is the implementation of the Material interface.
type material struct {
	name        string
	color       common.Color
	shininess   float32
	opacity     float32
	doubleSided bool
	baseTexture *common.Texture
}

// Material describes the visual appearance of a surface: a Phong color and shininess, with an optional
// base color texture decoded from the model file.
//
// A Material is immutable once built and is shared by reference: binding the same Material to many nodes
// never copies it, so every node bound to it reports the identical Material value.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color retrieves the diffuse color of the material.
	//
	// Returns:
	//   - common.Color: the 0xRRGGBB diffuse color
	Color() common.Color

	// Shininess retrieves the Phong specular exponent.
	//
	// Returns:
	//   - float32: the shininess (0 = no specular highlight)
	Shininess() float32

	// Opacity retrieves the alpha of the material in [0, 1].
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// DoubleSided reports whether back faces are rendered.
	//
	// Returns:
	//   - bool: true if back-face culling is disabled for this material
	DoubleSided() bool

	// BaseTexture retrieves the base color texture, or nil if none is set.
	//
	// Returns:
	//   - *common.Texture: the encoded base color texture, or nil
	BaseTexture() *common.Texture
}

var _ Material = &material{}

// NewMaterial creates a new Material with the given options.
// Defaults to a white, opaque, single-sided material with DefaultShininess.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the newly created material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		color:     0xffffff,
		shininess: DefaultShininess,
		opacity:   1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Color() common.Color {
	return m.color
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) Opacity() float32 {
	return m.opacity
}

func (m *material) DoubleSided() bool {
	return m.doubleSided
}

func (m *material) BaseTexture() *common.Texture {
	return m.baseTexture
}
