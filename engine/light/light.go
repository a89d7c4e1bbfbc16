package light

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeHemisphere is an ambient light blending a sky color (from above) and a ground color
	// (from below) by the surface normal's alignment with the light's up direction.
	LightTypeHemisphere LightType = iota

	// LightTypeDirectional is a distant light shining from its position toward its target.
	// It is the only light type that can cast shadows.
	LightTypeDirectional
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType    LightType
	position     mgl32.Vec3
	target       mgl32.Vec3
	color        common.Color
	groundColor  common.Color
	intensity    float32
	castsShadows bool
	shadow       Shadow
}

// Light defines the interface for a light source in the scene.
//
// The scene owns exactly one hemisphere light and one directional light; both are created once by the
// scene composer and read by the renderer every frame.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position of the light. For a hemisphere light the normalized
	// position is the sky direction.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Target returns the point a directional light shines toward.
	//
	// Returns:
	//   - mgl32.Vec3: the target point (origin by default)
	Target() mgl32.Vec3

	// Direction returns the normalized direction from the surface toward the light.
	//
	// Returns:
	//   - mgl32.Vec3: the normalized light direction, or +Y if position equals target
	Direction() mgl32.Vec3

	// Color returns the light color. For a hemisphere light this is the sky color.
	//
	// Returns:
	//   - common.Color: the 0xRRGGBB color
	Color() common.Color

	// GroundColor returns the ground color of a hemisphere light. Zero for other types.
	//
	// Returns:
	//   - common.Color: the 0xRRGGBB ground color
	GroundColor() common.Color

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// CastsShadows returns whether the light renders a shadow map. Always false for hemisphere lights.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// Shadow returns the shadow projection settings of the light.
	//
	// Returns:
	//   - Shadow: the shadow settings
	Shadow() Shadow

	// ShadowViewProjection returns the light-space view-projection matrix used to render and sample
	// the shadow map.
	//
	// Returns:
	//   - mgl32.Mat4: orthographic projection times the light view matrix
	ShadowViewProjection() mgl32.Mat4
}

var _ Light = &lightImpl{}

// NewLight creates a new light of the given type with the provided options.
// Defaults to white, intensity 1, positioned at (0, 1, 0) shining at the origin, with DefaultShadow settings.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		position:  common.WorldUp,
		color:     0xffffff,
		intensity: 1,
		shadow:    DefaultShadow(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.lightType != LightTypeDirectional {
		l.castsShadows = false
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Target() mgl32.Vec3 {
	return l.target
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	d := l.position.Sub(l.target)
	if d.Len() < 1e-8 {
		return common.WorldUp
	}
	return d.Normalize()
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) GroundColor() common.Color {
	return l.groundColor
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) Shadow() Shadow {
	return l.shadow
}

func (l *lightImpl) ShadowViewProjection() mgl32.Mat4 {
	up := common.WorldUp
	// A light straight above its target would make the view matrix degenerate.
	if dir := l.Direction(); mgl32.Abs(dir.Dot(up)) > 0.999 {
		up = mgl32.Vec3{0, 0, -1}
	}
	view := mgl32.LookAtV(l.position, l.target, up)
	s := l.shadow
	proj := common.Orthographic(s.Left, s.Right, s.Bottom, s.Top, s.Near, s.Far)
	return proj.Mul4(view)
}
