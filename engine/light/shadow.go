package light

// DefaultShadowMapSize is the default width and height in texels of the shadow depth texture.
const DefaultShadowMapSize = 512

// DefaultShadowHalfExtent is the default orthographic half-extent (in world units) of the
// directional light shadow frustum.
const DefaultShadowHalfExtent float32 = 5

// DefaultShadowNear is the default near plane of the shadow projection.
const DefaultShadowNear float32 = 0.5

// DefaultShadowFar is the default far plane of the shadow projection.
const DefaultShadowFar float32 = 500

// DefaultShadowBias is the constant depth bias applied to shadow comparisons to reduce shadow acne.
const DefaultShadowBias float32 = 0.002

// Shadow is the orthographic shadow camera of a directional light.
type Shadow struct {
	MapSize                  int
	Left, Right, Bottom, Top float32
	Near, Far                float32
	Bias                     float32
}

// DefaultShadow returns the default shadow camera: a 10×10 unit box around the light target.
//
// Returns:
//   - Shadow: the default settings
func DefaultShadow() Shadow {
	return Shadow{
		MapSize: DefaultShadowMapSize,
		Left:    -DefaultShadowHalfExtent,
		Right:   DefaultShadowHalfExtent,
		Bottom:  -DefaultShadowHalfExtent,
		Top:     DefaultShadowHalfExtent,
		Near:    DefaultShadowNear,
		Far:     DefaultShadowFar,
		Bias:    DefaultShadowBias,
	}
}

// TexelSize returns the size of one shadow map texel in shadow UV space.
func (s Shadow) TexelSize() float32 {
	if s.MapSize <= 0 {
		return 0
	}
	return 1 / float32(s.MapSize)
}
