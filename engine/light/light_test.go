package light

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(LightTypeDirectional)

	assert.Equal(t, LightTypeDirectional, l.Type())
	assert.EqualValues(t, 0xffffff, l.Color())
	assert.Equal(t, float32(1), l.Intensity())
	assert.False(t, l.CastsShadows())
	assert.Equal(t, DefaultShadow(), l.Shadow())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, l.Direction())
}

func TestHemisphereLightNeverCastsShadows(t *testing.T) {
	l := NewLight(LightTypeHemisphere,
		WithColor(0xffffbb),
		WithGroundColor(0x080820),
		WithPosition(0, 50, 0),
		WithCastsShadows(true),
	)

	assert.False(t, l.CastsShadows())
	assert.EqualValues(t, 0x080820, l.GroundColor())
	dir := l.Direction()
	assert.InDeltaSlice(t, []float32{0, 1, 0}, dir[:], 1e-6)
}

func TestDirectionalLightShadowMatrix(t *testing.T) {
	l := NewLight(LightTypeDirectional,
		WithPosition(-8, 12, 8),
		WithCastsShadows(true),
		WithShadowMapSize(1024),
		WithShadowMapSize(-1),
	)

	assert.True(t, l.CastsShadows())
	assert.Equal(t, 1024, l.Shadow().MapSize)
	assert.InDelta(t, 1.0/1024, l.Shadow().TexelSize(), 1e-9)

	// The light target projects to the center of the shadow map.
	clip := l.ShadowViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, clip.X(), 1e-4)
	assert.InDelta(t, 0, clip.Y(), 1e-4)
	assert.True(t, clip.Z() > 0 && clip.Z() < 1)
}

func TestShadowMatrixStraightDown(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithPosition(0, 10, 0))
	m := l.ShadowViewProjection()
	for i := range 16 {
		assert.False(t, m[i] != m[i], "matrix element %d is NaN", i)
	}
}

func TestGPULightUniform(t *testing.T) {
	hemi := NewLight(LightTypeHemisphere, WithColor(0xffffff), WithGroundColor(0x000000), WithPosition(0, 50, 0))
	dir := NewLight(LightTypeDirectional, WithPosition(-8, 12, 8), WithIntensity(0.54), WithCastsShadows(true))

	u := NewGPULightUniform(hemi, dir, true)
	assert.Equal(t, 160, u.Size())
	assert.Equal(t, [3]float32{1, 1, 1}, u.SkyColor)
	assert.Equal(t, float32(1), u.ShadowEnabled)
	assert.Equal(t, float32(0.54), u.DirIntensity)

	buf := u.Marshal()
	assert.Len(t, buf, 160)

	off := NewGPULightUniform(hemi, dir, false)
	assert.Equal(t, float32(0), off.ShadowEnabled)

	empty := NewGPULightUniform(nil, nil, true)
	assert.Equal(t, GPULightUniform{}, empty)
}
