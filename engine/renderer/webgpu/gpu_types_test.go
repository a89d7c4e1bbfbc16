package webgpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestUniformSizes(t *testing.T) {
	var s gpuSceneUniform
	var m gpuMaterialUniform
	var o gpuObjectUniform
	assert.Equal(t, 32, s.Size())
	assert.Equal(t, 32, m.Size())
	assert.Equal(t, 144, o.Size())
	assert.Len(t, s.Marshal(), 32)
	assert.Len(t, m.Marshal(), 32)
	assert.Len(t, o.Marshal(), 144)
}

func TestSceneUniformFog(t *testing.T) {
	fog := scene.Fog{Enabled: true, Color: 0xf1f1f1, Near: 10, Far: 15}
	u := newGPUSceneUniform(fog, false)
	buf := u.Marshal()

	want := common.Color(0xf1f1f1).Linear()
	assert.InDelta(t, want[0], floatAt(buf, 0), 1e-6)
	assert.Equal(t, float32(1), floatAt(buf, 12))
	assert.Equal(t, float32(10), floatAt(buf, 16))
	assert.Equal(t, float32(15), floatAt(buf, 20))
	assert.Equal(t, float32(0), floatAt(buf, 24))

	off := newGPUSceneUniform(scene.Fog{Enabled: true, Near: 5, Far: 5}, true)
	assert.Equal(t, float32(0), off.FogEnabled, "a degenerate range disables fog")
	assert.Equal(t, float32(1), off.EncodeSRGB)
}

func TestMaterialUniform(t *testing.T) {
	m := material.NewMaterial(material.WithColor(0xffffff), material.WithShininess(10), material.WithOpacity(0.5))
	u := newGPUMaterialUniform(m, true)
	buf := u.Marshal()

	assert.InDelta(t, 1.0, floatAt(buf, 0), 1e-6)
	assert.Equal(t, float32(0.5), floatAt(buf, 12))
	assert.Equal(t, float32(10), floatAt(buf, 16))
	assert.Equal(t, float32(1), floatAt(buf, 20))
}

func TestObjectUniform(t *testing.T) {
	model := mgl32.Translate3D(1, 2, 3)
	u := newGPUObjectUniform(model, mgl32.Ident4(), true)
	buf := u.Marshal()

	assert.Equal(t, float32(1), floatAt(buf, 48))
	assert.Equal(t, float32(2), floatAt(buf, 52))
	assert.Equal(t, float32(3), floatAt(buf, 56))
	assert.Equal(t, float32(1), floatAt(buf, 64))
	assert.Equal(t, float32(1), floatAt(buf, 128))
}

func TestPackLines(t *testing.T) {
	out := packLines([]scene.LineVertex{
		{Position: mgl32.Vec3{1, 0, -1}, Color: 0xffffff},
		{Position: mgl32.Vec3{-1, 0, 1}, Color: 0x000000},
	})
	require.Len(t, out, 12)
	assert.Equal(t, []float32{1, 0, -1}, out[:3])
	assert.InDelta(t, 1.0, out[3], 1e-6)
	assert.Equal(t, []float32{0, 0, 0}, out[9:])
	assert.Equal(t, 24, lineVertexStride)
}

func TestClearValue(t *testing.T) {
	c := common.Color(0x808080)
	srgb := clearValue(c, false)
	linear := clearValue(c, true)
	assert.InDelta(t, 128.0/255.0, srgb[0], 1e-6)
	assert.Less(t, linear[0], srgb[0])
}

func TestPickSurfaceFormat(t *testing.T) {
	f, srgb := pickSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb})
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, f)
	assert.True(t, srgb)

	f, srgb = pickSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA8Unorm})
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, f)
	assert.False(t, srgb)
}

func TestPipelineFor(t *testing.T) {
	assert.Equal(t, pipelinePhong, pipelineFor(material.NewMaterial()))
	assert.Equal(t, pipelinePhongDoubleSided, pipelineFor(material.NewMaterial(material.WithDoubleSided(true))))
	assert.Equal(t, pipelinePhongBlend, pipelineFor(material.NewMaterial(material.WithOpacity(0.3), material.WithDoubleSided(true))))
}

func TestShaderSourceIncludesSharedStructs(t *testing.T) {
	src := shaderSource(phongSource)
	for _, want := range []string{"struct CameraUniform", "struct LightUniform", "struct ObjectUniform", "fn fs_main"} {
		assert.Contains(t, src, want)
	}
}
