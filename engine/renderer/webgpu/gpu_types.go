package webgpu

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// gpuSceneUniform carries per-frame fog and output encoding. Size: 32 bytes.
type gpuSceneUniform struct {
	FogColor   [3]float32 // offset  0: linear rgb
	FogEnabled float32    // offset 12
	FogNear    float32    // offset 16
	FogFar     float32    // offset 20
	EncodeSRGB float32    // offset 24: 1 when the surface format is not sRGB
	_pad       float32    // offset 28
}

func newGPUSceneUniform(fog scene.Fog, encodeSRGB bool) gpuSceneUniform {
	u := gpuSceneUniform{
		FogColor: fog.Color.Linear(),
		FogNear:  fog.Near,
		FogFar:   fog.Far,
	}
	if fog.Enabled && fog.Far > fog.Near {
		u.FogEnabled = 1
	}
	if encodeSRGB {
		u.EncodeSRGB = 1
	}
	return u
}

func (g *gpuSceneUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

func (g *gpuSceneUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	putFloats(buf, 0, g.FogColor[:]...)
	putFloats(buf, 12, g.FogEnabled, g.FogNear, g.FogFar, g.EncodeSRGB)
	return buf
}

// gpuMaterialUniform is the Phong surface description. Size: 32 bytes.
type gpuMaterialUniform struct {
	Color      [4]float32 // offset  0: linear rgb, opacity
	Shininess  float32    // offset 16
	HasTexture float32    // offset 20
	_pad       [2]float32 // offset 24
}

func newGPUMaterialUniform(m material.Material, textured bool) gpuMaterialUniform {
	c := m.Color().Linear()
	u := gpuMaterialUniform{
		Color:     [4]float32{c[0], c[1], c[2], m.Opacity()},
		Shininess: m.Shininess(),
	}
	if textured {
		u.HasTexture = 1
	}
	return u
}

func (g *gpuMaterialUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

func (g *gpuMaterialUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	putFloats(buf, 0, g.Color[:]...)
	putFloats(buf, 16, g.Shininess, g.HasTexture)
	return buf
}

// gpuObjectUniform holds one node's transforms. Size: 144 bytes.
type gpuObjectUniform struct {
	Model  [16]float32 // offset   0
	Normal [16]float32 // offset  64
	Flags  [4]float32  // offset 128: x = receives shadows
}

func newGPUObjectUniform(model, normal mgl32.Mat4, receiveShadow bool) gpuObjectUniform {
	u := gpuObjectUniform{Model: model, Normal: normal}
	if receiveShadow {
		u.Flags[0] = 1
	}
	return u
}

func (g *gpuObjectUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

func (g *gpuObjectUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	putFloats(buf, 0, g.Model[:]...)
	putFloats(buf, 64, g.Normal[:]...)
	putFloats(buf, 128, g.Flags[:]...)
	return buf
}

// lineVertexStride is position(3) + linear color(3).
const lineVertexStride = 6 * 4

// packLines converts grid vertices to the line pipeline's vertex layout.
func packLines(lines []scene.LineVertex) []float32 {
	out := make([]float32, 0, len(lines)*6)
	for _, v := range lines {
		c := v.Color.Linear()
		out = append(out, v.Position[0], v.Position[1], v.Position[2], c[0], c[1], c[2])
	}
	return out
}

// clearValue returns the clear color in the space the surface expects.
func clearValue(c common.Color, srgbSurface bool) [3]float64 {
	v := c.RGB()
	if srgbSurface {
		v = c.Linear()
	}
	return [3]float64{float64(v[0]), float64(v[1]), float64(v[2])}
}

func putFloats(buf []byte, offset int, values ...float32) {
	for i, f := range values {
		binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(f))
	}
}
