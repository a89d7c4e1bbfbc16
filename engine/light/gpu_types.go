package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULightUniformSource is the canonical WGSL definition of the LightUniform struct.
// Matches GPULightUniform layout exactly (160 bytes, std140 aligned).
//
//go:embed assets/light_uniform.wgsl
var GPULightUniformSource string

// GPULightUniform is the GPU-aligned representation of the scene's hemisphere and directional lights.
// Colors are linear RGB. Size: 160 bytes.
type GPULightUniform struct {
	SkyColor       [3]float32  // offset   0
	HemiIntensity  float32     // offset  12
	GroundColor    [3]float32  // offset  16
	_pad0          float32     // offset  28
	HemiDirection  [3]float32  // offset  32
	_pad1          float32     // offset  44
	DirColor       [3]float32  // offset  48
	DirIntensity   float32     // offset  60
	DirDirection   [3]float32  // offset  64
	ShadowEnabled  float32     // offset  76: 1 when the shadow map is sampled
	ShadowViewProj [16]float32 // offset  80
	ShadowParams   [4]float32  // offset 144: bias, texel size, unused, unused
}

// NewGPULightUniform packs a hemisphere light and a directional light into the uniform layout.
// Either light may be nil, in which case its contribution is zero.
//
// Parameters:
//   - hemisphere: the ambient sky/ground light
//   - directional: the key light
//   - shadows: whether the renderer has a shadow map for the directional light this frame
//
// Returns:
//   - GPULightUniform: the packed uniform
func NewGPULightUniform(hemisphere, directional Light, shadows bool) GPULightUniform {
	var u GPULightUniform
	if hemisphere != nil {
		u.SkyColor = hemisphere.Color().Linear()
		u.GroundColor = hemisphere.GroundColor().Linear()
		u.HemiDirection = hemisphere.Direction()
		u.HemiIntensity = hemisphere.Intensity()
	}
	if directional != nil {
		u.DirColor = directional.Color().Linear()
		u.DirIntensity = directional.Intensity()
		u.DirDirection = directional.Direction()
		if shadows && directional.CastsShadows() {
			s := directional.Shadow()
			u.ShadowEnabled = 1
			u.ShadowViewProj = directional.ShadowViewProjection()
			u.ShadowParams = [4]float32{s.Bias, s.TexelSize(), 0, 0}
		}
	}
	return u
}

// Size returns the size of the GPULightUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (160)
func (g *GPULightUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULightUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 160-byte buffer ready for GPU upload
func (g *GPULightUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	putVec := func(offset int, v []float32) {
		for i, f := range v {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(f))
		}
	}
	putVec(0, g.SkyColor[:])
	putVec(12, []float32{g.HemiIntensity})
	putVec(16, g.GroundColor[:])
	putVec(32, g.HemiDirection[:])
	putVec(48, g.DirColor[:])
	putVec(60, []float32{g.DirIntensity})
	putVec(64, g.DirDirection[:])
	putVec(76, []float32{g.ShadowEnabled})
	putVec(80, g.ShadowViewProj[:])
	putVec(144, g.ShadowParams[:])
	return buf
}
