package loader

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// maxShininess caps the Phong exponent derived from a near-zero roughness.
const maxShininess = 1000

// shininessFromRoughness maps a metallic-roughness roughness to a Blinn-Phong exponent with the usual
// GGX correspondence: alpha = roughness², shininess = 2/alpha² - 2.
func shininessFromRoughness(roughness float64) float32 {
	alpha := roughness * roughness
	if alpha < 1e-3 {
		return maxShininess
	}
	s := 2/(alpha*alpha) - 2
	return float32(math.Max(0, math.Min(maxShininess, s)))
}

// material converts the glTF material at *idx, or returns the shared default material when the
// primitive has none. Converted materials are cached so primitives referencing the same glTF material
// share one material.Material.
func (c *gltfConverter) material(idx *int) material.Material {
	if idx == nil {
		return c.fallback
	}
	if m, ok := c.materials[*idx]; ok {
		return m
	}
	if *idx < 0 || *idx >= len(c.doc.Materials) || c.doc.Materials[*idx] == nil {
		c.logger.Warnf("material index %d out of range, using default", *idx)
		return c.fallback
	}

	gm := c.doc.Materials[*idx]
	opts := []material.MaterialBuilderOption{
		material.WithName(gm.Name),
		material.WithDoubleSided(gm.DoubleSided),
		material.WithShininess(shininessFromRoughness(1)),
	}
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		f := pbr.BaseColorFactorOrDefault()
		opts = append(opts,
			material.WithColor(common.ColorFromLinear(float32(f[0]), float32(f[1]), float32(f[2]))),
			material.WithShininess(shininessFromRoughness(pbr.RoughnessFactorOrDefault())),
		)
		if gm.AlphaMode == gltf.AlphaBlend {
			opts = append(opts, material.WithOpacity(float32(f[3])))
		}
		if pbr.BaseColorTexture != nil {
			tex, err := c.texture(pbr.BaseColorTexture.Index)
			if err != nil {
				c.logger.Warnf("material %q: base color texture: %v", gm.Name, err)
			} else {
				opts = append(opts, material.WithBaseTexture(tex))
			}
		}
	}

	m := material.NewMaterial(opts...)
	c.materials[*idx] = m
	return m
}

// texture reads the encoded image behind a glTF texture from a buffer view, a data URI or a file next
// to the model.
func (c *gltfConverter) texture(idx int) (*common.Texture, error) {
	if idx < 0 || idx >= len(c.doc.Textures) || c.doc.Textures[idx] == nil {
		return nil, fmt.Errorf("texture index %d out of range", idx)
	}
	t := c.doc.Textures[idx]
	if t.Source == nil || *t.Source < 0 || *t.Source >= len(c.doc.Images) || c.doc.Images[*t.Source] == nil {
		return nil, fmt.Errorf("texture %d has no image", idx)
	}
	img := c.doc.Images[*t.Source]

	var data []byte
	var err error
	switch {
	case img.BufferView != nil:
		if *img.BufferView < 0 || *img.BufferView >= len(c.doc.BufferViews) {
			return nil, fmt.Errorf("image %q: buffer view %d out of range", img.Name, *img.BufferView)
		}
		data, err = modeler.ReadBufferView(c.doc, c.doc.BufferViews[*img.BufferView])
	case img.IsEmbeddedResource():
		data, err = img.MarshalData()
	case img.URI != "":
		if c.dir == "" {
			return nil, fmt.Errorf("image %q: external uri without a base directory", img.Name)
		}
		var uri string
		uri, err = url.PathUnescape(img.URI)
		if err == nil {
			data, err = os.ReadFile(filepath.Join(c.dir, filepath.FromSlash(uri)))
		}
	default:
		return nil, fmt.Errorf("image %q has no data", img.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("image %q: %w", img.Name, err)
	}

	tex := &common.Texture{Name: img.Name, Data: data, MimeType: img.MimeType}
	if t.Sampler != nil && *t.Sampler >= 0 && *t.Sampler < len(c.doc.Samplers) && c.doc.Samplers[*t.Sampler] != nil {
		s := c.doc.Samplers[*t.Sampler]
		tex.Sampler = &common.SamplerStagingData{
			WrapU:   wrapMode(s.WrapS),
			WrapV:   wrapMode(s.WrapT),
			Nearest: s.MagFilter == gltf.MagNearest,
		}
	}
	return tex, nil
}

func wrapMode(m gltf.WrappingMode) common.WrapMode {
	switch m {
	case gltf.WrapClampToEdge:
		return common.WrapClampToEdge
	case gltf.WrapMirroredRepeat:
		return common.WrapMirroredRepeat
	default:
		return common.WrapRepeat
	}
}
