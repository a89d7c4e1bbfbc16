package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// mesh converts a glTF mesh into its drawable primitives. Non-triangle primitives are skipped with a
// warning.
//
// Parameters:
//   - idx: the mesh index in the document
//
// Returns:
//   - []gltfPrimitive: the converted primitives, shared by every node referencing the mesh
//   - error: error if an accessor is missing or malformed
func (c *gltfConverter) mesh(idx int) ([]gltfPrimitive, error) {
	if prims, ok := c.meshes[idx]; ok {
		return prims, nil
	}
	if idx < 0 || idx >= len(c.doc.Meshes) || c.doc.Meshes[idx] == nil {
		return nil, fmt.Errorf("mesh index %d out of range", idx)
	}

	m := c.doc.Meshes[idx]
	prims := make([]gltfPrimitive, 0, len(m.Primitives))
	for i, p := range m.Primitives {
		if p == nil {
			continue
		}
		if p.Mode != gltf.PrimitiveTriangles {
			c.logger.Warnf("mesh %q primitive %d: unsupported mode %v, skipped", m.Name, i, p.Mode)
			continue
		}
		g, err := c.geometry(p)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
		}
		prims = append(prims, gltfPrimitive{geometry: g, material: c.material(p.Material)})
	}
	c.meshes[idx] = prims
	return prims, nil
}

// geometry reads the position, normal, texture coordinate and index accessors of a primitive.
func (c *gltfConverter) geometry(p *gltf.Primitive) (*scene.Geometry, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, scene.ErrNoGeometry
	}
	acc, err := c.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	rawPositions, err := modeler.ReadPosition(c.doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var normals []mgl32.Vec3
	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		acc, err := c.accessor(idx)
		if err != nil {
			return nil, err
		}
		raw, err := modeler.ReadNormal(c.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
		normals = toVec3(raw)
	}

	var uvs []mgl32.Vec2
	if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		acc, err := c.accessor(idx)
		if err != nil {
			return nil, err
		}
		raw, err := modeler.ReadTextureCoord(c.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("read texture coordinates: %w", err)
		}
		uvs = make([]mgl32.Vec2, len(raw))
		for i, v := range raw {
			uvs[i] = mgl32.Vec2(v)
		}
	}

	var indices []uint32
	if p.Indices != nil {
		acc, err := c.accessor(*p.Indices)
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(c.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	}

	return scene.NewGeometry(toVec3(rawPositions), normals, uvs, indices)
}

func (c *gltfConverter) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(c.doc.Accessors) || c.doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor index %d out of range", idx)
	}
	return c.doc.Accessors[idx], nil
}

func toVec3(raw [][3]float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(raw))
	for i, v := range raw {
		out[i] = mgl32.Vec3(v)
	}
	return out
}
