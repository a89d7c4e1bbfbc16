package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/engine/logger"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// gltfLoaderBackendImpl is the loaderBackend implementation for glTF/GLB files.
// Decoding is delegated to github.com/qmuntal/gltf; each call converts one document with a fresh
// gltfConverter.
type gltfLoaderBackendImpl struct {
	logger logger.Logger
}

var _ loaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Parameters:
//   - log: sink for non-fatal conversion warnings
//
// Returns:
//   - loaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend(log logger.Logger) loaderBackend {
	return &gltfLoaderBackendImpl{logger: logger.OrNop(log)}
}

func (b *gltfLoaderBackendImpl) Supports(path string) bool {
	return hasExtension(path, ".gltf", ".glb")
}

func (b *gltfLoaderBackendImpl) Decode(path string) (*scene.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode gltf: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return newGLTFConverter(doc, filepath.Dir(path), b.logger).Convert(name)
}

func (b *gltfLoaderBackendImpl) DecodeReader(name string, r io.Reader) (*scene.Node, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode gltf: %w", err)
	}
	return newGLTFConverter(doc, "", b.logger).Convert(name)
}

// gltfPrimitive is one drawable primitive of a glTF mesh.
type gltfPrimitive struct {
	geometry *scene.Geometry
	material material.Material
}

// gltfConverter turns a decoded glTF document into a scene node tree. Meshes and materials are
// converted once per document and shared by every node that references them.
type gltfConverter struct {
	doc    *gltf.Document
	dir    string
	logger logger.Logger

	meshes    map[int][]gltfPrimitive
	materials map[int]material.Material
	fallback  material.Material
}

func newGLTFConverter(doc *gltf.Document, dir string, log logger.Logger) *gltfConverter {
	return &gltfConverter{
		doc:       doc,
		dir:       dir,
		logger:    logger.OrNop(log),
		meshes:    make(map[int][]gltfPrimitive),
		materials: make(map[int]material.Material),
		fallback:  material.NewMaterial(material.WithName("default")),
	}
}

// Convert builds the asset root for the document's default scene.
//
// Parameters:
//   - name: name given to the asset root
//
// Returns:
//   - *scene.Node: the asset root holding the scene's root nodes as children
//   - error: error if the hierarchy or a mesh is malformed
func (c *gltfConverter) Convert(name string) (*scene.Node, error) {
	root := scene.NewNode(name)
	visiting := make(map[int]bool)
	for _, idx := range c.sceneRoots() {
		child, err := c.convertNode(idx, visiting)
		if err != nil {
			return nil, err
		}
		root.Add(child)
	}
	return root, nil
}

// sceneRoots returns the root node indices of the default scene. Documents without scenes fall back
// to every node that is nobody's child.
func (c *gltfConverter) sceneRoots() []int {
	if len(c.doc.Scenes) > 0 {
		i := 0
		if c.doc.Scene != nil && *c.doc.Scene >= 0 && *c.doc.Scene < len(c.doc.Scenes) {
			i = *c.doc.Scene
		}
		if s := c.doc.Scenes[i]; s != nil {
			return s.Nodes
		}
		return nil
	}

	isChild := make(map[int]bool)
	for _, n := range c.doc.Nodes {
		if n == nil {
			continue
		}
		for _, ci := range n.Children {
			isChild[ci] = true
		}
	}
	var roots []int
	for i := range c.doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (c *gltfConverter) convertNode(idx int, visiting map[int]bool) (*scene.Node, error) {
	if idx < 0 || idx >= len(c.doc.Nodes) || c.doc.Nodes[idx] == nil {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if visiting[idx] {
		return nil, fmt.Errorf("node %d: cyclic hierarchy", idx)
	}
	visiting[idx] = true
	defer delete(visiting, idx)

	gn := c.doc.Nodes[idx]
	name := gn.Name
	if name == "" && gn.Mesh != nil && *gn.Mesh >= 0 && *gn.Mesh < len(c.doc.Meshes) && c.doc.Meshes[*gn.Mesh] != nil {
		name = c.doc.Meshes[*gn.Mesh].Name
	}

	n := scene.NewNode(name)
	applyGLTFTransform(n, gn)

	if gn.Mesh != nil {
		prims, err := c.mesh(*gn.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		switch len(prims) {
		case 0:
		case 1:
			n.Geometry = prims[0].geometry
			n.Material = prims[0].material
		default:
			for i, p := range prims {
				n.Add(scene.NewNode(fmt.Sprintf("%s_%d", name, i),
					scene.WithGeometry(p.geometry),
					scene.WithMaterial(p.material),
				))
			}
		}
	}

	for _, ci := range gn.Children {
		child, err := c.convertNode(ci, visiting)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// applyGLTFTransform copies a glTF node transform onto n. A node matrix takes precedence over TRS.
func applyGLTFTransform(n *scene.Node, gn *gltf.Node) {
	if m := gn.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var mat mgl32.Mat4
		for i := range m {
			mat[i] = float32(m[i])
		}
		n.Position, n.Rotation, n.Scale = decomposeMatrix(mat)
		return
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	s := gn.ScaleOrDefault()
	n.Position = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
	n.Rotation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}.Normalize()
	n.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
}

// decomposeMatrix splits an affine column-major matrix without shear into translation, rotation and
// scale.
func decomposeMatrix(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	translation := mgl32.Vec3{m[12], m[13], m[14]}
	scale := mgl32.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}

	var rot mgl32.Mat4
	for c := 0; c < 3; c++ {
		col := m.Col(c).Vec3()
		if scale[c] != 0 {
			col = col.Mul(1 / scale[c])
		}
		rot.SetCol(c, col.Vec4(0))
	}
	rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	return translation, mgl32.Mat4ToQuat(rot).Normalize(), scale
}
