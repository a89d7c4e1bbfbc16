package loader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/logger"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chairDocument builds a small chair-like document: a "chair" group holding a back, a frame that shares
// the back's mesh, and legs made of two primitives.
func chairDocument() *gltf.Document {
	doc := gltf.NewDocument()
	tri := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	quad := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, -1}, {0, 0, 0}, {1, 0, -1}, {0, 0, -1}})

	doc.Materials = []*gltf.Material{{
		Name: "fabric",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
			RoughnessFactor: gltf.Float(0.5),
		},
	}}
	doc.Meshes = []*gltf.Mesh{
		{Name: "panel", Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: tri},
			Material:   gltf.Index(0),
		}}},
		{Name: "legs", Primitives: []*gltf.Primitive{
			{Attributes: map[string]int{gltf.POSITION: tri}},
			{Attributes: map[string]int{gltf.POSITION: quad}},
		}},
	}
	doc.Nodes = []*gltf.Node{
		{Name: "chair", Children: []int{1, 2, 3}},
		{Name: "chair_back_01", Mesh: gltf.Index(0)},
		{Name: "frame", Mesh: gltf.Index(0), Translation: [3]float64{0, 1, 0}},
		{Name: "legs", Mesh: gltf.Index(1), Scale: [3]float64{2, 2, 2}},
	}
	doc.Scenes = []*gltf.Scene{{Name: "Scene", Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)
	return doc
}

func writeGLB(t *testing.T, doc *gltf.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chair.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func receive(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case res, ok := <-ch:
		require.True(t, ok, "channel closed without a result")
		_, more := <-ch
		assert.False(t, more, "channel delivered more than one result")
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for load result")
		return Result{}
	}
}

func TestLoadGLB(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoader(WithLogger(logger.NewLogger("loader", &out, &errOut, false)))
	defer l.Close()

	path := writeGLB(t, chairDocument())
	res := receive(t, l.Load(context.Background(), path))

	require.NoError(t, res.Err)
	require.True(t, res.Loaded())
	assert.Equal(t, path, res.Path)
	assert.Equal(t, "chair", res.Root.Name)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, res.Root.Scale)

	back := res.Root.Find("chair_back_01")
	frame := res.Root.Find("frame")
	require.NotNil(t, back)
	require.NotNil(t, frame)
	assert.True(t, back.HasGeometry())
	assert.Same(t, back.Geometry, frame.Geometry)
	assert.Same(t, back.Material, frame.Material)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, frame.Position)
	assert.EqualValues(t, 0xff0000, back.Material.Color())
	assert.InDelta(t, 30, back.Material.Shininess(), 1e-3)
	assert.Equal(t, 3, back.Geometry.VertexCount())
	assert.False(t, back.CastShadow)

	legs := res.Root.Find("legs")
	require.NotNil(t, legs)
	assert.False(t, legs.HasGeometry())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, legs.Scale)
	require.Len(t, legs.Children(), 2)
	assert.Equal(t, "legs_0", legs.Children()[0].Name)
	assert.Equal(t, "legs_1", legs.Children()[1].Name)
	assert.Equal(t, 2, legs.Children()[1].Geometry.TriangleCount())
	assert.Equal(t, float32(30), legs.Children()[0].Material.Shininess())

	assert.Equal(t, 4, res.Root.MeshCount())
	assert.Contains(t, out.String(), "loaded "+path)
	assert.Empty(t, errOut.String())
}

func TestLoadReader(t *testing.T) {
	path := writeGLB(t, chairDocument())
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	l := NewLoader()
	defer l.Close()

	res := receive(t, l.LoadReader(context.Background(), "streamed", f))
	require.NoError(t, res.Err)
	assert.Equal(t, "streamed", res.Root.Name)
	assert.NotNil(t, res.Root.Find("chair_back_01"))
}

func TestLoadDecodeFailure(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoader(WithLogger(logger.NewLogger("loader", &out, &errOut, false)))
	defer l.Close()

	path := filepath.Join(t.TempDir(), "broken.glb")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a model"), 0o644))

	res := receive(t, l.Load(context.Background(), path))

	assert.False(t, res.Loaded())
	assert.Nil(t, res.Root)
	assert.ErrorIs(t, res.Err, ErrLoadFailure)
	var loadErr *LoadError
	require.ErrorAs(t, res.Err, &loadErr)
	assert.Equal(t, path, loadErr.Path)
	assert.Contains(t, errOut.String(), "failed to load "+path)
}

func TestLoadMissingFile(t *testing.T) {
	l := NewLoader()
	defer l.Close()

	res := receive(t, l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.gltf")))
	assert.ErrorIs(t, res.Err, ErrLoadFailure)
	assert.ErrorIs(t, res.Err, os.ErrNotExist)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	l := NewLoader()
	defer l.Close()

	res := receive(t, l.Load(context.Background(), "chair.obj"))
	assert.ErrorIs(t, res.Err, ErrLoadFailure)
	assert.ErrorIs(t, res.Err, ErrUnsupportedFormat)
}

func TestBackendSelection(t *testing.T) {
	l := NewLoader().(*loader)
	defer l.Close()

	cases := map[string]bool{
		"chair.glb":         true,
		"CHAIR.GLB":         true,
		"models/chair.gltf": true,
		"chair.obj":         false,
		"chair":             false,
	}
	for path, supported := range cases {
		assert.Equal(t, supported, l.backends[BackendTypeGLTF].Supports(path), path)
		assert.Equal(t, supported, l.backendFor(path) != nil, path)
	}

	res := receive(t, l.Load(context.Background(), filepath.Join(t.TempDir(), "CHAIR.GLB")))
	assert.ErrorIs(t, res.Err, os.ErrNotExist)
	assert.NotErrorIs(t, res.Err, ErrUnsupportedFormat)
}

func TestLoadCancelled(t *testing.T) {
	l := NewLoader()
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := receive(t, l.Load(ctx, writeGLB(t, chairDocument())))
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.ErrorIs(t, res.Err, ErrLoadFailure)
	assert.Nil(t, res.Root)
}

func TestLoadAfterClose(t *testing.T) {
	l := NewLoader()
	l.Close()
	l.Close()

	res := receive(t, l.Load(context.Background(), "chair.glb"))
	assert.ErrorIs(t, res.Err, ErrLoaderClosed)
}

func TestConvertRejectsCycles(t *testing.T) {
	doc := &gltf.Document{Nodes: []*gltf.Node{
		{Name: "a", Children: []int{1}},
		{Name: "b", Children: []int{0}},
	}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}

	_, err := newGLTFConverter(doc, "", nil).Convert("cyclic")
	assert.ErrorContains(t, err, "cyclic")
}

func TestConvertWithoutScenesUsesUnparentedNodes(t *testing.T) {
	doc := &gltf.Document{Nodes: []*gltf.Node{
		{Name: "child"},
		{Name: "parent", Children: []int{0}},
		{Name: "lonely"},
	}}

	root, err := newGLTFConverter(doc, "", nil).Convert("asset")
	require.NoError(t, err)
	require.Len(t, root.Children(), 2)
	assert.Equal(t, "parent", root.Children()[0].Name)
	assert.Equal(t, "lonely", root.Children()[1].Name)
	assert.Zero(t, root.MeshCount())
}

func TestApplyMatrixTransform(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(90))).Mul4(mgl32.Scale3D(2, 2, 2))
	gn := &gltf.Node{}
	for i := range m {
		gn.Matrix[i] = float64(m[i])
	}

	n := scene.NewNode("n")
	applyGLTFTransform(n, gn)

	assert.InDeltaSlice(t, []float32{1, 2, 3}, n.Position[:], 1e-5)
	assert.InDeltaSlice(t, []float32{2, 2, 2}, n.Scale[:], 1e-5)
	local := n.LocalMatrix()
	assert.InDeltaSlice(t, m[:], local[:], 1e-5)
}

func TestShininessFromRoughness(t *testing.T) {
	assert.Equal(t, float32(maxShininess), shininessFromRoughness(0))
	assert.InDelta(t, 30, shininessFromRoughness(0.5), 1e-4)
	assert.Equal(t, float32(0), shininessFromRoughness(1))
}
