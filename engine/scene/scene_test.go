package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSceneDefaults(t *testing.T) {
	s := NewScene("viewer")

	assert.EqualValues(t, 0xf1f1f1, s.Background())
	fog := s.Fog()
	assert.True(t, fog.Enabled)
	assert.Equal(t, s.Background(), fog.Color)
	assert.Equal(t, float32(20), fog.Near)
	assert.Equal(t, float32(100), fog.Far)

	ground := s.Ground()
	require.True(t, ground.HasGeometry())
	assert.True(t, ground.ReceiveShadow)
	assert.EqualValues(t, 0xff0000, ground.Material.Color())
	assert.Equal(t, float32(0), ground.Material.Shininess())
	assert.Equal(t, float32(-1), ground.Position.Y())
	up := ground.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
	assert.InDeltaSlice(t, []float32{0, 1, 0}, up[:], 1e-5)

	hemi := s.Hemisphere()
	assert.Equal(t, light.LightTypeHemisphere, hemi.Type())
	assert.EqualValues(t, 0xffffbb, hemi.Color())
	assert.EqualValues(t, 0x080820, hemi.GroundColor())
	assert.Equal(t, mgl32.Vec3{0, 50, 0}, hemi.Position())

	dir := s.Directional()
	assert.Equal(t, light.LightTypeDirectional, dir.Type())
	assert.EqualValues(t, 0x00ffff, dir.Color())
	assert.Equal(t, float32(0.54), dir.Intensity())
	assert.Equal(t, mgl32.Vec3{-8, 12, 8}, dir.Position())
	assert.True(t, dir.CastsShadows())
	assert.Equal(t, 1024, dir.Shadow().MapSize)

	grid, visible := s.Grid()
	assert.True(t, visible)
	assert.Equal(t, float32(10), grid.Size)
	assert.Equal(t, 1, grid.Divisions)

	assert.Len(t, s.Lights(), 2)
	assert.False(t, s.HasAsset())
	assert.Equal(t, 1, s.MeshCount())
}

func TestSceneOptions(t *testing.T) {
	s := NewScene("custom",
		WithBackground(0x202020),
		WithFog(5, 50),
		WithGround(10, 20, 0x00ff00, 4, -2),
		WithGridVisible(false),
	)

	assert.EqualValues(t, 0x202020, s.Fog().Color)
	assert.Equal(t, float32(50), s.Fog().Far)
	assert.EqualValues(t, 0x00ff00, s.Ground().Material.Color())
	assert.Equal(t, float32(-2), s.Ground().Position.Y())
	_, visible := s.Grid()
	assert.False(t, visible)

	assert.False(t, NewScene("nofog", WithoutFog()).Fog().Enabled)
	assert.False(t, NewScene("badfog", WithFog(10, 10)).Fog().Enabled)
}

func TestFogFactor(t *testing.T) {
	f := Fog{Enabled: true, Near: 20, Far: 100}
	assert.Equal(t, float32(0), f.Factor(10))
	assert.InDelta(t, 0.5, f.Factor(60), 1e-6)
	assert.Equal(t, float32(1), f.Factor(500))
	assert.Equal(t, float32(0), Fog{Near: 20, Far: 100}.Factor(60))
}

func TestAttachAppliesPlacementOnce(t *testing.T) {
	s := NewScene("viewer")
	asset := NewNode("chair", WithChildren(mesh("back")))

	require.NoError(t, s.Attach(asset))
	assert.Same(t, asset, s.Asset())
	assert.Same(t, s.Root(), asset.Parent())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, asset.Scale)
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, asset.Position)
	forward := asset.Rotation.Rotate(mgl32.Vec3{0, 0, 1})
	assert.InDeltaSlice(t, []float32{0, 0, -1}, forward[:], 1e-5)

	assert.ErrorIs(t, s.Attach(NewNode("second")), ErrAssetAttached)
	assert.ErrorIs(t, NewScene("x").Attach(nil), ErrNilAsset)
	assert.Same(t, asset, s.Asset())
	assert.Equal(t, 2, s.MeshCount())
}

func TestWalkSkipsHidden(t *testing.T) {
	s := NewScene("viewer")
	asset := NewNode("chair", WithChildren(mesh("back"), mesh("legs")))
	asset.Children()[1].Hidden = true
	require.NoError(t, s.Attach(asset))

	var names []string
	s.Walk(func(n *Node, _ mgl32.Mat4) {
		names = append(names, n.Name)
	})
	assert.Equal(t, []string{"viewer", "ground", "chair", "back"}, names)
}

func TestGridLines(t *testing.T) {
	odd := Grid{Size: 10, Divisions: 1, CenterColor: DefaultGridCenterColor, LineColor: DefaultGridLineColor}.Lines()
	require.Len(t, odd, 8)
	for _, v := range odd {
		assert.Equal(t, DefaultGridLineColor, v.Color)
	}
	assert.Equal(t, mgl32.Vec3{-5, 0, -5}, odd[0].Position)

	even := Grid{Size: 10, Divisions: 2, CenterColor: DefaultGridCenterColor, LineColor: DefaultGridLineColor}.Lines()
	require.Len(t, even, 12)
	assert.Equal(t, DefaultGridCenterColor, even[4].Color)
	assert.Equal(t, mgl32.Vec3{-5, 0, 0}, even[4].Position)
}
