package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(options ...RendererBuilderOption) (Renderer, *HeadlessBackend) {
	backend := NewHeadlessBackend()
	return NewRenderer(backend, options...), backend
}

func TestNewRendererRequiresBackend(t *testing.T) {
	assert.PanicsWithValue(t, ErrNoBackend, func() { NewRenderer(nil) })
}

func TestSurfaceSizeFollowsPixelRatio(t *testing.T) {
	r, backend := newTestRenderer(WithSize(800, 600))
	assert.Equal(t, BackendTypeHeadless, r.BackendType())

	w, h := r.SurfaceSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	r.SetPixelRatio(1.5)
	r.SetSize(1001, 333)
	w, h = r.SurfaceSize()
	assert.Equal(t, 1501, w)
	assert.Equal(t, 499, h)
	bw, bh := backend.SurfaceSize()
	assert.Equal(t, 1501, bw)
	assert.Equal(t, 499, bh)

	configures := backend.Configures()
	r.SetSize(1001, 333)
	assert.Equal(t, configures, backend.Configures())

	r.SetPixelRatio(0)
	assert.Equal(t, float32(1), r.PixelRatio())
}

func TestRenderEmptyScene(t *testing.T) {
	r, backend := newTestRenderer(WithSize(640, 480), WithPixelRatio(2))
	s := scene.NewScene("viewer")
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController()))

	for range 3 {
		require.NoError(t, r.Render(s, cam))
	}

	assert.Equal(t, uint64(3), r.Frames())
	frame, ok := backend.LastFrame()
	require.True(t, ok)
	assert.Equal(t, uint64(2), frame.Index)
	assert.Equal(t, 1280, frame.Width)
	assert.Equal(t, 960, frame.Height)
	assert.Equal(t, s.Background(), frame.ClearColor)
	assert.True(t, frame.Fog.Enabled)
	require.Len(t, frame.Draws, 1)
	assert.Same(t, s.Ground(), frame.Draws[0].Node)
	assert.True(t, frame.Draws[0].ReceiveShadow)
	assert.Empty(t, frame.Casters())
	assert.Equal(t, 1024, frame.ShadowMapSize)
	assert.Equal(t, float32(1), frame.Lights.ShadowEnabled)
	assert.Len(t, frame.Grid, 8)
}

func TestRenderUsesFallbackMaterial(t *testing.T) {
	fallback := material.NewMaterial(material.WithName("fallback"))
	r, backend := newTestRenderer(WithSize(10, 10), WithDefaultMaterial(fallback))
	s := scene.NewScene("viewer", scene.WithGridVisible(false))
	part := scene.NewNode("part", scene.WithGeometry(scene.NewPlaneGeometry(1, 1)))
	part.CastShadow = true
	require.NoError(t, s.Attach(scene.NewNode("asset", scene.WithChildren(part))))

	require.NoError(t, r.Render(s, camera.NewCamera()))

	frame, _ := backend.LastFrame()
	require.Len(t, frame.Draws, 2)
	assert.Same(t, fallback, frame.Draws[1].Material)
	assert.Len(t, frame.Casters(), 1)
	assert.Empty(t, frame.Grid)
}

func TestRenderSkipsEmptySurface(t *testing.T) {
	r, backend := newTestRenderer()
	require.NoError(t, r.Render(scene.NewScene("viewer"), camera.NewCamera()))
	assert.Zero(t, backend.Frames())
	assert.Zero(t, backend.Configures())
}

func TestRenderBackendError(t *testing.T) {
	r, backend := newTestRenderer(WithSize(10, 10))
	boom := errors.New("device lost")
	backend.FailWith(boom)

	err := r.Render(scene.NewScene("viewer"), camera.NewCamera())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, r.Frames())

	r.Release()
	assert.True(t, backend.Released())
}

func TestPresentModeReconfigures(t *testing.T) {
	r, backend := newTestRenderer(WithSize(10, 10), WithPresentMode(PresentModeUncapped))
	assert.Equal(t, PresentModeUncapped, backend.PresentMode())

	r.SetPresentMode(PresentModeVSync)
	assert.Equal(t, PresentModeVSync, backend.PresentMode())
	assert.Equal(t, 2, backend.Configures())
}
