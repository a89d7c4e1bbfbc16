package viewport

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyUpdatesRendererAndCamera(t *testing.T) {
	backend := renderer.NewHeadlessBackend()
	r := renderer.NewRenderer(backend, renderer.WithSize(800, 600))
	cam := camera.NewCamera()
	cam.ProjectionMatrix()
	require.False(t, cam.ProjectionStale())

	m := NewMonitor(r, cam)
	m.Notify(1366, 768, 1.25)

	assert.Equal(t, float32(1366)/float32(768), cam.Aspect())
	assert.True(t, cam.ProjectionStale())
	assert.Equal(t, float32(1.25), r.PixelRatio())
	w, h := r.SurfaceSize()
	assert.Equal(t, 1707, w)
	assert.Equal(t, 960, h)
	bw, bh := backend.SurfaceSize()
	assert.Equal(t, w, bw)
	assert.Equal(t, h, bh)

	sw, sh := m.State().SurfaceSize()
	assert.Equal(t, w, sw)
	assert.Equal(t, h, sh)
	assert.Equal(t, uint64(1), m.Changes())
}

func TestNotifyEveryResizeIsApplied(t *testing.T) {
	r := renderer.NewRenderer(renderer.NewHeadlessBackend())
	cam := camera.NewCamera()
	m := NewMonitor(r, cam)

	sizes := [][2]int{{1024, 768}, {300, 900}, {1920, 1080}}
	for _, size := range sizes {
		m.Notify(size[0], size[1], 2)
		assert.Equal(t, float32(size[0])/float32(size[1]), cam.Aspect())
		w, h := r.SurfaceSize()
		assert.Equal(t, size[0]*2, w)
		assert.Equal(t, size[1]*2, h)
	}
}

func TestNotifyMinimized(t *testing.T) {
	r := renderer.NewRenderer(renderer.NewHeadlessBackend())
	cam := camera.NewCamera(camera.WithAspect(1.5))
	m := NewMonitor(r, cam)

	m.Notify(0, 0, 0)

	assert.Equal(t, float32(1.5), cam.Aspect())
	assert.Equal(t, State{PixelRatio: 1}, m.State())
	assert.Zero(t, m.State().Aspect())
}

func TestNewMonitorRequiresCollaborators(t *testing.T) {
	assert.Panics(t, func() { NewMonitor(nil, camera.NewCamera()) })
}

func TestNotifyFractionalScaleKeepsFramebufferSize(t *testing.T) {
	backend := renderer.NewHeadlessBackend()
	r := renderer.NewRenderer(backend)
	m := NewMonitor(r, camera.NewCamera())

	// a 1517x853 window on a 1.5x display has a 2275x1279 framebuffer
	m.Notify(1517, 853, float32(2275)/float32(1517))

	w, _ := r.SurfaceSize()
	assert.Equal(t, 2275, w)
	bw, _ := backend.SurfaceSize()
	assert.Equal(t, 2275, bw)
}
