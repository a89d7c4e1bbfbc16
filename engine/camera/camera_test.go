package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraDefaults(t *testing.T) {
	cam := NewCamera()

	assert.InDelta(t, 50*math.Pi/180, cam.Fov(), 1e-6)
	assert.Equal(t, float32(0.1), cam.Near())
	assert.Equal(t, float32(1000), cam.Far())
	assert.Equal(t, float32(1), cam.Aspect())
	assert.True(t, cam.ProjectionStale())
	assert.Nil(t, cam.Controller())
	assert.False(t, cam.Advance())
	assert.Equal(t, mgl32.Vec3{}, cam.Position())
}

func TestProjectionRecomputedLazily(t *testing.T) {
	cam := NewCamera(WithAspect(2))
	first := cam.ProjectionMatrix()
	assert.False(t, cam.ProjectionStale())

	cam.SetAspect(0.5)
	assert.True(t, cam.ProjectionStale())
	assert.Equal(t, float32(0.5), cam.Aspect())

	second := cam.ProjectionMatrix()
	assert.False(t, cam.ProjectionStale())
	assert.NotEqual(t, first, second)
	// x scale is f / aspect
	assert.InDelta(t, first.At(0, 0)*4, second.At(0, 0), 1e-4)

	cam.MarkProjectionStale()
	assert.True(t, cam.ProjectionStale())
	cam.ViewProjectionMatrix()
	assert.False(t, cam.ProjectionStale())
}

func TestCameraAdvanceUpdatesView(t *testing.T) {
	ctrl := NewCameraController(WithPosition(0, 0, 10), WithPolarRange(0, math.Pi), WithDamping(false, 0))
	cam := NewCamera(WithController(ctrl))

	target := cam.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -10, target.Z(), 1e-4)

	ctrl.RotateLeft(math.Pi / 2)
	assert.True(t, cam.Advance())
	assert.InDelta(t, -10, cam.Position().X(), 1e-4)

	target = cam.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, target.X(), 1e-4)
	assert.InDelta(t, -10, target.Z(), 1e-4)
	assert.False(t, cam.Advance())
}

func TestGPUCameraUniform(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController()))
	u := NewGPUCameraUniform(cam)

	require.Equal(t, 144, u.Size())
	buf := u.Marshal()
	require.Len(t, buf, 144)
	assert.Equal(t, [3]float32(cam.Position()), u.CameraPosition)
	assert.Equal(t, [16]float32(cam.ViewProjectionMatrix()), u.ViewProj)
}
