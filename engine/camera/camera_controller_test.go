package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestControllerDefaultsClampInitialPolar(t *testing.T) {
	cc := NewCameraController()

	lo, hi := cc.PolarRange()
	assert.InDelta(t, math.Pi/3, lo, 1e-6)
	assert.InDelta(t, math.Pi/2, hi, 1e-6)
	// (0, 10, 5) sits above the clamp; the eye is pulled down to the minimum polar angle.
	assert.InDelta(t, math.Pi/3, cc.Polar(), 1e-6)
	assert.InDelta(t, math.Sqrt(125), cc.Radius(), 1e-4)
	assert.InDelta(t, 0, cc.Azimuth(), 1e-6)
	assert.InDelta(t, math.Sqrt(125)*0.5, cc.Position().Y(), 1e-4)
	assert.Equal(t, float32(0.1), cc.DampingFactor())
	assert.False(t, cc.PanEnabled())
	assert.False(t, cc.AutoRotate())
	assert.Equal(t, float32(0.2), cc.AutoRotateSpeed())
}

func TestControllerDampingDecaysPendingRotation(t *testing.T) {
	cc := NewCameraController()
	cc.RotateLeft(1)

	cc.Advance()
	assert.InDelta(t, -0.1, cc.Azimuth(), 1e-6)

	cc.Advance()
	assert.InDelta(t, -0.19, cc.Azimuth(), 1e-6)

	for range 500 {
		cc.Advance()
	}
	assert.InDelta(t, -1, cc.Azimuth(), 1e-4)
	assert.False(t, cc.Advance())
}

func TestControllerWithoutDampingAppliesAtOnce(t *testing.T) {
	cc := NewCameraController(WithDamping(false, 0.1))
	assert.Equal(t, float32(1), cc.DampingFactor())

	cc.RotateLeft(0.5)
	assert.True(t, cc.Advance())
	assert.InDelta(t, -0.5, cc.Azimuth(), 1e-6)
	assert.False(t, cc.Advance())
}

func TestControllerWithoutAdvanceIsFrozen(t *testing.T) {
	cc := NewCameraController()
	before := cc.Position()

	cc.BeginDrag(0, 0)
	cc.Drag(300, 0, 600)
	cc.EndDrag()

	assert.Equal(t, before, cc.Position())
	assert.True(t, cc.Advance())
	assert.NotEqual(t, before, cc.Position())
}

func TestControllerDragMapsViewportHeightToFullTurn(t *testing.T) {
	cc := NewCameraController(WithDamping(false, 0), WithPolarRange(0, math.Pi))

	cc.BeginDrag(10, 10)
	assert.True(t, cc.Dragging())
	cc.Drag(160, 10, 600)
	cc.Advance()
	assert.InDelta(t, -math.Pi/2, cc.Azimuth(), 1e-5)

	cc.Drag(200, 200, 0)
	cc.EndDrag()
	cc.Drag(500, 10, 600)
	assert.False(t, cc.Advance())
}

func TestControllerPolarClamp(t *testing.T) {
	cc := NewCameraController()

	cc.RotateUp(-10)
	for range 200 {
		cc.Advance()
	}
	assert.InDelta(t, math.Pi/2, cc.Polar(), 1e-6)
	assert.InDelta(t, 0, cc.Position().Y(), 1e-4)

	cc.RotateUp(20)
	for range 200 {
		cc.Advance()
	}
	assert.InDelta(t, math.Pi/3, cc.Polar(), 1e-6)
}

func TestControllerAutoRotateOnlyWhenIdle(t *testing.T) {
	cc := NewCameraController(WithAutoRotate(true, 0.2), WithDamping(false, 0))
	step := 2 * math.Pi / 60 / 60 * 0.2

	cc.Advance()
	assert.InDelta(t, -step, cc.Azimuth(), 1e-6)

	cc.BeginDrag(0, 0)
	cc.Advance()
	assert.InDelta(t, -step, cc.Azimuth(), 1e-6)
	cc.EndDrag()

	cc.SetAutoRotate(false)
	cc.Advance()
	assert.InDelta(t, -step, cc.Azimuth(), 1e-6)
}

func TestControllerPanDisabledByDefault(t *testing.T) {
	cc := NewCameraController()
	cc.Pan(100, 100, 600)
	cc.Advance()
	assert.Equal(t, mgl32.Vec3{}, cc.Target())

	panning := NewCameraController(WithPan(true), WithDamping(false, 0))
	panning.Pan(100, 0, 600)
	panning.Advance()
	assert.Less(t, panning.Target().X(), float32(0))
	assert.InDelta(t, 0, panning.Target().Y(), 1e-5)
}

func TestControllerZoomSpring(t *testing.T) {
	cc := NewCameraController()
	start := cc.Radius()

	cc.Zoom(5)
	cc.Advance()
	assert.Less(t, cc.Radius(), start)

	for range 240 {
		cc.Advance()
	}
	assert.InDelta(t, start*float32(math.Pow(0.95, 5)), cc.Radius(), 1e-2)

	cc.Zoom(-1000)
	for range 600 {
		cc.Advance()
	}
	assert.InDelta(t, 100, cc.Radius(), 1e-2)
}

func TestControllerSetTargetKeepsOffset(t *testing.T) {
	cc := NewCameraController()
	offset := cc.Position().Sub(cc.Target())

	cc.SetTarget(mgl32.Vec3{1, 2, 3})
	got := cc.Position().Sub(cc.Target())
	assert.InDeltaSlice(t, offset[:], got[:], 1e-5)
}
