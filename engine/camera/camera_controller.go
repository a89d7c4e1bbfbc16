package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController defines the damped orbit controller driving a Camera.
// The controller owns positional state (target and spherical offset). Input methods only accumulate
// pending rotation, zoom and pan; Advance applies a damped share of the pending motion, clamps the
// result and recomputes the eye position.
type CameraController interface {
	orbitCameraController
	planarCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the orbit pivot / look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget moves the pivot, keeping the spherical offset.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl32.Vec3)

	// Zoom requests a change of orbit distance. Positive delta zooms in. The distance moves toward the
	// requested value on a spring over the following Advance calls.
	//
	// Parameters:
	//   - delta: zoom amount, typically scroll wheel ticks
	Zoom(delta float32)

	// Advance applies one step of pending motion. Must be called once per frame.
	//
	// Returns:
	//   - bool: true if the position changed
	Advance() bool
}

// orbitCameraController defines orbit-specific control methods.
// Angles follow the usual spherical convention around +Y: the polar angle is measured from +Y and the
// azimuth around +Y from +Z.
type orbitCameraController interface {
	// RotateLeft queues an azimuth rotation of angle radians.
	RotateLeft(angle float32)

	// RotateUp queues a polar rotation of angle radians.
	RotateUp(angle float32)

	// BeginDrag starts a pointer drag at the given cursor position.
	//
	// Parameters:
	//   - x, y: cursor position in window pixels
	BeginDrag(x, y float32)

	// Drag continues a pointer drag. A horizontal drag across the full viewport height rotates a full
	// turn of azimuth; vertical drag rotates the polar angle likewise.
	//
	// Parameters:
	//   - x, y: cursor position in window pixels
	//   - viewportHeight: viewport height in window pixels
	Drag(x, y, viewportHeight float32)

	// EndDrag finishes a pointer drag.
	EndDrag()

	// Dragging reports whether a pointer drag is in progress.
	Dragging() bool

	// Radius returns the current orbit distance.
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// Polar returns the current angle from the +Y axis.
	//
	// Returns:
	//   - float32: polar angle in radians
	Polar() float32

	// PolarRange returns the allowed polar angle range.
	//
	// Returns:
	//   - minPolar, maxPolar: polar limits in radians
	PolarRange() (minPolar, maxPolar float32)

	// DampingFactor returns the share of pending motion applied per Advance, or 1 when damping is off.
	DampingFactor() float32

	// AutoRotate reports whether idle auto-rotation is on.
	AutoRotate() bool

	// SetAutoRotate turns idle auto-rotation on or off.
	SetAutoRotate(enabled bool)

	// AutoRotateSpeed returns the auto-rotation speed; 1 is one turn per minute at 60 frames per second.
	AutoRotateSpeed() float32

	// KeyOrbitStep returns the rotation in radians queued per arrow key press.
	KeyOrbitStep() float32
}

// planarCameraController defines panning control.
// Panning shifts both position and target by the same offset, preserving the orbit relationship.
type planarCameraController interface {
	// Pan queues a translation along the camera's local right and up axes. Ignored when panning is
	// disabled.
	//
	// Parameters:
	//   - dx, dy: pointer movement in window pixels
	//   - viewportHeight: viewport height in window pixels
	Pan(dx, dy, viewportHeight float32)

	// PanEnabled reports whether panning is enabled.
	PanEnabled() bool
}
