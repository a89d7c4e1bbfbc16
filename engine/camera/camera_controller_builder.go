package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial eye position. The orbit radius and angles are derived from it.
//
// Parameters:
//   - x, y, z: world-space eye position
//
// Returns:
//   - CameraControllerOption: functional option to set the eye position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = mgl32.Vec3{x, y, z}
	}
}

// WithTarget sets the look-at/pivot point.
//
// Parameters:
//   - x: X coordinate of the target
//   - y: Y coordinate of the target
//   - z: Z coordinate of the target
//
// Returns:
//   - CameraControllerOption: functional option to set the target position
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = mgl32.Vec3{x, y, z}
	}
}

// WithPolarRange restricts the polar angle (measured from +Y). A range of [0, π] removes the limit.
//
// Parameters:
//   - min: smallest polar angle in radians
//   - max: largest polar angle in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the polar clamp
func WithPolarRange(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if min > max {
			min, max = max, min
		}
		cc.minPolar = min
		cc.maxPolar = max
	}
}

// WithAzimuthRange restricts the azimuth. Either bound infinite removes the limit.
func WithAzimuthRange(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minAzimuth = min
		cc.maxAzimuth = max
	}
}

// WithDistanceRange sets the allowed orbit distance.
//
// Parameters:
//   - min: minimum zoom distance
//   - max: maximum zoom distance
//
// Returns:
//   - CameraControllerOption: functional option to set the distance limits
func WithDistanceRange(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minDistance = min
		cc.maxDistance = max
	}
}

// WithDamping enables or disables damping. With damping, each Advance applies factor of the pending
// rotation and keeps (1 - factor) of it for the next frame; higher factors settle faster.
//
// Parameters:
//   - enabled: whether damping is applied
//   - factor: damping factor in (0, 1]
//
// Returns:
//   - CameraControllerOption: functional option to set damping
func WithDamping(enabled bool, factor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.enableDamping = enabled
		if factor > 0 && factor <= 1 {
			cc.dampingFactor = factor
		}
	}
}

// WithPan enables or disables panning.
func WithPan(enabled bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.enablePan = enabled
	}
}

// WithPanSpeed sets the pan speed multiplier.
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}

// WithAutoRotate configures idle auto-rotation.
//
// Parameters:
//   - enabled: whether the camera drifts in azimuth while not dragged
//   - speed: 1 is one turn per minute at 60 frames per second
//
// Returns:
//   - CameraControllerOption: functional option to set auto-rotation
func WithAutoRotate(enabled bool, speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.autoRotate = enabled
		cc.autoRotateSpeed = speed
	}
}

// WithRotateSpeed sets the pointer drag rotation multiplier.
func WithRotateSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotateSpeed = speed
	}
}

// WithZoomSpeed sets the zoom multiplier.
//
// Parameters:
//   - speed: multiplier for zoom input
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithKeyOrbitStep sets the rotation queued per arrow key press.
func WithKeyOrbitStep(step float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.keyOrbitStep = step
	}
}
