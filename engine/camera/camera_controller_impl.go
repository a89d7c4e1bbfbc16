package camera

import (
	"math"
	"sync"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// polarEpsilon keeps the polar angle off the poles, where the look-at basis degenerates.
	polarEpsilon = 1e-6
	// moveEpsilon is the squared distance below which Advance reports no movement.
	moveEpsilon = 1e-6
	// zoomScalePerTick is the distance factor applied per unit of zoom.
	zoomScalePerTick = 0.95
)

// cameraControllerImpl is the single implementation of CameraController.
// Rotation input accumulates in thetaDelta/phiDelta and pan input in panOffset; Advance applies the
// damped share of both. Zoom sets targetRadius, which radius follows on a critically damped spring.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	// Spherical coordinates (offset from target)
	radius  float32
	azimuth float32
	polar   float32

	// Pending motion
	thetaDelta float32
	phiDelta   float32
	panOffset  mgl32.Vec3

	// Orbit constraints
	minPolar, maxPolar       float32
	minAzimuth, maxAzimuth   float32
	minDistance, maxDistance float32

	enableDamping bool
	dampingFactor float32

	enablePan bool
	panSpeed  float32

	autoRotate      bool
	autoRotateSpeed float32

	rotateSpeed  float32
	zoomSpeed    float32
	keyOrbitStep float32

	dragging       bool
	lastX, lastY   float32
	targetRadius   float32
	radiusVelocity float64
	zoomSpring     harmonica.Spring
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a damped orbit controller. The initial spherical offset is derived from
// the configured eye position and target (default eye (0, 10, 5) looking at the origin) and then
// clamped, so the first frame already respects the polar range.
//
// Defaults: damping on with factor 0.1, polar range [π/3, π/2], no azimuth limit, pan disabled,
// auto-rotate off with speed 0.2, distance range [1, 100].
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:       &sync.Mutex{},
		position: mgl32.Vec3{0, 10, 5},

		minPolar:    math.Pi / 3,
		maxPolar:    math.Pi / 2,
		minAzimuth:  float32(math.Inf(-1)),
		maxAzimuth:  float32(math.Inf(1)),
		minDistance: 1,
		maxDistance: 100,

		enableDamping: true,
		dampingFactor: 0.1,

		panSpeed:        1,
		autoRotateSpeed: 0.2,

		rotateSpeed:  1,
		zoomSpeed:    1,
		keyOrbitStep: 0.05,

		zoomSpring: harmonica.NewSpring(harmonica.FPS(60), 6.0, 1.0),
	}

	for _, option := range options {
		option(cc)
	}

	cc.syncSpherical()
	return cc
}

// --- internal helpers ---

// syncSpherical derives the spherical coordinates from position and target, clamps them and
// recomputes the position. Caller must hold the mutex or own the controller exclusively.
func (cc *cameraControllerImpl) syncSpherical() {
	offset := cc.position.Sub(cc.target)
	cc.radius = offset.Len()
	if cc.radius == 0 {
		cc.polar = 0
		cc.azimuth = 0
	} else {
		cc.azimuth = float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
		cc.polar = float32(math.Acos(float64(clamp(offset.Y()/cc.radius, -1, 1))))
	}
	cc.clampSpherical()
	cc.targetRadius = cc.radius
	cc.updatePosition()
}

// clampSpherical applies the azimuth, polar and distance limits. Caller must hold the mutex.
func (cc *cameraControllerImpl) clampSpherical() {
	if !math.IsInf(float64(cc.minAzimuth), 0) && !math.IsInf(float64(cc.maxAzimuth), 0) {
		cc.azimuth = clamp(cc.azimuth, cc.minAzimuth, cc.maxAzimuth)
	}
	cc.polar = clamp(cc.polar, cc.minPolar, cc.maxPolar)
	cc.polar = clamp(cc.polar, polarEpsilon, math.Pi-polarEpsilon)
	cc.radius = clamp(cc.radius, cc.minDistance, cc.maxDistance)
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sinPolar := float32(math.Sin(float64(cc.polar)))
	cosPolar := float32(math.Cos(float64(cc.polar)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))

	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * sinPolar * sinAzim,
		cc.radius * cosPolar,
		cc.radius * sinPolar * cosAzim,
	})
}

// localAxes returns the camera's right and up axes consistent with the LookAt matrix.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up mgl32.Vec3) {
	backward := cc.position.Sub(cc.target)
	if backward.Len() < 1e-8 {
		return
	}
	backward = backward.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(backward)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	right = right.Normalize()
	up = backward.Cross(right)
	return right, up
}

func (cc *cameraControllerImpl) factor() float32 {
	if cc.enableDamping {
		return cc.dampingFactor
	}
	return 1
}

func clamp(v, lo, hi float32) float32 {
	return float32(math.Max(float64(lo), math.Min(float64(hi), float64(v))))
}

// --- CameraController shared methods ---

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	scale := float32(math.Pow(zoomScalePerTick, float64(delta*cc.zoomSpeed)))
	cc.targetRadius = clamp(cc.targetRadius*scale, cc.minDistance, cc.maxDistance)
}

func (cc *cameraControllerImpl) Advance() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	last := cc.position

	if cc.autoRotate && !cc.dragging {
		cc.thetaDelta -= 2 * math.Pi / 60 / 60 * cc.autoRotateSpeed
	}

	f := cc.factor()
	cc.azimuth += cc.thetaDelta * f
	cc.polar += cc.phiDelta * f

	r, v := cc.zoomSpring.Update(float64(cc.radius), cc.radiusVelocity, float64(cc.targetRadius))
	cc.radius, cc.radiusVelocity = float32(r), v

	cc.clampSpherical()
	cc.target = cc.target.Add(cc.panOffset.Mul(f))
	cc.updatePosition()

	if cc.enableDamping {
		cc.thetaDelta *= 1 - f
		cc.phiDelta *= 1 - f
		cc.panOffset = cc.panOffset.Mul(1 - f)
	} else {
		cc.thetaDelta, cc.phiDelta = 0, 0
		cc.panOffset = mgl32.Vec3{}
	}

	d := cc.position.Sub(last)
	return d.Dot(d) > moveEpsilon
}

// --- orbitCameraController implementation ---

func (cc *cameraControllerImpl) RotateLeft(angle float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.thetaDelta -= angle
}

func (cc *cameraControllerImpl) RotateUp(angle float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.phiDelta -= angle
}

func (cc *cameraControllerImpl) BeginDrag(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dragging = true
	cc.lastX, cc.lastY = x, y
}

func (cc *cameraControllerImpl) Drag(x, y, viewportHeight float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.dragging || viewportHeight <= 0 {
		return
	}
	dx, dy := x-cc.lastX, y-cc.lastY
	cc.lastX, cc.lastY = x, y
	cc.thetaDelta -= 2 * math.Pi * dx / viewportHeight * cc.rotateSpeed
	cc.phiDelta -= 2 * math.Pi * dy / viewportHeight * cc.rotateSpeed
}

func (cc *cameraControllerImpl) EndDrag() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dragging = false
}

func (cc *cameraControllerImpl) Dragging() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dragging
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Polar() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.polar
}

func (cc *cameraControllerImpl) PolarRange() (minPolar, maxPolar float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minPolar, cc.maxPolar
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.factor()
}

func (cc *cameraControllerImpl) AutoRotate() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.autoRotate
}

func (cc *cameraControllerImpl) SetAutoRotate(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.autoRotate = enabled
}

func (cc *cameraControllerImpl) AutoRotateSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.autoRotateSpeed
}

func (cc *cameraControllerImpl) KeyOrbitStep() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.keyOrbitStep
}

// --- planarCameraController implementation ---

func (cc *cameraControllerImpl) Pan(dx, dy, viewportHeight float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enablePan || viewportHeight <= 0 {
		return
	}
	right, up := cc.localAxes()
	scale := cc.radius / viewportHeight * cc.panSpeed
	cc.panOffset = cc.panOffset.Add(right.Mul(-dx * scale)).Add(up.Mul(dy * scale))
}

func (cc *cameraControllerImpl) PanEnabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.enablePan
}
