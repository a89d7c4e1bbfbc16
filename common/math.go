package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the +Y up axis shared by the camera, lights and grid.
var WorldUp = mgl32.Vec3{0, 1, 0}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// Perspective creates a right-handed perspective projection matrix for WebGPU clip space, where
// depth maps to [0, 1] instead of the [-1, 1] range mgl32.Perspective produces.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far / (near - far), -1,
		0, 0, (near * far) / (near - far), 0,
	}
}

// Orthographic creates a right-handed orthographic projection matrix for WebGPU clip space.
// Used for the directional light shadow camera.
//
// Parameters:
//   - left, right, bottom, top: the view volume extents
//   - near, far: the clipping plane distances
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Orthographic(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	return mgl32.Mat4{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, 1 / (near - far), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), near / (near - far), 1,
	}
}

// ComposeTRS builds a model matrix from translation, rotation and scale (T * R * S).
//
// Parameters:
//   - position: translation in parent space
//   - rotation: orientation quaternion
//   - scale: per-axis scale factors
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func ComposeTRS(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// NormalMatrix returns the inverse-transpose of the model matrix, padded back to 4x4 so it can be
// uploaded with std140 alignment.
//
// Parameters:
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat4: the normal matrix, or identity if model is singular
func NormalMatrix(model mgl32.Mat4) mgl32.Mat4 {
	m3 := model.Mat3()
	if m3.Det() == 0 {
		return mgl32.Ident4()
	}
	return m3.Inv().Transpose().Mat4()
}

// PhysicalSize converts a logical size to physical pixels, floor(size × ratio). The product is nudged
// by a relative 1e-6 first so a ratio derived as framebuffer/window in float32 maps back onto the
// framebuffer size instead of one pixel below it.
func PhysicalSize(size int, ratio float32) int {
	p := float64(size) * float64(ratio)
	return int(math.Floor(p + math.Abs(p)*1e-6))
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
