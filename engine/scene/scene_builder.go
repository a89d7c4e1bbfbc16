package scene

import (
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Defaults used by NewScene.
const (
	DefaultBackground           common.Color = 0xf1f1f1
	DefaultFogNear              float32      = 20
	DefaultFogFar               float32      = 100
	DefaultGroundSize           float32      = 5000
	DefaultGroundColor          common.Color = 0xff0000
	DefaultGroundY              float32      = -1
	DefaultHemisphereSky        common.Color = 0xffffbb
	DefaultHemisphereGround     common.Color = 0x080820
	DefaultDirectionalColor     common.Color = 0x00ffff
	DefaultDirectionalIntensity float32      = 0.54
	DefaultShadowMapSize                     = 1024
	DefaultGridSize             float32      = 10
	DefaultGridDivisions                     = 1
	DefaultAssetScale           float32      = 2
	DefaultAssetOffsetY         float32      = -1
	DefaultAssetYaw             float32      = math.Pi
)

// SceneBuilderOption is a functional option for configuring a scene built with NewScene.
type SceneBuilderOption func(s *scene)

// WithBackground sets the clear color. The fog follows it.
//
// Parameters:
//   - color: the background color
//
// Returns:
//   - SceneBuilderOption: a function that applies the background to a scene
func WithBackground(color common.Color) SceneBuilderOption {
	return func(s *scene) {
		s.background = color
	}
}

// WithFog sets the fog distances. A far distance not beyond near disables fog.
//
// Parameters:
//   - near: distance where fog starts
//   - far: distance where fog is opaque
//
// Returns:
//   - SceneBuilderOption: a function that applies the fog to a scene
func WithFog(near, far float32) SceneBuilderOption {
	return func(s *scene) {
		s.fog.Near = near
		s.fog.Far = far
		s.fog.Enabled = far > near
	}
}

// WithoutFog disables fog.
func WithoutFog() SceneBuilderOption {
	return func(s *scene) {
		s.fog.Enabled = false
	}
}

// WithGround sets the ground plane.
//
// Parameters:
//   - width: extent along X
//   - depth: extent along Z
//   - color: the ground color
//   - shininess: the Phong shininess
//   - y: the ground height
//
// Returns:
//   - SceneBuilderOption: a function that applies the ground to a scene
func WithGround(width, depth float32, color common.Color, shininess, y float32) SceneBuilderOption {
	return func(s *scene) {
		s.ground = groundSettings{width: width, depth: depth, color: color, shininess: shininess, y: y}
	}
}

// WithHemisphereLight sets the hemisphere light.
func WithHemisphereLight(sky, ground common.Color, intensity float32, position mgl32.Vec3) SceneBuilderOption {
	return func(s *scene) {
		s.hemisphere = hemisphereSettings{sky: sky, ground: ground, intensity: intensity, position: position}
	}
}

// WithDirectionalLight sets the directional light and its square shadow map resolution.
//
// Parameters:
//   - color: the light color
//   - intensity: the light intensity
//   - position: the light position; the light points at the origin
//   - shadowMapSize: shadow map width and height in texels
//
// Returns:
//   - SceneBuilderOption: a function that applies the light to a scene
func WithDirectionalLight(color common.Color, intensity float32, position mgl32.Vec3, shadowMapSize int) SceneBuilderOption {
	return func(s *scene) {
		s.directional = directionalSettings{color: color, intensity: intensity, position: position, shadowSize: shadowMapSize}
	}
}

// WithGrid sets the grid helper size and divisions.
func WithGrid(size float32, divisions int) SceneBuilderOption {
	return func(s *scene) {
		s.grid.Size = size
		s.grid.Divisions = divisions
	}
}

// WithGridVisible shows or hides the grid helper.
func WithGridVisible(visible bool) SceneBuilderOption {
	return func(s *scene) {
		s.gridVisible = visible
	}
}

// WithPlacement sets the transform applied to the asset on Attach.
//
// Parameters:
//   - scale: uniform scale
//   - offset: position of the asset root
//   - yaw: rotation about +Y in radians
//
// Returns:
//   - SceneBuilderOption: a function that applies the placement to a scene
func WithPlacement(scale float32, offset mgl32.Vec3, yaw float32) SceneBuilderOption {
	return func(s *scene) {
		s.placement = Placement{Scale: scale, Offset: offset, Yaw: yaw}
	}
}
