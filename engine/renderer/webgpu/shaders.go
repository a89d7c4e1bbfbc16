package webgpu

import (
	_ "embed"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
)

//go:embed assets/common.wgsl
var commonSource string

//go:embed assets/phong.wgsl
var phongSource string

//go:embed assets/shadow.wgsl
var shadowSource string

//go:embed assets/grid.wgsl
var gridSource string

// shaderSource prepends the shared uniform structs and helpers to a shader body.
func shaderSource(body string) string {
	return strings.Join([]string{
		camera.GPUCameraUniformSource,
		light.GPULightUniformSource,
		commonSource,
		body,
	}, "\n")
}
