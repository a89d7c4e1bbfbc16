package renderer

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Frame is everything a backend needs to draw one image, flattened from a scene and a camera.
type Frame struct {
	// Index is the zero-based frame number.
	Index uint64

	// Width and Height are the surface size in physical pixels.
	Width, Height int

	ClearColor common.Color
	Fog        scene.Fog

	Camera camera.GPUCameraUniform
	Lights light.GPULightUniform

	// ShadowMapSize is the directional shadow map resolution, 0 when no light casts shadows.
	ShadowMapSize int

	// Draws lists the visible mesh nodes in scene traversal order.
	Draws []DrawItem

	// Grid holds line-list vertices for the grid helper, empty when hidden.
	Grid []scene.LineVertex
}

// DrawItem is one mesh node to draw.
type DrawItem struct {
	Node     *scene.Node
	Geometry *scene.Geometry
	Material material.Material

	Model  mgl32.Mat4
	Normal mgl32.Mat4

	CastShadow    bool
	ReceiveShadow bool
}

// Casters returns the draw items that cast shadows.
func (f *Frame) Casters() []DrawItem {
	var out []DrawItem
	for _, d := range f.Draws {
		if d.CastShadow {
			out = append(out, d)
		}
	}
	return out
}

// buildFrame flattens a scene for drawing. Mesh nodes without a material use fallback.
func buildFrame(index uint64, width, height int, s scene.Scene, cam camera.Camera, fallback material.Material) *Frame {
	shadowSize := 0
	if dir := s.Directional(); dir != nil && dir.CastsShadows() {
		shadowSize = dir.Shadow().MapSize
	}

	f := &Frame{
		Index:         index,
		Width:         width,
		Height:        height,
		ClearColor:    s.Background(),
		Fog:           s.Fog(),
		Camera:        camera.NewGPUCameraUniform(cam),
		Lights:        light.NewGPULightUniform(s.Hemisphere(), s.Directional(), shadowSize > 0),
		ShadowMapSize: shadowSize,
	}

	s.Walk(func(n *scene.Node, world mgl32.Mat4) {
		if !n.HasGeometry() {
			return
		}
		mat := n.Material
		if mat == nil {
			mat = fallback
		}
		f.Draws = append(f.Draws, DrawItem{
			Node:          n,
			Geometry:      n.Geometry,
			Material:      mat,
			Model:         world,
			Normal:        common.NormalMatrix(world),
			CastShadow:    n.CastShadow,
			ReceiveShadow: n.ReceiveShadow,
		})
	})

	if grid, visible := s.Grid(); visible {
		f.Grid = grid.Lines()
	}
	return f
}
