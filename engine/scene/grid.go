package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultGridCenterColor is the color of the two center lines.
	DefaultGridCenterColor common.Color = 0x444444
	// DefaultGridLineColor is the color of every other line.
	DefaultGridLineColor common.Color = 0x888888
)

// Grid is a square line grid on the XZ plane at y = 0.
type Grid struct {
	Size        float32
	Divisions   int
	CenterColor common.Color
	LineColor   common.Color
}

// LineVertex is one endpoint of a grid line.
type LineVertex struct {
	Position mgl32.Vec3
	Color    common.Color
}

// Lines returns the grid as line-list vertex pairs. A grid with d divisions has d+1 lines along each
// axis. When d is even the middle line of each axis is drawn in CenterColor; an odd grid has no
// center line.
func (g Grid) Lines() []LineVertex {
	div := g.Divisions
	if div < 1 {
		div = 1
	}
	half := g.Size / 2
	step := g.Size / float32(div)

	lines := make([]LineVertex, 0, (div+1)*4)
	for i := 0; i <= div; i++ {
		k := -half + float32(i)*step
		c := g.LineColor
		if div%2 == 0 && i == div/2 {
			c = g.CenterColor
		}
		lines = append(lines,
			LineVertex{Position: mgl32.Vec3{-half, 0, k}, Color: c},
			LineVertex{Position: mgl32.Vec3{half, 0, k}, Color: c},
			LineVertex{Position: mgl32.Vec3{k, 0, -half}, Color: c},
			LineVertex{Position: mgl32.Vec3{k, 0, half}, Color: c},
		)
	}
	return lines
}
