package scene

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoGeometry is returned when geometry data has no vertices or inconsistent attribute lengths.
var ErrNoGeometry = errors.New("geometry has no vertices")

// Geometry is indexed triangle mesh data in node-local space.
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

// NewGeometry validates and wraps mesh attributes. When normals are missing they are computed from the
// triangles. When indices are missing the positions are treated as a triangle list.
//
// Parameters:
//   - positions: vertex positions (required)
//   - normals: vertex normals, nil or same length as positions
//   - uvs: texture coordinates, nil or same length as positions
//   - indices: triangle indices, nil for a non-indexed triangle list
//
// Returns:
//   - *Geometry: the geometry
//   - error: ErrNoGeometry if positions is empty or an attribute length mismatches
func NewGeometry(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint32) (*Geometry, error) {
	if len(positions) == 0 {
		return nil, ErrNoGeometry
	}
	if len(normals) != 0 && len(normals) != len(positions) {
		return nil, ErrNoGeometry
	}
	if len(uvs) != 0 && len(uvs) != len(positions) {
		return nil, ErrNoGeometry
	}
	if len(indices) == 0 {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, ErrNoGeometry
		}
	}
	g := &Geometry{Positions: positions, Normals: normals, UVs: uvs, Indices: indices}
	if len(g.Normals) == 0 {
		g.ComputeNormals()
	}
	return g, nil
}

// NewPlaneGeometry builds a width × height plane in the local XY plane facing +Z, centered at the origin.
func NewPlaneGeometry(width, height float32) *Geometry {
	hw, hh := width/2, height/2
	return &Geometry{
		Positions: []mgl32.Vec3{{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount returns the number of indexed triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Bounds returns the axis-aligned bounding box of the positions.
func (g *Geometry) Bounds() (lo, hi mgl32.Vec3) {
	if len(g.Positions) == 0 {
		return
	}
	lo, hi = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = float32(math.Min(float64(lo[i]), float64(p[i])))
			hi[i] = float32(math.Max(float64(hi[i]), float64(p[i])))
		}
	}
	return lo, hi
}

// ComputeNormals replaces the normals with area-weighted smooth vertex normals.
func (g *Geometry) ComputeNormals() {
	normals := make([]mgl32.Vec3, len(g.Positions))
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a, b, c := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		pa, pb, pc := g.Positions[a], g.Positions[b], g.Positions[c]
		face := pb.Sub(pa).Cross(pc.Sub(pa))
		normals[a] = normals[a].Add(face)
		normals[b] = normals[b].Add(face)
		normals[c] = normals[c].Add(face)
	}
	for i, n := range normals {
		if n.Len() == 0 {
			normals[i] = mgl32.Vec3{0, 1, 0}
			continue
		}
		normals[i] = n.Normalize()
	}
	g.Normals = normals
}

// Interleave packs the geometry into position(3) normal(3) uv(2) float32 vertices for upload.
func (g *Geometry) Interleave() []float32 {
	out := make([]float32, 0, len(g.Positions)*8)
	for i, p := range g.Positions {
		n := mgl32.Vec3{0, 1, 0}
		if i < len(g.Normals) {
			n = g.Normals[i]
		}
		var uv mgl32.Vec2
		if i < len(g.UVs) {
			uv = g.UVs[i]
		}
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	return out
}
