// Package models provides triangle meshes, models and mesh loading for prism.
package models

import (
	"github.com/taigrr/prism/pkg/math3d"
)

// Mesh is an ordered sequence of triangles. Shared vertices are not
// deduplicated.
type Mesh struct {
	Name      string
	Triangles []Triangle

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec4
	BoundsMax math3d.Vec4
}

// NewMesh creates a mesh from triangles and computes its bounds.
func NewMesh(name string, tris ...Triangle) *Mesh {
	m := &Mesh{
		Name:      name,
		Triangles: append(make([]Triangle, 0, len(tris)), tris...),
	}
	m.CalculateBounds()
	return m
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Triangles) == 0 {
		m.BoundsMin = math3d.Point(0, 0, 0)
		m.BoundsMax = math3d.Point(0, 0, 0)
		return
	}

	m.BoundsMin = m.Triangles[0].A
	m.BoundsMax = m.Triangles[0].A

	for _, t := range m.Triangles {
		for i := range 3 {
			v := t.Vertex(i)
			m.BoundsMin = m.BoundsMin.Min3(v)
			m.BoundsMax = m.BoundsMax.Max3(v)
		}
	}
}

// Add appends triangles and updates the bounds.
func (m *Mesh) Add(tris ...Triangle) {
	m.Triangles = append(m.Triangles, tris...)
	m.CalculateBounds()
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec4 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec4 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Transform applies a transformation matrix to all vertices in place.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Triangles {
		m.Triangles[i] = m.Triangles[i].Transform(mat)
	}
	m.CalculateBounds()
}

// Normalize centers the mesh on the origin and scales its largest dimension
// to size.
func (m *Mesh) Normalize(size float32) {
	s := m.Size()
	maxDim := max(s.X, s.Y, s.Z)
	if maxDim <= 0 {
		return
	}
	k := size / maxDim
	m.Transform(math3d.ScaleUniform(k).Mul(math3d.Translate(m.Center().Negate3())))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Triangles: make([]Triangle, len(m.Triangles)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Triangles, m.Triangles)
	return clone
}
