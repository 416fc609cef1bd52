package models

import (
	"github.com/taigrr/prism/pkg/math3d"
)

// Model places a mesh in the world.
type Model struct {
	Mesh *Mesh

	Position math3d.Vec4 // translation
	Rotation math3d.Vec4 // pitch (X), yaw (Y), roll (Z) in radians
	Scale    math3d.Vec4 // per-axis scale factors
}

// NewModel wraps a mesh with an identity transform.
func NewModel(mesh *Mesh) *Model {
	return &Model{
		Mesh:     mesh,
		Position: math3d.Point(0, 0, 0),
		Rotation: math3d.Direction(0, 0, 0),
		Scale:    math3d.Point(1, 1, 1),
	}
}

// Translate moves the model by delta.
func (m *Model) Translate(delta math3d.Vec4) {
	m.Position = math3d.Point(m.Position.X+delta.X, m.Position.Y+delta.Y, m.Position.Z+delta.Z)
}

// Rotate adds delta (pitch, yaw, roll) to the model's rotation.
func (m *Model) Rotate(delta math3d.Vec4) {
	m.Rotation = math3d.Direction(m.Rotation.X+delta.X, m.Rotation.Y+delta.Y, m.Rotation.Z+delta.Z)
}

// ScaleBy multiplies the model's scale per axis.
func (m *Model) ScaleBy(factors math3d.Vec4) {
	m.Scale = math3d.Point(m.Scale.X*factors.X, m.Scale.Y*factors.Y, m.Scale.Z*factors.Z)
}

// Transform returns the object-to-world matrix T·R·S: vertices are scaled,
// then rotated, then translated.
func (m *Model) Transform() math3d.Mat4 {
	s := math3d.Scale(m.Scale)
	r := math3d.QuatFromEuler(m.Rotation.X, m.Rotation.Y, m.Rotation.Z).Mat4()
	t := math3d.Translate(m.Position)
	return s.Compose(r).Compose(t)
}

// TriangleCount returns the number of triangles in the model's mesh.
func (m *Model) TriangleCount() int {
	if m.Mesh == nil {
		return 0
	}
	return m.Mesh.TriangleCount()
}
