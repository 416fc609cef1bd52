package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/prism/pkg/math3d"
)

// ErrUnsupportedPrimitive is returned by Primitive for unknown names.
var ErrUnsupportedPrimitive = errors.New("unsupported primitive")

// Primitive builds a named built-in mesh of the given size.
func Primitive(name string, size float32) (*Mesh, error) {
	switch name {
	case "triangle":
		return NewTriangleMesh(size), nil
	case "quad":
		return NewQuad(size), nil
	case "cube":
		return NewCube(size), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPrimitive, name)
	}
}

// NewTriangleMesh creates a single counter-clockwise triangle in the XY plane
// centered on the origin.
func NewTriangleMesh(size float32) *Mesh {
	h := size / 2
	return NewMesh("triangle", Tri(
		math3d.Point(-h, -h, 0),
		math3d.Point(h, -h, 0),
		math3d.Point(0, h, 0),
	))
}

// NewQuad creates a square in the XY plane made of two counter-clockwise
// triangles.
func NewQuad(size float32) *Mesh {
	h := size / 2
	v0 := math3d.Point(-h, -h, 0)
	v1 := math3d.Point(h, -h, 0)
	v2 := math3d.Point(h, h, 0)
	v3 := math3d.Point(-h, h, 0)
	return NewMesh("quad", Tri(v0, v1, v2), Tri(v0, v2, v3))
}

// NewCube creates a cube centered on the origin, 12 triangles with outward
// counter-clockwise faces.
func NewCube(size float32) *Mesh {
	h := size / 2

	// 8 vertices
	v := [8]math3d.Vec4{
		math3d.Point(-h, -h, -h), // 0: left-bottom-back
		math3d.Point(h, -h, -h),  // 1: right-bottom-back
		math3d.Point(h, h, -h),   // 2: right-top-back
		math3d.Point(-h, h, -h),  // 3: left-top-back
		math3d.Point(-h, -h, h),  // 4: left-bottom-front
		math3d.Point(h, -h, h),   // 5: right-bottom-front
		math3d.Point(h, h, h),    // 6: right-top-front
		math3d.Point(-h, h, h),   // 7: left-top-front
	}

	// 6 faces (2 triangles each), corners listed counter-clockwise seen from outside
	faces := [][4]int{
		{4, 5, 6, 7}, // +Z
		{1, 0, 3, 2}, // -Z
		{5, 1, 2, 6}, // +X
		{0, 4, 7, 3}, // -X
		{7, 6, 2, 3}, // +Y
		{0, 1, 5, 4}, // -Y
	}

	mesh := NewMesh("cube")
	for _, f := range faces {
		mesh.Triangles = append(mesh.Triangles,
			Tri(v[f[0]], v[f[1]], v[f[2]]),
			Tri(v[f[0]], v[f[2]], v[f[3]]),
		)
	}
	mesh.CalculateBounds()
	return mesh
}
