package models

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/prism/pkg/math3d"
)

// Triangle is a primitive triangle. Front faces wind counter-clockwise in
// the space they are rasterized in.
type Triangle struct {
	A, B, C math3d.Vec4
}

// Tri creates a triangle from three vertices.
func Tri(a, b, c math3d.Vec4) Triangle {
	return Triangle{A: a, B: b, C: c}
}

// Rect is an axis-aligned rectangle in the XY plane.
type Rect struct {
	MinX, MaxX float32
	MinY, MaxY float32
}

// Width returns MaxX - MinX.
func (r Rect) Width() float32 {
	return r.MaxX - r.MinX
}

// Height returns MaxY - MinY.
func (r Rect) Height() float32 {
	return r.MaxY - r.MinY
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX && r.MinY <= o.MaxY && o.MinY <= r.MaxY
}

// Vertex returns vertex i (0 = A, 1 = B, 2 = C).
func (t Triangle) Vertex(i int) math3d.Vec4 {
	switch i {
	case 0:
		return t.A
	case 1:
		return t.B
	case 2:
		return t.C
	}
	panic("models: triangle vertex out of range")
}

// Bounds returns the XY bounding rectangle of the triangle.
func (t Triangle) Bounds() Rect {
	return Rect{
		MinX: min(t.A.X, t.B.X, t.C.X),
		MaxX: max(t.A.X, t.B.X, t.C.X),
		MinY: min(t.A.Y, t.B.Y, t.C.Y),
		MaxY: max(t.A.Y, t.B.Y, t.C.Y),
	}
}

// SignedArea returns twice the signed XY area: positive for counter-clockwise
// winding with Y up.
func (t Triangle) SignedArea() float32 {
	ab := t.B.Sub(t.A)
	bc := t.C.Sub(t.B)
	return ab.X*bc.Y - ab.Y*bc.X
}

// IsDegenerate reports whether the XY area is within eps of zero or NaN.
func (t Triangle) IsDegenerate(eps float32) bool {
	return !(math32.Abs(t.SignedArea()) > eps)
}

// Transform applies m to all three vertices.
func (t Triangle) Transform(m math3d.Mat4) Triangle {
	return Triangle{
		A: m.MulVec4(t.A),
		B: m.MulVec4(t.B),
		C: m.MulVec4(t.C),
	}
}

// Reverse swaps the winding order.
func (t Triangle) Reverse() Triangle {
	return Triangle{A: t.A, B: t.C, C: t.B}
}

// Normal returns the unit face normal of the counter-clockwise winding.
func (t Triangle) Normal() math3d.Vec4 {
	return t.B.Sub(t.A).Cross3(t.C.Sub(t.A)).Normalize3()
}
