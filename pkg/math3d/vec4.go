// Package math3d provides the vector and matrix primitives used by prism.
package math3d

import "github.com/chewxy/math32"

// Vec4 represents a homogeneous 3D point or direction.
// Points carry W = 1; the zero sentinel carries W = 0.
type Vec4 struct {
	X, Y, Z, W float32
}

// V4 creates a new Vec4.
func V4(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}

// Point creates a point (W = 1).
func Point(x, y, z float32) Vec4 {
	return Vec4{x, y, z, 1}
}

// Direction creates a direction (W = 0, unaffected by translation).
func Direction(x, y, z float32) Vec4 {
	return Vec4{x, y, z, 0}
}

// Zero returns the zero sentinel (all components 0, including W).
func Zero() Vec4 {
	return Vec4{}
}

// Add returns the component-wise sum, W included.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W}
}

// Sub returns the component-wise difference, W included.
//
//nolint:st1016 // a-b naming convention is clearer for vector operations
func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// Scale returns the scalar product.
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Dot returns the 4-component dot product.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vec4) Dot(b Vec4) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Cross3 returns the cross product of the XYZ parts as a direction.
//
//nolint:st1016 // a×b naming convention is clearer for vector operations
func (a Vec4) Cross3(b Vec4) Vec4 {
	return Vec4{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
		0,
	}
}

// Len3 returns the length of the XYZ part.
func (v Vec4) Len3() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize3 returns the XYZ part scaled to unit length, keeping W.
func (v Vec4) Normalize3() Vec4 {
	l := v.Len3()
	if l == 0 {
		return Vec4{W: v.W}
	}
	return Vec4{v.X / l, v.Y / l, v.Z / l, v.W}
}

// Negate3 negates the XYZ part, keeping W.
func (v Vec4) Negate3() Vec4 {
	return Vec4{-v.X, -v.Y, -v.Z, v.W}
}

// Min3 returns the component-wise minimum of the XYZ parts as a point.
//
//nolint:st1016 // a,b naming convention is clearer for component-wise ops
func (a Vec4) Min3(b Vec4) Vec4 {
	return Point(math32.Min(a.X, b.X), math32.Min(a.Y, b.Y), math32.Min(a.Z, b.Z))
}

// Max3 returns the component-wise maximum of the XYZ parts as a point.
//
//nolint:st1016 // a,b naming convention is clearer for component-wise ops
func (a Vec4) Max3(b Vec4) Vec4 {
	return Point(math32.Max(a.X, b.X), math32.Max(a.Y, b.Y), math32.Max(a.Z, b.Z))
}

// Lerp returns linear interpolation.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Vec4) Lerp(b Vec4, t float32) Vec4 {
	return Vec4{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
		a.W + (b.W-a.W)*t,
	}
}

// PerspectiveDivide divides XYZ by W. W = 0 leaves the vector unchanged.
func (v Vec4) PerspectiveDivide() Vec4 {
	if v.W == 0 {
		return v
	}
	return Vec4{v.X / v.W, v.Y / v.W, v.Z / v.W, 1}
}
