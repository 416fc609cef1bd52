package math3d

import "github.com/chewxy/math32"

// Quat is a rotation quaternion (X, Y, Z vector part, W scalar part).
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle creates a rotation of angle radians around axis.
// A zero axis yields the identity.
func QuatFromAxisAngle(axis Vec4, angle float32) Quat {
	axis = axis.Normalize3()
	if axis.X == 0 && axis.Y == 0 && axis.Z == 0 {
		return QuatIdentity()
	}
	s, c := math32.Sin(angle/2), math32.Cos(angle/2)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, c}
}

// QuatFromEuler creates yaw·pitch·roll, matching RotateEuler.
func QuatFromEuler(pitch, yaw, roll float32) Quat {
	qy := QuatFromAxisAngle(Direction(0, 1, 0), yaw)
	qx := QuatFromAxisAngle(Direction(1, 0, 0), pitch)
	qz := QuatFromAxisAngle(Direction(0, 0, 1), roll)
	return qy.Mul(qx).Mul(qz)
}

// Mul returns the Hamilton product a·b (rotate by b, then by a).
//
//nolint:st1016 // a*b naming convention is clearer for quaternion products
func (a Quat) Mul(b Quat) Quat {
	return Quat{
		a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// Normalize returns the unit quaternion. The zero quaternion becomes identity.
func (q Quat) Normalize() Quat {
	l := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Mat4 converts the quaternion to a rotation matrix.
func (q Quat) Mat4() Mat4 {
	q = q.Normalize()
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return Mat4{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y), 0,
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x), 0,
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	}
}
