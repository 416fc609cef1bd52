package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(Point(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(Point(1, 2, 3)).Mul(RotateY(0.5))
	v := Point(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkRotateEuler(b *testing.B) {
	for b.Loop() {
		_ = RotateEuler(0.1, 0.2, 0.3)
	}
}

func BenchmarkQuatMat4(b *testing.B) {
	q := QuatFromEuler(0.1, 0.2, 0.3)

	for b.Loop() {
		_ = q.Mat4()
	}
}

func BenchmarkVec4Dot(b *testing.B) {
	v1 := V4(1, 2, 3, 1)
	v2 := V4(4, 5, 6, 1)

	for b.Loop() {
		_ = v1.Dot(v2)
	}
}

func BenchmarkModelTransform(b *testing.B) {
	// Simulate the scale -> rotate -> translate chain built per model
	s := Scale(Point(2, 2, 2))
	t := Translate(Point(0, 0, 5))

	for b.Loop() {
		_ = t.Mul(QuatFromEuler(0.1, 0.2, 0.3).Mat4()).Mul(s)
	}
}
