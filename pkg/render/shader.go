package render

// Shader maps barycentric weights to a premultiplied color. The weights sum
// to 1 inside the triangle; w0 belongs to vertex A. Implementations must be
// pure so band workers can share them.
type Shader interface {
	Shade(w0, w1, w2 float32) Color
}

// ShaderFunc adapts a function to Shader.
type ShaderFunc func(w0, w1, w2 float32) Color

// Shade implements Shader.
func (f ShaderFunc) Shade(w0, w1, w2 float32) Color {
	return f(w0, w1, w2)
}

// SolidShader returns one color for every sample.
type SolidShader struct {
	Color Color
}

// Shade implements Shader.
func (s SolidShader) Shade(_, _, _ float32) Color {
	return s.Color
}

// VertexColorShader blends per-vertex colors linearly.
type VertexColorShader struct {
	A, B, C Color
}

// Shade implements Shader.
func (s VertexColorShader) Shade(w0, w1, w2 float32) Color {
	return s.A.Scale(w0).Add(s.B.Scale(w1)).Add(s.C.Scale(w2))
}

// BarycentricShader visualises the weights as red, green and blue.
var BarycentricShader = ShaderFunc(func(w0, w1, w2 float32) Color {
	return Color{w0, w1, w2, 1}
})
