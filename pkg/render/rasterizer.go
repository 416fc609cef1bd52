package render

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
)

// DegenerateEpsilon is the smallest |signed area| (in NDC², without the
// 1/2 factor) a triangle needs to be rasterized.
const DegenerateEpsilon = 1e-8

// CullMode selects which windings are rasterized.
type CullMode int

const (
	// CullNone rasterizes both windings.
	CullNone CullMode = iota
	// CullBack skips triangles that wind clockwise in NDC.
	CullBack
)

func (m CullMode) String() string {
	switch m {
	case CullNone:
		return "none"
	case CullBack:
		return "back"
	default:
		return fmt.Sprintf("CullMode(%d)", int(m))
	}
}

// ParseCullMode parses "none" or "back". The empty string selects CullNone.
func ParseCullMode(s string) (CullMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CullNone, nil
	case "back":
		return CullBack, nil
	default:
		return 0, fmt.Errorf("unknown cull mode %q", s)
	}
}

// Primitive is a triangle in NDC that passed setup and is ready to fill.
type Primitive struct {
	Index  int
	Tri    models.Triangle
	Shader Shader

	// edge vectors (x, y only)
	abX, abY float32
	bcX, bcY float32
	caX, caY float32
	invArea  float32

	// clamped pixel box, inclusive
	minX, maxX int
	minY, maxY int
}

// Area returns the signed area of the NDC triangle.
func (p Primitive) Area() float32 {
	return 1 / p.invArea
}

// Weights returns the barycentric weights of NDC point (px, py). w0 belongs
// to vertex A. Inside the triangle all three are non-negative and sum to 1.
func (p Primitive) Weights(px, py float32) (w0, w1, w2 float32) {
	a, b, c := p.Tri.A, p.Tri.B, p.Tri.C
	w0 = (p.bcX*(py-b.Y) - p.bcY*(px-b.X)) * p.invArea
	w1 = (p.caX*(py-c.Y) - p.caY*(px-c.X)) * p.invArea
	w2 = (p.abX*(py-a.Y) - p.abY*(px-a.X)) * p.invArea
	return w0, w1, w2
}

// Rasterizer draws triangles into a RenderTarget with multisampling and a
// per-pixel depth test.
type Rasterizer struct {
	camera *Camera
	target *RenderTarget

	Sampler Sampler
	Shader  Shader // used by DrawTriangle and DrawProjected
	Cull    CullMode
	Blend   BlendMode
	Tracer  Tracer

	// pixel to NDC mapping
	centerX, centerY float32
	scaleX, scaleY   float32

	// rows this rasterizer may write, [rowMin, rowMax)
	rowMin, rowMax int

	samples []Sample
	next    int
}

// NewRasterizer creates a rasterizer writing to target. A nil camera is
// replaced by DefaultCamera with the target's aspect ratio.
func NewRasterizer(camera *Camera, target *RenderTarget) *Rasterizer {
	if camera == nil {
		camera = DefaultCamera(target.Aspect())
	}
	r := &Rasterizer{
		camera:  camera,
		target:  target,
		Sampler: SingleSampler{},
		Shader:  SolidShader{Color: ColorWhite},
		Tracer:  NopTracer,
		rowMin:  0,
		rowMax:  target.Height(),
	}
	r.centerX, r.scaleX = axisMapping(target.Width())
	r.centerY, r.scaleY = axisMapping(target.Height())
	return r
}

// axisMapping returns the buffer coordinate of NDC 0 and the pixels per NDC
// unit for an axis of n pixels. Pixel 0 maps to -1 and pixel n-1 to +1.
func axisMapping(n int) (center, scale float32) {
	center = float32(n-1) / 2
	scale = center
	if scale <= 0 {
		scale = 0.5
	}
	return center, scale
}

// Camera returns the camera used for projection and containment.
func (r *Rasterizer) Camera() *Camera { return r.camera }

// Target returns the render target.
func (r *Rasterizer) Target() *RenderTarget { return r.target }

// ToNDC maps a buffer-pixel position to NDC. Buffer row 0 is NDC +1.
func (r *Rasterizer) ToNDC(sx, sy float32) (px, py float32) {
	return (sx - r.centerX) / r.scaleX, -(sy - r.centerY) / r.scaleY
}

// ToPixel maps an NDC position to buffer-pixel space.
func (r *Rasterizer) ToPixel(px, py float32) (sx, sy float32) {
	return px*r.scaleX + r.centerX, -py*r.scaleY + r.centerY
}

func (r *Rasterizer) tracer() Tracer {
	if r.Tracer == nil {
		return NopTracer
	}
	return r.Tracer
}

func (r *Rasterizer) sampler() Sampler {
	if r.Sampler == nil {
		return SingleSampler{}
	}
	return r.Sampler
}

// Prepare runs triangle setup on an NDC triangle. It reports false when the
// triangle cannot produce coverage, after telling the tracer why.
func (r *Rasterizer) Prepare(index int, tri models.Triangle, shader Shader) (Primitive, bool) {
	t := r.tracer()
	t.TriangleStart(index)

	p := Primitive{Index: index, Tri: tri, Shader: shader}
	a, b, c := tri.A, tri.B, tri.C
	p.abX, p.abY = b.X-a.X, b.Y-a.Y
	p.bcX, p.bcY = c.X-b.X, c.Y-b.Y
	p.caX, p.caY = a.X-c.X, a.Y-c.Y

	area := p.abX*p.bcY - p.abY*p.bcX
	if !(math32.Abs(area) > DegenerateEpsilon) {
		t.TriangleSkipped(index, SkipDegenerate)
		return p, false
	}
	if r.Cull == CullBack && area < 0 {
		t.TriangleSkipped(index, SkipBackFace)
		return p, false
	}
	p.invArea = 1 / area

	bounds := tri.Bounds()
	if !bounds.Intersects(models.Rect{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}) {
		t.TriangleSkipped(index, SkipOffscreen)
		return p, false
	}

	// NDC +y is buffer row 0, so MaxY gives the smallest row.
	x0, y0 := r.ToPixel(bounds.MinX, bounds.MaxY)
	x1, y1 := r.ToPixel(bounds.MaxX, bounds.MinY)
	p.minX = clampPixel(math32.Floor(x0)-1, r.target.Width())
	p.maxX = clampPixel(math32.Ceil(x1)+1, r.target.Width())
	p.minY = clampPixel(math32.Floor(y0)-1, r.target.Height())
	p.maxY = clampPixel(math32.Ceil(y1)+1, r.target.Height())
	if p.minX > p.maxX || p.minY > p.maxY {
		t.TriangleSkipped(index, SkipOffscreen)
		return p, false
	}
	return p, true
}

// clampPixel clamps v to [0, n-1] before converting, so huge or infinite
// coordinates stay in range.
func clampPixel(v float32, n int) int {
	hi := float32(n - 1)
	if v > hi {
		v = hi
	}
	if !(v > 0) {
		v = 0
	}
	return int(v)
}

// Fill rasterizes a prepared primitive. For every pixel in its box it
// accumulates the shaded, weighted samples that fall inside the triangle
// and the NDC cube, then runs one depth test with their mean depth.
func (r *Rasterizer) Fill(p Primitive) {
	if p.Shader == nil || r.target.Width() == 0 {
		return
	}
	t := r.tracer()
	s := r.sampler()
	a, b, c := p.Tri.A, p.Tri.B, p.Tri.C

	minY, maxY := max(p.minY, r.rowMin), min(p.maxY, r.rowMax-1)
	for y := minY; y <= maxY; y++ {
		for x := p.minX; x <= p.maxX; x++ {
			r.samples = s.Sample(r.samples[:0], x, y)

			var acc Color
			var depthSum float32
			n := 0
			for _, smp := range r.samples {
				px, py := r.ToNDC(smp.X, smp.Y)
				w0, w1, w2 := p.Weights(px, py)
				if !(w0 >= 0 && w1 >= 0 && w2 >= 0) {
					continue
				}
				pz := a.Z*w0 + b.Z*w1 + c.Z*w2
				// Border pixel centres sit on ±1, so their outer samples are
				// pulled back onto the edge instead of being dropped.
				if !r.camera.ContainsPoint(clampUnit(px), clampUnit(py), pz) {
					continue
				}
				acc = acc.Add(p.Shader.Shade(w0, w1, w2).Scale(smp.Weight))
				depthSum += pz
				n++
			}
			if n == 0 {
				continue
			}

			depth := depthSum / float32(n)
			if r.target.CheckDepth(x, y, depth) {
				r.target.Paint(x, y, acc, r.Blend)
				t.PixelAccepted(x, y, depth)
			} else {
				t.PixelRejected(x, y, depth)
			}
		}
	}
}

func clampUnit(v float32) float32 {
	return math32.Max(-1, math32.Min(1, v))
}

// DrawProjected rasterizes a triangle already in NDC with shader.
func (r *Rasterizer) DrawProjected(tri models.Triangle, shader Shader) {
	index := r.next
	r.next++
	if p, ok := r.Prepare(index, tri, shader); ok {
		r.Fill(p)
	}
}

// DrawTriangle projects a camera-space triangle once and rasterizes it
// with the rasterizer's Shader.
func (r *Rasterizer) DrawTriangle(tri models.Triangle) {
	r.DrawProjected(r.camera.ProjectTriangle(tri), r.Shader)
}

// ShaderSource returns the shader for triangle i of a mesh.
type ShaderSource func(i int) Shader

// Uniform returns a ShaderSource that always yields s.
func Uniform(s Shader) ShaderSource {
	return func(int) Shader { return s }
}

// PrepareMesh transforms each triangle by modelView, projects it and runs
// setup. Triangles are indexed continuing from previous draws.
func (r *Rasterizer) PrepareMesh(mesh *models.Mesh, modelView math3d.Mat4, shaders ShaderSource) []Primitive {
	if mesh == nil {
		return nil
	}
	if shaders == nil {
		shaders = Uniform(r.Shader)
	}
	prims := make([]Primitive, 0, len(mesh.Triangles))
	for i, tri := range mesh.Triangles {
		ndc := r.camera.ProjectTriangle(tri.Transform(modelView))
		index := r.next
		r.next++
		if p, ok := r.Prepare(index, ndc, shaders(i)); ok {
			prims = append(prims, p)
		}
	}
	return prims
}

// DrawMesh draws every triangle of mesh in order. Each triangle is filled
// before the next one is set up.
func (r *Rasterizer) DrawMesh(mesh *models.Mesh, modelView math3d.Mat4, shaders ShaderSource) {
	if mesh == nil {
		return
	}
	if shaders == nil {
		shaders = Uniform(r.Shader)
	}
	for i, tri := range mesh.Triangles {
		r.DrawProjected(r.camera.ProjectTriangle(tri.Transform(modelView)), shaders(i))
	}
}

// band returns a copy of r restricted to rows [y0, y1) with its own sample
// buffer.
func (r *Rasterizer) band(y0, y1 int) *Rasterizer {
	b := *r
	b.rowMin, b.rowMax = y0, y1
	b.samples = nil
	return &b
}
