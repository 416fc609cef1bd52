package render

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
)

// Wireframe draws triangle edges as single-pixel lines. Lines are composited
// source-over and skip the depth test.
type Wireframe struct {
	r     *Rasterizer
	Color Color
}

// NewWireframe creates a wireframe renderer sharing r's camera and target.
func NewWireframe(r *Rasterizer, color Color) *Wireframe {
	return &Wireframe{r: r, Color: color}
}

// DrawLineNDC draws a line between two NDC points.
func (w *Wireframe) DrawLineNDC(p1, p2 math3d.Vec4, color Color) {
	// Points on the camera plane project to NaN.
	if !finite(p1.X, p1.Y, p2.X, p2.Y) {
		return
	}
	if !inUnit(p1.Z) && !inUnit(p2.Z) {
		return
	}
	p1, p2, ok := clipLine(p1, p2)
	if !ok {
		return
	}
	x1, y1 := w.r.ToPixel(p1.X, p1.Y)
	x2, y2 := w.r.ToPixel(p2.X, p2.Y)
	w.r.Target().DrawLine(
		int(math32.Round(x1)), int(math32.Round(y1)),
		int(math32.Round(x2)), int(math32.Round(y2)),
		color,
	)
}

// DrawLine3D draws a line between two camera-space points.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec4, color Color) {
	cam := w.r.Camera()
	w.DrawLineNDC(cam.ProjectVector(p1), cam.ProjectVector(p2), color)
}

// DrawTriangle outlines an NDC triangle.
func (w *Wireframe) DrawTriangle(tri models.Triangle) {
	w.DrawLineNDC(tri.A, tri.B, w.Color)
	w.DrawLineNDC(tri.B, tri.C, w.Color)
	w.DrawLineNDC(tri.C, tri.A, w.Color)
}

// DrawMesh outlines every triangle of mesh after applying modelView.
func (w *Wireframe) DrawMesh(mesh *models.Mesh, modelView math3d.Mat4) {
	if mesh == nil {
		return
	}
	cam := w.r.Camera()
	for _, tri := range mesh.Triangles {
		w.DrawTriangle(cam.ProjectTriangle(tri.Transform(modelView)))
	}
}

// DrawAxes draws the world axes of the given view matrix.
func (w *Wireframe) DrawAxes(view math3d.Mat4, length float32) {
	origin := view.MulVec4(math3d.Point(0, 0, 0))
	w.DrawLine3D(origin, view.MulVec4(math3d.Point(length, 0, 0)), ColorRed)   // X axis
	w.DrawLine3D(origin, view.MulVec4(math3d.Point(0, length, 0)), ColorGreen) // Y axis
	w.DrawLine3D(origin, view.MulVec4(math3d.Point(0, 0, length)), ColorBlue)  // Z axis
}

// clipLine clips the XY segment p1-p2 to the NDC square [-1, 1]² using
// Liang-Barsky.
func clipLine(p1, p2 math3d.Vec4) (math3d.Vec4, math3d.Vec4, bool) {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	t0, t1 := float32(0), float32(1)
	edges := [4][2]float32{
		{-dx, p1.X + 1},
		{dx, 1 - p1.X},
		{-dy, p1.Y + 1},
		{dy, 1 - p1.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return p1, p2, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math32.Max(t0, t)
		} else {
			t1 = math32.Min(t1, t)
		}
		if t0 > t1 {
			return p1, p2, false
		}
	}
	return p1.Lerp(p2, t0), p1.Lerp(p2, t1), true
}

func finite(vs ...float32) bool {
	for _, v := range vs {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}
