// Package scene assembles cameras and models into renderable scenes and
// loads them from YAML or TOML files.
package scene

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taigrr/prism/pkg/models"
	"github.com/taigrr/prism/pkg/render"
)

// ErrInvalidScene is returned when a scene description cannot be built.
var ErrInvalidScene = errors.New("scene: invalid scene")

// Object is a model plus the shaders for its triangles.
type Object struct {
	Name    string
	Model   *models.Model
	Shaders render.ShaderSource
}

// Scene is a camera and an ordered list of objects.
type Scene struct {
	Camera  *render.Camera
	Objects []*Object
}

// New creates an empty scene viewed through camera.
func New(camera *render.Camera) *Scene {
	return &Scene{Camera: camera}
}

// Add appends a model. A nil shader source draws it white.
func (s *Scene) Add(name string, model *models.Model, shaders render.ShaderSource) *Object {
	if shaders == nil {
		shaders = render.Uniform(render.SolidShader{Color: render.ColorWhite})
	}
	obj := &Object{Name: name, Model: model, Shaders: shaders}
	s.Objects = append(s.Objects, obj)
	return obj
}

// TriangleCount returns the number of triangles across all objects.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, obj := range s.Objects {
		n += obj.Model.TriangleCount()
	}
	return n
}

// Options control a render pass.
type Options struct {
	Sampler render.Sampler // nil means one sample per pixel
	Cull    render.CullMode
	Blend   render.BlendMode
	Tracer  render.Tracer

	// Workers > 1 fills row bands in parallel.
	Workers int

	// Wireframe overlays triangle edges after filling.
	Wireframe      bool
	WireframeColor render.Color

	// Axes draws the world X, Y and Z axes (red, green, blue) of AxesLength,
	// 1 when zero, on top of everything else.
	Axes       bool
	AxesLength float32
}

// Render draws every object into target in order. Depth and color are not
// cleared first.
func (s *Scene) Render(ctx context.Context, target *render.RenderTarget, opts Options) error {
	if s.Camera == nil {
		return fmt.Errorf("%w: no camera", ErrInvalidScene)
	}
	if err := s.Camera.Validate(); err != nil {
		return err
	}

	start := time.Now()
	stats := &render.Stats{}
	var tracer render.Tracer = stats
	if opts.Tracer != nil {
		tracer = render.MultiTracer{opts.Tracer, stats}
	}

	r := render.NewRasterizer(s.Camera, target)
	if opts.Sampler != nil {
		r.Sampler = opts.Sampler
	}
	r.Cull = opts.Cull
	r.Blend = opts.Blend
	r.Tracer = tracer

	view := s.Camera.ViewMatrix()
	parallel := opts.Workers > 1
	var prims []render.Primitive
	for _, obj := range s.Objects {
		if err := ctx.Err(); err != nil {
			return err
		}
		modelView := obj.Model.Transform().Compose(view)
		if parallel {
			prims = append(prims, r.PrepareMesh(obj.Model.Mesh, modelView, obj.Shaders)...)
		} else {
			r.DrawMesh(obj.Model.Mesh, modelView, obj.Shaders)
		}
	}
	if parallel {
		if err := r.FillParallel(ctx, prims, opts.Workers); err != nil {
			return err
		}
	}

	if opts.Wireframe {
		color := opts.WireframeColor
		if color == (render.Color{}) {
			color = render.ColorGreen
		}
		w := render.NewWireframe(r, color)
		for _, obj := range s.Objects {
			w.DrawMesh(obj.Model.Mesh, obj.Model.Transform().Compose(view))
		}
	}
	if opts.Axes {
		length := opts.AxesLength
		if length == 0 {
			length = 1
		}
		render.NewWireframe(r, render.ColorWhite).DrawAxes(view, length)
	}

	render.Logger().Info("frame rendered",
		"width", target.Width(),
		"height", target.Height(),
		"objects", len(s.Objects),
		"workers", max(opts.Workers, 1),
		"elapsed", time.Since(start),
		"stats", stats)
	return nil
}
