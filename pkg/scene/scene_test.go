package scene

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
	"github.com/taigrr/prism/pkg/render"
)

func renderSetup(t *testing.T, setup *Setup, workers int) *render.RenderTarget {
	t.Helper()
	target := render.NewRenderTarget(setup.Width, setup.Height)
	target.Clear(setup.Background)
	opts := setup.Options
	opts.Workers = workers
	require.NoError(t, setup.Scene.Render(context.Background(), target, opts))
	return target
}

func painted(target *render.RenderTarget) int {
	n := 0
	for _, p := range target.Pixels() {
		if uint8(p) != 0 {
			n++
		}
	}
	return n
}

func TestDefaultScene(t *testing.T) {
	setup, err := Default().Build("")
	require.NoError(t, err)

	assert.Equal(t, DefaultWidth, setup.Width)
	assert.Equal(t, DefaultHeight, setup.Height)
	assert.Equal(t, 1, setup.Scene.TriangleCount())
	assert.InDelta(t, float32(20.0/15.0), setup.Scene.Camera.AspectRatio, 1e-6)

	target := renderSetup(t, setup, 1)
	assert.Positive(t, painted(target))
	// the triangle sits in the upper right quadrant
	assert.Zero(t, uint8(target.Get(0, setup.Height-1)))
}

func TestRenderTracesEveryTriangle(t *testing.T) {
	cam := render.DefaultCamera(1)
	s := New(cam)
	cube := models.NewModel(models.NewCube(1))
	cube.Translate(math3d.Point(0, 0, 4))
	s.Add("cube", cube, nil)

	stats := &render.Stats{}
	target := render.NewRenderTarget(16, 16)
	require.NoError(t, s.Render(context.Background(), target, Options{Tracer: stats}))

	assert.EqualValues(t, 12, stats.Triangles.Load())
	assert.Positive(t, stats.PixelsAccepted.Load())
	assert.Equal(t, render.ColorWhite.Pack(), target.Get(8, 8))
}

func TestRenderParallelMatchesSequential(t *testing.T) {
	cfg := &Config{
		Width:   48,
		Height:  32,
		Samples: 2,
		Camera:  CameraConfig{Position: []float32{0, 1, -1}, Rotation: []float32{0.2, 0, 0}},
		Models: []ModelConfig{
			{Name: "cube", Primitive: "cube", Size: 1.5, Position: []float32{0, 0, 4}, Rotation: []float32{0.3, 0.6, 0},
				Shader: ShaderConfig{Palette: []string{"#ff0000", "#00ff00", "#0000ff"}}},
			{Name: "quad", Primitive: "quad", Size: 3, Position: []float32{0.5, 0, 5},
				Shader: ShaderConfig{Color: "#ffff00", Alpha: ptr(float32(0.5))}},
		},
	}
	setup, err := cfg.Build("")
	require.NoError(t, err)

	seq := renderSetup(t, setup, 1)
	par := renderSetup(t, setup, 3)
	assert.Equal(t, seq.Pixels(), par.Pixels())
	assert.Positive(t, painted(seq))
}

func TestRenderCancelled(t *testing.T) {
	setup, err := Default().Build("")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target := render.NewRenderTarget(setup.Width, setup.Height)
	err = setup.Scene.Render(ctx, target, setup.Options)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, painted(target))
}

func TestRenderWithoutCamera(t *testing.T) {
	err := (&Scene{}).Render(context.Background(), render.NewRenderTarget(1, 1), Options{})
	assert.ErrorIs(t, err, ErrInvalidScene)
}

func TestWireframeOverlay(t *testing.T) {
	setup, err := Default().Build("")
	require.NoError(t, err)
	setup.Options.Wireframe = true
	setup.Options.WireframeColor = render.ColorRed

	target := renderSetup(t, setup, 1)
	found := false
	for _, p := range target.Pixels() {
		if p == render.ColorRed.Pack() {
			found = true
			break
		}
	}
	assert.True(t, found, "expected red edge pixels")
}

func TestAxesOverlay(t *testing.T) {
	cam, err := render.NewCamera(math3d.Point(0, 0, -3), math3d.Zero(), 1, render.DefaultFOV, render.DefaultNear, render.DefaultFar)
	require.NoError(t, err)
	s := New(cam)

	target := render.NewRenderTarget(21, 21)
	require.NoError(t, s.Render(context.Background(), target, Options{Axes: true}))

	seen := map[uint32]bool{}
	for _, p := range target.Pixels() {
		seen[p] = true
	}
	assert.True(t, seen[render.ColorRed.Pack()], "expected the X axis in red")
	assert.True(t, seen[render.ColorGreen.Pack()], "expected the Y axis in green")
	// pointing straight at the camera, the Z axis ends on the origin pixel
	assert.Equal(t, render.ColorBlue.Pack(), target.Get(10, 10))
}

const yamlScene = `
width: 32
height: 24
samples: 2
cull: back
blend: source-over
background: "#101010"
camera:
  position: [0, 0, -1]
  fov: 1.2
  near: 0.5
  far: 50
models:
  - name: tri
    triangles:
      - [[-1, -1, 3], [1, -1, 3], [0, 1, 3]]
    shader:
      vertex: ["#ff0000", "#00ff00", "#0000ff"]
  - name: box
    primitive: cube
    size: 0.5
    position: [1, 1, 6]
    scale: [1, 2, 1]
    shader:
      color: "#ffffff"
      alpha: 0.75
`

const tomlScene = `
width = 32
height = 24
samples = 2
cull = "back"
blend = "source-over"
background = "#101010"

[camera]
position = [0.0, 0.0, -1.0]
fov = 1.2
near = 0.5
far = 50.0

[[models]]
name = "tri"
triangles = [[[-1.0, -1.0, 3.0], [1.0, -1.0, 3.0], [0.0, 1.0, 3.0]]]
shader = { vertex = ["#ff0000", "#00ff00", "#0000ff"] }

[[models]]
name = "box"
primitive = "cube"
size = 0.5
position = [1.0, 1.0, 6.0]
scale = [1.0, 2.0, 1.0]
shader = { color = "#ffffff", alpha = 0.75 }
`

func TestDecodeFormatsAgree(t *testing.T) {
	fromYAML, err := Decode(strings.NewReader(yamlScene), "yaml")
	require.NoError(t, err)
	fromTOML, err := Decode(strings.NewReader(tomlScene), "toml")
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromTOML)
	assert.Equal(t, 32, fromYAML.Width)
	assert.Equal(t, "back", fromYAML.Cull)
	require.Len(t, fromYAML.Models, 2)
	assert.Equal(t, []float32{1, 2, 1}, fromYAML.Models[1].Scale)
	require.NotNil(t, fromYAML.Models[1].Shader.Alpha)
	assert.InDelta(t, 0.75, *fromYAML.Models[1].Shader.Alpha, 1e-6)

	setup, err := fromYAML.Build("")
	require.NoError(t, err)
	assert.Equal(t, render.CullBack, setup.Options.Cull)
	assert.Equal(t, 13, setup.Scene.TriangleCount())
	assert.Equal(t, float32(1.2), setup.Scene.Camera.FOV)

	target := renderSetup(t, setup, 1)
	assert.Equal(t, uint32(0x101010ff), target.Get(0, 0))
	assert.Positive(t, painted(target))
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("width: 4\ncolour: red\n"), "yaml")
	assert.ErrorIs(t, err, ErrInvalidScene)

	_, err = Decode(strings.NewReader("width = 4\ncolour = \"red\"\n"), "toml")
	assert.ErrorIs(t, err, ErrInvalidScene)

	_, err = Decode(strings.NewReader("{}"), "json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestBuildRejectsInvalidScenes(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no mesh source", Config{Models: []ModelConfig{{Name: "empty"}}}},
		{"two mesh sources", Config{Models: []ModelConfig{{Primitive: "cube", GLTF: "x.glb"}}}},
		{"short vertex", Config{Models: []ModelConfig{{Triangles: [][][]float32{{{0, 0}, {1, 0, 1}, {0, 1, 1}}}}}}},
		{"two vertices", Config{Models: []ModelConfig{{Triangles: [][][]float32{{{0, 0, 1}, {1, 0, 1}}}}}}},
		{"bad position", Config{Models: []ModelConfig{{Primitive: "quad", Position: []float32{1, 2}}}}},
		{"bad color", Config{Models: []ModelConfig{{Primitive: "quad", Shader: ShaderConfig{Color: "red"}}}}},
		{"two vertex colors", Config{Models: []ModelConfig{{Primitive: "quad", Shader: ShaderConfig{Vertex: []string{"#fff", "#000"}}}}}},
		{"alpha range", Config{Models: []ModelConfig{{Primitive: "quad", Shader: ShaderConfig{Alpha: ptr(float32(2))}}}}},
		{"bad cull", Config{Cull: "front"}},
		{"bad blend", Config{Blend: "multiply"}},
		{"bad background", Config{Background: "grey"}},
		{"negative size", Config{Width: -1}},
		{"camera rotation", Config{Camera: CameraConfig{Rotation: []float32{1}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.cfg.Build("")
			assert.ErrorIs(t, err, ErrInvalidScene)
		})
	}
}

func TestBuildPropagatesDomainErrors(t *testing.T) {
	_, err := (&Config{Samples: 12}).Build("")
	assert.ErrorIs(t, err, render.ErrInvalidSampleCount)

	_, err = (&Config{Camera: CameraConfig{Near: 2, Far: 1}}).Build("")
	assert.ErrorIs(t, err, render.ErrInvalidCamera)

	_, err = (&Config{Models: []ModelConfig{{Primitive: "teapot"}}}).Build("")
	assert.ErrorIs(t, err, models.ErrUnsupportedPrimitive)

	_, err = (&Config{Models: []ModelConfig{{GLTF: "missing.glb"}}}).Build(t.TempDir())
	assert.Error(t, err)
}

func TestPaletteCyclesPerTriangle(t *testing.T) {
	sc := ShaderConfig{Palette: []string{"#ff0000", "#0000ff"}}
	shaders, err := sc.build()
	require.NoError(t, err)
	assert.Equal(t, render.ColorRed, shaders(0).Shade(1, 0, 0))
	assert.Equal(t, render.ColorBlue, shaders(1).Shade(1, 0, 0))
	assert.Equal(t, render.ColorRed, shaders(4).Shade(1, 0, 0))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlScene), 0o644))

	setup, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 32, setup.Width)
	assert.Len(t, setup.Scene.Objects, 2)
	assert.Equal(t, "tri", setup.Scene.Objects[0].Name)

	_, err = LoadFile(filepath.Join(dir, "scene.json"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func ptr[T any](v T) *T { return &v }
