package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
	"github.com/taigrr/prism/pkg/render"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for scene files that are neither YAML
// nor TOML.
var ErrUnsupportedFormat = errors.New("scene: unsupported format")

// Default target size, matching the original demo.
const (
	DefaultWidth  = 20
	DefaultHeight = 15
)

// Config is the on-disk scene description.
type Config struct {
	Width      int           `yaml:"width,omitempty" toml:"width,omitempty"`
	Height     int           `yaml:"height,omitempty" toml:"height,omitempty"`
	Samples    int           `yaml:"samples,omitempty" toml:"samples,omitempty"`
	Cull       string        `yaml:"cull,omitempty" toml:"cull,omitempty"`
	Blend      string        `yaml:"blend,omitempty" toml:"blend,omitempty"`
	Background string        `yaml:"background,omitempty" toml:"background,omitempty"`
	Camera     CameraConfig  `yaml:"camera" toml:"camera"`
	Models     []ModelConfig `yaml:"models" toml:"models"`
}

// CameraConfig describes the camera. Zero values select defaults.
type CameraConfig struct {
	Position []float32 `yaml:"position,omitempty" toml:"position,omitempty"`
	Rotation []float32 `yaml:"rotation,omitempty" toml:"rotation,omitempty"` // pitch, yaw, roll
	FOV      float32   `yaml:"fov,omitempty" toml:"fov,omitempty"`
	Near     float32   `yaml:"near,omitempty" toml:"near,omitempty"`
	Far      float32   `yaml:"far,omitempty" toml:"far,omitempty"`
	Aspect   float32   `yaml:"aspect,omitempty" toml:"aspect,omitempty"`
}

// ModelConfig describes one model. Exactly one of Triangles, Primitive and
// GLTF selects the mesh.
type ModelConfig struct {
	Name      string        `yaml:"name,omitempty" toml:"name,omitempty"`
	Triangles [][][]float32 `yaml:"triangles,omitempty" toml:"triangles,omitempty"`
	Primitive string        `yaml:"primitive,omitempty" toml:"primitive,omitempty"`
	Size      float32       `yaml:"size,omitempty" toml:"size,omitempty"`
	GLTF      string        `yaml:"gltf,omitempty" toml:"gltf,omitempty"`
	Position  []float32     `yaml:"position,omitempty" toml:"position,omitempty"`
	Rotation  []float32     `yaml:"rotation,omitempty" toml:"rotation,omitempty"`
	Scale     []float32     `yaml:"scale,omitempty" toml:"scale,omitempty"`
	Shader    ShaderConfig  `yaml:"shader,omitempty" toml:"shader,omitempty"`
}

// ShaderConfig selects a shader. Palette cycles per triangle, Vertex blends
// three per-vertex colors, Color is solid. Alpha defaults to 1.
type ShaderConfig struct {
	Color   string   `yaml:"color,omitempty" toml:"color,omitempty"`
	Alpha   *float32 `yaml:"alpha,omitempty" toml:"alpha,omitempty"`
	Vertex  []string `yaml:"vertex,omitempty" toml:"vertex,omitempty"`
	Palette []string `yaml:"palette,omitempty" toml:"palette,omitempty"`
}

// Setup is a built scene together with its render settings.
type Setup struct {
	Scene      *Scene
	Width      int
	Height     int
	Background render.Color
	Options    Options
}

// Default returns the original demo: one triangle in front of a camera at
// the origin, on a 20x15 target.
func Default() *Config {
	return &Config{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Samples: 1,
		Models: []ModelConfig{{
			Name:      "triangle",
			Triangles: [][][]float32{{{0, 0, 1}, {1, 1, 1}, {0, 1, 1}}},
		}},
	}
}

// FormatFromPath returns "yaml" or "toml" for a scene file path.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".toml":
		return "toml", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Decode reads a scene description in format ("yaml" or "toml"). Unknown
// keys are rejected.
func Decode(r io.Reader, format string) (*Config, error) {
	var cfg Config
	switch format {
	case "yaml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
		}
	case "toml":
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &cfg, nil
}

// Load reads a scene file, choosing the decoder from the extension.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	render.Logger().Info("scene loaded", "path", path, "format", format, "models", len(cfg.Models))
	return cfg, nil
}

// LoadFile loads and builds a scene file. Relative glTF paths resolve
// against the file's directory.
func LoadFile(path string) (*Setup, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Build(filepath.Dir(path))
}

// Build validates the description and constructs the scene. dir is the
// base for relative glTF paths.
func (c *Config) Build(dir string) (*Setup, error) {
	width, height := c.Width, c.Height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrInvalidScene, width, height)
	}

	setup := &Setup{Width: width, Height: height}

	samples := c.Samples
	if samples == 0 {
		samples = 1
	}
	sampler, err := render.SamplerForPower(samples)
	if err != nil {
		return nil, err
	}
	setup.Options.Sampler = sampler

	if setup.Options.Cull, err = render.ParseCullMode(c.Cull); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if setup.Options.Blend, err = render.ParseBlendMode(c.Blend); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if c.Background != "" {
		if setup.Background, err = render.ParseHex(c.Background, 1); err != nil {
			return nil, fmt.Errorf("%w: background: %w", ErrInvalidScene, err)
		}
	}

	camera, err := c.Camera.build(float32(width) / float32(height))
	if err != nil {
		return nil, err
	}
	setup.Scene = New(camera)

	for i, mc := range c.Models {
		model, shaders, err := mc.build(dir)
		if err != nil {
			return nil, fmt.Errorf("model %d (%s): %w", i, mc.Name, err)
		}
		setup.Scene.Add(mc.Name, model, shaders)
	}
	return setup, nil
}

func (cc CameraConfig) build(targetAspect float32) (*render.Camera, error) {
	pos, err := vec3(cc.Position, 0)
	if err != nil {
		return nil, fmt.Errorf("camera position: %w", err)
	}
	rot, err := vec3(cc.Rotation, 0)
	if err != nil {
		return nil, fmt.Errorf("camera rotation: %w", err)
	}
	fov := cc.FOV
	if fov == 0 {
		fov = render.DefaultFOV
	}
	near, far := cc.Near, cc.Far
	if near == 0 && far == 0 {
		near, far = render.DefaultNear, render.DefaultFar
	}
	aspect := cc.Aspect
	if aspect == 0 {
		aspect = targetAspect
	}
	return render.NewCamera(math3d.Point(pos[0], pos[1], pos[2]), math3d.Direction(rot[0], rot[1], rot[2]), aspect, fov, near, far)
}

func (mc ModelConfig) build(dir string) (*models.Model, render.ShaderSource, error) {
	mesh, err := mc.mesh(dir)
	if err != nil {
		return nil, nil, err
	}

	model := models.NewModel(mesh)
	pos, err := vec3(mc.Position, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("position: %w", err)
	}
	rot, err := vec3(mc.Rotation, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("rotation: %w", err)
	}
	scale, err := vec3(mc.Scale, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("scale: %w", err)
	}
	model.Position = math3d.Point(pos[0], pos[1], pos[2])
	model.Rotation = math3d.Direction(rot[0], rot[1], rot[2])
	model.Scale = math3d.Point(scale[0], scale[1], scale[2])

	shaders, err := mc.Shader.build()
	if err != nil {
		return nil, nil, err
	}
	return model, shaders, nil
}

func (mc ModelConfig) mesh(dir string) (*models.Mesh, error) {
	sources := 0
	for _, set := range []bool{len(mc.Triangles) > 0, mc.Primitive != "", mc.GLTF != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("%w: need exactly one of triangles, primitive or gltf", ErrInvalidScene)
	}

	size := mc.Size
	if size == 0 {
		size = 1
	}

	switch {
	case mc.Primitive != "":
		return models.Primitive(mc.Primitive, size)
	case mc.GLTF != "":
		path := mc.GLTF
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		mesh, err := models.LoadGLB(path)
		if err != nil {
			return nil, err
		}
		render.Logger().Info("mesh loaded", "path", path, "triangles", mesh.TriangleCount())
		return mesh, nil
	}

	tris := make([]models.Triangle, 0, len(mc.Triangles))
	for i, t := range mc.Triangles {
		if len(t) != 3 {
			return nil, fmt.Errorf("%w: triangle %d has %d vertices", ErrInvalidScene, i, len(t))
		}
		var v [3]math3d.Vec4
		for j, p := range t {
			if len(p) != 3 {
				return nil, fmt.Errorf("%w: triangle %d vertex %d has %d components", ErrInvalidScene, i, j, len(p))
			}
			v[j] = math3d.Point(p[0], p[1], p[2])
		}
		tris = append(tris, models.Tri(v[0], v[1], v[2]))
	}
	return models.NewMesh(mc.Name, tris...), nil
}

func (sc ShaderConfig) build() (render.ShaderSource, error) {
	alpha := float32(1)
	if sc.Alpha != nil {
		alpha = *sc.Alpha
	}
	if alpha < 0 || alpha > 1 {
		return nil, fmt.Errorf("%w: alpha %v outside [0, 1]", ErrInvalidScene, alpha)
	}

	parse := func(hexes []string) ([]render.Color, error) {
		colors := make([]render.Color, len(hexes))
		for i, h := range hexes {
			c, err := render.ParseHex(h, alpha)
			if err != nil {
				return nil, fmt.Errorf("%w: color %q: %w", ErrInvalidScene, h, err)
			}
			colors[i] = c
		}
		return colors, nil
	}

	switch {
	case len(sc.Palette) > 0:
		palette, err := parse(sc.Palette)
		if err != nil {
			return nil, err
		}
		shaders := make([]render.Shader, len(palette))
		for i, c := range palette {
			shaders[i] = render.SolidShader{Color: c}
		}
		return func(i int) render.Shader { return shaders[i%len(shaders)] }, nil

	case len(sc.Vertex) > 0:
		if len(sc.Vertex) != 3 {
			return nil, fmt.Errorf("%w: vertex shader needs 3 colors, got %d", ErrInvalidScene, len(sc.Vertex))
		}
		c, err := parse(sc.Vertex)
		if err != nil {
			return nil, err
		}
		return render.Uniform(render.VertexColorShader{A: c[0], B: c[1], C: c[2]}), nil
	}

	hex := sc.Color
	if hex == "" {
		hex = "#ffffff"
	}
	c, err := parse([]string{hex})
	if err != nil {
		return nil, err
	}
	return render.Uniform(render.SolidShader{Color: c[0]}), nil
}

// vec3 converts an optional 3-element list. A nil list yields def in every
// component.
func vec3(v []float32, def float32) ([3]float32, error) {
	switch len(v) {
	case 0:
		return [3]float32{def, def, def}, nil
	case 3:
		return [3]float32{v[0], v[1], v[2]}, nil
	default:
		return [3]float32{}, fmt.Errorf("%w: want 3 components, got %d", ErrInvalidScene, len(v))
	}
}
