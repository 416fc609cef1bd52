package render

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
)

// ErrInvalidCamera is returned when camera parameters cannot produce a
// usable projection.
var ErrInvalidCamera = errors.New("render: invalid camera")

// Default projection parameters.
const (
	DefaultFOV  = math32.Pi / 4 // 45 degrees, horizontal
	DefaultNear = 0.1
	DefaultFar  = 100
)

// Camera is a perspective camera looking down +Z in its own space.
// It maps camera-space points to normalized device coordinates.
type Camera struct {
	// Position in world space
	Position math3d.Vec4

	// Orientation (Euler angles in radians)
	Pitch float32 // Rotation around X axis (look up/down)
	Yaw   float32 // Rotation around Y axis (look left/right)
	Roll  float32 // Rotation around Z axis (tilt)

	// Projection parameters
	FOV         float32 // Horizontal field of view in radians
	AspectRatio float32 // Width / Height
	Near        float32 // Near clipping plane
	Far         float32 // Far clipping plane

	viewMatrix math3d.Mat4
	viewDirty  bool
}

// NewCamera creates a camera at position with rotation (pitch, yaw, roll in
// X, Y, Z). It validates the projection parameters.
func NewCamera(position, rotation math3d.Vec4, aspect, fov, near, far float32) (*Camera, error) {
	c := &Camera{
		Position:    math3d.Point(position.X, position.Y, position.Z),
		Pitch:       rotation.X,
		Yaw:         rotation.Y,
		Roll:        rotation.Z,
		FOV:         fov,
		AspectRatio: aspect,
		Near:        near,
		Far:         far,
		viewDirty:   true,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultCamera creates a camera at the origin with the default projection.
func DefaultCamera(aspect float32) *Camera {
	return &Camera{
		Position:    math3d.Point(0, 0, 0),
		FOV:         DefaultFOV,
		AspectRatio: aspect,
		Near:        DefaultNear,
		Far:         DefaultFar,
		viewDirty:   true,
	}
}

// Validate reports whether the projection parameters are usable.
func (c *Camera) Validate() error {
	switch {
	case !(c.Near < c.Far):
		return fmt.Errorf("%w: near %v must be less than far %v", ErrInvalidCamera, c.Near, c.Far)
	case !(c.FOV > 0 && c.FOV < math32.Pi):
		return fmt.Errorf("%w: fov %v outside (0, pi)", ErrInvalidCamera, c.FOV)
	case !(c.AspectRatio > 0):
		return fmt.Errorf("%w: aspect %v must be positive", ErrInvalidCamera, c.AspectRatio)
	}
	return nil
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec4) {
	c.Position = math3d.Point(pos.X, pos.Y, pos.Z)
	c.viewDirty = true
}

// SetRotation sets the camera rotation (pitch, yaw, roll in radians).
func (c *Camera) SetRotation(pitch, yaw, roll float32) {
	c.Pitch = pitch
	c.Yaw = yaw
	c.Roll = roll
	c.viewDirty = true
}

// Rotation returns (pitch, yaw, roll) packed as a direction.
func (c *Camera) Rotation() math3d.Vec4 {
	return math3d.Direction(c.Pitch, c.Yaw, c.Roll)
}

// ViewMatrix returns the world to camera space transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.computeViewMatrix()
		c.viewDirty = false
	}
	return c.viewMatrix
}

func (c *Camera) computeViewMatrix() {
	// View = Rotation⁻¹ * Translation(-position)
	rot := math3d.RotateZ(-c.Roll).Mul(
		math3d.RotateX(-c.Pitch)).Mul(
		math3d.RotateY(-c.Yaw))

	trans := math3d.Translate(c.Position.Negate3())

	c.viewMatrix = rot.Mul(trans)
}

// Forward returns the world-space viewing direction.
func (c *Camera) Forward() math3d.Vec4 {
	return math3d.RotateEuler(c.Pitch, c.Yaw, c.Roll).MulVec4(math3d.Direction(0, 0, 1))
}

// Orbit places the camera on a sphere of radius around target, looking at
// it. Yaw turns around the Y axis, pitch tilts up and down.
func (c *Camera) Orbit(target math3d.Vec4, radius, pitch, yaw float32) {
	const maxPitch = math32.Pi/2 - 0.01
	pitch = math32.Max(-maxPitch, math32.Min(maxPitch, pitch))

	c.Pitch = pitch
	c.Yaw = yaw
	c.Roll = 0
	c.viewDirty = true

	back := c.Forward().Scale(-radius)
	c.Position = math3d.Point(target.X+back.X, target.Y+back.Y, target.Z+back.Z)
}

// ProjectVector maps a camera-space point to NDC:
//
//	x = v.x / (aspect * tan(fov/2) * v.z)
//	y = v.y / v.z
//	z = (v.z - near) / (far - near)
//
// A point on the camera plane (v.z == 0) yields NaN in x and y, which the
// rasterizer rejects as degenerate.
func (c *Camera) ProjectVector(v math3d.Vec4) math3d.Vec4 {
	z := (v.Z - c.Near) / (c.Far - c.Near)
	if v.Z == 0 {
		nan := math32.NaN()
		return math3d.V4(nan, nan, z, 1)
	}
	return math3d.V4(
		v.X/(c.AspectRatio*math32.Tan(c.FOV/2)*v.Z),
		v.Y/v.Z,
		z,
		1,
	)
}

// ProjectTriangle projects each vertex independently. No clipping is done.
func (c *Camera) ProjectTriangle(tri models.Triangle) models.Triangle {
	return models.Triangle{
		A: c.ProjectVector(tri.A),
		B: c.ProjectVector(tri.B),
		C: c.ProjectVector(tri.C),
	}
}

// ContainsPoint reports whether an NDC point lies in [-1, 1]³. NaN
// coordinates are outside.
func (c *Camera) ContainsPoint(x, y, z float32) bool {
	return inUnit(x) && inUnit(y) && inUnit(z)
}

func inUnit(v float32) bool {
	return v >= -1 && v <= 1
}
