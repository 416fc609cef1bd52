package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/chewxy/math32"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/render"
	"github.com/taigrr/prism/pkg/scene"
)

// OrbitAxis tracks one orbit angle and its velocity. A harmonica spring
// eases the velocity back to zero.
type OrbitAxis struct {
	Angle     float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewOrbitAxis creates an axis stepped at fps.
func NewOrbitAxis(fps int) OrbitAxis {
	// Frequency 4.0, damping 1.0: critically damped, no overshoot.
	return OrbitAxis{velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// Update advances the angle by one frame.
func (a *OrbitAxis) Update() {
	a.Angle += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// OrbitState is the viewer's camera orbit around the scene center.
type OrbitState struct {
	Pitch, Yaw OrbitAxis
	Radius     float32
	fps        int
}

// NewOrbitState creates an orbit at radius with both axes at rest.
func NewOrbitState(fps int, radius float32) *OrbitState {
	return &OrbitState{
		Pitch:  NewOrbitAxis(fps),
		Yaw:    NewOrbitAxis(fps),
		Radius: radius,
		fps:    fps,
	}
}

// Update advances both axes by one frame.
func (o *OrbitState) Update() {
	o.Pitch.Update()
	o.Yaw.Update()
}

// ApplyImpulse adds to the pitch and yaw velocities.
func (o *OrbitState) ApplyImpulse(pitch, yaw float64) {
	o.Pitch.Velocity += pitch
	o.Yaw.Velocity += yaw
}

// Zoom scales the radius, keeping it in [0.5, 100].
func (o *OrbitState) Zoom(factor float32) {
	o.Radius = math32.Max(0.5, math32.Min(100, o.Radius*factor))
}

// Reset stops the orbit and restores radius.
func (o *OrbitState) Reset(radius float32) {
	o.Pitch = NewOrbitAxis(o.fps)
	o.Yaw = NewOrbitAxis(o.fps)
	o.Radius = radius
}

// sceneCenter returns the mean model origin in world space, the point the
// viewer orbits.
func sceneCenter(s *scene.Scene) math3d.Vec4 {
	if len(s.Objects) == 0 {
		return math3d.Point(0, 0, 0)
	}
	var sum math3d.Vec4
	for _, obj := range s.Objects {
		sum = sum.Add(obj.Model.Transform().Translation())
	}
	n := float32(len(s.Objects))
	return math3d.Point(sum.X/n, sum.Y/n, sum.Z/n)
}

func runViewer(ctx context.Context, setup *scene.Setup, path string) error {
	render.Logger().Debug("viewer starting", "scene", path)
	// Log records would tear the alternate screen.
	render.SetLogger(nil)

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	termRenderer := render.NewTerminalRenderer(term, width, height)
	target := render.NewRenderTarget(termRenderer.FramebufferSize())

	cam := setup.Scene.Camera
	cam.AspectRatio = target.Aspect()
	center := sceneCenter(setup.Scene)
	startRadius := math32.Max(1, cam.Position.Sub(center).Len3())
	basePitch, baseYaw := cam.Pitch, cam.Yaw
	orbit := NewOrbitState(*targetFPS, startRadius)

	opts := setup.Options
	opts.Workers = *workers
	opts.Wireframe = *wireframe
	opts.Axes = *axes

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	const impulse = 0.05
	events := term.Events()
	frame := time.Second / time.Duration(max(*targetFPS, 1))
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				target = render.NewRenderTarget(termRenderer.FramebufferSize())
				cam.AspectRatio = target.Aspect()

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c", "q"):
					return nil
				case ev.MatchString("w", "up"):
					orbit.ApplyImpulse(-impulse, 0)
				case ev.MatchString("s", "down"):
					orbit.ApplyImpulse(impulse, 0)
				case ev.MatchString("a", "left"):
					orbit.ApplyImpulse(0, -impulse)
				case ev.MatchString("d", "right"):
					orbit.ApplyImpulse(0, impulse)
				case ev.MatchString("space"):
					orbit.ApplyImpulse((rand.Float64()-0.5)*0.5, (rand.Float64()-0.5)*0.5)
				case ev.MatchString("+", "="):
					orbit.Zoom(0.9)
				case ev.MatchString("-", "_"):
					orbit.Zoom(1.1)
				case ev.MatchString("x"):
					opts.Wireframe = !opts.Wireframe
				case ev.MatchString("g"):
					opts.Axes = !opts.Axes
				case ev.MatchString("r"):
					orbit.Reset(startRadius)
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					orbit.Zoom(0.9)
				case uv.MouseWheelDown:
					orbit.Zoom(1.1)
				}
			}

		case <-ticker.C:
			orbit.Update()
			cam.Orbit(center, orbit.Radius,
				basePitch+float32(orbit.Pitch.Angle),
				baseYaw+float32(orbit.Yaw.Angle))

			target.Clear(setup.Background)
			target.ClearDepth()
			if err := setup.Scene.Render(ctx, target, opts); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("render: %w", err)
			}

			termRenderer.Render(target)
			if err := termRenderer.Flush(); err != nil {
				return fmt.Errorf("flush: %w", err)
			}
		}
	}
}
