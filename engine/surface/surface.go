// Package surface is the boundary a host drives: lifecycle callbacks from
// the windowing system, pointer events and the render switches.
//
// Lifecycle and draw calls must come from the goroutine that owns the GPU
// context. Pointer events and flag setters may come from any goroutine.
package surface

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/panlab/engine/assets"
	"github.com/hubastard/panlab/engine/colors"
	"github.com/hubastard/panlab/engine/core"
	"github.com/hubastard/panlab/engine/gfx/renderer2d"
	"github.com/hubastard/panlab/engine/gfx/shader"
	"github.com/hubastard/panlab/engine/scene"
)

// Options tunes a Surface. Zero fields take defaults.
type Options struct {
	HitRadius                float32 // pixels
	DriftSpeedX, DriftSpeedY float32 // pixels per second
	Clock                    func() time.Time
}

// Surface owns the scene and, between created and destroyed, its GPU
// resources.
type Surface struct {
	dev  core.Device
	opts Options

	transform *scene.Transform
	state     *scene.State
	ctrl      *scene.Controller

	// GPU side; render goroutine only.
	pipe *shader.Pipeline
	loop *renderer2d.RenderLoop

	statsMu sync.Mutex
	stats   renderer2d.Statistics
}

var _ core.Surface = (*Surface)(nil)

// New returns a surface drawing through dev. Nothing touches the GPU until
// OnSurfaceCreated.
func New(dev core.Device, opts Options) *Surface {
	t := scene.NewTransform(0, 0)
	st := scene.NewState()
	ctrl := scene.NewController(t, st)
	if opts.HitRadius > 0 {
		ctrl.HitRadius = opts.HitRadius
	}
	return &Surface{dev: dev, opts: opts, transform: t, state: st, ctrl: ctrl}
}

// OnSurfaceCreated builds the shader pipeline and GPU buffers, seeds the
// endpoints for a w×h viewport and sets up the transform. An error here is
// fatal: the surface cannot render.
func (s *Surface) OnSurfaceCreated(w, h int) error {
	log := core.Logger()
	if s.pipe != nil {
		// Created twice without a destroy in between; drop the old objects.
		s.OnSurfaceDestroyed()
	}

	vert, frag, err := assets.SurfaceShaders(s.dev.Dialect())
	if err != nil {
		return fmt.Errorf("surface shaders: %w", err)
	}
	pipe, err := shader.Build(s.dev, renderer2d.Desc(vert, frag))
	if err != nil {
		log.Error("shader pipeline failed", "err", err)
		return fmt.Errorf("surface pipeline: %w", err)
	}
	s.pipe = pipe

	s.state.Seed(w, h)
	s.transform.OnResize(w, h)

	r, g, b, a := colors.Background.RGBA()
	s.dev.ClearColor(r, g, b, a)
	s.dev.Viewport(0, 0, w, h)
	pipe.Activate()

	s.loop = renderer2d.New(s.dev, pipe, s.transform, s.state, renderer2d.Config{
		DriftSpeedX: s.opts.DriftSpeedX,
		DriftSpeedY: s.opts.DriftSpeedY,
		Clock:       s.opts.Clock,
	})

	if err := s.dev.Err(); err != nil {
		s.OnSurfaceDestroyed()
		return fmt.Errorf("surface created: %w", err)
	}
	log.Info("surface created", "w", w, "h", h, "dialect", s.dev.Dialect())
	return nil
}

// OnSurfaceChanged resizes the viewport and the projection.
func (s *Surface) OnSurfaceChanged(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	core.Logger().Info("surface changed", "w", w, "h", h)
	s.dev.Viewport(0, 0, w, h)
	s.transform.OnResize(w, h)
}

// OnDrawFrame renders one frame. A non-nil error is fatal.
func (s *Surface) OnDrawFrame() error {
	if s.loop == nil {
		return nil
	}
	if err := s.loop.Frame(); err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	s.statsMu.Lock()
	s.stats = s.loop.Stats()
	s.statsMu.Unlock()
	return nil
}

// OnSurfaceDestroyed releases every GPU resource. The scene itself (endpoints,
// pan) survives, so a later OnSurfaceCreated resumes where it left off.
func (s *Surface) OnSurfaceDestroyed() {
	if s.loop != nil {
		s.loop.Release()
		s.loop = nil
	}
	if s.pipe != nil {
		s.pipe.Deactivate()
		s.pipe.Release()
		s.pipe = nil
	}
	core.Logger().Info("surface destroyed")
}

// HandleEvent forwards pointer events to the input controller.
func (s *Surface) HandleEvent(ev core.Event) { s.ctrl.HandleEvent(ev) }

// OnPointerDown, OnPointerMove and OnPointerUp drive the controller for the
// primary pointer. Coordinates are device pixels, origin top-left.
func (s *Surface) OnPointerDown(x, y float32) { s.ctrl.PointerDown(core.PrimaryPointer, x, y) }
func (s *Surface) OnPointerMove(x, y float32) { s.ctrl.PointerMove(core.PrimaryPointer, x, y) }
func (s *Surface) OnPointerUp(x, y float32)   { s.ctrl.PointerUp(core.PrimaryPointer, x, y) }

func (s *Surface) SetRenderMode(m core.Primitive) { s.state.SetMode(m) }
func (s *Surface) SetLineWidth(px int)            { s.state.SetLineWidth(px) }
func (s *Surface) SetDrift(on bool)               { s.state.SetDrift(on) }
func (s *Surface) SetWireframe(on bool)           { s.state.SetWireframe(on) }

func (s *Surface) ToggleRenderMode() core.Primitive { return s.state.ToggleMode() }
func (s *Surface) ToggleLineWidth() int             { return s.state.ToggleLineWidth() }
func (s *Surface) ToggleDrift() bool                { return s.state.ToggleDrift() }
func (s *Surface) ToggleWireframe() bool            { return s.state.ToggleWireframe() }

// Flags returns the current render switches.
func (s *Surface) Flags() scene.Flags { return s.state.Flags() }

// Endpoints returns a copy of the endpoints in world space.
func (s *Surface) Endpoints() []mgl32.Vec2 { return s.state.Endpoints(nil) }

// Offset returns the accumulated world pan.
func (s *Surface) Offset() (x, y float64) { return s.transform.Offset() }

// Mode returns the controller's gesture and dragged endpoint.
func (s *Surface) Mode() (scene.DragMode, int) { return s.ctrl.Mode() }

// Stats returns the last frame's statistics.
func (s *Surface) Stats() renderer2d.Statistics {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}
