package renderer2d

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/panlab/engine/colors"
	"github.com/hubastard/panlab/engine/core"
	"github.com/hubastard/panlab/engine/floatbuf"
	"github.com/hubastard/panlab/engine/gfx/shader"
	"github.com/hubastard/panlab/engine/profiler"
	"github.com/hubastard/panlab/engine/scene"
)

// Shader variable names the loop draws with.
const (
	AttribPosition    = "aPosition"
	AttribBarycentric = "aBarycentric"
	UniformProjection = "uProjection"
	UniformColor      = "uColor"
)

const (
	HighlightHalfWidth = 30  // pixels
	FillHalfWidth      = 50  // pixels
	DefaultDriftSpeed  = 100 // pixels per second, both axes
)

// Desc describes the surface program for shader.Build.
func Desc(vert, frag string) shader.Desc {
	return shader.Desc{
		VertexSource:   vert,
		FragmentSource: frag,
		PositionAttrib: AttribPosition,
		Attribs:        []string{AttribPosition, AttribBarycentric},
		Uniforms:       []string{UniformProjection, UniformColor},
	}
}

// Statistics captures the counts generated during a frame.
type Statistics struct {
	DrawCalls   int
	VertexCount int
}

// Config tunes a RenderLoop. Zero fields take defaults.
type Config struct {
	DriftSpeedX, DriftSpeedY float32
	// Clock must return readings with a monotonic component (time.Now does).
	Clock func() time.Time
}

// group is one primitive group: CPU-side vertices and the GPU buffer they
// are uploaded to, both reused every frame.
type group struct {
	buf   core.Buffer
	verts floatbuf.Buffer
}

// RenderLoop draws the scene once per Frame. It must only be used from the
// goroutine owning the GPU context.
type RenderLoop struct {
	dev       core.Device
	transform *scene.Transform
	state     *scene.State
	wire      *Wireframe

	position core.Attrib
	uProj    core.Uniform
	uColor   core.Uniform

	segments, squares, axes, fill group
	endpoints                     []mgl32.Vec2

	driftX, driftY float32
	now            func() time.Time
	last           time.Time
	stats          Statistics
}

// New creates the loop's GPU buffers. pipe must have been built from Desc.
func New(dev core.Device, pipe *shader.Pipeline, t *scene.Transform, s *scene.State, cfg Config) *RenderLoop {
	if cfg.DriftSpeedX == 0 && cfg.DriftSpeedY == 0 {
		cfg.DriftSpeedX, cfg.DriftSpeedY = DefaultDriftSpeed, DefaultDriftSpeed
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	rl := &RenderLoop{
		dev:       dev,
		transform: t,
		state:     s,
		wire:      NewWireframe(dev, pipe.Attrib(AttribBarycentric)),
		position:  pipe.Position(),
		uProj:     pipe.Uniform(UniformProjection),
		uColor:    pipe.Uniform(UniformColor),
		driftX:    cfg.DriftSpeedX,
		driftY:    cfg.DriftSpeedY,
		now:       cfg.Clock,
	}
	for _, g := range rl.groups() {
		g.buf = dev.CreateBuffer()
		g.verts.GrowTo(16)
	}
	rl.last = rl.now()
	return rl
}

func (rl *RenderLoop) groups() []*group {
	return []*group{&rl.segments, &rl.squares, &rl.axes, &rl.fill}
}

// Stats returns the statistics of the last frame.
func (rl *RenderLoop) Stats() Statistics { return rl.stats }

// Frame clears, draws every group and advances drift. A non-nil error means
// the device failed and rendering cannot continue.
func (rl *RenderLoop) Frame() error {
	defer profiler.Start("frame")()
	rl.stats = Statistics{}
	flags := rl.state.Flags()

	rl.dev.Clear()
	rl.dev.UniformMatrix4fv(rl.uProj, rl.transform.Matrix())
	rl.dev.LineWidth(float32(flags.LineWidth))

	rl.endpoints = rl.state.Endpoints(rl.endpoints[:0])

	// Segment endpoints
	end := profiler.Start("endpoints")
	seg := &rl.segments
	seg.verts.Reset()
	for _, p := range rl.endpoints {
		seg.verts.Vec2(p[0], p[1])
	}
	rl.bind(seg, colors.Segment)
	rl.drawArrays(flags.Mode, 0, len(rl.endpoints))

	// Highlight square around each endpoint
	sq := &rl.squares
	sq.verts.Reset()
	const hw = HighlightHalfWidth
	for _, p := range rl.endpoints {
		x, y := p[0], p[1]
		sq.verts.
			Vec2(x-hw, y-hw).
			Vec2(x+hw, y-hw).
			Vec2(x+hw, y+hw).
			Vec2(x-hw, y+hw)
	}
	rl.bind(sq, colors.Highlight)
	for i := range rl.endpoints {
		rl.drawArrays(core.LineLoop, 4*i, 4)
	}
	end()

	// Axes through the world origin
	w, h := rl.transform.Viewport()
	fw, fh := float32(w), float32(h)
	ax := &rl.axes
	ax.verts.Reset()
	ax.verts.
		Vec2(-fw, 0).Vec2(fw, 0).
		Vec2(0, -fh).Vec2(0, fh)
	rl.bind(ax, colors.Axis)
	rl.drawArrays(core.Lines, 0, 4)

	// Filled square at the origin, two triangles as a strip
	end = profiler.Start("fill")
	fill := &rl.fill
	fill.verts.Reset()
	const fhw = FillHalfWidth
	fill.verts.
		Vec2(-fhw, -fhw).Vec2(fhw, -fhw).
		Vec2(-fhw, fhw).Vec2(fhw, fhw)
	rl.bind(fill, colors.Fill)
	if flags.Wireframe {
		rl.wire.Enable(4)
	}
	rl.drawArrays(core.TriangleStrip, 0, 4)
	if flags.Wireframe {
		rl.wire.Disable()
	}
	end()

	rl.advanceDrift(flags.Drift)
	return rl.dev.Err()
}

// advanceDrift pans by speed·dt, dt being the wall time since the last
// frame. dt is measured even while drift is off so enabling it never jumps.
func (rl *RenderLoop) advanceDrift(enabled bool) {
	now := rl.now()
	dt := float32(now.Sub(rl.last).Seconds())
	rl.last = now
	if enabled && dt > 0 {
		rl.transform.Pan(rl.driftX*dt, rl.driftY*dt)
	}
}

func (rl *RenderLoop) bind(g *group, c colors.Color) {
	r, gr, b, a := c.RGBA()
	rl.dev.Uniform4f(rl.uColor, r, gr, b, a)
	rl.dev.BufferData(g.buf, g.verts.Floats())
	rl.dev.VertexAttribPointer(rl.position, 2, g.buf)
}

func (rl *RenderLoop) drawArrays(mode core.Primitive, first, count int) {
	if count == 0 {
		return
	}
	rl.dev.DrawArrays(mode, first, count)
	rl.stats.DrawCalls++
	rl.stats.VertexCount += count
}

// Release frees the loop's GPU buffers. Calling it again is a no-op.
func (rl *RenderLoop) Release() {
	for _, g := range rl.groups() {
		if g.buf != 0 {
			rl.dev.DeleteBuffer(g.buf)
			g.buf = 0
		}
	}
	rl.wire.Release()
}
