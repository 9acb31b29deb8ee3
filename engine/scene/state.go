package scene

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/panlab/engine/core"
)

const (
	thinLine  = 1
	thickLine = 20
)

// Flags is a snapshot of the per-frame render switches.
type Flags struct {
	Mode      core.Primitive // Points or Lines
	LineWidth int
	Drift     bool
	Wireframe bool
}

// State owns the draggable endpoints and the render flags.
//
// Endpoints are guarded by a lock so an (x, y) pair is always read whole.
// Flags are plain atomics: last write wins and the next frame sees it.
type State struct {
	mu        sync.RWMutex
	endpoints []mgl32.Vec2

	mode      atomic.Int32
	lineWidth atomic.Int32
	drift     atomic.Bool
	wireframe atomic.Bool
}

// NewState returns an empty scene drawing lines one pixel wide.
func NewState() *State {
	s := &State{}
	s.mode.Store(int32(core.Lines))
	s.lineWidth.Store(thinLine)
	return s
}

// Seed places the initial two endpoints for a w×h viewport, unless the scene
// already has endpoints.
func (s *State) Seed(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.endpoints) > 0 {
		return
	}
	fw, fh := float32(w), float32(h)
	s.endpoints = []mgl32.Vec2{
		{0.25 * fw, 0.75 * fh},
		{0.75 * fw, 0.25 * fh},
	}
}

// SetEndpoints replaces the endpoint set.
func (s *State) SetEndpoints(pts []mgl32.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoints = append(s.endpoints[:0:0], pts...)
}

// Endpoints appends a copy of the endpoints to dst and returns it.
func (s *State) Endpoints(dst []mgl32.Vec2) []mgl32.Vec2 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(dst, s.endpoints...)
}

// NumEndpoints reports the size of the endpoint set.
func (s *State) NumEndpoints() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.endpoints)
}

// TranslateEndpoint moves endpoint i by (dx, dy) world units. It reports
// false if i is out of range.
func (s *State) TranslateEndpoint(i int, dx, dy float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.endpoints) {
		return false
	}
	s.endpoints[i] = s.endpoints[i].Add(mgl32.Vec2{dx, dy})
	return true
}

// Flags returns the current switches.
func (s *State) Flags() Flags {
	return Flags{
		Mode:      core.Primitive(s.mode.Load()),
		LineWidth: int(s.lineWidth.Load()),
		Drift:     s.drift.Load(),
		Wireframe: s.wireframe.Load(),
	}
}

// SetMode selects how endpoints are drawn. Only Points and Lines are
// accepted; anything else is ignored.
func (s *State) SetMode(m core.Primitive) {
	if m != core.Points && m != core.Lines {
		return
	}
	s.mode.Store(int32(m))
}

// ToggleMode flips between Points and Lines and returns the new mode.
func (s *State) ToggleMode() core.Primitive {
	for {
		old := s.mode.Load()
		next := core.Points
		if core.Primitive(old) == core.Points {
			next = core.Lines
		}
		if s.mode.CompareAndSwap(old, int32(next)) {
			return next
		}
	}
}

// SetLineWidth sets the line width in pixels; non-positive widths are ignored.
func (s *State) SetLineWidth(px int) {
	if px <= 0 {
		return
	}
	s.lineWidth.Store(int32(px))
}

// ToggleLineWidth switches between thin (1px) and thick (20px) lines.
func (s *State) ToggleLineWidth() int {
	for {
		old := s.lineWidth.Load()
		next := int32(thickLine)
		if old == thickLine {
			next = thinLine
		}
		if s.lineWidth.CompareAndSwap(old, next) {
			return int(next)
		}
	}
}

func (s *State) SetDrift(on bool)     { s.drift.Store(on) }
func (s *State) SetWireframe(on bool) { s.wireframe.Store(on) }

func (s *State) ToggleDrift() bool     { return toggle(&s.drift) }
func (s *State) ToggleWireframe() bool { return toggle(&s.wireframe) }

func toggle(b *atomic.Bool) bool {
	for {
		old := b.Load()
		if b.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
