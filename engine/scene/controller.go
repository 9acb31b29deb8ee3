package scene

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/panlab/engine/core"
)

// DefaultHitRadius is the half-width, in pixels, of the square around an
// endpoint that grabs it.
const DefaultHitRadius = 30

// DragMode is the controller's current gesture.
type DragMode int

const (
	Idle DragMode = iota
	DraggingPoint
	PanningWorld
)

func (m DragMode) String() string {
	switch m {
	case Idle:
		return "idle"
	case DraggingPoint:
		return "dragging-point"
	case PanningWorld:
		return "panning-world"
	default:
		return "unknown"
	}
}

// Controller turns pointer events into endpoint drags or world pans.
// Only one pointer is tracked; presses from other pointers are ignored
// until it is released.
type Controller struct {
	HitRadius float32

	transform *Transform
	state     *State

	mu           sync.Mutex
	mode         DragMode
	index        int
	pointer      core.PointerID
	lastX, lastY float32
	world        []mgl32.Vec2 // scratch
	screen       []mgl32.Vec2 // scratch
}

func NewController(t *Transform, s *State) *Controller {
	return &Controller{
		HitRadius: DefaultHitRadius,
		transform: t,
		state:     s,
		index:     -1,
	}
}

// Mode returns the current gesture and, when dragging, the endpoint index
// (-1 otherwise).
func (c *Controller) Mode() (DragMode, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode, c.index
}

// HandleEvent dispatches pointer events and reports whether ev was one.
func (c *Controller) HandleEvent(ev core.Event) bool {
	switch e := ev.(type) {
	case core.EventPointerDown:
		c.PointerDown(e.ID, e.X, e.Y)
	case core.EventPointerMove:
		c.PointerMove(e.ID, e.X, e.Y)
	case core.EventPointerUp:
		c.PointerUp(e.ID, e.X, e.Y)
	default:
		return false
	}
	return true
}

// PointerDown starts a drag on the first endpoint under (x, y), or a pan if
// there is none.
func (c *Controller) PointerDown(id core.PointerID, x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != Idle && id != c.pointer {
		return
	}

	c.pointer = id
	c.lastX, c.lastY = x, y
	c.index = c.hitTest(x, y)
	if c.index >= 0 {
		c.mode = DraggingPoint
	} else {
		c.mode = PanningWorld
	}
	core.Logger().Debug("pointer down", "x", x, "y", y, "mode", c.mode, "endpoint", c.index)
}

// hitTest scans endpoints in order and returns the first whose screen
// position is within HitRadius on both axes, or -1. Callers hold mu.
func (c *Controller) hitTest(x, y float32) int {
	c.world = c.state.Endpoints(c.world[:0])
	c.screen = c.transform.WorldToScreen(c.screen[:0], c.world)
	for i, p := range c.screen {
		if math32.Abs(p[0]-x) < c.HitRadius && math32.Abs(p[1]-y) < c.HitRadius {
			return i
		}
	}
	return -1
}

// PointerMove applies the delta since the last event to the dragged
// endpoint or to the world offset.
func (c *Controller) PointerMove(id core.PointerID, x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == Idle || id != c.pointer {
		return
	}

	// Device Y grows downward; world Y grows upward.
	dx, dy := x-c.lastX, c.lastY-y
	c.lastX, c.lastY = x, y
	wx, wy := c.transform.ScreenDeltaToWorld(dx, dy)

	switch c.mode {
	case DraggingPoint:
		c.state.TranslateEndpoint(c.index, wx, wy)
	case PanningWorld:
		c.transform.Pan(wx, wy)
	}
}

// PointerUp ends the current gesture.
func (c *Controller) PointerUp(id core.PointerID, x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == Idle || id != c.pointer {
		return
	}
	core.Logger().Debug("pointer up", "x", x, "y", y, "mode", c.mode)
	c.mode = Idle
	c.index = -1
}
