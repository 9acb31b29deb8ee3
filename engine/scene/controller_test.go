package scene

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/panlab/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(w, h int) (*Transform, *State, *Controller) {
	tr := NewTransform(w, h)
	st := NewState()
	st.Seed(w, h)
	return tr, st, NewController(tr, st)
}

func TestHitTesting(t *testing.T) {
	// Endpoints at screen (250,200) and (750,600) on a 1000x800 viewport.
	tests := []struct {
		name      string
		x, y      float32
		wantMode  DragMode
		wantIndex int
	}{
		{"on endpoint 0", 250, 200, DraggingPoint, 0},
		{"inside box of 0", 279, 171, DraggingPoint, 0},
		{"on endpoint 1", 750, 600, DraggingPoint, 1},
		{"just outside box", 281, 200, PanningWorld, -1},
		{"far away", 500, 400, PanningWorld, -1},
		{"outside viewport", -50, 2000, PanningWorld, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, c := newTestScene(1000, 800)
			c.PointerDown(core.PrimaryPointer, tt.x, tt.y)
			mode, idx := c.Mode()
			assert.Equal(t, tt.wantMode, mode)
			assert.Equal(t, tt.wantIndex, idx)
		})
	}
}

func TestHitTestFirstMatchWins(t *testing.T) {
	_, st, c := newTestScene(1000, 800)
	// Endpoint 2 is nearer to the pointer than endpoint 1, but 1 comes first.
	st.SetEndpoints([]mgl32.Vec2{{0, 0}, {520, 400}, {505, 400}})

	c.PointerDown(core.PrimaryPointer, 504, 400)
	mode, idx := c.Mode()
	assert.Equal(t, DraggingPoint, mode)
	assert.Equal(t, 1, idx)
}

func TestDragScenario(t *testing.T) {
	tr, st, c := newTestScene(1000, 800)
	require.Equal(t, []mgl32.Vec2{{250, 600}, {750, 200}}, st.Endpoints(nil))

	c.PointerDown(core.PrimaryPointer, 250, 200)
	mode, idx := c.Mode()
	require.Equal(t, DraggingPoint, mode)
	require.Equal(t, 0, idx)

	c.PointerMove(core.PrimaryPointer, 260, 190) // screen delta (10,-10)
	assert.Equal(t, []mgl32.Vec2{{260, 610}, {750, 200}}, st.Endpoints(nil))

	ox, oy := tr.Offset()
	assert.Zero(t, ox)
	assert.Zero(t, oy)

	c.PointerUp(core.PrimaryPointer, 260, 190)
	mode, idx = c.Mode()
	assert.Equal(t, Idle, mode)
	assert.Equal(t, -1, idx)
}

func TestDragOnlyMovesSelectedEndpoint(t *testing.T) {
	tr, st, c := newTestScene(1000, 800)
	before := tr.Matrix()

	c.PointerDown(core.PrimaryPointer, 750, 600) // endpoint 1
	c.PointerMove(core.PrimaryPointer, 740, 620)
	c.PointerMove(core.PrimaryPointer, 745, 615)

	assert.Equal(t, []mgl32.Vec2{{250, 600}, {745, 185}}, st.Endpoints(nil))
	assert.Equal(t, before, tr.Matrix())
}

func TestPanMovesWorldNotEndpoints(t *testing.T) {
	tr, st, c := newTestScene(1000, 800)

	c.PointerDown(core.PrimaryPointer, 500, 400)
	c.PointerMove(core.PrimaryPointer, 520, 380)
	c.PointerUp(core.PrimaryPointer, 520, 380)

	x, y := tr.Offset()
	assert.Equal(t, 20.0, x)
	assert.Equal(t, 20.0, y)
	assert.Equal(t, []mgl32.Vec2{{250, 600}, {750, 200}}, st.Endpoints(nil))

	// The endpoint follows the world on screen, so a press at its new
	// screen position grabs it.
	c.PointerDown(core.PrimaryPointer, 270, 180)
	mode, idx := c.Mode()
	assert.Equal(t, DraggingPoint, mode)
	assert.Equal(t, 0, idx)
}

func TestMoveWhileIdleIgnored(t *testing.T) {
	tr, st, c := newTestScene(1000, 800)
	c.PointerMove(core.PrimaryPointer, 10, 10)
	c.PointerMove(core.PrimaryPointer, 300, 300)
	c.PointerUp(core.PrimaryPointer, 300, 300)

	x, y := tr.Offset()
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.Equal(t, []mgl32.Vec2{{250, 600}, {750, 200}}, st.Endpoints(nil))
}

func TestSecondPointerIgnored(t *testing.T) {
	tr, st, c := newTestScene(1000, 800)

	c.HandleEvent(core.EventPointerDown{ID: 1, X: 250, Y: 200})
	c.HandleEvent(core.EventPointerDown{ID: 2, X: 500, Y: 400})
	c.HandleEvent(core.EventPointerMove{ID: 2, X: 600, Y: 500})
	c.HandleEvent(core.EventPointerUp{ID: 2, X: 600, Y: 500})

	mode, idx := c.Mode()
	assert.Equal(t, DraggingPoint, mode, "second finger neither cancels nor pans")
	assert.Equal(t, 0, idx)

	c.HandleEvent(core.EventPointerMove{ID: 1, X: 255, Y: 195})
	c.HandleEvent(core.EventPointerUp{ID: 1, X: 255, Y: 195})
	assert.Equal(t, mgl32.Vec2{255, 605}, st.Endpoints(nil)[0])

	x, y := tr.Offset()
	assert.Zero(t, x)
	assert.Zero(t, y)

	// After release another pointer can start a gesture.
	c.HandleEvent(core.EventPointerDown{ID: 2, X: 500, Y: 400})
	mode, _ = c.Mode()
	assert.Equal(t, PanningWorld, mode)
}

func TestHandleEventIgnoresOtherEvents(t *testing.T) {
	_, _, c := newTestScene(100, 100)
	assert.False(t, c.HandleEvent(core.EventKey{Key: core.KeyW, Down: true}))
	assert.True(t, c.HandleEvent(core.EventPointerUp{}))
}

func TestDragModeString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "dragging-point", DraggingPoint.String())
	assert.Equal(t, "panning-world", PanningWorld.String())
	assert.Equal(t, "unknown", DragMode(9).String())
}

func TestControllerWithConcurrentReader(t *testing.T) {
	tr, st, c := newTestScene(800, 600)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var buf []mgl32.Vec2
		for {
			select {
			case <-done:
				return
			default:
				buf = st.Endpoints(buf[:0])
				_ = tr.Matrix()
				_ = st.Flags()
			}
		}
	}()

	for i := 0; i < 200; i++ {
		c.PointerDown(core.PrimaryPointer, 400, 300)
		c.PointerMove(core.PrimaryPointer, 401, 299)
		c.PointerMove(core.PrimaryPointer, 400, 300)
		c.PointerUp(core.PrimaryPointer, 400, 300)
	}
	close(done)
	wg.Wait()

	x, y := tr.Offset()
	assert.Zero(t, x)
	assert.Zero(t, y)
}
