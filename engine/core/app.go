package core

// Surface is the engine side of a host: the host creates the GPU context and
// window, then forwards lifecycle and input events into it.
type Surface interface {
	OnSurfaceCreated(w, h int) error // called once the GPU context is current
	OnSurfaceChanged(w, h int)       // framebuffer resized
	OnDrawFrame() error              // one frame at the host's cadence
	OnSurfaceDestroyed()             // before the GPU context goes away
	HandleEvent(ev Event)            // input events
}

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Event model.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

// EventKey reports a key transition; repeats arrive as Down again.
type EventKey struct {
	Key  Key
	Down bool
}

func (EventKey) isEvent() {}

// PointerID identifies one finger or the mouse for the duration of a press.
type PointerID int64

// PrimaryPointer is used by hosts with a single pointer (mouse).
const PrimaryPointer PointerID = 0

// Pointer coordinates are device pixels, origin top-left.
type EventPointerDown struct {
	ID   PointerID
	X, Y float32
}

func (EventPointerDown) isEvent() {}

type EventPointerMove struct {
	ID   PointerID
	X, Y float32
}

func (EventPointerMove) isEvent() {}

type EventPointerUp struct {
	ID   PointerID
	X, Y float32
}

func (EventPointerUp) isEvent() {}

// Key is a keyboard key the hosts react to.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyM // toggle render mode
	KeyL // toggle line width
	KeyD // toggle drift
	KeyW // toggle wireframe
)

// Config for the engine run.
type Config struct {
	Title  string
	Width  int
	Height int
	VSync  bool
}
