// Package platform hosts the surface in a desktop window.
package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/panlab/engine/core"
)

// GLFWWindow is a core.Window backed by GLFW. Only the left mouse button
// produces pointer events.
type GLFWWindow struct {
	w       *glfw.Window
	onEv    func(core.Event)
	pressed bool
	x, y    float32 // last cursor position, framebuffer pixels
}

var _ core.Window = (*GLFWWindow)(nil)

// NewGLFWWindow opens a window with a current GL 3.3 core context. Must be
// called on the main thread before any GL calls.
func NewGLFWWindow(cfg core.Config, onEvent func(core.Event)) (*GLFWWindow, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	// Mac requires the forward-compatible flag, which makes wide lines
	// optional; drivers may draw every line one pixel wide.
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	gw := &GLFWWindow{w: win, onEv: onEvent}

	win.SetCloseCallback(func(*glfw.Window) { gw.emit(core.EventCloseRequested{}) })
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gw.emit(core.EventResize{W: w, H: h})
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		gw.x, gw.y = gw.toFramebuffer(x, y)
		if gw.pressed {
			gw.emit(core.EventPointerMove{ID: core.PrimaryPointer, X: gw.x, Y: gw.y})
		}
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if b != glfw.MouseButtonLeft {
			return
		}
		gw.x, gw.y = gw.toFramebuffer(gw.w.GetCursorPos())
		switch action {
		case glfw.Press:
			gw.pressed = true
			gw.emit(core.EventPointerDown{ID: core.PrimaryPointer, X: gw.x, Y: gw.y})
		case glfw.Release:
			gw.pressed = false
			gw.emit(core.EventPointerUp{ID: core.PrimaryPointer, X: gw.x, Y: gw.y})
		}
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if k := translateKey(key); k != core.KeyUnknown {
			gw.emit(core.EventKey{Key: k, Down: action != glfw.Release})
		}
	})

	return gw, nil
}

// toFramebuffer converts screen coordinates to framebuffer pixels; they
// differ on high-DPI displays.
func (g *GLFWWindow) toFramebuffer(x, y float64) (float32, float32) {
	ww, wh := g.w.GetSize()
	fw, fh := g.w.GetFramebufferSize()
	if ww == 0 || wh == 0 {
		return float32(x), float32(y)
	}
	return float32(x * float64(fw) / float64(ww)), float32(y * float64(fh) / float64(wh))
}

func (g *GLFWWindow) emit(ev core.Event) {
	if g.onEv != nil {
		g.onEv(ev)
	}
}

// Destroy closes the window and releases GLFW.
func (g *GLFWWindow) Destroy() {
	g.w.Destroy()
	glfw.Terminate()
}

func (g *GLFWWindow) PollEvents()                          { glfw.PollEvents() }
func (g *GLFWWindow) SwapBuffers()                         { g.w.SwapBuffers() }
func (g *GLFWWindow) ShouldClose() bool                    { return g.w.ShouldClose() }
func (g *GLFWWindow) RequestClose()                        { g.w.SetShouldClose(true) }
func (g *GLFWWindow) FramebufferSize() (int, int)          { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) SetTitle(t string)                    { g.w.SetTitle(t) }
func (g *GLFWWindow) SetEventCallback(cb func(core.Event)) { g.onEv = cb }

func translateKey(k glfw.Key) core.Key {
	switch k {
	case glfw.KeyEscape:
		return core.KeyEscape
	case glfw.KeyM:
		return core.KeyM
	case glfw.KeyL:
		return core.KeyL
	case glfw.KeyD:
		return core.KeyD
	case glfw.KeyW:
		return core.KeyW
	default:
		return core.KeyUnknown
	}
}
