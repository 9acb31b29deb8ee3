//go:build android || ios

// Command panlab-mobile hosts the surface in a golang.org/x/mobile app.
// Build it with gomobile.
package main

import (
	"log/slog"
	"os"

	"github.com/hubastard/panlab/engine/core"
	"github.com/hubastard/panlab/engine/gfx/mobilegl"
	"github.com/hubastard/panlab/engine/surface"
	"golang.org/x/mobile/app"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"
	"golang.org/x/mobile/gl"
)

type host struct {
	dev     *mobilegl.Device
	surf    *surface.Surface
	created bool
	w, h    int
}

// attach makes ctx current for the surface, creating the surface on the
// first visible transition.
func (h *host) attach(ctx gl.Context) {
	if h.dev == nil {
		h.dev = mobilegl.NewDevice(ctx)
		h.surf = surface.New(h.dev, surface.Options{})
		return
	}
	h.dev.Rebind(ctx)
}

// sync creates or resizes the surface once both a context and a size exist.
func (h *host) sync() {
	if h.surf == nil || h.w <= 0 || h.h <= 0 {
		return
	}
	if !h.created {
		if err := h.surf.OnSurfaceCreated(h.w, h.h); err != nil {
			// No caller to return to on mobile.
			panic(err)
		}
		h.created = true
		return
	}
	h.surf.OnSurfaceChanged(h.w, h.h)
}

func (h *host) detach() {
	if h.created {
		h.surf.OnSurfaceDestroyed()
		h.created = false
	}
}

func (h *host) touch(e touch.Event) {
	id := core.PointerID(e.Sequence)
	switch e.Type {
	case touch.TypeBegin:
		h.surf.HandleEvent(core.EventPointerDown{ID: id, X: e.X, Y: e.Y})
	case touch.TypeMove:
		h.surf.HandleEvent(core.EventPointerMove{ID: id, X: e.X, Y: e.Y})
	case touch.TypeEnd:
		h.surf.HandleEvent(core.EventPointerUp{ID: id, X: e.X, Y: e.Y})
	}
}

func main() {
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app.Main(func(a app.App) {
		h := &host{}
		for e := range a.Events() {
			switch e := a.Filter(e).(type) {
			case lifecycle.Event:
				switch e.Crosses(lifecycle.StageVisible) {
				case lifecycle.CrossOn:
					ctx, ok := e.DrawContext.(gl.Context)
					if !ok {
						continue
					}
					h.attach(ctx)
					h.sync()
					a.Send(paint.Event{})
				case lifecycle.CrossOff:
					h.detach()
				}
				if e.To == lifecycle.StageDead {
					return
				}

			case size.Event:
				h.w, h.h = e.WidthPx, e.HeightPx
				h.sync()

			case touch.Event:
				if h.surf != nil {
					h.touch(e)
				}

			case paint.Event:
				if !h.created || e.External {
					continue
				}
				if err := h.surf.OnDrawFrame(); err != nil {
					panic(err)
				}
				a.Publish()
				a.Send(paint.Event{})
			}
		}
	})
}
