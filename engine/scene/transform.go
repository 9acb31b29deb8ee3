package scene

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform owns the projection matrix mapping world coordinates to clip
// space. World units are pixels with the origin bottom-left; the world offset
// is the accumulated pan.
//
// All methods are safe for concurrent use. The matrix is replaced as a whole
// under the lock, so readers never see half of an update.
type Transform struct {
	mu         sync.RWMutex
	w, h       int
	offX, offY float64
	ortho      mgl32.Mat4 // viewport scale; fixed until the next resize
	proj       mgl32.Mat4
}

// NewTransform returns a transform for a w×h viewport with zero offset.
// A non-positive size leaves the matrix zero until the first OnResize.
func NewTransform(w, h int) *Transform {
	t := &Transform{}
	t.OnResize(w, h)
	return t
}

// OnResize rebuilds the scale part from the new viewport and reapplies the
// current offset. Non-positive sizes are ignored.
func (t *Transform) OnResize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w, t.h = w, h
	t.ortho = mgl32.Ortho2D(0, float32(w), 0, float32(h))
	t.rebuild()
}

// Pan adds (dx, dy) world units to the offset. Only the translation column
// of the matrix changes.
func (t *Transform) Pan(dx, dy float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offX += float64(dx)
	t.offY += float64(dy)
	t.rebuild()
}

// rebuild derives the matrix from (viewport, offset). Callers hold mu.
func (t *Transform) rebuild() {
	if t.w == 0 {
		return
	}
	t.proj = t.ortho.Mul4(mgl32.Translate3D(float32(t.offX), float32(t.offY), 0))
}

// Matrix returns a copy of the current projection matrix.
func (t *Transform) Matrix() mgl32.Mat4 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.proj
}

// Offset returns the accumulated pan.
func (t *Transform) Offset() (x, y float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.offX, t.offY
}

// Viewport returns the current size in pixels.
func (t *Transform) Viewport() (w, h int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.w, t.h
}

// WorldToClip applies the matrix to the world point (x, y, 0, 1).
func (t *Transform) WorldToClip(x, y float32) (cx, cy float32) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return worldToClip(&t.proj, x, y)
}

func worldToClip(m *mgl32.Mat4, x, y float32) (float32, float32) {
	v := m.Mul4x1(mgl32.Vec4{x, y, 0, 1})
	return v[0], v[1]
}

// WorldToScreen maps world points to device pixels with the origin top-left,
// appending the results to dst. Clip space is bottom-left, so Y is flipped.
func (t *Transform) WorldToScreen(dst, points []mgl32.Vec2) []mgl32.Vec2 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	hw, hh := 0.5*float32(t.w), 0.5*float32(t.h)
	for _, p := range points {
		cx, cy := worldToClip(&t.proj, p[0], p[1])
		dst = append(dst, mgl32.Vec2{hw*cx + hw, -hh*cy + hh})
	}
	return dst
}

// ScreenDeltaToWorld converts a pixel delta, already flipped to point Y up,
// into world units using the matrix scale. With the pixel-aligned projection
// this is the identity; it stays correct if that mapping changes.
func (t *Transform) ScreenDeltaToWorld(dx, dy float32) (wx, wy float32) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.w == 0 || t.proj[0] == 0 || t.proj[5] == 0 {
		return dx, dy
	}
	// pixels -> clip is 2/size; clip -> world divides by the matrix scale.
	sx := (2 / float32(t.w)) / t.proj[0]
	sy := (2 / float32(t.h)) / t.proj[5]
	return dx * sx, dy * sy
}
