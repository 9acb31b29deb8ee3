package scene

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldOriginMapsToTranslation(t *testing.T) {
	sizes := [][2]int{{1, 1}, {1000, 800}, {1280, 720}, {3, 7}, {4096, 2160}}
	for _, sz := range sizes {
		tr := NewTransform(sz[0], sz[1])
		m := tr.Matrix()
		cx, cy := tr.WorldToClip(0, 0)
		assert.Equal(t, m[12], cx, "size %v", sz)
		assert.Equal(t, m[13], cy, "size %v", sz)
		assert.Equal(t, float32(-1), cx)
		assert.Equal(t, float32(-1), cy)
	}
}

func TestViewportCornersMapToClipCorners(t *testing.T) {
	tr := NewTransform(1000, 800)

	cx, cy := tr.WorldToClip(1000, 800)
	assert.InDelta(t, 1, cx, 1e-6)
	assert.InDelta(t, 1, cy, 1e-6)

	cx, cy = tr.WorldToClip(500, 400)
	assert.InDelta(t, 0, cx, 1e-6)
	assert.InDelta(t, 0, cy, 1e-6)
}

func TestPanRoundTripIsExact(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float32
	}{
		{"integer", 10, -7},
		{"fractional", 0.375, 12.5},
		{"large", 12345, -9876},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransform(1000, 800)
			tr.Pan(3, 4)
			before := tr.Matrix()

			tr.Pan(tt.dx, tt.dy)
			assert.NotEqual(t, before, tr.Matrix())
			tr.Pan(-tt.dx, -tt.dy)
			assert.Equal(t, before, tr.Matrix())
		})
	}
}

func TestPanChangesOnlyTranslation(t *testing.T) {
	tr := NewTransform(640, 480)
	before := tr.Matrix()
	tr.Pan(32, -16)
	after := tr.Matrix()

	for i := 0; i < 12; i++ {
		assert.Equal(t, before[i], after[i], "element %d", i)
	}
	assert.InDelta(t, -1+2.0/640*32, after[12], 1e-6)
	assert.InDelta(t, -1+2.0/480*-16, after[13], 1e-6)

	x, y := tr.Offset()
	assert.Equal(t, 32.0, x)
	assert.Equal(t, -16.0, y)
}

func TestResizeKeepsOffset(t *testing.T) {
	tr := NewTransform(100, 100)
	tr.Pan(50, 25)
	tr.OnResize(200, 400)

	w, h := tr.Viewport()
	assert.Equal(t, 200, w)
	assert.Equal(t, 400, h)

	// The offset moves the world origin by the same number of pixels.
	cx, cy := tr.WorldToClip(0, 0)
	assert.InDelta(t, -1+2.0/200*50, cx, 1e-6)
	assert.InDelta(t, -1+2.0/400*25, cy, 1e-6)
}

func TestResizeIgnoresEmptyViewport(t *testing.T) {
	tr := NewTransform(100, 100)
	before := tr.Matrix()
	tr.OnResize(0, 50)
	tr.OnResize(50, -1)
	assert.Equal(t, before, tr.Matrix())

	w, h := tr.Viewport()
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
}

func TestPanBeforeFirstResize(t *testing.T) {
	tr := NewTransform(0, 0)
	assert.Equal(t, mgl32.Mat4{}, tr.Matrix())
	tr.Pan(10, 20)
	tr.OnResize(100, 100)

	cx, cy := tr.WorldToClip(0, 0)
	assert.InDelta(t, -0.8, cx, 1e-6)
	assert.InDelta(t, -0.6, cy, 1e-6)
}

func TestWorldToScreenFlipsY(t *testing.T) {
	tr := NewTransform(1000, 800)
	got := tr.WorldToScreen(nil, []mgl32.Vec2{{250, 600}, {750, 200}, {0, 0}})
	require.Len(t, got, 3)

	want := []mgl32.Vec2{{250, 200}, {750, 600}, {0, 800}}
	for i := range want {
		assert.InDelta(t, want[i][0], got[i][0], 1e-3, "point %d x", i)
		assert.InDelta(t, want[i][1], got[i][1], 1e-3, "point %d y", i)
	}
}

func TestWorldToScreenFollowsPan(t *testing.T) {
	tr := NewTransform(1000, 800)
	tr.Pan(10, 10)
	got := tr.WorldToScreen(nil, []mgl32.Vec2{{250, 600}})
	assert.InDelta(t, 260, got[0][0], 1e-3)
	assert.InDelta(t, 190, got[0][1], 1e-3)
}

func TestScreenDeltaToWorldIsIdentityForPixelProjection(t *testing.T) {
	for _, sz := range [][2]int{{1000, 800}, {333, 777}, {1, 1}} {
		tr := NewTransform(sz[0], sz[1])
		wx, wy := tr.ScreenDeltaToWorld(10, -10)
		assert.Equal(t, float32(10), wx, "size %v", sz)
		assert.Equal(t, float32(-10), wy, "size %v", sz)
	}
}

func TestTransformConcurrentAccess(t *testing.T) {
	tr := NewTransform(800, 600)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				tr.Pan(1, -1)
				tr.Pan(-1, 1)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				m := tr.Matrix()
				// The scale block never changes while only panning.
				assert.Equal(t, float32(2.0/800), m[0])
				tr.WorldToScreen(nil, []mgl32.Vec2{{1, 1}})
			}
		}()
	}
	wg.Wait()

	x, y := tr.Offset()
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
}
