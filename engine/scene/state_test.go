package scene

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/panlab/engine/core"
	"github.com/stretchr/testify/assert"
)

func TestSeedPlacesInitialEndpoints(t *testing.T) {
	s := NewState()
	s.Seed(1000, 800)
	assert.Equal(t, []mgl32.Vec2{{250, 600}, {750, 200}}, s.Endpoints(nil))

	// A second seed (surface recreated) keeps the user's edits.
	s.TranslateEndpoint(0, 1, 1)
	s.Seed(10, 10)
	assert.Equal(t, mgl32.Vec2{251, 601}, s.Endpoints(nil)[0])
}

func TestTranslateEndpointOnlyTouchesOne(t *testing.T) {
	s := NewState()
	s.SetEndpoints([]mgl32.Vec2{{0, 0}, {10, 10}, {20, 20}})

	assert.True(t, s.TranslateEndpoint(1, 5, -5))
	assert.Equal(t, []mgl32.Vec2{{0, 0}, {15, 5}, {20, 20}}, s.Endpoints(nil))

	assert.False(t, s.TranslateEndpoint(3, 1, 1))
	assert.False(t, s.TranslateEndpoint(-1, 1, 1))
	assert.Equal(t, 3, s.NumEndpoints())
}

func TestEndpointsReturnsCopy(t *testing.T) {
	s := NewState()
	pts := []mgl32.Vec2{{1, 2}}
	s.SetEndpoints(pts)
	pts[0] = mgl32.Vec2{9, 9}

	got := s.Endpoints(nil)
	got[0] = mgl32.Vec2{7, 7}
	assert.Equal(t, []mgl32.Vec2{{1, 2}}, s.Endpoints(nil))
}

func TestFlagDefaults(t *testing.T) {
	assert.Equal(t, Flags{Mode: core.Lines, LineWidth: 1}, NewState().Flags())
}

func TestFlagSetters(t *testing.T) {
	s := NewState()

	s.SetMode(core.Points)
	assert.Equal(t, core.Points, s.Flags().Mode)
	s.SetMode(core.TriangleStrip)
	assert.Equal(t, core.Points, s.Flags().Mode, "only points and lines are endpoint modes")

	s.SetLineWidth(7)
	assert.Equal(t, 7, s.Flags().LineWidth)
	s.SetLineWidth(0)
	assert.Equal(t, 7, s.Flags().LineWidth)

	s.SetDrift(true)
	s.SetWireframe(true)
	f := s.Flags()
	assert.True(t, f.Drift)
	assert.True(t, f.Wireframe)
}

func TestFlagToggles(t *testing.T) {
	s := NewState()

	assert.Equal(t, core.Points, s.ToggleMode())
	assert.Equal(t, core.Lines, s.ToggleMode())

	assert.Equal(t, 20, s.ToggleLineWidth())
	assert.Equal(t, 1, s.ToggleLineWidth())
	s.SetLineWidth(5)
	assert.Equal(t, 20, s.ToggleLineWidth())

	assert.True(t, s.ToggleDrift())
	assert.False(t, s.ToggleDrift())
	assert.True(t, s.ToggleWireframe())
	assert.False(t, s.ToggleWireframe())
}

func TestConcurrentTogglesBalance(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.ToggleWireframe()
				s.ToggleMode()
				s.Flags()
			}
		}()
	}
	wg.Wait()

	// 800 toggles each: back where we started.
	f := s.Flags()
	assert.False(t, f.Wireframe)
	assert.Equal(t, core.Lines, f.Mode)
}
