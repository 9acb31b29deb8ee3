package shader

import (
	"errors"
	"testing"

	"github.com/hubastard/panlab/engine/core"
	"github.com/hubastard/panlab/engine/gfx/gfxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testVert = "uniform mat4 uProjection;\nattribute vec4 aPosition;\nattribute vec3 aBarycentric;"
	testFrag = "uniform vec4 uColor;"
)

func testDesc() Desc {
	return Desc{
		VertexSource:   testVert,
		FragmentSource: testFrag,
		PositionAttrib: "aPosition",
		Attribs:        []string{"aPosition", "aBarycentric"},
		Uniforms:       []string{"uProjection", "uColor"},
	}
}

func TestBuildResolvesHandlesAndFreesShaders(t *testing.T) {
	dev := gfxtest.NewDevice()
	p, err := Build(dev, testDesc())
	require.NoError(t, err)

	shaders, programs, _ := dev.Live()
	assert.Zero(t, shaders, "intermediate shaders are released after linking")
	assert.Equal(t, 1, programs)
	assert.NotZero(t, p.Program())

	assert.Equal(t, p.Attrib("aPosition"), p.Position())
	assert.NotEqual(t, p.Attrib("aPosition"), p.Attrib("aBarycentric"))
	assert.NotEqual(t, p.Uniform("uProjection"), p.Uniform("uColor"))
	assert.NoError(t, dev.Err())
}

func TestBuildCompileFailure(t *testing.T) {
	for _, stage := range []core.ShaderStage{core.VertexStage, core.FragmentStage} {
		t.Run(stage.String(), func(t *testing.T) {
			dev := gfxtest.NewDevice()
			dev.FailCompile = map[core.ShaderStage]string{stage: "0:1: syntax error\n0:2: oops"}

			p, err := Build(dev, testDesc())
			assert.Nil(t, p)

			var cerr *CompileError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, stage, cerr.Stage)
			assert.Contains(t, cerr.Log, "syntax error")
			assert.Contains(t, err.Error(), "SOURCE:")
			assert.Contains(t, err.Error(), "\t\t0:2: oops")

			shaders, programs, _ := dev.Live()
			assert.Zero(t, shaders)
			assert.Zero(t, programs)
			assert.NoError(t, dev.Err())
		})
	}
}

func TestBuildLinkFailure(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.FailLink = "varying mismatch"

	_, err := Build(dev, testDesc())
	var lerr *LinkError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "varying mismatch", lerr.Log)

	shaders, programs, _ := dev.Live()
	assert.Zero(t, shaders)
	assert.Zero(t, programs)
}

func TestBuildMissingHandle(t *testing.T) {
	tests := []struct {
		name, hidden, kind string
	}{
		{"attribute", "aBarycentric", "attribute"},
		{"uniform", "uColor", "uniform"},
		{"position", "aPosition", "attribute"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gfxtest.NewDevice()
			dev.Hidden = []string{tt.hidden}

			_, err := Build(dev, testDesc())
			var merr *MissingHandleError
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, tt.kind, merr.Kind)
			assert.Equal(t, tt.hidden, merr.Name)

			_, programs, _ := dev.Live()
			assert.Zero(t, programs, "program released on failure")
		})
	}
}

func TestBuildPositionNotListed(t *testing.T) {
	desc := testDesc()
	desc.PositionAttrib = "aNormal"
	_, err := Build(gfxtest.NewDevice(), desc)
	var merr *MissingHandleError
	assert.True(t, errors.As(err, &merr))
}

func TestBuildReportsDeviceError(t *testing.T) {
	dev := gfxtest.NewDevice()
	boom := errors.New("context lost")
	dev.Inject(boom)

	_, err := Build(dev, testDesc())
	assert.ErrorIs(t, err, boom)
}

func TestActivateDeactivate(t *testing.T) {
	dev := gfxtest.NewDevice()
	p, err := Build(dev, testDesc())
	require.NoError(t, err)

	p.Activate()
	assert.Equal(t, p.Program(), dev.Current())
	assert.Equal(t, []core.Attrib{p.Position()}, dev.Enabled())

	dev.EnableVertexAttribArray(p.Attrib("aBarycentric"))
	p.Deactivate()
	assert.Empty(t, dev.Enabled())
}

func TestReleaseIdempotent(t *testing.T) {
	dev := gfxtest.NewDevice()
	p, err := Build(dev, testDesc())
	require.NoError(t, err)
	p.Activate()

	p.Release()
	p.Release()
	_, programs, _ := dev.Live()
	assert.Zero(t, programs)
	assert.Zero(t, dev.Current())
	assert.NoError(t, dev.Err())
}

func TestUnresolvedNamesPanic(t *testing.T) {
	p, err := Build(gfxtest.NewDevice(), testDesc())
	require.NoError(t, err)
	assert.Panics(t, func() { p.Attrib("aNormal") })
	assert.Panics(t, func() { p.Uniform("uTime") })
}
