package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputHandlePressEdges(t *testing.T) {
	in := NewInput()

	assert.True(t, in.Handle(EventKey{Key: KeyW, Down: true}), "first press")
	assert.False(t, in.Handle(EventKey{Key: KeyW, Down: true}), "repeat while held")
	assert.True(t, in.IsKeyDown(KeyW))

	assert.False(t, in.Handle(EventKey{Key: KeyW, Down: false}), "release")
	assert.False(t, in.IsKeyDown(KeyW))
	assert.True(t, in.Handle(EventKey{Key: KeyW, Down: true}), "press after release")
}

func TestInputIgnoresNonKeyEvents(t *testing.T) {
	in := NewInput()
	assert.False(t, in.Handle(EventPointerDown{X: 1, Y: 2}))
	assert.False(t, in.Handle(EventResize{W: 10, H: 10}))
}

func TestPrimitiveString(t *testing.T) {
	tests := []struct {
		p    Primitive
		want string
	}{
		{Points, "points"},
		{Lines, "lines"},
		{LineLoop, "line-loop"},
		{TriangleStrip, "triangle-strip"},
		{Primitive(42), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.String())
		})
	}
}
