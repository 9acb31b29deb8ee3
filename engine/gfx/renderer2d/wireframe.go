package renderer2d

import (
	"github.com/hubastard/panlab/engine/core"
	"github.com/hubastard/panlab/engine/floatbuf"
)

// Wireframe darkens triangle edges without a separate line pass. Each vertex
// gets a one-hot barycentric coordinate; the fragment shader blackens
// fragments whose coordinates are within a few pixels of zero.
//
// It only affects the draw call between Enable and Disable.
type Wireframe struct {
	dev    core.Device
	attrib core.Attrib
	buf    core.Buffer
	bary   floatbuf.Buffer
}

// NewWireframe allocates the overlay's vertex buffer.
func NewWireframe(dev core.Device, attrib core.Attrib) *Wireframe {
	return &Wireframe{dev: dev, attrib: attrib, buf: dev.CreateBuffer()}
}

// Barycentric fills dst with {1,0,0},{0,1,0},{0,0,1} repeating, one triple
// per vertex.
func Barycentric(dst *floatbuf.Buffer, vertexCount int) {
	dst.Reset()
	dst.Resize(3 * vertexCount)
	for i := 0; i < vertexCount; i++ {
		dst.Set(3*i+i%3, 1)
	}
}

// Enable binds barycentric coordinates for the next vertexCount vertices.
func (w *Wireframe) Enable(vertexCount int) {
	if w.bary.Len() != 3*vertexCount {
		Barycentric(&w.bary, vertexCount)
		w.dev.BufferData(w.buf, w.bary.Floats())
	}
	w.dev.EnableVertexAttribArray(w.attrib)
	w.dev.VertexAttribPointer(w.attrib, 3, w.buf)
}

// Disable unbinds the array and resets the attribute to a constant zero so
// later draws are unaffected.
func (w *Wireframe) Disable() {
	w.dev.DisableVertexAttribArray(w.attrib)
	w.dev.VertexAttrib3f(w.attrib, 0, 0, 0)
}

// Release frees the GPU buffer.
func (w *Wireframe) Release() {
	if w.buf == 0 {
		return
	}
	w.dev.DeleteBuffer(w.buf)
	w.buf = 0
}
