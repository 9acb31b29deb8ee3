// Package floatbuf provides a reusable, contiguous float32 buffer for vertex
// data. Reads and writes go by index; there is no cursor to rewind.
//
// Size it once (New or GrowTo) and Reset it every frame; appends only
// allocate when the frame outgrows the capacity.
package floatbuf

import "github.com/hubastard/panlab/engine/core"

// Buffer is a growable float32 slice with explicit length.
// The zero value is an empty buffer ready to use.
type Buffer struct {
	data []float32
}

// New returns a buffer with room for capacity floats.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]float32, 0, capacity)}
}

// Reset clears the length without freeing memory.
func (b *Buffer) Reset() { b.data = b.data[:0] }

// Len returns the number of floats held.
func (b *Buffer) Len() int { return len(b.data) }

// Cap returns the current capacity.
func (b *Buffer) Cap() int { return cap(b.data) }

// At returns element i. It panics if i is out of range.
func (b *Buffer) At(i int) float32 { return b.data[i] }

// Set overwrites element i. It panics if i is out of range.
func (b *Buffer) Set(i int, v float32) { b.data[i] = v }

// Floats returns the live contents. The slice is only valid until the next
// call that changes the length.
func (b *Buffer) Floats() []float32 { return b.data }

// GrowTo increases capacity (copying current contents) if needed.
func (b *Buffer) GrowTo(minCapacity int) {
	if minCapacity <= cap(b.data) {
		return
	}
	nb := make([]float32, len(b.data), minCapacity)
	copy(nb, b.data)
	core.Logger().Debug("floatbuf grow", "from", cap(b.data), "to", minCapacity)
	b.data = nb
}

// Ensure makes room for at least n more floats, doubling capacity when it
// has to grow.
func (b *Buffer) Ensure(n int) {
	if len(b.data)+n <= cap(b.data) {
		return
	}
	newCap := cap(b.data) * 2
	if newCap < len(b.data)+n {
		newCap = len(b.data) + n
	}
	b.GrowTo(newCap)
}

// Resize sets the length to n, zeroing any newly exposed elements.
func (b *Buffer) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(b.data) {
		b.data = b.data[:n]
		return
	}
	old := len(b.data)
	b.Ensure(n - old)
	b.data = b.data[:n]
	clear(b.data[old:])
}

// Append adds values to the end and returns b for chaining.
func (b *Buffer) Append(vs ...float32) *Buffer {
	b.Ensure(len(vs))
	b.data = append(b.data, vs...)
	return b
}

// Vec2 appends one 2-component vertex.
func (b *Buffer) Vec2(x, y float32) *Buffer {
	b.Ensure(2)
	b.data = append(b.data, x, y)
	return b
}

// Vec3 appends one 3-component vertex.
func (b *Buffer) Vec3(x, y, z float32) *Buffer {
	b.Ensure(3)
	b.data = append(b.data, x, y, z)
	return b
}
