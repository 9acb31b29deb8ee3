// Package mobilegl implements core.Device on an OpenGL ES 2 context supplied
// by golang.org/x/mobile.
package mobilegl

import (
	"encoding/binary"
	"fmt"

	"github.com/hubastard/panlab/engine/core"
	"golang.org/x/mobile/exp/f32"
	"golang.org/x/mobile/gl"
)

// Device forwards to a gl.Context. A context is only valid between the
// lifecycle's visible and not-visible transitions; Rebind switches to the
// next one so the surface keeps its Device across them.
type Device struct {
	ctx gl.Context
	buf []byte // upload scratch
}

var _ core.Device = (*Device)(nil)

func NewDevice(ctx gl.Context) *Device {
	d := &Device{}
	d.Rebind(ctx)
	return d
}

// Rebind directs all further calls to ctx.
func (d *Device) Rebind(ctx gl.Context) {
	d.ctx = ctx
	core.Logger().Info("gles context",
		"version", ctx.GetString(gl.VERSION),
		"vendor", ctx.GetString(gl.VENDOR),
		"renderer", ctx.GetString(gl.RENDERER))
}

func (d *Device) Dialect() core.ShaderDialect { return core.GLSLES100 }

func (d *Device) CreateShader(stage core.ShaderStage) core.Shader {
	ty := gl.Enum(gl.VERTEX_SHADER)
	if stage == core.FragmentStage {
		ty = gl.FRAGMENT_SHADER
	}
	return core.Shader(d.ctx.CreateShader(ty).Value)
}

func shader(s core.Shader) gl.Shader    { return gl.Shader{Value: uint32(s)} }
func program(p core.Program) gl.Program { return gl.Program{Init: p != 0, Value: uint32(p)} }
func attrib(a core.Attrib) gl.Attrib    { return gl.Attrib{Value: uint(a)} }
func buffer(b core.Buffer) gl.Buffer    { return gl.Buffer{Value: uint32(b)} }
func uniform(u core.Uniform) gl.Uniform { return gl.Uniform{Value: int32(u)} }

func (d *Device) ShaderSource(s core.Shader, src string) { d.ctx.ShaderSource(shader(s), src) }
func (d *Device) CompileShader(s core.Shader)            { d.ctx.CompileShader(shader(s)) }

func (d *Device) ShaderCompiled(s core.Shader) bool {
	return d.ctx.GetShaderi(shader(s), gl.COMPILE_STATUS) != 0
}

func (d *Device) ShaderInfoLog(s core.Shader) string { return d.ctx.GetShaderInfoLog(shader(s)) }
func (d *Device) DeleteShader(s core.Shader)         { d.ctx.DeleteShader(shader(s)) }

func (d *Device) CreateProgram() core.Program {
	return core.Program(d.ctx.CreateProgram().Value)
}

func (d *Device) AttachShader(p core.Program, s core.Shader) {
	d.ctx.AttachShader(program(p), shader(s))
}

func (d *Device) DetachShader(p core.Program, s core.Shader) {
	d.ctx.DetachShader(program(p), shader(s))
}

func (d *Device) LinkProgram(p core.Program) { d.ctx.LinkProgram(program(p)) }

func (d *Device) ProgramLinked(p core.Program) bool {
	return d.ctx.GetProgrami(program(p), gl.LINK_STATUS) != 0
}

func (d *Device) ProgramInfoLog(p core.Program) string {
	return d.ctx.GetProgramInfoLog(program(p))
}

func (d *Device) DeleteProgram(p core.Program) { d.ctx.DeleteProgram(program(p)) }
func (d *Device) UseProgram(p core.Program)    { d.ctx.UseProgram(program(p)) }

func (d *Device) AttribLocation(p core.Program, name string) (core.Attrib, bool) {
	a := d.ctx.GetAttribLocation(program(p), name)
	// -1 arrives sign-extended into an unsigned value.
	if int32(a.Value) < 0 {
		return 0, false
	}
	return core.Attrib(a.Value), true
}

func (d *Device) UniformLocation(p core.Program, name string) (core.Uniform, bool) {
	u := d.ctx.GetUniformLocation(program(p), name)
	if u.Value < 0 {
		return 0, false
	}
	return core.Uniform(u.Value), true
}

func (d *Device) EnableVertexAttribArray(a core.Attrib)  { d.ctx.EnableVertexAttribArray(attrib(a)) }
func (d *Device) DisableVertexAttribArray(a core.Attrib) { d.ctx.DisableVertexAttribArray(attrib(a)) }

func (d *Device) VertexAttrib3f(a core.Attrib, x, y, z float32) {
	d.ctx.VertexAttrib3f(attrib(a), x, y, z)
}

func (d *Device) VertexAttribPointer(a core.Attrib, size int, b core.Buffer) {
	d.ctx.BindBuffer(gl.ARRAY_BUFFER, buffer(b))
	d.ctx.VertexAttribPointer(attrib(a), size, gl.FLOAT, false, 0, 0)
}

func (d *Device) CreateBuffer() core.Buffer { return core.Buffer(d.ctx.CreateBuffer().Value) }

func (d *Device) BufferData(b core.Buffer, data []float32) {
	d.buf = append(d.buf[:0], f32.Bytes(binary.LittleEndian, data...)...)
	d.ctx.BindBuffer(gl.ARRAY_BUFFER, buffer(b))
	d.ctx.BufferData(gl.ARRAY_BUFFER, d.buf, gl.DYNAMIC_DRAW)
}

func (d *Device) DeleteBuffer(b core.Buffer) { d.ctx.DeleteBuffer(buffer(b)) }

func (d *Device) UniformMatrix4fv(u core.Uniform, m [16]float32) {
	d.ctx.UniformMatrix4fv(uniform(u), m[:])
}

func (d *Device) Uniform4f(u core.Uniform, x, y, z, w float32) {
	d.ctx.Uniform4f(uniform(u), x, y, z, w)
}

func (d *Device) Viewport(x, y, w, h int)        { d.ctx.Viewport(x, y, w, h) }
func (d *Device) ClearColor(r, g, b, a float32) { d.ctx.ClearColor(r, g, b, a) }
func (d *Device) Clear()                        { d.ctx.Clear(gl.COLOR_BUFFER_BIT) }
func (d *Device) LineWidth(w float32)           { d.ctx.LineWidth(w) }

func (d *Device) DrawArrays(mode core.Primitive, first, count int) {
	d.ctx.DrawArrays(primitive(mode), first, count)
}

func primitive(p core.Primitive) gl.Enum {
	switch p {
	case core.Lines:
		return gl.LINES
	case core.LineLoop:
		return gl.LINE_LOOP
	case core.TriangleStrip:
		return gl.TRIANGLE_STRIP
	}
	return gl.POINTS
}

// Err reports the first queued GL error and drains the rest.
func (d *Device) Err() error {
	var first gl.Enum
	for e := d.ctx.GetError(); e != gl.NO_ERROR; e = d.ctx.GetError() {
		if first == 0 {
			first = e
		}
	}
	if first == 0 {
		return nil
	}
	return fmt.Errorf("gles: error 0x%04x", uint32(first))
}
