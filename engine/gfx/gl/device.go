// Package glbackend implements core.Device on desktop OpenGL 3.3 core.
package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/panlab/engine/core"
)

// Device issues GL calls on the current context. A core profile needs a
// bound vertex array object for any attribute state; Device owns one for
// its whole lifetime.
type Device struct {
	vao     uint32
	pending error
}

var _ core.Device = (*Device)(nil)

// NewDevice loads the GL entry points for the current context and prepares
// the state the engine relies on. The context must be current on the
// calling thread.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	core.Logger().Info("gl context",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))

	d := &Device{}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	// gl_PointSize is ignored unless enabled.
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	if err := d.Err(); err != nil {
		d.Release()
		return nil, err
	}
	return d, nil
}

// Release deletes the vertex array object.
func (d *Device) Release() {
	if d.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func (d *Device) Dialect() core.ShaderDialect { return core.GLSL330 }

func (d *Device) CreateShader(stage core.ShaderStage) core.Shader {
	switch stage {
	case core.VertexStage:
		return core.Shader(gl.CreateShader(gl.VERTEX_SHADER))
	case core.FragmentStage:
		return core.Shader(gl.CreateShader(gl.FRAGMENT_SHADER))
	}
	return 0
}

func (d *Device) ShaderSource(s core.Shader, src string) {
	csrc, free := gl.Strs(src + "\x00")
	defer free()
	gl.ShaderSource(uint32(s), 1, csrc, nil)
}

func (d *Device) CompileShader(s core.Shader) { gl.CompileShader(uint32(s)) }

func (d *Device) ShaderCompiled(s core.Shader) bool {
	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ShaderInfoLog(s core.Shader) string {
	var logLen int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetShaderInfoLog(uint32(s), logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) DeleteShader(s core.Shader) { gl.DeleteShader(uint32(s)) }

func (d *Device) CreateProgram() core.Program { return core.Program(gl.CreateProgram()) }

func (d *Device) AttachShader(p core.Program, s core.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (d *Device) DetachShader(p core.Program, s core.Shader) {
	gl.DetachShader(uint32(p), uint32(s))
}

func (d *Device) LinkProgram(p core.Program) { gl.LinkProgram(uint32(p)) }

func (d *Device) ProgramLinked(p core.Program) bool {
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (d *Device) ProgramInfoLog(p core.Program) string {
	var logLen int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(uint32(p), logLen, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) DeleteProgram(p core.Program) { gl.DeleteProgram(uint32(p)) }
func (d *Device) UseProgram(p core.Program)    { gl.UseProgram(uint32(p)) }

func (d *Device) AttribLocation(p core.Program, name string) (core.Attrib, bool) {
	loc := gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
	if loc < 0 {
		return 0, false
	}
	return core.Attrib(loc), true
}

func (d *Device) UniformLocation(p core.Program, name string) (core.Uniform, bool) {
	loc := gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
	if loc < 0 {
		return 0, false
	}
	return core.Uniform(loc), true
}

func (d *Device) EnableVertexAttribArray(a core.Attrib)  { gl.EnableVertexAttribArray(uint32(a)) }
func (d *Device) DisableVertexAttribArray(a core.Attrib) { gl.DisableVertexAttribArray(uint32(a)) }

func (d *Device) VertexAttrib3f(a core.Attrib, x, y, z float32) {
	gl.VertexAttrib3f(uint32(a), x, y, z)
}

func (d *Device) VertexAttribPointer(a core.Attrib, size int, b core.Buffer) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.VertexAttribPointerWithOffset(uint32(a), int32(size), gl.FLOAT, false, 0, 0)
}

func (d *Device) CreateBuffer() core.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return core.Buffer(b)
}

func (d *Device) BufferData(b core.Buffer, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
}

func (d *Device) DeleteBuffer(b core.Buffer) {
	buf := uint32(b)
	gl.DeleteBuffers(1, &buf)
}

func (d *Device) UniformMatrix4fv(u core.Uniform, m [16]float32) {
	gl.UniformMatrix4fv(int32(u), 1, false, &m[0])
}

func (d *Device) Uniform4f(u core.Uniform, x, y, z, w float32) {
	gl.Uniform4f(int32(u), x, y, z, w)
}

func (d *Device) Viewport(x, y, w, h int) {
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
}

func (d *Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (d *Device) Clear()                        { gl.Clear(gl.COLOR_BUFFER_BIT) }

// LineWidth above 1 is optional in a forward-compatible core profile; some
// drivers clamp it and raise INVALID_VALUE, which is dropped here so wide
// lines degrade instead of stopping the loop.
func (d *Device) LineWidth(w float32) {
	if err := d.Err(); err != nil && d.pending == nil {
		d.pending = err
	}
	gl.LineWidth(w)
	if e := gl.GetError(); e == gl.INVALID_VALUE {
		core.Logger().Debug("gl line width unsupported", "width", w)
	} else if e != gl.NO_ERROR && d.pending == nil {
		d.pending = glError(e)
	}
}

func (d *Device) DrawArrays(mode core.Primitive, first, count int) {
	gl.DrawArrays(primitive(mode), int32(first), int32(count))
}

func primitive(p core.Primitive) uint32 {
	switch p {
	case core.Points:
		return gl.POINTS
	case core.Lines:
		return gl.LINES
	case core.LineLoop:
		return gl.LINE_LOOP
	case core.TriangleStrip:
		return gl.TRIANGLE_STRIP
	}
	return gl.POINTS
}

// Err drains the GL error queue and reports the first one.
func (d *Device) Err() error {
	if err := d.pending; err != nil {
		d.pending = nil
		for gl.GetError() != gl.NO_ERROR {
		}
		return err
	}
	var first uint32
	for e := gl.GetError(); e != gl.NO_ERROR; e = gl.GetError() {
		if first == 0 {
			first = e
		}
	}
	if first == 0 {
		return nil
	}
	return glError(first)
}

// glError is a GL error code.
type glError uint32

func (e glError) Error() string {
	switch uint32(e) {
	case gl.INVALID_ENUM:
		return "gl: invalid enum"
	case gl.INVALID_VALUE:
		return "gl: invalid value"
	case gl.INVALID_OPERATION:
		return "gl: invalid operation"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "gl: invalid framebuffer operation"
	case gl.OUT_OF_MEMORY:
		return "gl: out of memory"
	}
	return fmt.Sprintf("gl: error 0x%04x", uint32(e))
}
