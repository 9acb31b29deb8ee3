// Package gfxtest provides a recording core.Device for tests that exercise
// GPU-facing code without a GPU.
package gfxtest

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hubastard/panlab/engine/core"
)

// ErrInvalidOperation is raised (through Err) for calls a real driver would
// reject: using deleted objects, drawing past the end of a buffer.
var ErrInvalidOperation = errors.New("gfxtest: invalid operation")

// Draw is one recorded DrawArrays call with the state it consumed.
type Draw struct {
	Mode         core.Primitive
	First, Count int
	Color        [4]float32 // value of the first vec4 uniform
	Projection   [16]float32
	LineWidth    float32
	// Arrays holds, per enabled attribute name, the components of the drawn
	// vertices.
	Arrays map[string][]float32
	// Constants holds the constant value of disabled attributes that were
	// set with VertexAttrib3f.
	Constants map[string][3]float32
}

type shaderObj struct {
	stage    core.ShaderStage
	src      string
	compiled bool
}

type programObj struct {
	attached map[core.Shader]bool
	sources  []string
	linked   bool
	attribs  map[string]core.Attrib
	uniforms map[string]core.Uniform
}

type pointer struct {
	size int
	buf  core.Buffer
}

// Device records calls made through core.Device.
type Device struct {
	DialectName core.ShaderDialect

	// FailCompile makes compilation of a stage fail with the given log.
	FailCompile map[core.ShaderStage]string
	// FailLink makes linking fail with the given log.
	FailLink string
	// Hidden names are reported as not active in any program.
	Hidden []string

	Draws      []Draw
	Clears     int
	ClearRGBA  [4]float32
	ViewportWH [4]int

	next      uint32
	pending   error
	shaders   map[core.Shader]*shaderObj
	programs  map[core.Program]*programObj
	buffers   map[core.Buffer][]float32
	current   core.Program
	enabled   map[core.Attrib]bool
	pointers  map[core.Attrib]pointer
	constants map[core.Attrib][3]float32
	vec4s     map[core.Uniform][4]float32
	mats      map[core.Uniform][16]float32
	lineWidth float32
}

// NewDevice returns an empty device speaking GLSL 330.
func NewDevice() *Device {
	return &Device{
		DialectName: core.GLSL330,
		shaders:     map[core.Shader]*shaderObj{},
		programs:    map[core.Program]*programObj{},
		buffers:     map[core.Buffer][]float32{},
		enabled:     map[core.Attrib]bool{},
		pointers:    map[core.Attrib]pointer{},
		constants:   map[core.Attrib][3]float32{},
		vec4s:       map[core.Uniform][4]float32{},
		mats:        map[core.Uniform][16]float32{},
		lineWidth:   1,
	}
}

var _ core.Device = (*Device)(nil)

func (d *Device) id() uint32 { d.next++; return d.next }

func (d *Device) fail(format string, args ...any) {
	if d.pending == nil {
		d.pending = fmt.Errorf("%w: "+format, append([]any{ErrInvalidOperation}, args...)...)
	}
}

// Inject makes the next Err call report err.
func (d *Device) Inject(err error) { d.pending = err }

func (d *Device) Dialect() core.ShaderDialect { return d.DialectName }

func (d *Device) CreateShader(stage core.ShaderStage) core.Shader {
	s := core.Shader(d.id())
	d.shaders[s] = &shaderObj{stage: stage}
	return s
}

func (d *Device) ShaderSource(s core.Shader, src string) {
	if sh, ok := d.shaders[s]; ok {
		sh.src = src
		return
	}
	d.fail("ShaderSource on unknown shader %d", s)
}

func (d *Device) CompileShader(s core.Shader) {
	sh, ok := d.shaders[s]
	if !ok {
		d.fail("CompileShader on unknown shader %d", s)
		return
	}
	_, bad := d.FailCompile[sh.stage]
	sh.compiled = !bad
}

func (d *Device) ShaderCompiled(s core.Shader) bool {
	sh, ok := d.shaders[s]
	return ok && sh.compiled
}

func (d *Device) ShaderInfoLog(s core.Shader) string {
	if sh, ok := d.shaders[s]; ok && !sh.compiled {
		return d.FailCompile[sh.stage]
	}
	return ""
}

func (d *Device) DeleteShader(s core.Shader) {
	if _, ok := d.shaders[s]; !ok {
		d.fail("DeleteShader on unknown shader %d", s)
		return
	}
	for _, p := range d.programs {
		if p.attached[s] {
			// GL defers deletion of attached shaders; treat it as a leak.
			d.fail("DeleteShader on shader %d still attached", s)
			return
		}
	}
	delete(d.shaders, s)
}

func (d *Device) CreateProgram() core.Program {
	p := core.Program(d.id())
	d.programs[p] = &programObj{
		attached: map[core.Shader]bool{},
		attribs:  map[string]core.Attrib{},
		uniforms: map[string]core.Uniform{},
	}
	return p
}

func (d *Device) AttachShader(p core.Program, s core.Shader) {
	prog, ok := d.programs[p]
	if !ok || d.shaders[s] == nil {
		d.fail("AttachShader(%d, %d)", p, s)
		return
	}
	prog.attached[s] = true
}

func (d *Device) DetachShader(p core.Program, s core.Shader) {
	prog, ok := d.programs[p]
	if !ok || !prog.attached[s] {
		d.fail("DetachShader(%d, %d)", p, s)
		return
	}
	delete(prog.attached, s)
}

func (d *Device) LinkProgram(p core.Program) {
	prog, ok := d.programs[p]
	if !ok {
		d.fail("LinkProgram on unknown program %d", p)
		return
	}
	prog.sources = prog.sources[:0]
	for s := range prog.attached {
		prog.sources = append(prog.sources, d.shaders[s].src)
	}
	prog.linked = d.FailLink == ""
}

func (d *Device) ProgramLinked(p core.Program) bool {
	prog, ok := d.programs[p]
	return ok && prog.linked
}

func (d *Device) ProgramInfoLog(p core.Program) string {
	if prog, ok := d.programs[p]; ok && !prog.linked {
		return d.FailLink
	}
	return ""
}

func (d *Device) DeleteProgram(p core.Program) {
	if _, ok := d.programs[p]; !ok {
		d.fail("DeleteProgram on unknown program %d", p)
		return
	}
	delete(d.programs, p)
	if d.current == p {
		d.current = 0
	}
}

func (d *Device) UseProgram(p core.Program) {
	if p != 0 {
		if prog, ok := d.programs[p]; !ok || !prog.linked {
			d.fail("UseProgram(%d)", p)
			return
		}
	}
	d.current = p
}

// active reports whether name occurs in the program's linked sources.
func (d *Device) active(prog *programObj, name string) bool {
	if !prog.linked || slices.Contains(d.Hidden, name) {
		return false
	}
	for _, src := range prog.sources {
		if strings.Contains(src, name) {
			return true
		}
	}
	return false
}

func (d *Device) AttribLocation(p core.Program, name string) (core.Attrib, bool) {
	prog, ok := d.programs[p]
	if !ok || !d.active(prog, name) {
		return 0, false
	}
	a, ok := prog.attribs[name]
	if !ok {
		a = core.Attrib(len(prog.attribs))
		prog.attribs[name] = a
	}
	return a, true
}

func (d *Device) UniformLocation(p core.Program, name string) (core.Uniform, bool) {
	prog, ok := d.programs[p]
	if !ok || !d.active(prog, name) {
		return 0, false
	}
	u, ok := prog.uniforms[name]
	if !ok {
		u = core.Uniform(len(prog.uniforms))
		prog.uniforms[name] = u
	}
	return u, true
}

func (d *Device) EnableVertexAttribArray(a core.Attrib)  { d.enabled[a] = true }
func (d *Device) DisableVertexAttribArray(a core.Attrib) { delete(d.enabled, a) }

func (d *Device) VertexAttrib3f(a core.Attrib, x, y, z float32) {
	d.constants[a] = [3]float32{x, y, z}
}

func (d *Device) VertexAttribPointer(a core.Attrib, size int, b core.Buffer) {
	if _, ok := d.buffers[b]; !ok {
		d.fail("VertexAttribPointer on unknown buffer %d", b)
		return
	}
	d.pointers[a] = pointer{size: size, buf: b}
}

func (d *Device) CreateBuffer() core.Buffer {
	b := core.Buffer(d.id())
	d.buffers[b] = nil
	return b
}

func (d *Device) BufferData(b core.Buffer, data []float32) {
	if _, ok := d.buffers[b]; !ok {
		d.fail("BufferData on unknown buffer %d", b)
		return
	}
	d.buffers[b] = slices.Clone(data)
}

func (d *Device) DeleteBuffer(b core.Buffer) {
	if _, ok := d.buffers[b]; !ok {
		d.fail("DeleteBuffer on unknown buffer %d", b)
		return
	}
	delete(d.buffers, b)
}

func (d *Device) UniformMatrix4fv(u core.Uniform, m [16]float32) { d.mats[u] = m }
func (d *Device) Uniform4f(u core.Uniform, x, y, z, w float32) {
	d.vec4s[u] = [4]float32{x, y, z, w}
}

func (d *Device) Viewport(x, y, w, h int)        { d.ViewportWH = [4]int{x, y, w, h} }
func (d *Device) ClearColor(r, g, b, a float32) { d.ClearRGBA = [4]float32{r, g, b, a} }
func (d *Device) Clear()                        { d.Clears++ }
func (d *Device) LineWidth(w float32)           { d.lineWidth = w }

func (d *Device) DrawArrays(mode core.Primitive, first, count int) {
	prog, ok := d.programs[d.current]
	if !ok {
		d.fail("DrawArrays without a program")
		return
	}
	dr := Draw{
		Mode: mode, First: first, Count: count,
		LineWidth: d.lineWidth,
		Arrays:    map[string][]float32{},
		Constants: map[string][3]float32{},
	}
	for _, u := range prog.uniforms {
		if v, ok := d.vec4s[u]; ok {
			dr.Color = v
		}
		if m, ok := d.mats[u]; ok {
			dr.Projection = m
		}
	}
	for name, a := range prog.attribs {
		if !d.enabled[a] {
			if c, ok := d.constants[a]; ok {
				dr.Constants[name] = c
			}
			continue
		}
		ptr, ok := d.pointers[a]
		data, live := d.buffers[ptr.buf]
		if !ok || !live {
			d.fail("DrawArrays with attribute %q unbound", name)
			return
		}
		lo, hi := first*ptr.size, (first+count)*ptr.size
		if hi > len(data) {
			d.fail("DrawArrays reads %q past end (%d > %d)", name, hi, len(data))
			return
		}
		dr.Arrays[name] = slices.Clone(data[lo:hi])
	}
	d.Draws = append(d.Draws, dr)
}

func (d *Device) Err() error {
	err := d.pending
	d.pending = nil
	return err
}

// Reset forgets recorded draws and clears so a single frame can be inspected.
func (d *Device) Reset() {
	d.Draws = d.Draws[:0]
	d.Clears = 0
}

// Current returns the program in use.
func (d *Device) Current() core.Program { return d.current }

// Enabled lists the attribute arrays currently enabled.
func (d *Device) Enabled() []core.Attrib {
	return slices.Sorted(maps.Keys(d.enabled))
}

// Constant returns the constant value last set for a.
func (d *Device) Constant(a core.Attrib) ([3]float32, bool) {
	c, ok := d.constants[a]
	return c, ok
}

// BufferContents returns what was last uploaded to b.
func (d *Device) BufferContents(b core.Buffer) ([]float32, bool) {
	data, ok := d.buffers[b]
	return data, ok
}

// Live counts objects created and not yet deleted.
func (d *Device) Live() (shaders, programs, buffers int) {
	return len(d.shaders), len(d.programs), len(d.buffers)
}
