// Package shader builds GPU programs and resolves their variable handles.
//
// Every failure here is fatal to the engine: a program that does not compile
// or link, or that lacks a variable the engine expects, means the shaders and
// the engine are out of sync.
package shader

import (
	"fmt"
	"strings"

	"github.com/hubastard/panlab/engine/core"
)

// Desc describes a program and the variables the engine will use.
type Desc struct {
	VertexSource   string
	FragmentSource string
	// PositionAttrib is enabled by Activate; it must also appear in Attribs.
	PositionAttrib string
	Attribs        []string
	Uniforms       []string
}

// CompileError reports a shader stage that failed to compile.
type CompileError struct {
	Stage  core.ShaderStage
	Source string
	Log    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader {\n\tSOURCE: [\n%s\n\t]\n\n\tINFO: [\n%s\n\t]\n}",
		e.Stage, indent(e.Source), indent(e.Log))
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program | INFO: [ %s ]", strings.TrimSpace(e.Log))
}

// MissingHandleError reports a variable the linked program does not expose.
type MissingHandleError struct {
	Kind string // "attribute" or "uniform"
	Name string
}

func (e *MissingHandleError) Error() string {
	return fmt.Sprintf("failed to find %s %q in program", e.Kind, e.Name)
}

func indent(s string) string {
	return "\t\t" + strings.ReplaceAll(strings.TrimSpace(s), "\n", "\n\t\t")
}

// Pipeline is a linked program with its resolved handles. Handles never
// change after Build; Release frees the program.
type Pipeline struct {
	dev      core.Device
	program  core.Program
	position core.Attrib
	attribs  map[string]core.Attrib
	uniforms map[string]core.Uniform
}

// Build compiles and links desc's sources and resolves every listed
// variable. Intermediate shader objects are always released before Build
// returns.
func Build(dev core.Device, desc Desc) (*Pipeline, error) {
	vs, err := compile(dev, core.VertexStage, desc.VertexSource)
	if err != nil {
		return nil, err
	}
	fs, err := compile(dev, core.FragmentStage, desc.FragmentSource)
	if err != nil {
		dev.DeleteShader(vs)
		return nil, err
	}

	prog := dev.CreateProgram()
	dev.AttachShader(prog, vs)
	dev.AttachShader(prog, fs)
	dev.LinkProgram(prog)
	linked := dev.ProgramLinked(prog)

	// Shaders must be detached first or delete won't free them.
	dev.DetachShader(prog, vs)
	dev.DetachShader(prog, fs)
	dev.DeleteShader(vs)
	dev.DeleteShader(fs)

	if !linked {
		lerr := &LinkError{Log: dev.ProgramInfoLog(prog)}
		dev.DeleteProgram(prog)
		return nil, lerr
	}

	p := &Pipeline{
		dev:      dev,
		program:  prog,
		attribs:  make(map[string]core.Attrib, len(desc.Attribs)),
		uniforms: make(map[string]core.Uniform, len(desc.Uniforms)),
	}
	if err := p.resolve(desc); err != nil {
		p.Release()
		return nil, err
	}
	if err := dev.Err(); err != nil {
		p.Release()
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	core.Logger().Debug("shader pipeline built",
		"program", prog, "attribs", len(p.attribs), "uniforms", len(p.uniforms))
	return p, nil
}

func compile(dev core.Device, stage core.ShaderStage, src string) (core.Shader, error) {
	sh := dev.CreateShader(stage)
	dev.ShaderSource(sh, src)
	dev.CompileShader(sh)
	if !dev.ShaderCompiled(sh) {
		cerr := &CompileError{Stage: stage, Source: src, Log: dev.ShaderInfoLog(sh)}
		dev.DeleteShader(sh)
		return 0, cerr
	}
	return sh, nil
}

func (p *Pipeline) resolve(desc Desc) error {
	for _, name := range desc.Attribs {
		a, ok := p.dev.AttribLocation(p.program, name)
		if !ok {
			return &MissingHandleError{Kind: "attribute", Name: name}
		}
		p.attribs[name] = a
	}
	for _, name := range desc.Uniforms {
		u, ok := p.dev.UniformLocation(p.program, name)
		if !ok {
			return &MissingHandleError{Kind: "uniform", Name: name}
		}
		p.uniforms[name] = u
	}
	pos, ok := p.attribs[desc.PositionAttrib]
	if !ok {
		return &MissingHandleError{Kind: "attribute", Name: desc.PositionAttrib}
	}
	p.position = pos
	return nil
}

// Program returns the linked program handle.
func (p *Pipeline) Program() core.Program { return p.program }

// Attrib returns a resolved attribute. It panics on names not passed to
// Build, which is a programming error.
func (p *Pipeline) Attrib(name string) core.Attrib {
	a, ok := p.attribs[name]
	if !ok {
		panic(fmt.Sprintf("shader: attribute %q was not resolved", name))
	}
	return a
}

// Uniform returns a resolved uniform. It panics on names not passed to
// Build.
func (p *Pipeline) Uniform(name string) core.Uniform {
	u, ok := p.uniforms[name]
	if !ok {
		panic(fmt.Sprintf("shader: uniform %q was not resolved", name))
	}
	return u
}

// Position returns the position attribute.
func (p *Pipeline) Position() core.Attrib { return p.position }

// Activate binds the program and enables the position array.
func (p *Pipeline) Activate() {
	p.dev.UseProgram(p.program)
	p.dev.EnableVertexAttribArray(p.position)
}

// Deactivate disables every attribute array of the program so no array
// stays bound to memory that is about to go away.
func (p *Pipeline) Deactivate() {
	for _, a := range p.attribs {
		p.dev.DisableVertexAttribArray(a)
	}
}

// Release deletes the program. Calling it again is a no-op.
func (p *Pipeline) Release() {
	if p.program == 0 {
		return
	}
	p.dev.UseProgram(0)
	p.dev.DeleteProgram(p.program)
	p.program = 0
}
