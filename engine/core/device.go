package core

// Opaque GPU handles. Zero is never a valid object.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
	Attrib  uint32
	Uniform int32
)

// ShaderStage selects the pipeline stage a shader is compiled for.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// ShaderDialect is the GLSL flavour a Device accepts.
type ShaderDialect string

const (
	GLSL330   ShaderDialect = "glsl330"   // desktop GL 3.3 core
	GLSLES100 ShaderDialect = "glsles100" // GLES 2.0
)

// Primitive is the assembly mode of a draw call.
type Primitive int

const (
	Points Primitive = iota
	Lines
	LineLoop
	TriangleStrip
)

func (p Primitive) String() string {
	switch p {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineLoop:
		return "line-loop"
	case TriangleStrip:
		return "triangle-strip"
	default:
		return "unknown"
	}
}

// Device is the slice of the graphics API the engine needs. All methods must
// be called from the goroutine that owns the GPU context.
type Device interface {
	Dialect() ShaderDialect

	CreateShader(stage ShaderStage) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	DetachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	DeleteProgram(p Program)
	UseProgram(p Program)

	// AttribLocation and UniformLocation report false when the program has
	// no active variable of that name.
	AttribLocation(p Program, name string) (Attrib, bool)
	UniformLocation(p Program, name string) (Uniform, bool)

	EnableVertexAttribArray(a Attrib)
	DisableVertexAttribArray(a Attrib)
	VertexAttrib3f(a Attrib, x, y, z float32)
	// VertexAttribPointer sources a from tightly packed float32 components
	// of b, size components per vertex.
	VertexAttribPointer(a Attrib, size int, b Buffer)

	CreateBuffer() Buffer
	BufferData(b Buffer, data []float32)
	DeleteBuffer(b Buffer)

	UniformMatrix4fv(u Uniform, m [16]float32)
	Uniform4f(u Uniform, x, y, z, w float32)

	Viewport(x, y, w, h int)
	ClearColor(r, g, b, a float32)
	Clear()
	LineWidth(w float32)
	DrawArrays(mode Primitive, first, count int)

	// Err reports and resets the first pending API error, if any.
	Err() error
}
