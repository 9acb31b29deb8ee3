package assets

import (
	"embed"
	"fmt"
	"path"

	"github.com/hubastard/panlab/engine/core"
)

//go:embed shaders
var shaderFS embed.FS

// LoadShader returns the source of a shader for the given dialect.
// Sources are plain Go strings; backends add termination if their API
// needs it.
func LoadShader(dialect core.ShaderDialect, name string) (string, error) {
	p := path.Join("shaders", string(dialect), name)
	b, err := shaderFS.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", p, err)
	}
	return string(b), nil
}

// SurfaceShaders returns the vertex and fragment sources of the surface
// program.
func SurfaceShaders(dialect core.ShaderDialect) (vert, frag string, err error) {
	if vert, err = LoadShader(dialect, "surface.vert"); err != nil {
		return "", "", err
	}
	if frag, err = LoadShader(dialect, "surface.frag"); err != nil {
		return "", "", err
	}
	return vert, frag, nil
}
