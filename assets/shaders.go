package assets

import (
	_ "embed"
	"fmt"
	"os"
)

// Default plane shaders. They are written against the built-in declarations
// the OpenGL backend prepends (projectionMatrix, modelViewMatrix, position,
// uv, texture2D, gl_FragColor).

//go:embed shaders/plane.vert
var PlaneVertexShader string

//go:embed shaders/plane.frag
var PlaneFragmentShader string

// ShaderSource returns the contents of path, or fallback when path is empty.
func ShaderSource(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read shader: %w", err)
	}
	return string(b), nil
}
