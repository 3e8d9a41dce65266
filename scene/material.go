package scene

import (
	"sort"

	"planeview/core"
)

// Side selects which triangle faces are rendered and hit by raycasts.
type Side int

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

// MaterialKind picks the program family the backend uses for a material.
type MaterialKind int

const (
	MaterialBasic  MaterialKind = iota // unlit vertex colors
	MaterialShader                     // user-supplied GLSL
	MaterialSprite                     // textured camera-facing quad
)

// Uniform is a named shader input. Value may be a *Texture, float32, int32,
// core.Color or mgl32.Vec2/Vec3/Vec4/Mat4.
type Uniform struct {
	Value interface{}
}

// Material describes surface appearance properties for a mesh or sprite.
type Material struct {
	Name string
	Kind MaterialKind

	// GLSL bodies for MaterialShader. The backend prepends the version line
	// and the built-in matrix uniforms and vertex attributes.
	VertexShader   string
	FragmentShader string
	Uniforms       map[string]*Uniform

	// Map is the sprite texture (MaterialSprite).
	Map   *Texture
	Color core.Color

	Side        Side
	Transparent bool
	DepthTest   bool
}

// NewShaderMaterial creates a material driven by custom shader sources.
func NewShaderMaterial(name, vertexShader, fragmentShader string, uniforms map[string]*Uniform) *Material {
	if uniforms == nil {
		uniforms = make(map[string]*Uniform)
	}
	return &Material{
		Name:           name,
		Kind:           MaterialShader,
		VertexShader:   vertexShader,
		FragmentShader: fragmentShader,
		Uniforms:       uniforms,
		Color:          core.ColorWhite,
		Side:           FrontSide,
		DepthTest:      true,
	}
}

// NewBasicMaterial creates an unlit vertex-color material.
func NewBasicMaterial(name string) *Material {
	return &Material{
		Name:      name,
		Kind:      MaterialBasic,
		Color:     core.ColorWhite,
		Side:      FrontSide,
		DepthTest: true,
	}
}

// NewSpriteMaterial creates a billboard material sampling tex.
func NewSpriteMaterial(name string, tex *Texture) *Material {
	return &Material{
		Name:        name,
		Kind:        MaterialSprite,
		Map:         tex,
		Color:       core.ColorWhite,
		Side:        DoubleSide,
		Transparent: true,
		DepthTest:   true,
	}
}

// TextureUniform pairs a sampler name with its texture.
type TextureUniform struct {
	Name    string
	Texture *Texture
}

// TextureUniforms lists the texture-valued uniforms sorted by name, which
// fixes their texture unit assignment.
func (m *Material) TextureUniforms() []TextureUniform {
	var out []TextureUniform
	for name, u := range m.Uniforms {
		if u == nil {
			continue
		}
		if tex, ok := u.Value.(*Texture); ok {
			out = append(out, TextureUniform{Name: name, Texture: tex})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
