package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Sprite is a unit quad that always faces the camera. Its world size comes
// from the node scale.
type Sprite struct {
	Material *Material
	// Center is the anchor inside the quad, (0.5, 0.5) being the middle.
	Center mgl32.Vec2
}

// NewSpriteNode creates a node carrying a sprite drawn with mat.
func NewSpriteNode(name string, mat *Material) *Node {
	n := NewNode(name)
	n.Sprite = &Sprite{
		Material: mat,
		Center:   mgl32.Vec2{0.5, 0.5},
	}
	return n
}

// RenderTarget is an offscreen color buffer with a depth attachment. Its
// color attachment is readable through Texture once the backend allocated it.
type RenderTarget struct {
	Width   int
	Height  int
	Texture *Texture

	// GPUData is set by the renderer backend (e.g. *opengl.GPURenderTarget).
	GPUData interface{}
}

func NewRenderTarget(width, height int) *RenderTarget {
	return &RenderTarget{
		Width:  width,
		Height: height,
		Texture: &Texture{
			ID:     uuid.NewString(),
			Name:   "RenderTarget",
			Width:  width,
			Height: height,
			Loaded: true,
			Owned:  true,
		},
	}
}
