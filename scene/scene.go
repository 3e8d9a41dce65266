package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"planeview/core"
)

// Scene manages a collection of nodes and lights
type Scene struct {
	Root       *Node
	Lights     []*Light
	Background core.Color
}

// Light types
const (
	LightTypeDirectional = iota
	LightTypePoint
)

// Light represents a light source. A directional light shines from Position
// towards Target.
type Light struct {
	Type      int
	Position  mgl32.Vec3
	Target    mgl32.Vec3
	Color     core.Color
	Intensity float32
}

// NewDirectionalLight creates a light aimed at the origin.
func NewDirectionalLight(color core.Color, intensity float32) *Light {
	return &Light{
		Type:      LightTypeDirectional,
		Position:  mgl32.Vec3{0, 1, 0},
		Color:     color,
		Intensity: intensity,
	}
}

// Direction is the unit vector the light travels along.
func (l *Light) Direction() mgl32.Vec3 {
	d := l.Target.Sub(l.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

func NewScene() *Scene {
	return &Scene{
		Root:       NewNode("Root"),
		Lights:     make([]*Light, 0),
		Background: core.ColorBlack,
	}
}

func (s *Scene) Add(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// VisibleNodes returns all visible nodes carrying a mesh or a sprite, in
// scene graph order.
func (s *Scene) VisibleNodes() []*Node {
	var visible []*Node

	s.Root.TraverseVisible(func(node *Node) {
		if node.Mesh != nil || node.Sprite != nil {
			visible = append(visible, node)
		}
	})

	return visible
}

// DirectionalLight returns the first directional light, or nil.
func (s *Scene) DirectionalLight() *Light {
	for _, l := range s.Lights {
		if l != nil && l.Type == LightTypeDirectional {
			return l
		}
	}
	return nil
}
