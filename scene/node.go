package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"planeview/core"
)

// Node represents an object in the scene graph
type Node struct {
	ID        string
	Name      string
	Transform core.Transform
	Parent    *Node
	Children  []*Node
	Mesh      *Mesh
	Sprite    *Sprite
	Visible   bool

	// Cached world transform
	worldMatrixDirty bool
	worldMatrix      mgl32.Mat4
}

func NewNode(name string) *Node {
	return &Node{
		ID:               uuid.NewString(),
		Name:             name,
		Transform:        core.NewTransform(),
		Children:         make([]*Node, 0),
		Visible:          true,
		worldMatrixDirty: true,
	}
}

// NewMeshNode wraps a mesh in a node named after it.
func NewMeshNode(mesh *Mesh) *Node {
	n := NewNode(mesh.Name)
	n.Mesh = mesh
	return n
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	child.MarkWorldMatrixDirty()
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			child.MarkWorldMatrixDirty()
			return
		}
	}
}

func (n *Node) WorldMatrix() mgl32.Mat4 {
	if n.worldMatrixDirty {
		local := n.Transform.Matrix()
		if n.Parent != nil {
			n.worldMatrix = n.Parent.WorldMatrix().Mul4(local)
		} else {
			n.worldMatrix = local
		}
		n.worldMatrixDirty = false
	}
	return n.worldMatrix
}

// WorldPosition is the translation part of the world matrix.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

func (n *Node) MarkWorldMatrixDirty() {
	n.worldMatrixDirty = true
	for _, child := range n.Children {
		child.MarkWorldMatrixDirty()
	}
}

func (n *Node) SetPosition(pos mgl32.Vec3) {
	n.Transform.Position = pos
	n.MarkWorldMatrixDirty()
}

// Traverse visits all nodes in the graph
func (n *Node) Traverse(callback func(*Node)) {
	callback(n)
	for _, child := range n.Children {
		child.Traverse(callback)
	}
}

// TraverseVisible is Traverse that skips hidden subtrees.
func (n *Node) TraverseVisible(callback func(*Node)) {
	if !n.Visible {
		return
	}
	callback(n)
	for _, child := range n.Children {
		child.TraverseVisible(callback)
	}
}

// Find finds a node by name
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}
