package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"planeview/core"
)

// DrawMode controls the OpenGL primitive type used when rendering a mesh.
type DrawMode int

const (
	DrawTriangles DrawMode = iota // gl.TRIANGLES (default)
	DrawLines                     // gl.LINES — pairs of indices form line segments
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32
	DrawMode DrawMode

	// Cached local-space AABB (computed by CreateMeshFromData).
	LocalAABB    AABB
	HasLocalAABB bool

	// Material holds surface shading properties. If nil the backend draws
	// with vertex colors.
	Material *Material

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	GPUData interface{}
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space AABB.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	if len(vertices) > 0 {
		m.LocalAABB = computeLocalAABB(vertices)
		m.HasLocalAABB = true
	}
	return m
}

// Clone returns a mesh sharing vertex data and material with m but with its
// own GPU slot.
func (m *Mesh) Clone(name string) *Mesh {
	c := *m
	c.Name = name
	c.GPUData = nil
	return &c
}

// computeLocalAABB returns the tight AABB of the given vertex positions.
func computeLocalAABB(vertices []core.Vertex) AABB {
	min := vertices[0].Position
	max := vertices[0].Position
	for i := 1; i < len(vertices); i++ {
		p := vertices[i].Position
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return AABB{Min: min, Max: max}
}

// Transform returns the AABB enclosing this box after applying m.
func (box AABB) Transform(m mgl32.Mat4) AABB {
	corners := [8]mgl32.Vec3{
		{box.Min[0], box.Min[1], box.Min[2]},
		{box.Max[0], box.Min[1], box.Min[2]},
		{box.Min[0], box.Max[1], box.Min[2]},
		{box.Max[0], box.Max[1], box.Min[2]},
		{box.Min[0], box.Min[1], box.Max[2]},
		{box.Max[0], box.Min[1], box.Max[2]},
		{box.Min[0], box.Max[1], box.Max[2]},
		{box.Max[0], box.Max[1], box.Max[2]},
	}
	out := AABB{Min: mgl32.TransformCoordinate(corners[0], m)}
	out.Max = out.Min
	for _, c := range corners[1:] {
		p := mgl32.TransformCoordinate(c, m)
		for k := 0; k < 3; k++ {
			if p[k] < out.Min[k] {
				out.Min[k] = p[k]
			}
			if p[k] > out.Max[k] {
				out.Max[k] = p[k]
			}
		}
	}
	return out
}
