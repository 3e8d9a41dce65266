package scene

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Intersection stores one ray hit
type Intersection struct {
	Distance float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Node     *Node
	FaceIdx  int // triangle index in the mesh
}

// Raycaster casts rays against scene nodes. Hits closer than Near or
// farther than Far are discarded.
type Raycaster struct {
	Ray  Ray
	Near float32
	Far  float32
}

func NewRaycaster() *Raycaster {
	return &Raycaster{
		Near: 0,
		Far:  float32(math.Inf(1)),
	}
}

// SetFromCamera aims the ray through a point given in normalized device
// coordinates (-1..1 on both axes, +Y up).
func (rc *Raycaster) SetFromCamera(ndc mgl32.Vec2, camera *Camera) {
	switch camera.Projection {
	case ProjectionOrthographic:
		rc.Ray.Origin = camera.Unproject(mgl32.Vec3{ndc[0], ndc[1], -1})
		rc.Ray.Direction = camera.Forward().Normalize()
	default:
		rc.Ray.Origin = camera.Position
		rc.Ray.Direction = camera.Unproject(mgl32.Vec3{ndc[0], ndc[1], 0.5}).Sub(camera.Position).Normalize()
	}
}

// IntersectNode tests the ray against node (and its descendants when
// recursive is set) and returns the hits sorted by distance.
func (rc *Raycaster) IntersectNode(node *Node, recursive bool) []Intersection {
	var hits []Intersection
	if recursive {
		node.TraverseVisible(func(n *Node) {
			hits = append(hits, rc.intersectMesh(n)...)
		})
	} else {
		hits = rc.intersectMesh(node)
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

func (rc *Raycaster) intersectMesh(node *Node) []Intersection {
	mesh := node.Mesh
	if mesh == nil || mesh.DrawMode != DrawTriangles || len(mesh.Indices) < 3 {
		return nil
	}

	world := node.WorldMatrix()

	// Broad phase: AABB test
	if mesh.HasLocalAABB {
		if _, hit := rayAABBIntersect(rc.Ray, mesh.LocalAABB.Transform(world)); !hit {
			return nil
		}
	}

	side := FrontSide
	if mesh.Material != nil {
		side = mesh.Material.Side
	}

	var hits []Intersection
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		v0 := mgl32.TransformCoordinate(mesh.Vertices[mesh.Indices[i]].Position, world)
		v1 := mgl32.TransformCoordinate(mesh.Vertices[mesh.Indices[i+1]].Position, world)
		v2 := mgl32.TransformCoordinate(mesh.Vertices[mesh.Indices[i+2]].Position, world)

		var t float32
		var hit bool
		switch side {
		case BackSide:
			t, hit = intersectTriangle(rc.Ray, v2, v1, v0, true)
		case DoubleSide:
			t, hit = intersectTriangle(rc.Ray, v0, v1, v2, false)
		default:
			t, hit = intersectTriangle(rc.Ray, v0, v1, v2, true)
		}
		if !hit || t < rc.Near || t > rc.Far {
			continue
		}
		hits = append(hits, Intersection{
			Distance: t,
			Point:    rc.Ray.At(t),
			Normal:   v1.Sub(v0).Cross(v2.Sub(v0)).Normalize(),
			Node:     node,
			FaceIdx:  i / 3,
		})
	}
	return hits
}

// intersectTriangle implements the Möller–Trumbore ray-triangle test. With
// cull set, triangles seen from behind (clockwise from the ray origin) miss.
func intersectTriangle(ray Ray, v0, v1, v2 mgl32.Vec3, cull bool) (float32, bool) {
	const epsilon = 1e-7

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	if cull {
		if a < epsilon {
			return 0, false
		}
	} else if a > -epsilon && a < epsilon {
		return 0, false // parallel
	}

	f := 1.0 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	return t, t > epsilon
}

// rayAABBIntersect tests ray-AABB intersection
func rayAABBIntersect(ray Ray, box AABB) (float32, bool) {
	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))

	for k := 0; k < 3; k++ {
		if ray.Direction[k] == 0 {
			if ray.Origin[k] < box.Min[k] || ray.Origin[k] > box.Max[k] {
				return 0, false
			}
			continue
		}
		inv := 1 / ray.Direction[k]
		t1 := (box.Min[k] - ray.Origin[k]) * inv
		t2 := (box.Max[k] - ray.Origin[k]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < 0 || tmin > tmax {
		return 0, false
	}
	return tmin, true
}
