package scene

import "github.com/go-gl/mathgl/mgl32"

// Plane represents a half-space: ax + by + cz + d = 0
// Normal (a, b, c) points into the "inside" of the frustum.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the "inside" (same side as Normal).
func (p Plane) DistanceTo(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts the six frustum planes from a view-projection matrix
// (Gribb/Hartmann). The planes are normalized so DistanceTo returns a true
// distance in world units.
func FrustumFromVP(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.Planes[0] = normalizePlane(r3.Add(r0)) // left
	f.Planes[1] = normalizePlane(r3.Sub(r0)) // right
	f.Planes[2] = normalizePlane(r3.Add(r1)) // bottom
	f.Planes[3] = normalizePlane(r3.Sub(r1)) // top
	f.Planes[4] = normalizePlane(r3.Add(r2)) // near
	f.Planes[5] = normalizePlane(r3.Sub(r2)) // far
	return f
}

// CameraFrustum is the frustum currently seen through cam.
func CameraFrustum(cam *Camera) Frustum {
	return FrustumFromVP(cam.ViewProjectionMatrix())
}

func normalizePlane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v[3] / l}
}

// IntersectsFrustum returns false if the AABB is completely outside the frustum.
// Uses the "n-vertex" test: for each plane, check if the "positive vertex"
// (the corner most aligned with the plane normal) is on the outside.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		var pv mgl32.Vec3
		for k := 0; k < 3; k++ {
			if p.Normal[k] < 0 {
				pv[k] = box.Min[k]
			} else {
				pv[k] = box.Max[k]
			}
		}
		if p.DistanceTo(pv) < 0 {
			return false
		}
	}
	return true
}

// ContainsSphere reports whether a sphere overlaps the frustum.
func (f *Frustum) ContainsSphere(center mgl32.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.DistanceTo(center) < -radius {
			return false
		}
	}
	return true
}

// InFrustum reports whether node may be visible in f. Meshes are tested with
// their world AABB, sprites with a sphere around their quad; nodes without
// bounds always pass.
func (n *Node) InFrustum(f *Frustum) bool {
	world := n.WorldMatrix()
	switch {
	case n.Sprite != nil:
		sx := world.Col(0).Vec3().Len()
		sy := world.Col(1).Vec3().Len()
		radius := mgl32.Vec2{sx, sy}.Len()
		return f.ContainsSphere(world.Col(3).Vec3(), radius)
	case n.Mesh != nil && n.Mesh.HasLocalAABB:
		return n.Mesh.LocalAABB.Transform(world).IntersectsFrustum(f)
	}
	return true
}
