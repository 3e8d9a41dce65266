package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionType selects how a Camera maps view space to clip space.
type ProjectionType int

const (
	ProjectionPerspective ProjectionType = iota
	ProjectionOrthographic
)

// Camera represents a view camera. The projection matrix is cached and only
// recomputed by UpdateProjectionMatrix, so changes to FOV, Aspect or the
// frustum planes take effect after that call.
type Camera struct {
	Projection ProjectionType
	Position   mgl32.Vec3
	Rotation   mgl32.Quat
	Up         mgl32.Vec3

	// Perspective parameters; FOV is the vertical field of view in degrees.
	FOV    float32
	Aspect float32

	// Orthographic frustum planes.
	Left, Right, Top, Bottom float32

	Near float32
	Far  float32

	projectionMatrix        mgl32.Mat4
	projectionMatrixInverse mgl32.Mat4
}

func NewPerspectiveCamera(fov, aspect, near, far float32) *Camera {
	c := &Camera{
		Projection: ProjectionPerspective,
		Rotation:   mgl32.QuatIdent(),
		Up:         mgl32.Vec3{0, 1, 0},
		FOV:        fov,
		Aspect:     aspect,
		Near:       near,
		Far:        far,
	}
	c.UpdateProjectionMatrix()
	return c
}

func NewOrthographicCamera(left, right, top, bottom, near, far float32) *Camera {
	c := &Camera{
		Projection: ProjectionOrthographic,
		Rotation:   mgl32.QuatIdent(),
		Up:         mgl32.Vec3{0, 1, 0},
		Left:       left,
		Right:      right,
		Top:        top,
		Bottom:     bottom,
		Near:       near,
		Far:        far,
	}
	c.UpdateProjectionMatrix()
	return c
}

func (c *Camera) UpdateProjectionMatrix() {
	switch c.Projection {
	case ProjectionOrthographic:
		c.projectionMatrix = mgl32.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
	default:
		c.projectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
	}
	c.projectionMatrixInverse = c.projectionMatrix.Inv()
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projectionMatrix
}

func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.Position = pos
}

// WorldMatrix places the camera in the world (translation * rotation).
func (c *Camera) WorldMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(c.Position[0], c.Position[1], c.Position[2]).Mul4(c.Rotation.Mat4())
}

// ViewMatrix is the inverse of WorldMatrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.Rotation.Conjugate().Mat4().Mul4(mgl32.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2]))
}

func (c *Camera) ViewProjectionMatrix() mgl32.Mat4 {
	return c.projectionMatrix.Mul4(c.ViewMatrix())
}

// Forward is the direction the camera looks along (local -Z).
func (c *Camera) Forward() mgl32.Vec3 {
	return c.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// RightVector is the camera's local +X axis in world space.
func (c *Camera) RightVector() mgl32.Vec3 {
	return c.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

// UpVector is the camera's local +Y axis in world space.
func (c *Camera) UpVector() mgl32.Vec3 {
	return c.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

// LookAt orients the camera so its -Z axis points at target, keeping Up as
// the vertical reference.
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Rotation = lookRotation(c.Position, target, c.Up)
}

// Unproject maps a point in normalized device coordinates back into world
// space.
func (c *Camera) Unproject(ndc mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(ndc, c.WorldMatrix().Mul4(c.projectionMatrixInverse))
}

// Project maps a world-space point into normalized device coordinates.
func (c *Camera) Project(world mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(world, c.ViewProjectionMatrix())
}

func lookRotation(eye, target, up mgl32.Vec3) mgl32.Quat {
	z := eye.Sub(target)
	if z.LenSqr() == 0 {
		z = mgl32.Vec3{0, 0, 1}
	}
	z = z.Normalize()
	x := up.Cross(z)
	if x.LenSqr() == 0 {
		// up and view direction are parallel
		if abs32(up[2]) == 1 {
			z[0] += 0.0001
		} else {
			z[2] += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	m := mgl32.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}
	return mgl32.Mat4ToQuat(m).Normalize()
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
