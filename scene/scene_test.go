package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planeview/core"
)

func vecNear(t *testing.T, expected, actual mgl32.Vec3, msg string) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], 1e-4, "%s: expected %v, got %v", msg, expected, actual)
	}
}

func TestCreatePlane(t *testing.T) {
	m := CreatePlane(1, 1, 1, 1)

	require.Len(t, m.Vertices, 4)
	require.Len(t, m.Indices, 6)
	assert.Equal(t, DrawTriangles, m.DrawMode)
	vecNear(t, mgl32.Vec3{-0.5, -0.5, 0}, m.LocalAABB.Min, "aabb min")
	vecNear(t, mgl32.Vec3{0.5, 0.5, 0}, m.LocalAABB.Max, "aabb max")

	// First vertex is the top-left corner with V = 1.
	vecNear(t, mgl32.Vec3{-0.5, 0.5, 0}, m.Vertices[0].Position, "top-left")
	assert.Equal(t, mgl32.Vec2{0, 1}, m.Vertices[0].UV)

	// Every triangle winds counter-clockwise seen from +Z.
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Position
		b := m.Vertices[m.Indices[i+1]].Position
		c := m.Vertices[m.Indices[i+2]].Position
		n := b.Sub(a).Cross(c.Sub(a))
		assert.Greater(t, n.Z(), float32(0), "triangle %d faces +Z", i/3)
	}
}

func TestCreatePlaneSegments(t *testing.T) {
	m := CreatePlane(2, 4, 2, 3)
	assert.Len(t, m.Vertices, 12)
	assert.Len(t, m.Indices, 2*3*6)
	vecNear(t, mgl32.Vec3{-1, -2, 0}, m.LocalAABB.Min, "aabb min")
	vecNear(t, mgl32.Vec3{1, 2, 0}, m.LocalAABB.Max, "aabb max")
}

func TestCreateAxes(t *testing.T) {
	m := CreateAxes(1)
	assert.Equal(t, DrawLines, m.DrawMode)
	require.Len(t, m.Indices, 6)
	require.NotNil(t, m.Material)
	assert.Equal(t, MaterialBasic, m.Material.Kind)
	vecNear(t, mgl32.Vec3{1, 0, 0}, m.Vertices[1].Position, "x tip")
	vecNear(t, mgl32.Vec3{0, 1, 0}, m.Vertices[3].Position, "y tip")
	vecNear(t, mgl32.Vec3{0, 0, 1}, m.Vertices[5].Position, "z tip")
}

func TestNodeWorldMatrix(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)

	parent.SetPosition(mgl32.Vec3{1, 0, 0})
	child.SetPosition(mgl32.Vec3{0, 2, 0})
	vecNear(t, mgl32.Vec3{1, 2, 0}, child.WorldPosition(), "child world position")

	parent.Transform.Scale = mgl32.Vec3{2, 2, 2}
	parent.MarkWorldMatrixDirty()
	vecNear(t, mgl32.Vec3{1, 4, 0}, child.WorldPosition(), "scaled child world position")

	assert.NotEqual(t, parent.ID, child.ID)
	assert.Same(t, child, parent.Find("child"))
	assert.Nil(t, parent.Find("missing"))
}

func TestSceneVisibleNodes(t *testing.T) {
	s := NewScene()
	plane := NewMeshNode(CreatePlane(1, 1, 1, 1))
	empty := NewNode("empty")
	hidden := NewMeshNode(CreateAxes(1))
	hidden.Visible = false
	sprite := NewSpriteNode("sprite", NewSpriteMaterial("s", nil))

	s.Add(plane)
	s.Add(empty)
	s.Add(hidden)
	s.Add(sprite)

	assert.Equal(t, []*Node{plane, sprite}, s.VisibleNodes())
}

func TestDirectionalLight(t *testing.T) {
	s := NewScene()
	assert.Nil(t, s.DirectionalLight())

	l := NewDirectionalLight(core.ColorHex(0xFFFFFF), 1)
	l.Position = mgl32.Vec3{-1, 2, 4}
	s.AddLight(l)

	require.Same(t, l, s.DirectionalLight())
	vecNear(t, mgl32.Vec3{1, -2, -4}.Normalize(), l.Direction(), "direction")
}

func TestPerspectiveCameraProjectUnproject(t *testing.T) {
	cam := NewPerspectiveCamera(75, 2, 0.1, 5)
	cam.SetPosition(mgl32.Vec3{0, 0, 2})

	// The origin is straight ahead.
	ndc := cam.Project(mgl32.Vec3{})
	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)

	p := mgl32.Vec3{0.3, -0.2, 0.5}
	vecNear(t, p, cam.Unproject(cam.Project(p)), "round trip")

	// NDC z = -1 lies on the near plane.
	near := cam.Unproject(mgl32.Vec3{0, 0, -1})
	assert.InDelta(t, 1.9, near.Z(), 1e-4)
}

func TestCameraAspectNeedsUpdate(t *testing.T) {
	cam := NewPerspectiveCamera(75, 2, 0.1, 5)
	before := cam.ProjectionMatrix()

	cam.Aspect = 1
	assert.Equal(t, before, cam.ProjectionMatrix())

	cam.UpdateProjectionMatrix()
	assert.NotEqual(t, before, cam.ProjectionMatrix())
}

func TestCameraLookAt(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 100)
	cam.SetPosition(mgl32.Vec3{3, 0, 0})
	cam.LookAt(mgl32.Vec3{})

	vecNear(t, mgl32.Vec3{-1, 0, 0}, cam.Forward(), "forward")
	vecNear(t, mgl32.Vec3{0, 1, 0}, cam.UpVector(), "up")
	vecNear(t, mgl32.Vec3{0, 0, -1}, cam.RightVector(), "right")
	vecNear(t, mgl32.Vec3{0, 0, -3}, cam.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3(), "origin in view space")

	// Looking straight down must not produce NaNs.
	cam.SetPosition(mgl32.Vec3{0, 5, 0})
	cam.LookAt(mgl32.Vec3{})
	f := cam.Forward()
	assert.False(t, f.X() != f.X() || f.Y() != f.Y() || f.Z() != f.Z())
	assert.InDelta(t, -1, f.Y(), 1e-3)
}

func TestOrthographicCamera(t *testing.T) {
	cam := NewOrthographicCamera(-0.5, 0.5, 0.5, -0.5, 0.1, 10)
	cam.SetPosition(mgl32.Vec3{0, 0, 1})

	corner := cam.Project(mgl32.Vec3{0.5, 0.5, 0})
	assert.InDelta(t, 1, corner.X(), 1e-5)
	assert.InDelta(t, 1, corner.Y(), 1e-5)
}

func TestRaycastPlane(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 5)
	cam.SetPosition(mgl32.Vec3{0, 0, 2})
	plane := NewMeshNode(CreatePlane(1, 1, 1, 1))
	rc := NewRaycaster()

	rc.SetFromCamera(mgl32.Vec2{0, 0}, cam)
	hits := rc.IntersectNode(plane, false)
	require.Len(t, hits, 1)
	assert.InDelta(t, 2, hits[0].Distance, 1e-4)
	vecNear(t, mgl32.Vec3{}, hits[0].Point, "hit point")
	assert.Same(t, plane, hits[0].Node)

	// Corner of the viewport is well outside the unit plane at distance 2.
	rc.SetFromCamera(mgl32.Vec2{0.95, 0.95}, cam)
	assert.Empty(t, rc.IntersectNode(plane, false))
}

func TestRaycastCullsBackFaces(t *testing.T) {
	cam := NewPerspectiveCamera(75, 1, 0.1, 5)
	cam.SetPosition(mgl32.Vec3{0, 0, -2})
	cam.LookAt(mgl32.Vec3{})

	mesh := CreatePlane(1, 1, 1, 1)
	mesh.Material = NewShaderMaterial("m", "", "", nil)
	plane := NewMeshNode(mesh)

	rc := NewRaycaster()
	rc.SetFromCamera(mgl32.Vec2{0, 0}, cam)
	assert.Empty(t, rc.IntersectNode(plane, false), "front side only")

	mesh.Material.Side = DoubleSide
	assert.Len(t, rc.IntersectNode(plane, false), 1)

	mesh.Material.Side = BackSide
	assert.Len(t, rc.IntersectNode(plane, false), 1)
}

func TestRaycastRecursiveSorted(t *testing.T) {
	root := NewNode("root")
	far := NewMeshNode(CreatePlane(1, 1, 1, 1))
	far.SetPosition(mgl32.Vec3{0, 0, -1})
	near := NewMeshNode(CreatePlane(1, 1, 1, 1))
	root.AddChild(far)
	root.AddChild(near)
	root.AddChild(NewMeshNode(CreateAxes(1)))

	rc := NewRaycaster()
	rc.Ray = Ray{Origin: mgl32.Vec3{0, 0, 3}, Direction: mgl32.Vec3{0, 0, -1}}
	hits := rc.IntersectNode(root, true)
	require.Len(t, hits, 2)
	assert.Same(t, near, hits[0].Node)
	assert.Same(t, far, hits[1].Node)

	rc.Far = 3.5
	assert.Len(t, rc.IntersectNode(root, true), 1)
}

func TestTextureSetImageFlipsRows(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})

	tex := NewTexture("mem")
	tex.SetImage(img)
	require.True(t, tex.Loaded)
	assert.Equal(t, 1, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Equal(t, []byte{0, 0, 255, 255, 255, 0, 0, 255}, tex.Pixels)

	tex.FlipY = false
	tex.SetImage(img)
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, tex.Pixels)
}

func TestDecodeImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(3, 3, 5, 4))
	src.Set(3, 3, color.NRGBA{10, 20, 30, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	rgba, err := DecodeImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 1), rgba.Bounds())
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, rgba.RGBAAt(0, 0))

	_, err = DecodeImage(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestRenderTargetTexture(t *testing.T) {
	rt := NewRenderTarget(64, 32)
	require.NotNil(t, rt.Texture)
	assert.True(t, rt.Texture.Owned)
	assert.Equal(t, 64, rt.Texture.Width)
	assert.Equal(t, 32, rt.Texture.Height)
}

func TestMaterialTextureUniformsSorted(t *testing.T) {
	a, b := NewTexture("a"), NewTexture("b")
	m := NewShaderMaterial("m", "", "", map[string]*Uniform{
		"tSec":  {Value: b},
		"tOne":  {Value: a},
		"scale": {Value: float32(2)},
	})
	us := m.TextureUniforms()
	require.Len(t, us, 2)
	assert.Equal(t, "tOne", us[0].Name)
	assert.Equal(t, "tSec", us[1].Name)
}

func TestFrustumCulling(t *testing.T) {
	cam := NewPerspectiveCamera(75, 2, 0.1, 5)
	cam.SetPosition(mgl32.Vec3{0, 0, 2})
	f := CameraFrustum(cam)

	plane := NewMeshNode(CreatePlane(1, 1, 1, 1))
	assert.True(t, plane.InFrustum(&f))

	// Behind the camera.
	plane.SetPosition(mgl32.Vec3{0, 0, 3})
	assert.False(t, plane.InFrustum(&f))

	// Beyond the far plane.
	plane.SetPosition(mgl32.Vec3{0, 0, -4})
	assert.False(t, plane.InFrustum(&f))

	// Far off to the side.
	plane.SetPosition(mgl32.Vec3{20, 0, 0})
	assert.False(t, plane.InFrustum(&f))

	sprite := NewSpriteNode("s", NewSpriteMaterial("s", nil))
	sprite.SetPosition(mgl32.Vec3{1.25, 0, 0})
	assert.True(t, sprite.InFrustum(&f))
	sprite.SetPosition(mgl32.Vec3{0, 50, 0})
	assert.False(t, sprite.InFrustum(&f))

	assert.True(t, NewNode("empty").InFrustum(&f))
}

func TestFrustumPlanesNormalized(t *testing.T) {
	cam := NewOrthographicCamera(-0.5, 0.5, 0.5, -0.5, 0.1, 10)
	cam.SetPosition(mgl32.Vec3{0, 0, 1})
	f := CameraFrustum(cam)

	for i, p := range f.Planes {
		assert.InDelta(t, 1, p.Normal.Len(), 1e-5, "plane %d", i)
	}
	// The left plane sits at x = -0.5.
	assert.InDelta(t, 0, f.Planes[0].DistanceTo(mgl32.Vec3{-0.5, 0, 0}), 1e-5)
	assert.InDelta(t, 0.5, f.Planes[0].DistanceTo(mgl32.Vec3{0, 0, 0}), 1e-5)
}
