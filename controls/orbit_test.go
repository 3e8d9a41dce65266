package controls

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planeview/core"
	"planeview/scene"
)

type fakeSurface struct {
	w, h float64
}

func (s fakeSurface) ClientSize() (float64, float64) { return s.w, s.h }

func newTestOrbit() (*Orbit, *scene.Camera) {
	cam := scene.NewPerspectiveCamera(75, 2, 0.1, 5)
	cam.SetPosition(mgl32.Vec3{0, 0, 2})
	return NewOrbit(cam, fakeSurface{w: 800, h: 400}), cam
}

func TestUpdateWithoutInputKeepsCamera(t *testing.T) {
	o, cam := newTestOrbit()
	o.Target = mgl32.Vec3{0.1, 0.2, 0}
	cam.SetPosition(mgl32.Vec3{0.3, -0.1, 1.7})

	for i := 0; i < 5; i++ {
		assert.False(t, o.Update())
	}
	assert.Equal(t, mgl32.Vec3{0.3, -0.1, 1.7}, cam.Position)
	assert.Equal(t, mgl32.Vec3{0.1, 0.2, 0}, o.Target)
}

func TestRotateLeftKeepsDistance(t *testing.T) {
	o, cam := newTestOrbit()

	o.RotateLeft(-math.Pi / 2)
	require.True(t, o.Update())

	assert.InDelta(t, 2, cam.Position.Len(), 1e-4)
	assert.InDelta(t, 2, cam.Position.X(), 1e-4)
	assert.InDelta(t, 0, cam.Position.Z(), 1e-4)
	f := cam.Forward()
	assert.InDelta(t, -1, f.X(), 1e-4)
	assert.InDelta(t, 0, f.Y(), 1e-4)
	assert.InDelta(t, 0, f.Z(), 1e-4)
}

func TestPolarAngleClamped(t *testing.T) {
	o, cam := newTestOrbit()

	// Tilting far past the pole stops just short of it.
	o.RotateUp(10)
	o.Update()

	assert.InDelta(t, 2, cam.Position.Len(), 1e-4)
	assert.InDelta(t, 2, cam.Position.Y(), 1e-4)
	f := cam.Forward()
	assert.False(t, math.IsNaN(float64(f.X())))
	assert.InDelta(t, -1, f.Y(), 1e-3)

	o.RotateUp(-20)
	o.Update()
	assert.InDelta(t, -2, cam.Position.Y(), 1e-4)
}

func TestDragRotate(t *testing.T) {
	o, cam := newTestOrbit()

	o.OnPointerDown(core.PointerEvent{X: 100, Y: 100, Button: core.MouseLeft})
	// 100 px on a 400 px tall surface is a quarter turn.
	o.OnPointerMove(core.PointerEvent{X: 0, Y: 100})
	o.OnPointerUp(core.PointerEvent{X: 0, Y: 100})
	o.Update()

	assert.InDelta(t, 2, cam.Position.X(), 1e-4)

	// Moves after release are ignored.
	o.OnPointerMove(core.PointerEvent{X: 300, Y: 300})
	assert.False(t, o.Update())
}

func TestPanMovesTargetAndCamera(t *testing.T) {
	o, cam := newTestOrbit()

	o.OnPointerDown(core.PointerEvent{X: 200, Y: 200, Button: core.MouseRight})
	o.OnPointerMove(core.PointerEvent{X: 100, Y: 200})
	o.OnPointerUp(core.PointerEvent{})
	o.Update()

	// Dragging left moves the view right.
	assert.Greater(t, o.Target.X(), float32(0))
	assert.InDelta(t, 0, o.Target.Y(), 1e-5)
	assert.InDelta(t, o.Target.X(), cam.Position.X(), 1e-4)
	assert.InDelta(t, 2, cam.Position.Z(), 1e-4)

	expected := 2 * 100 * 2 * float32(math.Tan(float64(mgl32.DegToRad(37.5)))) / 400
	assert.InDelta(t, expected, o.Target.X(), 1e-4)
}

func TestWheelZoomRespectsEnableZoom(t *testing.T) {
	o, cam := newTestOrbit()

	o.EnableZoom = false
	o.OnWheel(core.WheelEvent{DeltaY: -1})
	assert.False(t, o.Update())
	assert.Equal(t, mgl32.Vec3{0, 0, 2}, cam.Position)

	o.EnableZoom = true
	o.OnWheel(core.WheelEvent{DeltaY: -1})
	o.Update()
	assert.InDelta(t, 1.9, cam.Position.Z(), 1e-4)

	o.OnWheel(core.WheelEvent{DeltaY: 1})
	o.Update()
	assert.InDelta(t, 2, cam.Position.Z(), 1e-4)
}

func TestDistanceLimits(t *testing.T) {
	o, cam := newTestOrbit()
	o.MinDistance = 1.5

	for i := 0; i < 20; i++ {
		o.DollyIn(0.5)
	}
	o.Update()
	assert.InDelta(t, 1.5, cam.Position.Len(), 1e-4)
}

func TestDampingSettles(t *testing.T) {
	o, cam := newTestOrbit()
	o.EnableDamping = true

	o.RotateLeft(-math.Pi / 2)
	o.Update()
	first := cam.Position
	assert.Greater(t, first.X(), float32(0))
	assert.Less(t, first.X(), float32(0.5))

	for i := 0; i < 1000 && o.pending(); i++ {
		o.Update()
	}
	assert.False(t, o.pending())
	assert.InDelta(t, 2, cam.Position.X(), 0.01)
}

func TestDisabledIgnoresInput(t *testing.T) {
	o, _ := newTestOrbit()
	o.Enabled = false

	o.OnPointerDown(core.PointerEvent{X: 0, Y: 0, Button: core.MouseLeft})
	o.OnPointerMove(core.PointerEvent{X: 50, Y: 50})
	o.OnWheel(core.WheelEvent{DeltaY: 1})
	assert.False(t, o.pending())
}
