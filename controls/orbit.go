package controls

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"planeview/core"
	"planeview/scene"
)

const epsilon = 1e-6

// Surface reports the size of the element the pointer moves over.
type Surface interface {
	ClientSize() (float64, float64)
}

type dragState int

const (
	dragNone dragState = iota
	dragRotate
	dragPan
	dragDolly
)

// Orbit moves a camera around a target point. The camera always looks at
// Target; its position is kept as a spherical offset from it (Y up).
//
// Input handlers only accumulate deltas. They are applied by Update, which
// the owner calls once per frame.
type Orbit struct {
	Camera *scene.Camera
	Target mgl32.Vec3

	Enabled       bool
	EnableDamping bool
	DampingFactor float32
	EnableRotate  bool
	EnablePan     bool
	EnableZoom    bool

	RotateSpeed float32
	PanSpeed    float32
	ZoomSpeed   float32

	MinDistance   float32
	MaxDistance   float32
	MinPolarAngle float32 // radians, 0 looks straight down
	MaxPolarAngle float32

	surface Surface

	state        dragState
	lastX, lastY float64

	deltaTheta float32
	deltaPhi   float32
	panOffset  mgl32.Vec3
	scale      float32
}

// NewOrbit attaches a controller to camera. The target starts at the origin.
func NewOrbit(camera *scene.Camera, surface Surface) *Orbit {
	o := &Orbit{
		Camera:        camera,
		Enabled:       true,
		DampingFactor: 0.05,
		EnableRotate:  true,
		EnablePan:     true,
		EnableZoom:    true,
		RotateSpeed:   1,
		PanSpeed:      1,
		ZoomSpeed:     1,
		MinDistance:   0,
		MaxDistance:   float32(math.Inf(1)),
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
		surface:       surface,
		scale:         1,
	}
	camera.LookAt(o.Target)
	return o
}

// Update applies pending rotate, pan and dolly input to the camera. It
// reports whether the camera moved. Without pending input the camera
// position and the target are left untouched.
func (o *Orbit) Update() bool {
	if !o.pending() {
		return false
	}

	offset := o.Camera.Position.Sub(o.Target)
	radius := offset.Len()

	var theta, phi float32
	if radius > 0 {
		theta = atan2(offset.X(), offset.Z())
		phi = acos(clamp(offset.Y()/radius, -1, 1))
	} else {
		phi = math.Pi / 2
	}

	factor := float32(1)
	if o.EnableDamping {
		factor = o.DampingFactor
	}
	theta += o.deltaTheta * factor
	phi += o.deltaPhi * factor
	phi = clamp(phi, max32(o.MinPolarAngle, epsilon), min32(o.MaxPolarAngle, math.Pi-epsilon))

	radius = clamp(radius*o.scale, o.MinDistance, o.MaxDistance)

	o.Target = o.Target.Add(o.panOffset.Mul(factor))

	sinPhi := sin(phi)
	offset = mgl32.Vec3{
		radius * sinPhi * sin(theta),
		radius * cos(phi),
		radius * sinPhi * cos(theta),
	}

	before := o.Camera.Position
	o.Camera.Position = o.Target.Add(offset)
	o.Camera.LookAt(o.Target)

	if o.EnableDamping {
		o.deltaTheta *= 1 - o.DampingFactor
		o.deltaPhi *= 1 - o.DampingFactor
		o.panOffset = o.panOffset.Mul(1 - o.DampingFactor)
		o.settle()
	} else {
		o.deltaTheta, o.deltaPhi = 0, 0
		o.panOffset = mgl32.Vec3{}
	}
	o.scale = 1

	return o.Camera.Position.Sub(before).LenSqr() > epsilon
}

// Reset drops any accumulated input.
func (o *Orbit) Reset() {
	o.state = dragNone
	o.deltaTheta, o.deltaPhi = 0, 0
	o.panOffset = mgl32.Vec3{}
	o.scale = 1
}

func (o *Orbit) pending() bool {
	return o.deltaTheta != 0 || o.deltaPhi != 0 || o.panOffset != (mgl32.Vec3{}) || o.scale != 1
}

// settle zeroes damped deltas once they stop having a visible effect.
func (o *Orbit) settle() {
	if abs32(o.deltaTheta) < epsilon {
		o.deltaTheta = 0
	}
	if abs32(o.deltaPhi) < epsilon {
		o.deltaPhi = 0
	}
	if o.panOffset.LenSqr() < epsilon*epsilon {
		o.panOffset = mgl32.Vec3{}
	}
}

// ── input ────────────────────────────────────────────────────────────────────

// OnPointerDown starts a rotate (primary button), pan (secondary button) or
// dolly (middle button) drag.
func (o *Orbit) OnPointerDown(ev core.PointerEvent) {
	if !o.Enabled {
		return
	}
	switch ev.Button {
	case core.MouseLeft:
		if !o.EnableRotate {
			return
		}
		o.state = dragRotate
	case core.MouseRight:
		if !o.EnablePan {
			return
		}
		o.state = dragPan
	case core.MouseMiddle:
		if !o.EnableZoom {
			return
		}
		o.state = dragDolly
	default:
		return
	}
	o.lastX, o.lastY = ev.X, ev.Y
}

func (o *Orbit) OnPointerMove(ev core.PointerEvent) {
	if !o.Enabled || o.state == dragNone {
		return
	}
	dx, dy := ev.X-o.lastX, ev.Y-o.lastY
	o.lastX, o.lastY = ev.X, ev.Y

	_, h := o.surface.ClientSize()
	if h <= 0 {
		return
	}

	switch o.state {
	case dragRotate:
		o.RotateLeft(float32(2*math.Pi*dx/h) * o.RotateSpeed)
		o.RotateUp(float32(2*math.Pi*dy/h) * o.RotateSpeed)
	case dragPan:
		o.Pan(dx*float64(o.PanSpeed), dy*float64(o.PanSpeed))
	case dragDolly:
		if dy > 0 {
			o.DollyOut(o.zoomScale())
		} else if dy < 0 {
			o.DollyIn(o.zoomScale())
		}
	}
}

func (o *Orbit) OnPointerUp(core.PointerEvent) {
	o.state = dragNone
}

// OnWheel dollies the camera when zoom is enabled.
func (o *Orbit) OnWheel(ev core.WheelEvent) {
	if !o.Enabled || !o.EnableZoom || o.state != dragNone {
		return
	}
	if ev.DeltaY < 0 {
		o.DollyIn(o.zoomScale())
	} else if ev.DeltaY > 0 {
		o.DollyOut(o.zoomScale())
	}
}

// ── primitive moves ──────────────────────────────────────────────────────────

// RotateLeft orbits around the vertical axis by angle radians.
func (o *Orbit) RotateLeft(angle float32) {
	o.deltaTheta -= angle
}

// RotateUp tilts the camera over the target by angle radians.
func (o *Orbit) RotateUp(angle float32) {
	o.deltaPhi -= angle
}

// Pan shifts the target by a screen-space distance in pixels so that the
// point under the cursor follows it.
func (o *Orbit) Pan(dx, dy float64) {
	w, h := o.surface.ClientSize()
	if w <= 0 || h <= 0 {
		return
	}

	right := o.Camera.RightVector()
	up := o.Camera.UpVector()

	switch o.Camera.Projection {
	case scene.ProjectionOrthographic:
		o.panLeft(float32(dx)*(o.Camera.Right-o.Camera.Left)/float32(w), right)
		o.panUp(float32(dy)*(o.Camera.Top-o.Camera.Bottom)/float32(h), up)
	default:
		distance := o.Camera.Position.Sub(o.Target).Len()
		distance *= float32(math.Tan(float64(mgl32.DegToRad(o.Camera.FOV)) / 2))
		o.panLeft(2*float32(dx)*distance/float32(h), right)
		o.panUp(2*float32(dy)*distance/float32(h), up)
	}
}

func (o *Orbit) panLeft(distance float32, right mgl32.Vec3) {
	o.panOffset = o.panOffset.Add(right.Mul(-distance))
}

func (o *Orbit) panUp(distance float32, up mgl32.Vec3) {
	o.panOffset = o.panOffset.Add(up.Mul(distance))
}

// DollyIn moves the camera towards the target; scale is below 1 and
// multiplies the distance.
func (o *Orbit) DollyIn(scale float32) {
	o.scale *= scale
}

func (o *Orbit) DollyOut(scale float32) {
	o.scale /= scale
}

func (o *Orbit) zoomScale() float32 {
	return float32(math.Pow(0.95, float64(o.ZoomSpeed)))
}

// ── float32 helpers ──────────────────────────────────────────────────────────

func sin(v float32) float32      { return float32(math.Sin(float64(v))) }
func cos(v float32) float32      { return float32(math.Cos(float64(v))) }
func acos(v float32) float32     { return float32(math.Acos(float64(v))) }
func atan2(y, x float32) float32 { return float32(math.Atan2(float64(y), float64(x))) }

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
