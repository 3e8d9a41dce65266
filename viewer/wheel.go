package viewer

import (
	"github.com/go-gl/mathgl/mgl32"

	"planeview/core"
)

// OnWheel zooms towards (or away from) the point of the plane under the
// cursor. The camera and the controller target move together so the orbit
// radius is kept. Nothing happens when the cursor is not over the plane.
// Any event without a negative DeltaY, horizontal scrolls included, zooms out.
func (v *Viewer) OnWheel(ev core.WheelEvent) {
	v.Controls.OnWheel(ev)

	w, h := v.surface.ClientSize()
	if w <= 0 || h <= 0 {
		return
	}
	ndc := mgl32.Vec2{
		float32(ev.X/w*2 - 1),
		float32(1 - ev.Y/h*2),
	}

	v.raycaster.SetFromCamera(ndc, v.Camera)
	hits := v.raycaster.IntersectNode(v.Plane, false)
	if len(hits) == 0 {
		return
	}

	step := v.Camera.Unproject(mgl32.Vec3{ndc.X(), ndc.Y(), 0}).Sub(v.Camera.Position)
	if step.LenSqr() == 0 {
		return
	}
	step = step.Normalize().Mul(v.cfg.ZoomStep)

	if ev.DeltaY < 0 {
		if v.cfg.Variant != 2 || hits[0].Distance > v.cfg.ZoomGuard {
			v.Camera.Position = v.Camera.Position.Add(step)
			v.Controls.Target = v.Controls.Target.Add(step)
		}
	} else {
		v.Camera.Position = v.Camera.Position.Sub(step)
		v.Controls.Target = v.Controls.Target.Sub(step)
	}
	v.Camera.UpdateProjectionMatrix()
}
