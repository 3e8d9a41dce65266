package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"planeview/core"
)

// SetWheelCallback reports scroll input together with the cursor position at
// the time of the scroll.
func (w *Window) SetWheelCallback(cb core.WheelCallback) {
	w.Handle.SetScrollCallback(func(win *glfw.Window, xoff, yoff float64) {
		x, y := win.GetCursorPos()
		cb(core.WheelEvent{X: x, Y: y, DeltaX: -xoff, DeltaY: -yoff})
	})
}

// SetPointerCallbacks wires button press/release and cursor motion.
func (w *Window) SetPointerCallbacks(down, move, up core.PointerCallback) {
	w.Handle.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		x, y := win.GetCursorPos()
		ev := core.PointerEvent{X: x, Y: y, Button: pointerButton(button)}
		switch action {
		case glfw.Press:
			if down != nil {
				down(ev)
			}
		case glfw.Release:
			if up != nil {
				up(ev)
			}
		}
	})
	w.Handle.SetCursorPosCallback(func(win *glfw.Window, x, y float64) {
		if move != nil {
			move(core.PointerEvent{X: x, Y: y})
		}
	})
}

// SetKeyCallback reports key presses only.
func (w *Window) SetKeyCallback(cb func(key int)) {
	w.Handle.SetKeyCallback(func(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press {
			cb(int(key))
		}
	})
}

func pointerButton(b glfw.MouseButton) int {
	switch b {
	case glfw.MouseButtonLeft:
		return core.MouseLeft
	case glfw.MouseButtonRight:
		return core.MouseRight
	case glfw.MouseButtonMiddle:
		return core.MouseMiddle
	}
	return core.MouseOther
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const (
	KeyEscape = int(glfw.KeyEscape)
	KeyR      = int(glfw.KeyR)
	KeyD      = int(glfw.KeyD)
)
