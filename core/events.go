package core

// WheelEvent is a scroll input in browser convention: DeltaY < 0 means the
// wheel was rolled away from the user.
type WheelEvent struct {
	X, Y   float64
	DeltaX float64
	DeltaY float64
}

// PointerEvent carries a cursor position in screen coordinates and, for
// button transitions, the button involved.
type PointerEvent struct {
	X, Y   float64
	Button int
}

type WheelCallback func(WheelEvent)
type PointerCallback func(PointerEvent)

// Pointer buttons. Hosts translate their own button codes into these.
const (
	MouseLeft = iota
	MouseRight
	MouseMiddle
	MouseOther
)
