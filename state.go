package ggview

// State is the redraw state of a Viewer.
type State uint8

const (
	// Idle means the window shows the current image at the current size.
	Idle State = iota

	// ResizePending means the window size changed and the surface was
	// dropped. A viewer starts here because no size is known yet.
	ResizePending

	// LoadPending means no image is loaded and the next step decodes one.
	LoadPending

	// RenderPending means an image is loaded and must be resampled and shown.
	RenderPending
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case ResizePending:
		return "ResizePending"
	case LoadPending:
		return "LoadPending"
	case RenderPending:
		return "RenderPending"
	default:
		return "Unknown"
	}
}

// pending reports whether a step has work to do in state s.
func (s State) pending() bool {
	return s == LoadPending || s == RenderPending
}
