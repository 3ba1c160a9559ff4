package interaction

import "errors"

var (
	ErrNoImage       = errors.New("no image loaded")
	ErrScaleRequired = errors.New("calibrate the scale first")
	ErrInvalidMode   = errors.New("mode cannot be selected")
)

// Mode enumerates the interaction states. Exactly one is active per session.
type Mode int

const (
	ModeLoading Mode = iota
	ModeScaling
	ModePlacingHoles
	ModePlacingAim
	ModeSelectingHole
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeScaling:
		return "scaling"
	case ModePlacingHoles:
		return "placingHoles"
	case ModePlacingAim:
		return "placingAim"
	case ModeSelectingHole:
		return "selectingHole"
	case ModePanning:
		return "panning"
	default:
		return "unknown"
	}
}

// Label is the human readable mode name.
func (m Mode) Label() string {
	switch m {
	case ModeLoading:
		return "Load an image"
	case ModeScaling:
		return "Draw reference line"
	case ModePlacingHoles:
		return "Place holes"
	case ModePlacingAim:
		return "Place aiming point"
	case ModeSelectingHole:
		return "Select hole"
	case ModePanning:
		return "Pan"
	default:
		return "?"
	}
}

// NeedsScale reports whether the mode edits calibrated annotations.
func (m Mode) NeedsScale() bool {
	return m == ModePlacingHoles || m == ModePlacingAim || m == ModeSelectingHole
}

// ModeListener is called on each mode transition.
type ModeListener func(prev, next Mode)

// Key is a keyboard command understood by the controller.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyDelete
	KeyEscape
	KeyZoomIn
	KeyZoomOut
	KeyZoomFit
)

// ParseKey maps Tk keysyms to keys.
func ParseKey(keysym string) Key {
	switch keysym {
	case "Left", "KP_Left":
		return KeyLeft
	case "Right", "KP_Right":
		return KeyRight
	case "Up", "KP_Up":
		return KeyUp
	case "Down", "KP_Down":
		return KeyDown
	case "Delete", "BackSpace", "KP_Delete":
		return KeyDelete
	case "Escape":
		return KeyEscape
	case "plus", "equal", "KP_Add":
		return KeyZoomIn
	case "minus", "underscore", "KP_Subtract":
		return KeyZoomOut
	case "0", "Home":
		return KeyZoomFit
	}
	return KeyNone
}

// Options tune hit-testing and drag behaviour.
type Options struct {
	HitRadiusBufferPx      float64
	NudgeDisplayPx         float64
	DragThresholdDisplayPx float64
	ZoomStep               float64
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{HitRadiusBufferPx: 12, NudgeDisplayPx: 1, DragThresholdDisplayPx: 4, ZoomStep: 1.25}
}

type dragKind int

const (
	dragNone dragKind = iota
	dragPan
	dragReference
	dragHole
	dragInfo
)

func (d dragKind) String() string {
	switch d {
	case dragPan:
		return "pan"
	case dragReference:
		return "reference"
	case dragHole:
		return "hole"
	case dragInfo:
		return "info"
	default:
		return "none"
	}
}
