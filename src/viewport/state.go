package viewport

import "github.com/iafilius/chartviewport/src/types"

// Mode tells whether an axis follows the data or is pinned.
type Mode int

const (
	ModeDefault Mode = iota
	ModePinned
)

func (m Mode) String() string {
	if m == ModePinned {
		return "pinned"
	}
	return "default"
}

// PinSource records what pinned an axis.
type PinSource int

const (
	PinNone PinSource = iota
	PinOption
	PinGesture
)

func (p PinSource) String() string {
	switch p {
	case PinOption:
		return "option"
	case PinGesture:
		return "gesture"
	default:
		return "none"
	}
}

// AxisState describes the pin bookkeeping of one axis. A mixed pin has only
// one of LowPinned and HighPinned set.
type AxisState struct {
	Mode       Mode
	Source     PinSource
	LowPinned  bool
	HighPinned bool
}

// pinnedState reports a pin; a range with neither bound set holds nothing.
func pinnedState(src PinSource, r types.Range) AxisState {
	if !r.HasLow() && !r.HasHigh() {
		return AxisState{}
	}
	return AxisState{Mode: ModePinned, Source: src, LowPinned: r.HasLow(), HighPinned: r.HasHigh()}
}
