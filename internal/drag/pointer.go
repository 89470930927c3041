package drag

// EventKind tags a normalized pointer event. Mouse and touch input are
// converted to this one shape at the UI boundary so the gesture state
// machine has a single input contract.
type EventKind int

const (
	Press EventKind = iota
	Move
	Release
	Cancel
)

func (k EventKind) String() string {
	switch k {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	case Cancel:
		return "cancel"
	}
	return "unknown"
}

// Event is one normalized pointer sample. TargetID identifies the post under
// the pointer at press time; it is empty for move/release/cancel.
type Event struct {
	Kind     EventKind
	X, Y     float64
	TargetID string
}
