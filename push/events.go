package push

// EventKind classifies a decoded controller event.
type EventKind int

const (
	PadDown EventKind = iota
	PadRelease
	PadPressure
	DialChange
)

func (k EventKind) String() string {
	switch k {
	case PadDown:
		return "pad_down"
	case PadRelease:
		return "pad_release"
	case PadPressure:
		return "pad_pressure"
	case DialChange:
		return "dial_change"
	}
	return "unknown"
}

// Event is an abstract controller event: a pad transition, polyphonic
// pressure on a held pad, or a signed relative dial delta.
type Event struct {
	Kind     EventKind
	Row      int
	Step     int
	Pressure int
	Dial     int
	Delta    int
}
