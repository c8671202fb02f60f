package types

// ---- Buttons ----

// Button identifies one of the three falling-edge inputs.
type Button uint8

const (
	ButtonJoystick Button = iota
	ButtonA
	ButtonB

	NumButtons
)

func (b Button) String() string {
	switch b {
	case ButtonJoystick:
		return "joystick"
	case ButtonA:
		return "button_a"
	case ButtonB:
		return "button_b"
	default:
		return "unknown"
	}
}

// Valid reports whether b names a wired button.
func (b Button) Valid() bool { return b < NumButtons }

// ---- Border style ----

// BorderStyle selects how the display frame is outlined.
type BorderStyle uint8

const (
	BorderSimple BorderStyle = iota
	BorderDouble

	NumBorderStyles
)

// Next cycles forward, wrapping modulo the number of styles.
func (s BorderStyle) Next() BorderStyle {
	return (s + 1) % NumBorderStyles
}

func (s BorderStyle) String() string {
	switch s {
	case BorderSimple:
		return "simple"
	case BorderDouble:
		return "double"
	default:
		return "unknown"
	}
}

// ---- Control state (published, retained) ----

// ControlSnapshot is a point-in-time copy of the shared control flags.
type ControlSnapshot struct {
	PWMEnabled  bool        `json:"pwm_enabled"`
	GreenOn     bool        `json:"green_on"`
	BorderStyle BorderStyle `json:"border_style"`
	Maintenance bool        `json:"maintenance,omitempty"`
}

// LoopStats counts control loop outcomes since boot.
type LoopStats struct {
	Iterations     uint32 `json:"iterations"`
	SkippedFrames  uint32 `json:"skipped_frames"`
	PWMFailures    uint32 `json:"pwm_failures"`
	FlushFailures  uint32 `json:"flush_failures"`
	LastDurationMs uint32 `json:"last_duration_ms"`
}

// ButtonStats counts edge detector decisions for one button.
type ButtonStats struct {
	Accepted uint32 `json:"accepted"`
	Rejected uint32 `json:"rejected"`
}

// ---- Edges ----

// Edge selects which transitions raise an interrupt.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// ButtonEvent reports one edge decision taken in interrupt context.
type ButtonEvent struct {
	Button   Button `json:"button"`
	Edge     Edge   `json:"edge"`
	AtMs     uint32 `json:"at_ms"`
	Accepted bool   `json:"accepted"`
}
