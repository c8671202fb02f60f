// services/hal/internal/halcore/types.go
package halcore

import (
	"joyrgb-go/types"
	"joyrgb-go/x/timex"
)

// Analog channels of the joystick.
const (
	ChannelX = 0
	ChannelY = 1
)

// ---- Analog input ----

// AnalogIn samples a channel. Results are right-aligned in [0, ADCMax].
type AnalogIn interface {
	Read(channel int) (uint16, error)
}

// ---- PWM output ----

// PWMOut sets the duty of one LED channel, 0..Top.
type PWMOut interface {
	Set(ch types.LEDChannel, level uint16) error
	Top() uint16
}

// ---- Display ----

// Display is a monochrome framebuffer with an explicit flush.
type Display interface {
	Size() (width, height int16)
	Clear()
	DrawRect(x, y, w, h int16, on, filled bool)
	Flush() error
}

// ---- Maintenance ----

// Maintenance hands the device over to the bootloader. On hardware Enter
// does not return.
type Maintenance interface {
	Enter()
}

// Clock is the monotonic millisecond source used for debouncing.
type Clock = timex.Clock

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	Get() bool
	Number() int
}

// IRQPin extends GPIOPin with interrupts. The handler runs in interrupt
// context: it must not block, allocate or log.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge types.Edge, handler func()) error
	ClearIRQ() error
}

// PinFactory supplies GPIO pins by the configured number scheme.
type PinFactory interface {
	ByNumber(n int) (IRQPin, bool)
}

