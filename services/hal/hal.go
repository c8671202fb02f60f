// services/hal/hal.go
package hal

import (
	"io"

	"joyrgb-go/errcode"
	"joyrgb-go/services/hal/internal/gpioirq"
	"joyrgb-go/services/hal/internal/halcore"
	"joyrgb-go/services/hal/internal/platform"
	"joyrgb-go/services/hal/internal/platform/boards"
	"joyrgb-go/types"
)

// Capabilities the control loop consumes.
type (
	AnalogIn    = halcore.AnalogIn
	PWMOut      = halcore.PWMOut
	Display     = halcore.Display
	Maintenance = halcore.Maintenance
	Clock       = halcore.Clock
	EdgeHandler = gpioirq.EdgeHandler
)

// Analog channels of the joystick.
const (
	ChannelX = halcore.ChannelX
	ChannelY = halcore.ChannelY
)

// Board is the configured set of peripherals for one device.
type Board struct {
	Analog      AnalogIn
	PWM         PWMOut
	Display     Display
	Maintenance Maintenance
	Clock       Clock

	// LogOutput is the sink for the process logger (stderr or UART0).
	LogOutput io.Writer

	layout boards.Board
	pins   halcore.PinFactory
	irq    *gpioirq.Worker
	sim    *platform.HostDevices
}

// Open brings up every peripheral sized by cfg. Buttons are not armed until
// WireButtons is called.
func Open(cfg types.ControlConfig) (*Board, error) {
	layout := boards.JoystickRGB
	if !layout.PinsDistinct() {
		return nil, errcode.New(errcode.InvalidConfig, "hal.open", "pin assigned twice")
	}
	p, err := platform.Open(layout, cfg)
	if err != nil {
		return nil, err
	}
	return &Board{
		Analog:      p.Analog,
		PWM:         p.PWM,
		Display:     p.Display,
		Maintenance: p.Maintenance,
		Clock:       p.Clock,
		LogOutput:   p.LogOutput,
		layout:      layout,
		pins:        p.Pins,
		irq:         gpioirq.New(p.Clock, 16),
		sim:         p.Sim,
	}, nil
}

// Name identifies the board layout.
func (b *Board) Name() string { return b.layout.Name }

// WireButtons arms a falling-edge interrupt on every button and routes it to h.
// On failure nothing stays armed.
func (b *Board) WireButtons(h EdgeHandler) error {
	for btn := types.Button(0); btn < types.NumButtons; btn++ {
		n := b.layout.ButtonPins[btn]
		pin, ok := b.pins.ByNumber(n)
		if !ok {
			b.irq.Close()
			return errcode.New(errcode.UnknownPin, "hal.wire_buttons", btn.String())
		}
		if _, err := b.irq.RegisterButton(btn, pin, h); err != nil {
			b.irq.Close()
			return err
		}
	}
	return nil
}

// Events mirrors every edge decision taken in interrupt context.
func (b *Board) Events() <-chan types.ButtonEvent { return b.irq.Events() }

// ISRDrops counts edge events that did not fit in the Events queue.
func (b *Board) ISRDrops() uint32 { return b.irq.ISRDrops() }

// Close disarms the button interrupts.
func (b *Board) Close() { b.irq.Close() }
