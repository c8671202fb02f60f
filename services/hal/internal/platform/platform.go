package platform

import (
	"io"

	"joyrgb-go/services/hal/internal/halcore"
)

// Peripherals is everything the control loop touches, already configured.
type Peripherals struct {
	Analog      halcore.AnalogIn
	PWM         halcore.PWMOut
	Display     halcore.Display
	Maintenance halcore.Maintenance
	Clock       halcore.Clock
	Pins        halcore.PinFactory

	// LogOutput is where the process logger should write.
	LogOutput io.Writer

	// Sim holds the simulated devices on host builds, nil on hardware.
	Sim *HostDevices
}
