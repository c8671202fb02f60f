package boards

import (
	"testing"

	"joyrgb-go/types"
)

func TestJoystickRGBWiring(t *testing.T) {
	b := JoystickRGB
	if !b.PinsDistinct() {
		t.Fatal("a GPIO is claimed twice")
	}
	if b.ButtonPins[types.ButtonB] != 6 || b.LEDPins[types.LEDGreen] != 11 {
		t.Fatalf("unexpected wiring: %+v", b)
	}
	// ADC0..ADC2 are GP26..GP28 on the RP2040.
	for _, p := range b.AxisPins {
		if p < 26 || p > 28 {
			t.Fatalf("axis pin %d is not ADC capable", p)
		}
	}
}

func TestPinsDistinctDetectsClash(t *testing.T) {
	b := JoystickRGB
	b.LEDPins[types.LEDRed] = b.ButtonPins[types.ButtonA]
	if b.PinsDistinct() {
		t.Fatal("clash not detected")
	}
}
