package boards

import "joyrgb-go/types"

// Board describes the wiring of one PCB: which GPIO feeds which input and
// drives which output. Numbers are plain GPIO numbers; mapping to
// machine.Pin happens in the platform layer.
type Board struct {
	Name string

	// ADC inputs for the joystick axes, by ADC channel (0 = X, 1 = Y).
	AxisPins [2]int

	// Falling-edge buttons, pulled up.
	ButtonPins [types.NumButtons]int

	// RGB LED, one PWM output per channel.
	LEDPins [types.NumLEDChannels]int

	// SSD1306 on I²C.
	DisplayI2C  string
	DisplaySDA  int
	DisplaySCL  int
	DisplayAddr uint16
	DisplayHz   uint32

	// Log output.
	UARTTX, UARTRX int
	UARTBaud       uint32
}

// JoystickRGB is the joystick + RGB LED + 128x64 OLED carrier for the Pico.
var JoystickRGB = Board{
	Name:       "joystick_rgb",
	AxisPins:   [2]int{26, 27},
	ButtonPins: [types.NumButtons]int{types.ButtonJoystick: 22, types.ButtonA: 5, types.ButtonB: 6},
	LEDPins:    [types.NumLEDChannels]int{types.LEDRed: 13, types.LEDGreen: 11, types.LEDBlue: 12},

	DisplayI2C:  "i2c1",
	DisplaySDA:  14,
	DisplaySCL:  15,
	DisplayAddr: 0x3C,
	DisplayHz:   400_000,

	UARTTX:   0,
	UARTRX:   1,
	UARTBaud: 115200,
}

// PinsDistinct reports whether no GPIO is claimed twice.
func (b Board) PinsDistinct() bool {
	seen := map[int]bool{}
	claim := func(n int) bool {
		if seen[n] {
			return false
		}
		seen[n] = true
		return true
	}
	all := append([]int{}, b.AxisPins[:]...)
	all = append(all, b.ButtonPins[:]...)
	all = append(all, b.LEDPins[:]...)
	all = append(all, b.DisplaySDA, b.DisplaySCL, b.UARTTX, b.UARTRX)
	for _, n := range all {
		if !claim(n) {
			return false
		}
	}
	return true
}
