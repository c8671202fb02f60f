// services/hal/internal/platform/factories_rp2040.go
//go:build rp2040

package platform

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/ssd1306"

	"joyrgb-go/errcode"
	"joyrgb-go/services/hal/internal/halcore"
	"joyrgb-go/services/hal/internal/platform/boards"
	"joyrgb-go/types"
	"joyrgb-go/x/timex"
)

// HostDevices only exists on host builds.
type HostDevices struct{}

// pwmFreqHz matches the free-running 125 MHz / 4096 rate of a 12-bit wrap.
const pwmFreqHz = 30_000

// Open configures the RP2040 peripherals described by b.
func Open(b boards.Board, cfg types.ControlConfig) (*Peripherals, error) {
	logOut := uartx.UART0
	_ = logOut.Configure(uartx.UARTConfig{
		BaudRate: b.UARTBaud,
		TX:       machine.Pin(b.UARTTX),
		RX:       machine.Pin(b.UARTRX),
	})

	adc, err := newRP2ADC(b.AxisPins)
	if err != nil {
		return nil, err
	}
	pwm, err := newRP2PWM(b.LEDPins, cfg.Wrap)
	if err != nil {
		return nil, err
	}
	disp, err := newRP2Display(b, cfg.Display)
	if err != nil {
		return nil, err
	}

	return &Peripherals{
		Analog:      adc,
		PWM:         pwm,
		Display:     disp,
		Maintenance: rp2Bootloader{},
		Clock:       timex.NewMonoClock(),
		Pins:        rp2PinFactory{},
		LogOutput:   logOut,
	}, nil
}

// ---- ADC ----

type rp2ADC struct {
	ch [2]machine.ADC
}

func newRP2ADC(pins [2]int) (*rp2ADC, error) {
	machine.InitADC()
	a := &rp2ADC{}
	for i, p := range pins {
		if p < 26 || p > 29 {
			return nil, errcode.New(errcode.UnknownPin, "adc.configure", "not an ADC pin")
		}
		a.ch[i] = machine.ADC{Pin: machine.Pin(p)}
		a.ch[i].Configure(machine.ADCConfig{})
	}
	return a, nil
}

// Read returns a 12-bit sample. machine.ADC.Get left-aligns to 16 bits.
func (a *rp2ADC) Read(ch int) (uint16, error) {
	if ch < 0 || ch >= len(a.ch) {
		return 0, errcode.New(errcode.UnknownChannel, "adc.read", "")
	}
	return a.ch[ch].Get() >> 4, nil
}

// ---- PWM ----

// pwmGroup is the subset of machine's RP2040 PWM slice we use.
type pwmGroup interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	SetTop(top uint32)
}

type rp2PWMChannel struct {
	grp pwmGroup
	ch  uint8
}

type rp2PWM struct {
	top uint16
	out [types.NumLEDChannels]rp2PWMChannel
}

func sliceFor(pin int) pwmGroup {
	switch (pin >> 1) & 7 {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

func newRP2PWM(pins [types.NumLEDChannels]int, top uint16) (*rp2PWM, error) {
	p := &rp2PWM{top: top}
	for i, n := range pins {
		grp := sliceFor(n)
		if err := grp.Configure(machine.PWMConfig{Period: timex.PeriodFromHz(pwmFreqHz)}); err != nil {
			return nil, errcode.Wrap(errcode.PeripheralIO, "pwm.configure", err)
		}
		grp.SetTop(uint32(top))
		ch, err := grp.Channel(machine.Pin(n))
		if err != nil {
			return nil, errcode.Wrap(errcode.UnknownPin, "pwm.channel", err)
		}
		grp.Set(ch, 0)
		p.out[i] = rp2PWMChannel{grp: grp, ch: ch}
	}
	return p, nil
}

func (p *rp2PWM) Top() uint16 { return p.top }

func (p *rp2PWM) Set(ch types.LEDChannel, level uint16) error {
	if ch >= types.NumLEDChannels {
		return errcode.New(errcode.UnknownChannel, "pwm.set", ch.String())
	}
	if level > p.top {
		level = p.top
	}
	o := p.out[ch]
	o.grp.Set(o.ch, uint32(level))
	return nil
}

// ---- Display ----

func newRP2Display(b boards.Board, d types.DisplayConfig) (*Canvas, error) {
	var bus *machine.I2C
	switch b.DisplayI2C {
	case "i2c0":
		bus = machine.I2C0
	case "i2c1":
		bus = machine.I2C1
	default:
		return nil, errcode.New(errcode.InvalidParams, "display.open", "unknown bus "+b.DisplayI2C)
	}
	if err := bus.Configure(machine.I2CConfig{
		Frequency: b.DisplayHz,
		SDA:       machine.Pin(b.DisplaySDA),
		SCL:       machine.Pin(b.DisplaySCL),
	}); err != nil {
		return nil, errcode.Wrap(errcode.PeripheralIO, "display.i2c", err)
	}

	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Address: b.DisplayAddr,
		Width:   d.Width,
		Height:  d.Height,
	})
	return NewCanvas(dev), nil
}

// ---- Maintenance ----

type rp2Bootloader struct{}

// Enter reboots into the USB mass-storage bootloader. It does not return.
func (rp2Bootloader) Enter() { machine.EnterBootloader() }

// ---- GPIO (includes IRQ support) ----

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (halcore.IRQPin, bool) {
	// Constrain to RP2's user GPIOs (GP0..GP28).
	if n < 0 || n > 28 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull halcore.Pull) error {
	var mode machine.PinMode
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) Get() bool   { return r.p.Get() }
func (r *rp2Pin) Number() int { return r.n }

func (r *rp2Pin) SetIRQ(edge types.Edge, handler func()) error {
	return r.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() })
}

func (r *rp2Pin) ClearIRQ() error {
	var zero machine.PinChange
	return r.p.SetInterrupt(zero, nil)
}

func toPinChange(e types.Edge) machine.PinChange {
	switch e {
	case types.EdgeRising:
		return machine.PinRising
	case types.EdgeFalling:
		return machine.PinFalling
	case types.EdgeBoth:
		return machine.PinToggle
	default:
		var zero machine.PinChange
		return zero
	}
}
