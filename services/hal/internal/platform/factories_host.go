// services/hal/internal/platform/factories_host.go
//go:build !rp2040

package platform

import (
	"errors"
	"image/color"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"joyrgb-go/errcode"
	"joyrgb-go/services/hal/internal/halcore"
	"joyrgb-go/services/hal/internal/platform/boards"
	"joyrgb-go/types"
	"joyrgb-go/x/timex"
)

// HostDevices exposes the simulated peripherals so a host runner or a test
// can drive inputs and inspect outputs.
type HostDevices struct {
	ADC         *SimADC
	PWM         *RecordingPWM
	Screen      *Framebuffer
	Pins        *HostPinFactory
	Maintenance *HostMaintenance
	Board       boards.Board
}

// Button returns the fake pin wired to btn.
func (h *HostDevices) Button(btn types.Button) *FakePin {
	p, _ := h.Pins.Get(h.Board.ButtonPins[btn])
	return p
}

// Open builds simulated peripherals sized by cfg.
func Open(b boards.Board, cfg types.ControlConfig) (*Peripherals, error) {
	if cfg.Display.Width <= 0 || cfg.Display.Height <= 0 {
		return nil, errcode.New(errcode.InvalidParams, "platform.open", "display size")
	}
	sim := &HostDevices{
		ADC:         NewSimADC(2, cfg.ADCMax),
		PWM:         NewRecordingPWM(cfg.Wrap),
		Screen:      NewFramebuffer(cfg.Display.Width, cfg.Display.Height),
		Pins:        &HostPinFactory{},
		Maintenance: &HostMaintenance{},
		Board:       b,
	}
	// Materialise the button pins so Button() works before registration.
	for _, n := range b.ButtonPins {
		sim.Pins.ByNumber(n)
	}
	return &Peripherals{
		Analog:      sim.ADC,
		PWM:         sim.PWM,
		Display:     NewCanvas(sim.Screen),
		Maintenance: sim.Maintenance,
		Clock:       timex.NewMonoClock(),
		Pins:        sim.Pins,
		LogOutput:   os.Stderr,
		Sim:         sim,
	}, nil
}

// ----------------------------- ADC (host) ------------------------------------

// SimADC holds one settable sample per channel, initially mid-scale.
type SimADC struct {
	max  uint16
	vals []atomic.Uint32
	fail atomic.Bool
}

func NewSimADC(channels int, max uint16) *SimADC {
	a := &SimADC{max: max, vals: make([]atomic.Uint32, channels)}
	for i := range a.vals {
		a.vals[i].Store(uint32(max/2 + 1))
	}
	return a
}

// Set stores a sample, clamped to full scale.
func (a *SimADC) Set(ch int, v uint16) {
	if v > a.max {
		v = a.max
	}
	a.vals[ch].Store(uint32(v))
}

// FailReads makes every Read fail until cleared.
func (a *SimADC) FailReads(on bool) { a.fail.Store(on) }

func (a *SimADC) Read(ch int) (uint16, error) {
	if ch < 0 || ch >= len(a.vals) {
		return 0, errcode.New(errcode.UnknownChannel, "adc.read", "")
	}
	if a.fail.Load() {
		return 0, errcode.New(errcode.PeripheralIO, "adc.read", "simulated failure")
	}
	return uint16(a.vals[ch].Load()), nil
}

// ----------------------------- PWM (host) ------------------------------------

// RecordingPWM remembers the last duty per channel.
type RecordingPWM struct {
	mu     sync.Mutex
	top    uint16
	levels [types.NumLEDChannels]uint16
	writes int
}

func NewRecordingPWM(top uint16) *RecordingPWM { return &RecordingPWM{top: top} }

func (p *RecordingPWM) Top() uint16 { return p.top }

func (p *RecordingPWM) Set(ch types.LEDChannel, level uint16) error {
	if ch >= types.NumLEDChannels {
		return errcode.New(errcode.UnknownChannel, "pwm.set", ch.String())
	}
	if level > p.top {
		level = p.top
	}
	p.mu.Lock()
	p.levels[ch] = level
	p.writes++
	p.mu.Unlock()
	return nil
}

func (p *RecordingPWM) Levels() types.PWMLevels {
	p.mu.Lock()
	defer p.mu.Unlock()
	return types.PWMLevels{Red: p.levels[types.LEDRed], Green: p.levels[types.LEDGreen], Blue: p.levels[types.LEDBlue]}
}

func (p *RecordingPWM) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

// ----------------------------- Display (host) --------------------------------

// ErrSimulatedFlush is returned by Framebuffer.Display when a failure was requested.
var ErrSimulatedFlush = errors.New("simulated flush failure")

// Framebuffer is a 1-bit in-memory panel implementing drivers.Displayer.
type Framebuffer struct {
	mu      sync.Mutex
	w, h    int16
	pix     []bool
	shown   []bool
	flushes int
	failN   int
}

func NewFramebuffer(w, h int16) *Framebuffer {
	n := int(w) * int(h)
	return &Framebuffer{w: w, h: h, pix: make([]bool, n), shown: make([]bool, n)}
}

func (f *Framebuffer) Size() (int16, int16) { return f.w, f.h }

func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	f.mu.Lock()
	f.pix[int(y)*int(f.w)+int(x)] = c.R|c.G|c.B != 0
	f.mu.Unlock()
}

func (f *Framebuffer) ClearBuffer() {
	f.mu.Lock()
	clear(f.pix)
	f.mu.Unlock()
}

// Display latches the drawing buffer into the visible image.
func (f *Framebuffer) Display() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failN > 0 {
		f.failN--
		return ErrSimulatedFlush
	}
	copy(f.shown, f.pix)
	f.flushes++
	return nil
}

// FailNext makes the next n Display calls fail.
func (f *Framebuffer) FailNext(n int) {
	f.mu.Lock()
	f.failN = n
	f.mu.Unlock()
}

// Lit reports whether the visible pixel at (x, y) is on.
func (f *Framebuffer) Lit(x, y int16) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return false
	}
	return f.shown[int(y)*int(f.w)+int(x)]
}

func (f *Framebuffer) Flushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushes
}

// String renders the visible image, two rows per line.
func (f *Framebuffer) String() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sb strings.Builder
	for y := 0; y < int(f.h); y += 2 {
		for x := 0; x < int(f.w); x++ {
			top := f.shown[y*int(f.w)+x]
			bot := y+1 < int(f.h) && f.shown[(y+1)*int(f.w)+x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ----------------------------- Maintenance (host) ----------------------------

// HostMaintenance records requests to enter the bootloader and returns.
type HostMaintenance struct {
	entered atomic.Uint32
}

func (m *HostMaintenance) Enter()        { m.entered.Add(1) }
func (m *HostMaintenance) Count() uint32 { return m.entered.Load() }

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements IRQPin. Press and Release fire the handler synchronously,
// the way a hardware interrupt preempts the caller.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	pull    halcore.Pull
	irqEdge types.Edge
	irqFunc func()
}

func (p *FakePin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	p.pull = pull
	p.level = pull == halcore.PullUp
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

func (p *FakePin) Number() int { return p.number }

// Press pulls the line low (active-low button).
func (p *FakePin) Press() { p.set(false) }

// Release lets the pull-up bring the line back high.
func (p *FakePin) Release() { p.set(true) }

func (p *FakePin) set(level bool) {
	p.mu.Lock()
	edge := edgeFrom(p.level, level)
	p.level = level
	irq := p.irqFunc
	want := irqWanted(p.irqEdge, edge)
	p.mu.Unlock()
	if want && irq != nil {
		irq()
	}
}

func (p *FakePin) SetIRQ(edge types.Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge = edge
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = types.EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

func edgeFrom(old, new bool) types.Edge {
	switch {
	case !old && new:
		return types.EdgeRising
	case old && !new:
		return types.EdgeFalling
	default:
		return types.EdgeNone
	}
}

func irqWanted(cfg, seen types.Edge) bool {
	switch cfg {
	case types.EdgeBoth:
		return seen == types.EdgeRising || seen == types.EdgeFalling
	default:
		return cfg != types.EdgeNone && cfg == seen
	}
}

// HostPinFactory returns stable *FakePin instances per number.
type HostPinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func (f *HostPinFactory) ByNumber(n int) (halcore.IRQPin, bool) {
	if n < 0 || n > 28 {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{number: n}
		f.pins[n] = p
	}
	return p, true
}

// Get exposes the underlying *FakePin for tests (e.g. to drive IRQ edges).
func (f *HostPinFactory) Get(n int) (*FakePin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	return p, ok
}
