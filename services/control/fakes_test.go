package control

import (
	"errors"

	"joyrgb-go/types"
)

var errFake = errors.New("fake peripheral failure")

type fakeADC struct {
	vals  [2]uint16
	fails bool
	reads []int
}

func (a *fakeADC) Read(ch int) (uint16, error) {
	a.reads = append(a.reads, ch)
	if a.fails {
		return 0, errFake
	}
	return a.vals[ch], nil
}

type fakePWM struct {
	top    uint16
	levels types.PWMLevels
	writes int
	fail   bool
}

func (p *fakePWM) Top() uint16 { return p.top }

func (p *fakePWM) Set(ch types.LEDChannel, v uint16) error {
	if p.fail {
		return errFake
	}
	p.writes++
	switch ch {
	case types.LEDRed:
		p.levels.Red = v
	case types.LEDGreen:
		p.levels.Green = v
	case types.LEDBlue:
		p.levels.Blue = v
	}
	return nil
}

// fakeDisplay records calls as Commands so frames can be compared.
type fakeDisplay struct {
	w, h   int16
	calls  []Command
	fail   bool
	frames int
}

func (d *fakeDisplay) Size() (int16, int16) { return d.w, d.h }
func (d *fakeDisplay) Clear()               { d.calls = append(d.calls, Command{Op: OpClear}) }

func (d *fakeDisplay) DrawRect(x, y, w, h int16, on, filled bool) {
	d.calls = append(d.calls, Command{Op: OpRect, X: x, Y: y, W: w, H: h, Filled: filled})
}

func (d *fakeDisplay) Flush() error {
	d.calls = append(d.calls, Command{Op: OpFlush})
	if d.fail {
		return errFake
	}
	d.frames++
	return nil
}

type fakeMaint struct{ n int }

func (m *fakeMaint) Enter() { m.n++ }
