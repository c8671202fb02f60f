package control

import (
	"sync/atomic"

	"joyrgb-go/services/hal"
	"joyrgb-go/types"
	"joyrgb-go/x/timex"
)

// Debounce decides whether an edge at now is a fresh press given the time of
// the last accepted one. It returns the timestamp to keep.
func Debounce(now, last, window uint32) (bool, uint32) {
	if timex.ElapsedMs(now, last) >= window {
		return true, now
	}
	return false, last
}

// Detector applies button effects to State. HandleEdge runs in interrupt
// context: it never blocks, allocates or logs.
type Detector struct {
	state  *State
	window uint32
	maint  hal.Maintenance

	last     [types.NumButtons]atomic.Uint32
	accepted [types.NumButtons]atomic.Uint32
	rejected [types.NumButtons]atomic.Uint32
}

// NewDetector debounces with a window of windowMs. maint may be nil, in which
// case ButtonB only marks the state.
func NewDetector(state *State, windowMs uint32, maint hal.Maintenance) *Detector {
	return &Detector{state: state, window: windowMs, maint: maint}
}

// HandleEdge reports whether the edge was accepted and its effect applied.
func (d *Detector) HandleEdge(btn types.Button, edge types.Edge, nowMs uint32) bool {
	if !btn.Valid() || edge != types.EdgeFalling {
		return false
	}
	if btn == types.ButtonB {
		// One-shot: no debounce, no return on hardware.
		d.accepted[btn].Add(1)
		d.state.enterMaintenance()
		if d.maint != nil {
			d.maint.Enter()
		}
		return true
	}

	for {
		last := d.last[btn].Load()
		ok, next := Debounce(nowMs, last, d.window)
		if !ok {
			d.rejected[btn].Add(1)
			return false
		}
		if d.last[btn].CompareAndSwap(last, next) {
			break
		}
	}
	d.accepted[btn].Add(1)

	switch btn {
	case types.ButtonJoystick:
		d.state.ToggleGreen()
		d.state.AdvanceBorder()
	case types.ButtonA:
		d.state.TogglePWM()
	}
	return true
}

var _ hal.EdgeHandler = (*Detector)(nil)

// Stats returns accepted/rejected counts for every button.
func (d *Detector) Stats() [types.NumButtons]types.ButtonStats {
	var out [types.NumButtons]types.ButtonStats
	for i := range out {
		out[i] = types.ButtonStats{
			Accepted: d.accepted[i].Load(),
			Rejected: d.rejected[i].Load(),
		}
	}
	return out
}
