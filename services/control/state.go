package control

import (
	"sync/atomic"

	"joyrgb-go/types"
)

// State holds the flags shared between interrupt handlers and the loop.
// Each field is its own atomic cell: writers are the edge detector only,
// readers tolerate a value that is one iteration stale.
type State struct {
	pwmEnabled  atomic.Bool
	greenOn     atomic.Bool
	border      atomic.Uint32
	maintenance atomic.Bool
}

// NewState returns the power-on state: PWM enabled, green off, simple border.
func NewState() *State {
	s := &State{}
	s.pwmEnabled.Store(true)
	s.border.Store(uint32(types.BorderSimple))
	return s
}

func (s *State) PWMEnabled() bool { return s.pwmEnabled.Load() }
func (s *State) GreenOn() bool    { return s.greenOn.Load() }

func (s *State) Border() types.BorderStyle {
	return types.BorderStyle(s.border.Load())
}

// Maintenance reports whether the maintenance transition has been requested.
func (s *State) Maintenance() bool { return s.maintenance.Load() }

func (s *State) Snapshot() types.ControlSnapshot {
	return types.ControlSnapshot{
		PWMEnabled:  s.PWMEnabled(),
		GreenOn:     s.GreenOn(),
		BorderStyle: s.Border(),
		Maintenance: s.Maintenance(),
	}
}

func (s *State) TogglePWM() bool   { return toggle(&s.pwmEnabled) }
func (s *State) ToggleGreen() bool { return toggle(&s.greenOn) }

// AdvanceBorder cycles to the next style and returns it.
func (s *State) AdvanceBorder() types.BorderStyle {
	for {
		old := s.border.Load()
		next := uint32(types.BorderStyle(old).Next())
		if s.border.CompareAndSwap(old, next) {
			return types.BorderStyle(next)
		}
	}
}

func (s *State) enterMaintenance() { s.maintenance.Store(true) }

func toggle(b *atomic.Bool) bool {
	for {
		old := b.Load()
		if b.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
