package control

import (
	"testing"

	"joyrgb-go/types"
)

func TestDebounceWindow(t *testing.T) {
	cases := []struct {
		name      string
		now, last uint32
		accept    bool
		keep      uint32
	}{
		{"exactly window", 1200, 1000, true, 1200},
		{"inside window", 1199, 1000, false, 1000},
		{"same instant", 1000, 1000, false, 1000},
		{"clock wrapped", 100, 0xFFFFFF00, true, 100},
		{"wrapped but close", 10, 0xFFFFFFF0, false, 0xFFFFFFF0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, keep := Debounce(tc.now, tc.last, 200)
			if ok != tc.accept || keep != tc.keep {
				t.Fatalf("Debounce(%d,%d) = %v,%d; want %v,%d", tc.now, tc.last, ok, keep, tc.accept, tc.keep)
			}
		})
	}
}

func TestDetectorPressesCloserThanWindowApplyOnce(t *testing.T) {
	s := NewState()
	d := NewDetector(s, 200, nil)
	if !d.HandleEdge(types.ButtonA, types.EdgeFalling, 1000) {
		t.Fatal("first press rejected")
	}
	if d.HandleEdge(types.ButtonA, types.EdgeFalling, 1150) {
		t.Fatal("bounce accepted")
	}
	if s.PWMEnabled() {
		t.Fatal("expected exactly one toggle")
	}
	// The window runs from the last accepted press, not the bounce.
	if !d.HandleEdge(types.ButtonA, types.EdgeFalling, 1200) {
		t.Fatal("press at +200ms rejected")
	}
	if !s.PWMEnabled() {
		t.Fatal("expected two toggles")
	}
	st := d.Stats()[types.ButtonA]
	if st.Accepted != 2 || st.Rejected != 1 {
		t.Fatalf("stats %+v", st)
	}
}

func TestDetectorJoystickTogglesBorderAndGreenInLockstep(t *testing.T) {
	s := NewState()
	d := NewDetector(s, 200, nil)
	d.HandleEdge(types.ButtonJoystick, types.EdgeFalling, 500)
	if s.Border() != types.BorderDouble || !s.GreenOn() {
		t.Fatalf("after one press: %+v", s.Snapshot())
	}
	d.HandleEdge(types.ButtonJoystick, types.EdgeFalling, 800)
	if s.Border() != types.BorderSimple || s.GreenOn() {
		t.Fatalf("after two presses: %+v", s.Snapshot())
	}
	if !s.PWMEnabled() {
		t.Fatal("joystick must not touch pwm_enabled")
	}
}

func TestDetectorButtonsDebounceIndependently(t *testing.T) {
	s := NewState()
	d := NewDetector(s, 200, nil)
	d.HandleEdge(types.ButtonJoystick, types.EdgeFalling, 1000)
	if !d.HandleEdge(types.ButtonA, types.EdgeFalling, 1010) {
		t.Fatal("button A shares the joystick's window")
	}
}

func TestDetectorEarlyPressAfterBootIsRejected(t *testing.T) {
	d := NewDetector(NewState(), 200, nil)
	if d.HandleEdge(types.ButtonA, types.EdgeFalling, 150) {
		t.Fatal("press inside the first window after boot should be rejected")
	}
}

func TestDetectorIgnoresBadInput(t *testing.T) {
	s := NewState()
	before := s.Snapshot()
	d := NewDetector(s, 200, nil)
	if d.HandleEdge(types.NumButtons, types.EdgeFalling, 5000) {
		t.Fatal("unknown button accepted")
	}
	if d.HandleEdge(types.ButtonA, types.EdgeRising, 5000) {
		t.Fatal("rising edge accepted")
	}
	if s.Snapshot() != before {
		t.Fatal("state corrupted")
	}
}

func TestDetectorButtonBEntersMaintenanceWithoutDebounce(t *testing.T) {
	s := NewState()
	m := &fakeMaint{}
	d := NewDetector(s, 200, m)
	if !d.HandleEdge(types.ButtonB, types.EdgeFalling, 1) {
		t.Fatal("button B rejected")
	}
	if !d.HandleEdge(types.ButtonB, types.EdgeFalling, 2) {
		t.Fatal("button B must not be debounced")
	}
	if m.n != 2 || !s.Maintenance() {
		t.Fatalf("maintenance entered %d times, flag %v", m.n, s.Maintenance())
	}
}
