package control

import (
	"context"
	"errors"
	"testing"
	"time"

	"joyrgb-go/bus"
	"joyrgb-go/errcode"
	"joyrgb-go/services/config"
	"joyrgb-go/types"
	"joyrgb-go/x/logx"
	"joyrgb-go/x/timex"
)

type rig struct {
	cfg   types.ControlConfig
	state *State
	adc   *fakeADC
	pwm   *fakePWM
	disp  *fakeDisplay
	clock *timex.ManualClock
	conn  *bus.Connection
	loop  *Loop
}

func newRig(t *testing.T) *rig {
	t.Helper()
	cfg := config.Default()
	cfg.PeriodMs = 1
	r := &rig{
		cfg:   cfg,
		state: NewState(),
		adc:   &fakeADC{vals: [2]uint16{2048, 2048}},
		pwm:   &fakePWM{top: cfg.Wrap},
		disp:  &fakeDisplay{w: 128, h: 64},
		clock: &timex.ManualClock{},
		conn:  bus.NewBus(16).NewConnection("test"),
	}
	l, err := NewLoop(cfg, r.state, Deps{
		Analog: r.adc, PWM: r.pwm, Display: r.disp, Clock: r.clock,
		Log: logx.Discard(), Conn: r.conn,
	})
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	r.loop = l
	return r
}

func TestNewLoopRejectsMissingCapabilities(t *testing.T) {
	_, err := NewLoop(config.Default(), NewState(), Deps{})
	if errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("expected invalid_params, got %v", err)
	}
	_, err = NewLoop(config.Default(), NewState(), Deps{
		Analog: &fakeADC{}, PWM: &fakePWM{}, Display: &fakeDisplay{w: 64, h: 32}, Clock: &timex.ManualClock{},
	})
	if errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("expected invalid_config for size mismatch, got %v", err)
	}
}

func TestStartZeroesPWMAndBlanksDisplay(t *testing.T) {
	r := newRig(t)
	r.pwm.levels = types.PWMLevels{Red: 9, Green: 9, Blue: 9}
	if err := r.loop.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if r.pwm.levels != (types.PWMLevels{}) || r.pwm.writes != 3 {
		t.Fatalf("pwm after start %+v (%d writes)", r.pwm.levels, r.pwm.writes)
	}
	if len(r.disp.calls) != 2 || r.disp.calls[0].Op != OpClear || r.disp.calls[1].Op != OpFlush {
		t.Fatalf("display calls %+v", r.disp.calls)
	}
}

func TestStepCentredStick(t *testing.T) {
	r := newRig(t)
	if err := r.loop.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(r.adc.reads) != 2 || r.adc.reads[0] != 0 || r.adc.reads[1] != 1 {
		t.Fatalf("expected X then Y, got %v", r.adc.reads)
	}
	if r.pwm.levels != (types.PWMLevels{}) {
		t.Fatalf("centred stick lit LEDs: %+v", r.pwm.levels)
	}
	want := []Command{
		{Op: OpClear},
		{Op: OpRect, W: 128, H: 64},
		{Op: OpRect, X: 60, Y: 27, W: 8, H: 8, Filled: true},
		{Op: OpFlush},
	}
	if len(r.disp.calls) != len(want) {
		t.Fatalf("display calls %+v", r.disp.calls)
	}
	for i := range want {
		if r.disp.calls[i] != want[i] {
			t.Fatalf("call %d = %+v, want %+v", i, r.disp.calls[i], want[i])
		}
	}
}

func TestStepFollowsStateChanges(t *testing.T) {
	r := newRig(t)
	r.adc.vals = [2]uint16{0, 4095}
	d := NewDetector(r.state, r.cfg.DebounceMs, nil)

	d.HandleEdge(types.ButtonJoystick, types.EdgeFalling, 1000)
	_ = r.loop.Step()
	if r.pwm.levels != (types.PWMLevels{Red: 3495, Green: 4095, Blue: 3493}) {
		t.Fatalf("levels %+v", r.pwm.levels)
	}
	if n := len(r.disp.calls); n != 5 {
		t.Fatalf("double border frame should have 5 calls, got %d", n)
	}

	d.HandleEdge(types.ButtonA, types.EdgeFalling, 1000)
	_ = r.loop.Step()
	if r.pwm.levels != (types.PWMLevels{}) {
		t.Fatalf("pwm disabled but levels %+v", r.pwm.levels)
	}
}

func TestStepSkipsFrameOnADCFailure(t *testing.T) {
	r := newRig(t)
	r.adc.fails = true
	if err := r.loop.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if r.pwm.writes != 0 || len(r.disp.calls) != 0 {
		t.Fatal("a failed sample must not drive outputs")
	}
	r.adc.fails = false
	_ = r.loop.Step()
	st := r.loop.Stats()
	if st.Iterations != 2 || st.SkippedFrames != 1 {
		t.Fatalf("stats %+v", st)
	}
}

func TestStepSurvivesFlushAndPWMFailures(t *testing.T) {
	r := newRig(t)
	r.disp.fail = true
	r.pwm.fail = true
	for i := 0; i < 3; i++ {
		if err := r.loop.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	st := r.loop.Stats()
	if st.FlushFailures != 3 || st.PWMFailures != 9 {
		t.Fatalf("stats %+v", st)
	}
}

func TestStepPublishesOnChangeOnly(t *testing.T) {
	r := newRig(t)
	sub := r.conn.Subscribe(bus.T(types.TopicState, types.KeyControl))
	defer r.conn.Unsubscribe(sub)

	recv := func() (types.ControlSnapshot, bool) {
		select {
		case m := <-sub.Channel():
			return m.Payload.(types.ControlSnapshot), true
		case <-time.After(20 * time.Millisecond):
			return types.ControlSnapshot{}, false
		}
	}

	_ = r.loop.Step()
	if s, ok := recv(); !ok || !s.PWMEnabled {
		t.Fatalf("first snapshot missing: %+v %v", s, ok)
	}
	_ = r.loop.Step()
	if _, ok := recv(); ok {
		t.Fatal("unchanged state republished")
	}
	r.state.TogglePWM()
	_ = r.loop.Step()
	if s, ok := recv(); !ok || s.PWMEnabled {
		t.Fatalf("change not published: %+v %v", s, ok)
	}
}

func TestStepPublishesLoopStats(t *testing.T) {
	r := newRig(t)
	for i := 0; i < statsEvery; i++ {
		_ = r.loop.Step()
	}
	sub := r.conn.Subscribe(bus.T(types.TopicState, types.KeyLoop))
	defer r.conn.Unsubscribe(sub)
	select {
	case m := <-sub.Channel():
		if st := m.Payload.(types.LoopStats); st.Iterations != statsEvery || !m.Retained {
			t.Fatalf("stats %+v retained=%v", st, m.Retained)
		}
	case <-time.After(50 * time.Millisecond):
		t.Fatal("no retained loop stats")
	}
}

func TestRunStopsOnMaintenance(t *testing.T) {
	r := newRig(t)
	m := &fakeMaint{}
	d := NewDetector(r.state, r.cfg.DebounceMs, m)
	d.HandleEdge(types.ButtonB, types.EdgeFalling, 0)

	err := r.loop.Run(context.Background())
	if !errors.Is(err, ErrMaintenance) || errcode.Of(err) != errcode.MaintenanceMode {
		t.Fatalf("expected maintenance, got %v", err)
	}
	if m.n != 1 || r.loop.Stats().Iterations != 0 {
		t.Fatalf("maintenance %d, iterations %d", m.n, r.loop.Stats().Iterations)
	}
}

func TestRunNBoundedAndCancellable(t *testing.T) {
	r := newRig(t)
	if err := r.loop.RunN(context.Background(), 3); err != nil {
		t.Fatalf("RunN: %v", err)
	}
	if got := r.loop.Stats().Iterations; got != 3 {
		t.Fatalf("iterations %d", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := newRig(t).loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDrainEventsConsumesQueue(t *testing.T) {
	r := newRig(t)
	ev := make(chan types.ButtonEvent, 4)
	r.loop.d.Events = ev
	ev <- types.ButtonEvent{Button: types.ButtonA, Accepted: true}
	ev <- types.ButtonEvent{Button: types.ButtonA}
	_ = r.loop.Step()
	if len(ev) != 0 {
		t.Fatalf("%d events left undrained", len(ev))
	}
}
