package control

import (
	"context"
	"log/slog"
	"time"

	"joyrgb-go/bus"
	"joyrgb-go/errcode"
	"joyrgb-go/services/hal"
	"joyrgb-go/types"
	"joyrgb-go/x/timex"
)

// ErrMaintenance ends Run once ButtonB has handed the board to the bootloader.
var ErrMaintenance error = &errcode.E{C: errcode.MaintenanceMode, Op: "control.run", Msg: "button_b"}

const statsEvery = 10

var (
	topicControl = bus.T(types.TopicState, types.KeyControl)
	topicPWM     = bus.T(types.TopicState, types.KeyPWM)
	topicLoop    = bus.T(types.TopicState, types.KeyLoop)
	topicButtons = bus.T(types.TopicState, types.KeyButtons)
)

// Deps are the collaborators of a Loop. Conn, Events and Buttons are optional.
type Deps struct {
	Analog  hal.AnalogIn
	PWM     hal.PWMOut
	Display hal.Display
	Clock   hal.Clock
	Log     *slog.Logger

	Conn    *bus.Connection
	Events  <-chan types.ButtonEvent
	Buttons func() [types.NumButtons]types.ButtonStats
}

// Loop samples the joystick, drives the LEDs and redraws the display once per
// period. It is the only reader of State outside interrupt context.
type Loop struct {
	period   time.Duration
	state    *State
	mapper   Mapper
	placer   Placer
	composer Composer
	d        Deps

	cmds  []Command
	stats types.LoopStats

	published bool
	lastSnap  types.ControlSnapshot
	lastPWM   types.PWMLevels
}

// NewLoop expects cfg to have passed config.Validate.
func NewLoop(cfg types.ControlConfig, state *State, d Deps) (*Loop, error) {
	if state == nil || d.Analog == nil || d.PWM == nil || d.Display == nil || d.Clock == nil {
		return nil, errcode.New(errcode.InvalidParams, "control.new_loop", "missing capability")
	}
	if w, h := d.Display.Size(); w != cfg.Display.Width || h != cfg.Display.Height {
		return nil, errcode.New(errcode.InvalidConfig, "control.new_loop", "display size mismatch")
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Loop{
		period:   time.Duration(cfg.PeriodMs) * time.Millisecond,
		state:    state,
		mapper:   NewMapper(cfg),
		placer:   NewPlacer(cfg),
		composer: NewComposer(cfg),
		d:        d,
		cmds:     make([]Command, 0, 6),
	}, nil
}

// Start darkens the LEDs and blanks the display.
func (l *Loop) Start() error {
	for ch := types.LEDChannel(0); ch < types.NumLEDChannels; ch++ {
		if err := l.d.PWM.Set(ch, 0); err != nil {
			return errcode.Wrap(errcode.PeripheralIO, "control.start", err)
		}
	}
	l.d.Display.Clear()
	if err := l.d.Display.Flush(); err != nil {
		return errcode.Wrap(errcode.PeripheralIO, "control.start", err)
	}
	return nil
}

// Step runs one iteration. Peripheral failures are logged and counted, never
// returned; the only error is ErrMaintenance.
func (l *Loop) Step() error {
	if l.state.Maintenance() {
		return ErrMaintenance
	}
	start := l.d.Clock.NowMillis()
	l.stats.Iterations++
	l.work()
	l.drainEvents()
	l.stats.LastDurationMs = timex.ElapsedMs(l.d.Clock.NowMillis(), start)
	if l.stats.Iterations%statsEvery == 0 {
		l.publishStats()
	}
	if l.state.Maintenance() {
		return ErrMaintenance
	}
	return nil
}

func (l *Loop) work() {
	rawX, err := l.d.Analog.Read(hal.ChannelX)
	if err == nil {
		var rawY uint16
		rawY, err = l.d.Analog.Read(hal.ChannelY)
		if err == nil {
			l.frame(rawX, rawY)
			return
		}
	}
	l.stats.SkippedFrames++
	l.d.Log.Warn("adc read failed, frame skipped", "err", err, "code", errcode.Of(err))
}

func (l *Loop) frame(rawX, rawY uint16) {
	snap := l.state.Snapshot()
	levels := l.mapper.Intensities(rawX, rawY, snap)
	l.writePWM(levels)

	pos := l.placer.Position(rawX, rawY)
	l.cmds = l.composer.Compose(l.cmds, l.state.Border(), pos)
	if err := Render(l.d.Display, l.cmds); err != nil {
		l.stats.FlushFailures++
		l.d.Log.Warn("display flush failed", "err", err)
	}
	l.publishState(snap, levels)
}

func (l *Loop) writePWM(lv types.PWMLevels) {
	for ch := types.LEDChannel(0); ch < types.NumLEDChannels; ch++ {
		if err := l.d.PWM.Set(ch, lv.Level(ch)); err != nil {
			l.stats.PWMFailures++
			l.d.Log.Warn("pwm write failed", "channel", ch.String(), "err", err)
		}
	}
}

func (l *Loop) publishState(snap types.ControlSnapshot, lv types.PWMLevels) {
	if l.d.Conn == nil {
		return
	}
	if !l.published || snap != l.lastSnap {
		l.d.Conn.Publish(l.d.Conn.NewMessage(topicControl, snap, true))
	}
	if !l.published || lv != l.lastPWM {
		l.d.Conn.Publish(l.d.Conn.NewMessage(topicPWM, lv, true))
	}
	l.published, l.lastSnap, l.lastPWM = true, snap, lv
}

func (l *Loop) publishStats() {
	if l.d.Conn == nil {
		return
	}
	l.d.Conn.Publish(l.d.Conn.NewMessage(topicLoop, l.stats, true))
	if l.d.Buttons != nil {
		l.d.Conn.Publish(l.d.Conn.NewMessage(topicButtons, l.d.Buttons(), true))
	}
}

// drainEvents logs what the interrupt handlers decided since the last pass.
func (l *Loop) drainEvents() {
	if l.d.Events == nil {
		return
	}
	for {
		select {
		case ev := <-l.d.Events:
			if ev.Accepted {
				l.d.Log.Debug("button", "button", ev.Button.String(), "at_ms", ev.AtMs)
			} else {
				l.d.Log.Debug("button bounce ignored", "button", ev.Button.String(), "at_ms", ev.AtMs)
			}
		default:
			return
		}
	}
}

// Stats returns the counters accumulated so far.
func (l *Loop) Stats() types.LoopStats { return l.stats }

// Run calls Start and then Step forever, sleeping one period after each
// iteration. It returns ctx.Err() on cancellation or ErrMaintenance.
func (l *Loop) Run(ctx context.Context) error { return l.RunN(ctx, 0) }

// RunN is Run bounded to n iterations; n <= 0 means no bound.
func (l *Loop) RunN(ctx context.Context, n int) error {
	if err := l.Start(); err != nil {
		return err
	}
	l.d.Log.Info("control loop started", "period", l.period)

	timer := time.NewTimer(l.period)
	defer timer.Stop()
	for i := 0; n <= 0 || i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Step(); err != nil {
			l.d.Log.Info("control loop stopped", "reason", errcode.Of(err))
			return err
		}
		if i+1 == n {
			break
		}
		timer.Reset(l.period)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
