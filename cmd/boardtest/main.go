// cmd/boardtest/main.go
package main

import (
	"context"
	"log/slog"
	"time"

	"joyrgb-go/services/config"
	"joyrgb-go/services/hal"
	"joyrgb-go/types"
	"joyrgb-go/x/logx"
	"joyrgb-go/x/ramp"
)

// ---------- Configuration ----------

const (
	rampMs    = 600
	rampSteps = 30
	dwell     = 300 * time.Millisecond

	// How long the operator has to move the stick and press the buttons.
	sampleWindow = 8 * time.Second
	samplePeriod = 50 * time.Millisecond

	// Cycles: 0 = loop forever
	cyclesToRun = 0
)

// ---------- Edge counting ----------

// counter accepts every falling edge; the bring-up only checks wiring.
type counter struct{}

func (counter) HandleEdge(types.Button, types.Edge, uint32) bool { return true }

// ---------- Checks ----------

func fadeChannels(ctx context.Context, b *hal.Board, log *slog.Logger) {
	top := b.PWM.Top()
	tick := ramp.Sleep(ctx.Done())
	for ch := types.LEDChannel(0); ch < types.NumLEDChannels; ch++ {
		set := func(v uint16) { _ = b.PWM.Set(ch, v) }
		log.Info("led fade", "channel", ch.String())
		ramp.Linear(0, top, top, rampMs, rampSteps, tick, set)
		time.Sleep(dwell)
		ramp.Linear(top, 0, top, rampMs, rampSteps, tick, set)
	}
}

func drawPattern(b *hal.Board) error {
	w, h := b.Display.Size()
	b.Display.Clear()
	b.Display.DrawRect(0, 0, w, h, true, false)
	b.Display.DrawRect(2, 2, w-4, h-4, true, false)
	for _, c := range [][2]int16{{4, 4}, {w - 12, 4}, {4, h - 12}, {w - 12, h - 12}} {
		b.Display.DrawRect(c[0], c[1], 8, 8, true, true)
	}
	return b.Display.Flush()
}

type axisRange struct{ lo, hi uint16 }

func (r *axisRange) add(v uint16) {
	r.lo = min(r.lo, v)
	r.hi = max(r.hi, v)
}

// reachedBothEnds reports whether the axis left the deadzone on both sides.
func (r axisRange) reachedBothEnds(cfg types.ControlConfig) bool {
	return r.lo < cfg.Center-cfg.Deadzone && uint32(r.hi) > uint32(cfg.Center)+uint32(cfg.Deadzone)
}

func sampleInputs(ctx context.Context, b *hal.Board, log *slog.Logger) ([2]axisRange, [types.NumButtons]int) {
	ranges := [2]axisRange{{lo: 0xFFFF}, {lo: 0xFFFF}}
	var presses [types.NumButtons]int

	tick := time.NewTicker(samplePeriod)
	defer tick.Stop()
	dead := time.After(sampleWindow)
	for {
		select {
		case <-ctx.Done():
			return ranges, presses
		case <-dead:
			return ranges, presses
		case ev := <-b.Events():
			presses[ev.Button]++
			log.Info("button", "button", ev.Button.String())
		case <-tick.C:
			for ch := hal.ChannelX; ch <= hal.ChannelY; ch++ {
				v, err := b.Analog.Read(ch)
				if err != nil {
					log.Warn("adc read failed", "channel", ch, "err", err)
					continue
				}
				ranges[ch].add(v)
			}
		}
	}
}

func flashPassFail(b *hal.Board, pass bool) {
	on := func(d time.Duration) {
		_ = b.PWM.Set(types.LEDGreen, b.PWM.Top())
		time.Sleep(d)
		_ = b.PWM.Set(types.LEDGreen, 0)
		time.Sleep(200 * time.Millisecond)
	}
	if pass {
		// Double short
		on(120 * time.Millisecond)
		on(120 * time.Millisecond)
	} else {
		// Single long
		on(400 * time.Millisecond)
	}
}

// ---------- Main ----------

func main() {
	ctx := context.Background()
	cfg := config.Default()

	b, err := hal.Open(cfg)
	if err != nil {
		println("[boardtest] open failed:", err.Error())
		return
	}
	defer b.Close()
	log := logx.New(b.LogOutput, slog.LevelInfo).With("svc", "boardtest")

	// Button B is the bootloader button; here it is only counted.
	if err := b.WireButtons(counter{}); err != nil {
		log.Error("wire buttons", "err", err)
		return
	}

	for cycle := 1; ; cycle++ {
		log.Info("cycle", "n", cycle)

		fadeChannels(ctx, b, log)
		if err := drawPattern(b); err != nil {
			log.Error("display", "err", err)
		}

		log.Info("move the stick to every edge and press each button", "seconds", sampleWindow.Seconds())
		ranges, presses := sampleInputs(ctx, b, log)

		pass := true
		for ch, r := range ranges {
			ok := r.reachedBothEnds(cfg)
			pass = pass && ok
			log.Info("axis", "channel", ch, "min", r.lo, "max", r.hi, "ok", ok)
		}
		for btn := types.Button(0); btn < types.NumButtons; btn++ {
			pass = pass && presses[btn] > 0
			log.Info("button presses", "button", btn.String(), "count", presses[btn])
		}
		if pass {
			log.Info("PASS")
		} else {
			log.Warn("FAIL")
		}
		flashPassFail(b, pass)

		if cyclesToRun > 0 && cycle >= cyclesToRun {
			log.Info("halting", "cycles", cycle)
			return
		}
	}
}
