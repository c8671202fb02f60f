//go:build !rp2040

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"joyrgb-go/services/control"
	"joyrgb-go/services/hal"
	"joyrgb-go/types"
	"joyrgb-go/x/logx"
)

func main() {
	var opt runOptions
	var level string
	var sweep, show bool
	flag.StringVar(&opt.Device, "device", "host", "Embedded config to load.")
	flag.IntVar(&opt.Ticks, "ticks", 0, "Stop after N loop iterations (0 = run forever).")
	flag.StringVar(&level, "log-level", "info", "debug, info, warn or error.")
	flag.BoolVar(&sweep, "sweep", true, "Move the simulated stick in a circle and click it now and then.")
	flag.BoolVar(&show, "show", false, "Print the simulated display when the loop stops.")
	flag.Parse()
	opt.Level = logx.ParseLevel(level)

	var board *hal.Board
	opt.Drive = func(ctx context.Context, b *hal.Board) {
		board = b
		if sweep {
			go simulate(ctx, b)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := run(ctx, opt)
	if show && board != nil {
		fmt.Print(board.Sim().Screen.String())
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, control.ErrMaintenance) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// simulate walks the stick around its full range and presses the joystick
// button every few seconds.
func simulate(ctx context.Context, b *hal.Board) {
	sim := b.Sim()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	// Square path around the rim, 64 steps per side.
	const steps = 64
	var i int
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
		side, k := (i/steps)%4, uint16(i%steps*4095/steps)
		x, y := uint16(0), uint16(0)
		switch side {
		case 0:
			x, y = k, 0
		case 1:
			x, y = 4095, k
		case 2:
			x, y = 4095-k, 4095
		case 3:
			x, y = 0, 4095-k
		}
		sim.ADC.Set(hal.ChannelX, x)
		sim.ADC.Set(hal.ChannelY, y)

		if i%60 == 30 {
			btn := sim.Button(types.ButtonJoystick)
			btn.Press()
			btn.Release()
		}
		i++
	}
}
