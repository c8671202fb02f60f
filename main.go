package main

import (
	"context"
	"log/slog"
	"time"

	"joyrgb-go/bus"
	"joyrgb-go/services/config"
	"joyrgb-go/services/control"
	"joyrgb-go/services/hal"
	"joyrgb-go/services/status"
	"joyrgb-go/x/logx"
)

type runOptions struct {
	Device string
	Ticks  int
	Level  slog.Level

	// Drive, when set, is handed the board just before the loop starts.
	// It must not block.
	Drive func(ctx context.Context, b *hal.Board)
}

func run(ctx context.Context, opt runOptions) error {
	ctx, cancel := context.WithCancel(config.WithDevice(ctx, opt.Device))
	defer cancel()

	b := bus.NewBus(8)
	cfgConn := b.NewConnection("config")
	ctlConn := b.NewConnection("control")
	stsConn := b.NewConnection("status")

	if err := config.NewConfigService().Start(ctx, cfgConn); err != nil {
		return err
	}
	cfg, err := config.Load(ctx, ctlConn, time.Second)
	if err != nil {
		return err
	}

	board, err := hal.Open(cfg)
	if err != nil {
		return err
	}
	defer board.Close()

	log := logx.New(board.LogOutput, opt.Level)
	slog.SetDefault(log)
	log.Info("boot", "device", opt.Device, "board", board.Name(),
		"deadzone", cfg.Deadzone, "period_ms", cfg.PeriodMs)

	state := control.NewState()
	det := control.NewDetector(state, cfg.DebounceMs, board.Maintenance)
	if err := board.WireButtons(det); err != nil {
		return err
	}

	if err := (&status.Service{Log: log.With("svc", "status")}).Start(ctx, stsConn); err != nil {
		return err
	}

	loop, err := control.NewLoop(cfg, state, control.Deps{
		Analog:  board.Analog,
		PWM:     board.PWM,
		Display: board.Display,
		Clock:   board.Clock,
		Log:     log.With("svc", "control"),
		Conn:    ctlConn,
		Events:  board.Events(),
		Buttons: det.Stats,
	})
	if err != nil {
		return err
	}

	if opt.Drive != nil {
		opt.Drive(ctx, board)
	}
	err = loop.RunN(ctx, opt.Ticks)
	if drops := board.ISRDrops(); drops > 0 {
		log.Warn("button events dropped", "count", drops)
	}
	return err
}
