package status

import (
	"context"
	"log/slog"
	"time"

	"joyrgb-go/bus"
	"joyrgb-go/services/config"
	"joyrgb-go/types"
)

var (
	topicConfigStatus = bus.T(types.TopicConfig, types.KeyStatus)
	topicState        = bus.T(types.TopicState, "#")
)

// Service periodically logs the latest retained control state.
type Service struct {
	Log *slog.Logger

	control types.ControlSnapshot
	pwm     types.PWMLevels
	loop    types.LoopStats
	buttons [types.NumButtons]types.ButtonStats
	seen    bool
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, interval time.Duration) {
	cfgSub := conn.Subscribe(topicConfigStatus)
	defer conn.Unsubscribe(cfgSub)
	stateSub := conn.Subscribe(topicState)
	defer conn.Unsubscribe(stateSub)

	tick := time.NewTicker(interval)
	defer tick.Stop()

	// loop until context is cancelled, respond to tick, state and config changes
	for {
		select {
		case <-ctx.Done():
			s.Log.Info("status service stopping")
			return
		case <-tick.C:
			s.report()
		case msg := <-stateSub.Channel():
			s.absorb(msg)
		case msg := <-cfgSub.Channel():
			sc, err := config.DecodeStatus(msg.Payload)
			if err != nil {
				s.Log.Warn("bad status config", "err", err)
				continue
			}
			tick.Reset(time.Duration(sc.Interval) * time.Second)
			s.Log.Info("status interval set", "seconds", sc.Interval)
		}
	}
}

func (s *Service) absorb(msg *bus.Message) {
	if len(msg.Topic) != 2 {
		return
	}
	switch msg.Topic[1] {
	case types.KeyControl:
		if v, ok := msg.Payload.(types.ControlSnapshot); ok {
			s.control, s.seen = v, true
		}
	case types.KeyPWM:
		if v, ok := msg.Payload.(types.PWMLevels); ok {
			s.pwm = v
		}
	case types.KeyLoop:
		if v, ok := msg.Payload.(types.LoopStats); ok {
			s.loop = v
		}
	case types.KeyButtons:
		if v, ok := msg.Payload.([types.NumButtons]types.ButtonStats); ok {
			s.buttons = v
		}
	}
}

func (s *Service) report() {
	if !s.seen {
		s.Log.Info("status", "control", "waiting")
		return
	}
	s.Log.Info("status",
		"pwm_enabled", s.control.PWMEnabled,
		"green_on", s.control.GreenOn,
		"border", s.control.BorderStyle.String(),
		"red", s.pwm.Red, "green", s.pwm.Green, "blue", s.pwm.Blue,
		"iterations", s.loop.Iterations,
		"skipped", s.loop.SkippedFrames,
		"flush_failures", s.loop.FlushFailures,
		"joystick_presses", s.buttons[types.ButtonJoystick].Accepted,
		"a_presses", s.buttons[types.ButtonA].Accepted,
		"bounces", s.buttons[types.ButtonJoystick].Rejected+s.buttons[types.ButtonA].Rejected,
	)
}

// Start the status service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if s.Log == nil {
		s.Log = slog.Default()
	}
	sc, _ := config.DecodeStatus(nil)
	go s.serviceLoop(ctx, conn, time.Duration(sc.Interval)*time.Second)
	return nil
}
