package config

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"joyrgb-go/bus"
	"joyrgb-go/errcode"
	"joyrgb-go/types"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = types.TopicConfig
)

type ctxKey struct{}

// WithDevice stores the device ID used to pick the embedded config.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, ctxKey{}, device)
}

// DeviceFrom returns the device ID stored by WithDevice.
func DeviceFrom(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// -----------------------------------------------------------------------------
// Defaults, decode, validate
// -----------------------------------------------------------------------------

// Default returns the calibration of the stock joystick board.
func Default() types.ControlConfig {
	return types.ControlConfig{
		Center:      2048,
		Deadzone:    300,
		Wrap:        4095,
		ADCMax:      4095,
		DebounceMs:  200,
		PeriodMs:    100,
		MarkerSize:  8,
		BorderInset: 2,
		Display:     types.DisplayConfig{Width: 128, Height: 64},
	}
}

// Decode overlays a JSON document (bytes, string, RawMessage or an already
// decoded map) onto the defaults. Missing fields keep their default.
func Decode(src any) (types.ControlConfig, error) {
	cfg := Default()
	if src == nil {
		return cfg, nil
	}
	if err := decodeJSON(src, &cfg); err != nil {
		return cfg, errcode.Wrap(errcode.InvalidConfig, "config.decode", err)
	}
	return cfg, nil
}

// Validate rejects calibrations the mappers cannot honour. It runs once at
// startup, before the control loop is entered.
func Validate(c types.ControlConfig) error {
	fail := func(msg string) error { return errcode.New(errcode.InvalidConfig, "config.validate", msg) }
	switch {
	case c.ADCMax == 0:
		return fail("adc_max must be positive")
	case c.Center == 0 || c.Center > c.ADCMax:
		return fail("center must be in (0, adc_max]")
	case c.Deadzone >= c.Center:
		return fail("deadzone must be smaller than center")
	case c.Wrap == 0:
		return fail("wrap must be positive")
	case c.DebounceMs == 0:
		return fail("debounce_ms must be positive")
	case c.PeriodMs == 0:
		return fail("period_ms must be positive")
	case c.MarkerSize <= 0:
		return fail("marker_size must be positive")
	case c.BorderInset < 0:
		return fail("border_inset must not be negative")
	case c.Display.Width < c.MarkerSize || c.Display.Height < c.MarkerSize:
		return fail("display smaller than marker")
	case c.Display.Width <= 2*c.BorderInset || c.Display.Height <= 2*c.BorderInset:
		return fail("display too small for inner border")
	}
	return nil
}

// DecodeStatus reads a status logger config, defaulting the interval to 2s.
func DecodeStatus(src any) (types.StatusConfig, error) {
	sc := types.StatusConfig{Interval: 2}
	if src == nil {
		return sc, nil
	}
	if err := decodeJSON(src, &sc); err != nil {
		return sc, errcode.Wrap(errcode.InvalidConfig, "config.status", err)
	}
	if sc.Interval == 0 {
		sc.Interval = 2
	}
	return sc, nil
}

func decodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case json.RawMessage:
		return json.Unmarshal(v, dst)
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig reads the device config from embedded data and publishes each
// top-level key as a retained message on config/<key>.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device := DeviceFrom(ctx)
	if device == "" {
		return errcode.New(errcode.InvalidConfig, "config.publish", "missing device ID in context")
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return errcode.New(errcode.InvalidConfig, "config.publish", "no embedded config for device: "+device)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return errcode.Wrap(errcode.InvalidConfig, "config.publish", err)
	}

	for k, v := range m {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), v, true))
	}
	return nil
}

// Start publishes the embedded config. Subscribers joining later still see it
// because every key is retained.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) error {
	return s.publishConfig(ctx, conn)
}

// ErrNoConfig is returned by Load when config/control never arrives.
var ErrNoConfig = errors.New("config: control config not published")

// Load waits for the retained control config, decodes and validates it.
func Load(ctx context.Context, conn *bus.Connection, wait time.Duration) (types.ControlConfig, error) {
	sub := conn.Subscribe(bus.T(configPrefix, types.KeyControl))
	defer conn.Unsubscribe(sub)

	t := time.NewTimer(wait)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return types.ControlConfig{}, ctx.Err()
	case <-t.C:
		return types.ControlConfig{}, errcode.Wrap(errcode.Timeout, "config.load", ErrNoConfig)
	case msg := <-sub.Channel():
		cfg, err := Decode(msg.Payload)
		if err != nil {
			return cfg, err
		}
		return cfg, Validate(cfg)
	}
}
