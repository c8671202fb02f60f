package errcode

import (
	"errors"
	"testing"
)

func TestOfAndWrap(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("nil should map to OK")
	}
	if Of(InvalidConfig) != InvalidConfig {
		t.Fatal("bare code not recovered")
	}

	cause := errors.New("i2c nack")
	err := Wrap(PeripheralIO, "display.flush", cause)
	if Of(err) != PeripheralIO {
		t.Fatalf("expected peripheral_io, got %q", Of(err))
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause lost through Unwrap")
	}
	if !errors.Is(err, PeripheralIO) {
		t.Fatal("errors.Is should match the code")
	}
	if got := err.Error(); got != "display.flush: peripheral_io: i2c nack" {
		t.Fatalf("unexpected message %q", got)
	}
	if Wrap(PeripheralIO, "x", nil) != nil {
		t.Fatal("Wrap(nil) must be nil")
	}
}

func TestMapDriverErr(t *testing.T) {
	if MapDriverErr(nil) != OK {
		t.Fatal("nil")
	}
	if MapDriverErr(errors.New("boom")) != PeripheralIO {
		t.Fatal("plain driver error should be peripheral_io")
	}
	if MapDriverErr(New(Timeout, "adc.read", "")) != Timeout {
		t.Fatal("explicit code should pass through")
	}
}
