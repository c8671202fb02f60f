//go:build rp2040

package main

import (
	"context"
	"log/slog"
	"time"
)

func main() {
	// Allow the serial console to attach before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	err := run(context.Background(), runOptions{Device: "pico", Level: slog.LevelInfo})

	// Only reached on a configuration or peripheral failure at startup.
	msg := "loop exited"
	if err != nil {
		msg = err.Error()
	}
	for {
		println("fatal:", msg)
		time.Sleep(5 * time.Second)
	}
}
