//go:build !rp2040

package hal

import "joyrgb-go/services/hal/internal/platform"

// Sim exposes the simulated peripherals behind a host board.
func (b *Board) Sim() *platform.HostDevices { return b.sim }
