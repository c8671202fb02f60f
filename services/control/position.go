package control

import (
	"joyrgb-go/types"
	"joyrgb-go/x/mathx"
)

// Placer maps the two samples to the marker's top-left corner. The Y sample
// drives the column; the X sample, inverted, drives the row. This matches
// how the stick is mounted on the board.
type Placer struct {
	adcMax       uint16
	spanX, spanY uint16
}

func NewPlacer(cfg types.ControlConfig) Placer {
	return Placer{
		adcMax: cfg.ADCMax,
		spanX:  uint16(cfg.Display.Width - cfg.MarkerSize),
		spanY:  uint16(cfg.Display.Height - cfg.MarkerSize),
	}
}

// Position treats samples above full scale as full scale.
func (p Placer) Position(rawX, rawY uint16) types.Position {
	rawX = mathx.Min(rawX, p.adcMax)
	return types.Position{
		X: int16(mathx.MapU16(rawY, 0, p.adcMax, 0, p.spanX)),
		Y: int16(mathx.MapU16(p.adcMax-rawX, 0, p.adcMax, 0, p.spanY)),
	}
}
