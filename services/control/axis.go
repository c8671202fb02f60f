package control

import (
	"joyrgb-go/types"
	"joyrgb-go/x/mathx"
)

// Mapper turns raw joystick samples into LED duty values.
type Mapper struct {
	center, deadzone, wrap, adcMax uint16
}

func NewMapper(cfg types.ControlConfig) Mapper {
	return Mapper{center: cfg.Center, deadzone: cfg.Deadzone, wrap: cfg.Wrap, adcMax: cfg.ADCMax}
}

// Axis maps one sample to 0..wrap. Inside center±deadzone (inclusive) the
// output is zero; outside it grows linearly with truncating division.
func (m Mapper) Axis(raw uint16) uint16 {
	raw = mathx.Min(raw, m.adcMax)
	if mathx.AbsDiff(raw, m.center) <= m.deadzone {
		return 0
	}
	var dist uint32
	if raw < m.center {
		dist = uint32(m.center - m.deadzone - raw)
	} else {
		dist = uint32(raw - m.center - m.deadzone)
	}
	v := mathx.MulDiv(dist, uint32(m.wrap), uint32(m.center))
	return uint16(mathx.Min(v, uint32(m.wrap)))
}

// Intensities derives red from X, blue from Y and green from the state.
func (m Mapper) Intensities(rawX, rawY uint16, snap types.ControlSnapshot) types.PWMLevels {
	if !snap.PWMEnabled {
		return types.PWMLevels{}
	}
	lv := types.PWMLevels{Red: m.Axis(rawX), Blue: m.Axis(rawY)}
	if snap.GreenOn {
		lv.Green = m.wrap
	}
	return lv
}
