package types

// DisplayConfig gives the panel size in pixels.
type DisplayConfig struct {
	Width  int16 `json:"width"`
	Height int16 `json:"height"`
}

// ControlConfig holds the calibration and timing of the control loop.
// Units are raw ADC counts, PWM counts, pixels and milliseconds.
type ControlConfig struct {
	// Center is the analog midpoint (ADC counts).
	Center uint16 `json:"center"`
	// Deadzone is the radius around Center that maps to zero output. 0 <= Deadzone < Center.
	Deadzone uint16 `json:"deadzone"`
	// Wrap is the PWM counter top, i.e. 100% duty.
	Wrap uint16 `json:"wrap"`
	// ADCMax is the full-scale analog reading.
	ADCMax uint16 `json:"adc_max"`

	DebounceMs uint32 `json:"debounce_ms"`
	PeriodMs   uint32 `json:"period_ms"`

	MarkerSize  int16         `json:"marker_size"`
	BorderInset int16         `json:"border_inset"`
	Display     DisplayConfig `json:"display"`
}

// StatusConfig drives the periodic status logger.
type StatusConfig struct {
	Interval uint32 `json:"interval"` // seconds
}
