package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx by WithDevice)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgPico = `{
  "control": {
    "center": 2048,
    "deadzone": 300,
    "wrap": 4095,
    "adc_max": 4095,
    "debounce_ms": 200,
    "period_ms": 100,
    "marker_size": 8,
    "border_inset": 2,
    "display": {"width": 128, "height": 64}
  },
  "status": {
    "interval": 5
  }
}`

const cfgHost = `{
  "control": {
    "display": {"width": 128, "height": 64}
  },
  "status": {
    "interval": 2
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"host": []byte(cfgHost),
}
