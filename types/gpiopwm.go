package types

// ------------------------
// LED channels
// ------------------------

// LEDChannel names one colour of the RGB LED.
type LEDChannel uint8

const (
	LEDRed LEDChannel = iota
	LEDGreen
	LEDBlue

	NumLEDChannels
)

func (c LEDChannel) String() string {
	switch c {
	case LEDRed:
		return "red"
	case LEDGreen:
		return "green"
	case LEDBlue:
		return "blue"
	default:
		return "unknown"
	}
}

// ------------------------
// PWM
// ------------------------

// PWMLevels is one duty value per LED channel, each 0..Top.
type PWMLevels struct {
	Red   uint16 `json:"red"`
	Green uint16 `json:"green"`
	Blue  uint16 `json:"blue"`
}

// Level returns the duty for ch.
func (l PWMLevels) Level(ch LEDChannel) uint16 {
	switch ch {
	case LEDRed:
		return l.Red
	case LEDGreen:
		return l.Green
	case LEDBlue:
		return l.Blue
	default:
		return 0
	}
}

// ------------------------
// Display geometry
// ------------------------

// Position is the marker's top-left corner in display pixels.
type Position struct {
	X int16 `json:"x"`
	Y int16 `json:"y"`
}
