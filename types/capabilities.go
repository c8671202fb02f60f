package types

// ------------------------
// Bus topics
// ------------------------

const (
	TopicConfig = "config"
	TopicState  = "state"

	KeyControl = "control"
	KeyStatus  = "status"
	KeyPWM     = "pwm"
	KeyLoop    = "loop"
	KeyButtons = "buttons"
)
