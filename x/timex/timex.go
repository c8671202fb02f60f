package timex

import "time"

// Clock yields milliseconds since boot. The value wraps at 2^32.
type Clock interface {
	NowMillis() uint32
}

// ElapsedMs returns now-since modulo 2^32, so a counter wrap between the two
// readings still yields the true distance.
func ElapsedMs(now, since uint32) uint32 { return now - since }

// MonoClock counts from its construction using the runtime monotonic clock.
type MonoClock struct{ boot time.Time }

func NewMonoClock() *MonoClock { return &MonoClock{boot: time.Now()} }

func (c *MonoClock) NowMillis() uint32 {
	return uint32(time.Since(c.boot).Milliseconds())
}

// ManualClock is advanced explicitly. Safe for a single goroutine.
type ManualClock struct{ Ms uint32 }

func (c *ManualClock) NowMillis() uint32      { return c.Ms }
func (c *ManualClock) Advance(d time.Duration) { c.Ms += uint32(d.Milliseconds()) }

// PeriodFromHz returns a nanosecond period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(1_000_000_000 / uint64(freqHz))
}
