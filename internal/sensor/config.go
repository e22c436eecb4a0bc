// internal/sensor/config.go
package sensor

import "time"

// Timing defaults. The thresholds are empirical: a "0" high pulse measures
// well under 25 ticks, a "1" pulse around 70. They are configuration, not
// protocol, and may need adjustment per board.
const (
	DefaultWakeLowMicros      = 20000 // start-signal low hold (20 ms)
	DefaultWakeHighMicros     = 40    // start-signal high hold before listening
	DefaultOneThresholdMicros = 25    // high pulse wider than this reads 1
	DefaultPulseCapMicros     = 255   // per-pulse cap; hitting it ends capture
	DefaultMaxTransitions     = 85    // level changes captured per transaction
	DefaultMaxAttempts        = 5
	DefaultRetryDelay         = 200 * time.Millisecond
)

// Config centralises the timing constants of one sensor transaction and
// the per-cycle retry policy.
type Config struct {
	WakeLowMicros      int
	WakeHighMicros     int
	OneThresholdMicros int
	PulseCapMicros     int
	MaxTransitions     int
	MaxAttempts        int
	RetryDelay         time.Duration
}

// withDefaults fills unset fields. Zero is not a meaningful value for any
// of them.
func (c Config) withDefaults() Config {
	if c.WakeLowMicros <= 0 {
		c.WakeLowMicros = DefaultWakeLowMicros
	}
	if c.WakeHighMicros <= 0 {
		c.WakeHighMicros = DefaultWakeHighMicros
	}
	if c.OneThresholdMicros <= 0 {
		c.OneThresholdMicros = DefaultOneThresholdMicros
	}
	if c.PulseCapMicros <= 0 {
		c.PulseCapMicros = DefaultPulseCapMicros
	}
	if c.MaxTransitions <= 0 {
		c.MaxTransitions = DefaultMaxTransitions
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	return c
}
