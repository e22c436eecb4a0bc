// internal/sensor/types.go

// Package sensor implements the DHT22 single-wire protocol: waking the
// sensor, capturing the microsecond pulse train on a GPIO line, and decoding
// it into a validated humidity/temperature reading.
package sensor

import (
	"errors"
	"time"
)

// Pulse is one captured line interval: the level that was held and its
// width in busy-poll microsecond ticks.
type Pulse struct {
	Level bool
	Width int
}

// Reading is one validated measurement. Immutable once produced.
type Reading struct {
	TemperatureC float64
	HumidityPct  float64
}

// PollResult is the outcome of one poll cycle (up to MaxAttempts
// transactions). Err == nil means Reading holds the decoded values.
type PollResult struct {
	At       time.Time
	Reading  Reading
	Attempts int
	Err      error
}

// OK reports whether the cycle produced a valid reading.
func (r PollResult) OK() bool { return r.Err == nil }

var (
	// ErrTimeout: the sensor stopped responding before 40 data bits were
	// captured (unresponsive sensor or malformed pulse train).
	ErrTimeout = errors.New("sensor: not enough data pulses")

	// ErrChecksum: 40 bits captured but the integrity check failed
	// (transient line noise).
	ErrChecksum = errors.New("sensor: checksum mismatch")
)
