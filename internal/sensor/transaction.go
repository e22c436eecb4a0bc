// internal/sensor/transaction.go
package sensor

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Transactor owns one sensor line and runs complete wake-to-checksum
// exchanges on it. Not safe for concurrent use: the sensor is a
// single-initiator device.
type Transactor struct {
	line Line
	cfg  Config
	log  logrus.FieldLogger
}

// NewTransactor wires a transactor to a line. Unset Config fields take the
// package defaults.
func NewTransactor(line Line, cfg Config, log logrus.FieldLogger) *Transactor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Transactor{
		line: line,
		cfg:  cfg.withDefaults(),
		log:  log.WithField("sensor", "dht22"),
	}
}

// ReadOnce runs one transaction: wake the sensor, capture the pulse train,
// decode it. The capture window runs with GC disabled and everything
// allocated up front; nothing in it may block.
func (t *Transactor) ReadOnce() (Reading, error) {
	// allocate before the timing-critical part
	pulses := make([]Pulse, 0, t.cfg.MaxTransitions)

	gcPercent := debug.SetGCPercent(-1)
	if err := t.wake(); err != nil {
		debug.SetGCPercent(gcPercent)
		return Reading{}, err
	}
	pulses, truncated := t.capture(pulses)
	debug.SetGCPercent(gcPercent)

	t.log.Debugf("captured %d pulses (truncated=%v): %v", len(pulses), truncated, pulses)

	return Decode(pulses, t.cfg.OneThresholdMicros)
}

// wake sends the start signal: hold low, brief high, then release the line
// and listen for the sensor's response.
func (t *Transactor) wake() error {
	if err := t.line.Output(); err != nil {
		return fmt.Errorf("sensor: line output: %w", err)
	}
	if err := t.line.Set(false); err != nil {
		return fmt.Errorf("sensor: drive low: %w", err)
	}
	t.line.DelayMicros(t.cfg.WakeLowMicros)
	if err := t.line.Set(true); err != nil {
		return fmt.Errorf("sensor: drive high: %w", err)
	}
	t.line.DelayMicros(t.cfg.WakeHighMicros)
	if err := t.line.Input(); err != nil {
		return fmt.Errorf("sensor: line input: %w", err)
	}
	return nil
}

// capture busy-polls the line, recording the width of each held level until
// MaxTransitions pulses are in or one pulse outlives PulseCapMicros. A
// capped pulse means the sensor went quiet: capture ends without recording
// it and the second return is true.
func (t *Transactor) capture(pulses []Pulse) ([]Pulse, bool) {
	// The released line idles high. Starting from high (not a fresh sample)
	// keeps data pulses on even indices even when the sensor pulled the
	// line down before the first sample: that case yields a width 0 pulse
	// instead of shifting the whole train.
	last := true
	for i := 0; i < t.cfg.MaxTransitions; i++ {
		width := 0
		for t.line.Level() == last {
			width++
			t.line.DelayMicros(1)
			if width >= t.cfg.PulseCapMicros {
				return pulses, true
			}
		}
		pulses = append(pulses, Pulse{Level: last, Width: width})
		last = t.line.Level()
	}
	return pulses, false
}
