// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Register geometry of the export blocks. Mirrors the wire layout
// owned by internal/publish and internal/cache.
const (
	readingBlockRegs = 2
	statusBlockRegs  = 20

	deviceNameMaxChars = 16

	// A full 40-bit frame needs the 4 handshake transitions plus 79
	// data transitions. Smaller captures can never decode.
	minTransitionsForFrame = 83
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	g := &cfg.Gateway

	// ------------------------------------------------------------
	// GATEWAY-LEVEL FIELDS
	// ------------------------------------------------------------

	if g.LogLevel != "" {
		if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
			return fmt.Errorf("gateway: unknown log_level %q", g.LogLevel)
		}
	}

	// device_name sanity (ASCII only)
	for i := 0; i < len(g.DeviceName); i++ {
		if g.DeviceName[i] > 0x7F {
			return fmt.Errorf("gateway: device_name must contain ASCII characters only")
		}
	}

	if g.ShutdownTimeoutS < 0 {
		return fmt.Errorf("gateway: shutdown_timeout_s must not be negative")
	}
	if g.StaleAfterS < 0 {
		return fmt.Errorf("gateway: stale_after_s must not be negative")
	}

	// ------------------------------------------------------------
	// SENSOR TIMING VALIDATION
	// ------------------------------------------------------------

	s := &g.Sensor

	if s.Pin == "" {
		return fmt.Errorf("gateway: sensor.pin required")
	}

	for _, f := range []struct {
		name  string
		value int
	}{
		{"wake_low_us", s.WakeLowUs},
		{"wake_high_us", s.WakeHighUs},
		{"bit_threshold_us", s.BitThresholdUs},
		{"pulse_cap_us", s.PulseCapUs},
		{"max_transitions", s.MaxTransitions},
		{"max_attempts", s.MaxAttempts},
		{"retry_delay_ms", s.RetryDelayMs},
		{"poll_interval_s", s.PollIntervalS},
	} {
		if f.value < 0 {
			return fmt.Errorf("gateway: sensor.%s must not be negative", f.name)
		}
	}

	// A threshold at or above the cap would classify every capped
	// pulse as a zero and no pulse as a one.
	if s.BitThresholdUs != 0 && s.PulseCapUs != 0 && s.BitThresholdUs >= s.PulseCapUs {
		return fmt.Errorf(
			"gateway: sensor.bit_threshold_us (%d) must be below sensor.pulse_cap_us (%d)",
			s.BitThresholdUs,
			s.PulseCapUs,
		)
	}

	if s.MaxTransitions != 0 && s.MaxTransitions < minTransitionsForFrame {
		return fmt.Errorf(
			"gateway: sensor.max_transitions (%d) is too small for a 40-bit frame (minimum %d)",
			s.MaxTransitions,
			minTransitionsForFrame,
		)
	}

	// ------------------------------------------------------------
	// TARGET VALIDATION
	// ------------------------------------------------------------

	if m := g.Targets.MQTT; m != nil {
		if m.Broker == "" {
			return fmt.Errorf("gateway: targets.mqtt.broker required")
		}
		if m.QoS > 2 {
			return fmt.Errorf("gateway: targets.mqtt.qos must be 0, 1 or 2")
		}
		if m.TimeoutMs < 0 {
			return fmt.Errorf("gateway: targets.mqtt.timeout_ms must not be negative")
		}
	}

	if m := g.Targets.Modbus; m != nil {
		if m.Endpoint == "" {
			return fmt.Errorf("gateway: targets.modbus.endpoint required")
		}
		if m.TimeoutMs < 0 {
			return fmt.Errorf("gateway: targets.modbus.timeout_ms must not be negative")
		}

		// Reading block and status block must not overlap (inclusive
		// span check on the target's holding registers).
		if m.StatusSlot != nil {
			rStart := m.ReadingAddress
			rEnd := rStart + readingBlockRegs - 1
			sStart := *m.StatusSlot
			sEnd := sStart + statusBlockRegs - 1

			if !(rEnd < sStart || rStart > sEnd) {
				return fmt.Errorf(
					"gateway: targets.modbus register overlap: reading=%d-%d status=%d-%d",
					rStart,
					rEnd,
					sStart,
					sEnd,
				)
			}
		}
	}

	// Exporting a status block requires a name to publish in it.
	if g.Targets.Modbus != nil && g.Targets.Modbus.StatusSlot != nil && g.DeviceName == "" {
		return fmt.Errorf("gateway: targets.modbus.status_slot is set but device_name is empty")
	}

	return nil
}
