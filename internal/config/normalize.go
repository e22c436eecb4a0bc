// internal/config/normalize.go
package config

import (
	"time"

	"github.com/tamzrod/dht-gateway/internal/sensor"
)

const (
	defaultLogLevel = "info"

	defaultPollIntervalS    = 10
	defaultShutdownTimeoutS = 15
	defaultStaleAfterS      = 3 * defaultPollIntervalS

	defaultMQTTClientID    = "dht-gateway"
	defaultMQTTTopicPrefix = "dht"
	defaultMQTTTimeoutMs   = 5000

	defaultModbusTimeoutMs = 1000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	g := &cfg.Gateway

	if g.LogLevel == "" {
		g.LogLevel = defaultLogLevel
	}
	if g.ShutdownTimeoutS == 0 {
		g.ShutdownTimeoutS = defaultShutdownTimeoutS
	}
	if g.StaleAfterS == 0 {
		g.StaleAfterS = defaultStaleAfterS
	}

	// ------------------------------------------------------------
	// DEVICE NAME NORMALIZATION
	// ------------------------------------------------------------

	// Normalize device_name:
	// - ASCII already validated
	// - Truncate to max 16 characters
	if len(g.DeviceName) > deviceNameMaxChars {
		g.DeviceName = g.DeviceName[:deviceNameMaxChars]
	}

	// ------------------------------------------------------------
	// SENSOR TIMING DEFAULTS
	// ------------------------------------------------------------

	s := &g.Sensor

	if s.WakeLowUs == 0 {
		s.WakeLowUs = sensor.DefaultWakeLowMicros
	}
	if s.WakeHighUs == 0 {
		s.WakeHighUs = sensor.DefaultWakeHighMicros
	}
	if s.BitThresholdUs == 0 {
		s.BitThresholdUs = sensor.DefaultOneThresholdMicros
	}
	if s.PulseCapUs == 0 {
		s.PulseCapUs = sensor.DefaultPulseCapMicros
	}
	if s.MaxTransitions == 0 {
		s.MaxTransitions = sensor.DefaultMaxTransitions
	}
	if s.MaxAttempts == 0 {
		s.MaxAttempts = sensor.DefaultMaxAttempts
	}
	if s.RetryDelayMs == 0 {
		s.RetryDelayMs = int(sensor.DefaultRetryDelay / time.Millisecond)
	}
	if s.PollIntervalS == 0 {
		s.PollIntervalS = defaultPollIntervalS
	}

	// ------------------------------------------------------------
	// TARGET DEFAULTS (OPT-IN)
	// ------------------------------------------------------------

	if m := g.Targets.MQTT; m != nil {
		if m.ClientID == "" {
			m.ClientID = defaultMQTTClientID
		}
		if m.TopicPrefix == "" {
			m.TopicPrefix = defaultMQTTTopicPrefix
		}
		if m.TimeoutMs == 0 {
			m.TimeoutMs = defaultMQTTTimeoutMs
		}
	}

	if m := g.Targets.Modbus; m != nil {
		if m.TimeoutMs == 0 {
			m.TimeoutMs = defaultModbusTimeoutMs
		}
	}
}
