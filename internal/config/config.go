// internal/config/config.go
package config

type Config struct {
	Gateway GatewayConfig `yaml:"gateway"`
}

type GatewayConfig struct {
	DeviceName string `yaml:"device_name"`
	LogLevel   string `yaml:"log_level"`

	// Cross-process guard for the sensor pin (optional).
	LockFile string `yaml:"lock_file"`

	Sensor  SensorConfig  `yaml:"sensor"`
	Targets TargetsConfig `yaml:"targets"`

	ShutdownTimeoutS int `yaml:"shutdown_timeout_s"`
	StaleAfterS      int `yaml:"stale_after_s"`
}

// ---- SENSOR ----

type SensorConfig struct {
	Pin string `yaml:"pin"`

	// Wire timing (microseconds). Zero means the built-in default.
	WakeLowUs      int `yaml:"wake_low_us"`
	WakeHighUs     int `yaml:"wake_high_us"`
	BitThresholdUs int `yaml:"bit_threshold_us"`
	PulseCapUs     int `yaml:"pulse_cap_us"`
	MaxTransitions int `yaml:"max_transitions"`

	// Retry policy
	MaxAttempts  int `yaml:"max_attempts"`
	RetryDelayMs int `yaml:"retry_delay_ms"`

	PollIntervalS int `yaml:"poll_interval_s"`
}

// ---- TARGETS ----

type TargetsConfig struct {
	MQTT   *MQTTTarget   `yaml:"mqtt"`
	Modbus *ModbusTarget `yaml:"modbus"`
}

type MQTTTarget struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         uint8  `yaml:"qos"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

type ModbusTarget struct {
	Endpoint       string `yaml:"endpoint"`
	UnitID         uint8  `yaml:"unit_id"`
	TimeoutMs      int    `yaml:"timeout_ms"`
	ReadingAddress uint16 `yaml:"reading_address"`

	// Device status block (optional, opt-in)
	StatusSlot *uint16 `yaml:"status_slot"`
}
