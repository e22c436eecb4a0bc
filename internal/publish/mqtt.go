// internal/publish/mqtt.go
package publish

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tamzrod/dht-gateway/internal/cache"
	"github.com/tamzrod/dht-gateway/internal/sensor"
)

// mqttClient is the exact contract the MQTT target uses.
// Satisfied by github.com/eclipse/paho.mqtt.golang.Client.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTT publishes readings and health as retained JSON documents, so the
// broker always carries the freshest value (the broker-side mirror of the
// in-process cache).
type MQTT struct {
	cli     mqttClient
	prefix  string
	qos     byte
	timeout time.Duration
}

// NewMQTT wraps an already-connected client. Topics are <prefix>/reading
// and <prefix>/health.
func NewMQTT(cli mqttClient, topicPrefix string, qos byte, timeout time.Duration) *MQTT {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MQTT{cli: cli, prefix: topicPrefix, qos: qos, timeout: timeout}
}

type readingPayload struct {
	TemperatureC float64   `json:"temperature_c"`
	HumidityPct  float64   `json:"humidity_pct"`
	Timestamp    time.Time `json:"timestamp"`
}

type healthPayload struct {
	Health         string `json:"health"`
	LastErrorCode  uint16 `json:"last_error_code"`
	SecondsInError uint16 `json:"seconds_in_error"`
}

func (m *MQTT) PublishReading(at time.Time, r sensor.Reading) error {
	return m.publishJSON(m.prefix+"/reading", readingPayload{
		TemperatureC: r.TemperatureC,
		HumidityPct:  r.HumidityPct,
		Timestamp:    at,
	})
}

func (m *MQTT) PublishHealth(s cache.Snapshot) error {
	return m.publishJSON(m.prefix+"/health", healthPayload{
		Health:         cache.HealthName(s.Health),
		LastErrorCode:  s.LastErrorCode,
		SecondsInError: s.SecondsInError,
	})
}

func (m *MQTT) publishJSON(topic string, obj any) error {
	msg, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("mqtt: marshal %s: %w", topic, err)
	}
	token := m.cli.Publish(topic, m.qos, true, msg)
	if !token.WaitTimeout(m.timeout) {
		return fmt.Errorf("mqtt: publish %s: timeout after %v", topic, m.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish %s: %w", topic, err)
	}
	return nil
}

func (m *MQTT) Close() error {
	m.cli.Disconnect(250)
	return nil
}
