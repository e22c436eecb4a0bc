// internal/publish/builder.go
package publish

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	gomodbus "github.com/goburrow/modbus"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/dht-gateway/internal/config"
)

// Build dials every configured target and returns them as one fan-out
// Publisher. No targets yields an empty Multi, which publishes nowhere.
// On any connect failure the targets built so far are closed.
func Build(g config.GatewayConfig, log logrus.FieldLogger) (Publisher, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var built Multi

	closeBuilt := func() {
		for _, p := range built {
			_ = p.Close()
		}
	}

	if t := g.Targets.MQTT; t != nil {
		cli, err := connectMQTT(t)
		if err != nil {
			closeBuilt()
			return nil, err
		}
		timeout := time.Duration(t.TimeoutMs) * time.Millisecond
		built = append(built, NewMQTT(cli, t.TopicPrefix, t.QoS, timeout))
		log.WithField("broker", t.Broker).Info("mqtt target connected")
	}

	if t := g.Targets.Modbus; t != nil {
		handler := gomodbus.NewTCPClientHandler(t.Endpoint)
		handler.Timeout = time.Duration(t.TimeoutMs) * time.Millisecond
		handler.SlaveId = t.UnitID

		if err := handler.Connect(); err != nil {
			closeBuilt()
			return nil, fmt.Errorf("publish: modbus connect %s: %w", t.Endpoint, err)
		}

		built = append(built, NewModbus(
			gomodbus.NewClient(handler),
			handler.Close,
			t.ReadingAddress,
			t.StatusSlot,
			g.DeviceName,
		))
		log.WithField("endpoint", t.Endpoint).Info("modbus target connected")
	}

	return built, nil
}

func connectMQTT(t *config.MQTTTarget) (mqtt.Client, error) {
	timeout := time.Duration(t.TimeoutMs) * time.Millisecond

	opts := mqtt.NewClientOptions().
		AddBroker(t.Broker).
		SetClientID(t.ClientID).
		SetConnectTimeout(timeout).
		SetAutoReconnect(true)

	if t.Username != "" {
		opts.SetUsername(t.Username)
		opts.SetPassword(t.Password)
	}

	cli := mqtt.NewClient(opts)

	if err := awaitConnect(cli, cli.Connect(), timeout); err != nil {
		return nil, fmt.Errorf("publish: mqtt connect %s: %w", t.Broker, err)
	}

	return cli, nil
}

// awaitConnect blocks on the connect token. A failed or timed-out attempt
// tears the client down again; no half-open connection outlives the
// returned error.
func awaitConnect(cli mqttClient, tok mqtt.Token, timeout time.Duration) error {
	if !tok.WaitTimeout(timeout) {
		cli.Disconnect(0)
		return errors.New("timeout")
	}
	if err := tok.Error(); err != nil {
		cli.Disconnect(0)
		return err
	}
	return nil
}
