// internal/sensor/periph/line.go
package periph

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/tamzrod/dht-gateway/internal/sensor"
)

// Init loads the periph.io host drivers. Must be called once before Open;
// safe to call again.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph: host init: %w", err)
	}
	return nil
}

// Line implements sensor.Line on a periph.io GPIO pin.
type Line struct {
	pin gpio.PinIO
}

// Open resolves a pin by name (e.g. "GPIO4") and presets it high so the
// sensor sees an idle line before the first transaction.
func Open(name string) (*Line, error) {
	if name == "" {
		return nil, errors.New("periph: pin name required")
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("periph: unknown pin %q", name)
	}
	if err := pin.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("periph: preset %s high: %w", name, err)
	}
	return &Line{pin: pin}, nil
}

// ---- sensor.Line ----

func (l *Line) Output() error {
	return l.pin.Out(gpio.High)
}

func (l *Line) Input() error {
	return l.pin.In(gpio.PullUp, gpio.NoEdge)
}

func (l *Line) Set(level bool) error {
	return l.pin.Out(gpio.Level(level))
}

func (l *Line) Level() bool {
	return l.pin.Read() == gpio.High
}

// DelayMicros spins. time.Sleep is useless here: the scheduler's wakeup
// latency dwarfs the pulse widths being measured.
func (l *Line) DelayMicros(n int) {
	deadline := time.Now().Add(time.Duration(n) * time.Microsecond)
	for time.Now().Before(deadline) {
	}
}

var _ sensor.Line = (*Line)(nil)
