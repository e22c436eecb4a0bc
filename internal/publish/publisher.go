// internal/publish/publisher.go
package publish

import (
	"errors"
	"strings"
	"time"

	"github.com/tamzrod/dht-gateway/internal/cache"
	"github.com/tamzrod/dht-gateway/internal/sensor"
)

// Publisher delivers readings and health snapshots to one target.
// Delivery-only contract: no state beyond the transport, no interpretation.
type Publisher interface {
	PublishReading(at time.Time, r sensor.Reading) error
	PublishHealth(s cache.Snapshot) error
	Close() error
}

// Multi fans out to every configured target. All targets are attempted;
// errors are collected, never short-circuited.
type Multi []Publisher

func (m Multi) PublishReading(at time.Time, r sensor.Reading) error {
	var errs []string
	for _, p := range m {
		if err := p.PublishReading(at, r); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return joined(errs)
}

func (m Multi) PublishHealth(s cache.Snapshot) error {
	var errs []string
	for _, p := range m {
		if err := p.PublishHealth(s); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return joined(errs)
}

func (m Multi) Close() error {
	var errs []string
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return joined(errs)
}

func joined(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New(strings.Join(errs, " | "))
}
