// internal/gateway/loop.go
package gateway

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/dht-gateway/internal/sensor"
)

// loop is the single producer goroutine. Each cycle it polls, records the
// outcome in the cache under its generation token, fans the reading and a
// health snapshot out to the publishers, then sleeps the poll interval.
// It exits when ctx is cancelled or when a cache write reports its
// generation stale, which means a newer loop owns the cache.
func (g *Gateway) loop(ctx context.Context, t *sensor.Transactor, line sensor.Line, gen uint64, done chan struct{}) {
	defer close(done)
	// park the line released so the sensor sees idle-high
	defer func() { _ = line.Input() }()

	for {
		res := t.Poll(ctx)
		if ctx.Err() != nil {
			return
		}

		if res.OK() {
			if !g.cache.Publish(gen, res) {
				return
			}
			g.log.WithFields(logrus.Fields{
				"temperature_c": res.Reading.TemperatureC,
				"humidity_pct":  res.Reading.HumidityPct,
				"attempts":      res.Attempts,
			}).Info("reading published")

			if err := g.pub.PublishReading(res.At, res.Reading); err != nil {
				g.log.WithError(err).Warn("reading delivery failed")
			}
		} else {
			if !g.cache.RecordFailure(gen, res) {
				return
			}
			g.log.WithError(res.Err).WithField("attempts", res.Attempts).Warn("poll cycle failed")
		}

		snap := g.cache.Snapshot(time.Now(), g.staleAfter())
		if err := g.pub.PublishHealth(snap); err != nil {
			g.log.WithError(err).Warn("health delivery failed")
		}

		if !sleep(ctx, g.pollInterval()) {
			return
		}
	}
}

// sleep waits d in one-second steps. Returns false once ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) bool {
	for d > 0 {
		step := time.Second
		if d < step {
			step = d
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(step):
		}
		d -= step
	}
	return true
}
