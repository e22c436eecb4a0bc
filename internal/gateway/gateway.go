// internal/gateway/gateway.go

// Package gateway owns the sensor polling loop and its lifecycle. One
// Gateway drives one sensor: Start spawns the loop, Latest serves the
// freshest reading without touching hardware, Terminate stops the loop
// within a bounded time.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/dht-gateway/internal/cache"
	"github.com/tamzrod/dht-gateway/internal/config"
	"github.com/tamzrod/dht-gateway/internal/publish"
	"github.com/tamzrod/dht-gateway/internal/sensor"
)

var (
	ErrAlreadyRunning  = errors.New("gateway: already running")
	ErrShutdownTimeout = errors.New("gateway: poll loop did not stop in time")
	ErrLockHeld        = errors.New("gateway: sensor lock held by another process")
)

// ---- LIFECYCLE STATES ----

// idle → running → stopping → idle. A stopped gateway is immediately
// startable again, so there is no separate terminal state.
const (
	stateIdle = iota
	stateRunning
	stateStopping
)

// LineOpener claims a GPIO line by name. Injected so the loop can run
// against fakes.
type LineOpener func(pin string) (sensor.Line, error)

type Gateway struct {
	cfg      config.GatewayConfig
	openLine LineOpener
	pub      publish.Publisher
	log      logrus.FieldLogger

	cache *cache.Cache

	mu     sync.Mutex
	state  int
	cancel context.CancelFunc
	done   chan struct{}
	lock   *flock.Flock
}

func New(cfg config.GatewayConfig, openLine LineOpener, pub publish.Publisher, log logrus.FieldLogger) *Gateway {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if pub == nil {
		pub = publish.Multi{}
	}
	return &Gateway{
		cfg:      cfg,
		openLine: openLine,
		pub:      pub,
		log:      log.WithField("component", "gateway"),
		cache:    cache.New(),
	}
}

// Start claims the sensor pin and launches the polling loop.
// Returns ErrAlreadyRunning while a previous loop is running or still
// stopping.
func (g *Gateway) Start(pin string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateIdle {
		return ErrAlreadyRunning
	}

	if g.cfg.LockFile != "" {
		l := flock.New(g.cfg.LockFile)
		ok, err := l.TryLock()
		if err != nil {
			return fmt.Errorf("gateway: lock %s: %w", g.cfg.LockFile, err)
		}
		if !ok {
			return ErrLockHeld
		}
		g.lock = l
	}

	line, err := g.openLine(pin)
	if err != nil {
		g.releaseLock()
		return err
	}

	t := sensor.NewTransactor(line, sensorConfig(g.cfg.Sensor), g.log)

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.done = make(chan struct{})
	g.state = stateRunning

	g.log.WithField("pin", pin).Info("polling started")
	go g.loop(ctx, t, line, g.cache.Generation(), g.done)

	return nil
}

// Latest returns the freshest published reading. Never blocks on sensor
// work; false until the first successful cycle.
func (g *Gateway) Latest() (sensor.Reading, bool) {
	return g.cache.Latest()
}

// Health derives the current device health from the cache.
func (g *Gateway) Health() cache.Snapshot {
	return g.cache.Snapshot(time.Now(), g.staleAfter())
}

// Terminate stops the polling loop and waits up to ShutdownTimeout for it
// to exit. A loop stuck in a capture window past the bound is abandoned,
// never force-killed: the cache generation bump makes its late writes
// no-ops, and ErrShutdownTimeout is returned. Cleanup (cache reset, lock
// release, return to idle) happens on every path. Calling Terminate on an
// idle or already-stopping gateway is a no-op.
func (g *Gateway) Terminate() error {
	g.mu.Lock()
	if g.state != stateRunning {
		g.mu.Unlock()
		return nil
	}
	g.state = stateStopping
	cancel := g.cancel
	done := g.done
	g.mu.Unlock()

	cancel()

	var err error
	select {
	case <-done:
	case <-time.After(g.shutdownTimeout()):
		err = ErrShutdownTimeout
		g.log.Warn("poll loop unresponsive, abandoning")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.cache.Reset()
	g.releaseLock()
	g.cancel = nil
	g.done = nil
	g.state = stateIdle

	g.log.Info("polling stopped")
	return err
}

// releaseLock is called with mu held (or from Start before the loop
// exists).
func (g *Gateway) releaseLock() {
	if g.lock == nil {
		return
	}
	if err := g.lock.Unlock(); err != nil {
		g.log.WithError(err).Warn("lock release failed")
	}
	g.lock = nil
}

func (g *Gateway) pollInterval() time.Duration {
	if g.cfg.Sensor.PollIntervalS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(g.cfg.Sensor.PollIntervalS) * time.Second
}

func (g *Gateway) shutdownTimeout() time.Duration {
	if g.cfg.ShutdownTimeoutS <= 0 {
		return 15 * time.Second
	}
	return time.Duration(g.cfg.ShutdownTimeoutS) * time.Second
}

func (g *Gateway) staleAfter() time.Duration {
	if g.cfg.StaleAfterS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(g.cfg.StaleAfterS) * time.Second
}

func sensorConfig(s config.SensorConfig) sensor.Config {
	return sensor.Config{
		WakeLowMicros:      s.WakeLowUs,
		WakeHighMicros:     s.WakeHighUs,
		OneThresholdMicros: s.BitThresholdUs,
		PulseCapMicros:     s.PulseCapUs,
		MaxTransitions:     s.MaxTransitions,
		MaxAttempts:        s.MaxAttempts,
		RetryDelay:         time.Duration(s.RetryDelayMs) * time.Millisecond,
	}
}
