// cmd/gateway/main.go
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/dht-gateway/internal/config"
	"github.com/tamzrod/dht-gateway/internal/gateway"
	"github.com/tamzrod/dht-gateway/internal/publish"
	"github.com/tamzrod/dht-gateway/internal/sensor"
	"github.com/tamzrod/dht-gateway/internal/sensor/periph"
)

func main() {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) < 2 {
		log.Fatal("usage: gateway <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	level, _ := logrus.ParseLevel(cfg.Gateway.LogLevel) // checked by Validate
	log.SetLevel(level)

	// --------------------
	// GPIO host + delivery targets
	// --------------------

	if err := periph.Init(); err != nil {
		log.Fatalf("gpio host init failed: %v", err)
	}

	pub, err := publish.Build(cfg.Gateway, log)
	if err != nil {
		log.Fatalf("target build failed: %v", err)
	}
	defer pub.Close()

	// --------------------
	// Run until signalled
	// --------------------

	open := func(pin string) (sensor.Line, error) {
		return periph.Open(pin)
	}

	gw := gateway.New(cfg.Gateway, open, pub, log)

	if err := gw.Start(cfg.Gateway.Sensor.Pin); err != nil {
		log.Fatalf("start failed: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.WithField("signal", s.String()).Info("shutting down")

	if err := gw.Terminate(); err != nil {
		log.Errorf("shutdown: %v", err)
		_ = pub.Close()
		os.Exit(1)
	}
}
