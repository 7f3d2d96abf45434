// v1
// app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/sensity-app/SensityDashboard/internal/config"
	"github.com/sensity-app/SensityDashboard/internal/httpapi"
	"github.com/sensity-app/SensityDashboard/internal/hw"
	"github.com/sensity-app/SensityDashboard/internal/metrics"
	"github.com/sensity-app/SensityDashboard/internal/scheduler"
	"github.com/sensity-app/SensityDashboard/internal/sensors"
	"github.com/sensity-app/SensityDashboard/internal/transport"
)

const shutdownGrace = 5 * time.Second

// App owns every long-lived resource of the node and tears them down in
// reverse order exactly once, whatever path leads to exit.
type App struct {
	cfg      config.Config
	log      *slog.Logger
	registry *sensors.Registry
	sender   transport.Sender
	engine   *scheduler.Engine
	server   *http.Server

	closeOnce sync.Once
}

// New opens the hardware, builds the sensor registry, and wires the uplink
// selected by the configuration. On any error it releases whatever it had
// already opened.
func New(cfg config.Config, log *slog.Logger, logWriter io.Writer) (*App, error) {
	var hardware sensors.Hardware
	if platform, err := hw.Init(); err != nil {
		// a node with no working GPIO host still heartbeats
		log.Error("hardware init failed; starting sensorless", "err", err)
		hardware = hw.Unavailable(err)
	} else {
		hardware = platform
	}

	vitals, err := hw.NewProcVitals()
	if err != nil {
		return nil, fmt.Errorf("open host vitals: %w", err)
	}

	registry := sensors.Build(cfg, hardware, log)
	log.Info("sensor registry built", "sensors", registry.Count(), "names", registry.Names())

	sender, err := newSender(cfg, log)
	if err != nil {
		registry.Close()
		return nil, err
	}

	m := metrics.New()
	m.LiveSensors.Set(float64(registry.Count()))

	engine := scheduler.New(scheduler.Options{
		DeviceID:          cfg.DeviceID,
		Armed:             cfg.Armed,
		SampleInterval:    cfg.SampleInterval,
		HeartbeatInterval: cfg.HeartbeatInterval,
	}, registry, sender, vitals, m, log, clock.New())

	info := httpapi.Info{
		DeviceID:        cfg.DeviceID,
		DeviceName:      cfg.DeviceName,
		DeviceLocation:  cfg.DeviceLocation,
		FirmwareVersion: cfg.FirmwareVersion,
		Armed:           cfg.Armed,
		Uplink:          string(cfg.Uplink),
	}
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: httpapi.NewHandler(info, registry.Names, m.Handler(), logWriter),
	}

	return &App{
		cfg:      cfg,
		log:      log,
		registry: registry,
		sender:   sender,
		engine:   engine,
		server:   server,
	}, nil
}

func newSender(cfg config.Config, log *slog.Logger) (transport.Sender, error) {
	switch cfg.Uplink {
	case config.UplinkHTTP:
		return transport.NewHTTPSender(cfg.ServerURL, cfg.DeviceID, cfg.APIKey, log), nil
	case config.UplinkMQTT:
		return transport.NewMQTTSender(cfg.MQTTBroker, cfg.MQTTTopicPrefix, cfg.DeviceID, log)
	case config.UplinkKafka:
		return transport.NewKafkaSender(cfg.KafkaBrokers, cfg.KafkaReadingTopic, cfg.KafkaHeartbeatTopic, cfg.DeviceID, log), nil
	default:
		return nil, fmt.Errorf("unknown uplink %q", cfg.Uplink)
	}
}

// Run serves the local API and drives the scheduler until ctx is cancelled,
// then releases everything. It blocks for the whole life of the node.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	go func() {
		a.log.Info("local api listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("local api server failed", "err", err)
		}
	}()

	a.engine.Run(ctx)
	return nil
}

// Close releases resources in reverse acquisition order. Safe to call more
// than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := a.server.Shutdown(shCtx); err != nil {
			a.log.Error("local api shutdown failed", "err", err)
		}
		if err := a.sender.Close(); err != nil {
			a.log.Error("uplink close failed", "err", err)
		}
		a.registry.Close()
		a.log.Info("resources released")
	})
}
