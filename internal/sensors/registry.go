// v1
// registry.go
package sensors

import (
	"log/slog"
	"sync"

	"github.com/sensity-app/SensityDashboard/internal/config"
)

// Registry holds the set of successfully-initialized sensors. It is built
// once at startup and never mutated afterwards; the scheduler is its single
// consumer so no locking is needed on the read path.
type Registry struct {
	sensors []Sensor
	log     *slog.Logger

	closeOnce sync.Once
}

// Build attempts to acquire the physical resource for every enabled sensor
// in the configuration. A sensor whose resource fails to initialize is
// logged and omitted; the build itself never fails. Running with a reduced
// sensor set is a degraded start, not a fatal one.
func Build(cfg config.Config, hw Hardware, log *slog.Logger) *Registry {
	r := &Registry{log: log}

	if cfg.DHT.Enabled {
		reader, err := hw.TempHumidity(cfg.DHT.Pin, string(cfg.DHT.Model))
		if err != nil {
			log.Error("dht sensor init failed", "pin", cfg.DHT.Pin, "err", err)
		} else {
			r.sensors = append(r.sensors, newDHTSensor(string(cfg.DHT.Model)+" Sensor", reader))
			log.Info("dht sensor initialized", "pin", cfg.DHT.Pin, "model", cfg.DHT.Model)
		}
	}

	if cfg.Light.Enabled {
		adc, err := hw.Analog(cfg.Light.SPIPort)
		if err != nil {
			log.Error("light sensor init failed", "spi", cfg.Light.SPIPort, "err", err)
		} else {
			r.sensors = append(r.sensors, newLightSensor("Light Sensor", adc, cfg.Light.Channel))
			log.Info("light sensor initialized", "spi", cfg.Light.SPIPort, "channel", cfg.Light.Channel)
		}
	}

	if cfg.Motion.Enabled {
		pin, err := hw.InputPin(cfg.Motion.Pin)
		if err != nil {
			log.Error("motion sensor init failed", "pin", cfg.Motion.Pin, "err", err)
		} else {
			r.sensors = append(r.sensors, newMotionSensor("PIR Motion Sensor", pin))
			log.Info("motion sensor initialized", "pin", cfg.Motion.Pin)
		}
	}

	if cfg.Distance.Enabled {
		trigger, err := hw.OutputPin(cfg.Distance.TriggerPin)
		if err != nil {
			log.Error("distance sensor init failed", "pin", cfg.Distance.TriggerPin, "err", err)
		} else if echo, err := hw.InputPin(cfg.Distance.EchoPin); err != nil {
			log.Error("distance sensor init failed", "pin", cfg.Distance.EchoPin, "err", err)
		} else {
			r.sensors = append(r.sensors, newDistanceSensor("Ultrasonic Sensor", trigger, echo))
			log.Info("distance sensor initialized",
				"trigger", cfg.Distance.TriggerPin, "echo", cfg.Distance.EchoPin)
		}
	}

	log.Info("sensors initialized", "count", len(r.sensors))
	return r
}

// Count reports how many sensors survived initialization.
func (r *Registry) Count() int { return len(r.sensors) }

// Sensors returns the live handles in configuration order.
func (r *Registry) Sensors() []Sensor { return r.sensors }

// Names returns the live sensor names, for the status surface.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.sensors))
	for _, s := range r.sensors {
		out = append(out, s.Descriptor().Name)
	}
	return out
}

// Close releases every acquired resource. Safe to call more than once and
// safe to call when some resources never initialized.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		for _, s := range r.sensors {
			if err := s.Close(); err != nil {
				r.log.Error("sensor close failed", "sensor", s.Descriptor().Name, "err", err)
			}
		}
	})
}
