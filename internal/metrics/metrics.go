// v0
// metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the node's instrumentation. Everything registers on a
// private registry so the /metrics surface only carries what the node owns.
type Metrics struct {
	registry *prometheus.Registry

	ReadingsTotal      *prometheus.CounterVec
	AcquireFailures    *prometheus.CounterVec
	TransmissionsTotal *prometheus.CounterVec
	HeartbeatsTotal    prometheus.Counter
	TickFailuresTotal  prometheus.Counter
	LiveSensors        prometheus.Gauge
}

// New builds and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ReadingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensornode_readings_total",
			Help: "Successful sensor acquisitions by kind.",
		}, []string{"kind"}),
		AcquireFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensornode_acquisition_failures_total",
			Help: "Failed sensor acquisitions by kind.",
		}, []string{"kind"}),
		TransmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensornode_transmissions_total",
			Help: "Uplink sends by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		HeartbeatsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sensornode_heartbeats_total",
			Help: "Heartbeat payloads assembled.",
		}),
		TickFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sensornode_tick_failures_total",
			Help: "Tick-level unexpected failures recovered by the scheduler.",
		}),
		LiveSensors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sensornode_live_sensors",
			Help: "Sensors that survived initialization.",
		}),
	}
	reg.MustRegister(
		m.ReadingsTotal,
		m.AcquireFailures,
		m.TransmissionsTotal,
		m.HeartbeatsTotal,
		m.TickFailuresTotal,
		m.LiveSensors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
