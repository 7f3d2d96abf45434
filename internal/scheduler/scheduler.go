// v3
// scheduler.go
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/sensity-app/SensityDashboard/internal/metrics"
	"github.com/sensity-app/SensityDashboard/internal/report"
	"github.com/sensity-app/SensityDashboard/internal/sensors"
	"github.com/sensity-app/SensityDashboard/internal/transport"
)

const (
	// defaultTickPeriod bounds responsiveness without busy-spinning the
	// main loop.
	defaultTickPeriod = 100 * time.Millisecond
	// defaultErrorBackoff is slept after a tick-level unexpected failure.
	defaultErrorBackoff = time.Second
)

// SensorRegistry is the scheduler's view of what is attached.
type SensorRegistry interface {
	Sensors() []sensors.Sensor
	Count() int
}

// Options fixes the engine's cadences and identity at construction.
type Options struct {
	DeviceID          string
	Armed             bool
	SampleInterval    time.Duration
	HeartbeatInterval time.Duration
	TickPeriod        time.Duration
	ErrorBackoff      time.Duration
}

// Engine is the tick loop: two independent cadences checked against a
// monotonic clock on every tick. All sensor acquisition and uplink calls run
// sequentially on the loop's single goroutine; the only asynchronous event
// is context cancellation.
type Engine struct {
	opts    Options
	reg     SensorRegistry
	sender  transport.Sender
	vitals  report.VitalsSource
	metrics *metrics.Metrics
	log     *slog.Logger
	clock   clock.Clock

	lastSample    time.Time
	lastHeartbeat time.Time
}

// New wires an engine. clk may be a mock in tests.
func New(opts Options, reg SensorRegistry, sender transport.Sender, vitals report.VitalsSource,
	m *metrics.Metrics, log *slog.Logger, clk clock.Clock,
) *Engine {
	if opts.TickPeriod <= 0 {
		opts.TickPeriod = defaultTickPeriod
	}
	if opts.ErrorBackoff <= 0 {
		opts.ErrorBackoff = defaultErrorBackoff
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Engine{
		opts:    opts,
		reg:     reg,
		sender:  sender,
		vitals:  vitals,
		metrics: m,
		log:     log,
		clock:   clk,
	}
}

// Run drives the loop until ctx is cancelled. An immediate heartbeat goes
// out before the first tick; the sample timer starts at zero so the first
// eligible tick reads sensors right away once armed.
func (e *Engine) Run(ctx context.Context) {
	e.start(ctx)

	ticker := e.clock.Ticker(e.opts.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

func (e *Engine) start(ctx context.Context) {
	e.log.Info("scheduler starting",
		"deviceId", e.opts.DeviceID,
		"armed", e.opts.Armed,
		"sampleInterval", e.opts.SampleInterval.String(),
		"heartbeatInterval", e.opts.HeartbeatInterval.String(),
		"sensors", e.reg.Count(),
	)
	e.fireHeartbeat(ctx)
	e.lastHeartbeat = e.clock.Now()
}

// tick evaluates both cadences independently; a tick may fire neither,
// either, or both. Each last-time stamp is updated right after dispatch,
// success or not, so failures stay throttled by the same interval as
// successes. Anything unexpected is caught here: the loop never terminates
// on a transient error.
func (e *Engine) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("tick failed", "panic", r)
			e.metrics.TickFailuresTotal.Inc()
			e.clock.Sleep(e.opts.ErrorBackoff)
		}
	}()

	now := e.clock.Now()

	if e.opts.Armed && now.Sub(e.lastSample) >= e.opts.SampleInterval {
		e.fireSample(ctx)
		e.lastSample = now
	}

	if now.Sub(e.lastHeartbeat) >= e.opts.HeartbeatInterval {
		e.fireHeartbeat(ctx)
		e.lastHeartbeat = now
	}
}

// fireSample runs one acquisition pass and ships the batch. A sensor that
// fails is logged and left out; it never aborts the pass. Each reading is
// stamped at its own acquisition time: a slow read earlier in the pass must
// not skew the timestamps of the sensors after it.
func (e *Engine) fireSample(ctx context.Context) {
	readings := make([]sensors.Reading, 0, e.reg.Count())
	for _, s := range e.reg.Sensors() {
		rd, err := s.Acquire(e.clock.Now())
		if err != nil {
			d := s.Descriptor()
			e.log.Error("sensor read failed", "sensor", d.Name, "err", err)
			e.metrics.AcquireFailures.WithLabelValues(string(d.Kind)).Inc()
			continue
		}
		e.metrics.ReadingsTotal.WithLabelValues(string(rd.SensorType)).Inc()
		readings = append(readings, rd)
	}

	rep := report.AssembleSensorReport(e.opts.DeviceID, readings)
	if rep == nil {
		e.log.Debug("no readings this pass; skipping send")
		return
	}
	if err := e.sender.Send(ctx, transport.EndpointSensorData, rep); err != nil {
		e.log.Error("sensor data send failed", "err", err, "readings", len(rep.Data))
		e.metrics.TransmissionsTotal.WithLabelValues(string(transport.EndpointSensorData), "error").Inc()
		return
	}
	e.metrics.TransmissionsTotal.WithLabelValues(string(transport.EndpointSensorData), "ok").Inc()
	e.log.Debug("sensor data sent", "readings", len(rep.Data))
}

func (e *Engine) fireHeartbeat(ctx context.Context) {
	hb, err := report.AssembleHeartbeat(e.opts.DeviceID, e.vitals, e.reg.Count(), e.opts.Armed)
	if err != nil {
		e.log.Error("heartbeat assembly failed", "err", err)
		return
	}
	e.metrics.HeartbeatsTotal.Inc()
	if err := e.sender.Send(ctx, transport.EndpointHeartbeat, hb); err != nil {
		e.log.Error("heartbeat send failed", "err", err)
		e.metrics.TransmissionsTotal.WithLabelValues(string(transport.EndpointHeartbeat), "error").Inc()
		return
	}
	e.metrics.TransmissionsTotal.WithLabelValues(string(transport.EndpointHeartbeat), "ok").Inc()
	e.log.Info("heartbeat sent", "uptime", hb.Uptime, "sensors", hb.SensorCount)
}
