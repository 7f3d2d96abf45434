// v1
// report.go
package report

import (
	"fmt"

	"github.com/sensity-app/SensityDashboard/internal/sensors"
)

// SensorDataReport is one acquisition pass's batch, as the collector
// ingests it.
type SensorDataReport struct {
	DeviceID string            `json:"device_id"`
	Data     []sensors.Reading `json:"data"`
}

// HeartbeatReport carries host vitals and registry size on the liveness
// cadence.
type HeartbeatReport struct {
	DeviceID    string `json:"device_id"`
	Uptime      int64  `json:"uptime"`
	FreeMemory  uint64 `json:"free_memory"`
	TotalMemory uint64 `json:"total_memory"`
	SensorCount int    `json:"sensor_count"`
	Armed       bool   `json:"armed"`
}

// VitalsSource reads liveness figures from the operating environment.
type VitalsSource interface {
	Uptime() (int64, error)
	Memory() (totalKB, availableKB uint64, err error)
}

// AssembleSensorReport batches one pass's readings. It returns nil for an
// empty batch so the caller can skip the send entirely rather than shipping
// a vacuous payload.
func AssembleSensorReport(deviceID string, readings []sensors.Reading) *SensorDataReport {
	if len(readings) == 0 {
		return nil
	}
	return &SensorDataReport{DeviceID: deviceID, Data: readings}
}

// AssembleHeartbeat packages host vitals with the live sensor count and
// armed flag.
func AssembleHeartbeat(deviceID string, vitals VitalsSource, sensorCount int, armed bool) (HeartbeatReport, error) {
	uptime, err := vitals.Uptime()
	if err != nil {
		return HeartbeatReport{}, fmt.Errorf("host uptime: %w", err)
	}
	total, available, err := vitals.Memory()
	if err != nil {
		return HeartbeatReport{}, fmt.Errorf("host memory: %w", err)
	}
	return HeartbeatReport{
		DeviceID:    deviceID,
		Uptime:      uptime,
		FreeMemory:  available,
		TotalMemory: total,
		SensorCount: sensorCount,
		Armed:       armed,
	}, nil
}
