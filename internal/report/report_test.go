// v0
// report_test.go
package report

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sensity-app/SensityDashboard/internal/sensors"
)

type fakeVitals struct {
	uptime int64
	total  uint64
	avail  uint64
	upErr  error
	memErr error
}

func (f *fakeVitals) Uptime() (int64, error) { return f.uptime, f.upErr }
func (f *fakeVitals) Memory() (uint64, uint64, error) {
	return f.total, f.avail, f.memErr
}

func TestAssembleSensorReportSkipsEmptyBatch(t *testing.T) {
	if rep := AssembleSensorReport("dev-1", nil); rep != nil {
		t.Fatalf("expected nil report for empty batch, got %+v", rep)
	}
	if rep := AssembleSensorReport("dev-1", []sensors.Reading{}); rep != nil {
		t.Fatalf("expected nil report for zero-length batch, got %+v", rep)
	}
}

func TestAssembleSensorReportKeepsOrder(t *testing.T) {
	readings := []sensors.Reading{
		{SensorType: sensors.KindMotion, SensorName: "PIR Motion Sensor"},
		{SensorType: sensors.KindLight, SensorName: "Light Sensor"},
	}
	rep := AssembleSensorReport("dev-1", readings)
	if rep == nil {
		t.Fatalf("expected a report")
	}
	if rep.DeviceID != "dev-1" {
		t.Fatalf("device id: got %q", rep.DeviceID)
	}
	if len(rep.Data) != 2 || rep.Data[0].SensorType != sensors.KindMotion {
		t.Fatalf("batch order lost: %+v", rep.Data)
	}
}

func TestSensorReportWireFormat(t *testing.T) {
	temp, hum := 21.7, 43.22
	rep := AssembleSensorReport("dev-1", []sensors.Reading{{
		SensorType:  sensors.KindTemperatureHumidity,
		SensorName:  "DHT22 Sensor",
		Timestamp:   1700000000000,
		Temperature: &temp,
		Humidity:    &hum,
	}})
	b, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"device_id":"dev-1"`, `"sensor_type":"temperature_humidity"`, `"temperature":21.7`, `"humidity":43.22`} {
		if !strings.Contains(s, want) {
			t.Fatalf("payload missing %s: %s", want, s)
		}
	}
	// failure-only fields must stay off the wire
	for _, banned := range []string{"voltage", "percentage", "state", "unit"} {
		if strings.Contains(s, banned) {
			t.Fatalf("payload leaks %q: %s", banned, s)
		}
	}
}

func TestAssembleHeartbeat(t *testing.T) {
	hb, err := AssembleHeartbeat("dev-1", &fakeVitals{uptime: 84983, total: 949448, avail: 520112}, 3, true)
	if err != nil {
		t.Fatalf("AssembleHeartbeat error: %v", err)
	}
	if hb.Uptime != 84983 || hb.TotalMemory != 949448 || hb.FreeMemory != 520112 {
		t.Fatalf("vitals mismatch: %+v", hb)
	}
	if hb.SensorCount != 3 || !hb.Armed || hb.DeviceID != "dev-1" {
		t.Fatalf("identity mismatch: %+v", hb)
	}
}

func TestAssembleHeartbeatPropagatesVitalsErrors(t *testing.T) {
	if _, err := AssembleHeartbeat("dev-1", &fakeVitals{upErr: errors.New("no procfs")}, 0, false); err == nil {
		t.Fatalf("expected uptime error")
	}
	if _, err := AssembleHeartbeat("dev-1", &fakeVitals{memErr: errors.New("no meminfo")}, 0, false); err == nil {
		t.Fatalf("expected memory error")
	}
}
