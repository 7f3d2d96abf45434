// v1
// drivers_test.go
package sensors

import (
	"errors"
	"testing"
	"time"
)

type scriptedPin struct {
	// levels is consumed one entry per Read; the last entry repeats.
	levels []bool
	reads  int
	wrote  []bool
	err    error
}

func (p *scriptedPin) Read() (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	i := p.reads
	if i >= len(p.levels) {
		i = len(p.levels) - 1
	}
	p.reads++
	if len(p.levels) == 0 {
		return false, nil
	}
	return p.levels[i], nil
}

func (p *scriptedPin) Write(high bool) error {
	p.wrote = append(p.wrote, high)
	return nil
}

type fakeADC struct {
	raw    uint16
	err    error
	closed bool
}

func (a *fakeADC) ReadChannel(int) (uint16, error) { return a.raw, a.err }
func (a *fakeADC) Close() error                    { a.closed = true; return nil }

type fakeTH struct {
	humidity    float64
	temperature float64
	err         error
}

func (f *fakeTH) ReadRetry(int) (float64, float64, error) {
	return f.humidity, f.temperature, f.err
}

func TestLightScaling(t *testing.T) {
	tests := []struct {
		name     string
		raw      uint16
		wantPct  float64
		wantVolt float64
	}{
		{name: "dark", raw: 0, wantPct: 0.0, wantVolt: 0.0},
		{name: "half", raw: 32768, wantPct: 50.0, wantVolt: 1.65},
		{name: "full", raw: 65535, wantPct: 100.0, wantVolt: 3.3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newLightSensor("Light Sensor", &fakeADC{raw: tc.raw}, 0)
			rd, err := s.Acquire(time.UnixMilli(1700000000000))
			if err != nil {
				t.Fatalf("Acquire error: %v", err)
			}
			if *rd.Percentage != tc.wantPct {
				t.Fatalf("percentage: got %v want %v", *rd.Percentage, tc.wantPct)
			}
			if *rd.Voltage != tc.wantVolt {
				t.Fatalf("voltage: got %v want %v", *rd.Voltage, tc.wantVolt)
			}
			if *rd.Value != float64(tc.raw) {
				t.Fatalf("raw value: got %v want %d", *rd.Value, tc.raw)
			}
			if rd.Timestamp != 1700000000000 {
				t.Fatalf("timestamp: got %d", rd.Timestamp)
			}
		})
	}
}

func TestLightReadFailure(t *testing.T) {
	s := newLightSensor("Light Sensor", &fakeADC{err: errors.New("spi gone")}, 2)
	if _, err := s.Acquire(time.Now()); err == nil {
		t.Fatalf("expected error from failing ADC")
	}
}

func TestMotionMapping(t *testing.T) {
	high := newMotionSensor("PIR Motion Sensor", &scriptedPin{levels: []bool{true}})
	rd, err := high.Acquire(time.Now())
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if rd.State != StateDetected || *rd.Value != 1.0 {
		t.Fatalf("high pin: got state=%q value=%v", rd.State, *rd.Value)
	}

	low := newMotionSensor("PIR Motion Sensor", &scriptedPin{levels: []bool{false}})
	rd, err = low.Acquire(time.Now())
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if rd.State != StateClear || *rd.Value != 0.0 {
		t.Fatalf("low pin: got state=%q value=%v", rd.State, *rd.Value)
	}
}

func TestDHTRoundsToTwoDecimals(t *testing.T) {
	s := newDHTSensor("DHT22 Sensor", &fakeTH{humidity: 43.216789, temperature: 21.704999})
	rd, err := s.Acquire(time.Now())
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if *rd.Temperature != 21.7 {
		t.Fatalf("temperature: got %v want 21.7", *rd.Temperature)
	}
	if *rd.Humidity != 43.22 {
		t.Fatalf("humidity: got %v want 43.22", *rd.Humidity)
	}
	if rd.Value != nil || rd.State != "" {
		t.Fatalf("unexpected fields populated: %+v", rd)
	}
}

func TestDHTFailurePropagates(t *testing.T) {
	s := newDHTSensor("DHT22 Sensor", &fakeTH{err: errors.New("no response")})
	if _, err := s.Acquire(time.Now()); err == nil {
		t.Fatalf("expected error when retries are exhausted")
	}
}

func TestDistanceFromPulse(t *testing.T) {
	tests := []struct {
		pulse time.Duration
		want  float64
	}{
		{pulse: 17460 * time.Microsecond, want: 299.44}, // 0.01746s * 34300 / 2
		{pulse: 0, want: 0},
		{pulse: 582 * time.Microsecond, want: 9.98},
	}
	for _, tc := range tests {
		if got := distanceFromPulse(tc.pulse); got != tc.want {
			t.Fatalf("distanceFromPulse(%s): got %v want %v", tc.pulse, got, tc.want)
		}
	}
}

func TestDistanceEchoNeverRisesTimesOut(t *testing.T) {
	trigger := &scriptedPin{}
	echo := &scriptedPin{levels: []bool{false}}
	s := newDistanceSensor("Ultrasonic Sensor", trigger, echo)

	start := time.Now()
	rd, err := s.Acquire(time.Now())
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if *rd.Value != DistanceTimeout {
		t.Fatalf("expected timeout sentinel, got %v", *rd.Value)
	}
	// bounded latency: the 100ms deadline plus loop overhead
	if elapsed > 500*time.Millisecond {
		t.Fatalf("acquire took %s, deadline not honored", elapsed)
	}
	// trigger pulse was driven low-high-low
	if len(trigger.wrote) != 3 || trigger.wrote[0] || !trigger.wrote[1] || trigger.wrote[2] {
		t.Fatalf("unexpected trigger sequence: %v", trigger.wrote)
	}
}

func TestDistanceMeasuresScriptedPulse(t *testing.T) {
	// Echo stays low for a few polls, rises for a few, then falls.
	levels := []bool{false, false, true, true, true, false}
	s := newDistanceSensor("Ultrasonic Sensor", &scriptedPin{}, &scriptedPin{levels: levels})

	rd, err := s.Acquire(time.Now())
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	if *rd.Value < 0 {
		t.Fatalf("expected a measured distance, got sentinel %v", *rd.Value)
	}
	if rd.Unit != "cm" {
		t.Fatalf("unit: got %q want cm", rd.Unit)
	}
}

func TestDistanceEchoReadErrorFails(t *testing.T) {
	s := newDistanceSensor("Ultrasonic Sensor", &scriptedPin{}, &scriptedPin{err: errors.New("pin gone")})
	if _, err := s.Acquire(time.Now()); err == nil {
		t.Fatalf("expected error from failing echo pin")
	}
}
