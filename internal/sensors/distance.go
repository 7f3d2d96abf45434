// v2
// distance.go
package sensors

import (
	"fmt"
	"time"
)

const (
	// echoDeadline bounds both edge-polling loops, measured from the start
	// of the trigger pulse. A hard cap, not an incidental one: an absent or
	// unplugged echo line must never stall the acquisition pass.
	echoDeadline = 100 * time.Millisecond

	// triggerHold is the width of each half of the trigger pulse.
	triggerHold = 10 * time.Microsecond

	// speedOfSoundCmPerSec is the fixed speed of sound used to convert the
	// round-trip pulse into centimeters. No temperature compensation.
	speedOfSoundCmPerSec = 34300

	// DistanceTimeout is the sentinel reported when an echo edge never
	// arrives before the deadline.
	DistanceTimeout = -1
)

type distanceSensor struct {
	name    string
	trigger DigitalPin
	echo    DigitalPin
}

func newDistanceSensor(name string, trigger, echo DigitalPin) *distanceSensor {
	return &distanceSensor{name: name, trigger: trigger, echo: echo}
}

func (s *distanceSensor) Descriptor() Descriptor {
	return Descriptor{Kind: KindDistance, Name: s.name}
}

func (s *distanceSensor) Close() error { return nil }

func (s *distanceSensor) Acquire(now time.Time) (Reading, error) {
	distance, err := s.measure()
	if err != nil {
		return Reading{}, err
	}
	return Reading{
		SensorType: KindDistance,
		SensorName: s.name,
		Timestamp:  now.UnixMilli(),
		Value:      ptr(distance),
		Unit:       "cm",
	}, nil
}

// measure runs one HC-SR04 round trip: a 10µs trigger pulse, then a tight
// poll of the echo line for its rising and falling edges. The pulses being
// timed are tens of microseconds to a few milliseconds wide, so the edge
// loops busy-wait instead of sleeping; a scheduler-granularity sleep would
// swallow the pulse entirely.
func (s *distanceSensor) measure() (float64, error) {
	if err := s.trigger.Write(false); err != nil {
		return 0, fmt.Errorf("trigger low: %w", err)
	}
	time.Sleep(triggerHold)
	if err := s.trigger.Write(true); err != nil {
		return 0, fmt.Errorf("trigger high: %w", err)
	}
	time.Sleep(triggerHold)
	if err := s.trigger.Write(false); err != nil {
		return 0, fmt.Errorf("trigger low: %w", err)
	}

	deadline := time.Now().Add(echoDeadline)

	pulseStart := time.Now()
	for {
		high, err := s.echo.Read()
		if err != nil {
			return 0, fmt.Errorf("echo read: %w", err)
		}
		if high {
			break
		}
		pulseStart = time.Now()
		if pulseStart.After(deadline) {
			return DistanceTimeout, nil
		}
	}

	pulseEnd := time.Now()
	for {
		high, err := s.echo.Read()
		if err != nil {
			return 0, fmt.Errorf("echo read: %w", err)
		}
		if !high {
			break
		}
		pulseEnd = time.Now()
		if pulseEnd.After(deadline) {
			return DistanceTimeout, nil
		}
	}

	return distanceFromPulse(pulseEnd.Sub(pulseStart)), nil
}

// distanceFromPulse converts a round-trip echo pulse into one-way
// centimeters, rounded to 2 decimals.
func distanceFromPulse(pulse time.Duration) float64 {
	return round2(pulse.Seconds() * speedOfSoundCmPerSec / 2)
}
