// v0
// motion.go
package sensors

import (
	"fmt"
	"time"
)

const (
	// StateDetected is reported while the PIR output is high.
	StateDetected = "detected"
	// StateClear is reported while the PIR output is low.
	StateClear = "clear"
)

type motionSensor struct {
	name string
	pin  DigitalPin
}

func newMotionSensor(name string, pin DigitalPin) *motionSensor {
	return &motionSensor{name: name, pin: pin}
}

func (s *motionSensor) Descriptor() Descriptor {
	return Descriptor{Kind: KindMotion, Name: s.name}
}

func (s *motionSensor) Acquire(now time.Time) (Reading, error) {
	high, err := s.pin.Read()
	if err != nil {
		return Reading{}, fmt.Errorf("motion pin read: %w", err)
	}
	value, state := 0.0, StateClear
	if high {
		value, state = 1.0, StateDetected
	}
	return Reading{
		SensorType: KindMotion,
		SensorName: s.name,
		Timestamp:  now.UnixMilli(),
		Value:      ptr(value),
		State:      state,
	}, nil
}

func (s *motionSensor) Close() error { return nil }
