// v1
// light.go
package sensors

import (
	"fmt"
	"time"
)

// adcFullScale is the 16-bit range the AnalogReader scales raw counts to.
const adcFullScale = 65535

// adcReferenceVolts is the ADC supply voltage used to derive the reading's
// voltage field from the raw count.
const adcReferenceVolts = 3.3

type lightSensor struct {
	name    string
	adc     AnalogReader
	channel int
}

func newLightSensor(name string, adc AnalogReader, channel int) *lightSensor {
	return &lightSensor{name: name, adc: adc, channel: channel}
}

func (s *lightSensor) Descriptor() Descriptor {
	return Descriptor{Kind: KindLight, Name: s.name}
}

func (s *lightSensor) Acquire(now time.Time) (Reading, error) {
	raw, err := s.adc.ReadChannel(s.channel)
	if err != nil {
		return Reading{}, fmt.Errorf("adc read channel %d: %w", s.channel, err)
	}
	// Voltage and percentage are derived from the single raw count; there is
	// no second hardware read.
	voltage := round3(float64(raw) / adcFullScale * adcReferenceVolts)
	percentage := round1(float64(raw) / adcFullScale * 100)
	return Reading{
		SensorType: KindLight,
		SensorName: s.name,
		Timestamp:  now.UnixMilli(),
		Value:      ptr(float64(raw)),
		Voltage:    ptr(voltage),
		Percentage: ptr(percentage),
	}, nil
}

func (s *lightSensor) Close() error { return s.adc.Close() }
