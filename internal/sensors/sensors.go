// v1
// sensors.go
package sensors

import (
	"math"
	"time"
)

// Kind identifies a sensor family. The strings match the wire format the
// collector expects in sensor-data payloads.
type Kind string

const (
	KindTemperatureHumidity Kind = "temperature_humidity"
	KindLight               Kind = "light"
	KindMotion              Kind = "motion"
	KindDistance            Kind = "distance"
)

// Reading is one acquisition result. Only the fields relevant to the
// producing kind are populated; everything else stays omitted on the wire.
type Reading struct {
	SensorType Kind   `json:"sensor_type"`
	SensorName string `json:"sensor_name"`
	Timestamp  int64  `json:"timestamp"` // milliseconds since epoch

	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`

	Value      *float64 `json:"value,omitempty"`
	Voltage    *float64 `json:"voltage,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`

	State string `json:"state,omitempty"`
	Unit  string `json:"unit,omitempty"`
}

// Descriptor is the immutable identity of one configured sensor.
type Descriptor struct {
	Kind Kind
	Name string
}

// Sensor is one live, successfully-initialized sensor handle.
type Sensor interface {
	Descriptor() Descriptor
	// Acquire reads the physical sensor once. The returned Reading is
	// stamped with now. Errors mean the reading is omitted from the batch.
	Acquire(now time.Time) (Reading, error)
	Close() error
}

// DigitalPin is a single GPIO line.
type DigitalPin interface {
	Read() (bool, error)
	Write(high bool) error
}

// AnalogReader reads one ADC channel, scaled to 16-bit full range (0..65535).
type AnalogReader interface {
	ReadChannel(channel int) (uint16, error)
	Close() error
}

// TempHumidityReader is the external sensor library's retrying read
// primitive. It returns no value at all when every retry fails.
type TempHumidityReader interface {
	ReadRetry(retries int) (humidity, temperature float64, err error)
}

// Hardware hands out physical resources during registry construction.
// Implementations own bus/pin setup; acquisition failures are per-resource.
type Hardware interface {
	InputPin(name string) (DigitalPin, error)
	OutputPin(name string) (DigitalPin, error)
	Analog(spiPort string) (AnalogReader, error)
	TempHumidity(pin string, model string) (TempHumidityReader, error)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

func ptr(v float64) *float64 { return &v }
