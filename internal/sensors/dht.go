// v0
// dht.go
package sensors

import (
	"fmt"
	"time"
)

// readRetries matches the retry budget the sensor library recommends for
// DHT parts, which are allowed to fail individual reads.
const readRetries = 11

type dhtSensor struct {
	name   string
	reader TempHumidityReader
}

func newDHTSensor(name string, reader TempHumidityReader) *dhtSensor {
	return &dhtSensor{name: name, reader: reader}
}

func (s *dhtSensor) Descriptor() Descriptor {
	return Descriptor{Kind: KindTemperatureHumidity, Name: s.name}
}

func (s *dhtSensor) Acquire(now time.Time) (Reading, error) {
	humidity, temperature, err := s.reader.ReadRetry(readRetries)
	if err != nil {
		return Reading{}, fmt.Errorf("dht read: %w", err)
	}
	return Reading{
		SensorType:  KindTemperatureHumidity,
		SensorName:  s.name,
		Timestamp:   now.UnixMilli(),
		Temperature: ptr(round2(temperature)),
		Humidity:    ptr(round2(humidity)),
	}, nil
}

func (s *dhtSensor) Close() error { return nil }
