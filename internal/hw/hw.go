// v1
// hw.go
package hw

import (
	"fmt"
	"strings"

	dht "github.com/MichaelS11/go-dht"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/sensity-app/SensityDashboard/internal/sensors"
)

// Platform hands out periph.io-backed hardware resources. One Platform is
// created at startup after Init; the registry build is its only caller.
type Platform struct{}

// Init loads the periph host drivers. Must be called once before any pin or
// bus is opened.
func Init() (*Platform, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	return &Platform{}, nil
}

// InputPin opens a GPIO line configured as an input with pull-down, the
// wiring both the PIR output and the HC-SR04 echo line expect.
func (p *Platform) InputPin(name string) (sensors.DigitalPin, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("no GPIO pin named %q", name)
	}
	if err := pin.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure %q as input: %w", name, err)
	}
	return &periphPin{pin: pin}, nil
}

// OutputPin opens a GPIO line configured as an output, driven low.
func (p *Platform) OutputPin(name string) (sensors.DigitalPin, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("no GPIO pin named %q", name)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("configure %q as output: %w", name, err)
	}
	return &periphPin{pin: pin}, nil
}

// Analog opens the MCP3008 ADC on the given SPI port.
func (p *Platform) Analog(spiPort string) (sensors.AnalogReader, error) {
	return openMCP3008(spiPort)
}

// TempHumidity opens the DHT sensor library on the given pin. The library
// owns the retrying read primitive. The model selects the frame decoding:
// DHT11 packs whole degrees per byte while DHT22 sends 16-bit tenths, so
// passing the wrong type garbles every reading.
func (p *Platform) TempHumidity(pin string, model string) (sensors.TempHumidityReader, error) {
	d, err := dht.NewDHT(pin, dht.Celsius, dhtSensorType(model))
	if err != nil {
		return nil, fmt.Errorf("dht %s on %q: %w", model, pin, err)
	}
	return d, nil
}

// dhtSensorType maps the configured model to the library's sensorType
// argument. The library treats anything other than "dht11" as DHT22/AM2302.
func dhtSensorType(model string) string {
	if strings.EqualFold(model, "DHT11") {
		return "dht11"
	}
	return ""
}

// Unavailable returns a Hardware whose every open fails with the given
// initialization error. It lets the node come up sensorless and keep
// heartbeating when the GPIO host cannot be initialized at all.
func Unavailable(err error) sensors.Hardware {
	return unavailableHardware{err: err}
}

type unavailableHardware struct{ err error }

func (u unavailableHardware) InputPin(string) (sensors.DigitalPin, error)  { return nil, u.err }
func (u unavailableHardware) OutputPin(string) (sensors.DigitalPin, error) { return nil, u.err }
func (u unavailableHardware) Analog(string) (sensors.AnalogReader, error)  { return nil, u.err }
func (u unavailableHardware) TempHumidity(string, string) (sensors.TempHumidityReader, error) {
	return nil, u.err
}

type periphPin struct {
	pin gpio.PinIO
}

func (p *periphPin) Read() (bool, error) {
	return p.pin.Read() == gpio.High, nil
}

func (p *periphPin) Write(high bool) error {
	return p.pin.Out(gpio.Level(high))
}
