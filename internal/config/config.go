// v2
// config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DHTModel selects the temperature/humidity sensor variant.
type DHTModel string

const (
	DHT22 DHTModel = "DHT22"
	DHT11 DHTModel = "DHT11"
)

// UplinkKind selects how assembled reports leave the device.
type UplinkKind string

const (
	UplinkHTTP  UplinkKind = "http"
	UplinkMQTT  UplinkKind = "mqtt"
	UplinkKafka UplinkKind = "kafka"
)

// DHTConfig describes the temperature/humidity sensor wiring.
type DHTConfig struct {
	Enabled bool
	Pin     string // e.g. "GPIO4"
	Model   DHTModel
}

// LightConfig describes the analog light sensor wiring (MCP3008).
type LightConfig struct {
	Enabled bool
	SPIPort string // e.g. "SPI0.0"
	Channel int    // MCP3008 channel 0..7
}

// MotionConfig describes the PIR motion sensor wiring.
type MotionConfig struct {
	Enabled bool
	Pin     string
}

// DistanceConfig describes the ultrasonic distance sensor wiring.
type DistanceConfig struct {
	Enabled    bool
	TriggerPin string
	EchoPin    string
}

// Config captures all runtime settings required by the sensor node.
// Values can be provided by environment variables, a properties file, or
// fall back to sensible defaults so the node can boot with minimal setup.
type Config struct {
	// Device identity
	DeviceID        string
	DeviceName      string
	DeviceLocation  string
	FirmwareVersion string

	// Behavior
	Armed             bool
	Debug             bool
	SampleInterval    time.Duration // sensor read cadence
	HeartbeatInterval time.Duration // liveness cadence

	// Uplink
	Uplink    UplinkKind
	ServerURL string
	APIKey    string

	MQTTBroker      string
	MQTTTopicPrefix string

	KafkaBrokers        []string
	KafkaReadingTopic   string
	KafkaHeartbeatTopic string

	// Local surface
	ListenAddr  string
	LogFilePath string

	// Sensors
	DHT      DHTConfig
	Light    LightConfig
	Motion   MotionConfig
	Distance DistanceConfig

	// PropertiesPath records the path used to load property values.
	PropertiesPath string
}

const (
	defaultDeviceID        = "sensornode-001"
	defaultDeviceName      = "Sensor Node"
	defaultFirmware        = "2.1.0"
	defaultSampleInterval  = 1000 * time.Millisecond
	defaultHeartbeat       = 300 * time.Second
	defaultUplink          = UplinkHTTP
	defaultServerURL       = "http://localhost:8080"
	defaultMQTTBroker      = "tcp://localhost:1883"
	defaultMQTTTopicPrefix = "sensors"
	defaultKafkaBrokers    = "kafka:9092"
	defaultReadingTopic    = "device.readings"
	defaultHeartbeatTopic  = "device.heartbeats"
	defaultListenAddr      = ":8090"
	defaultLogFile         = "logs/sensornode.log"
	defaultPropsPath       = "sensornode.properties"
	defaultSPIPort         = "SPI0.0"
)

// Load resolves configuration by layering defaults, an optional properties
// file, and finally environment variables. The properties file location can
// be overridden with SENSORNODE_PROPERTIES_PATH.
func Load() (Config, error) {
	cfg := Config{
		DeviceID:            defaultDeviceID,
		DeviceName:          defaultDeviceName,
		FirmwareVersion:     defaultFirmware,
		Armed:               true,
		SampleInterval:      defaultSampleInterval,
		HeartbeatInterval:   defaultHeartbeat,
		Uplink:              defaultUplink,
		ServerURL:           defaultServerURL,
		MQTTBroker:          defaultMQTTBroker,
		MQTTTopicPrefix:     defaultMQTTTopicPrefix,
		KafkaBrokers:        splitAndTrim(defaultKafkaBrokers),
		KafkaReadingTopic:   defaultReadingTopic,
		KafkaHeartbeatTopic: defaultHeartbeatTopic,
		ListenAddr:          defaultListenAddr,
		LogFilePath:         defaultLogFile,
		DHT:                 DHTConfig{Model: DHT22},
		Light:               LightConfig{SPIPort: defaultSPIPort},
	}

	propsPath := strings.TrimSpace(os.Getenv("SENSORNODE_PROPERTIES_PATH"))
	if propsPath == "" {
		propsPath = defaultPropsPath
	}
	cfg.PropertiesPath = propsPath

	if _, err := os.Stat(propsPath); err == nil {
		props, err := loadProps(propsPath)
		if err != nil {
			return cfg, err
		}
		cfg.applyProps(props)
	}
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyProps(m map[string]string) {
	gets(m, "device.id", &c.DeviceID)
	gets(m, "device.name", &c.DeviceName)
	gets(m, "device.location", &c.DeviceLocation)
	gets(m, "firmware.version", &c.FirmwareVersion)

	getb(m, "device.armed", &c.Armed)
	getb(m, "debug", &c.Debug)
	getms(m, "sensor.read.interval.ms", &c.SampleInterval)
	getsec(m, "heartbeat.interval.sec", &c.HeartbeatInterval)

	if v, ok := m["uplink"]; ok {
		c.Uplink = UplinkKind(strings.ToLower(strings.TrimSpace(v)))
	}
	gets(m, "server.url", &c.ServerURL)
	gets(m, "server.api.key", &c.APIKey)

	gets(m, "mqtt.broker", &c.MQTTBroker)
	gets(m, "mqtt.topic.prefix", &c.MQTTTopicPrefix)

	if v, ok := m["kafka.brokers"]; ok {
		c.KafkaBrokers = splitAndTrim(v)
	}
	gets(m, "kafka.topic.readings", &c.KafkaReadingTopic)
	gets(m, "kafka.topic.heartbeats", &c.KafkaHeartbeatTopic)

	gets(m, "listen.addr", &c.ListenAddr)
	gets(m, "log.path", &c.LogFilePath)

	getb(m, "sensor.dht.enabled", &c.DHT.Enabled)
	gets(m, "sensor.dht.pin", &c.DHT.Pin)
	if v, ok := m["sensor.dht.type"]; ok && strings.EqualFold(strings.TrimSpace(v), string(DHT11)) {
		c.DHT.Model = DHT11
	}

	getb(m, "sensor.light.enabled", &c.Light.Enabled)
	gets(m, "sensor.light.spi", &c.Light.SPIPort)
	geti(m, "sensor.light.channel", &c.Light.Channel)

	getb(m, "sensor.motion.enabled", &c.Motion.Enabled)
	gets(m, "sensor.motion.pin", &c.Motion.Pin)

	getb(m, "sensor.distance.enabled", &c.Distance.Enabled)
	gets(m, "sensor.distance.trigger.pin", &c.Distance.TriggerPin)
	gets(m, "sensor.distance.echo.pin", &c.Distance.EchoPin)
}

func (c *Config) applyEnv() {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || !strings.HasPrefix(parts[0], "SENSORNODE_") {
			continue
		}
		// SENSORNODE_DEVICE_ID -> device.id
		key := strings.ToLower(strings.TrimPrefix(parts[0], "SENSORNODE_"))
		key = strings.ReplaceAll(key, "_", ".")
		env[key] = parts[1]
	}
	if len(env) > 0 {
		c.applyProps(env)
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DeviceID) == "" {
		return fmt.Errorf("device.id cannot be empty")
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("sensor.read.interval.ms must be positive, got %s", c.SampleInterval)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat.interval.sec must be positive, got %s", c.HeartbeatInterval)
	}
	switch c.Uplink {
	case UplinkHTTP, UplinkMQTT, UplinkKafka:
	default:
		return fmt.Errorf("unknown uplink kind %q", c.Uplink)
	}
	if c.Uplink == UplinkHTTP && strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("server.url cannot be empty for http uplink")
	}
	if c.Light.Enabled && (c.Light.Channel < 0 || c.Light.Channel > 7) {
		return fmt.Errorf("sensor.light.channel must be in 0..7, got %d", c.Light.Channel)
	}
	return nil
}

func loadProps(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load properties file: %w", err)
	}
	lines := strings.Split(string(b), "\n")
	m := map[string]string{}
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") || strings.HasPrefix(ln, "//") {
			continue
		}
		kv := strings.SplitN(ln, "=", 2)
		if len(kv) != 2 {
			continue
		}
		m[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return m, nil
}

func gets(m map[string]string, key string, dst *string) {
	if v, ok := m[key]; ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func geti(m map[string]string, key string, dst *int) {
	if v, ok := m[key]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func getb(m map[string]string, key string, dst *bool) {
	if v, ok := m[key]; ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}

func getms(m map[string]string, key string, dst *time.Duration) {
	if v, ok := m[key]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			*dst = time.Duration(n) * time.Millisecond
		}
	}
}

func getsec(m map[string]string, key string, dst *time.Duration) {
	if v, ok := m[key]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			*dst = time.Duration(n) * time.Second
		}
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
