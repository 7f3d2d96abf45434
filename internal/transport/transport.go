// v0
// transport.go
package transport

import (
	"context"
	"time"
)

// Endpoint names the collector surface a payload is bound for.
type Endpoint string

const (
	EndpointSensorData Endpoint = "sensor-data"
	EndpointHeartbeat  Endpoint = "heartbeat"
)

// sendTimeout bounds every uplink call so a dead network never stalls the
// scheduler's tick loop.
const sendTimeout = 10 * time.Second

// Sender delivers one assembled payload. Best effort: a failed send is the
// caller's to log and drop, never to retry.
type Sender interface {
	Send(ctx context.Context, endpoint Endpoint, payload any) error
	Close() error
}
