// v1
// mqtt.go
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSender publishes payloads to a broker, one topic per endpoint:
// {prefix}/{deviceID}/{endpoint}.
type MQTTSender struct {
	client   mqtt.Client
	deviceID string
	prefix   string
	log      *slog.Logger
}

// NewMQTTSender connects to the broker. Connection failure is an
// initialization error; the node should fall over loudly at startup rather
// than pretend it has an uplink.
func NewMQTTSender(brokerAddr, topicPrefix, deviceID string, log *slog.Logger) (*MQTTSender, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerAddr).
		SetClientID(deviceID).
		SetConnectTimeout(sendTimeout)
	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(sendTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timeout", brokerAddr)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", brokerAddr, err)
	}
	log.Info("mqtt uplink connected", "broker", brokerAddr)
	return &MQTTSender{client: c, deviceID: deviceID, prefix: topicPrefix, log: log}, nil
}

// Send publishes the payload at QoS 0; delivery is best effort. The wait is
// bounded by both the send budget and the caller's context so shutdown never
// hangs on a wedged broker.
func (s *MQTTSender) Send(ctx context.Context, endpoint Endpoint, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", endpoint, err)
	}
	topic := s.prefix + "/" + s.deviceID + "/" + string(endpoint)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	return waitPublish(ctx, s.client.Publish(topic, 0, false, b), topic)
}

// publishToken is the slice of mqtt.Token the wait needs.
type publishToken interface {
	Done() <-chan struct{}
	Error() error
}

func waitPublish(ctx context.Context, token publishToken, topic string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("publish %s: %w", topic, ctx.Err())
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish %s: %w", topic, err)
		}
		return nil
	}
}

func (s *MQTTSender) Close() error {
	s.client.Disconnect(250)
	return nil
}
