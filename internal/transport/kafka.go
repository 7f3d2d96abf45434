// v1
// kafka.go
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaSender writes payloads straight to broker topics, keyed by device so
// one device's stream stays on one partition.
type KafkaSender struct {
	readings   *kafka.Writer
	heartbeats *kafka.Writer
	deviceID   string
	log        *slog.Logger
}

// NewKafkaSender builds writers for the reading and heartbeat topics.
func NewKafkaSender(brokers []string, readingTopic, heartbeatTopic, deviceID string, log *slog.Logger) *KafkaSender {
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			WriteTimeout: sendTimeout,
		}
	}
	return &KafkaSender{
		readings:   newWriter(readingTopic),
		heartbeats: newWriter(heartbeatTopic),
		deviceID:   deviceID,
		log:        log,
	}
}

func (s *KafkaSender) Send(ctx context.Context, endpoint Endpoint, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", endpoint, err)
	}
	w := s.readings
	if endpoint == EndpointHeartbeat {
		w = s.heartbeats
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	err = w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(s.deviceID),
		Value: b,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("kafka write %s: %w", w.Topic, err)
	}
	return nil
}

func (s *KafkaSender) Close() error {
	rErr := s.readings.Close()
	hErr := s.heartbeats.Close()
	if rErr != nil {
		return rErr
	}
	return hErr
}
