package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/marksousa/testecomerc/internal/domain"
)

// Notifier publishes order notifications from the outbox to a Kafka topic.
// Downstream consumers (the mailer among them) read from that topic.
type Notifier struct {
	producer *Producer
	topic    string
}

// NewNotifier creates a Kafka-backed notification publisher.
func NewNotifier(producer *Producer, topic string) domain.NotificationPublisher {
	if topic == "" {
		topic = DefaultNotificationsTopic
	}
	return &Notifier{
		producer: producer,
		topic:    topic,
	}
}

func (n *Notifier) Publish(message domain.OutboxMessage) error {
	if n == nil || n.producer == nil {
		return fmt.Errorf("kafka notifier is not initialized")
	}

	key := message.AggregateID
	if key == "" {
		key = message.ID
	}

	envelope := struct {
		ID            string          `json:"id"`
		AggregateType string          `json:"aggregate_type"`
		AggregateID   string          `json:"aggregate_id"`
		EventType     string          `json:"event_type"`
		Payload       json.RawMessage `json:"payload"`
		PublishedAt   time.Time       `json:"published_at"`
	}{
		ID:            message.ID,
		AggregateType: message.AggregateType,
		AggregateID:   message.AggregateID,
		EventType:     message.EventType,
		Payload:       json.RawMessage(message.Payload),
		PublishedAt:   time.Now().UTC(),
	}

	return n.producer.PublishEvent(n.topic, key, envelope)
}

var _ domain.NotificationPublisher = (*Notifier)(nil)
