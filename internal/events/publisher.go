package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Event types emitted by the services.
const (
	BookingCreated = "booking.created"
	ContactCreated = "contact.created"
	MenuCreated    = "menu.created"
	MenuUpdated    = "menu.updated"
	MenuDeleted    = "menu.deleted"
)

// Event is the JSON envelope written to the topic.
type Event struct {
	Type       string      `json:"type"`
	ID         string      `json:"id"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data,omitempty"`
}

// Publisher emits domain events. Publishing never fails the caller's
// operation; implementations report delivery problems through logging.
type Publisher interface {
	Publish(ctx context.Context, eventType, id string, data interface{})
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, interface{}) {}

func (NopPublisher) Close() error { return nil }

// messageWriter is the subset of *kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single Kafka topic keyed by record id.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates an asynchronous writer for topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warn().Err(err).Int("messages", len(messages)).Str("topic", topic).Msg("event delivery failed")
			}
		},
	}
	return &KafkaPublisher{writer: w}
}

// New returns a Kafka publisher when brokers are configured, otherwise a no-op.
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}

// Publish encodes and enqueues the event.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, id string, data interface{}) {
	msg, err := encode(eventType, id, data)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("event", eventType).Msg("event encoding failed")
		return
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("event", eventType).Str("id", id).Msg("event publish failed")
	}
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encode(eventType, id string, data interface{}) (kafka.Message, error) {
	payload, err := json.Marshal(Event{
		Type:       eventType,
		ID:         id,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(id),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(eventType)},
		},
	}, nil
}
