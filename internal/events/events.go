// Package events publishes domain events for completed trip plans. The
// producer writes synchronously and waits for broker acknowledgement; a
// publish failure is logged but never turns a successful plan into a
// request error.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/draymaster/hos-planner-service/internal/domain"
	"github.com/draymaster/hos-planner-service/internal/logger"
)

// Event is the envelope published for every domain event.
type Event struct {
	ID            string      `json:"id"`
	Type          string      `json:"type"`
	Source        string      `json:"source"`
	Time          time.Time   `json:"time"`
	Data          interface{} `json:"data"`
	CorrelationID string      `json:"correlation_id,omitempty"`
}

// NewEvent builds an event envelope with a generated id and current time.
func NewEvent(eventType, source string, data interface{}) *Event {
	return &Event{
		ID:     uuid.New().String(),
		Type:   eventType,
		Source: source,
		Time:   time.Now().UTC(),
		Data:   data,
	}
}

// WithCorrelationID attaches the request id that produced the event.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// TripPlanned is the event type published when a trip plan completes.
const TripPlanned = "trip.planned"

// Producer publishes events to a single Kafka topic.
type Producer struct {
	writer *kafkago.Writer
	topic  string
	logger *logger.Logger
}

// NewProducer constructs a producer writing to brokers/topic.
func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
		Async:        false,
	}

	return &Producer{writer: writer, topic: topic, logger: log}
}

// Publish writes event to the producer's topic. Callers should treat a
// non-nil error as non-fatal to the request that produced the event.
func (p *Producer) Publish(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafkago.Message{
		Topic: p.topic,
		Key:   []byte(event.ID),
		Value: data,
		Time:  event.Time,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "source", Value: []byte(event.Source)},
		},
	}
	if event.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafkago.Header{
			Key: "correlation_id", Value: []byte(event.CorrelationID),
		})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Errorw("failed to publish event", "topic", p.topic, "event_type", event.Type, "error", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debugw("event published", "topic", p.topic, "event_id", event.ID, "event_type", event.Type)
	return nil
}

// Close releases the underlying Kafka writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// PublishTripPlanned publishes a trip.planned event carrying the full
// trip response, satisfying internal/trip's EventPublisher interface.
func (p *Producer) PublishTripPlanned(ctx context.Context, requestID string, response domain.TripResponse) error {
	event := NewEvent(TripPlanned, "hos-planner-service", response).WithCorrelationID(requestID)
	return p.Publish(ctx, event)
}
