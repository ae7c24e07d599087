package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/yanqian/skyplan/internal/domain/recommend"
)

// Envelope is the message body published for every refreshed observer.
type Envelope struct {
	ObserverID  string             `json:"observerId"`
	PublishedAt time.Time          `json:"publishedAt"`
	Response    recommend.Response `json:"recommendations"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes refreshed recommendations to a Kafka topic keyed by
// observer id, so every observer's updates stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaPublisher creates a synchronous producer for topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
		now: time.Now,
	}
}

// Publish implements recommend.Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, observerID string, resp recommend.Response) error {
	value, err := json.Marshal(Envelope{ObserverID: observerID, PublishedAt: p.now().UTC(), Response: resp})
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(observerID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "recommender", Value: []byte(resp.Recommender)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// Close closes the producer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ recommend.Publisher = (*KafkaPublisher)(nil)
