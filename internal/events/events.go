package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"hoodsync/internal/logger"
	"hoodsync/internal/models"
)

const (
	TypeSyncStarted   = "sync.started"
	TypeItemSynced    = "item.synced"
	TypeItemSkipped   = "item.skipped"
	TypeItemFailed    = "item.failed"
	TypeSyncCompleted = "sync.completed"
)

// Event is the JSON payload written to the events topic.
type Event struct {
	Type      string            `json:"type"`
	RunID     string            `json:"run_id"`
	ArticleID string            `json:"article_id,omitempty"`
	Line      int               `json:"line,omitempty"`
	Action    string            `json:"action,omitempty"`
	Error     string            `json:"error,omitempty"`
	Stats     *models.SyncStats `json:"stats,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Publisher writes sync events to Kafka, keyed by run id so a run's events
// stay ordered within one partition.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers, topic string, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(splitBrokers(brokers)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &Publisher{writer: writer, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, event Event) error {
	msg, err := Encode(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	p.logger.Debug("Published %s event for run %s", event.Type, event.RunID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Encode turns an event into a Kafka message.
func Encode(event Event) (kafka.Message, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}
	return kafka.Message{
		Key:   []byte(event.RunID),
		Value: value,
		Time:  event.Timestamp,
	}, nil
}

// Nop discards events. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

func (Nop) Close() error { return nil }

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
