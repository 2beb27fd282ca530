package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"hoodsync/internal/config"
	"hoodsync/internal/logger"
	"hoodsync/internal/worker/processors"
)

// MessageReader is the part of *kafka.Reader the worker uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Worker struct {
	logger    *logger.Logger
	reader    MessageReader
	processor *processors.EventProcessor
	backoff   time.Duration
}

func New(cfg *config.Config, logger *logger.Logger, runner processors.Runner) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  strings.Split(cfg.KafkaBrokers, ","),
		GroupID:  "hoodsync-worker",
		Topic:    cfg.KafkaRequestTopic,
		MinBytes: 1,
		MaxBytes: 1e6, // 1MB
	})

	return NewWithReader(reader, processors.NewEventProcessor(runner, logger), logger)
}

func NewWithReader(reader MessageReader, processor *processors.EventProcessor, logger *logger.Logger) *Worker {
	return &Worker{
		logger:    logger,
		reader:    reader,
		processor: processor,
		backoff:   time.Second,
	}
}

// Start consumes sync requests until ctx is cancelled. A message is
// committed once its run has finished, whether the run succeeded or not.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started, listening for sync requests...")

	for {
		message, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.backoff):
			}
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		var event Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
		} else if err := w.processor.Process(ctx, event.Type, event.RequestedBy); err != nil {
			w.logger.Error("Failed to process event: %v", err)
		}

		if err := w.reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
			w.logger.Error("Failed to commit message: %v", err)
		}
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	if err := w.reader.Close(); err != nil {
		w.logger.Warn("Failed to close reader: %v", err)
	}
}

// Event is a sync request read from the request topic.
type Event struct {
	Type        string    `json:"type"`
	RequestedBy string    `json:"requested_by"`
	Timestamp   time.Time `json:"timestamp"`
}
