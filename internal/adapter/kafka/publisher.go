package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/pkg/logger"
)

// Publisher emits one message per finished refresh cycle, keyed by
// cycle ID so replays stay idempotent for downstream consumers.
type Publisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewPublisher(brokers []string, topic string, log *logger.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		log: log,
	}
}

func (p *Publisher) Publish(ctx context.Context, result *model.RefreshResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode refresh event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(result.CycleID.String()),
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("write refresh event: %w", err)
	}

	p.log.Debug("Published refresh event", "cycle_id", result.CycleID, "overall", result.Overall)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
