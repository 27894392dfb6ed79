package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/muradsh/artmarket/config"
)

// messageReader is the slice of kafka.Reader the consume loop needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader messageReader
	logger *zap.Logger
}

func NewConsumer(cfg config.KafkaConfig, topic string, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	heartbeat := time.Duration(cfg.HeartbeatSeconds) * time.Second
	if heartbeat == 0 {
		heartbeat = 3 * time.Second
	}
	session := time.Duration(cfg.SessionTimeoutSeconds) * time.Second
	if session == 0 {
		session = 30 * time.Second
	}

	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           cfg.Brokers,
			GroupID:           cfg.GroupID,
			Topic:             topic,
			HeartbeatInterval: heartbeat,
			SessionTimeout:    session,
		}),
		logger: logger,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume fetches messages until ctx is canceled or the reader fails. A
// handler error is logged and the offset committed anyway, so one bad
// payload cannot wedge the consumer group.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			c.logger.Warn("handle message",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}
