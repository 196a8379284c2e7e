package event

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/cv-studio/internal/application/service"
	"github.com/khoahotran/cv-studio/internal/config"
	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

const TopicShareViewed = "share.viewed"

// messageWriter is the part of *kafka.Writer the producer needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ service.ViewRecorder = (*KafkaProducerClient)(nil)

type KafkaProducerClient struct {
	ViewEventsWriter messageWriter
	logger           logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	viewWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicShareViewed,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		ViewEventsWriter: viewWriter,
		logger:           log,
	}, nil
}

// RecordView publishes a share.viewed event. The worker applies the count.
func (c *KafkaProducerClient) RecordView(ctx context.Context, link *share.Link) error {
	msg, err := NewShareViewedMessage(link, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := c.ViewEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicShareViewed, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ViewEventsWriter != nil {
		if err := c.ViewEventsWriter.Close(); err != nil {
			c.logger.Error("Failed to close Kafka writer", err)
		}
	}
	c.logger.Info("Closed Kafka Producers")
}
