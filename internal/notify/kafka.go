package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ambassador_engine/internal/model"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers      []string          `mapstructure:"brokers"`
	TopicByEvent map[string]string `mapstructure:"topics"`
}

// KafkaPublisher writes each event to the topic mapped for its type, or to a
// topic named after the type. Messages are keyed by participant so one
// participant's events stay ordered.
type KafkaPublisher struct {
	writer       messageWriter
	topicByEvent map[string]string
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
		},
		topicByEvent: cfg.TopicByEvent,
	}, nil
}

func (p *KafkaPublisher) topic(eventType model.EventType) string {
	if mapped, ok := p.topicByEvent[string(eventType)]; ok && mapped != "" {
		return mapped
	}
	return string(eventType)
}

func (p *KafkaPublisher) Notify(ctx context.Context, event model.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic(event.Type),
		Key:   []byte(strconv.FormatInt(event.ParticipantID, 10)),
		Value: payload,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
