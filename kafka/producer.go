package kafka

import (
	"context"
	"encoding/json"

	"github.com/AbdelrahmanBadr7422/plot-twist-backend/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ProducerAPI is the publishing interface consumed by the order service.
type ProducerAPI interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
	return &Producer{writer: writer, topic: topic}
}

// PublishOrderEvent writes an order lifecycle event keyed by order id.
func (p *Producer) PublishOrderEvent(ctx context.Context, event models.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(event.EventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		zap.L().Warn("Failed to publish order event",
			zap.String("event_type", event.EventType),
			zap.String("order_id", event.OrderID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}
