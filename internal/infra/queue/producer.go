package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

// AttemptsHeader counts failed deliveries of a message.
const AttemptsHeader = "x-attempts"

type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type QueueProducerInterface interface {
	PublishNotification(ctx context.Context, intent *entity.NotificationIntent) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishNotification(ctx context.Context, intent *entity.NotificationIntent) error {
	body, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		notificationMessage(intent, body, 0),
	)
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func notificationMessage(intent *entity.NotificationIntent, body []byte, attempts int32) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    intent.ID,
		Type:         string(intent.Kind),
		Headers:      amqp.Table{AttemptsHeader: attempts},
		Body:         body,
	}
}
