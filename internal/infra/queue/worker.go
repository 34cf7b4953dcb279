package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/northpeak-digital/agency-api/internal/entity"
	"github.com/northpeak-digital/agency-api/internal/infra/http/middleware"
)

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, intent *entity.NotificationIntent) error
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel     Consumer
	Publisher   Publisher
	Dispatcher  NotificationDispatcher
	MaxAttempts int
	Logger      *slog.Logger
}

func NewWorker(ch *amqp.Channel, dispatcher NotificationDispatcher, maxAttempts int, logger *slog.Logger) *Worker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Worker{
		Channel:     ch,
		Publisher:   ch,
		Dispatcher:  dispatcher,
		MaxAttempts: maxAttempts,
		Logger:      logger,
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.Info("notification worker started", "queue", queueName, "max_attempts", w.MaxAttempts)
	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("notification worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var intent entity.NotificationIntent
	if err := json.Unmarshal(d.Body, &intent); err != nil {
		w.Logger.Error("malformed notification", "error", err, "message_id", d.MessageId)
		middleware.RecordNotification("unknown", "malformed")
		_ = d.Nack(false, false)
		return
	}

	log := w.Logger.With("notification_id", intent.ID, "kind", intent.Kind)

	err := w.Dispatcher.Dispatch(ctx, &intent)
	if err == nil {
		middleware.RecordNotification(string(intent.Kind), "delivered")
		log.Info("notification delivered")
		_ = d.Ack(false)
		return
	}

	attempts := attemptsOf(d) + 1
	if int(attempts) >= w.MaxAttempts {
		middleware.RecordNotification(string(intent.Kind), "dead_lettered")
		log.Error("notification dead-lettered", "error", err, "attempts", attempts)
		_ = d.Nack(false, false)
		return
	}

	retry := notificationMessage(&intent, d.Body, attempts)
	if pubErr := w.Publisher.PublishWithContext(ctx, "", RetryQueueName, false, false, retry); pubErr != nil {
		// the broker puts it back on the main queue without counting the attempt
		log.Error("schedule retry failed", "error", pubErr)
		_ = d.Nack(false, true)
		return
	}

	middleware.RecordNotification(string(intent.Kind), "retried")
	log.Warn("notification failed, retry scheduled", "error", err, "attempts", attempts)
	_ = d.Ack(false)
}

func attemptsOf(d amqp.Delivery) int32 {
	switch v := d.Headers[AttemptsHeader].(type) {
	case int32:
		return v
	case int64:
		return int32(v)
	case int:
		return int32(v)
	}
	return 0
}
