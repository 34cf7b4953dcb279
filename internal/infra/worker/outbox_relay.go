package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/northpeak-digital/agency-api/internal/entity"
	"github.com/northpeak-digital/agency-api/internal/infra/http/middleware"
)

type NotificationPublisher interface {
	PublishNotification(ctx context.Context, intent *entity.NotificationIntent) error
}

// OutboxRelay moves pending notification intents from the database to the queue.
type OutboxRelay struct {
	outbox       entity.OutboxRepositoryInterface
	publisher    NotificationPublisher
	logger       *slog.Logger
	batchSize    int
	tickInterval time.Duration
	now          func() time.Time
}

func NewOutboxRelay(outbox entity.OutboxRepositoryInterface, publisher NotificationPublisher, logger *slog.Logger, tick time.Duration) *OutboxRelay {
	if tick <= 0 {
		tick = 5 * time.Second
	}
	return &OutboxRelay{
		outbox:       outbox,
		publisher:    publisher,
		logger:       logger,
		batchSize:    50,
		tickInterval: tick,
		now:          time.Now,
	}
}

func (w *OutboxRelay) Start(ctx context.Context) {
	w.logger.Info("outbox relay started", "interval", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.relay(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			w.relay(ctx)
		}
	}
}

// relay publishes one batch and returns how many rows were published.
func (w *OutboxRelay) relay(ctx context.Context) int {
	intents, err := w.outbox.FetchPending(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("fetch pending notifications", "error", err)
		return 0
	}

	published := 0
	for _, intent := range intents {
		if err := w.publisher.PublishNotification(ctx, intent); err != nil {
			w.logger.Warn("publish notification", "error", err, "notification_id", intent.ID, "kind", intent.Kind)
			middleware.RecordNotification(string(intent.Kind), "publish_failed")
			if markErr := w.outbox.MarkFailed(ctx, intent.ID, err.Error()); markErr != nil {
				w.logger.Error("record publish failure", "error", markErr, "notification_id", intent.ID)
			}
			continue
		}
		if err := w.outbox.MarkPublished(ctx, intent.ID, w.now().UTC()); err != nil {
			w.logger.Error("mark notification published", "error", err, "notification_id", intent.ID)
			continue
		}
		middleware.RecordNotification(string(intent.Kind), "published")
		published++
	}

	if published > 0 {
		w.logger.Info("relayed notifications", "count", published)
	}
	return published
}
