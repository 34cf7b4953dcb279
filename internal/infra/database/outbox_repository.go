package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

type OutboxRepository struct {
	DB *sql.DB
}

func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{DB: db}
}

// FetchPending returns the oldest pending intents. Two relays may publish the
// same row; consumers tolerate duplicates.
func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]*entity.NotificationIntent, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, kind, payload, status, attempts, last_error, created_at, published_at
		FROM notification_outbox
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intents []*entity.NotificationIntent
	for rows.Next() {
		var (
			n         entity.NotificationIntent
			payload   []byte
			lastError sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.Kind, &payload, &n.Status, &n.Attempts, &lastError, &n.CreatedAt, &n.PublishedAt); err != nil {
			return nil, err
		}
		n.Payload = payload
		n.LastError = fromNull(lastError)
		intents = append(intents, &n)
	}
	return intents, rows.Err()
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE notification_outbox SET status = 'published', published_at = $2
		WHERE id = $1 AND status = 'pending'
	`, id, at)
	return err
}

// MarkFailed keeps the row pending for the next relay tick.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE notification_outbox SET attempts = attempts + 1, last_error = $2
		WHERE id = $1
	`, id, reason)
	return err
}

func (r *OutboxRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
