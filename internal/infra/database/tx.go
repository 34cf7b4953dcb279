package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

const uniqueViolation = "23505"

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// insertIntents writes outbox rows inside the caller's transaction.
func insertIntents(ctx context.Context, tx *sql.Tx, intents []*entity.NotificationIntent) error {
	const query = `
		INSERT INTO notification_outbox (id, kind, payload, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, 0, $5)
	`
	for _, n := range intents {
		if n == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx, query, n.ID, n.Kind, []byte(n.Payload), n.Status, n.CreatedAt); err != nil {
			return fmt.Errorf("insert outbox %s: %w", n.Kind, err)
		}
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}
	return err
}

// expectOne turns a zero-row conditional update into ErrStaleTransition.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrStaleTransition
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNull(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}

// jsonValue marshals v for a JSONB column, mapping nil to NULL.
func jsonValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
