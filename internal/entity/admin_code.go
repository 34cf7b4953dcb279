package entity

import (
	"context"
	"time"
)

// AdminCode is the one-time login code issued to an admin email.
// Only the bcrypt hash of the code is stored.
type AdminCode struct {
	Email     string
	CodeHash  string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

func (c *AdminCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

type AdminCodeRepositoryInterface interface {
	Upsert(ctx context.Context, code *AdminCode) error
	FindUnused(ctx context.Context, email string) (*AdminCode, error)
	// MarkUsed flips used=false to true and reports whether this call did it.
	MarkUsed(ctx context.Context, email string) (bool, error)
}
