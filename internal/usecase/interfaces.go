package usecase

import (
	"context"
	"time"

	"github.com/northpeak-digital/agency-api/internal/infra/integration/stripebilling"
	"github.com/northpeak-digital/agency-api/internal/keywords"
)

type AdminDirectory interface {
	IsAdmin(email string) bool
}

type SessionIssuer interface {
	Issue(email string) (token string, expiresAt time.Time, err error)
	Revoke(ctx context.Context, token string) error
}

type CodeMailer interface {
	SendAdminCode(ctx context.Context, to, code string, ttl time.Duration) error
}

type KeywordProvider interface {
	SearchVolume(ctx context.Context, keywords []string) ([]keywords.Metric, error)
}

type BillingGateway interface {
	CreateSubscription(ctx context.Context, input stripebilling.SubscriptionInput) (*stripebilling.SubscriptionResult, error)
}

type SignatureArchive interface {
	StoreSignature(ctx context.Context, signedProposalID, dataURL string) (string, error)
}
