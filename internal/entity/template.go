package entity

import (
	"context"
	"time"
)

// IndustryTemplate seeds pricing and content for new proposals in one industry.
type IndustryTemplate struct {
	ID               string    `json:"id"`
	Industry         Industry  `json:"industry"`
	DisplayName      string    `json:"display_name"`
	BaseMonthly      int64     `json:"base_monthly"`
	SetupFee         int64     `json:"setup_fee"`
	ExecutiveSummary string    `json:"executive_summary"`
	TargetKeywords   []string  `json:"target_keywords"`
	Deliverables     []string  `json:"deliverables"`
	IsActive         bool      `json:"is_active"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type TemplateRepositoryInterface interface {
	FindActiveByIndustry(ctx context.Context, industry Industry) (*IndustryTemplate, error)
	List(ctx context.Context) ([]*IndustryTemplate, error)
	// SaveBatch upserts items and deletes deletedIDs in a single transaction.
	SaveBatch(ctx context.Context, items []*IndustryTemplate, deletedIDs []string) error
}
