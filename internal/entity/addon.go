package entity

import (
	"context"
	"time"
)

type AddonSetting struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Icon           string    `json:"icon"`
	Details        []string  `json:"details"`
	OriginalPrice  int64     `json:"original_price"`
	Price          int64     `json:"price"`
	HighlightLabel *string   `json:"highlight_label,omitempty"`
	SortOrder      int       `json:"sort_order"`
	IsActive       bool      `json:"is_active"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Snapshot copies the priced fields so later edits never alter signed agreements.
func (a *AddonSetting) Snapshot() AddonSnapshot {
	return AddonSnapshot{
		ID:            a.ID,
		Name:          a.Name,
		Price:         a.Price,
		OriginalPrice: a.OriginalPrice,
	}
}

type AddonRepositoryInterface interface {
	List(ctx context.Context) ([]*AddonSetting, error)
	ListActive(ctx context.Context) ([]*AddonSetting, error)
	SaveBatch(ctx context.Context, items []*AddonSetting, deletedIDs []string) error
}
