package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

type AddonRepository struct {
	DB *sql.DB
}

func NewAddonRepository(db *sql.DB) *AddonRepository {
	return &AddonRepository{DB: db}
}

const addonColumns = `id, name, description, icon, details, original_price, price,
	highlight_label, sort_order, is_active, updated_at`

func (r *AddonRepository) List(ctx context.Context) ([]*entity.AddonSetting, error) {
	return r.query(ctx, `SELECT `+addonColumns+` FROM addon_settings ORDER BY sort_order, id`)
}

func (r *AddonRepository) ListActive(ctx context.Context) ([]*entity.AddonSetting, error) {
	return r.query(ctx, `SELECT `+addonColumns+` FROM addon_settings WHERE is_active ORDER BY sort_order, id`)
}

func (r *AddonRepository) SaveBatch(ctx context.Context, items []*entity.AddonSetting, deletedIDs []string) error {
	query := `
		INSERT INTO addon_settings (` + addonColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			icon = EXCLUDED.icon,
			details = EXCLUDED.details,
			original_price = EXCLUDED.original_price,
			price = EXCLUDED.price,
			highlight_label = EXCLUDED.highlight_label,
			sort_order = EXCLUDED.sort_order,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, a := range items {
			_, err := tx.ExecContext(ctx, query,
				a.ID,
				a.Name,
				a.Description,
				a.Icon,
				pq.Array(nonNil(a.Details)),
				a.OriginalPrice,
				a.Price,
				a.HighlightLabel,
				a.SortOrder,
				a.IsActive,
				a.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("upsert addon %s: %w", a.ID, err)
			}
		}
		if len(deletedIDs) > 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM addon_settings WHERE id = ANY($1)`, pq.Array(deletedIDs)); err != nil {
				return fmt.Errorf("delete addons: %w", err)
			}
		}
		return nil
	})
}

func (r *AddonRepository) query(ctx context.Context, query string) ([]*entity.AddonSetting, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addons := []*entity.AddonSetting{}
	for rows.Next() {
		var (
			a         entity.AddonSetting
			highlight sql.NullString
		)
		err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Description,
			&a.Icon,
			pq.Array(&a.Details),
			&a.OriginalPrice,
			&a.Price,
			&highlight,
			&a.SortOrder,
			&a.IsActive,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if highlight.Valid {
			a.HighlightLabel = &highlight.String
		}
		addons = append(addons, &a)
	}
	return addons, rows.Err()
}
