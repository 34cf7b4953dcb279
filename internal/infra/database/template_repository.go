package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

type TemplateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

const templateColumns = `id, industry, display_name, base_monthly, setup_fee, executive_summary,
	target_keywords, deliverables, is_active, updated_at`

// FindActiveByIndustry returns the most recently edited active template.
func (r *TemplateRepository) FindActiveByIndustry(ctx context.Context, industry entity.Industry) (*entity.IndustryTemplate, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+templateColumns+` FROM industry_templates
		WHERE industry = $1 AND is_active
		ORDER BY updated_at DESC
		LIMIT 1
	`, industry)
	t, err := scanTemplate(row)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *TemplateRepository) List(ctx context.Context) ([]*entity.IndustryTemplate, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+templateColumns+` FROM industry_templates ORDER BY industry, display_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []*entity.IndustryTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) SaveBatch(ctx context.Context, items []*entity.IndustryTemplate, deletedIDs []string) error {
	query := `
		INSERT INTO industry_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			industry = EXCLUDED.industry,
			display_name = EXCLUDED.display_name,
			base_monthly = EXCLUDED.base_monthly,
			setup_fee = EXCLUDED.setup_fee,
			executive_summary = EXCLUDED.executive_summary,
			target_keywords = EXCLUDED.target_keywords,
			deliverables = EXCLUDED.deliverables,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`

	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, t := range items {
			_, err := tx.ExecContext(ctx, query,
				t.ID,
				t.Industry,
				t.DisplayName,
				t.BaseMonthly,
				t.SetupFee,
				t.ExecutiveSummary,
				pq.Array(nonNil(t.TargetKeywords)),
				pq.Array(nonNil(t.Deliverables)),
				t.IsActive,
				t.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("upsert template %s: %w", t.ID, err)
			}
		}
		if len(deletedIDs) > 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM industry_templates WHERE id::text = ANY($1)`, pq.Array(deletedIDs)); err != nil {
				return fmt.Errorf("delete templates: %w", err)
			}
		}
		return nil
	})
}

func scanTemplate(s scanner) (*entity.IndustryTemplate, error) {
	var t entity.IndustryTemplate
	err := s.Scan(
		&t.ID,
		&t.Industry,
		&t.DisplayName,
		&t.BaseMonthly,
		&t.SetupFee,
		&t.ExecutiveSummary,
		pq.Array(&t.TargetKeywords),
		pq.Array(&t.Deliverables),
		&t.IsActive,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
