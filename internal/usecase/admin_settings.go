package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

// AdminSettingsUseCase edits add-ons and industry templates. Every row of a
// batch is validated first; the batch is then written in one transaction.
type AdminSettingsUseCase struct {
	Addons    entity.AddonRepositoryInterface
	Templates entity.TemplateRepositoryInterface
	Logger    *slog.Logger
	Now       func() time.Time
}

func NewAdminSettingsUseCase(
	addons entity.AddonRepositoryInterface,
	templates entity.TemplateRepositoryInterface,
	logger *slog.Logger,
) *AdminSettingsUseCase {
	return &AdminSettingsUseCase{Addons: addons, Templates: templates, Logger: logger, Now: time.Now}
}

func (uc *AdminSettingsUseCase) ListAddons(ctx context.Context) ([]*entity.AddonSetting, error) {
	addons, err := uc.Addons.List(ctx)
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to list add-ons", err)
	}
	return addons, nil
}

func (uc *AdminSettingsUseCase) ListActiveAddons(ctx context.Context) ([]*entity.AddonSetting, error) {
	addons, err := uc.Addons.ListActive(ctx)
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to list add-ons", err)
	}
	return addons, nil
}

func (uc *AdminSettingsUseCase) ListTemplates(ctx context.Context) ([]*entity.IndustryTemplate, error) {
	templates, err := uc.Templates.List(ctx)
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to list templates", err)
	}
	return templates, nil
}

func (uc *AdminSettingsUseCase) SaveAddons(ctx context.Context, input SaveAddonsInput) (*SaveBatchOutput, error) {
	now := uc.Now().UTC()
	results := make([]RowResult, len(input.Items))
	items := make([]*entity.AddonSetting, 0, len(input.Items))
	seen := map[string]int{}
	failed := false

	for i, in := range input.Items {
		errs := validateStruct(in)
		if prev, dup := seen[in.ID]; dup && in.ID != "" {
			errs = append(errs, ValidationError{"id", "duplicates row " + strconv.Itoa(prev)})
		}
		seen[in.ID] = i
		results[i] = RowResult{Index: i, ID: in.ID, OK: len(errs) == 0, Errors: errs}
		if len(errs) > 0 {
			failed = true
			continue
		}
		items = append(items, &entity.AddonSetting{
			ID:             in.ID,
			Name:           in.Name,
			Description:    in.Description,
			Icon:           in.Icon,
			Details:        nonNil(in.Details),
			OriginalPrice:  in.OriginalPrice,
			Price:          in.Price,
			HighlightLabel: in.HighlightLabel,
			SortOrder:      in.SortOrder,
			IsActive:       in.IsActive,
			UpdatedAt:      now,
		})
	}
	if failed {
		return &SaveBatchOutput{Results: results}, batchInvalid(results)
	}

	deleted := uniqueIDs(input.DeletedIDs)
	if err := uc.Addons.SaveBatch(ctx, items, deleted); err != nil {
		return nil, technical("DATABASE_ERROR", "failed to save add-ons", err)
	}
	uc.Logger.Info("add-ons saved", "saved", len(items), "deleted", len(deleted))
	return &SaveBatchOutput{Success: true, Saved: len(items), Deleted: len(deleted), Results: results}, nil
}

func (uc *AdminSettingsUseCase) SaveTemplates(ctx context.Context, input SaveTemplatesInput) (*SaveBatchOutput, error) {
	now := uc.Now().UTC()
	results := make([]RowResult, len(input.Items))
	items := make([]*entity.IndustryTemplate, 0, len(input.Items))
	activeByIndustry := map[string]int{}
	failed := false

	for i, in := range input.Items {
		errs := validateStruct(in)
		if in.IsActive {
			if prev, dup := activeByIndustry[in.Industry]; dup {
				errs = append(errs, ValidationError{"is_active", "industry already has an active template in row " + strconv.Itoa(prev)})
			} else {
				activeByIndustry[in.Industry] = i
			}
		}
		id := in.ID
		if id == "" {
			id = uuid.New().String()
		}
		results[i] = RowResult{Index: i, ID: id, OK: len(errs) == 0, Errors: errs}
		if len(errs) > 0 {
			failed = true
			continue
		}
		items = append(items, &entity.IndustryTemplate{
			ID:               id,
			Industry:         entity.Industry(in.Industry),
			DisplayName:      in.DisplayName,
			BaseMonthly:      in.BaseMonthly,
			SetupFee:         in.SetupFee,
			ExecutiveSummary: in.ExecutiveSummary,
			TargetKeywords:   nonNil(in.TargetKeywords),
			Deliverables:     nonNil(in.Deliverables),
			IsActive:         in.IsActive,
			UpdatedAt:        now,
		})
	}
	if failed {
		return &SaveBatchOutput{Results: results}, batchInvalid(results)
	}

	deleted := uniqueIDs(input.DeletedIDs)
	if err := uc.Templates.SaveBatch(ctx, items, deleted); err != nil {
		return nil, technical("DATABASE_ERROR", "failed to save templates", err)
	}
	uc.Logger.Info("templates saved", "saved", len(items), "deleted", len(deleted))
	return &SaveBatchOutput{Success: true, Saved: len(items), Deleted: len(deleted), Results: results}, nil
}

func batchInvalid(results []RowResult) *DomainError {
	var fields []ValidationError
	for _, r := range results {
		for _, e := range r.Errors {
			fields = append(fields, ValidationError{Field: "items[" + strconv.Itoa(r.Index) + "]." + e.Field, Message: e.Message})
		}
	}
	return validationFailed(fields)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
