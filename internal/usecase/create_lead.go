package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

type CreateLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Logger *slog.Logger
}

func NewCreateLeadUseCase(repo entity.LeadRepositoryInterface, logger *slog.Logger) *CreateLeadUseCase {
	return &CreateLeadUseCase{Repo: repo, Logger: logger}
}

// Execute stores the lead and its lead_created notification intent in one
// database transaction. Delivery happens later through the outbox.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*CreateLeadOutput, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	var tier *entity.Tier
	if input.SelectedTier != "" {
		t := entity.Tier(input.SelectedTier)
		tier = &t
	}
	lead, err := entity.NewLead(input.Name, input.Email, entity.Industry(input.Industry), entity.LeadType(input.LeadType), tier)
	if err != nil {
		return nil, validationFailed([]ValidationError{{Field: "lead", Message: err.Error()}})
	}

	if phone := strings.TrimSpace(input.Phone); phone != "" {
		// already validated above
		lead.Phone, _ = NormalizePhone(phone)
	}
	lead.Website = strings.TrimSpace(input.Website)
	lead.Company = strings.TrimSpace(input.Company)
	lead.BusinessSize = strings.TrimSpace(input.BusinessSize)
	lead.Challenge = strings.TrimSpace(input.Challenge)
	lead.Service = strings.TrimSpace(input.Service)
	lead.City = strings.TrimSpace(input.City)
	lead.Attribution = entity.Attribution{
		Source:      input.Source,
		UTMSource:   input.UTMSource,
		UTMMedium:   input.UTMMedium,
		UTMCampaign: input.UTMCampaign,
		UTMTerm:     input.UTMTerm,
		UTMContent:  input.UTMContent,
		Referrer:    input.Referrer,
		LandingPage: input.LandingPage,
	}

	intent, err := entity.LeadCreatedIntent(lead)
	if err != nil {
		return nil, technical("ENCODING_ERROR", "failed to save lead", err)
	}
	if err := uc.Repo.Create(ctx, lead, intent); err != nil {
		return nil, technical("DATABASE_ERROR", "failed to save lead", err)
	}

	uc.Logger.Info("lead captured",
		"lead_id", lead.ID, "industry", lead.Industry, "lead_type", lead.LeadType)
	return &CreateLeadOutput{Success: true, Lead: lead}, nil
}
