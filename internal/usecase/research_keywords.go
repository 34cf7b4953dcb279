package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/northpeak-digital/agency-api/internal/entity"
	"github.com/northpeak-digital/agency-api/internal/keywords"
)

type ResearchKeywordsUseCase struct {
	Leads       entity.LeadRepositoryInterface
	Proposals   entity.ProposalRepositoryInterface
	Provider    KeywordProvider
	Logger      *slog.Logger
	DefaultCity string
	Now         func() time.Time
}

func NewResearchKeywordsUseCase(
	leads entity.LeadRepositoryInterface,
	proposals entity.ProposalRepositoryInterface,
	provider KeywordProvider,
	logger *slog.Logger,
	defaultCity string,
) *ResearchKeywordsUseCase {
	return &ResearchKeywordsUseCase{
		Leads:       leads,
		Proposals:   proposals,
		Provider:    provider,
		Logger:      logger,
		DefaultCity: defaultCity,
		Now:         time.Now,
	}
}

// Execute researches keywords and, when a proposal can be resolved, stores the
// result on it. Nothing is written unless the provider call succeeds.
func (uc *ResearchKeywordsUseCase) Execute(ctx context.Context, input ResearchKeywordsInput) (*ResearchKeywordsOutput, error) {
	if errs := validateStruct(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	proposal, lead, err := uc.resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	industry := entity.Industry(input.Industry)
	city := input.City
	service := input.Service
	if lead != nil {
		if industry == "" {
			industry = lead.Industry
		}
		if city == "" {
			city = lead.City
		}
		if service == "" {
			service = lead.Service
		}
	}
	if industry == "" && proposal != nil {
		industry = proposal.Industry
	}
	if city == "" {
		city = uc.DefaultCity
	}
	if industry == "" && len(input.Seeds) == 0 {
		return nil, validationFailed([]ValidationError{{"industry", "is required when no seeds are given"}})
	}

	seeds := keywords.BuildSeeds(industry, city, service, input.Seeds)
	if len(seeds) == 0 {
		return nil, validationFailed([]ValidationError{{"seeds", "no usable seed keywords"}})
	}

	metrics, err := uc.Provider.SearchVolume(ctx, seeds)
	if err != nil {
		return nil, technical("KEYWORD_PROVIDER_ERROR", "keyword research is unavailable", err)
	}
	results, total := keywords.Rank(metrics, city)

	data := &entity.KeywordData{
		Industry:     industry,
		City:         city,
		Service:      service,
		Seeds:        seeds,
		Keywords:     results,
		TotalVolume:  total,
		ResearchedAt: uc.Now().UTC(),
	}

	out := &ResearchKeywordsOutput{KeywordData: data}
	if proposal != nil {
		if err := uc.Proposals.SaveKeywordData(ctx, proposal.ID, data); err != nil {
			return nil, technical("DATABASE_ERROR", "failed to store keyword research", err)
		}
		out.ProposalID = proposal.ID
	}

	uc.Logger.Info("keyword research complete",
		"proposal_id", out.ProposalID, "seeds", len(seeds), "rows", len(results), "total_volume", total)
	return out, nil
}

// resolve finds the owning proposal by id, or else the lead's latest proposal.
// Neither is required.
func (uc *ResearchKeywordsUseCase) resolve(ctx context.Context, input ResearchKeywordsInput) (*entity.Proposal, *entity.Lead, error) {
	var proposal *entity.Proposal
	var lead *entity.Lead

	if input.ProposalID != "" {
		p, err := uc.Proposals.FindByID(ctx, input.ProposalID)
		if errors.Is(err, entity.ErrNotFound) {
			return nil, nil, notFound("proposal not found")
		}
		if err != nil {
			return nil, nil, technical("DATABASE_ERROR", "failed to load proposal", err)
		}
		proposal = p
	}

	leadID := input.LeadID
	if leadID == "" && proposal != nil && proposal.LeadID != nil {
		leadID = *proposal.LeadID
	}
	if leadID == "" {
		return proposal, nil, nil
	}

	l, err := uc.Leads.FindByID(ctx, leadID)
	switch {
	case errors.Is(err, entity.ErrNotFound):
		if input.LeadID != "" {
			return nil, nil, notFound("lead not found")
		}
	case err != nil:
		return nil, nil, technical("DATABASE_ERROR", "failed to load lead", err)
	default:
		lead = l
	}

	if proposal == nil && lead != nil {
		p, err := uc.Proposals.FindLatestByLeadID(ctx, lead.ID)
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			return nil, nil, technical("DATABASE_ERROR", "failed to load proposal", err)
		}
		proposal = p
	}
	return proposal, lead, nil
}
