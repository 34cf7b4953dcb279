package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

const maxSlugAttempts = 5

type GenerateProposalUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Proposals entity.ProposalRepositoryInterface
	Templates entity.TemplateRepositoryInterface
	Research  *ResearchKeywordsUseCase
	Logger    *slog.Logger

	SiteURL          string
	ProposalTTL      time.Duration
	FallbackIndustry entity.Industry
	Now              func() time.Time
}

func NewGenerateProposalUseCase(
	leads entity.LeadRepositoryInterface,
	proposals entity.ProposalRepositoryInterface,
	templates entity.TemplateRepositoryInterface,
	research *ResearchKeywordsUseCase,
	logger *slog.Logger,
	siteURL string,
	proposalTTL time.Duration,
	fallbackIndustry entity.Industry,
) *GenerateProposalUseCase {
	return &GenerateProposalUseCase{
		Leads:            leads,
		Proposals:        proposals,
		Templates:        templates,
		Research:         research,
		Logger:           logger,
		SiteURL:          strings.TrimRight(siteURL, "/"),
		ProposalTTL:      proposalTTL,
		FallbackIndustry: fallbackIndustry,
		Now:              time.Now,
	}
}

func (uc *GenerateProposalUseCase) Execute(ctx context.Context, input GenerateProposalInput) (*GenerateProposalOutput, error) {
	if errs := validateStruct(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	lead, err := uc.Leads.FindByID(ctx, input.LeadID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("lead not found")
	}
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to load lead", err)
	}
	if lead.Status == entity.LeadStatusSigned || lead.Status == entity.LeadStatusLost {
		return nil, invalidTransition(fmt.Sprintf("cannot generate a proposal for a %s lead", lead.Status))
	}

	if input.ReuseOpen {
		open, err := uc.openProposal(ctx, lead.ID)
		if err != nil {
			return nil, err
		}
		if open != nil {
			uc.Logger.Info("lead already has an open proposal", "proposal_id", open.ID, "lead_id", lead.ID)
			return &GenerateProposalOutput{
				ProposalID:  open.ID,
				Slug:        open.Slug,
				ProposalURL: ProposalURL(uc.SiteURL, open.Slug),
				Status:      open.Status,
				Existing:    true,
			}, nil
		}
	}

	industry := lead.Industry
	if input.Industry != "" {
		industry = entity.Industry(input.Industry)
	}
	tmpl, err := uc.findTemplate(ctx, industry)
	if err != nil {
		return nil, err
	}

	now := uc.Now().UTC()
	proposal := &entity.Proposal{
		ID:               uuid.New().String(),
		LeadID:           &lead.ID,
		ClientName:       lead.Name,
		ClientEmail:      lead.Email,
		Company:          lead.Company,
		Industry:         industry,
		Tier:             lead.SelectedTier,
		Status:           entity.ProposalStatusDraft,
		MonthlyPrice:     tmpl.BaseMonthly,
		SetupFee:         tmpl.SetupFee,
		ExecutiveSummary: tmpl.ExecutiveSummary,
		Deliverables:     append([]string(nil), tmpl.Deliverables...),
		TargetKeywords:   append([]string(nil), tmpl.TargetKeywords...),
		ExpiresAt:        now.Add(uc.ProposalTTL),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	leadTarget := entity.LeadStatusProposalCreated
	if input.SendEmail {
		proposal.Status = entity.ProposalStatusSent
		proposal.SentAt = &now
		leadTarget = entity.LeadStatusProposalSent
	}

	txn := NewTransaction(uc.Logger)
	txn.AddOperation("create_proposal", func(ctx context.Context) error {
		return uc.createWithUniqueSlug(ctx, proposal)
	})
	txn.AddCompensation("delete_proposal", func(ctx context.Context) error {
		return uc.Proposals.Delete(ctx, proposal.ID)
	})
	if lead.Status.CanAdvanceTo(leadTarget) {
		from := lead.Status
		txn.AddOperation("advance_lead", func(ctx context.Context) error {
			return uc.Leads.UpdateStatus(ctx, lead.ID, from, leadTarget)
		})
	}
	if err := txn.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrStaleTransition) {
			return nil, invalidTransition("lead changed state, reload and retry")
		}
		return nil, technical("DATABASE_ERROR", "failed to create proposal", err)
	}

	uc.Logger.Info("proposal generated",
		"proposal_id", proposal.ID, "lead_id", lead.ID, "industry", industry, "status", proposal.Status)

	if input.ResearchKeywords && uc.Research != nil {
		city := input.City
		if city == "" {
			city = lead.City
		}
		if _, err := uc.Research.Execute(ctx, ResearchKeywordsInput{
			ProposalID: proposal.ID,
			City:       city,
			Industry:   string(industry),
			Service:    lead.Service,
		}); err != nil {
			uc.Logger.Warn("keyword research failed after proposal generation",
				"proposal_id", proposal.ID, "error", err)
		}
	}

	return &GenerateProposalOutput{
		ProposalID:  proposal.ID,
		Slug:        proposal.Slug,
		ProposalURL: ProposalURL(uc.SiteURL, proposal.Slug),
		Status:      proposal.Status,
	}, nil
}

// openProposal returns the lead's latest proposal when it is still pre-signed
// and unexpired, or nil.
func (uc *GenerateProposalUseCase) openProposal(ctx context.Context, leadID string) (*entity.Proposal, error) {
	p, err := uc.Proposals.FindLatestByLeadID(ctx, leadID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to load proposals", err)
	}
	if !p.Status.PreSigned() || !p.ExpiresAt.After(uc.Now()) {
		return nil, nil
	}
	return p, nil
}

func (uc *GenerateProposalUseCase) findTemplate(ctx context.Context, industry entity.Industry) (*entity.IndustryTemplate, error) {
	tmpl, err := uc.Templates.FindActiveByIndustry(ctx, industry)
	if err == nil {
		return tmpl, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return nil, technical("DATABASE_ERROR", "failed to load industry template", err)
	}
	if uc.FallbackIndustry == "" || uc.FallbackIndustry == industry {
		return nil, notFound(fmt.Sprintf("no active template for industry %q", industry))
	}

	uc.Logger.Warn("no active template, using fallback industry",
		"industry", industry, "fallback", uc.FallbackIndustry)
	tmpl, err = uc.Templates.FindActiveByIndustry(ctx, uc.FallbackIndustry)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound(fmt.Sprintf("no active template for industry %q", industry))
	}
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to load industry template", err)
	}
	return tmpl, nil
}

func (uc *GenerateProposalUseCase) createWithUniqueSlug(ctx context.Context, p *entity.Proposal) error {
	name := p.Company
	if name == "" {
		name = p.ClientName
	}
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		slug, err := newSlug(name)
		if err != nil {
			return err
		}
		p.Slug = slug

		var intents []*entity.NotificationIntent
		if p.Status == entity.ProposalStatusSent {
			intent, err := entity.ProposalSentIntent(p)
			if err != nil {
				return err
			}
			intents = append(intents, intent)
		}

		err = uc.Proposals.Create(ctx, p, intents...)
		if errors.Is(err, entity.ErrSlugTaken) {
			uc.Logger.Debug("slug collision, regenerating", "slug", slug, "attempt", attempt)
			continue
		}
		return err
	}
	return fmt.Errorf("no unique slug after %d attempts: %w", maxSlugAttempts, entity.ErrSlugTaken)
}

func ProposalURL(siteURL, slug string) string {
	return siteURL + "/proposal/" + slug
}
