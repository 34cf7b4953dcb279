package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

// ProposalLifecycleUseCase owns the status moves that happen after generation.
type ProposalLifecycleUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Proposals entity.ProposalRepositoryInterface
	Logger    *slog.Logger
	Now       func() time.Time
}

func NewProposalLifecycleUseCase(
	leads entity.LeadRepositoryInterface,
	proposals entity.ProposalRepositoryInterface,
	logger *slog.Logger,
) *ProposalLifecycleUseCase {
	return &ProposalLifecycleUseCase{Leads: leads, Proposals: proposals, Logger: logger, Now: time.Now}
}

type MarkViewedOutput struct {
	Success   bool       `json:"success"`
	ViewedAt  *time.Time `json:"viewed_at"`
	FirstView bool       `json:"first_view"`
}

func (uc *ProposalLifecycleUseCase) GetBySlug(ctx context.Context, slug string) (*entity.Proposal, error) {
	p, err := uc.Proposals.FindBySlug(ctx, slug)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("proposal not found")
	}
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to load proposal", err)
	}
	return p, nil
}

// SendProposal moves a draft to sent, queues the prospect email and advances
// the lead. The proposal is reverted to draft if the lead update fails.
func (uc *ProposalLifecycleUseCase) SendProposal(ctx context.Context, id string) (*entity.Proposal, error) {
	p, err := uc.Proposals.FindByID(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("proposal not found")
	}
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to load proposal", err)
	}
	if !p.Status.CanTransitionTo(entity.ProposalStatusSent) {
		return nil, invalidTransition(fmt.Sprintf("cannot send a %s proposal", p.Status))
	}

	var lead *entity.Lead
	if p.LeadID != nil {
		lead, err = uc.Leads.FindByID(ctx, *p.LeadID)
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			return nil, technical("DATABASE_ERROR", "failed to load lead", err)
		}
	}

	now := uc.Now().UTC()
	p.Status = entity.ProposalStatusSent
	p.SentAt = &now
	intent, err := entity.ProposalSentIntent(p)
	if err != nil {
		return nil, technical("ENCODING_ERROR", "failed to send proposal", err)
	}

	txn := NewTransaction(uc.Logger)
	txn.AddOperation("mark_sent", func(ctx context.Context) error {
		return uc.Proposals.Transition(ctx, p.ID, entity.ProposalStatusDraft, entity.ProposalStatusSent, now, intent)
	})
	txn.AddCompensation("revert_to_draft", func(ctx context.Context) error {
		return uc.Proposals.Transition(ctx, p.ID, entity.ProposalStatusSent, entity.ProposalStatusDraft, now)
	})
	if lead != nil && lead.Status.CanAdvanceTo(entity.LeadStatusProposalSent) {
		txn.AddOperation("advance_lead", func(ctx context.Context) error {
			return uc.Leads.UpdateStatus(ctx, lead.ID, lead.Status, entity.LeadStatusProposalSent)
		})
	}
	if err := txn.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrStaleTransition) {
			return nil, invalidTransition("proposal changed state, reload and retry")
		}
		return nil, technical("DATABASE_ERROR", "failed to send proposal", err)
	}

	uc.Logger.Info("proposal sent", "proposal_id", p.ID)
	return p, nil
}

// MarkViewed records the first public view. Repeated calls return the
// original timestamp and change nothing. Drafts are never marked.
func (uc *ProposalLifecycleUseCase) MarkViewed(ctx context.Context, slug string) (*MarkViewedOutput, error) {
	p, err := uc.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p.ViewedAt != nil || p.Status == entity.ProposalStatusDraft {
		return &MarkViewedOutput{Success: true, ViewedAt: p.ViewedAt}, nil
	}

	now := uc.Now().UTC()
	first, err := uc.Proposals.MarkViewed(ctx, p.ID, now)
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to record view", err)
	}
	if first {
		uc.Logger.Info("proposal viewed", "proposal_id", p.ID)
		return &MarkViewedOutput{Success: true, ViewedAt: &now, FirstView: true}, nil
	}

	// a concurrent request won; report its timestamp
	p, err = uc.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &MarkViewedOutput{Success: true, ViewedAt: p.ViewedAt}, nil
}

// UpdateLeadStatus moves a lead forward. Moving to lost also expires its open proposals.
func (uc *ProposalLifecycleUseCase) UpdateLeadStatus(ctx context.Context, leadID string, status entity.LeadStatus) (*entity.Lead, error) {
	if !status.Valid() {
		return nil, validationFailed([]ValidationError{{"status", "is invalid"}})
	}
	if status == entity.LeadStatusLost {
		return uc.MarkLeadLost(ctx, leadID)
	}

	lead, err := uc.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if !lead.Status.CanAdvanceTo(status) {
		return nil, invalidTransition(fmt.Sprintf("lead cannot move from %s to %s", lead.Status, status))
	}
	if err := uc.Leads.UpdateStatus(ctx, lead.ID, lead.Status, status); err != nil {
		if errors.Is(err, entity.ErrStaleTransition) {
			return nil, invalidTransition("lead changed state, reload and retry")
		}
		return nil, technical("DATABASE_ERROR", "failed to update lead", err)
	}
	lead.Status = status
	return lead, nil
}

func (uc *ProposalLifecycleUseCase) MarkLeadLost(ctx context.Context, leadID string) (*entity.Lead, error) {
	lead, err := uc.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if !lead.Status.CanAdvanceTo(entity.LeadStatusLost) {
		return nil, invalidTransition(fmt.Sprintf("a %s lead cannot be marked lost", lead.Status))
	}
	if err := uc.Leads.UpdateStatus(ctx, lead.ID, lead.Status, entity.LeadStatusLost); err != nil {
		if errors.Is(err, entity.ErrStaleTransition) {
			return nil, invalidTransition("lead changed state, reload and retry")
		}
		return nil, technical("DATABASE_ERROR", "failed to update lead", err)
	}
	lead.Status = entity.LeadStatusLost

	expired, err := uc.Proposals.ExpireByLeadID(ctx, lead.ID, uc.Now().UTC())
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to expire proposals", err)
	}
	uc.Logger.Info("lead marked lost", "lead_id", lead.ID, "expired_proposals", expired)
	return lead, nil
}

// ExpireStale expires every pre-signed proposal whose expires_at has passed.
func (uc *ProposalLifecycleUseCase) ExpireStale(ctx context.Context) (int, error) {
	ids, err := uc.Proposals.ExpireStale(ctx, uc.Now().UTC())
	if err != nil {
		return 0, technical("DATABASE_ERROR", "failed to expire proposals", err)
	}
	if len(ids) > 0 {
		uc.Logger.Info("expired stale proposals", "count", len(ids), "proposal_ids", ids)
	}
	return len(ids), nil
}

func (uc *ProposalLifecycleUseCase) ListLeads(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	leads, err := uc.Leads.List(ctx, filter)
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to list leads", err)
	}
	return leads, nil
}

func (uc *ProposalLifecycleUseCase) ListProposals(ctx context.Context, limit int) ([]*entity.Proposal, error) {
	proposals, err := uc.Proposals.List(ctx, limit)
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to list proposals", err)
	}
	return proposals, nil
}

func (uc *ProposalLifecycleUseCase) loadLead(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("lead not found")
	}
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to load lead", err)
	}
	return lead, nil
}
