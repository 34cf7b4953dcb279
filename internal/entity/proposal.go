package entity

import (
	"context"
	"time"
)

type ProposalStatus string

const (
	ProposalStatusDraft   ProposalStatus = "draft"
	ProposalStatusSent    ProposalStatus = "sent"
	ProposalStatusViewed  ProposalStatus = "viewed"
	ProposalStatusSigned  ProposalStatus = "signed"
	ProposalStatusExpired ProposalStatus = "expired"
)

var proposalTransitions = map[ProposalStatus][]ProposalStatus{
	ProposalStatusDraft:  {ProposalStatusSent, ProposalStatusExpired},
	ProposalStatusSent:   {ProposalStatusViewed, ProposalStatusSigned, ProposalStatusExpired},
	ProposalStatusViewed: {ProposalStatusSigned, ProposalStatusExpired},
}

func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	for _, allowed := range proposalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PreSigned reports whether the proposal can still be signed, sent or expired.
func (s ProposalStatus) PreSigned() bool {
	return s == ProposalStatusDraft || s == ProposalStatusSent || s == ProposalStatusViewed
}

func (s ProposalStatus) Signable() bool {
	return s == ProposalStatusSent || s == ProposalStatusViewed
}

type Proposal struct {
	ID               string         `json:"id"`
	Slug             string         `json:"slug"`
	LeadID           *string        `json:"lead_id,omitempty"`
	ClientName       string         `json:"client_name"`
	ClientEmail      string         `json:"client_email"`
	Company          string         `json:"company,omitempty"`
	Industry         Industry       `json:"industry"`
	Tier             *Tier          `json:"tier,omitempty"`
	Status           ProposalStatus `json:"status"`
	MonthlyPrice     int64          `json:"monthly_price"`
	SetupFee         int64          `json:"setup_fee"`
	ExecutiveSummary string         `json:"executive_summary"`
	Deliverables     []string       `json:"deliverables"`
	TargetKeywords   []string       `json:"target_keywords"`
	KeywordData      *KeywordData   `json:"keyword_data,omitempty"`
	SentAt           *time.Time     `json:"sent_at,omitempty"`
	ViewedAt         *time.Time     `json:"viewed_at,omitempty"`
	SignedAt         *time.Time     `json:"signed_at,omitempty"`
	ExpiresAt        time.Time      `json:"expires_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type ProposalRepositoryInterface interface {
	Create(ctx context.Context, p *Proposal, intents ...*NotificationIntent) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Proposal, error)
	FindBySlug(ctx context.Context, slug string) (*Proposal, error)
	FindLatestByLeadID(ctx context.Context, leadID string) (*Proposal, error)
	List(ctx context.Context, limit int) ([]*Proposal, error)
	// Transition moves the proposal from one status to another and fails with
	// ErrStaleTransition when the stored status no longer equals from.
	Transition(ctx context.Context, id string, from, to ProposalStatus, at time.Time, intents ...*NotificationIntent) error
	// MarkViewed sets viewed_at only when it is still null. It reports whether
	// this call was the first view.
	MarkViewed(ctx context.Context, id string, at time.Time) (bool, error)
	SaveKeywordData(ctx context.Context, id string, data *KeywordData) error
	ExpireByLeadID(ctx context.Context, leadID string, at time.Time) (int64, error)
	ExpireStale(ctx context.Context, now time.Time) ([]string, error)
}
