package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationLeadCreated    NotificationKind = "lead_created"
	NotificationProposalSent   NotificationKind = "proposal_sent"
	NotificationProposalSigned NotificationKind = "proposal_signed"
)

type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "pending"
	NotificationPublished NotificationStatus = "published"
)

// NotificationIntent is an outbox row. It is written in the same database
// transaction as the business record it describes.
type NotificationIntent struct {
	ID          string             `json:"id"`
	Kind        NotificationKind   `json:"kind"`
	Payload     json.RawMessage    `json:"payload"`
	Status      NotificationStatus `json:"status"`
	Attempts    int                `json:"attempts"`
	LastError   string             `json:"last_error,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	PublishedAt *time.Time         `json:"published_at,omitempty"`
}

type LeadCreatedPayload struct {
	LeadID       string      `json:"lead_id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	Company      string      `json:"company,omitempty"`
	Website      string      `json:"website,omitempty"`
	Industry     Industry    `json:"industry"`
	BusinessSize string      `json:"business_size,omitempty"`
	Challenge    string      `json:"challenge,omitempty"`
	LeadType     LeadType    `json:"lead_type"`
	SelectedTier *Tier       `json:"selected_tier,omitempty"`
	Attribution  Attribution `json:"attribution"`
}

type ProposalSentPayload struct {
	ProposalID   string   `json:"proposal_id"`
	LeadID       *string  `json:"lead_id,omitempty"`
	Slug         string   `json:"slug"`
	ClientName   string   `json:"client_name"`
	ClientEmail  string   `json:"client_email"`
	Company      string   `json:"company,omitempty"`
	Industry     Industry `json:"industry"`
	MonthlyPrice int64    `json:"monthly_price"`
	SetupFee     int64    `json:"setup_fee"`
}

type ProposalSignedPayload struct {
	SignedProposalID string          `json:"signed_proposal_id"`
	ProposalID       string          `json:"proposal_id"`
	ClientName       string          `json:"client_name"`
	ClientEmail      string          `json:"client_email"`
	BusinessName     string          `json:"business_name,omitempty"`
	SetupTotal       int64           `json:"setup_total"`
	MonthlyTotal     int64           `json:"monthly_total"`
	FBAdsBudget      string          `json:"fb_ads_budget,omitempty"`
	SelectedAddons   []AddonSnapshot `json:"selected_addons"`
}

func NewNotificationIntent(kind NotificationKind, payload any) (*NotificationIntent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return &NotificationIntent{
		ID:        uuid.New().String(),
		Kind:      kind,
		Payload:   raw,
		Status:    NotificationPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func LeadCreatedIntent(l *Lead) (*NotificationIntent, error) {
	return NewNotificationIntent(NotificationLeadCreated, LeadCreatedPayload{
		LeadID:       l.ID,
		Name:         l.Name,
		Email:        l.Email,
		Phone:        l.Phone,
		Company:      l.Company,
		Website:      l.Website,
		Industry:     l.Industry,
		BusinessSize: l.BusinessSize,
		Challenge:    l.Challenge,
		LeadType:     l.LeadType,
		SelectedTier: l.SelectedTier,
		Attribution:  l.Attribution,
	})
}

func ProposalSentIntent(p *Proposal) (*NotificationIntent, error) {
	return NewNotificationIntent(NotificationProposalSent, ProposalSentPayload{
		ProposalID:   p.ID,
		LeadID:       p.LeadID,
		Slug:         p.Slug,
		ClientName:   p.ClientName,
		ClientEmail:  p.ClientEmail,
		Company:      p.Company,
		Industry:     p.Industry,
		MonthlyPrice: p.MonthlyPrice,
		SetupFee:     p.SetupFee,
	})
}

func ProposalSignedIntent(sp *SignedProposal) (*NotificationIntent, error) {
	return NewNotificationIntent(NotificationProposalSigned, ProposalSignedPayload{
		SignedProposalID: sp.ID,
		ProposalID:       sp.ProposalID,
		ClientName:       sp.ClientName,
		ClientEmail:      sp.ClientEmail,
		BusinessName:     sp.BusinessName,
		SetupTotal:       sp.SetupTotal,
		MonthlyTotal:     sp.MonthlyTotal,
		FBAdsBudget:      sp.FBAdsBudget,
		SelectedAddons:   sp.SelectedAddons,
	})
}

func (n *NotificationIntent) Decode(v any) error {
	if err := json.Unmarshal(n.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", n.Kind, err)
	}
	return nil
}

type OutboxRepositoryInterface interface {
	FetchPending(ctx context.Context, limit int) ([]*NotificationIntent, error)
	MarkPublished(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
}
