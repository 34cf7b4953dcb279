package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AddonSnapshot struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	OriginalPrice int64  `json:"original_price"`
}

type CheckoutStep string

const (
	CheckoutStepSigned CheckoutStep = "signed"
	CheckoutStepBilled CheckoutStep = "billed"
)

// BillingRefs are the provider identifiers attached after subscription creation.
type BillingRefs struct {
	CustomerID     string `json:"customer_id"`
	SubscriptionID string `json:"subscription_id"`
	InvoiceID      string `json:"invoice_id"`
	InvoiceURL     string `json:"invoice_url"`
	InvoicePDF     string `json:"invoice_pdf"`
}

type SignedProposal struct {
	ID                 string          `json:"id"`
	ProposalID         string          `json:"proposal_id"`
	LeadID             *string         `json:"lead_id,omitempty"`
	IdempotencyKey     string          `json:"idempotency_key"`
	ClientName         string          `json:"client_name"`
	ClientEmail        string          `json:"client_email"`
	BusinessName       string          `json:"business_name,omitempty"`
	ProposalType       string          `json:"proposal_type"`
	SetupTotal         int64           `json:"setup_total"`
	BaseMonthly        int64           `json:"base_monthly"`
	MonthlyTotal       int64           `json:"monthly_total"`
	FBAdsBudget        string          `json:"fb_ads_budget,omitempty"`
	SelectedAddons     []AddonSnapshot `json:"selected_addons"`
	SignatureData      string          `json:"-"`
	SignatureObjectKey string          `json:"signature_object_key,omitempty"`
	SignedAt           time.Time       `json:"signed_at"`
	IPAddress          string          `json:"ip_address,omitempty"`
	UserAgent          string          `json:"user_agent,omitempty"`
	Step               CheckoutStep    `json:"checkout_step"`
	Billing            *BillingRefs    `json:"billing,omitempty"`
}

// MonthlyTotalFor is base plus the sum of the snapshot prices.
func MonthlyTotalFor(baseMonthly int64, addons []AddonSnapshot) int64 {
	total := baseMonthly
	for _, a := range addons {
		total += a.Price
	}
	return total
}

func NewSignedProposal(p *Proposal, key, name, email, business string, addons []AddonSnapshot) *SignedProposal {
	if addons == nil {
		addons = []AddonSnapshot{}
	}
	proposalType := string(p.Industry)
	if p.Tier != nil {
		proposalType += ":" + string(*p.Tier)
	}
	return &SignedProposal{
		ID:             uuid.New().String(),
		ProposalID:     p.ID,
		LeadID:         p.LeadID,
		IdempotencyKey: key,
		ClientName:     name,
		ClientEmail:    email,
		BusinessName:   business,
		ProposalType:   proposalType,
		SetupTotal:     p.SetupFee,
		BaseMonthly:    p.MonthlyPrice,
		MonthlyTotal:   MonthlyTotalFor(p.MonthlyPrice, addons),
		SelectedAddons: addons,
		SignedAt:       time.Now().UTC().Truncate(time.Microsecond),
		Step:           CheckoutStepSigned,
	}
}

func (s *SignedProposal) AddonIDs() []string {
	ids := make([]string, 0, len(s.SelectedAddons))
	for _, a := range s.SelectedAddons {
		ids = append(ids, a.ID)
	}
	return ids
}

type SignedProposalRepositoryInterface interface {
	// Create fails with ErrDuplicate for a reused idempotency key and with
	// ErrAlreadySigned when the proposal already has a signed row.
	Create(ctx context.Context, sp *SignedProposal) error
	// Delete removes a row whose signing never took effect.
	Delete(ctx context.Context, id string) error
	FindByIdempotencyKey(ctx context.Context, key string) (*SignedProposal, error)
	// AttachBilling stores provider ids once and moves the step to billed.
	AttachBilling(ctx context.Context, id string, refs BillingRefs) error
}
