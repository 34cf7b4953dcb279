package usecase

import (
	"time"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

type CreateLeadInput struct {
	Name         string `json:"name" validate:"required,max=200"`
	Email        string `json:"email" validate:"required,email,max=254"`
	Phone        string `json:"phone" validate:"omitempty,max=40"`
	Website      string `json:"website" validate:"omitempty,max=500"`
	Company      string `json:"company" validate:"omitempty,max=200"`
	Industry     string `json:"industry" validate:"required,oneof=medical venue home-services small-business"`
	BusinessSize string `json:"business_size" validate:"omitempty,max=100"`
	Challenge    string `json:"challenge" validate:"omitempty,max=5000"`
	Service      string `json:"service" validate:"omitempty,max=200"`
	City         string `json:"city" validate:"omitempty,max=100"`
	LeadType     string `json:"lead_type" validate:"omitempty,oneof=package audit"`
	SelectedTier string `json:"selected_tier" validate:"omitempty,oneof=starter growth dominate"`
	FormType     string `json:"form_type" validate:"omitempty,max=50"`

	Source      string `json:"source" validate:"omitempty,max=200"`
	UTMSource   string `json:"utm_source" validate:"omitempty,max=200"`
	UTMMedium   string `json:"utm_medium" validate:"omitempty,max=200"`
	UTMCampaign string `json:"utm_campaign" validate:"omitempty,max=200"`
	UTMTerm     string `json:"utm_term" validate:"omitempty,max=200"`
	UTMContent  string `json:"utm_content" validate:"omitempty,max=200"`
	Referrer    string `json:"referrer" validate:"omitempty,max=1000"`
	LandingPage string `json:"landing_page" validate:"omitempty,max=1000"`
}

const FormTypeOrganicAudit = "organic_audit"

type CreateLeadOutput struct {
	Success bool         `json:"success"`
	Lead    *entity.Lead `json:"lead"`
}

type RequestCodeInput struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type VerifyCodeOutput struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

type GenerateProposalInput struct {
	LeadID           string `json:"lead_id" validate:"required"`
	Industry         string `json:"industry" validate:"omitempty,oneof=medical venue home-services small-business"`
	SendEmail        bool   `json:"send_email"`
	ResearchKeywords bool   `json:"research_keywords"`
	City             string `json:"city" validate:"omitempty,max=100"`
	// ReuseOpen returns the lead's open proposal instead of creating another.
	ReuseOpen        bool   `json:"-"`
}

type GenerateProposalOutput struct {
	ProposalID  string                `json:"proposal_id"`
	Slug        string                `json:"slug"`
	ProposalURL string                `json:"proposal_url"`
	Status      entity.ProposalStatus `json:"status"`
	Existing    bool                  `json:"existing,omitempty"`
}

type ResearchKeywordsInput struct {
	ProposalID string   `json:"proposal_id"`
	LeadID     string   `json:"lead_id"`
	Seeds      []string `json:"seeds" validate:"max=15,dive,max=100"`
	City       string   `json:"city" validate:"omitempty,max=100"`
	Industry   string   `json:"industry" validate:"omitempty,oneof=medical venue home-services small-business"`
	Service    string   `json:"service" validate:"omitempty,max=200"`
}

type ResearchKeywordsOutput struct {
	KeywordData *entity.KeywordData `json:"keyword_data"`
	ProposalID  string              `json:"proposal_id,omitempty"`
}

type CheckoutInput struct {
	ProposalID     string   `json:"proposalId" validate:"required"`
	CustomerEmail  string   `json:"customerEmail" validate:"required,email"`
	CustomerName   string   `json:"customerName" validate:"required,max=200"`
	BusinessName   string   `json:"businessName" validate:"omitempty,max=200"`
	SelectedAddons []string `json:"selectedAddons" validate:"max=50,dive,max=100"`
	SignatureData  string   `json:"signatureData" validate:"required,startswith=data:image/"`
	FBAdsBudget    string   `json:"fbAdsBudget" validate:"omitempty,max=100"`
	IdempotencyKey string   `json:"idempotencyKey" validate:"omitempty,max=200"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type CheckoutTotals struct {
	SetupFee      int64 `json:"setupFee"`
	BaseMonthly   int64 `json:"baseMonthly"`
	AddonsMonthly int64 `json:"addonsMonthly"`
	MonthlyTotal  int64 `json:"monthlyTotal"`
	DueNow        int64 `json:"dueNow"`
}

type CheckoutOutput struct {
	SignedProposalID string         `json:"signedProposalId"`
	CustomerID       string         `json:"customerId"`
	SubscriptionID   string         `json:"subscriptionId"`
	InvoiceID        string         `json:"invoiceId"`
	InvoiceURL       string         `json:"invoiceUrl"`
	InvoicePDF       string         `json:"invoicePdf"`
	Totals           CheckoutTotals `json:"totals"`
}

type AddonInput struct {
	ID             string   `json:"id" validate:"required,max=64,slug"`
	Name           string   `json:"name" validate:"required,max=200"`
	Description    string   `json:"description" validate:"omitempty,max=2000"`
	Icon           string   `json:"icon" validate:"omitempty,max=100"`
	Details        []string `json:"details" validate:"max=20,dive,max=300"`
	OriginalPrice  int64    `json:"original_price" validate:"gte=0"`
	Price          int64    `json:"price" validate:"gte=0"`
	HighlightLabel *string  `json:"highlight_label" validate:"omitempty,max=100"`
	SortOrder      int      `json:"sort_order" validate:"gte=0"`
	IsActive       bool     `json:"is_active"`
}

type SaveAddonsInput struct {
	Items      []AddonInput `json:"items"`
	DeletedIDs []string     `json:"deleted_ids"`
}

type TemplateInput struct {
	ID               string   `json:"id" validate:"omitempty,uuid"`
	Industry         string   `json:"industry" validate:"required,oneof=medical venue home-services small-business"`
	DisplayName      string   `json:"display_name" validate:"required,max=200"`
	BaseMonthly      int64    `json:"base_monthly" validate:"gte=0"`
	SetupFee         int64    `json:"setup_fee" validate:"gte=0"`
	ExecutiveSummary string   `json:"executive_summary" validate:"omitempty,max=10000"`
	TargetKeywords   []string `json:"target_keywords" validate:"max=50,dive,max=200"`
	Deliverables     []string `json:"deliverables" validate:"max=50,dive,max=500"`
	IsActive         bool     `json:"is_active"`
}

type SaveTemplatesInput struct {
	Items      []TemplateInput `json:"items"`
	DeletedIDs []string        `json:"deleted_ids"`
}

// RowResult reports the validation outcome of one row in a batch save.
type RowResult struct {
	Index  int               `json:"index"`
	ID     string            `json:"id"`
	OK     bool              `json:"ok"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type SaveBatchOutput struct {
	Success bool        `json:"success"`
	Saved   int         `json:"saved"`
	Deleted int         `json:"deleted"`
	Results []RowResult `json:"results"`
}
