package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Industry string

const (
	IndustryMedical       Industry = "medical"
	IndustryVenue         Industry = "venue"
	IndustryHomeServices  Industry = "home-services"
	IndustrySmallBusiness Industry = "small-business"
)

func (i Industry) Valid() bool {
	switch i {
	case IndustryMedical, IndustryVenue, IndustryHomeServices, IndustrySmallBusiness:
		return true
	}
	return false
}

type LeadType string

const (
	LeadTypePackage LeadType = "package"
	LeadTypeAudit   LeadType = "audit"
)

type Tier string

const (
	TierStarter  Tier = "starter"
	TierGrowth   Tier = "growth"
	TierDominate Tier = "dominate"
)

func (t Tier) Valid() bool {
	return t == TierStarter || t == TierGrowth || t == TierDominate
}

type LeadStatus string

const (
	LeadStatusNew             LeadStatus = "new"
	LeadStatusContacted       LeadStatus = "contacted"
	LeadStatusProposalCreated LeadStatus = "proposal_created"
	LeadStatusProposalSent    LeadStatus = "proposal_sent"
	LeadStatusSigned          LeadStatus = "signed"
	LeadStatusLost            LeadStatus = "lost"
)

// leadStatusRank orders the forward path. Lost sits outside it.
var leadStatusRank = map[LeadStatus]int{
	LeadStatusNew:             0,
	LeadStatusContacted:       1,
	LeadStatusProposalCreated: 2,
	LeadStatusProposalSent:    3,
	LeadStatusSigned:          4,
}

func (s LeadStatus) Valid() bool {
	if s == LeadStatusLost {
		return true
	}
	_, ok := leadStatusRank[s]
	return ok
}

// CanAdvanceTo reports whether a lead in status s may move to next.
// Statuses only move forward; lost is reachable from anything not yet signed.
func (s LeadStatus) CanAdvanceTo(next LeadStatus) bool {
	if s == LeadStatusSigned || s == LeadStatusLost {
		return false
	}
	if next == LeadStatusLost {
		return true
	}
	from, ok := leadStatusRank[s]
	if !ok {
		return false
	}
	to, ok := leadStatusRank[next]
	return ok && to > from
}

// Attribution carries the marketing source of a form submission.
type Attribution struct {
	Source      string `json:"source,omitempty"`
	UTMSource   string `json:"utm_source,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
	UTMTerm     string `json:"utm_term,omitempty"`
	UTMContent  string `json:"utm_content,omitempty"`
	Referrer    string `json:"referrer,omitempty"`
	LandingPage string `json:"landing_page,omitempty"`
}

type Lead struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	Website      string      `json:"website,omitempty"`
	Company      string      `json:"company,omitempty"`
	Industry     Industry    `json:"industry"`
	BusinessSize string      `json:"business_size,omitempty"`
	Challenge    string      `json:"challenge,omitempty"`
	Service      string      `json:"service,omitempty"`
	City         string      `json:"city,omitempty"`
	LeadType     LeadType    `json:"lead_type"`
	SelectedTier *Tier       `json:"selected_tier,omitempty"`
	Status       LeadStatus  `json:"status"`
	Attribution  Attribution `json:"attribution"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

var (
	ErrTierRequired   = errors.New("selected_tier is required for package leads")
	ErrTierNotAllowed = errors.New("selected_tier is only allowed for package leads")
)

// NewLead builds a lead in status new. An empty lead type defaults to audit.
func NewLead(name, email string, industry Industry, leadType LeadType, tier *Tier) (*Lead, error) {
	if leadType == "" {
		leadType = LeadTypeAudit
	}
	now := time.Now().UTC()
	lead := &Lead{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Industry:     industry,
		LeadType:     leadType,
		SelectedTier: tier,
		Status:       LeadStatusNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := lead.Validate(); err != nil {
		return nil, err
	}
	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Email == "" {
		return errors.New("email is required")
	}
	if !l.Industry.Valid() {
		return errors.New("industry is invalid")
	}
	switch l.LeadType {
	case LeadTypePackage:
		if l.SelectedTier == nil {
			return ErrTierRequired
		}
		if !l.SelectedTier.Valid() {
			return errors.New("selected_tier is invalid")
		}
	case LeadTypeAudit:
		if l.SelectedTier != nil {
			return ErrTierNotAllowed
		}
	default:
		return errors.New("lead_type is invalid")
	}
	return nil
}

// DisplayCompany falls back to the contact name when no company was given.
func (l *Lead) DisplayCompany() string {
	if l.Company != "" {
		return l.Company
	}
	return l.Name
}

type LeadFilter struct {
	Status   LeadStatus
	Industry Industry
	LeadType LeadType
	Limit    int
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead, intents ...*NotificationIntent) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	// UpdateStatus is conditional on the stored status still being from and
	// returns ErrStaleTransition otherwise.
	UpdateStatus(ctx context.Context, id string, from, to LeadStatus) error
}
