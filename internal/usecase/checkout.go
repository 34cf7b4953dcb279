package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/northpeak-digital/agency-api/internal/entity"
	"github.com/northpeak-digital/agency-api/internal/infra/integration/stripebilling"
)

type CheckoutUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Proposals entity.ProposalRepositoryInterface
	Addons    entity.AddonRepositoryInterface
	Signed    entity.SignedProposalRepositoryInterface
	Billing   BillingGateway
	Archive   SignatureArchive
	Logger    *slog.Logger
	Now       func() time.Time
}

func NewCheckoutUseCase(
	leads entity.LeadRepositoryInterface,
	proposals entity.ProposalRepositoryInterface,
	addons entity.AddonRepositoryInterface,
	signed entity.SignedProposalRepositoryInterface,
	billing BillingGateway,
	archive SignatureArchive,
	logger *slog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		Leads:     leads,
		Proposals: proposals,
		Addons:    addons,
		Signed:    signed,
		Billing:   billing,
		Archive:   archive,
		Logger:    logger,
		Now:       time.Now,
	}
}

// Execute signs the proposal and creates the billing subscription. The signed
// row carries a step cursor so a retry with the same idempotency key returns
// the stored result or resumes billing instead of signing twice.
func (uc *CheckoutUseCase) Execute(ctx context.Context, input CheckoutInput) (*CheckoutOutput, error) {
	if errs := validateStruct(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	input.CustomerEmail = normalizeEmail(input.CustomerEmail)
	key := input.IdempotencyKey
	if key == "" {
		key = CheckoutKey(input.ProposalID, input.CustomerEmail, input.SelectedAddons)
	}

	existing, err := uc.Signed.FindByIdempotencyKey(ctx, key)
	switch {
	case err == nil:
		return uc.resume(ctx, existing, input.ProposalID)
	case !errors.Is(err, entity.ErrNotFound):
		return nil, technical("DATABASE_ERROR", "failed to process checkout", err)
	}

	proposal, err := uc.Proposals.FindByID(ctx, input.ProposalID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, notFound("proposal not found")
	}
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to process checkout", err)
	}
	if !proposal.Status.Signable() {
		return nil, invalidTransition(fmt.Sprintf("a %s proposal cannot be signed", proposal.Status))
	}

	active, err := uc.Addons.ListActive(ctx)
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to process checkout", err)
	}
	snapshot := SelectAddons(active, input.SelectedAddons)
	if dropped := len(uniqueIDs(input.SelectedAddons)) - len(snapshot); dropped > 0 {
		uc.Logger.Warn("checkout dropped unknown add-ons", "proposal_id", proposal.ID, "dropped", dropped)
	}

	sp := entity.NewSignedProposal(proposal, key, strings.TrimSpace(input.CustomerName), input.CustomerEmail,
		strings.TrimSpace(input.BusinessName), snapshot)
	sp.SignedAt = uc.Now().UTC().Truncate(time.Microsecond)
	sp.FBAdsBudget = input.FBAdsBudget
	sp.SignatureData = input.SignatureData
	sp.IPAddress = input.IPAddress
	sp.UserAgent = input.UserAgent

	if uc.Archive != nil {
		objectKey, err := uc.Archive.StoreSignature(ctx, sp.ID, sp.SignatureData)
		if err != nil {
			uc.Logger.Warn("signature archive failed", "signed_proposal_id", sp.ID, "error", err)
		} else {
			sp.SignatureObjectKey = objectKey
		}
	}

	if err := uc.Signed.Create(ctx, sp); err != nil {
		switch {
		case errors.Is(err, entity.ErrDuplicate):
			// a concurrent submit with the same key got there first
			existing, ferr := uc.Signed.FindByIdempotencyKey(ctx, key)
			if ferr != nil {
				return nil, technical("DATABASE_ERROR", "failed to process checkout", ferr)
			}
			return uc.resume(ctx, existing, input.ProposalID)
		case errors.Is(err, entity.ErrAlreadySigned):
			return nil, invalidTransition("this proposal has already been signed")
		}
		return nil, technical("DATABASE_ERROR", "failed to save signed proposal", err)
	}
	uc.Logger.Info("signature recorded",
		"proposal_id", proposal.ID, "signed_proposal_id", sp.ID, "monthly_total", sp.MonthlyTotal)

	if err := uc.markSigned(ctx, proposal, sp); err != nil {
		uc.discard(ctx, sp)
		return nil, err
	}
	return uc.bill(ctx, sp)
}

// resume continues a checkout that was already recorded under the same key.
func (uc *CheckoutUseCase) resume(ctx context.Context, sp *entity.SignedProposal, proposalID string) (*CheckoutOutput, error) {
	if sp.ProposalID != proposalID {
		return nil, invalidTransition("idempotency key was already used for another proposal")
	}
	if sp.Step == entity.CheckoutStepBilled && sp.Billing != nil {
		uc.Logger.Info("checkout replayed", "signed_proposal_id", sp.ID)
		return checkoutOutput(sp), nil
	}

	proposal, err := uc.Proposals.FindByID(ctx, sp.ProposalID)
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to resume checkout", err)
	}
	switch {
	case proposal.Status == entity.ProposalStatusSigned:
		if !signedBy(proposal, sp) {
			uc.Logger.Warn("checkout resume refused, proposal signed by another submission",
				"proposal_id", proposal.ID, "signed_proposal_id", sp.ID)
			return nil, invalidTransition("this proposal has already been signed")
		}
	case !proposal.Status.Signable():
		return nil, invalidTransition(fmt.Sprintf("a %s proposal cannot be signed", proposal.Status))
	default:
		if err := uc.markSigned(ctx, proposal, sp); err != nil {
			uc.discard(ctx, sp)
			return nil, err
		}
	}
	uc.Logger.Info("resuming checkout billing", "signed_proposal_id", sp.ID)
	return uc.bill(ctx, sp)
}

// signedBy reports whether the proposal's signing is the one recorded in sp.
func signedBy(p *entity.Proposal, sp *entity.SignedProposal) bool {
	return p.SignedAt != nil && p.SignedAt.Equal(sp.SignedAt)
}

// markSigned moves the proposal and its lead to signed together and queues
// the proposal_signed notification with the proposal update. If the lead
// update fails the proposal goes back to its previous status.
func (uc *CheckoutUseCase) markSigned(ctx context.Context, proposal *entity.Proposal, sp *entity.SignedProposal) error {
	intent, err := entity.ProposalSignedIntent(sp)
	if err != nil {
		return technical("ENCODING_ERROR", "failed to process checkout", err)
	}

	from := proposal.Status
	txn := NewTransaction(uc.Logger)
	txn.AddOperation("mark_proposal_signed", func(ctx context.Context) error {
		return uc.Proposals.Transition(ctx, proposal.ID, from, entity.ProposalStatusSigned, sp.SignedAt, intent)
	})
	txn.AddCompensation("revert_proposal_status", func(ctx context.Context) error {
		return uc.Proposals.Transition(ctx, proposal.ID, entity.ProposalStatusSigned, from, sp.SignedAt)
	})

	if proposal.LeadID != nil {
		lead, err := uc.Leads.FindByID(ctx, *proposal.LeadID)
		switch {
		case errors.Is(err, entity.ErrNotFound):
		case err != nil:
			return technical("DATABASE_ERROR", "failed to load lead", err)
		case lead.Status.CanAdvanceTo(entity.LeadStatusSigned):
			txn.AddOperation("mark_lead_signed", func(ctx context.Context) error {
				return uc.Leads.UpdateStatus(ctx, lead.ID, lead.Status, entity.LeadStatusSigned)
			})
		}
	}

	if err := txn.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrStaleTransition) {
			return invalidTransition("proposal changed state, reload and retry")
		}
		return technical("DATABASE_ERROR", "failed to mark proposal signed", err)
	}
	proposal.Status = entity.ProposalStatusSigned
	proposal.SignedAt = &sp.SignedAt
	return nil
}

// discard removes a signed row whose signing did not take effect, so a retry
// starts over. The row stays when the proposal ended up signed by it anyway,
// which happens when the revert compensation itself failed.
func (uc *CheckoutUseCase) discard(ctx context.Context, sp *entity.SignedProposal) {
	ctx = context.WithoutCancel(ctx)
	proposal, err := uc.Proposals.FindByID(ctx, sp.ProposalID)
	if err == nil && proposal.Status == entity.ProposalStatusSigned && signedBy(proposal, sp) {
		return
	}
	if err := uc.Signed.Delete(ctx, sp.ID); err != nil {
		uc.Logger.Error("failed to discard signed proposal",
			"signed_proposal_id", sp.ID, "proposal_id", sp.ProposalID, "error", err)
	}
}

func (uc *CheckoutUseCase) bill(ctx context.Context, sp *entity.SignedProposal) (*CheckoutOutput, error) {
	result, err := uc.Billing.CreateSubscription(ctx, stripebilling.SubscriptionInput{
		IdempotencyKey:   sp.IdempotencyKey,
		ProposalID:       sp.ProposalID,
		SignedProposalID: sp.ID,
		Email:            sp.ClientEmail,
		Name:             sp.ClientName,
		BusinessName:     sp.BusinessName,
		AddonIDs:         sp.AddonIDs(),
	})
	if err != nil {
		return nil, technical("BILLING_ERROR", "we could not set up billing, please try again or call us", err)
	}
	if result.Totals.MonthlyTotal != sp.MonthlyTotal {
		uc.Logger.Warn("billing price table differs from signed totals",
			"signed_proposal_id", sp.ID, "signed_monthly", sp.MonthlyTotal, "billed_monthly", result.Totals.MonthlyTotal)
	}

	refs := entity.BillingRefs{
		CustomerID:     result.CustomerID,
		SubscriptionID: result.SubscriptionID,
		InvoiceID:      result.InvoiceID,
		InvoiceURL:     result.InvoiceURL,
		InvoicePDF:     result.InvoicePDF,
	}
	if err := uc.Signed.AttachBilling(ctx, sp.ID, refs); err != nil {
		return nil, technical("DATABASE_ERROR", "failed to record billing", err)
	}
	sp.Billing = &refs
	sp.Step = entity.CheckoutStepBilled

	uc.Logger.Info("subscription created",
		"signed_proposal_id", sp.ID, "customer_id", refs.CustomerID, "subscription_id", refs.SubscriptionID)
	return checkoutOutput(sp), nil
}

func checkoutOutput(sp *entity.SignedProposal) *CheckoutOutput {
	out := &CheckoutOutput{
		SignedProposalID: sp.ID,
		Totals: CheckoutTotals{
			SetupFee:      sp.SetupTotal,
			BaseMonthly:   sp.BaseMonthly,
			AddonsMonthly: sp.MonthlyTotal - sp.BaseMonthly,
			MonthlyTotal:  sp.MonthlyTotal,
			DueNow:        sp.SetupTotal + sp.MonthlyTotal,
		},
	}
	if sp.Billing != nil {
		out.CustomerID = sp.Billing.CustomerID
		out.SubscriptionID = sp.Billing.SubscriptionID
		out.InvoiceID = sp.Billing.InvoiceID
		out.InvoiceURL = sp.Billing.InvoiceURL
		out.InvoicePDF = sp.Billing.InvoicePDF
	}
	return out
}

// SelectAddons snapshots the requested add-ons from the active list, in the
// order requested. Unknown or inactive ids are dropped.
func SelectAddons(active []*entity.AddonSetting, requested []string) []entity.AddonSnapshot {
	byID := make(map[string]*entity.AddonSetting, len(active))
	for _, a := range active {
		byID[a.ID] = a
	}
	out := make([]entity.AddonSnapshot, 0, len(requested))
	for _, id := range uniqueIDs(requested) {
		if a, ok := byID[id]; ok {
			out = append(out, a.Snapshot())
		}
	}
	return out
}

// CheckoutKey derives an idempotency key for clients that do not send one.
func CheckoutKey(proposalID, email string, addonIDs []string) string {
	ids := uniqueIDs(addonIDs)
	sort.Strings(ids)
	sum := sha256.Sum256([]byte(proposalID + "|" + normalizeEmail(email) + "|" + strings.Join(ids, ",")))
	return "chk_" + hex.EncodeToString(sum[:])
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
