package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

type SignedProposalRepository struct {
	DB *sql.DB
}

func NewSignedProposalRepository(db *sql.DB) *SignedProposalRepository {
	return &SignedProposalRepository{DB: db}
}

const signedColumns = `id, proposal_id, lead_id, idempotency_key, client_name, client_email, business_name,
	proposal_type, setup_total, base_monthly, monthly_total, fb_ads_budget, selected_addons,
	signature_data, signature_object_key, signed_at, ip_address, user_agent, checkout_step, billing`

// Create stores the signature. The proposal_signed intent is written later,
// with the proposal's transition to signed.
func (r *SignedProposalRepository) Create(ctx context.Context, sp *entity.SignedProposal) error {
	addons, err := json.Marshal(sp.SelectedAddons)
	if err != nil {
		return err
	}
	var billing any
	if sp.Billing != nil {
		if billing, err = jsonValue(sp.Billing); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO signed_proposals (` + signedColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err = r.DB.ExecContext(ctx, query,
		sp.ID,
		sp.ProposalID,
		sp.LeadID,
		sp.IdempotencyKey,
		sp.ClientName,
		sp.ClientEmail,
		nullString(sp.BusinessName),
		sp.ProposalType,
		sp.SetupTotal,
		sp.BaseMonthly,
		sp.MonthlyTotal,
		nullString(sp.FBAdsBudget),
		addons,
		sp.SignatureData,
		nullString(sp.SignatureObjectKey),
		sp.SignedAt,
		nullString(sp.IPAddress),
		nullString(sp.UserAgent),
		sp.Step,
		billing,
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err, "signed_proposals_idempotency_key_key"):
		return entity.ErrDuplicate
	case isUniqueViolation(err, "signed_proposals_proposal_id_key"):
		return entity.ErrAlreadySigned
	default:
		return fmt.Errorf("insert signed proposal: %w", err)
	}
}

// Delete only removes rows that never reached billing.
func (r *SignedProposalRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM signed_proposals WHERE id = $1 AND checkout_step = $2`,
		id, entity.CheckoutStepSigned,
	)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *SignedProposalRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entity.SignedProposal, error) {
	var (
		sp                                             entity.SignedProposal
		leadID, business, budget, objectKey, ip, agent sql.NullString
		addons, billing                                []byte
	)
	err := r.DB.QueryRowContext(ctx, `SELECT `+signedColumns+` FROM signed_proposals WHERE idempotency_key = $1`, key).Scan(
		&sp.ID,
		&sp.ProposalID,
		&leadID,
		&sp.IdempotencyKey,
		&sp.ClientName,
		&sp.ClientEmail,
		&business,
		&sp.ProposalType,
		&sp.SetupTotal,
		&sp.BaseMonthly,
		&sp.MonthlyTotal,
		&budget,
		&addons,
		&sp.SignatureData,
		&objectKey,
		&sp.SignedAt,
		&ip,
		&agent,
		&sp.Step,
		&billing,
	)
	if err != nil {
		return nil, notFound(err)
	}

	if leadID.Valid {
		sp.LeadID = &leadID.String
	}
	sp.BusinessName = fromNull(business)
	sp.FBAdsBudget = fromNull(budget)
	sp.SignatureObjectKey = fromNull(objectKey)
	sp.IPAddress = fromNull(ip)
	sp.UserAgent = fromNull(agent)

	if err := json.Unmarshal(addons, &sp.SelectedAddons); err != nil {
		return nil, fmt.Errorf("decode selected_addons: %w", err)
	}
	if len(billing) > 0 {
		var refs entity.BillingRefs
		if err := json.Unmarshal(billing, &refs); err != nil {
			return nil, fmt.Errorf("decode billing: %w", err)
		}
		sp.Billing = &refs
	}
	return &sp, nil
}

// AttachBilling only writes while the row is still in the signed step, so
// the first set of provider ids wins.
func (r *SignedProposalRepository) AttachBilling(ctx context.Context, id string, refs entity.BillingRefs) error {
	raw, err := json.Marshal(refs)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE signed_proposals SET billing = $2, checkout_step = $3, updated_at = NOW()
		WHERE id = $1 AND checkout_step = $4
	`, id, raw, entity.CheckoutStepBilled, entity.CheckoutStepSigned)
	if err != nil {
		return err
	}
	return expectOne(res)
}
