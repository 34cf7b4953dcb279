package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

type ProposalRepository struct {
	DB *sql.DB
}

func NewProposalRepository(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{DB: db}
}

const proposalColumns = `id, slug, lead_id, client_name, client_email, company, industry, tier, status,
	monthly_price, setup_fee, executive_summary, deliverables, target_keywords, keyword_data,
	sent_at, viewed_at, signed_at, expires_at, created_at, updated_at`

// preSigned is the status list the sweeps are allowed to expire.
var preSigned = pq.Array([]string{
	string(entity.ProposalStatusDraft),
	string(entity.ProposalStatusSent),
	string(entity.ProposalStatusViewed),
})

func (r *ProposalRepository) Create(ctx context.Context, p *entity.Proposal, intents ...*entity.NotificationIntent) error {
	var keywordData any
	if p.KeywordData != nil {
		raw, err := json.Marshal(p.KeywordData)
		if err != nil {
			return err
		}
		keywordData = raw
	}

	query := `
		INSERT INTO proposals (` + proposalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			p.ID,
			p.Slug,
			p.LeadID,
			p.ClientName,
			p.ClientEmail,
			nullString(p.Company),
			p.Industry,
			p.Tier,
			p.Status,
			p.MonthlyPrice,
			p.SetupFee,
			p.ExecutiveSummary,
			pq.Array(nonNil(p.Deliverables)),
			pq.Array(nonNil(p.TargetKeywords)),
			keywordData,
			p.SentAt,
			p.ViewedAt,
			p.SignedAt,
			p.ExpiresAt,
			p.CreatedAt,
			p.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err, "proposals_slug_key") {
				return entity.ErrSlugTaken
			}
			return fmt.Errorf("insert proposal: %w", err)
		}
		return insertIntents(ctx, tx, intents)
	})
}

// Delete removes the proposal together with any notification about it that
// has not been published yet.
func (r *ProposalRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := dropPendingIntents(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return entity.ErrNotFound
		}
		return nil
	})
}

func (r *ProposalRepository) FindByID(ctx context.Context, id string) (*entity.Proposal, error) {
	return r.findOne(ctx, `SELECT `+proposalColumns+` FROM proposals WHERE id = $1`, id)
}

func (r *ProposalRepository) FindBySlug(ctx context.Context, slug string) (*entity.Proposal, error) {
	return r.findOne(ctx, `SELECT `+proposalColumns+` FROM proposals WHERE slug = $1`, slug)
}

func (r *ProposalRepository) FindLatestByLeadID(ctx context.Context, leadID string) (*entity.Proposal, error) {
	return r.findOne(ctx, `
		SELECT `+proposalColumns+` FROM proposals
		WHERE lead_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, leadID)
}

func (r *ProposalRepository) List(ctx context.Context, limit int) ([]*entity.Proposal, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+proposalColumns+` FROM proposals
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	proposals := []*entity.Proposal{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

// Transition stamps sent_at and signed_at on the way forward and clears them
// when a compensation moves the proposal back.
func (r *ProposalRepository) Transition(
	ctx context.Context,
	id string,
	from, to entity.ProposalStatus,
	at time.Time,
	intents ...*entity.NotificationIntent,
) error {
	query := `
		UPDATE proposals SET
			status = $3,
			updated_at = $4,
			sent_at = CASE
				WHEN $3 = 'sent' THEN COALESCE(sent_at, $4)
				WHEN $3 = 'draft' THEN NULL
				ELSE sent_at
			END,
			signed_at = CASE
				WHEN $3 = 'signed' THEN $4
				WHEN $2 = 'signed' THEN NULL
				ELSE signed_at
			END
		WHERE id = $1 AND status = $2
	`

	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, id, string(from), string(to), at)
		if err != nil {
			return err
		}
		if err := expectOne(res); err != nil {
			return err
		}
		if to == entity.ProposalStatusDraft || from == entity.ProposalStatusSigned {
			if err := dropPendingIntents(ctx, tx, id); err != nil {
				return err
			}
		}
		return insertIntents(ctx, tx, intents)
	})
}

func (r *ProposalRepository) MarkViewed(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE proposals SET
			viewed_at = $2,
			status = CASE WHEN status = 'sent' THEN 'viewed' ELSE status END,
			updated_at = $2
		WHERE id = $1 AND viewed_at IS NULL AND status <> 'draft'
	`, id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *ProposalRepository) SaveKeywordData(ctx context.Context, id string, data *entity.KeywordData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE proposals SET keyword_data = $2, updated_at = NOW() WHERE id = $1`,
		id, raw,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *ProposalRepository) ExpireByLeadID(ctx context.Context, leadID string, at time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE proposals SET status = 'expired', updated_at = $2
		WHERE lead_id = $1 AND status = ANY($3)
	`, leadID, at, preSigned)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ProposalRepository) ExpireStale(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE proposals SET status = 'expired', updated_at = $1
		WHERE expires_at <= $1 AND status = ANY($2)
		RETURNING id
	`, now, preSigned)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ProposalRepository) findOne(ctx context.Context, query string, arg any) (*entity.Proposal, error) {
	p, err := scanProposal(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func dropPendingIntents(ctx context.Context, tx *sql.Tx, proposalID string) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM notification_outbox
		WHERE status = 'pending' AND payload->>'proposal_id' = $1
	`, proposalID)
	return err
}

func scanProposal(s scanner) (*entity.Proposal, error) {
	var (
		p           entity.Proposal
		leadID      sql.NullString
		company     sql.NullString
		tier        sql.NullString
		keywordData []byte
	)
	err := s.Scan(
		&p.ID,
		&p.Slug,
		&leadID,
		&p.ClientName,
		&p.ClientEmail,
		&company,
		&p.Industry,
		&tier,
		&p.Status,
		&p.MonthlyPrice,
		&p.SetupFee,
		&p.ExecutiveSummary,
		pq.Array(&p.Deliverables),
		pq.Array(&p.TargetKeywords),
		&keywordData,
		&p.SentAt,
		&p.ViewedAt,
		&p.SignedAt,
		&p.ExpiresAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if leadID.Valid {
		p.LeadID = &leadID.String
	}
	p.Company = fromNull(company)
	if tier.Valid {
		t := entity.Tier(tier.String)
		p.Tier = &t
	}
	if len(keywordData) > 0 {
		var data entity.KeywordData
		if err := json.Unmarshal(keywordData, &data); err != nil {
			return nil, fmt.Errorf("decode keyword_data: %w", err)
		}
		p.KeywordData = &data
	}
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
