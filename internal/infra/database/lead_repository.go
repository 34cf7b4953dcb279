package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, name, email, phone, website, company, industry, business_size, challenge,
	service, city, lead_type, selected_tier, status, attribution, created_at, updated_at`

// Create inserts the lead and its outbox intents in one transaction.
func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead, intents ...*entity.NotificationIntent) error {
	attribution, err := json.Marshal(lead.Attribution)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			lead.ID,
			lead.Name,
			lead.Email,
			nullString(lead.Phone),
			nullString(lead.Website),
			nullString(lead.Company),
			lead.Industry,
			nullString(lead.BusinessSize),
			nullString(lead.Challenge),
			nullString(lead.Service),
			nullString(lead.City),
			lead.LeadType,
			lead.SelectedTier,
			lead.Status,
			attribution,
			lead.CreatedAt,
			lead.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert lead: %w", err)
		}
		return insertIntents(ctx, tx, intents)
	})
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err != nil {
		return nil, notFound(err)
	}
	return lead, nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	var where []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.Status != "" {
		add("status", filter.Status)
	}
	if filter.Industry != "" {
		add("industry", filter.Industry)
	}
	if filter.LeadType != "" {
		add("lead_type", filter.LeadType)
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, from, to entity.LeadStatus) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return err
	}
	return expectOne(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLead(s scanner) (*entity.Lead, error) {
	var (
		lead                                                    entity.Lead
		phone, website, company, size, challenge, service, city sql.NullString
		tier                                                    sql.NullString
		attribution                                             []byte
	)
	err := s.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&phone,
		&website,
		&company,
		&lead.Industry,
		&size,
		&challenge,
		&service,
		&city,
		&lead.LeadType,
		&tier,
		&lead.Status,
		&attribution,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	lead.Phone = fromNull(phone)
	lead.Website = fromNull(website)
	lead.Company = fromNull(company)
	lead.BusinessSize = fromNull(size)
	lead.Challenge = fromNull(challenge)
	lead.Service = fromNull(service)
	lead.City = fromNull(city)
	if tier.Valid {
		t := entity.Tier(tier.String)
		lead.SelectedTier = &t
	}
	if len(attribution) > 0 {
		if err := json.Unmarshal(attribution, &lead.Attribution); err != nil {
			return nil, fmt.Errorf("decode attribution: %w", err)
		}
	}
	return &lead, nil
}
