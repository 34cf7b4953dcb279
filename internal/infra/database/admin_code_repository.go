package database

import (
	"context"
	"database/sql"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

type AdminCodeRepository struct {
	DB *sql.DB
}

func NewAdminCodeRepository(db *sql.DB) *AdminCodeRepository {
	return &AdminCodeRepository{DB: db}
}

// Upsert replaces any earlier code for the email.
func (r *AdminCodeRepository) Upsert(ctx context.Context, code *entity.AdminCode) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO admin_codes (email, code_hash, expires_at, used, created_at)
		VALUES ($1, $2, $3, FALSE, $4)
		ON CONFLICT (email) DO UPDATE SET
			code_hash = EXCLUDED.code_hash,
			expires_at = EXCLUDED.expires_at,
			used = FALSE,
			created_at = EXCLUDED.created_at
	`, code.Email, code.CodeHash, code.ExpiresAt, code.CreatedAt)
	return err
}

func (r *AdminCodeRepository) FindUnused(ctx context.Context, email string) (*entity.AdminCode, error) {
	var c entity.AdminCode
	err := r.DB.QueryRowContext(ctx, `
		SELECT email, code_hash, expires_at, used, created_at
		FROM admin_codes
		WHERE email = $1 AND NOT used
	`, email).Scan(&c.Email, &c.CodeHash, &c.ExpiresAt, &c.Used, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *AdminCodeRepository) MarkUsed(ctx context.Context, email string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE admin_codes SET used = TRUE WHERE email = $1 AND NOT used`, email)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
