package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/northpeak-digital/agency-api/internal/entity"
)

const AdminCodeTTL = 5 * time.Minute

type AdminAuthUseCase struct {
	Codes      entity.AdminCodeRepositoryInterface
	Admins     AdminDirectory
	Sessions   SessionIssuer
	Mailer     CodeMailer
	Logger     *slog.Logger
	Now        func() time.Time
	bcryptCost int
}

func NewAdminAuthUseCase(
	codes entity.AdminCodeRepositoryInterface,
	admins AdminDirectory,
	sessions SessionIssuer,
	mailer CodeMailer,
	logger *slog.Logger,
) *AdminAuthUseCase {
	return &AdminAuthUseCase{
		Codes:      codes,
		Admins:     admins,
		Sessions:   sessions,
		Mailer:     mailer,
		Logger:     logger,
		Now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// RequestCode answers the same way for unknown emails so the endpoint cannot
// be used to discover admin addresses.
func (uc *AdminAuthUseCase) RequestCode(ctx context.Context, input RequestCodeInput) error {
	if errs := validateStruct(input); len(errs) > 0 {
		return validationFailed(errs)
	}
	email := normalizeEmail(input.Email)
	if !uc.Admins.IsAdmin(email) {
		uc.Logger.Warn("admin code requested for unknown email")
		return nil
	}

	code, err := generateCode()
	if err != nil {
		return technical("CODE_GENERATION_ERROR", "failed to issue login code", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), uc.bcryptCost)
	if err != nil {
		return technical("CODE_GENERATION_ERROR", "failed to issue login code", err)
	}

	now := uc.Now().UTC()
	if err := uc.Codes.Upsert(ctx, &entity.AdminCode{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(AdminCodeTTL),
		CreatedAt: now,
	}); err != nil {
		return technical("DATABASE_ERROR", "failed to issue login code", err)
	}

	if err := uc.Mailer.SendAdminCode(ctx, email, code, AdminCodeTTL); err != nil {
		return technical("MAIL_ERROR", "failed to send login code", err)
	}
	return nil
}

func (uc *AdminAuthUseCase) VerifyCode(ctx context.Context, input VerifyCodeInput) (*VerifyCodeOutput, error) {
	if errs := validateStruct(input); len(errs) > 0 {
		return nil, unauthorized()
	}
	email := normalizeEmail(input.Email)
	if !uc.Admins.IsAdmin(email) {
		return nil, unauthorized()
	}

	row, err := uc.Codes.FindUnused(ctx, email)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, unauthorized()
	}
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to verify login code", err)
	}
	if row.Expired(uc.Now()) {
		return nil, unauthorized()
	}
	if bcrypt.CompareHashAndPassword([]byte(row.CodeHash), []byte(input.Code)) != nil {
		return nil, unauthorized()
	}

	// the conditional update is what makes the code single use
	marked, err := uc.Codes.MarkUsed(ctx, email)
	if err != nil {
		return nil, technical("DATABASE_ERROR", "failed to verify login code", err)
	}
	if !marked {
		return nil, unauthorized()
	}

	token, expiresAt, err := uc.Sessions.Issue(email)
	if err != nil {
		return nil, technical("SESSION_ERROR", "failed to create session", err)
	}
	uc.Logger.Info("admin session issued", "email", email)
	return &VerifyCodeOutput{Token: token, ExpiresAt: expiresAt}, nil
}

func (uc *AdminAuthUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := uc.Sessions.Revoke(ctx, token); err != nil {
		return technical("SESSION_ERROR", "failed to revoke session", err)
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
