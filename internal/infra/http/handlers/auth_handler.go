package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/northpeak-digital/agency-api/internal/infra/auth"
	"github.com/northpeak-digital/agency-api/internal/infra/http/middleware"
	"github.com/northpeak-digital/agency-api/internal/usecase"
)

type AdminAuthenticator interface {
	RequestCode(ctx context.Context, input usecase.RequestCodeInput) error
	VerifyCode(ctx context.Context, input usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	Auth          AdminAuthenticator
	SecureCookies bool
	Logger        *slog.Logger
}

func NewAuthHandler(a AdminAuthenticator, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{Auth: a, SecureCookies: secureCookies, Logger: logger}
}

type verifyResponse struct {
	Success   bool      `json:"success"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RequestCode answers the same way whether or not the email is an admin.
func (h *AuthHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var input usecase.RequestCodeInput
	if !decodeJSON(w, r, maxBodyBytes, &input) {
		return
	}
	if err := h.Auth.RequestCode(r.Context(), input); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var input usecase.VerifyCodeInput
	if !decodeJSON(w, r, maxBodyBytes, &input) {
		return
	}
	out, err := h.Auth.VerifyCode(r.Context(), input)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    out.Token,
		Path:     "/",
		Expires:  out.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, verifyResponse{Success: true, ExpiresAt: out.ExpiresAt})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		if err := h.Auth.Logout(r.Context(), token); err != nil {
			writeError(w, r, h.Logger, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
