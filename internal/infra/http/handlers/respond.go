package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/northpeak-digital/agency-api/internal/infra/http/middleware"
	"github.com/northpeak-digital/agency-api/internal/usecase"
)

const maxBodyBytes = 1 << 20

// checkout bodies carry a signature image
const maxCheckoutBodyBytes = 4 << 20

type ErrorResponse struct {
	Error  string                    `json:"error"`
	Code   string                    `json:"code,omitempty"`
	Fields []usecase.ValidationError `json:"fields,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// decodeJSON rejects unknown content, trailing data and oversized bodies.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorResponse(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body too large")
			return false
		}
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return false
	}
	if dec.Decode(&struct{}{}) != io.EOF {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return false
	}
	return true
}

// writeError maps use case errors to status codes. Technical causes are
// logged and reported, never returned.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeNotFound:
			status = http.StatusNotFound
		case usecase.CodeUnauthorized:
			status = http.StatusUnauthorized
		case usecase.CodeInvalidTransition:
			status = http.StatusConflict
		}
		msg := de.Message
		if de.Code == usecase.CodeValidation {
			msg = "validation failed"
		}
		writeJSON(w, status, ErrorResponse{Error: msg, Code: de.Code, Fields: de.Fields})
		return
	}

	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	msg := "internal server error"
	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		code, msg = te.Code, te.Message
		switch te.Code {
		case "BILLING_ERROR":
			status = http.StatusBadGateway
			middleware.RecordIntegrationError("stripe")
		case "KEYWORD_PROVIDER_ERROR":
			status = http.StatusBadGateway
			middleware.RecordIntegrationError("keyword_provider")
		case "MAIL_ERROR":
			middleware.RecordIntegrationError("mail")
		}
	}

	logger.Error("request failed", "error", err, "code", code, "path", r.URL.Path)
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("error_code", code)
			hub.CaptureException(err)
		})
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}
