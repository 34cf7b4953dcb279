package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/northpeak-digital/agency-api/internal/infra/http/middleware"
	"github.com/northpeak-digital/agency-api/internal/usecase"
)

type CheckoutProcessor interface {
	Execute(ctx context.Context, input usecase.CheckoutInput) (*usecase.CheckoutOutput, error)
}

type CheckoutHandler struct {
	Checkout CheckoutProcessor
	Logger   *slog.Logger
}

func NewCheckoutHandler(checkout CheckoutProcessor, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{Checkout: checkout, Logger: logger}
}

// Handle signs the proposal and opens the subscription. Replaying the same
// idempotency key returns the stored result.
func (h *CheckoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.CheckoutInput
	if !decodeJSON(w, r, maxCheckoutBodyBytes, &input) {
		return
	}
	input.IPAddress = middleware.ClientIP(r)
	input.UserAgent = r.UserAgent()

	out, err := h.Checkout.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	middleware.RecordProposalSigned()
	writeJSON(w, http.StatusOK, out)
}
