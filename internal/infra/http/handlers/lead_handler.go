package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/northpeak-digital/agency-api/internal/infra/http/middleware"
	"github.com/northpeak-digital/agency-api/internal/usecase"
)

type LeadCreator interface {
	Execute(ctx context.Context, input usecase.CreateLeadInput) (*usecase.CreateLeadOutput, error)
}

type LeadHandler struct {
	CreateLead LeadCreator
	Logger     *slog.Logger
}

func NewLeadHandler(createLead LeadCreator, logger *slog.Logger) *LeadHandler {
	return &LeadHandler{CreateLead: createLead, Logger: logger}
}

// Create handles POST /api/leads.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if !decodeJSON(w, r, maxBodyBytes, &input) {
		return
	}

	output, err := h.CreateLead.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	middleware.RecordLead(string(output.Lead.Industry), string(output.Lead.LeadType))
	writeJSON(w, http.StatusCreated, output)
}
