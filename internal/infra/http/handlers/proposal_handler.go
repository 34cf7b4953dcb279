package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/northpeak-digital/agency-api/internal/entity"
	"github.com/northpeak-digital/agency-api/internal/infra/http/middleware"
	"github.com/northpeak-digital/agency-api/internal/usecase"
)

type ProposalGenerator interface {
	Execute(ctx context.Context, input usecase.GenerateProposalInput) (*usecase.GenerateProposalOutput, error)
}

// ProposalLifecycle is the part of the lifecycle use case the HTTP layer needs.
type ProposalLifecycle interface {
	GetBySlug(ctx context.Context, slug string) (*entity.Proposal, error)
	SendProposal(ctx context.Context, id string) (*entity.Proposal, error)
	MarkViewed(ctx context.Context, slug string) (*usecase.MarkViewedOutput, error)
	ListProposals(ctx context.Context, limit int) ([]*entity.Proposal, error)
	ListLeads(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error)
	UpdateLeadStatus(ctx context.Context, leadID string, status entity.LeadStatus) (*entity.Lead, error)
	MarkLeadLost(ctx context.Context, leadID string) (*entity.Lead, error)
}

type ProposalHandler struct {
	Generate  ProposalGenerator
	Lifecycle ProposalLifecycle
	Logger    *slog.Logger
}

func NewProposalHandler(generate ProposalGenerator, lifecycle ProposalLifecycle, logger *slog.Logger) *ProposalHandler {
	return &ProposalHandler{Generate: generate, Lifecycle: lifecycle, Logger: logger}
}

// GetBySlug serves the public proposal page.
func (h *ProposalHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.Lifecycle.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProposalHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	out, err := h.Lifecycle.MarkViewed(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.Lifecycle.ListProposals(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"proposals": proposals})
}

func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.GenerateProposalInput
	if !decodeJSON(w, r, maxBodyBytes, &input) {
		return
	}
	out, err := h.Generate.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	middleware.RecordProposalGenerated(string(out.Status))
	writeJSON(w, http.StatusCreated, out)
}

func (h *ProposalHandler) Send(w http.ResponseWriter, r *http.Request) {
	p, err := h.Lifecycle.SendProposal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// queryLimit reads ?limit=, ignoring values that are not positive integers.
func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
