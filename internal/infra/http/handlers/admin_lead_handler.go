package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/northpeak-digital/agency-api/internal/entity"
	"github.com/northpeak-digital/agency-api/internal/infra/export"
)

// exportLimit caps a spreadsheet export.
const exportLimit = 5000

type AdminLeadHandler struct {
	Lifecycle ProposalLifecycle
	Logger    *slog.Logger
}

func NewAdminLeadHandler(lifecycle ProposalLifecycle, logger *slog.Logger) *AdminLeadHandler {
	return &AdminLeadHandler{Lifecycle: lifecycle, Logger: logger}
}

type leadStatusRequest struct {
	Status string `json:"status"`
}

func leadFilter(r *http.Request) entity.LeadFilter {
	q := r.URL.Query()
	return entity.LeadFilter{
		Status:   entity.LeadStatus(q.Get("status")),
		Industry: entity.Industry(q.Get("industry")),
		LeadType: entity.LeadType(q.Get("lead_type")),
		Limit:    queryLimit(r),
	}
}

func (h *AdminLeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Lifecycle.ListLeads(r.Context(), leadFilter(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

// Export streams the filtered leads as an XLSX workbook.
func (h *AdminLeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter := leadFilter(r)
	if filter.Limit == 0 || filter.Limit > exportLimit {
		filter.Limit = exportLimit
	}
	leads, err := h.Lifecycle.ListLeads(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	filename := fmt.Sprintf("leads-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteLeadsXLSX(w, leads); err != nil {
		// headers are gone; all we can do is log
		h.Logger.Error("lead export failed", "error", err, "rows", len(leads))
	}
}

func (h *AdminLeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req leadStatusRequest
	if !decodeJSON(w, r, maxBodyBytes, &req) {
		return
	}
	lead, err := h.Lifecycle.UpdateLeadStatus(r.Context(), chi.URLParam(r, "id"), entity.LeadStatus(req.Status))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *AdminLeadHandler) MarkLost(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Lifecycle.MarkLeadLost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}
