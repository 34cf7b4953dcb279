package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/northpeak-digital/agency-api/internal/entity"
	"github.com/northpeak-digital/agency-api/internal/usecase"
)

type SettingsManager interface {
	ListAddons(ctx context.Context) ([]*entity.AddonSetting, error)
	ListActiveAddons(ctx context.Context) ([]*entity.AddonSetting, error)
	ListTemplates(ctx context.Context) ([]*entity.IndustryTemplate, error)
	SaveAddons(ctx context.Context, input usecase.SaveAddonsInput) (*usecase.SaveBatchOutput, error)
	SaveTemplates(ctx context.Context, input usecase.SaveTemplatesInput) (*usecase.SaveBatchOutput, error)
}

type batchErrorResponse struct {
	ErrorResponse
	Results []usecase.RowResult `json:"results"`
}

type SettingsHandler struct {
	Settings SettingsManager
	Logger   *slog.Logger
}

func NewSettingsHandler(settings SettingsManager, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{Settings: settings, Logger: logger}
}

// ActiveAddons is public; the signature page prices from it.
func (h *SettingsHandler) ActiveAddons(w http.ResponseWriter, r *http.Request) {
	addons, err := h.Settings.ListActiveAddons(r.Context())
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"addons": addons})
}

func (h *SettingsHandler) ListAddons(w http.ResponseWriter, r *http.Request) {
	addons, err := h.Settings.ListAddons(r.Context())
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"addons": addons})
}

func (h *SettingsHandler) SaveAddons(w http.ResponseWriter, r *http.Request) {
	var input usecase.SaveAddonsInput
	if !decodeJSON(w, r, maxBodyBytes, &input) {
		return
	}
	out, err := h.Settings.SaveAddons(r.Context(), input)
	h.writeBatch(w, r, out, err)
}

func (h *SettingsHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Settings.ListTemplates(r.Context())
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

func (h *SettingsHandler) SaveTemplates(w http.ResponseWriter, r *http.Request) {
	var input usecase.SaveTemplatesInput
	if !decodeJSON(w, r, maxBodyBytes, &input) {
		return
	}
	out, err := h.Settings.SaveTemplates(r.Context(), input)
	h.writeBatch(w, r, out, err)
}

// writeBatch returns the per-row results with a 400 when any row was rejected.
func (h *SettingsHandler) writeBatch(w http.ResponseWriter, r *http.Request, out *usecase.SaveBatchOutput, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) && de.Code == usecase.CodeValidation && out != nil {
		writeJSON(w, http.StatusBadRequest, batchErrorResponse{
			ErrorResponse: ErrorResponse{Error: "validation failed", Code: de.Code, Fields: de.Fields},
			Results:       out.Results,
		})
		return
	}
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
