package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/northpeak-digital/agency-api/internal/usecase"
)

type KeywordResearcher interface {
	Execute(ctx context.Context, input usecase.ResearchKeywordsInput) (*usecase.ResearchKeywordsOutput, error)
}

type KeywordHandler struct {
	Researcher KeywordResearcher
	Logger     *slog.Logger
}

func NewKeywordHandler(research KeywordResearcher, logger *slog.Logger) *KeywordHandler {
	return &KeywordHandler{Researcher: research, Logger: logger}
}

func (h *KeywordHandler) Research(w http.ResponseWriter, r *http.Request) {
	var input usecase.ResearchKeywordsInput
	if !decodeJSON(w, r, maxBodyBytes, &input) {
		return
	}
	out, err := h.Researcher.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
