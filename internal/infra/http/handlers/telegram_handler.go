package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/northpeak-digital/agency-api/internal/entity"
	"github.com/northpeak-digital/agency-api/internal/infra/integration/telegram"
	"github.com/northpeak-digital/agency-api/internal/usecase"
)

const telegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

type TelegramBot interface {
	SendMessage(ctx context.Context, msg telegram.Message) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// TelegramHandler turns inline-button presses in the team chat into admin actions.
type TelegramHandler struct {
	Bot       TelegramBot
	Generate  ProposalGenerator
	Lifecycle ProposalLifecycle
	Secret    string
	Logger    *slog.Logger
}

func NewTelegramHandler(bot TelegramBot, generate ProposalGenerator, lifecycle ProposalLifecycle, secret string, logger *slog.Logger) *TelegramHandler {
	return &TelegramHandler{Bot: bot, Generate: generate, Lifecycle: lifecycle, Secret: secret, Logger: logger}
}

// Handle always acknowledges authenticated updates with 200 so Telegram
// does not redeliver them. Failures are reported back into the chat.
func (h *TelegramHandler) Handle(w http.ResponseWriter, r *http.Request) {
	got := r.Header.Get(telegramSecretHeader)
	if h.Secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) != 1 {
		writeErrorResponse(w, http.StatusUnauthorized, usecase.CodeUnauthorized, "unauthorized")
		return
	}

	var update telegram.Update
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.Logger.Warn("telegram update not decodable", "error", err)
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
		return
	}

	if cb := update.CallbackQuery; cb != nil {
		reply := h.handleCallback(r.Context(), cb)
		if err := h.Bot.AnswerCallback(r.Context(), cb.ID, reply); err != nil {
			h.Logger.Warn("telegram answer failed", "error", err, "update_id", update.UpdateID)
		}
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *TelegramHandler) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) string {
	parts := strings.SplitN(cb.Data, ":", 3)
	if len(parts) != 3 || parts[2] == "" {
		return "Unknown action"
	}
	action, leadID := parts[0]+":"+parts[1], parts[2]
	log := h.Logger.With("action", action, "lead_id", leadID, "from", cb.From.Username)

	switch action {
	case "proposal:generate":
		out, err := h.Generate.Execute(ctx, usecase.GenerateProposalInput{LeadID: leadID, ReuseOpen: true})
		if err != nil {
			log.Error("telegram proposal generation failed", "error", err)
			return "Could not generate proposal: " + publicMessage(err)
		}
		if out.Existing {
			log.Info("telegram generate skipped, open proposal exists", "proposal_id", out.ProposalID)
			return "Lead already has an open proposal: " + out.ProposalURL
		}
		msg := telegram.Message{
			Text:    fmt.Sprintf("📝 Proposal draft ready for lead <code>%s</code>", telegram.Escape(leadID)),
			Buttons: [][]telegram.Button{{{Text: "Open proposal", URL: out.ProposalURL}}},
		}
		if err := h.Bot.SendMessage(ctx, msg); err != nil {
			log.Warn("telegram follow-up failed", "error", err)
		}
		log.Info("proposal generated from chat", "proposal_id", out.ProposalID)
		return "Proposal created"

	case "lead:contacted":
		if _, err := h.Lifecycle.UpdateLeadStatus(ctx, leadID, entity.LeadStatusContacted); err != nil {
			log.Error("telegram lead update failed", "error", err)
			return "Could not update lead: " + publicMessage(err)
		}
		log.Info("lead marked contacted from chat")
		return "Marked as contacted"
	}
	return "Unknown action"
}

// publicMessage keeps technical causes out of the chat.
func publicMessage(err error) string {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}
