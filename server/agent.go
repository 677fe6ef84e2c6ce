package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/taskmaster-ai/taskmaster-agent/agent/agents/orchestrator"
	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
)

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Response  string              `json:"response"`
	Success   bool                `json:"success"`
	ErrorKind contractx.ErrorKind `json:"error_kind,omitempty"`
}

type clearHistoryRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing_identity", "no verified identity")
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if userID := strings.TrimSpace(req.UserID); userID != "" && userID != identity.UserID {
		respondError(w, http.StatusForbidden, "user_mismatch", "user_id does not match token identity")
		return
	}

	outcome, err := s.agent.HandleMessage(r.Context(), identity.UserID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrInvalidMessage), errors.Is(err, orchestrator.ErrInvalidUser):
			respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			log.Error().Err(err).Str("user_id", identity.UserID).Msg("chat cycle failed")
			respondError(w, http.StatusInternalServerError, "internal_error", "could not process message")
		}
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{
		Response:  outcome.Text,
		Success:   outcome.Success,
		ErrorKind: outcome.ErrorKind,
	})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing_identity", "no verified identity")
		return
	}

	var req clearHistoryRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if userID := strings.TrimSpace(req.UserID); userID != "" && userID != identity.UserID {
		respondError(w, http.StatusForbidden, "user_mismatch", "user_id does not match token identity")
		return
	}

	s.agent.ClearHistory(identity.UserID)
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "conversation history cleared for " + identity.UserID,
	})
}
