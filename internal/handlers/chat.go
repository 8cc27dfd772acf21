package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/virlife/worldsim/internal/engine"
	"github.com/virlife/worldsim/internal/logger"
	"github.com/virlife/worldsim/pkg/chat"
)

// TurnService is what the HTTP layer needs from the engine.
type TurnService interface {
	RunTurn(ctx context.Context, req chat.TurnRequest) (*chat.TurnResponse, error)
	WorldState(ctx context.Context, userID, worldID string) (*engine.WorldSnapshot, error)
	Ping(ctx context.Context) error
	Stats() engine.StatsSnapshot
}

// ChatHandler handles turn requests
type ChatHandler struct {
	turns  TurnService
	logger *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(turns TurnService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		turns:  turns,
		logger: logger,
	}
}

// ServeHTTP handles HTTP requests for chat
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var request chat.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeJSON(w, h.logger, http.StatusBadRequest, chat.TurnResponse{
			Error: "Invalid request body. Expected JSON with 'user_id' and 'message' fields.",
		})
		return
	}

	if err := request.Validate(); err != nil {
		h.logger.Warn("Invalid turn request", "error", err)
		writeJSON(w, h.logger, http.StatusBadRequest, chat.TurnResponse{
			UserID:  request.UserID,
			WorldID: request.WorldID,
			Error:   err.Error(),
		})
		return
	}

	h.logger.Info("Turn requested",
		"user_id", request.UserID,
		"world_id", request.WorldID,
		"remote_addr", r.RemoteAddr)

	response, err := h.turns.RunTurn(r.Context(), request)
	if err != nil {
		logger.WithError(h.logger, err).Error("Error running turn", "user_id", request.UserID)
		writeJSON(w, h.logger, http.StatusInternalServerError, chat.TurnResponse{
			UserID:  request.UserID,
			WorldID: request.WorldID,
			Error:   "Failed to process turn. Please try again.",
		})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Error encoding response", "error", err)
	}
}
