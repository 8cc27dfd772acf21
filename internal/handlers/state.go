package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/virlife/worldsim/internal/logger"
	"github.com/virlife/worldsim/pkg/chat"
	"github.com/virlife/worldsim/pkg/world"
)

// StateResponse wraps the world document and recent transcript for
// inspection clients.
type StateResponse struct {
	UserID   string          `json:"user_id,omitempty"`
	WorldID  string          `json:"world_id"`
	State    *world.Document `json:"state,omitempty"`
	Messages []chat.Message  `json:"messages,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// StateHandler serves the current world document read-only.
type StateHandler struct {
	turns  TurnService
	logger *slog.Logger
}

// NewStateHandler creates a new state handler
func NewStateHandler(turns TurnService, logger *slog.Logger) *StateHandler {
	return &StateHandler{
		turns:  turns,
		logger: logger,
	}
}

func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID := r.URL.Query().Get("user_id")
	worldID := r.URL.Query().Get("world_id")
	if userID == "" {
		writeJSON(w, h.logger, http.StatusBadRequest, StateResponse{
			Error: "user_id query parameter is required",
		})
		return
	}

	snapshot, err := h.turns.WorldState(r.Context(), userID, worldID)
	if err != nil {
		logger.WithError(h.logger, err).Error("Error loading world state", "user_id", userID)
		writeJSON(w, h.logger, http.StatusInternalServerError, StateResponse{
			WorldID: worldID,
			Error:   "Failed to load world state.",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	response := StateResponse{
		UserID:   snapshot.UserID,
		WorldID:  snapshot.WorldID,
		State:    snapshot.Document,
		Messages: snapshot.Messages,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding state response", "error", err)
	}
}
