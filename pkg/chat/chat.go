package chat

import (
	"fmt"
	"strings"
	"time"
)

const (
	RoleUser      = "user"      // George
	RoleAssistant = "assistant" // the world / Rebecca
	RoleSystem    = "system"    // instructions and context blocks
)

// Message is a single role-tagged prompt or history entry.
// The shape matches the chat-completion APIs consumed by internal/services.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StoredMessage is a persisted conversation entry, owned by a world.
type StoredMessage struct {
	ID        string    `json:"id"`
	WorldID   string    `json:"world_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TurnRequest is the chat endpoint request body. User and world IDs are
// optional; missing IDs resolve through the fetch-or-create chain.
type TurnRequest struct {
	UserID  string `json:"user_id,omitempty"`
	WorldID string `json:"world_id,omitempty"`
	Message string `json:"message"`
}

// TurnResponse is the visible result of one processed turn.
type TurnResponse struct {
	UserID  string `json:"user_id"`
	WorldID string `json:"world_id"`
	Reply   string `json:"reply"`
	Error   string `json:"error,omitempty"`
}

// Validate rejects requests before any pipeline work begins.
func (r *TurnRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	return nil
}
