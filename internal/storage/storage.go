// Package storage persists users, worlds, world-state documents, and the
// conversation log. The world-state document is versioned; CommitTurn is the
// only write path for a completed turn and it is atomic: either the message
// pair and the new document land together or nothing changes.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/virlife/worldsim/pkg/chat"
	"github.com/virlife/worldsim/pkg/world"
)

// ErrVersionConflict is returned by CommitTurn when the document changed
// under the caller. The caller reloads and retries.
var ErrVersionConflict = errors.New("world state version conflict")

// User is an account that owns worlds.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// World is one simulation instance belonging to a user.
type World struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines the persistence interface.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	// GetOrCreateUser resolves a user by name, creating one on first
	// contact. An empty name always creates a fresh anonymous user; the
	// returned ID is how the caller resumes the session.
	GetOrCreateUser(ctx context.Context, name string) (*User, error)

	// GetOrCreateWorld resolves the world for a request. A non-empty worldID
	// is looked up directly; otherwise the user's most recently updated
	// world is returned, and a fresh one is created if they have none.
	GetOrCreateWorld(ctx context.Context, worldID, userID string) (*World, error)

	// GetOrCreateWorldState loads the world's document, creating the fixed
	// initial snapshot on first access. The result is always migrated and
	// carries the version stamp CommitTurn checks against.
	GetOrCreateWorldState(ctx context.Context, worldID string) (*world.Document, error)

	// CommitTurn atomically appends the user/assistant message pair and
	// replaces the world document. The document's Version must match the
	// stored version or ErrVersionConflict is returned and nothing is
	// written.
	CommitTurn(ctx context.Context, worldID string, userMsg, assistantMsg chat.StoredMessage, doc *world.Document) error

	// RecentMessages returns up to limit messages for a world, oldest first.
	RecentMessages(ctx context.Context, worldID string, limit int) ([]chat.Message, error)
}
