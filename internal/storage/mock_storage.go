package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/virlife/worldsim/pkg/chat"
	"github.com/virlife/worldsim/pkg/world"
)

// MockStore is an in-memory Store for testing.
type MockStore struct {
	CommitTurnFunc func(ctx context.Context, worldID string, userMsg, assistantMsg chat.StoredMessage, doc *world.Document) error

	// Track calls for testing
	CommitTurnCalls int

	users    map[string]*User
	worlds   map[string]*World
	states   map[string]*world.Document
	versions map[string]int64
	messages map[string][]chat.StoredMessage

	mu sync.Mutex // protects all fields above
}

var _ Store = (*MockStore)(nil)

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		users:    make(map[string]*User),
		worlds:   make(map[string]*World),
		states:   make(map[string]*world.Document),
		versions: make(map[string]int64),
		messages: make(map[string][]chat.StoredMessage),
	}
}

func (m *MockStore) Ping(ctx context.Context) error { return nil }
func (m *MockStore) Close() error                   { return nil }

func (m *MockStore) GetOrCreateUser(ctx context.Context, name string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name != "" {
		if user, ok := m.users[name]; ok {
			return user, nil
		}
	}
	id := uuid.NewString()
	if name == "" {
		// Anonymous request: fresh user, id doubles as the name.
		name = id
	}
	user := &User{ID: id, Name: name, CreatedAt: time.Now()}
	m.users[name] = user
	return user, nil
}

func (m *MockStore) GetOrCreateWorld(ctx context.Context, worldID, userID string) (*World, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if worldID != "" {
		if w, ok := m.worlds[worldID]; ok {
			return w, nil
		}
	}
	var latest *World
	for _, w := range m.worlds {
		if w.UserID == userID && (latest == nil || w.UpdatedAt.After(latest.UpdatedAt)) {
			latest = w
		}
	}
	if latest != nil {
		return latest, nil
	}

	now := time.Now()
	created := &World{ID: uuid.NewString(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	m.worlds[created.ID] = created
	return created, nil
}

func (m *MockStore) GetOrCreateWorldState(ctx context.Context, worldID string) (*world.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc, ok := m.states[worldID]; ok {
		copied := *doc
		copied.Version = m.versions[worldID]
		return &copied, nil
	}
	doc := world.NewDocument()
	m.states[worldID] = doc
	m.versions[worldID] = 1
	copied := *doc
	copied.Version = 1
	return &copied, nil
}

func (m *MockStore) CommitTurn(ctx context.Context, worldID string, userMsg, assistantMsg chat.StoredMessage, doc *world.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CommitTurnCalls++

	if m.CommitTurnFunc != nil {
		return m.CommitTurnFunc(ctx, worldID, userMsg, assistantMsg, doc)
	}

	if m.versions[worldID] != doc.Version {
		return ErrVersionConflict
	}
	copied := *doc
	m.states[worldID] = &copied
	m.versions[worldID] = doc.Version + 1
	m.messages[worldID] = append(m.messages[worldID], userMsg, assistantMsg)
	doc.Version++
	return nil
}

func (m *MockStore) RecentMessages(ctx context.Context, worldID string, limit int) ([]chat.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.messages[worldID]
	if len(stored) > limit {
		stored = stored[len(stored)-limit:]
	}
	messages := make([]chat.Message, 0, len(stored))
	for _, s := range stored {
		messages = append(messages, chat.Message{Role: s.Role, Content: s.Content})
	}
	return messages, nil
}

// SeedState installs a document at version 1 for a world.
func (m *MockStore) SeedState(worldID string, doc *world.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[worldID] = doc
	m.versions[worldID] = 1
}
