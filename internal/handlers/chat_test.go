package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/virlife/worldsim/internal/engine"
	"github.com/virlife/worldsim/pkg/chat"
	"github.com/virlife/worldsim/pkg/world"
)

// mockTurnService implements TurnService for handler tests.
type mockTurnService struct {
	RunTurnFunc    func(ctx context.Context, req chat.TurnRequest) (*chat.TurnResponse, error)
	WorldStateFunc func(ctx context.Context, userID, worldID string) (*engine.WorldSnapshot, error)
	PingErr        error
}

func (m *mockTurnService) RunTurn(ctx context.Context, req chat.TurnRequest) (*chat.TurnResponse, error) {
	if m.RunTurnFunc != nil {
		return m.RunTurnFunc(ctx, req)
	}
	return &chat.TurnResponse{UserID: req.UserID, WorldID: "w1", Reply: "Rebecca: \"Hm?\""}, nil
}

func (m *mockTurnService) WorldState(ctx context.Context, userID, worldID string) (*engine.WorldSnapshot, error) {
	if m.WorldStateFunc != nil {
		return m.WorldStateFunc(ctx, userID, worldID)
	}
	return &engine.WorldSnapshot{
		UserID:   userID,
		WorldID:  "w1",
		Document: world.NewDocument(),
		Messages: []chat.Message{
			{Role: chat.RoleUser, Content: "Morning."},
			{Role: chat.RoleAssistant, Content: `Rebecca: "Hm?"`},
		},
	}, nil
}

func (m *mockTurnService) Ping(ctx context.Context) error { return m.PingErr }

func (m *mockTurnService) Stats() engine.StatsSnapshot { return engine.StatsSnapshot{} }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestChatHandler_Success(t *testing.T) {
	handler := NewChatHandler(&mockTurnService{}, testLogger())

	body, _ := json.Marshal(chat.TurnRequest{UserID: "george", Message: "Morning."})
	req := httptest.NewRequest(http.MethodPost, "/v1/world/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp chat.TurnResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Reply == "" {
		t.Error("Expected a non-empty reply")
	}
	if resp.WorldID != "w1" {
		t.Errorf("Expected world ID 'w1', got %q", resp.WorldID)
	}
}

func TestChatHandler_InvalidBody(t *testing.T) {
	handler := NewChatHandler(&mockTurnService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/world/chat", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestChatHandler_EmptyMessage(t *testing.T) {
	svc := &mockTurnService{
		RunTurnFunc: func(ctx context.Context, req chat.TurnRequest) (*chat.TurnResponse, error) {
			t.Error("RunTurn should not be called for an empty message")
			return nil, nil
		},
	}
	handler := NewChatHandler(svc, testLogger())

	body, _ := json.Marshal(chat.TurnRequest{UserID: "george", Message: "   "})
	req := httptest.NewRequest(http.MethodPost, "/v1/world/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestChatHandler_EngineError(t *testing.T) {
	svc := &mockTurnService{
		RunTurnFunc: func(ctx context.Context, req chat.TurnRequest) (*chat.TurnResponse, error) {
			return nil, errors.New("boom")
		},
	}
	handler := NewChatHandler(svc, testLogger())

	body, _ := json.Marshal(chat.TurnRequest{UserID: "george", Message: "Morning."})
	req := httptest.NewRequest(http.MethodPost, "/v1/world/chat", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}

	var resp chat.TurnResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error == "" {
		t.Error("Expected an error message in the response")
	}
}

func TestStateHandler(t *testing.T) {
	handler := NewStateHandler(&mockTurnService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/world/state?user_id=george", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp StateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.State == nil {
		t.Fatal("Expected a world state in the response")
	}
	if resp.State.Locations.Rebecca != world.LocKitchen {
		t.Errorf("Expected Rebecca in the kitchen, got %s", resp.State.Locations.Rebecca)
	}
	if resp.UserID != "george" || resp.WorldID != "w1" {
		t.Errorf("Expected resolved ids in the response, got %s/%s", resp.UserID, resp.WorldID)
	}
	if len(resp.Messages) != 2 {
		t.Errorf("Expected the recent transcript, got %d messages", len(resp.Messages))
	}
}

func TestStateHandler_MissingUserID(t *testing.T) {
	handler := NewStateHandler(&mockTurnService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/world/state", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestStateHandler_EngineError(t *testing.T) {
	svc := &mockTurnService{
		WorldStateFunc: func(ctx context.Context, userID, worldID string) (*engine.WorldSnapshot, error) {
			return nil, errors.New("boom")
		},
	}
	handler := NewStateHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/world/state?user_id=george", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}

	var resp StateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error == "" {
		t.Error("Expected an error message in the response")
	}
}

func TestHealthHandler(t *testing.T) {
	handler := NewHealthHandler(&mockTurnService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got %q", resp.Status)
	}
}

func TestHealthHandler_StorageDown(t *testing.T) {
	handler := NewHealthHandler(&mockTurnService{PingErr: errors.New("down")}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
}
