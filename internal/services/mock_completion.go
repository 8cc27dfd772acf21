package services

import (
	"context"
	"sync"

	"github.com/virlife/worldsim/pkg/chat"
)

// MockCompletionService is a mock implementation of CompletionService for
// testing
type MockCompletionService struct {
	InitModelFunc func(ctx context.Context, modelName string) error
	CompleteFunc  func(ctx context.Context, messages []chat.Message, params CallParams) (string, error)

	// Track calls for testing
	InitModelCalls []string
	CompleteCalls  []CompleteCall

	mu sync.Mutex // protects all fields above
}

type CompleteCall struct {
	Messages []chat.Message
	Params   CallParams
}

// NewMockCompletionService creates a new mock completion service
func NewMockCompletionService() *MockCompletionService {
	return &MockCompletionService{
		InitModelCalls: make([]string, 0),
		CompleteCalls:  make([]CompleteCall, 0),
	}
}

// InitModel mocks model initialization
func (m *MockCompletionService) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)

	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

// Complete mocks a completion call
func (m *MockCompletionService) Complete(ctx context.Context, messages []chat.Message, params CallParams) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompleteCalls = append(m.CompleteCalls, CompleteCall{
		Messages: messages,
		Params:   params,
	})

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages, params)
	}

	return "Mock response", nil
}

// Reset clears all call tracking
func (m *MockCompletionService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = make([]string, 0)
	m.CompleteCalls = make([]CompleteCall, 0)
}

// SetCompleteError sets up the mock to return an error on Complete
func (m *MockCompletionService) SetCompleteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteFunc = func(ctx context.Context, messages []chat.Message, params CallParams) (string, error) {
		return "", err
	}
}

// SetResponses queues fixed replies returned in order; the last one repeats
// once the queue is exhausted.
func (m *MockCompletionService) SetResponses(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := 0
	m.CompleteFunc = func(ctx context.Context, messages []chat.Message, params CallParams) (string, error) {
		r := responses[idx]
		if idx < len(responses)-1 {
			idx++
		}
		return r, nil
	}
}

// GetCalls returns a copy of the call tracking data in a thread-safe way
func (m *MockCompletionService) GetCalls() ([]string, []CompleteCall) {
	m.mu.Lock()
	defer m.mu.Unlock()

	initCalls := make([]string, len(m.InitModelCalls))
	copy(initCalls, m.InitModelCalls)

	completeCalls := make([]CompleteCall, len(m.CompleteCalls))
	copy(completeCalls, m.CompleteCalls)

	return initCalls, completeCalls
}
