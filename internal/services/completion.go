package services

import (
	"context"

	"github.com/virlife/worldsim/pkg/chat"
)

// CallParams tunes a single completion call. The pipeline uses two fixed
// presets: a creative one for voice generation and a structured one for
// state updates.
type CallParams struct {
	Temperature float64
	MaxTokens   int
}

// CreativeParams is the preset for expressive character output.
func CreativeParams() CallParams {
	return CallParams{Temperature: 0.85, MaxTokens: 2000}
}

// StructuredParams is the preset for deterministic JSON state updates.
func StructuredParams() CallParams {
	return CallParams{Temperature: 0.3, MaxTokens: 1500}
}

// CompletionService defines the interface for the LLM API.
type CompletionService interface {
	// InitModel prepares the backing model on startup.
	InitModel(ctx context.Context, modelName string) error

	// Complete runs one completion over the message sequence and returns
	// the raw text of the model's reply.
	Complete(ctx context.Context, messages []chat.Message, params CallParams) (string, error)
}
