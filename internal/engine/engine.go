// Package engine orchestrates one conversational turn: prompt assembly,
// creative generation with validation retries, the structured state update,
// the character state transition, and the atomic commit.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/virlife/worldsim/internal/services"
	"github.com/virlife/worldsim/internal/storage"
	"github.com/virlife/worldsim/pkg/character"
	"github.com/virlife/worldsim/pkg/chat"
	"github.com/virlife/worldsim/pkg/identity"
	"github.com/virlife/worldsim/pkg/prompts"
	"github.com/virlife/worldsim/pkg/world"
)

// Config tunes the turn pipeline.
type Config struct {
	// CharacterID selects the validator rule set.
	CharacterID string

	// Mode selects expression or narration prompt assembly.
	Mode prompts.Mode

	// HistoryWindow is how many stored messages enter the prompt.
	HistoryWindow int

	// MaxAttempts bounds the generate/validate loop. The last attempt's
	// output is accepted even when validation still flags issues.
	MaxAttempts int

	GenerateTimeout time.Duration
	UpdateTimeout   time.Duration
}

// DefaultConfig returns the production pipeline settings.
func DefaultConfig() Config {
	return Config{
		CharacterID:     "rebecca",
		Mode:            prompts.ModeExpression,
		HistoryWindow:   prompts.DefaultHistoryWindow,
		MaxAttempts:     3,
		GenerateTimeout: 60 * time.Second,
		UpdateTimeout:   30 * time.Second,
	}
}

// Engine runs turns. One engine serves all worlds; turns for the same world
// are serialized through per-world locks.
type Engine struct {
	store     storage.Store
	llm       services.CompletionService
	validator *identity.Validator
	templates prompts.Templates
	cfg       Config
	logger    *slog.Logger
	locks     *worldLocks
	stats     Stats
}

// New creates an engine.
func New(store storage.Store, llm services.CompletionService, validator *identity.Validator, logger *slog.Logger, cfg Config) *Engine {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = prompts.DefaultHistoryWindow
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Engine{
		store:     store,
		llm:       llm,
		validator: validator,
		templates: prompts.DefaultTemplates(),
		cfg:       cfg,
		logger:    logger,
		locks:     newWorldLocks(),
	}
}

// SetTemplates overrides the static prompt texts.
func (e *Engine) SetTemplates(t prompts.Templates) {
	e.templates = t
}

// Stats returns a snapshot of the pipeline counters.
func (e *Engine) Stats() StatsSnapshot {
	return e.stats.Snapshot()
}

// RunTurn processes one user message end to end and returns the reply. The
// request is validated before any model call; an empty message costs
// nothing.
func (e *Engine) RunTurn(ctx context.Context, req chat.TurnRequest) (*chat.TurnResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := e.store.GetOrCreateUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	w, err := e.store.GetOrCreateWorld(ctx, req.WorldID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve world: %w", err)
	}

	lock := e.locks.get(w.ID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := e.store.GetOrCreateWorldState(ctx, w.ID)
	if err != nil {
		return nil, fmt.Errorf("load world state: %w", err)
	}

	charState := character.Deserialize(doc.CharacterState)

	history, err := e.store.RecentMessages(ctx, w.ID, e.cfg.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	reply, issues, err := e.generate(ctx, doc, charState, history, req.Message)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		e.stats.AcceptedWithIssues.Add(1)
		e.logger.Warn("accepting output with unresolved validation issues",
			"world_id", w.ID, "issues", issues)
	}

	next := e.updateState(ctx, w.ID, doc, req.Message, reply)

	charState = character.Transition(charState, character.TurnContext{
		UserInput: req.Message,
		Reply:     reply,
		Location:  next.Locations.Rebecca,
		TimeOfDay: next.Time.TimeOfDay,
	})
	next.CharacterState = character.Serialize(charState)

	now := time.Now()
	userMsg := chat.StoredMessage{
		ID:        uuid.NewString(),
		WorldID:   w.ID,
		Role:      chat.RoleUser,
		Content:   req.Message,
		CreatedAt: now,
	}
	assistantMsg := chat.StoredMessage{
		ID:        uuid.NewString(),
		WorldID:   w.ID,
		Role:      chat.RoleAssistant,
		Content:   reply,
		CreatedAt: now,
	}

	if err := e.store.CommitTurn(ctx, w.ID, userMsg, assistantMsg, next); err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			e.stats.VersionConflicts.Add(1)
		}
		return nil, fmt.Errorf("commit turn: %w", err)
	}

	e.stats.TurnsTotal.Add(1)
	return &chat.TurnResponse{
		UserID:  user.ID,
		WorldID: w.ID,
		Reply:   reply,
	}, nil
}

// stateMessageWindow is how many recent messages a state read returns.
const stateMessageWindow = 20

// WorldSnapshot is the read-only view of a world: the resolved ids, the
// current document, and the recent transcript.
type WorldSnapshot struct {
	UserID   string
	WorldID  string
	Document *world.Document
	Messages []chat.Message
}

// WorldState loads the current snapshot for a world without running a turn.
func (e *Engine) WorldState(ctx context.Context, userID, worldID string) (*WorldSnapshot, error) {
	user, err := e.store.GetOrCreateUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	w, err := e.store.GetOrCreateWorld(ctx, worldID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve world: %w", err)
	}
	doc, err := e.store.GetOrCreateWorldState(ctx, w.ID)
	if err != nil {
		return nil, fmt.Errorf("load world state: %w", err)
	}
	messages, err := e.store.RecentMessages(ctx, w.ID, stateMessageWindow)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return &WorldSnapshot{
		UserID:   user.ID,
		WorldID:  w.ID,
		Document: doc,
		Messages: messages,
	}, nil
}

// Ping reports store health.
func (e *Engine) Ping(ctx context.Context) error {
	return e.store.Ping(ctx)
}

// generate runs the creative call under the validation retry loop. It
// returns the accepted reply, plus any issues still attached when the
// attempt budget ran out.
func (e *Engine) generate(ctx context.Context, doc *world.Document, charState character.State, history []chat.Message, input string) (string, []string, error) {
	base, err := prompts.New().
		WithTemplates(e.templates).
		WithMode(e.cfg.Mode).
		WithWorld(doc).
		WithCharacterState(&charState).
		WithHistory(history).
		WithHistoryLimit(e.cfg.HistoryWindow).
		WithUserMessage(input).
		Build()
	if err != nil {
		return "", nil, fmt.Errorf("build prompt: %w", err)
	}

	messages := base
	var lastIssues []string

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, e.cfg.GenerateTimeout)
		reply, err := e.llm.Complete(callCtx, messages, services.CreativeParams())
		cancel()
		if err != nil {
			return "", nil, fmt.Errorf("generate attempt %d: %w", attempt, err)
		}

		result := e.validator.Validate(e.cfg.CharacterID, reply)
		if result.Valid {
			return reply, nil, nil
		}
		lastIssues = result.Issues

		if attempt == e.cfg.MaxAttempts {
			return reply, lastIssues, nil
		}

		e.stats.ValidationRetries.Add(1)
		e.logger.Debug("retrying generation after validation failure",
			"attempt", attempt, "issues", result.Issues)

		// Name the violations, show the model its rejected output, and
		// re-assert the user's turn.
		messages = append(append([]chat.Message{}, base...),
			prompts.CorrectionMessage(result.Issues),
			chat.Message{Role: chat.RoleAssistant, Content: reply},
			chat.Message{Role: chat.RoleUser, Content: input},
		)
	}

	// Unreachable: the loop always returns on its final attempt.
	return "", lastIssues, fmt.Errorf("generation exhausted %d attempts", e.cfg.MaxAttempts)
}

// updateState runs the structured call and parses the result into the next
// document. Any failure along the way keeps the prior document unchanged;
// a stale world is recoverable, a corrupted one is not.
func (e *Engine) updateState(ctx context.Context, worldID string, doc *world.Document, input, reply string) *world.Document {
	prior, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		e.logger.Error("marshal prior state", "world_id", worldID, "error", err)
		e.stats.StateUpdateFailures.Add(1)
		return doc
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.UpdateTimeout)
	raw, err := e.llm.Complete(callCtx, prompts.StateUpdateMessages(string(prior), input, reply), services.StructuredParams())
	cancel()
	if err != nil {
		e.logger.Error("state update call failed, keeping prior state",
			"world_id", worldID, "error", err)
		e.stats.StateUpdateFailures.Add(1)
		return doc
	}

	payload := services.ExtractJSONPayload(raw)
	if err := validateDocumentPayload([]byte(payload)); err != nil {
		e.logger.Error("state update rejected, keeping prior state",
			"world_id", worldID, "error", err)
		e.stats.StateUpdateFailures.Add(1)
		return doc
	}

	var next world.Document
	if err := json.Unmarshal([]byte(payload), &next); err != nil {
		e.logger.Error("state update unparseable, keeping prior state",
			"world_id", worldID, "error", err)
		e.stats.StateUpdateFailures.Add(1)
		return doc
	}

	next.Migrate()

	// Engine-owned fields are never the model's to change.
	next.CharacterState = doc.CharacterState
	next.Version = doc.Version
	next.RecentPlaces = append([]world.Location{}, doc.RecentPlaces...)
	if next.Locations.George != doc.Locations.George {
		next.MoveGeorge(next.Locations.George)
	}
	if next.Locations.Rebecca != doc.Locations.Rebecca {
		next.MoveRebecca(next.Locations.Rebecca)
	}

	// Facts are append-only canon; a reducer that dropped them is wrong.
	if len(next.Facts.Shared) < len(doc.Facts.Shared) {
		next.Facts.Shared = doc.Facts.Shared
	}
	if len(next.Facts.RebeccaAboutGeorge) < len(doc.Facts.RebeccaAboutGeorge) {
		next.Facts.RebeccaAboutGeorge = doc.Facts.RebeccaAboutGeorge
	}

	return &next
}
