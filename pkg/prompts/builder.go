package prompts

import (
	"fmt"

	"github.com/virlife/worldsim/pkg/chat"
	"github.com/virlife/worldsim/pkg/character"
	"github.com/virlife/worldsim/pkg/world"
)

// Mode selects which assembly the builder produces.
type Mode string

const (
	// ModeExpression produces Rebecca's first-person voice.
	ModeExpression Mode = "expression"
	// ModeNarration produces third-person scene narration.
	ModeNarration Mode = "narration"
)

// DefaultHistoryWindow is how many recent messages enter the prompt.
const DefaultHistoryWindow = 6

// Builder constructs the message sequence for a completion call using a
// fluent interface. Block order is fixed; the builder only decides which
// blocks participate based on the mode.
type Builder struct {
	templates    Templates
	mode         Mode
	doc          *world.Document
	charState    *character.State
	history      []chat.Message
	historyLimit int
	userMessage  string
	messages     []chat.Message
}

// New creates a builder with default templates and the expression mode.
func New() *Builder {
	return &Builder{
		templates:    DefaultTemplates(),
		mode:         ModeExpression,
		historyLimit: DefaultHistoryWindow,
		messages:     make([]chat.Message, 0),
	}
}

// WithTemplates overrides the static template texts.
func (b *Builder) WithTemplates(t Templates) *Builder {
	b.templates = t
	return b
}

// WithMode selects expression or narration assembly.
func (b *Builder) WithMode(m Mode) *Builder {
	b.mode = m
	return b
}

// WithWorld sets the world document the ledger and scene blocks read from.
func (b *Builder) WithWorld(doc *world.Document) *Builder {
	b.doc = doc
	return b
}

// WithCharacterState sets Rebecca's current internal state.
func (b *Builder) WithCharacterState(s *character.State) *Builder {
	b.charState = s
	return b
}

// WithHistory sets the conversation history the window is cut from.
func (b *Builder) WithHistory(history []chat.Message) *Builder {
	b.history = history
	return b
}

// WithHistoryLimit sets the history window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// WithUserMessage sets the current user input.
func (b *Builder) WithUserMessage(message string) *Builder {
	b.userMessage = message
	return b
}

// Build assembles the final message sequence. Expression mode emits, in
// order: narrator template, identity fingerprint, expression engine,
// character state note, world ledger, scene description, directive block,
// windowed history, then the user message. Narration mode drops the
// fingerprint, engine, and directive blocks and swaps the state note for
// the narrator-facing one.
func (b *Builder) Build() ([]chat.Message, error) {
	if b.doc == nil {
		return nil, fmt.Errorf("world document is required")
	}
	if b.charState == nil {
		return nil, fmt.Errorf("character state is required")
	}

	b.messages = make([]chat.Message, 0, 9+b.historyLimit)

	b.system(b.templates.Narrator)

	if b.mode == ModeExpression {
		b.system(b.templates.Fingerprint)
		b.system(b.templates.ExpressionEngine)
		b.system(character.ExpressionNote(*b.charState))
	} else {
		b.system(character.NarratorNote(*b.charState))
	}

	b.system(WorldLedger(b.doc))
	b.system(SceneDescription(b.doc))

	if b.mode == ModeExpression {
		b.system(b.templates.Directive)
	}

	b.addHistory()

	if b.userMessage != "" {
		b.messages = append(b.messages, chat.Message{
			Role:    chat.RoleUser,
			Content: b.userMessage,
		})
	}

	return b.messages, nil
}

func (b *Builder) system(content string) {
	b.messages = append(b.messages, chat.Message{
		Role:    chat.RoleSystem,
		Content: content,
	})
}

func (b *Builder) addHistory() {
	if len(b.history) == 0 {
		return
	}
	window := b.history
	if len(window) > b.historyLimit {
		window = window[len(window)-b.historyLimit:]
	}
	b.messages = append(b.messages, window...)
}

// StateUpdateMessages assembles the low-temperature structured call: the
// reducer instruction, the serialized current state, and the turn that just
// happened.
func StateUpdateMessages(currentState string, userInput, reply string) []chat.Message {
	return []chat.Message{
		{Role: chat.RoleSystem, Content: StateUpdatePrompt},
		{Role: chat.RoleSystem, Content: "CURRENT WORLD STATE\n" + currentState},
		{Role: chat.RoleUser, Content: userInput},
		{Role: chat.RoleAssistant, Content: reply},
		{Role: chat.RoleUser, Content: "Output the updated world state JSON now."},
	}
}

// CorrectionMessage renders the retry instruction naming the validation
// issues from the rejected attempt.
func CorrectionMessage(issues []string) chat.Message {
	joined := ""
	for i, issue := range issues {
		if i > 0 {
			joined += "; "
		}
		joined += issue
	}
	return chat.Message{
		Role:    chat.RoleSystem,
		Content: fmt.Sprintf(CorrectionPrompt, joined),
	}
}
