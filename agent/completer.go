package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/clarvishq/clarvis/core"
	"github.com/clarvishq/clarvis/model"
)

// CompleterAgent is a specialist agent that answers through a completion
// service. The instruction establishes the agent's persona and scope; recent
// session turns are replayed as conversation history so follow-ups keep their
// context.
type CompleterAgent struct {
	BaseAgent
	completer       model.Completer
	instruction     Instruction
	maxContextTurns int
}

var _ core.Agent = (*CompleterAgent)(nil)

// CompleterAgentOptions configures a CompleterAgent.
type CompleterAgentOptions struct {
	// Description overrides the generated agent description.
	Description string
	// Capabilities advertised to the router.
	Capabilities []core.Capability
	// Instruction establishes the system prompt. Defaults to a generic
	// assistant instruction naming the agent.
	Instruction Instruction
	// MaxContextTurns bounds how much session history is replayed per call.
	MaxContextTurns int
}

// NewCompleterAgent constructs a completion-backed agent.
func NewCompleterAgent(name string, completer model.Completer, optFns ...func(o *CompleterAgentOptions)) *CompleterAgent {
	opts := CompleterAgentOptions{
		MaxContextTurns: 5,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	base := NewBaseAgent(name)
	if opts.Description != "" {
		base.SetDescription(opts.Description)
	}
	base.SetCapabilities(opts.Capabilities...)

	instruction := opts.Instruction
	if instruction.IsStatic() && instruction.text == "" {
		instruction = NewInstructionFromText(fmt.Sprintf(
			"You are the %s agent, a helpful specialist assistant. Answer concisely.", name))
	}

	return &CompleterAgent{
		BaseAgent:       base,
		completer:       completer,
		instruction:     instruction,
		maxContextTurns: opts.MaxContextTurns,
	}
}

// Process resolves the instruction, replays recent history and asks the
// completion service for an answer.
func (a *CompleterAgent) Process(ctx context.Context, query string, sess *core.Session) (core.Response, error) {
	if a.completer == nil {
		return core.Response{}, errors.New("no completion service configured")
	}

	systemPrompt, err := a.instruction.Resolve(sess)
	if err != nil {
		return core.Response{}, fmt.Errorf("resolve instruction: %w", err)
	}

	messages := a.buildMessages(query, sess)
	content, err := a.completer.Complete(ctx, systemPrompt, messages)
	if err != nil {
		return core.Response{}, fmt.Errorf("completion call: %w", err)
	}

	return core.Response{
		Content:   content,
		Success:   true,
		AgentName: a.Name(),
	}, nil
}

// HealthCheck reports whether the agent can reach its completion service.
func (a *CompleterAgent) HealthCheck() bool { return a.completer != nil }

// buildMessages replays up to maxContextTurns of history as alternating
// user/assistant messages, ending with the current query.
func (a *CompleterAgent) buildMessages(query string, sess *core.Session) []model.Message {
	var messages []model.Message
	if sess != nil {
		turns := sess.Turns()
		if len(turns) > a.maxContextTurns {
			turns = turns[len(turns)-a.maxContextTurns:]
		}
		for _, turn := range turns {
			messages = append(messages,
				model.Message{Role: "user", Content: turn.Query},
				model.Message{Role: "assistant", Content: turn.Response},
			)
		}
	}
	return append(messages, model.Message{Role: "user", Content: query})
}
