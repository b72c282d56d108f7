package model

import (
	"context"
	"fmt"
	"sync"
)

// Message is a single conversational message passed to a Completer.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Completer is the minimal interface required to obtain a single text
// completion. Implementations must respect context cancellation and carry
// their own request timeouts where the transport needs one.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, messages []Message) (string, error)
}

// MockCompleter is a lightweight in-memory Completer useful for tests and
// examples. Responses are keyed by the content of the last message; unknown
// inputs get a deterministic default.
type MockCompleter struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	calls     int
}

// NewMockCompleter constructs an empty MockCompleter.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{responses: make(map[string]string)}
}

// AddResponse registers a canned completion for an input message.
func (m *MockCompleter) AddResponse(input, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[input] = response
}

// SetError makes every subsequent Complete call fail with err.
func (m *MockCompleter) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Complete has been invoked.
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Complete implements Completer.
func (m *MockCompleter) Complete(ctx context.Context, _ string, messages []Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	last := messages[len(messages)-1].Content
	if resp, ok := m.responses[last]; ok {
		return resp, nil
	}
	return fmt.Sprintf("Mock response to: %s", last), nil
}
