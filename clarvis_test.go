package clarvis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarvishq/clarvis/agent"
	"github.com/clarvishq/clarvis/core"
	"github.com/clarvishq/clarvis/model"
)

func TestClarvis_EndToEnd(t *testing.T) {
	completer := model.NewMockCompleter()
	assistant, err := New(func(o *Options) {
		o.Completer = completer
	})
	require.NoError(t, err)

	assistant.RegisterAgent(agent.NewFuncAgent("gmail",
		func(_ context.Context, _ string, _ *core.Session) (core.Response, error) {
			return core.Response{Content: "3 unread", Success: true, AgentName: "gmail"}, nil
		},
		func(o *agent.FuncAgentOptions) {
			o.Capabilities = []core.Capability{{
				Name:     "email_check",
				Keywords: []string{"email", "inbox", "unread"},
			}}
		},
	))

	assert.Equal(t, []string{"gmail"}, assistant.Agents())
	assert.True(t, assistant.HealthCheck())

	// Routed query starts a new session.
	resp := assistant.Process(context.Background(), "check my unread emails", "")
	assert.True(t, resp.Success)
	assert.Equal(t, "gmail", resp.AgentName)
	assert.Equal(t, "3 unread", resp.Content)
	sessionID, ok := resp.Metadata["session_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, sessionID)

	// Follow-up sticks with the previous agent on the same session.
	resp = assistant.Process(context.Background(), "what about those?", sessionID)
	assert.Equal(t, "gmail", resp.AgentName)

	// Unregistering makes the agent unreachable.
	assistant.UnregisterAgent("gmail")
	assert.Empty(t, assistant.Agents())
}
