package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarvishq/clarvis/core"
	"github.com/clarvishq/clarvis/model"
	"github.com/clarvishq/clarvis/session"
)

type fakeAgent struct {
	name    string
	err     error
	panics  bool
	healthy bool

	mu    sync.Mutex
	calls int
}

func (a *fakeAgent) Name() string        { return a.name }
func (a *fakeAgent) Description() string { return a.name + " agent" }

func (a *fakeAgent) Capabilities() []core.Capability {
	return []core.Capability{{
		Name:        a.name + "_ops",
		Description: "handles " + a.name + " queries",
		Keywords:    []string{a.name},
		Examples:    []string{"use " + a.name},
	}}
}

func (a *fakeAgent) Process(_ context.Context, query string, _ *core.Session) (core.Response, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if a.panics {
		panic("agent exploded")
	}
	if a.err != nil {
		return core.Response{}, a.err
	}
	return core.Response{
		Content:   "handled: " + query,
		Success:   true,
		AgentName: a.name,
	}, nil
}

func (a *fakeAgent) HealthCheck() bool { return a.healthy }

func newTestOrchestrator(t *testing.T, completer model.Completer, agents ...*fakeAgent) (*Orchestrator, *session.InMemoryStore) {
	t.Helper()
	registry := core.NewRegistry()
	for _, a := range agents {
		registry.Register(a)
	}
	store := session.NewInMemoryStore()
	o, err := New(registry, func(opts *Options) {
		opts.Completer = completer
		opts.Sessions = store
	})
	require.NoError(t, err)
	return o, store
}

func TestProcess_EmptyQuery(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)

	for _, query := range []string{"", "   ", "\n\t"} {
		resp := o.Process(context.Background(), query, "s1")
		assert.False(t, resp.Success, "query %q", query)
		assert.Equal(t, core.ErrEmptyQuery.Error(), resp.Error, "query %q", query)
		assert.Equal(t, Name, resp.AgentName, "query %q", query)
		assert.NotEmpty(t, resp.Content, "query %q", query)
	}
}

func TestProcess_DelegatesAndRecordsTurn(t *testing.T) {
	gmail := &fakeAgent{name: "gmail", healthy: true}
	o, store := newTestOrchestrator(t, nil, gmail)

	resp := o.Process(context.Background(), "check my unread emails", "s1")
	assert.True(t, resp.Success)
	assert.Equal(t, "gmail", resp.AgentName)
	assert.Equal(t, "handled: check my unread emails", resp.Content)
	assert.Equal(t, "s1", resp.Metadata["session_id"])

	sess, err := store.GetOrCreate("s1")
	require.NoError(t, err)
	turns := sess.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "check my unread emails", turns[0].Query)
	assert.Equal(t, "gmail", turns[0].AgentName)
}

func TestProcess_GeneratesSessionID(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil, &fakeAgent{name: "gmail", healthy: true})

	resp := o.Process(context.Background(), "check my unread emails", "")
	id, ok := resp.Metadata["session_id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)
}

func TestProcess_FollowUpContinuesWithSameAgent(t *testing.T) {
	gmail := &fakeAgent{name: "gmail", healthy: true}
	o, store := newTestOrchestrator(t, nil, gmail)

	resp := o.Process(context.Background(), "check my unread emails", "s1")
	require.Equal(t, "gmail", resp.AgentName)

	resp = o.Process(context.Background(), "what about those?", "s1")
	assert.Equal(t, "gmail", resp.AgentName)
	assert.True(t, resp.Success)

	sess, err := store.GetOrCreate("s1")
	require.NoError(t, err)
	assert.Equal(t, 2, sess.Len())
	assert.Equal(t, "gmail", sess.LastAgent())
}

func TestProcess_GreetingUsesCompleter(t *testing.T) {
	completer := model.NewMockCompleter()
	completer.AddResponse("hello", "Hi! What can I do for you?")
	o, _ := newTestOrchestrator(t, completer)

	resp := o.Process(context.Background(), "hello", "s1")
	assert.True(t, resp.Success)
	assert.Equal(t, "Hi! What can I do for you?", resp.Content)
	assert.Equal(t, Name, resp.AgentName)
	assert.Equal(t, true, resp.Metadata["handled_directly"])
}

func TestProcess_GreetingWithoutCompleterUsesCannedResponse(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)

	resp := o.Process(context.Background(), "hello", "s1")
	assert.True(t, resp.Success)
	assert.Equal(t, cannedGreeting, resp.Content)
	assert.Equal(t, true, resp.Metadata["fallback"])
}

func TestProcess_GreetingCompleterFailureUsesCannedResponse(t *testing.T) {
	completer := model.NewMockCompleter()
	completer.SetError(errors.New("connection refused"))
	o, _ := newTestOrchestrator(t, completer)

	resp := o.Process(context.Background(), "hello", "s1")
	assert.True(t, resp.Success, "direct handling must never fail the caller")
	assert.Equal(t, cannedGreeting, resp.Content)
	assert.Equal(t, true, resp.Metadata["fallback"])
}

func TestProcess_DirectHandlingIncludesRecentContext(t *testing.T) {
	completer := model.NewMockCompleter()
	o, _ := newTestOrchestrator(t, completer, &fakeAgent{name: "gmail", healthy: true})

	o.Process(context.Background(), "check my unread emails", "s1")
	resp := o.Process(context.Background(), "hello again, how are you", "s1")

	assert.True(t, resp.Success)
	assert.Contains(t, resp.Content, "Recent conversation:")
	assert.Contains(t, resp.Content, "check my unread emails")
}

func TestProcess_AgentErrorBecomesFailedResponse(t *testing.T) {
	gmail := &fakeAgent{name: "gmail", healthy: true, err: errors.New("imap unavailable")}
	o, store := newTestOrchestrator(t, nil, gmail)

	resp := o.Process(context.Background(), "check my unread emails", "s1")
	assert.False(t, resp.Success)
	assert.Equal(t, "gmail", resp.AgentName)
	assert.Equal(t, "imap unavailable", resp.Error)
	assert.Contains(t, resp.Content, "encountered an issue")

	// The failed exchange is still part of the conversation.
	sess, err := store.GetOrCreate("s1")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Len())
}

func TestProcess_AgentPanicRecovered(t *testing.T) {
	gmail := &fakeAgent{name: "gmail", healthy: true, panics: true}
	o, _ := newTestOrchestrator(t, nil, gmail)

	resp := o.Process(context.Background(), "check my unread emails", "s1")
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "panicked")
	assert.Contains(t, resp.Error, "agent exploded")
}

func TestProcess_CancelledContextDoesNotRecordTurn(t *testing.T) {
	gmail := &fakeAgent{name: "gmail", healthy: true}
	o, store := newTestOrchestrator(t, nil, gmail)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := o.Process(ctx, "check my unread emails", "s1")
	assert.False(t, resp.Success)
	assert.Equal(t, context.Canceled.Error(), resp.Error)
	assert.Equal(t, "s1", resp.Metadata["session_id"])

	sess, err := store.GetOrCreate("s1")
	require.NoError(t, err)
	assert.Zero(t, sess.Len(), "cancelled requests must not record turns")
}

func TestProcess_ConcurrentSameSessionLosesNoTurns(t *testing.T) {
	gmail := &fakeAgent{name: "gmail", healthy: true}
	o, store := newTestOrchestrator(t, nil, gmail)

	const workers = 25
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			o.Process(context.Background(), "check my unread emails", "shared")
		}()
	}
	wg.Wait()

	sess, err := store.GetOrCreate("shared")
	require.NoError(t, err)
	assert.Equal(t, workers, sess.Len())
}

func TestFallback_ListsRegisteredAgents(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil,
		&fakeAgent{name: "gmail", healthy: true},
		&fakeAgent{name: "weather", healthy: true},
	)

	resp := o.fallback()
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Content, "gmail, weather")
	assert.Equal(t, true, resp.Metadata["fallback"])
}

func TestFallback_NoAgents(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)

	resp := o.fallback()
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Content, "rephrasing")
}

func TestHealthCheck(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)
	assert.True(t, o.HealthCheck(), "empty registry is considered healthy")

	o, _ = newTestOrchestrator(t, nil, &fakeAgent{name: "gmail", healthy: false})
	assert.False(t, o.HealthCheck())

	o, _ = newTestOrchestrator(t, nil,
		&fakeAgent{name: "gmail", healthy: false},
		&fakeAgent{name: "weather", healthy: true},
	)
	assert.True(t, o.HealthCheck(), "one healthy agent keeps the orchestrator up")
}
