package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clarvishq/clarvis/classify"
	"github.com/clarvishq/clarvis/config"
	"github.com/clarvishq/clarvis/core"
	"github.com/clarvishq/clarvis/logging"
	"github.com/clarvishq/clarvis/model"
	"github.com/clarvishq/clarvis/router"
	"github.com/clarvishq/clarvis/session"
)

// Name identifies the orchestrator itself as the handling agent for turns it
// answers directly.
const Name = "orchestrator"

// directSystemPrompt frames direct handling of greetings, thanks and general
// questions.
const directSystemPrompt = `You are Clarvis, a helpful AI home assistant.
You can help with email, calendar, weather, and other tasks through specialized agents.
For greetings, thanks, and general questions, respond naturally and helpfully.
Keep responses concise and friendly.`

// cannedGreeting is the safe response when direct handling cannot reach the
// completion service.
const cannedGreeting = "Hello! I'm Clarvis, your AI assistant. How can I help you today?"

// Options configures Orchestrator construction.
type Options struct {
	// Config supplies tunables; defaults to config.Default().
	Config config.Config
	// Router resolves queries to agents. Defaults to a router built over the
	// registry with Completer and the Config tunables.
	Router *router.Router
	// Sessions stores conversation state. Defaults to an in-memory store with
	// the configured idle timeout.
	Sessions core.SessionStore
	// Completer answers directly handled queries (and, for the default
	// router, escalations). Direct handling degrades to a canned greeting
	// when nil or failing.
	Completer model.Completer
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator routes queries to registered agents or handles them directly
// while maintaining multi-turn session state. It exclusively owns its
// registry and session store for its lifetime; both are instance-scoped so
// tests can build isolated orchestrators.
type Orchestrator struct {
	cfg       config.Config
	registry  *core.Registry
	router    *router.Router
	sessions  core.SessionStore
	completer model.Completer
	logger    logging.Logger
}

// New creates an Orchestrator over the given registry.
func New(registry *core.Registry, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{
		Config: config.Default(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Sessions == nil {
		opts.Sessions = session.NewInMemoryStore(func(o *session.Options) {
			o.IdleTimeout = opts.Config.SessionTimeout()
			o.Logger = opts.Logger
		})
	}

	if opts.Router == nil {
		classifier, err := classify.New(classify.DefaultRules(), func(o *classify.Options) {
			o.Threshold = opts.Config.CodeRoutingThreshold
			o.AmbiguityMargin = opts.Config.AmbiguityMargin
		})
		if err != nil {
			return nil, fmt.Errorf("build default classifier: %w", err)
		}
		r, err := router.New(registry, func(o *router.Options) {
			o.Classifier = classifier
			o.Completer = opts.Completer
			o.EscalationEnabled = opts.Config.EscalationEnabled
			o.FollowUpDetection = opts.Config.FollowUpDetection
			o.CompletionTimeout = opts.Config.CompletionTimeout()
			o.Logger = opts.Logger
		})
		if err != nil {
			return nil, fmt.Errorf("build default router: %w", err)
		}
		opts.Router = r
	}

	return &Orchestrator{
		cfg:       opts.Config,
		registry:  registry,
		router:    opts.Router,
		sessions:  opts.Sessions,
		completer: opts.Completer,
		logger:    opts.Logger,
	}, nil
}

// Registry returns the agent registry owned by this orchestrator.
func (o *Orchestrator) Registry() *core.Registry { return o.registry }

// Description returns a human-readable summary of the orchestrator's role.
func (o *Orchestrator) Description() string {
	return "Central coordinator that routes queries to appropriate specialist agents"
}

// Capabilities describes what the orchestrator itself provides.
func (o *Orchestrator) Capabilities() []core.Capability {
	return []core.Capability{
		{
			Name:        "query_routing",
			Description: "Routes queries to appropriate specialist agents",
			Keywords:    []string{"help", "assist", "question"},
			Examples:    []string{"check my emails", "what's the weather", "hello"},
		},
		{
			Name:        "conversation_management",
			Description: "Manages multi-turn conversations with context",
			Keywords:    []string{"follow-up", "more", "continue"},
			Examples:    []string{"tell me more", "what about the first one"},
		},
	}
}

// HealthCheck reports whether the orchestrator is operational: healthy when
// at least one registered agent is healthy, or when no agents are registered
// yet.
func (o *Orchestrator) HealthCheck() bool {
	health := o.registry.HealthCheckAll()
	if len(health) == 0 {
		return true
	}
	for _, ok := range health {
		if ok {
			return true
		}
	}
	return false
}

// Process resolves the session, routes the query and dispatches it. The
// completed turn is appended to the session unless the request was cancelled
// mid-flight. Process never returns an error; failures are reported through
// the Response.
func (o *Orchestrator) Process(ctx context.Context, query, sessionID string) core.Response {
	if strings.TrimSpace(query) == "" {
		return core.Response{
			Content:   "I didn't catch that. What can I help you with?",
			Success:   false,
			AgentName: Name,
			Error:     core.ErrEmptyQuery.Error(),
		}
	}

	sess, err := o.sessions.GetOrCreate(sessionID)
	if err != nil {
		return core.Response{
			Content:   "I'm sorry, I encountered an error processing your request. Please try again.",
			Success:   false,
			AgentName: Name,
			Error:     err.Error(),
		}
	}

	decision := o.router.Route(ctx, query, sess)
	o.logger.Debug("routing decision",
		"session_id", sess.ID,
		"agent", decision.AgentName,
		"confidence", decision.Confidence,
		"handle_directly", decision.HandleDirectly,
		"rationale", decision.Rationale,
	)

	var resp core.Response
	switch {
	case decision.HandleDirectly:
		resp = o.handleDirect(ctx, query, sess)
	case decision.AgentName != "":
		resp = o.delegate(ctx, query, decision, sess)
	default:
		resp = o.fallback()
	}

	if resp.Metadata == nil {
		resp.Metadata = map[string]any{}
	}
	resp.Metadata["session_id"] = sess.ID

	// A cancelled request must not record a partial turn.
	if ctx.Err() != nil {
		return core.Response{
			Content:   "I'm sorry, your request was cancelled.",
			Success:   false,
			AgentName: Name,
			Error:     ctx.Err().Error(),
			Metadata:  map[string]any{"session_id": sess.ID},
		}
	}

	agentName := resp.AgentName
	if agentName == "" {
		agentName = Name
	}
	if err := o.sessions.AppendTurn(sess.ID, query, resp.Content, agentName); err != nil {
		o.logger.Warn("failed to record turn", "session_id", sess.ID, "error", err.Error())
	}

	return resp
}

// handleDirect answers greetings, thanks and general questions via the
// completion service, degrading to a canned greeting when the call fails.
func (o *Orchestrator) handleDirect(ctx context.Context, query string, sess *core.Session) core.Response {
	if o.completer == nil {
		return directFallback()
	}

	userMsg := query
	if sess.Len() > 0 {
		userMsg = fmt.Sprintf("Recent conversation:\n%s\n\nNew query: %s", sess.RecentContext(2), query)
	}

	cctx, cancel := context.WithTimeout(ctx, o.cfg.CompletionTimeout())
	defer cancel()

	start := time.Now()
	content, err := o.completer.Complete(cctx, directSystemPrompt, []model.Message{{Role: "user", Content: userMsg}})
	if err != nil {
		o.logger.Error("direct handling failed", "error", err.Error(), "duration", time.Since(start))
		return directFallback()
	}

	return core.Response{
		Content:   content,
		Success:   true,
		AgentName: Name,
		Metadata:  map[string]any{"handled_directly": true},
	}
}

func directFallback() core.Response {
	return core.Response{
		Content:   cannedGreeting,
		Success:   true,
		AgentName: Name,
		Metadata:  map[string]any{"handled_directly": true, "fallback": true},
	}
}

// delegate forwards the query to the decided agent. Agent errors and panics
// are converted into failed responses rather than propagated.
func (o *Orchestrator) delegate(ctx context.Context, query string, decision router.Decision, sess *core.Session) core.Response {
	agent, ok := o.registry.Get(decision.AgentName)
	if !ok {
		o.logger.Warn("decided agent not registered", "agent", decision.AgentName)
		return o.fallback()
	}

	o.logger.Info("delegating to agent", "agent", decision.AgentName, "session_id", sess.ID)

	start := time.Now()
	resp, err := safeProcess(ctx, agent, query, sess)
	if err != nil {
		o.logger.Error("agent delegation failed",
			"agent", decision.AgentName,
			"duration", time.Since(start),
			"error", err.Error(),
		)
		return core.Response{
			Content:   "I tried to help with your request, but encountered an issue. Please try again.",
			Success:   false,
			AgentName: decision.AgentName,
			Error:     err.Error(),
		}
	}
	return resp
}

// safeProcess invokes an agent, converting panics into errors so a misbehaving
// agent can never take down the orchestrator.
func safeProcess(ctx context.Context, agent core.Agent, query string, sess *core.Session) (resp core.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent %s panicked: %v", agent.Name(), r)
		}
	}()
	return agent.Process(ctx, query, sess)
}

// fallback lists the registered agents when no route was found.
func (o *Orchestrator) fallback() core.Response {
	names := o.registry.List()

	var content string
	if len(names) > 0 {
		content = fmt.Sprintf(
			"I'm not sure how to help with that specific request. I can assist with: %s. "+
				"Could you rephrase your question or ask about one of these topics?",
			strings.Join(names, ", "),
		)
	} else {
		content = "I'm not sure how to help with that request. Could you try rephrasing your question?"
	}

	return core.Response{
		Content:   content,
		Success:   true,
		AgentName: Name,
		Metadata:  map[string]any{"fallback": true},
	}
}
