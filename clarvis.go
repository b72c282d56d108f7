// Package clarvis provides a high-level façade over the orchestrator and
// service abstractions (routing, sessions & logging) enabling rapid
// construction of a multi-agent assistant. Most applications interact with
// this package by:
//  1. Creating a Clarvis via New() (optionally overriding config, the
//     completion service or the in-memory session store)
//  2. Registering one or more specialist agents
//  3. Processing user queries with Process()
//
// The façade delegates query handling to orchestrator.Orchestrator while
// keeping setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a real
// completion service and a structured logger.
package clarvis

import (
	"context"

	"github.com/clarvishq/clarvis/config"
	"github.com/clarvishq/clarvis/core"
	"github.com/clarvishq/clarvis/logging"
	"github.com/clarvishq/clarvis/model"
	"github.com/clarvishq/clarvis/orchestrator"
)

// Options configures the Clarvis instance.
type Options struct {
	// Config supplies routing and session tunables; defaults to
	// config.Default().
	Config config.Config

	// Completer backs escalation routing and direct handling. Without one,
	// routing is classifier-only and direct handling uses canned responses.
	Completer model.Completer

	// SessionStore defaults to an in-memory implementation with the
	// configured idle timeout.
	SessionStore core.SessionStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Clarvis is the high-level façade aggregating the orchestrator and its
// services.
type Clarvis struct {
	opts         Options
	orchestrator *orchestrator.Orchestrator
}

// New creates a new Clarvis instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) (*Clarvis, error) {
	opts := Options{
		Config: config.Default(),
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	o, err := orchestrator.New(core.NewRegistry(), func(oo *orchestrator.Options) {
		oo.Config = opts.Config
		oo.Completer = opts.Completer
		if opts.SessionStore != nil {
			oo.Sessions = opts.SessionStore
		}
		oo.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	return &Clarvis{opts: opts, orchestrator: o}, nil
}

// RegisterAgent adds an agent to the underlying orchestrator.
func (c *Clarvis) RegisterAgent(a core.Agent) { c.orchestrator.Registry().Register(a) }

// UnregisterAgent removes the named agent.
func (c *Clarvis) UnregisterAgent(name string) { c.orchestrator.Registry().Unregister(name) }

// Agents returns the registered agent names in sorted order.
func (c *Clarvis) Agents() []string { return c.orchestrator.Registry().List() }

// Process routes a query through the orchestrator. Pass an empty sessionID to
// start a new conversation; the generated id is returned in the response
// metadata under "session_id".
func (c *Clarvis) Process(ctx context.Context, query, sessionID string) core.Response {
	return c.orchestrator.Process(ctx, query, sessionID)
}

// HealthCheck reports whether the assistant is operational.
func (c *Clarvis) HealthCheck() bool { return c.orchestrator.HealthCheck() }
