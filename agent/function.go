package agent

import (
	"context"

	"github.com/clarvishq/clarvis/core"
)

// HandlerFunc is the signature of a FuncAgent's query handler.
type HandlerFunc func(ctx context.Context, query string, sess *core.Session) (core.Response, error)

// FuncAgent adapts a plain function into a core.Agent. It is the quickest way
// to stand up an agent in tests and examples, or to wrap an existing client
// without defining a new type.
type FuncAgent struct {
	BaseAgent
	handler HandlerFunc
	healthy func() bool
}

var _ core.Agent = (*FuncAgent)(nil)

// FuncAgentOptions configures a FuncAgent.
type FuncAgentOptions struct {
	// Description overrides the generated agent description.
	Description string
	// Capabilities advertised to the router.
	Capabilities []core.Capability
	// HealthCheck overrides the default always-healthy check.
	HealthCheck func() bool
}

// NewFuncAgent wraps handler as an agent with the given name.
func NewFuncAgent(name string, handler HandlerFunc, optFns ...func(o *FuncAgentOptions)) *FuncAgent {
	opts := FuncAgentOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	base := NewBaseAgent(name)
	if opts.Description != "" {
		base.SetDescription(opts.Description)
	}
	base.SetCapabilities(opts.Capabilities...)

	return &FuncAgent{
		BaseAgent: base,
		handler:   handler,
		healthy:   opts.HealthCheck,
	}
}

// Process invokes the wrapped handler.
func (a *FuncAgent) Process(ctx context.Context, query string, sess *core.Session) (core.Response, error) {
	return a.handler(ctx, query, sess)
}

// HealthCheck reports the configured health check, defaulting to healthy.
func (a *FuncAgent) HealthCheck() bool {
	if a.healthy != nil {
		return a.healthy()
	}
	return true
}
