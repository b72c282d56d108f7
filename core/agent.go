package core

import "context"

// Agent defines the contract every capability provider must implement.
//
// Agents are thin shims over external services (mail, calendar, weather, ...)
// and are looked up by Name in the Registry. Process may return an error or
// panic; the orchestrator converts either into a failed Response rather than
// propagating it to the caller.
//
// Implementations must:
//   - Respect context cancellation in Process
//   - Keep Name stable for the lifetime of the registration
//   - Report readiness truthfully via HealthCheck
type Agent interface {
	Name() string
	Description() string
	Capabilities() []Capability
	Process(ctx context.Context, query string, session *Session) (Response, error)
	HealthCheck() bool
}
