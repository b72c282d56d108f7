package core

import (
	"sort"
	"sync"
)

// Registry is an instance-scoped lookup of registered agents. Its lifetime is
// tied to the orchestrator that owns it, not the process, so tests can build
// isolated registries without global reset hooks.
//
// Registration is thread-safe; the follow-up routing path tolerates agents
// being unregistered mid-conversation.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]Agent
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]Agent)}
}

// Register adds an agent under its Name, replacing any previous registration.
func (r *Registry) Register(a Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.Name()] = a
}

// Unregister removes the named agent. Removing an unknown name is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, name)
}

// Get returns the named agent and whether it is registered.
func (r *Registry) Get(name string) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// List returns the registered agent names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllCapabilities returns the advertised capabilities of every registered
// agent keyed by agent name.
func (r *Registry) AllCapabilities() map[string][]Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	caps := make(map[string][]Capability, len(r.agents))
	for name, a := range r.agents {
		caps[name] = a.Capabilities()
	}
	return caps
}

// HealthCheckAll runs the health check of every registered agent.
func (r *Registry) HealthCheckAll() map[string]bool {
	r.mu.RLock()
	agents := make(map[string]Agent, len(r.agents))
	for name, a := range r.agents {
		agents[name] = a
	}
	r.mu.RUnlock()

	// Checks run outside the lock; they may block on external services.
	health := make(map[string]bool, len(agents))
	for name, a := range agents {
		health[name] = a.HealthCheck()
	}
	return health
}
