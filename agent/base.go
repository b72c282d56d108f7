package agent

import (
	"fmt"

	"github.com/clarvishq/clarvis/core"
)

// BaseAgent bundles the identity portion of core.Agent: name, description and
// advertised capabilities. Embed it in concrete agent implementations and
// supply Process and HealthCheck to satisfy the full interface.
type BaseAgent struct {
	name         string
	description  string
	capabilities []core.Capability
}

// NewBaseAgent constructs a BaseAgent with a generated description
// (customizable via SetDescription).
func NewBaseAgent(name string) BaseAgent {
	return BaseAgent{
		name:        name,
		description: fmt.Sprintf("Agent %s", name),
	}
}

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a detailed description of this agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// SetDescription updates the agent's description.
func (b *BaseAgent) SetDescription(desc string) { b.description = desc }

// Capabilities returns the capabilities advertised to the router.
func (b *BaseAgent) Capabilities() []core.Capability { return b.capabilities }

// SetCapabilities replaces the advertised capability set. Keywords and
// examples feed the router's classification rules and escalation prompt, so
// they should describe the queries the agent actually handles.
func (b *BaseAgent) SetCapabilities(caps ...core.Capability) { b.capabilities = caps }
