package core

// Capability describes one class of queries an agent can answer. Capabilities
// are advertised once at registration and treated as immutable afterwards;
// the router uses Keywords for fast-path hints and Examples when building
// escalation prompts.
type Capability struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Examples    []string `json:"examples"`
}

// Response is the normalized result returned by every processing path:
// agent delegation, direct handling and fallback alike. Failures are carried
// in Success/Error rather than as returned errors so callers always receive
// a usable natural-language payload.
type Response struct {
	Content   string         `json:"content"`
	Success   bool           `json:"success"`
	AgentName string         `json:"agent_name"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Error     string         `json:"error,omitempty"`
}
