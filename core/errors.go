package core

import "errors"

// ErrEmptyQuery is returned when a blank query reaches a component that
// requires one. The orchestrator converts it into a failed Response instead
// of surfacing it.
var ErrEmptyQuery = errors.New("query must not be empty")

// ErrAgentNotFound indicates a routing decision named an agent that is not
// (or no longer) registered. It is downgraded to fallback handling, never
// surfaced as a hard failure.
var ErrAgentNotFound = errors.New("agent not found in registry")
