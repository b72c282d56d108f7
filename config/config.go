// Package config defines the tunables consumed by the routing and
// orchestration core. Values are supplied by an external loader; the JSON
// file loader here substitutes defaults for missing or corrupt input rather
// than failing startup.
package config

import (
	"encoding/json"
	"os"
	"time"
)

// Config carries the orchestrator and router tunables.
type Config struct {
	// Model is the completion model used for direct handling.
	Model string `json:"model"`
	// RouterModel is the (typically cheaper) completion model used for
	// escalation routing.
	RouterModel string `json:"router_model"`
	// SessionTimeoutMinutes is the idle lifetime of a session before the
	// next store sweep removes it.
	SessionTimeoutMinutes int `json:"session_timeout_minutes"`
	// CodeRoutingThreshold is the minimum classifier confidence for routing
	// without escalation.
	CodeRoutingThreshold float64 `json:"code_routing_threshold"`
	// AmbiguityMargin is the minimum gap between the classifier's top two
	// scores below which the result is ambiguous.
	AmbiguityMargin float64 `json:"ambiguity_margin"`
	// EscalationEnabled toggles completion-service routing for queries the
	// classifier could not resolve confidently.
	EscalationEnabled bool `json:"escalation_enabled"`
	// FollowUpDetection toggles routing follow-up queries to the previous
	// turn's agent.
	FollowUpDetection bool `json:"follow_up_detection"`
	// CompletionTimeoutSeconds bounds every completion-service call.
	CompletionTimeoutSeconds int `json:"completion_timeout_seconds"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Model:                    "claude-sonnet-4-20250514",
		RouterModel:              "claude-3-5-haiku-20241022",
		SessionTimeoutMinutes:    30,
		CodeRoutingThreshold:     0.7,
		AmbiguityMargin:          0.1,
		EscalationEnabled:        true,
		FollowUpDetection:        true,
		CompletionTimeoutSeconds: 30,
	}
}

// FromFile loads a configuration from a JSON file. Missing files, unreadable
// files and malformed JSON all yield the defaults; fields absent from the
// file keep their default values.
func FromFile(path string) Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default()
	}
	return cfg
}

// SessionTimeout returns the session idle timeout as a duration.
func (c Config) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTimeoutMinutes) * time.Minute
}

// CompletionTimeout returns the completion call deadline as a duration.
func (c Config) CompletionTimeout() time.Duration {
	return time.Duration(c.CompletionTimeoutSeconds) * time.Second
}
