// Package model defines the completion-service contract consumed by the
// router (escalation) and the orchestrator (direct handling). The Completer
// interface normalizes vendors behind a single text-in/text-out call;
// concrete adapters live in the anthropic and openai sub-packages, and a
// deterministic MockCompleter supports tests and examples.
package model
