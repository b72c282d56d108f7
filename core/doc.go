// Package core provides the foundational domain types and interfaces used by
// Clarvis. It defines the core abstractions for:
//
//   - Agents (capability providers answering a class of queries)
//   - Sessions (bounded-lifetime multi-turn conversation records)
//   - Responses (the normalized result every processing path produces)
//   - Registry (instance-scoped lookup of registered agents)
//   - Pluggable session storage
//
// The package intentionally keeps implementation concerns (classification,
// routing, orchestration, concrete stores) out of scope, exposing small
// interfaces so higher level packages can be composed without cycles.
package core
