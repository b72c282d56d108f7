// Package agent provides building blocks for specialist agents: an embeddable
// BaseAgent carrying identity and advertised capabilities, a CompleterAgent
// that answers through a completion service with a configurable instruction,
// and a FuncAgent adapter for wrapping plain functions.
package agent
