// Package router implements the hybrid intent router. A Router resolves each
// query through an ordered pipeline where the first match wins:
//
//  1. Follow-up continuity with the previous turn's agent
//  2. Direct handling of greetings and acknowledgments
//  3. Deterministic classification (package classify)
//  4. Escalation to the completion service for ambiguous cases
//
// Every path degrades deterministically: escalation failures fall back to the
// classifier's best effort, and a decision is always produced.
package router
