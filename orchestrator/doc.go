// Package orchestrator coordinates query processing end to end: it owns the
// agent registry and the session store, routes each query through the hybrid
// router, dispatches to a registered agent or answers directly via the
// completion service, and records the completed turn on the session.
//
// Process never returns an error to the caller; every failure path is
// normalized into a core.Response with a natural-language message.
package orchestrator
