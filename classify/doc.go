// Package classify implements deterministic, code-based intent classification.
// A Classifier scores a query against per-agent keyword and regex rule tables
// and reports the best match together with whether the hybrid router should
// escalate to the completion service. Rule tables are plain data so agent
// definitions can be swapped without touching control flow.
package classify
