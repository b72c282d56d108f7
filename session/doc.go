// Package session houses concrete implementations of core.SessionStore. The
// interface itself (and the Session struct) live in the core package to
// centralize domain contracts; keeping only implementations here prevents
// higher level packages (router, orchestrator) from depending on concrete
// storage.
//
// Sessions are bounded-lifetime by design: every lookup first sweeps entries
// whose last access is older than the configured idle timeout.
package session
