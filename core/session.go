package core

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Turn is a single query/response exchange. Turns are immutable once created;
// sessions only ever append them.
type Turn struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	AgentName string    `json:"agent_name"`
	Timestamp time.Time `json:"timestamp"`
}

// Session tracks one multi-turn conversation. It is safe for concurrent
// access.
//
// Contract:
//   - turns are append-only, returned as defensive copies
//   - LastAgent always names the agent of the most recent turn, or "" if the
//     session has no turns yet
type Session struct {
	ID string `json:"id"`

	mu        sync.RWMutex
	turns     []Turn
	lastAgent string
	created   time.Time
}

// NewSession creates an empty session with the given ID.
func NewSession(id string) *Session {
	return &Session{ID: id, created: time.Now()}
}

// AddTurn appends a completed exchange and records its handling agent.
func (s *Session) AddTurn(query, response, agentName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{
		Query:     query,
		Response:  response,
		AgentName: agentName,
		Timestamp: time.Now(),
	})
	s.lastAgent = agentName
}

// Turns returns a copy of the turn history to prevent callers from mutating
// internal state.
func (s *Session) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := make([]Turn, len(s.turns))
	copy(turns, s.turns)
	return turns
}

// Len returns the number of turns recorded so far.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// LastAgent returns the agent that handled the most recent turn, or "" for an
// empty session.
func (s *Session) LastAgent() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAgent
}

// Created returns the session creation time.
func (s *Session) Created() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.created
}

// RecentContext formats up to n recent turns as alternating User/Agent lines
// suitable for inclusion in completion prompts.
func (s *Session) RecentContext(n int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "User: %s\nAgent (%s): %s", turn.Query, turn.AgentName, turn.Response)
	}
	return b.String()
}

// followUpPhrases mark a query as continuing the previous topic when it
// starts with one of them.
var followUpPhrases = []string{
	"what about",
	"and also",
	"also",
	"more about",
	"tell me more",
	"can you",
	"what else",
	"anything else",
	"the same",
	"that one",
	"those",
	"them",
	"it",
}

// followUpPronouns indicate a short query referring back to earlier context.
var followUpPronouns = map[string]bool{
	"it": true, "they": true, "them": true,
	"that": true, "those": true, "this": true,
}

// FollowUpTarget reports whether the query looks like a follow-up to the
// previous turn and, if so, which agent should keep handling the topic.
//
// A query matches when it starts with a known follow-up phrase, or when it is
// short (five tokens or fewer) and contains a context-referring pronoun after
// stripping surrounding punctuation.
func (s *Session) FollowUpTarget(query string) (string, bool) {
	s.mu.RLock()
	lastAgent := s.lastAgent
	empty := len(s.turns) == 0
	s.mu.RUnlock()

	if lastAgent == "" || empty {
		return "", false
	}

	queryLower := strings.ToLower(strings.TrimSpace(query))

	for _, phrase := range followUpPhrases {
		if strings.HasPrefix(queryLower, phrase) {
			return lastAgent, true
		}
	}

	words := strings.Fields(queryLower)
	if len(words) <= 5 {
		for _, word := range words {
			if followUpPronouns[strings.Trim(word, `?!.,;:'"`)] {
				return lastAgent, true
			}
		}
	}

	return "", false
}

// SessionStore persists sessions and their turn history with a bounded idle
// lifetime.
type SessionStore interface {
	// GetOrCreate returns the live session for id, creating one (with a
	// generated id when id is empty) if no live session exists. Implementations
	// expire idle sessions before lookup and refresh the last-access time of
	// the returned session.
	GetOrCreate(id string) (*Session, error)

	// AppendTurn records a completed exchange on the identified session and
	// refreshes its last-access time.
	AppendTurn(sessionID, query, response, agentName string) error
}
