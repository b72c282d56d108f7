package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clarvishq/clarvis/core"
	"github.com/clarvishq/clarvis/logging"
)

// InMemoryStore is a volatile core.SessionStore keeping sessions in a process
// local map with TTL-based expiry. It is safe for concurrent access: the
// store mutex guards the map and the last-access index, while each session
// carries its own lock for turn reads and appends, so two requests working on
// the same session id never lose an update.
type InMemoryStore struct {
	mu         sync.Mutex
	sessions   map[string]*core.Session
	lastAccess map[string]time.Time
	timeout    time.Duration
	logger     logging.Logger
	now        func() time.Time // injectable for expiry tests
}

var _ core.SessionStore = (*InMemoryStore)(nil)

// Options configures an InMemoryStore.
type Options struct {
	// IdleTimeout is how long a session may go unaccessed before the next
	// sweep removes it.
	IdleTimeout time.Duration
	// Logger receives sweep diagnostics; defaults to NoOp.
	Logger logging.Logger
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{
		IdleTimeout: 30 * time.Minute,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{
		sessions:   make(map[string]*core.Session),
		lastAccess: make(map[string]time.Time),
		timeout:    opts.IdleTimeout,
		logger:     opts.Logger,
		now:        time.Now,
	}
}

// GetOrCreate returns the live session for id after sweeping expired entries.
// A new session is created when id is empty (with a generated id) or names no
// live session; either way the returned session's last-access time is
// refreshed.
func (s *InMemoryStore) GetOrCreate(id string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	if id != "" {
		if sess, ok := s.sessions[id]; ok {
			s.lastAccess[id] = s.now()
			return sess, nil
		}
	}

	if id == "" {
		id = uuid.NewString()
	}
	sess := core.NewSession(id)
	s.sessions[id] = sess
	s.lastAccess[id] = s.now()
	return sess, nil
}

// AppendTurn records a completed exchange on the identified session, creating
// it if a sweep removed it mid-request, and refreshes its last-access time.
func (s *InMemoryStore) AppendTurn(sessionID, query, response, agentName string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = core.NewSession(sessionID)
		s.sessions[sessionID] = sess
	}
	s.lastAccess[sessionID] = s.now()
	s.mu.Unlock()

	// The session's own lock serializes the append with concurrent readers.
	sess.AddTurn(query, response, agentName)
	return nil
}

// Len reports the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweepLocked removes sessions idle longer than the timeout; caller must hold
// the store lock.
func (s *InMemoryStore) sweepLocked() {
	cutoff := s.now().Add(-s.timeout)
	for id, last := range s.lastAccess {
		if last.Before(cutoff) {
			delete(s.sessions, id)
			delete(s.lastAccess, id)
			s.logger.Debug("expired idle session", "session_id", id)
		}
	}
}
