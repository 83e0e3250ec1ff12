package server

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-refiner/internal/review"
	"github.com/jonathan/resume-refiner/internal/types"
)

// Session is one client's review state plus the bookkeeping the server needs around it.
type Session struct {
	id     uuid.UUID
	review *review.Session
	busy   atomic.Bool

	mu      sync.Mutex
	format  types.Format
	expires time.Time
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// begin marks the session busy. It fails if another mutating operation is in flight.
func (s *Session) begin() error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrSessionBusy
	}
	return nil
}

func (s *Session) end() {
	s.busy.Store(false)
}

// Format returns the session's output format.
func (s *Session) Format() types.Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

func (s *Session) setFormat(f types.Format) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.format = f
}

// SessionStore keeps sessions in memory. Nothing is persisted; a restart drops every session.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewSessionStore creates a store whose sessions live for ttl after their last use.
func NewSessionStore(ttl time.Duration, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create starts a session for an extracted record.
func (st *SessionStore) Create(record *types.ResumeRecord, format types.Format) *Session {
	s := &Session{
		id:      uuid.New(),
		review:  review.NewSession(record, st.logger),
		format:  format,
		expires: st.now().Add(st.ttl),
	}
	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()

	st.logger.Info("session created", zap.String("session_id", s.id.String()))
	return s
}

// Get returns a live session and extends its lifetime.
func (st *SessionStore) Get(id uuid.UUID) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := st.now()
	s.mu.Lock()
	expired := now.After(s.expires)
	if !expired {
		s.expires = now.Add(st.ttl)
	}
	s.mu.Unlock()

	if expired {
		st.Delete(id)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete drops a session. It reports whether the session existed.
func (st *SessionStore) Delete(id uuid.UUID) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		s.review.Reset()
		st.logger.Info("session closed", zap.String("session_id", id.String()))
	}
	return ok
}

// Sweep drops expired sessions and returns how many were removed.
func (st *SessionStore) Sweep() int {
	now := st.now()
	var expired []uuid.UUID
	st.mu.RLock()
	for id, s := range st.sessions {
		s.mu.Lock()
		if now.After(s.expires) {
			expired = append(expired, id)
		}
		s.mu.Unlock()
	}
	st.mu.RUnlock()

	for _, id := range expired {
		st.Delete(id)
	}
	return len(expired)
}

// Len returns the number of sessions held.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
