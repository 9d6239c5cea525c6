package server

import (
	"sync"

	"bestfit/internal/wizard"

	"github.com/google/uuid"
)

// entry guards one wizard session. Holding mu for a whole request keeps at
// most one fetch in flight per session.
type entry struct {
	mu  sync.Mutex
	ctl *wizard.Controller
}

// Store keeps wizard sessions in memory, keyed by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	newCtl   func() *wizard.Controller
}

// NewStore creates an empty store. newCtl builds the controller for each new session.
func NewStore(newCtl func() *wizard.Controller) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		newCtl:   newCtl,
	}
}

// Create starts a session and returns its id.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &entry{ctl: s.newCtl()}
	s.mu.Unlock()
	return id
}

// With runs fn with exclusive access to the session's controller. It
// reports false if id is unknown.
func (s *Store) With(id string, fn func(*wizard.Controller)) bool {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.ctl)
	return true
}

// Delete drops a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
