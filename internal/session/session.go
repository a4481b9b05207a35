// Package session keeps per-session conversation histories in memory.
// Histories live for the process lifetime only.
package session

import (
	"sync"

	"magpie/internal/agent"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string][]agent.Message
}

func NewStore() *Store {
	return &Store{sessions: make(map[string][]agent.Message)}
}

// New creates a session and returns its id.
func (s *Store) New() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = nil
	s.mu.Unlock()
	return id
}

// Ensure creates the session if it does not exist yet.
func (s *Store) Ensure(id string) {
	s.mu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.sessions[id] = nil
	}
	s.mu.Unlock()
}

// History returns a copy of the session's history. The copy is the caller's
// to extend; a turn in flight never sees later mutations.
func (s *Store) History(id string) []agent.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.sessions[id]
	out := make([]agent.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Append adds the messages a finished turn produced to the session's
// history. Appending under the store lock keeps concurrent turns on the
// same session from overwriting each other's messages.
func (s *Store) Append(id string, msgs ...agent.Message) {
	s.mu.Lock()
	s.sessions[id] = append(s.sessions[id], msgs...)
	s.mu.Unlock()
}

// IDs lists known session ids.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		out = append(out, id)
	}
	return out
}
