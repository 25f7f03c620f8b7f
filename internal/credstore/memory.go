package credstore

import (
	"sync"

	"github.com/gameportal/portal-go/internal/model"
)

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu      sync.Mutex
	session model.Session
	present bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load implements Store.
func (s *MemStore) Load() (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, s.present
}

// Save implements Store.
func (s *MemStore) Save(session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.present = true
	return nil
}

// Clear implements Store.
func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = model.Session{}
	s.present = false
	return nil
}
