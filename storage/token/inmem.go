package tokenstore

import (
	"sync"

	"github.com/llamalearn/llamalearn/core/session"
)

// MemStore is an in-memory TokenStore for tests.
type MemStore struct {
	mu    sync.Mutex
	token string
}

var _ session.TokenStore = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
