package cart

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
)

// Store keeps in-memory cart sessions keyed by an opaque id. Carts live for
// the lifetime of the process only; the backend order store is the single
// source of truth once an order is submitted.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Create registers a new empty cart and returns its session id.
func (s *Store) Create() (string, *Cart) {
	id := newSessionID()
	c := &Cart{}

	s.mu.Lock()
	s.carts[id] = c
	s.mu.Unlock()
	return id, c
}

// Get looks up a cart by session id.
func (s *Store) Get(id string) (*Cart, bool) {
	s.mu.Lock()
	c, ok := s.carts[id]
	s.mu.Unlock()
	return c, ok
}

// Delete drops a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.carts, id)
	s.mu.Unlock()
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
