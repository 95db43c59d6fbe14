package server

import (
	"sync"

	"viidemo/internal/gallery"
)

type session struct {
	container *gallery.Container
	debug     bool
}

// sessionStore keeps the most recent page sessions, oldest evicted first.
type sessionStore struct {
	mu    sync.Mutex
	max   int
	order []string
	items map[string]session
}

func newSessionStore(max int) *sessionStore {
	if max < 1 {
		max = 1
	}
	return &sessionStore{max: max, items: make(map[string]session)}
}

func (s *sessionStore) put(id string, sess session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = sess
	for len(s.order) > s.max {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.items, oldest)
	}
}

func (s *sessionStore) get(id string) (session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	return sess, ok
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
