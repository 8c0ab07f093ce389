package session

import (
	"sync"
	"time"

	"github.com/forto/backoffice/internal/application/invoicelist"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/google/uuid"
)

// ListFactory builds the invoice list controller of a new session
type ListFactory func(identity entity.Identity) *invoicelist.Controller

// Store keeps the live sessions of the process
type Store struct {
	newList ListFactory

	mu       sync.RWMutex
	sessions map[string]*Context
}

// NewStore creates an empty session store
func NewStore(newList ListFactory) *Store {
	return &Store{
		newList:  newList,
		sessions: make(map[string]*Context),
	}
}

// Create opens a session for the identity
func (s *Store) Create(identity entity.Identity) *Context {
	id := uuid.New().String()

	var factory func() *invoicelist.Controller
	if s.newList != nil {
		factory = func() *invoicelist.Controller { return s.newList(identity) }
	}
	ctx := newContext(id, identity, factory)

	s.mu.Lock()
	s.sessions[id] = ctx
	s.mu.Unlock()
	return ctx
}

// Get returns the live session with the given ID
func (s *Store) Get(id string) (*Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctx, ok := s.sessions[id]
	return ctx, ok
}

// End clears and forgets a session; ending an unknown session is a no-op
func (s *Store) End(id string) {
	s.mu.Lock()
	ctx, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		ctx.Clear()
	}
}

// Sweep ends every session not used since cutoff and reports how many it ended
func (s *Store) Sweep(cutoff time.Time) int {
	var idle []*Context
	s.mu.Lock()
	for id, ctx := range s.sessions {
		if ctx.LastSeen().Before(cutoff) {
			idle = append(idle, ctx)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, ctx := range idle {
		ctx.Clear()
	}
	return len(idle)
}

// Each calls fn for a snapshot of the live sessions
func (s *Store) Each(fn func(*Context)) {
	s.mu.RLock()
	snapshot := make([]*Context, 0, len(s.sessions))
	for _, ctx := range s.sessions {
		snapshot = append(snapshot, ctx)
	}
	s.mu.RUnlock()

	for _, ctx := range snapshot {
		fn(ctx)
	}
}

// Len is the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
