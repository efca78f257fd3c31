package services

import (
	"context"
	"errors"
	"sync"

	"estate_browser/query"
)

// ErrSuperseded is returned to a fetch that resolved after a newer one was issued
var ErrSuperseded = errors.New("superseded by a newer query")

// Fetcher runs one browse query
type Fetcher interface {
	Query(ctx context.Context, params query.Params) (query.Result, error)
}

// Session holds the browse state of one client. Each query takes a sequence
// token when issued; only the holder of the latest token may commit.
type Session struct {
	fetcher Fetcher

	mu      sync.Mutex
	issued  uint64
	applied uint64
	current query.Result
	params  query.Params
}

// NewSession creates a new Session
func NewSession(fetcher Fetcher) *Session {
	return &Session{fetcher: fetcher}
}

// Query issues a fetch. If another fetch is issued before this one resolves,
// the result is dropped and ErrSuperseded is returned.
func (s *Session) Query(ctx context.Context, params query.Params) (query.Result, error) {
	token := s.next()

	result, err := s.fetcher.Query(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.issued {
		return query.Result{}, ErrSuperseded
	}
	if err != nil {
		return query.Result{}, err
	}
	s.applied = token
	s.current = result
	s.params = params
	return result, nil
}

// Current returns the last committed result and the params that produced it.
// ok is false until a query has committed.
func (s *Session) Current() (result query.Result, params query.Params, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.params, s.applied > 0
}

func (s *Session) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// SessionRegistry hands out one Session per client ID
type SessionRegistry struct {
	fetcher Fetcher

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionRegistry(fetcher Fetcher) *SessionRegistry {
	return &SessionRegistry{fetcher: fetcher, sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it on first use
func (r *SessionRegistry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		s = NewSession(r.fetcher)
		r.sessions[id] = s
	}
	return s
}

// Lookup returns nil when no session exists for id
func (r *SessionRegistry) Lookup(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

func (r *SessionRegistry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
