// Package session keeps one rate-limited usage log per interactive session.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/bizlens/internal/application/ratelimit"
)

type entry struct {
	session  *ratelimit.Session
	lastSeen time.Time
}

// Registry maps session identifiers to their limiter state.
type Registry struct {
	limit  int
	window time.Duration
	ttl    time.Duration
	newID  func() string

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry creates a registry whose sessions share limit and window.
// Sessions idle for longer than ttl are dropped by Sweep; ttl <= 0 keeps them forever.
func NewRegistry(limit int, window, ttl time.Duration) *Registry {
	return &Registry{
		limit:    limit,
		window:   window,
		ttl:      ttl,
		newID:    uuid.NewString,
		sessions: make(map[string]*entry),
	}
}

// Get returns the session for id. An empty or unknown id starts a new
// session with a freshly generated identifier.
func (r *Registry) Get(id string, now time.Time) *ratelimit.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[id]; ok && id != "" {
		e.lastSeen = now
		return e.session
	}

	s := ratelimit.NewSession(r.newID(), r.limit, r.window)
	r.sessions[s.ID()] = &entry{session: s, lastSeen: now}
	return s
}

// Lookup returns an existing session without creating one.
func (r *Registry) Lookup(id string) (*ratelimit.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Sweep drops sessions idle for longer than the TTL and returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
