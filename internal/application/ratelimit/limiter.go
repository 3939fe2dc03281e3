// Package ratelimit implements fixed-count admission over a trailing window,
// scoped to a single user session.
package ratelimit

import (
	"slices"
	"sync"
	"time"

	"github.com/doeshing/bizlens/internal/domain"
)

// Admit decides whether one more action fits in the trailing window ending at now.
//
// The returned log holds only the entries strictly after now-window; it is
// returned whether or not the action is admitted. Admit never appends: the
// caller records now once the admitted action has completed.
//
// A limit <= 0 denies everything. A window <= 0 expires every entry.
func Admit(log domain.UsageLog, limit int, window time.Duration, now time.Time) (bool, domain.UsageLog) {
	var pruned domain.UsageLog
	if window <= 0 {
		pruned = domain.UsageLog{}
	} else {
		pruned = log.Prune(now.Add(-window))
	}

	if limit <= 0 {
		return false, pruned
	}
	return len(pruned) < limit, pruned
}

// Session owns the usage log of one interactive user session.
//
// Reserve, Commit and Release are safe for concurrent use. An admitted action
// holds a pending slot until it is committed or released, so two concurrent
// reservations cannot both take the last slot.
type Session struct {
	id     string
	limit  int
	window time.Duration

	mu      sync.Mutex
	log     domain.UsageLog
	pending int
}

// NewSession creates an empty session.
func NewSession(id string, limit int, window time.Duration) *Session {
	return &Session{
		id:     id,
		limit:  limit,
		window: window,
		log:    domain.UsageLog{},
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Limit returns the configured action count per window.
func (s *Session) Limit() int {
	return s.limit
}

// Window returns the configured trailing window.
func (s *Session) Window() time.Duration {
	return s.window
}

// Reserve admits one action at now or returns a *domain.RateLimitError.
func (s *Session) Reserve(now time.Time) (*Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	effective := s.limit
	if s.window > 0 {
		effective -= s.pending
	}
	if s.limit <= 0 {
		effective = 0
	}

	allowed, pruned := Admit(s.log, effective, s.window, now)
	s.log = pruned
	if !allowed {
		return nil, &domain.RateLimitError{
			Limit:      s.limit,
			Window:     s.window,
			RetryAfter: s.retryAfterLocked(now),
		}
	}

	s.pending++
	return &Reservation{session: s, at: now}, nil
}

// Remaining returns how many more actions would be admitted at now.
func (s *Session) Remaining(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limit <= 0 {
		return 0
	}
	if s.window <= 0 {
		return s.limit
	}
	s.log = s.log.Prune(now.Add(-s.window))
	remaining := s.limit - len(s.log) - s.pending
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Usage returns a copy of the recorded admission times.
func (s *Session) Usage() domain.UsageLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Clone()
}

// pendingRetryAfter is the hint given when only in-flight reservations fill
// the window; a slot frees as soon as one of them is released or committed.
const pendingRetryAfter = time.Second

func (s *Session) retryAfterLocked(now time.Time) time.Duration {
	if s.limit <= 0 {
		return 0
	}
	if len(s.log) < s.limit {
		return pendingRetryAfter
	}
	wait := s.log[0].Add(s.window).Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

func (s *Session) settle(at time.Time, record bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending > 0 {
		s.pending--
	}
	if !record {
		return
	}
	i, _ := slices.BinarySearchFunc(s.log, at, func(a, b time.Time) int { return a.Compare(b) })
	s.log = slices.Insert(s.log, i, at)
}

// Reservation is an admitted action that has not finished yet.
type Reservation struct {
	session *Session
	at      time.Time
	once    sync.Once
}

// At returns the admission time.
func (r *Reservation) At() time.Time {
	return r.at
}

// Commit records the admission time in the session log.
func (r *Reservation) Commit() {
	r.once.Do(func() { r.session.settle(r.at, true) })
}

// Release frees the slot without recording usage.
func (r *Reservation) Release() {
	r.once.Do(func() { r.session.settle(r.at, false) })
}
