package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/upsun/upsun-mcp/pkg/logger"
)

// Registry multiplexes live sessions by ID. Each transport namespace
// owns its own Registry instance; registries are injected, never
// package-level state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl     time.Duration
	onEvict func(*Session)

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a session registry. When ttl is positive a
// background loop evicts sessions idle for longer than ttl, handing
// each evicted session to onEvict (which normally closes its
// transport). ttl <= 0 disables eviction; sessions then live until
// their transport closes them or the gateway drains the registry.
func NewRegistry(ttl time.Duration, onEvict func(*Session)) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		onEvict:  onEvict,
		stopCh:   make(chan struct{}),
	}
	if ttl > 0 {
		go r.cleanupRoutine()
	}
	return r
}

func (r *Registry) cleanupRoutine() {
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.CleanupExpired()
		case <-r.stopCh:
			return
		}
	}
}

// Add inserts a session under its ID. The ID must be set and unused.
func (r *Registry) Add(s *Session) error {
	id := s.ID()
	if id == "" {
		return ErrEmptySessionID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[id]; exists {
		return fmt.Errorf("%w: %q", ErrSessionAlreadyExists, id)
	}
	r.sessions[id] = s
	return nil
}

// Finalize assigns the transport-generated ID to a pending session and
// inserts it. This is the single point where a session becomes
// reachable by ID.
func (r *Registry) Finalize(s *Session, id string) error {
	if id == "" {
		return ErrEmptySessionID
	}
	s.setID(id)
	return r.Add(s)
}

// Get returns the session for id and touches it.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}
	s.Touch()
	return s, true
}

// Delete removes the entry for id and returns the removed session, or
// nil if the ID was absent. Deleting an absent key is a no-op: the
// close-event path and the cleanup path may race to remove the same
// entry, and losing that race is the expected outcome, not an error.
// Delete does not close the session; the caller does.
func (r *Registry) Delete(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil
	}
	delete(r.sessions, id)
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Range calls f for every live session until f returns false.
func (r *Registry) Range(f func(s *Session) bool) {
	r.mu.RLock()
	snapshot := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.RUnlock()

	for _, s := range snapshot {
		if !f(s) {
			return
		}
	}
}

// Drain removes every session and returns them, for the shutdown sweep.
func (r *Registry) Drain() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		out = append(out, s)
		delete(r.sessions, id)
	}
	return out
}

// CleanupExpired evicts sessions idle for longer than the TTL. Evicted
// sessions are passed to the onEvict callback outside the registry lock.
func (r *Registry) CleanupExpired() {
	if r.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.UpdatedAt().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		logger.Debugw("evicting idle session", "session_id", s.ID(), "transport", string(s.Kind()))
		if r.onEvict != nil {
			r.onEvict(s)
		}
	}
}

// Stop halts the eviction loop. It does not close live sessions; use
// Drain for that.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
}
