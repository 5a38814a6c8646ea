package session

import (
	"sort"
	"sync"
	"time"
)

// CookieName is the cookie carrying the session id.
const CookieName = "JSESSIONID"

// Session is a user session shared by every request presenting its id.
// All methods are safe for concurrent use.
type Session struct {
	mu             sync.RWMutex
	id             string
	createdAt      time.Time
	lastAccessedAt time.Time
	maxInactive    time.Duration
	attributes     map[string]any
	invalidated    bool
	onInvalidate   func(id string)
}

func newSession(id string, now time.Time, maxInactive time.Duration, onInvalidate func(string)) *Session {
	return &Session{
		id:             id,
		createdAt:      now,
		lastAccessedAt: now,
		maxInactive:    maxInactive,
		attributes:     make(map[string]any),
		onInvalidate:   onInvalidate,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) CreationTime() time.Time { return s.createdAt }

func (s *Session) LastAccessedTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAccessedAt
}

// Touch records an access at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastAccessedAt) {
		s.lastAccessedAt = now
	}
}

func (s *Session) MaxInactiveInterval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxInactive
}

// SetMaxInactiveInterval changes the idle timeout. Zero or negative means the
// session never expires by idleness.
func (s *Session) SetMaxInactiveInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxInactive = d
}

func (s *Session) Attribute(name string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attributes[name]
}

func (s *Session) AttributeNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.attributes))
	for k := range s.attributes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (s *Session) SetAttribute(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attributes[name] = value
}

func (s *Session) RemoveAttribute(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attributes, name)
}

// Invalidate marks the session dead and drops it from its directory.
func (s *Session) Invalidate() {
	s.mu.Lock()
	if s.invalidated {
		s.mu.Unlock()
		return
	}
	s.invalidated = true
	s.attributes = make(map[string]any)
	cb := s.onInvalidate
	s.mu.Unlock()

	if cb != nil {
		cb(s.id)
	}
}

func (s *Session) IsInvalidated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.invalidated
}

// Expired reports whether the session is invalidated or has been idle for
// longer than its max inactive interval at now.
func (s *Session) Expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.invalidated {
		return true
	}
	return s.maxInactive > 0 && now.Sub(s.lastAccessedAt) > s.maxInactive
}
