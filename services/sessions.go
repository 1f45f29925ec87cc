package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one live editor. Do serialises every operation on it.
type Session[T any] struct {
	ID string

	mu       sync.Mutex
	value    T
	notes    *Recorder
	lastSeen time.Time
}

// Do runs fn with the session locked and returns the notifications it raised.
func (s *Session[T]) Do(fn func(v T) error) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.value)
	return s.notes.Drain(), err
}

// SessionStore keeps editors keyed by a random id. Editors left idle for
// longer than the TTL are dropped by Sweep.
type SessionStore[T any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session[T]
}

func NewSessionStore[T any](ttl time.Duration) *SessionStore[T] {
	return &SessionStore[T]{
		ttl:      ttl,
		now:      time.Now,
		sessions: map[string]*Session[T]{},
	}
}

// Create registers value. The recorder should be the notifier the value
// reports to, so Do can hand its notifications back.
func (s *SessionStore[T]) Create(value T, notes *Recorder) *Session[T] {
	if notes == nil {
		notes = NewRecorder()
	}
	sess := &Session[T]{
		ID:    uuid.NewString(),
		value: value,
		notes: notes,
	}
	s.mu.Lock()
	sess.lastSeen = s.now()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *SessionStore[T]) Get(id string) (*Session[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess, nil
}

func (s *SessionStore[T]) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *SessionStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and returns how many were dropped. A zero TTL
// keeps sessions forever.
func (s *SessionStore[T]) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
