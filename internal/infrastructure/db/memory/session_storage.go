// Package memory keeps sessions in process memory. Sessions are lost on
// restart; use it for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bennati/checklist-bff/internal/core/domain"
)

type entry struct {
	session   domain.Session
	expiresAt time.Time
}

// SessionStorage is a mutex-guarded map with per-session expiry.
type SessionStorage struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

func NewSessionStorage(ttl time.Duration) *SessionStorage {
	return &SessionStorage{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (s *SessionStorage) Load(_ context.Context, sessionID string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return domain.Session{}, nil
	}
	if s.expired(e) {
		delete(s.entries, sessionID)
		return domain.Session{}, nil
	}
	return e.session.Clone(), nil
}

func (s *SessionStorage) Save(_ context.Context, sessionID string, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = entry{session: sess.Clone(), expiresAt: s.deadline()}
	return nil
}

func (s *SessionStorage) SaveChecklist(_ context.Context, sessionID string, c *domain.Checklist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[sessionID]
	if s.expired(e) {
		e = entry{}
	}
	e.session.Checklist = c.Clone()
	e.expiresAt = s.deadline()
	s.entries[sessionID] = e
	return nil
}

func (s *SessionStorage) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

func (s *SessionStorage) deadline() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(s.ttl)
}

// zero expiresAt never expires
func (s *SessionStorage) expired(e entry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}
