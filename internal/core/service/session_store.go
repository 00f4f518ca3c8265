package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
)

// SessionStore is the single source of truth for one browser session: who is
// logged in, for which apartment, with which checklist. Readers get copies;
// only the store's own methods mutate it.
type SessionStore struct {
	id      string
	storage ports.SessionStorage
	log     zerolog.Logger

	mu      sync.RWMutex
	loading bool
	session domain.Session
}

// NewSessionStore returns a store that reports Loading until Restore runs.
func NewSessionStore(id string, storage ports.SessionStorage, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		id:      id,
		storage: storage,
		log:     log.With().Str("session_id", id).Logger(),
		loading: true,
	}
}

// ID returns the session id the store persists under.
func (s *SessionStore) ID() string { return s.id }

// Restore reads the persisted fields. A user without a token is treated as
// logged out. Loading is false afterwards, even when storage fails.
func (s *SessionStore) Restore(ctx context.Context) error {
	persisted, err := s.storage.Load(ctx, s.id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.session = domain.Session{}
		return fmt.Errorf("restore session: %w", err)
	}
	if !persisted.Authenticated() {
		if persisted.User != nil || persisted.AuthToken != "" {
			s.log.Warn().Msg("persisted session is half-authenticated, treating as logged out")
		}
		persisted.User = nil
		persisted.AuthToken = ""
	}
	s.session = persisted
	return nil
}

// Loading reports whether Restore has not finished yet.
func (s *SessionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot returns a copy of the current session.
func (s *SessionStore) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

// GateInput returns what the authorization gate needs from the session.
func (s *SessionStore) GateInput() domain.GateInput {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in := domain.GateInput{Loading: s.loading}
	if s.session.User != nil {
		u := *s.session.User
		in.User = &u
	}
	return in
}

// Token returns the backend bearer token, empty when logged out.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AuthToken
}

// User returns a copy of the logged-in user, or nil.
func (s *SessionStore) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.User == nil {
		return nil
	}
	u := *s.session.User
	return &u
}

// Login persists all four fields in one write and only then swaps memory, so
// a storage failure leaves the previous session in place.
func (s *SessionStore) Login(ctx context.Context, user *domain.User, apartment *domain.Apartment, checklist *domain.Checklist, token string) error {
	if user == nil || token == "" {
		return domain.NewValidationError(domain.CodeMissingField, "login requires both a user and a token")
	}

	next := domain.Session{
		User:      user,
		Apartment: apartment,
		Checklist: checklist,
		AuthToken: token,
	}.Clone()

	if err := s.storage.Save(ctx, s.id, next); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.session = next
	s.loading = false
	s.mu.Unlock()

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("session established")
	return nil
}

// Logout clears memory first, then persisted state. Memory stays cleared even
// if the storage delete fails.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session = domain.Session{}
	s.loading = false
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.log.Info().Msg("session cleared")
	return nil
}

// UpdateChecklist replaces the cached checklist summary.
func (s *SessionStore) UpdateChecklist(ctx context.Context, checklist *domain.Checklist) error {
	c := checklist.Clone()
	if err := s.storage.SaveChecklist(ctx, s.id, c); err != nil {
		return fmt.Errorf("persist checklist: %w", err)
	}

	s.mu.Lock()
	s.session.Checklist = c
	s.mu.Unlock()
	return nil
}
