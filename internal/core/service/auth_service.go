package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
)

// AuthService opens and closes sessions. Credentials are checked by the
// backend; the BFF only keeps what the backend hands back.
type AuthService struct {
	gateway    ports.BackendGateway
	workspaces *Workspaces
	timeout    time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(gateway ports.BackendGateway, workspaces *Workspaces, timeout time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		gateway:    gateway,
		workspaces: workspaces,
		timeout:    timeout,
		log:        log,
		now:        time.Now,
	}
}

// Login authenticates against the backend and establishes a new session.
// An empty date defaults to today.
func (s *AuthService) Login(ctx context.Context, req ports.LoginRequest) (*Workspace, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, domain.NewValidationError(domain.CodeMissingField, "inserisci username e password")
	}
	if req.ApartmentID <= 0 {
		return nil, domain.NewValidationError(domain.CodeMissingField, "seleziona un appartamento")
	}
	if req.Date == "" {
		req.Date = s.now().Format(time.DateOnly)
	}

	gctx, cancel := gatewayContext(ctx, "", s.timeout)
	defer cancel()

	res, err := s.gateway.Login(gctx, req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	sessionID := uuid.NewString()
	w := s.workspaces.Create(sessionID)
	if err := w.Session.Login(ctx, res.User, res.Apartment, res.Checklist, res.AccessToken); err != nil {
		s.workspaces.Drop(sessionID)
		return nil, fmt.Errorf("login: %w", err)
	}
	return w, nil
}

// Logout clears the session and forgets its workspace.
func (s *AuthService) Logout(ctx context.Context, w *Workspace) error {
	w.Inventory.Discard()
	s.workspaces.Drop(w.Session.ID())
	return w.Session.Logout(ctx)
}

// ListApartments is public: the login form needs it before any session exists.
func (s *AuthService) ListApartments(ctx context.Context) ([]domain.Apartment, error) {
	gctx, cancel := gatewayContext(ctx, "", s.timeout)
	defer cancel()

	apartments, err := s.gateway.ListApartments(gctx)
	if err != nil {
		return nil, fmt.Errorf("list apartments: %w", err)
	}
	return apartments, nil
}
