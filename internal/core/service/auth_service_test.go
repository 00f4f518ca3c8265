package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
)

func newAuthFixture(gw *stubGateway) (*AuthService, *Workspaces, *stubStorage) {
	storage := newStubStorage()
	ws := NewWorkspaces(WorkspaceConfig{Storage: storage, Gateway: gw, Timeout: time.Second}, zerolog.Nop())
	return NewAuthService(gw, ws, time.Second, zerolog.Nop()), ws, storage
}

func TestAuthService_Login_Success(t *testing.T) {
	var sent ports.LoginRequest
	gw := &stubGateway{
		loginFn: func(req ports.LoginRequest) (*ports.LoginResult, error) {
			sent = req
			return &ports.LoginResult{
				User:        &domain.User{ID: 3, Username: "sofia", Name: "sofia", Role: domain.RoleOperator},
				Apartment:   &domain.Apartment{ID: 1, Name: "Appartamento Centro"},
				Checklist:   &domain.Checklist{ID: 42},
				AccessToken: "backend-token",
			}, nil
		},
	}
	svc, ws, storage := newAuthFixture(gw)

	w, err := svc.Login(context.Background(), ports.LoginRequest{
		Username: "sofia", Password: "Prova123!", ApartmentID: 1, Date: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if sent.Date != "2024-01-01" || sent.ApartmentID != 1 {
		t.Fatalf("unexpected request %+v", sent)
	}
	sess := w.Session.Snapshot()
	if sess.User.Name != "sofia" || sess.AuthToken != "backend-token" || sess.Checklist.ID != 42 {
		t.Fatalf("unexpected session %+v", sess)
	}
	if d := domain.DecidePath(w.Session.GateInput(), "/"); d.Location != "/checklist" {
		t.Fatalf("expected login surface to forward to /checklist, got %+v", d)
	}
	if ws.Len() != 1 {
		t.Fatalf("expected one workspace, got %d", ws.Len())
	}
	if _, ok := storage.sessions[w.Session.ID()]; !ok {
		t.Fatalf("expected session persisted under %s", w.Session.ID())
	}
}

func TestAuthService_Login_DefaultsDateToToday(t *testing.T) {
	var sent ports.LoginRequest
	gw := &stubGateway{
		loginFn: func(req ports.LoginRequest) (*ports.LoginResult, error) {
			sent = req
			return &ports.LoginResult{User: operator(), AccessToken: "t"}, nil
		},
	}
	svc, _, _ := newAuthFixture(gw)
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }

	if _, err := svc.Login(context.Background(), ports.LoginRequest{Username: "sofia", Password: "x", ApartmentID: 2}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if sent.Date != "2024-03-09" {
		t.Fatalf("expected today's date, got %q", sent.Date)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	gw := &stubGateway{}
	svc, _, _ := newAuthFixture(gw)

	cases := []ports.LoginRequest{
		{Password: "x", ApartmentID: 1},
		{Username: "sofia", ApartmentID: 1},
		{Username: "sofia", Password: "x"},
	}
	for _, req := range cases {
		if _, err := svc.Login(context.Background(), req); !domain.IsValidation(err, domain.CodeMissingField) {
			t.Errorf("expected missing_field for %+v, got %v", req, err)
		}
	}
	if gw.total() != 0 {
		t.Fatalf("validation failures must not reach the backend")
	}
}

func TestAuthService_Login_BackendRejection(t *testing.T) {
	gw := &stubGateway{
		loginFn: func(ports.LoginRequest) (*ports.LoginResult, error) {
			return nil, &domain.GatewayError{Op: "login", Status: 401, Detail: "Credenziali non valide"}
		},
	}
	svc, ws, _ := newAuthFixture(gw)

	_, err := svc.Login(context.Background(), ports.LoginRequest{Username: "sofia", Password: "bad", ApartmentID: 1})
	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) || gerr.Message() != "Credenziali non valide" {
		t.Fatalf("expected backend detail, got %v", err)
	}
	if ws.Len() != 0 {
		t.Fatalf("no workspace should exist after a failed login")
	}
}

func TestAuthService_Login_StorageFailureDropsWorkspace(t *testing.T) {
	gw := &stubGateway{
		loginFn: func(ports.LoginRequest) (*ports.LoginResult, error) {
			return &ports.LoginResult{User: operator(), AccessToken: "t"}, nil
		},
	}
	svc, ws, storage := newAuthFixture(gw)
	storage.saveErr = errors.New("redis down")

	if _, err := svc.Login(context.Background(), ports.LoginRequest{Username: "sofia", Password: "x", ApartmentID: 1}); err == nil {
		t.Fatalf("expected error")
	}
	if ws.Len() != 0 {
		t.Fatalf("expected workspace dropped, got %d", ws.Len())
	}
}

func TestAuthService_Logout(t *testing.T) {
	gw := &stubGateway{
		loginFn: func(ports.LoginRequest) (*ports.LoginResult, error) {
			return &ports.LoginResult{User: operator(), AccessToken: "t"}, nil
		},
	}
	svc, ws, storage := newAuthFixture(gw)
	w, err := svc.Login(context.Background(), ports.LoginRequest{Username: "sofia", Password: "x", ApartmentID: 1})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := svc.Logout(context.Background(), w); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if ws.Len() != 0 || len(storage.sessions) != 0 {
		t.Fatalf("expected workspace and storage cleared")
	}
	if w.Session.Snapshot().Authenticated() {
		t.Fatalf("expected logged-out session")
	}
}
