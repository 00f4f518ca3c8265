package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/service"
	memorydb "github.com/bennati/checklist-bff/internal/infrastructure/db/memory"
)

func newWorkspaces(t *testing.T) (*service.Workspaces, *memorydb.SessionStorage) {
	t.Helper()
	storage := memorydb.NewSessionStorage(time.Hour)
	return service.NewWorkspaces(service.WorkspaceConfig{Storage: storage}, zerolog.Nop()), storage
}

func TestSession_RestoresPersistedSession(t *testing.T) {
	workspaces, storage := newWorkspaces(t)
	err := storage.Save(context.Background(), "sess-1", domain.Session{
		User:      &domain.User{ID: 7, Name: "Marco", Role: domain.RoleManager},
		AuthToken: "backend-token",
	})
	if err != nil {
		t.Fatalf("seed storage: %v", err)
	}

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(KeySessionID, "sess-1")
	// A stale claim is replaced by the stored user's role.
	c.Set(KeyRole, "operator")

	called := false
	handler := Session(workspaces)(func(c echo.Context) error {
		called = true
		ws, ok := c.Get(KeyWorkspace).(*service.Workspace)
		if !ok || ws.Session.User().ID != 7 {
			t.Fatalf("workspace not injected")
		}
		if c.Get(KeyRole) != "manager" {
			t.Fatalf("expected role from session, got %v", c.Get(KeyRole))
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestSession_UnknownSessionIsUnauthenticated(t *testing.T) {
	workspaces, _ := newWorkspaces(t)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(KeySessionID, "sess-gone")

	handler := Session(workspaces)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestOptionalSession_Anonymous(t *testing.T) {
	workspaces, _ := newWorkspaces(t)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	called := false
	handler := OptionalSession(workspaces)(func(c echo.Context) error {
		called = true
		if c.Get(KeyWorkspace) != nil {
			t.Fatalf("no workspace expected")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}
