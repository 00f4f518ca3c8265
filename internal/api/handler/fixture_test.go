package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/api/middleware"
	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
	"github.com/bennati/checklist-bff/internal/core/service"
	memorydb "github.com/bennati/checklist-bff/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Backend stub
// ---------------------------------------------------------------------------

var errNotWired = errors.New("backend call not wired in test")

type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	loginFn           func(ports.LoginRequest) (*ports.LoginResult, error)
	listApartmentsFn  func() ([]domain.Apartment, error)
	getChecklistFn    func(id int64) (*domain.Checklist, error)
	updateChecklistFn func(id int64, u domain.ChecklistUpdate) (*domain.Checklist, error)
	updateTaskFn      func(id int64, u domain.TaskUpdate) (*domain.TaskResponse, error)
	uploadPhotoFn     func(id int64, p ports.PhotoUpload) (*domain.TaskResponse, error)
	listItemsFn       func(apartmentID int64) ([]domain.InventoryItem, error)
	listCategoriesFn  func() ([]domain.Category, error)
	updateItemFn      func(id int64, u domain.ItemUpdate) (*domain.InventoryItem, error)
	dashboardFn       func() (json.RawMessage, error)
	exportFn          func(req ports.ExportRequest) (*ports.Export, error)
}

func (f *fakeBackend) hit(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) Login(_ context.Context, req ports.LoginRequest) (*ports.LoginResult, error) {
	f.hit("Login")
	if f.loginFn == nil {
		return nil, errNotWired
	}
	return f.loginFn(req)
}

func (f *fakeBackend) ListApartments(context.Context) ([]domain.Apartment, error) {
	f.hit("ListApartments")
	if f.listApartmentsFn == nil {
		return nil, errNotWired
	}
	return f.listApartmentsFn()
}

func (f *fakeBackend) GetChecklist(_ context.Context, id int64) (*domain.Checklist, error) {
	f.hit("GetChecklist")
	if f.getChecklistFn == nil {
		return nil, errNotWired
	}
	return f.getChecklistFn(id)
}

func (f *fakeBackend) UpdateChecklist(_ context.Context, id int64, u domain.ChecklistUpdate) (*domain.Checklist, error) {
	f.hit("UpdateChecklist")
	if f.updateChecklistFn == nil {
		return nil, errNotWired
	}
	return f.updateChecklistFn(id, u)
}

func (f *fakeBackend) UpdateTask(_ context.Context, id int64, u domain.TaskUpdate) (*domain.TaskResponse, error) {
	f.hit("UpdateTask")
	if f.updateTaskFn == nil {
		return nil, errNotWired
	}
	return f.updateTaskFn(id, u)
}

func (f *fakeBackend) UploadPhoto(_ context.Context, id int64, p ports.PhotoUpload) (*domain.TaskResponse, error) {
	f.hit("UploadPhoto")
	if f.uploadPhotoFn == nil {
		return nil, errNotWired
	}
	return f.uploadPhotoFn(id, p)
}

func (f *fakeBackend) ListItems(_ context.Context, apartmentID int64) ([]domain.InventoryItem, error) {
	f.hit("ListItems")
	if f.listItemsFn == nil {
		return nil, errNotWired
	}
	return f.listItemsFn(apartmentID)
}

func (f *fakeBackend) ListCategories(context.Context) ([]domain.Category, error) {
	f.hit("ListCategories")
	if f.listCategoriesFn == nil {
		return nil, errNotWired
	}
	return f.listCategoriesFn()
}

func (f *fakeBackend) UpdateItem(_ context.Context, id int64, u domain.ItemUpdate) (*domain.InventoryItem, error) {
	f.hit("UpdateItem")
	if f.updateItemFn == nil {
		return nil, errNotWired
	}
	return f.updateItemFn(id, u)
}

func (f *fakeBackend) Dashboard(context.Context) (json.RawMessage, error) {
	f.hit("Dashboard")
	if f.dashboardFn == nil {
		return nil, errNotWired
	}
	return f.dashboardFn()
}

func (f *fakeBackend) ApartmentStats(context.Context, int64) (json.RawMessage, error) {
	f.hit("ApartmentStats")
	return json.RawMessage(`{}`), nil
}

func (f *fakeBackend) Export(_ context.Context, req ports.ExportRequest) (*ports.Export, error) {
	f.hit("Export")
	if f.exportFn == nil {
		return nil, errNotWired
	}
	return f.exportFn(req)
}

func (f *fakeBackend) Ping(context.Context) error { return nil }

// ---------------------------------------------------------------------------
// Fixture: real services over the fake backend and in-memory sessions
// ---------------------------------------------------------------------------

type fixture struct {
	backend    *fakeBackend
	workspaces *service.Workspaces
	auth       *service.AuthService
	reports    *service.ReportService
	tokens     *middleware.Tokens
	e          *echo.Echo
}

func newFixture(t *testing.T, backend *fakeBackend) *fixture {
	t.Helper()
	ws := service.NewWorkspaces(service.WorkspaceConfig{
		Storage: memorydb.NewSessionStorage(time.Hour),
		Gateway: backend,
		Timeout: time.Second,
	}, zerolog.Nop())

	e := echo.New()
	e.Validator = NewValidator()

	return &fixture{
		backend:    backend,
		workspaces: ws,
		auth:       service.NewAuthService(backend, ws, time.Second, zerolog.Nop()),
		reports:    service.NewReportService(backend, nil, time.Second, zerolog.Nop()),
		tokens:     middleware.NewTokens("test-secret", time.Hour),
		e:          e,
	}
}

// login opens a session for a user of the given role with checklist 42 on
// apartment 1.
func (f *fixture) login(t *testing.T, role domain.Role) *service.Workspace {
	t.Helper()
	if f.backend.loginFn == nil {
		f.backend.loginFn = func(ports.LoginRequest) (*ports.LoginResult, error) {
			return &ports.LoginResult{
				User:        &domain.User{ID: 7, Username: "sofia", Name: "Sofia", Role: role},
				Apartment:   &domain.Apartment{ID: 1, Name: "Appartamento Centro"},
				Checklist:   &domain.Checklist{ID: 42},
				AccessToken: "backend-token",
			}, nil
		}
	}
	ws, err := f.auth.Login(context.Background(), ports.LoginRequest{
		Username: "sofia", Password: "Prova123!", ApartmentID: 1, Date: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return ws
}

// request builds an echo context carrying ws the way the Session middleware does.
func (f *fixture) request(method, target string, body io.Reader, ws *service.Workspace) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	if ws != nil {
		c.Set(middleware.KeyWorkspace, ws)
		c.Set(middleware.KeyRole, string(ws.Session.User().Role))
	}
	return c, rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func strPtr(s string) *string { return &s }
