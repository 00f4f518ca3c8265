package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Backend gateway stub
// ---------------------------------------------------------------------------

// stubGateway answers with its function fields and counts every call. A nil
// field fails the call, so tests only wire what they expect to be used.
type stubGateway struct {
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
	exportFn          func(req ports.ExportRequest) (*ports.Export, error)

	lastToken string
}

var errUnexpectedCall = errors.New("unexpected gateway call")

func (g *stubGateway) record(ctx context.Context, op string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls == nil {
		g.calls = map[string]int{}
	}
	g.calls[op]++
	g.lastToken = ports.BearerToken(ctx)
}

func (g *stubGateway) count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *stubGateway) total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}

func (g *stubGateway) Login(ctx context.Context, req ports.LoginRequest) (*ports.LoginResult, error) {
	g.record(ctx, "Login")
	if g.loginFn == nil {
		return nil, errUnexpectedCall
	}
	return g.loginFn(req)
}

func (g *stubGateway) ListApartments(ctx context.Context) ([]domain.Apartment, error) {
	g.record(ctx, "ListApartments")
	if g.listApartmentsFn == nil {
		return nil, errUnexpectedCall
	}
	return g.listApartmentsFn()
}

func (g *stubGateway) GetChecklist(ctx context.Context, id int64) (*domain.Checklist, error) {
	g.record(ctx, "GetChecklist")
	if g.getChecklistFn == nil {
		return nil, errUnexpectedCall
	}
	return g.getChecklistFn(id)
}

func (g *stubGateway) UpdateChecklist(ctx context.Context, id int64, u domain.ChecklistUpdate) (*domain.Checklist, error) {
	g.record(ctx, "UpdateChecklist")
	if g.updateChecklistFn == nil {
		return nil, errUnexpectedCall
	}
	return g.updateChecklistFn(id, u)
}

func (g *stubGateway) UpdateTask(ctx context.Context, id int64, u domain.TaskUpdate) (*domain.TaskResponse, error) {
	g.record(ctx, "UpdateTask")
	if g.updateTaskFn == nil {
		return nil, errUnexpectedCall
	}
	return g.updateTaskFn(id, u)
}

func (g *stubGateway) UploadPhoto(ctx context.Context, id int64, p ports.PhotoUpload) (*domain.TaskResponse, error) {
	g.record(ctx, "UploadPhoto")
	if g.uploadPhotoFn == nil {
		return nil, errUnexpectedCall
	}
	return g.uploadPhotoFn(id, p)
}

func (g *stubGateway) ListItems(ctx context.Context, apartmentID int64) ([]domain.InventoryItem, error) {
	g.record(ctx, "ListItems")
	if g.listItemsFn == nil {
		return nil, errUnexpectedCall
	}
	return g.listItemsFn(apartmentID)
}

func (g *stubGateway) ListCategories(ctx context.Context) ([]domain.Category, error) {
	g.record(ctx, "ListCategories")
	if g.listCategoriesFn == nil {
		return nil, errUnexpectedCall
	}
	return g.listCategoriesFn()
}

func (g *stubGateway) UpdateItem(ctx context.Context, id int64, u domain.ItemUpdate) (*domain.InventoryItem, error) {
	g.record(ctx, "UpdateItem")
	if g.updateItemFn == nil {
		return nil, errUnexpectedCall
	}
	return g.updateItemFn(id, u)
}

func (g *stubGateway) Dashboard(ctx context.Context) (json.RawMessage, error) {
	g.record(ctx, "Dashboard")
	return json.RawMessage(`{"apartments":[]}`), nil
}

func (g *stubGateway) ApartmentStats(ctx context.Context, apartmentID int64) (json.RawMessage, error) {
	g.record(ctx, "ApartmentStats")
	return json.RawMessage(`{"total_checklists":0}`), nil
}

func (g *stubGateway) Export(ctx context.Context, req ports.ExportRequest) (*ports.Export, error) {
	g.record(ctx, "Export")
	if g.exportFn == nil {
		return nil, errUnexpectedCall
	}
	return g.exportFn(req)
}

func (g *stubGateway) Ping(ctx context.Context) error {
	g.record(ctx, "Ping")
	return nil
}

// ---------------------------------------------------------------------------
// In-memory session storage stub
// ---------------------------------------------------------------------------

type stubStorage struct {
	mu        sync.Mutex
	sessions  map[string]domain.Session
	loadErr   error
	saveErr   error
	deleteErr error
}

func newStubStorage() *stubStorage {
	return &stubStorage{sessions: make(map[string]domain.Session)}
}

func (s *stubStorage) Load(_ context.Context, id string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return domain.Session{}, s.loadErr
	}
	return s.sessions[id].Clone(), nil
}

func (s *stubStorage) Save(_ context.Context, id string, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sessions[id] = sess.Clone()
	return nil
}

func (s *stubStorage) SaveChecklist(_ context.Context, id string, c *domain.Checklist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	sess := s.sessions[id]
	sess.Checklist = c.Clone()
	s.sessions[id] = sess
	return nil
}

func (s *stubStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.sessions, id)
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type stubRecorder struct {
	reports []domain.BatchReport
}

func (r *stubRecorder) Record(report domain.BatchReport) {
	r.reports = append(r.reports, report)
}

func operator() *domain.User {
	return &domain.User{ID: 7, Username: "sofia", Name: "Sofia", Role: domain.RoleOperator}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
