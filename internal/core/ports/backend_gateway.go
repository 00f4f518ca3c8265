package ports

import (
	"context"
	"encoding/json"
	"io"

	"github.com/bennati/checklist-bff/internal/core/domain"
)

// LoginRequest is the credential set the backend checks at login.
type LoginRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	ApartmentID int64  `json:"apartment_id"`
	Date        string `json:"date"` // YYYY-MM-DD
}

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	User        *domain.User      `json:"user"`
	Apartment   *domain.Apartment `json:"apartment"`
	Checklist   *domain.Checklist `json:"checklist"`
	AccessToken string            `json:"access_token"`
}

// PhotoUpload is a file to attach to a task. Content is streamed once.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ExportKind selects which report the backend renders.
type ExportKind string

const (
	ExportInventoryPDF  ExportKind = "inventory_pdf"
	ExportInventoryCSV  ExportKind = "inventory_csv"
	ExportChecklistsCSV ExportKind = "checklists_csv"
)

// ExportRequest carries the query parameters of an export.
type ExportRequest struct {
	Kind        ExportKind
	ApartmentID int64  // 0 means every apartment
	StartDate   string // checklists only, optional
	EndDate     string // checklists only, optional
}

// Export is an opaque file produced by the backend.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BackendGateway is the REST service that owns all durable state. Every
// failure is returned as a *domain.GatewayError.
type BackendGateway interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	ListApartments(ctx context.Context) ([]domain.Apartment, error)

	GetChecklist(ctx context.Context, id int64) (*domain.Checklist, error)
	UpdateChecklist(ctx context.Context, id int64, update domain.ChecklistUpdate) (*domain.Checklist, error)
	UpdateTask(ctx context.Context, taskID int64, update domain.TaskUpdate) (*domain.TaskResponse, error)
	UploadPhoto(ctx context.Context, taskID int64, photo PhotoUpload) (*domain.TaskResponse, error)

	ListItems(ctx context.Context, apartmentID int64) ([]domain.InventoryItem, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateItem(ctx context.Context, itemID int64, update domain.ItemUpdate) (*domain.InventoryItem, error)

	// Dashboard and ApartmentStats are aggregate reports passed through untouched.
	Dashboard(ctx context.Context) (json.RawMessage, error)
	ApartmentStats(ctx context.Context, apartmentID int64) (json.RawMessage, error)
	Export(ctx context.Context, req ExportRequest) (*Export, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}

type bearerKey struct{}

// WithBearerToken attaches the backend token a gateway call should carry.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

// BearerToken returns the token attached with WithBearerToken, if any.
func BearerToken(ctx context.Context) string {
	token, _ := ctx.Value(bearerKey{}).(string)
	return token
}
