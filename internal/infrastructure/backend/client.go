// Package backend is the HTTP client for the REST service that owns every
// persisted record: users, apartments, checklists, inventory and reports.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
)

const maxErrorBody = 64 << 10

// Observer receives one call per backend request. status is 0 when no
// response arrived.
type Observer func(op string, status int, elapsed time.Duration)

// Client implements ports.BackendGateway over HTTP/JSON.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	observe Observer
}

// NewClient builds a client for baseURL. The per-call deadline comes from the
// context; httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client, observe Observer, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
		observe: observe,
	}
}

var _ ports.BackendGateway = (*Client)(nil)

// ─── Session ────────────────────────────────────────────────────────────────

func (c *Client) Login(ctx context.Context, req ports.LoginRequest) (*ports.LoginResult, error) {
	var out ports.LoginResult
	if err := c.doJSON(ctx, "login", http.MethodPost, "/api/users/login", nil, req, &out); err != nil {
		return nil, err
	}
	if out.User == nil || out.AccessToken == "" {
		return nil, &domain.GatewayError{Op: "login", Err: errors.New("response without user or token")}
	}
	return &out, nil
}

func (c *Client) ListApartments(ctx context.Context) ([]domain.Apartment, error) {
	var out []domain.Apartment
	if err := c.doJSON(ctx, "list_apartments", http.MethodGet, "/api/apartments/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ─── Checklists ─────────────────────────────────────────────────────────────

func (c *Client) GetChecklist(ctx context.Context, id int64) (*domain.Checklist, error) {
	var out domain.Checklist
	if err := c.doJSON(ctx, "get_checklist", http.MethodGet, "/api/checklists/"+itoa(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateChecklist(ctx context.Context, id int64, update domain.ChecklistUpdate) (*domain.Checklist, error) {
	var out domain.Checklist
	if err := c.doJSON(ctx, "update_checklist", http.MethodPut, "/api/checklists/"+itoa(id), nil, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskID int64, update domain.TaskUpdate) (*domain.TaskResponse, error) {
	var out domain.TaskResponse
	if err := c.doJSON(ctx, "update_task", http.MethodPut, "/api/checklists/tasks/"+itoa(taskID), nil, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPhoto streams the file as multipart/form-data field "file" without
// buffering it in memory.
func (c *Client) UploadPhoto(ctx context.Context, taskID int64, photo ports.PhotoUpload) (*domain.TaskResponse, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		part, err := form.CreateFormFile("file", photo.Filename)
		if err == nil {
			_, err = io.Copy(part, photo.Content)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	var out domain.TaskResponse
	path := "/api/checklists/tasks/" + itoa(taskID) + "/upload"
	if err := c.do(ctx, "upload_photo", http.MethodPost, path, nil, pr, form.FormDataContentType(), &out); err != nil {
		_ = pr.CloseWithError(err)
		return nil, err
	}
	return &out, nil
}

// ─── Inventory ──────────────────────────────────────────────────────────────

func (c *Client) ListItems(ctx context.Context, apartmentID int64) ([]domain.InventoryItem, error) {
	q := url.Values{"apartment_id": {itoa(apartmentID)}}
	var out []domain.InventoryItem
	if err := c.doJSON(ctx, "list_items", http.MethodGet, "/api/inventory/items", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.doJSON(ctx, "list_categories", http.MethodGet, "/api/inventory/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateItem(ctx context.Context, itemID int64, update domain.ItemUpdate) (*domain.InventoryItem, error) {
	var out domain.InventoryItem
	if err := c.doJSON(ctx, "update_item", http.MethodPut, "/api/inventory/items/"+itoa(itemID), nil, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ─── Reports ────────────────────────────────────────────────────────────────

func (c *Client) Dashboard(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, "dashboard", http.MethodGet, "/api/reports/dashboard", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ApartmentStats(ctx context.Context, apartmentID int64) (json.RawMessage, error) {
	var out json.RawMessage
	path := "/api/reports/stats/apartment/" + itoa(apartmentID)
	if err := c.doJSON(ctx, "apartment_stats", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Export(ctx context.Context, req ports.ExportRequest) (*ports.Export, error) {
	q := url.Values{}
	if req.ApartmentID > 0 {
		q.Set("apartment_id", itoa(req.ApartmentID))
	}

	var path string
	switch req.Kind {
	case ports.ExportInventoryPDF:
		path = "/api/reports/export/inventory/pdf"
	case ports.ExportInventoryCSV:
		path = "/api/reports/export/inventory/csv"
	case ports.ExportChecklistsCSV:
		path = "/api/reports/export/checklists/csv"
		if req.StartDate != "" {
			q.Set("start_date", req.StartDate)
		}
		if req.EndDate != "" {
			q.Set("end_date", req.EndDate)
		}
	default:
		return nil, &domain.GatewayError{Op: "export", Err: fmt.Errorf("unknown export kind %q", req.Kind)}
	}

	resp, err := c.send(ctx, "export", http.MethodGet, path, q, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.GatewayError{Op: "export", Status: resp.StatusCode, Err: err}
	}
	return &ports.Export{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// Ping calls the backend health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, "ping", http.MethodGet, "/health", nil, nil, nil)
}

// ─── Transport ──────────────────────────────────────────────────────────────

func (c *Client) doJSON(ctx context.Context, op, method, path string, q url.Values, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &domain.GatewayError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, q, body, contentType, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, q url.Values, body io.Reader, contentType string, out any) error {
	resp, err := c.send(ctx, op, method, path, q, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.GatewayError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// send performs the request and turns transport failures and non-2xx answers
// into *domain.GatewayError. On success the caller owns resp.Body.
func (c *Client) send(ctx context.Context, op, method, path string, q url.Values, body io.Reader, contentType string) (*http.Response, error) {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &domain.GatewayError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := ports.BearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.record(op, 0, elapsed)
		c.log.Warn().Err(err).Str("op", op).Dur("elapsed", elapsed).Msg("backend unreachable")
		return nil, &domain.GatewayError{Op: op, Err: err}
	}
	c.record(op, resp.StatusCode, elapsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		gerr := &domain.GatewayError{Op: op, Status: resp.StatusCode, Detail: parseDetail(raw)}
		ev := c.log.Warn()
		if resp.StatusCode >= 500 {
			ev = c.log.Error()
		}
		ev.Str("op", op).Int("status", resp.StatusCode).Str("detail", gerr.Detail).Msg("backend rejected request")
		return nil, gerr
	}

	c.log.Debug().Str("op", op).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("backend call")
	return resp, nil
}

func (c *Client) record(op string, status int, elapsed time.Duration) {
	if c.observe != nil {
		c.observe(op, status, elapsed)
	}
}

// parseDetail extracts the service's {"detail": ...} reason. detail is either
// a string or, for request validation failures, a list of {msg} objects.
func parseDetail(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &envelope) != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if json.Unmarshal(envelope.Detail, &text) == nil {
		return text
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(envelope.Detail, &items) == nil && len(items) > 0 {
		return items[0].Msg
	}
	return ""
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
