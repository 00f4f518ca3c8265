package handler

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/core/domain"
)

func stockedBackend() *fakeBackend {
	return &fakeBackend{
		listItemsFn: func(apartmentID int64) ([]domain.InventoryItem, error) {
			return []domain.InventoryItem{
				{ID: 1, Name: "Sapone mani", CategoryID: 10, ApartmentID: apartmentID, Quantity: 5, MinQuantity: 2, Unit: "pz"},
				{ID: 2, Name: "Carta igienica", CategoryID: 10, ApartmentID: apartmentID, Quantity: 1, MinQuantity: 4, Unit: "rotoli"},
				{ID: 3, Name: "Spugne", CategoryID: 20, ApartmentID: apartmentID, Quantity: 0, MinQuantity: 1, Unit: "pz"},
			}, nil
		},
		listCategoriesFn: func() ([]domain.Category, error) {
			return []domain.Category{{ID: 10, Name: "Bagno"}, {ID: 20, Name: "Cucina"}}, nil
		},
	}
}

func TestInventoryHandler_Get_Filters(t *testing.T) {
	f := newFixture(t, stockedBackend())
	ws := f.login(t, domain.RoleOperator)
	h := NewInventoryHandler(f.reports, zerolog.Nop())

	c, rec := f.request(http.MethodGet, "/api/inventory?low_stock=true&category_id=10", nil, ws)
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	view := decode[domain.InventoryView](t, rec)
	if len(view.Items) != 1 || view.Items[0].ID != 2 || view.Items[0].Status != domain.StockLow {
		t.Fatalf("unexpected items %+v", view.Items)
	}
	if view.Stats.Total != 3 || view.Stats.Low != 1 || view.Stats.Missing != 1 {
		t.Fatalf("stats must cover the unfiltered list, got %+v", view.Stats)
	}
	if len(view.Groups) != 1 || view.Groups[0].Category.Name != "Bagno" {
		t.Fatalf("unexpected groups %+v", view.Groups)
	}
}

func TestInventoryHandler_Get_OtherApartmentForbiddenToOperator(t *testing.T) {
	f := newFixture(t, stockedBackend())
	ws := f.login(t, domain.RoleOperator)
	h := NewInventoryHandler(f.reports, zerolog.Nop())

	c, _ := f.request(http.MethodGet, "/api/inventory?apartment_id=9", nil, ws)
	if err := h.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestInventoryHandler_StageAndDecrement(t *testing.T) {
	f := newFixture(t, stockedBackend())
	ws := f.login(t, domain.RoleOperator)
	h := NewInventoryHandler(f.reports, zerolog.Nop())

	load, _ := f.request(http.MethodGet, "/api/inventory", nil, ws)
	if err := h.Get(load); err != nil {
		t.Fatalf("load: %v", err)
	}

	c, rec := f.request(http.MethodPut, "/api/inventory/items/2/quantity", strings.NewReader(`{"quantity":6}`), ws)
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := h.SetQuantity(c); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if resp := decode[quantityResponse](t, rec); resp.Quantity != 6 || resp.PendingCount != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}

	// Item 3 is already at zero: decrement is a no-op.
	c, rec = f.request(http.MethodPost, "/api/inventory/items/3/decrement", nil, ws)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := h.Decrement(c); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if resp := decode[quantityResponse](t, rec); resp.Changed || resp.Quantity != 0 || resp.PendingCount != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}

	c, _ = f.request(http.MethodPut, "/api/inventory/items/2/quantity", strings.NewReader(`{"quantity":-1}`), ws)
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := h.SetQuantity(c); !domain.IsValidation(err, domain.CodeNegativeQuantity) {
		t.Fatalf("expected negative_quantity, got %v", err)
	}
	if f.backend.count("UpdateItem") != 0 {
		t.Fatalf("staging must not call the backend")
	}
}

func TestInventoryHandler_Save_PartialFailure(t *testing.T) {
	backend := stockedBackend()
	backend.updateItemFn = func(id int64, u domain.ItemUpdate) (*domain.InventoryItem, error) {
		if u.UserID != 7 || u.ChangeReason != domain.DefaultChangeReason {
			t.Fatalf("unexpected update body %+v", u)
		}
		if id == 2 {
			return nil, &domain.GatewayError{Op: "update_item", Status: http.StatusInternalServerError}
		}
		return &domain.InventoryItem{ID: id, Quantity: u.Quantity}, nil
	}
	f := newFixture(t, backend)
	ws := f.login(t, domain.RoleOperator)
	h := NewInventoryHandler(f.reports, zerolog.Nop())

	load, _ := f.request(http.MethodGet, "/api/inventory", nil, ws)
	if err := h.Get(load); err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, id := range []int64{1, 2, 3} {
		if _, err := ws.Inventory.Increment(id); err != nil {
			t.Fatalf("increment %d: %v", id, err)
		}
	}

	c, _ := f.request(http.MethodPost, "/api/inventory/save", nil, ws)
	err := h.Save(c)

	var be *domain.BatchError
	if !errors.As(err, &be) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	r := be.Report
	if r.Applied != 1 || r.Failed != 1 || r.Skipped != 1 {
		t.Fatalf("unexpected report %+v", r)
	}
	pending := ws.Inventory.Pending()
	if _, ok := pending[1]; ok || len(pending) != 2 {
		t.Fatalf("applied item must leave pending, the rest stay: %v", pending)
	}
}

func TestInventoryHandler_Save_NothingToSave(t *testing.T) {
	f := newFixture(t, stockedBackend())
	ws := f.login(t, domain.RoleOperator)
	h := NewInventoryHandler(f.reports, zerolog.Nop())

	load, _ := f.request(http.MethodGet, "/api/inventory", nil, ws)
	if err := h.Get(load); err != nil {
		t.Fatalf("load: %v", err)
	}

	c, rec := f.request(http.MethodPost, "/api/inventory/save", nil, ws)
	if err := h.Save(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decode[saveResponse](t, rec); !resp.Report.NothingToSave {
		t.Fatalf("expected nothing_to_save, got %+v", resp.Report)
	}
	if f.backend.count("UpdateItem") != 0 {
		t.Fatalf("empty save must not call the backend")
	}
}

func TestInventoryHandler_Discard(t *testing.T) {
	f := newFixture(t, stockedBackend())
	ws := f.login(t, domain.RoleOperator)
	h := NewInventoryHandler(f.reports, zerolog.Nop())

	load, _ := f.request(http.MethodGet, "/api/inventory", nil, ws)
	if err := h.Get(load); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := ws.Inventory.Increment(1); err != nil {
		t.Fatalf("increment: %v", err)
	}

	c, rec := f.request(http.MethodDelete, "/api/inventory/pending", nil, ws)
	if err := h.Discard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || len(ws.Inventory.Pending()) != 0 {
		t.Fatalf("expected pending cleared, got %d %v", rec.Code, ws.Inventory.Pending())
	}
}

func TestInventoryHandler_Batches_WithoutAudit(t *testing.T) {
	f := newFixture(t, stockedBackend())
	ws := f.login(t, domain.RoleOperator)
	h := NewInventoryHandler(f.reports, zerolog.Nop())

	c, rec := f.request(http.MethodGet, "/api/inventory/batches", nil, ws)
	if err := h.Batches(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}
}
