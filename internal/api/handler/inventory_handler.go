package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/api/metrics"
	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/service"
)

// InventoryHandler exposes the staged inventory of the session's apartment.
type InventoryHandler struct {
	reports *service.ReportService
	log     zerolog.Logger
}

func NewInventoryHandler(reports *service.ReportService, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{reports: reports, log: log}
}

// Get returns the filtered, grouped inventory with staged quantities applied.
// Managers may look at another apartment with apartment_id.
//
// @Summary      Inventory view
// @Tags         inventory
// @Produce      json
// @Param        search        query     string  false  "Case-insensitive name filter"
// @Param        category_id   query     int     false  "Category filter, 0 for all"
// @Param        low_stock     query     bool    false  "Only items at or below their minimum"
// @Param        apartment_id  query     int     false  "Apartment (managers only)"
// @Success      200           {object}  domain.InventoryView
// @Failure      400           {object}  map[string]string
// @Failure      502           {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/inventory [get]
func (h *InventoryHandler) Get(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	apartmentID, err := h.apartment(c, ws)
	if err != nil {
		return err
	}
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	if err := ws.Inventory.EnsureLoaded(c.Request().Context(), apartmentID); err != nil {
		return err
	}
	view, err := ws.Inventory.View(filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Reload refetches items and categories, keeping staged changes.
//
// @Summary      Reload inventory
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  domain.InventoryView
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/inventory/reload [post]
func (h *InventoryHandler) Reload(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	if err := ws.Inventory.Reload(c.Request().Context()); err != nil {
		return err
	}
	view, err := ws.Inventory.View(domain.InventoryFilter{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// SetQuantity stages an absolute quantity.
//
// @Summary      Stage quantity
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "Item id"
// @Param        body  body      quantityRequest  true  "New quantity"
// @Success      200   {object}  quantityResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/inventory/items/{id}/quantity [put]
func (h *InventoryHandler) SetQuantity(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req quantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := ws.Inventory.SetQuantity(itemID, *req.Quantity); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quantityResponse{
		ItemID:       itemID,
		Quantity:     *req.Quantity,
		Changed:      true,
		PendingCount: len(ws.Inventory.Pending()),
	})
}

// Increment stages the displayed quantity plus one.
//
// @Summary      Increment quantity
// @Tags         inventory
// @Produce      json
// @Param        id   path      int  true  "Item id"
// @Success      200  {object}  quantityResponse
// @Failure      422  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/inventory/items/{id}/increment [post]
func (h *InventoryHandler) Increment(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	q, err := ws.Inventory.Increment(itemID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quantityResponse{
		ItemID:       itemID,
		Quantity:     q,
		Changed:      true,
		PendingCount: len(ws.Inventory.Pending()),
	})
}

// Decrement stages the displayed quantity minus one; at zero nothing changes.
//
// @Summary      Decrement quantity
// @Tags         inventory
// @Produce      json
// @Param        id   path      int  true  "Item id"
// @Success      200  {object}  quantityResponse
// @Failure      422  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/inventory/items/{id}/decrement [post]
func (h *InventoryHandler) Decrement(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	q, changed, err := ws.Inventory.Decrement(itemID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quantityResponse{
		ItemID:       itemID,
		Quantity:     q,
		Changed:      changed,
		PendingCount: len(ws.Inventory.Pending()),
	})
}

// Discard drops every staged change.
//
// @Summary      Discard staged changes
// @Tags         inventory
// @Success      204
// @Security     BearerAuth
// @Router       /api/inventory/pending [delete]
func (h *InventoryHandler) Discard(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	ws.Inventory.Discard()
	return c.NoContent(http.StatusNoContent)
}

// Save commits the staged changes as one ordered batch. When the batch stops
// early the error body carries the report.
//
// @Summary      Save staged changes
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  saveResponse
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/inventory/save [post]
func (h *InventoryHandler) Save(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}

	report, err := ws.Inventory.Save(c.Request().Context())
	metrics.ObserveBatch(report)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, saveResponse{Report: report})
	case report == nil:
		return err
	case report.Complete():
		// Everything was applied; only the refresh afterwards failed.
		h.log.Warn().Err(err).Str("batch_id", report.ID).Msg("inventory reload after save failed")
		return c.JSON(http.StatusOK, saveResponse{Report: report, Warning: errorMessage(err)})
	default:
		return &domain.BatchError{Report: report, Err: err}
	}
}

// Batches lists the audited save batches of the session's apartment.
//
// @Summary      Recent save batches
// @Tags         inventory
// @Produce      json
// @Param        limit         query     int  false  "Maximum entries (default 20)"
// @Param        apartment_id  query     int  false  "Apartment (managers only)"
// @Success      200           {array}   domain.BatchReport
// @Failure      502           {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/inventory/batches [get]
func (h *InventoryHandler) Batches(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	apartmentID, err := h.apartment(c, ws)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	batches, err := h.reports.RecentBatches(c.Request().Context(), apartmentID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, batches)
}

// apartment picks the apartment to work on: the session's, unless a manager
// asks for another one.
func (h *InventoryHandler) apartment(c echo.Context, ws *service.Workspace) (int64, error) {
	snapshot := ws.Session.Snapshot()
	requested, err := queryID(c, "apartment_id")
	if err != nil {
		return 0, err
	}
	if requested > 0 {
		if !snapshot.User.IsManager() && (snapshot.Apartment == nil || snapshot.Apartment.ID != requested) {
			return 0, domain.ErrForbidden
		}
		return requested, nil
	}
	if snapshot.Apartment == nil {
		return 0, domain.NewValidationError(domain.CodeMissingField, "nessun appartamento associato alla sessione")
	}
	return snapshot.Apartment.ID, nil
}

func parseFilter(c echo.Context) (domain.InventoryFilter, error) {
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		return domain.InventoryFilter{}, err
	}
	f := domain.InventoryFilter{Search: c.QueryParam("search"), CategoryID: categoryID}
	if raw := c.QueryParam("low_stock"); raw != "" {
		f.LowStockOnly, err = strconv.ParseBool(raw)
		if err != nil {
			return domain.InventoryFilter{}, echo.NewHTTPError(http.StatusBadRequest, "low_stock must be a boolean")
		}
	}
	return f, nil
}

// errorMessage is the user-facing text of an error.
func errorMessage(err error) string {
	var ge *domain.GatewayError
	if errors.As(err, &ge) {
		return ge.Message()
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
