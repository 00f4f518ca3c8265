package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bennati/checklist-bff/internal/core/ports"
	"github.com/bennati/checklist-bff/internal/core/service"
)

// ReportHandler proxies the manager reports. Routes are mounted behind
// RBAC(domain.RoleManager).
type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Dashboard returns the cross-apartment dashboard as produced by the backend.
//
// @Summary      Manager dashboard
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	out, err := h.reports.Dashboard(bearerContext(c, ws))
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, out)
}

// ApartmentStats returns one apartment's statistics.
//
// @Summary      Apartment statistics
// @Tags         reports
// @Produce      json
// @Param        id   path      int  true  "Apartment id"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/reports/stats/{id} [get]
func (h *ReportHandler) ApartmentStats(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.reports.ApartmentStats(bearerContext(c, ws), id)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, out)
}

// ExportInventory downloads the inventory as PDF or CSV.
//
// @Summary      Export inventory
// @Tags         reports
// @Produce      application/pdf
// @Produce      text/csv
// @Param        format        path   string  true   "pdf or csv"
// @Param        apartment_id  query  int     false  "Apartment, all when omitted"
// @Success      200  {file}    file
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/reports/export/inventory/{format} [get]
func (h *ReportHandler) ExportInventory(c echo.Context) error {
	var kind ports.ExportKind
	switch c.Param("format") {
	case "pdf":
		kind = ports.ExportInventoryPDF
	case "csv":
		kind = ports.ExportInventoryCSV
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "format must be pdf or csv")
	}
	apartmentID, err := queryID(c, "apartment_id")
	if err != nil {
		return err
	}
	return h.export(c, ports.ExportRequest{Kind: kind, ApartmentID: apartmentID})
}

// ExportChecklists downloads checklists as CSV, optionally within a date range.
//
// @Summary      Export checklists
// @Tags         reports
// @Produce      text/csv
// @Param        apartment_id  query  int     false  "Apartment, all when omitted"
// @Param        start_date    query  string  false  "YYYY-MM-DD"
// @Param        end_date      query  string  false  "YYYY-MM-DD"
// @Success      200  {file}    file
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/reports/export/checklists/csv [get]
func (h *ReportHandler) ExportChecklists(c echo.Context) error {
	apartmentID, err := queryID(c, "apartment_id")
	if err != nil {
		return err
	}
	req := ports.ExportRequest{
		Kind:        ports.ExportChecklistsCSV,
		ApartmentID: apartmentID,
		StartDate:   c.QueryParam("start_date"),
		EndDate:     c.QueryParam("end_date"),
	}
	for name, v := range map[string]string{"start_date": req.StartDate, "end_date": req.EndDate} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, name+" must be formatted as YYYY-MM-DD")
		}
	}
	return h.export(c, req)
}

func (h *ReportHandler) export(c echo.Context, req ports.ExportRequest) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	out, err := h.reports.Export(bearerContext(c, ws), req)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", out.Filename))
	return c.Blob(http.StatusOK, out.ContentType, out.Data)
}
