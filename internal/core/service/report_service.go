package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
)

// ReportService proxies the manager reports. Aggregates are passed through;
// exports get the download filename the UI has always used.
type ReportService struct {
	gateway ports.BackendGateway
	audit   ports.BatchAuditRepository // optional
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

func NewReportService(gateway ports.BackendGateway, audit ports.BatchAuditRepository, timeout time.Duration, log zerolog.Logger) *ReportService {
	return &ReportService{
		gateway: gateway,
		audit:   audit,
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

// Dashboard returns the cross-apartment dashboard.
func (s *ReportService) Dashboard(ctx context.Context) (json.RawMessage, error) {
	gctx, cancel := gatewayContext(ctx, ports.BearerToken(ctx), s.timeout)
	defer cancel()

	out, err := s.gateway.Dashboard(gctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return out, nil
}

// ApartmentStats returns the statistics of one apartment.
func (s *ReportService) ApartmentStats(ctx context.Context, apartmentID int64) (json.RawMessage, error) {
	gctx, cancel := gatewayContext(ctx, ports.BearerToken(ctx), s.timeout)
	defer cancel()

	out, err := s.gateway.ApartmentStats(gctx, apartmentID)
	if err != nil {
		return nil, fmt.Errorf("apartment %d stats: %w", apartmentID, err)
	}
	return out, nil
}

// Export fetches a rendered report and names it.
func (s *ReportService) Export(ctx context.Context, req ports.ExportRequest) (*ports.Export, error) {
	gctx, cancel := gatewayContext(ctx, ports.BearerToken(ctx), s.timeout)
	defer cancel()

	out, err := s.gateway.Export(gctx, req)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", req.Kind, err)
	}
	out.Filename = ExportFilename(req.Kind, req.ApartmentID, s.now())
	if out.ContentType == "" {
		out.ContentType = exportContentType(req.Kind)
	}
	return out, nil
}

// RecentBatches lists the audited save batches of an apartment.
func (s *ReportService) RecentBatches(ctx context.Context, apartmentID int64, limit int) ([]domain.BatchReport, error) {
	if s.audit == nil {
		return []domain.BatchReport{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	out, err := s.audit.ListRecent(ctx, apartmentID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent batches: %w", err)
	}
	return out, nil
}

// ExportFilename follows {kind}_apt{id}_{date}.{ext}, with "tutti" in place of
// the apartment when the export spans every apartment.
func ExportFilename(kind ports.ExportKind, apartmentID int64, at time.Time) string {
	scope := "tutti"
	if apartmentID > 0 {
		scope = fmt.Sprintf("apt%d", apartmentID)
	}
	date := at.Format(time.DateOnly)

	switch kind {
	case ports.ExportInventoryPDF:
		return fmt.Sprintf("inventario_%s_%s.pdf", scope, date)
	case ports.ExportInventoryCSV:
		return fmt.Sprintf("inventario_%s_%s.csv", scope, date)
	default:
		return fmt.Sprintf("checklists_%s_%s.csv", scope, date)
	}
}

func exportContentType(kind ports.ExportKind) string {
	if kind == ports.ExportInventoryPDF {
		return "application/pdf"
	}
	return "text/csv"
}
