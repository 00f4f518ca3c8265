package ports

import (
	"context"

	"github.com/bennati/checklist-bff/internal/core/domain"
)

// BatchAuditRepository stores inventory save reports.
type BatchAuditRepository interface {
	Insert(ctx context.Context, report *domain.BatchReport) error
	// ListRecent returns the newest reports for an apartment, newest first.
	ListRecent(ctx context.Context, apartmentID int64, limit int) ([]domain.BatchReport, error)
}

// BatchRecorder accepts a finished report for asynchronous persistence.
type BatchRecorder interface {
	Record(report domain.BatchReport)
}
