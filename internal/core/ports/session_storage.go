package ports

import (
	"context"

	"github.com/bennati/checklist-bff/internal/core/domain"
)

// SessionStorage persists Session fields under a session id.
// Implementations must write and delete all fields atomically.
type SessionStorage interface {
	// Load returns the persisted session. A missing session is an empty
	// Session and a nil error.
	Load(ctx context.Context, sessionID string) (domain.Session, error)
	Save(ctx context.Context, sessionID string, s domain.Session) error
	// SaveChecklist replaces only the checklist field.
	SaveChecklist(ctx context.Context, sessionID string, c *domain.Checklist) error
	Delete(ctx context.Context, sessionID string) error
}
