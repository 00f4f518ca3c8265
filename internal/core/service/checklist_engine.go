package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
)

// ChecklistEngine mediates every mutation of one session's checklist and
// gates the one-way transition to completed. Task fields only ever reflect
// server-confirmed state.
type ChecklistEngine struct {
	gateway ports.BackendGateway
	session *SessionStore
	timeout time.Duration
	log     zerolog.Logger

	mu        sync.Mutex
	checklist *domain.Checklist
}

// NewChecklistEngine creates an engine bound to a session.
func NewChecklistEngine(gateway ports.BackendGateway, session *SessionStore, timeout time.Duration, log zerolog.Logger) *ChecklistEngine {
	return &ChecklistEngine{
		gateway: gateway,
		session: session,
		timeout: timeout,
		log:     log,
	}
}

// Load fetches the checklist and replaces the cache wholesale. On failure the
// previous cache is kept.
func (e *ChecklistEngine) Load(ctx context.Context, id int64) (*domain.Checklist, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load(ctx, id)
}

// EnsureLoaded returns the cached checklist, fetching the session's active
// checklist when the cache is empty or belongs to another checklist.
func (e *ChecklistEngine) EnsureLoaded(ctx context.Context) (*domain.Checklist, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	active := e.session.Snapshot().Checklist
	if active == nil {
		if e.checklist != nil {
			return e.checklist.Clone(), nil
		}
		return nil, domain.NewValidationError(domain.CodeChecklistNotLoaded, "nessuna checklist attiva per questa sessione")
	}
	if e.checklist != nil && e.checklist.ID == active.ID {
		return e.checklist.Clone(), nil
	}
	return e.load(ctx, active.ID)
}

// Current returns a copy of the cached checklist, or nil.
func (e *ChecklistEngine) Current() *domain.Checklist {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checklist.Clone()
}

// Progress reports completed/total tasks of the cached checklist.
func (e *ChecklistEngine) Progress() domain.Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.checklist == nil {
		return domain.Progress{}
	}
	return e.checklist.Progress()
}

// UpdateTask sends a partial update and merges the server's answer by id.
func (e *ChecklistEngine) UpdateTask(ctx context.Context, taskID int64, update domain.TaskUpdate) (*domain.TaskResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, err := e.mutableTask(taskID)
	if err != nil {
		return nil, err
	}
	if update.Empty() {
		return nil, domain.NewValidationError(domain.CodeMissingField, "nessun campo da aggiornare")
	}

	gctx, cancel := gatewayContext(ctx, e.session.Token(), e.timeout)
	defer cancel()

	updated, err := e.gateway.UpdateTask(gctx, taskID, update)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", taskID, err)
	}

	merged := *updated
	if merged.TaskTemplate == nil {
		merged.TaskTemplate = e.checklist.TaskResponses[idx].TaskTemplate
	}
	e.checklist.TaskResponses[idx] = merged
	e.propagate(ctx)

	return &merged, nil
}

// UploadPhoto rejects oversize files locally. Otherwise it streams the file to
// the backend and reloads the whole checklist, which owns the photo list.
func (e *ChecklistEngine) UploadPhoto(ctx context.Context, taskID int64, photo ports.PhotoUpload) (*domain.Checklist, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.mutableTask(taskID); err != nil {
		return nil, err
	}
	if err := domain.CheckPhotoSize(photo.Size); err != nil {
		return nil, err
	}
	if photo.Content == nil {
		return nil, domain.NewValidationError(domain.CodeMissingField, "nessun file selezionato")
	}

	gctx, cancel := gatewayContext(ctx, e.session.Token(), e.timeout)
	defer cancel()

	if _, err := e.gateway.UploadPhoto(gctx, taskID, photo); err != nil {
		return nil, fmt.Errorf("upload photo for task %d: %w", taskID, err)
	}
	e.log.Debug().Int64("task_id", taskID).Int64("size", photo.Size).Msg("photo uploaded")

	return e.load(ctx, e.checklist.ID)
}

// SaveNotes persists the notes field alone. Safe to call repeatedly.
func (e *ChecklistEngine) SaveNotes(ctx context.Context, notes string) (*domain.Checklist, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.mutable(); err != nil {
		return nil, err
	}

	gctx, cancel := gatewayContext(ctx, e.session.Token(), e.timeout)
	defer cancel()

	updated, err := e.gateway.UpdateChecklist(gctx, e.checklist.ID, domain.ChecklistUpdate{Notes: &notes})
	if err != nil {
		return nil, fmt.Errorf("save notes: %w", err)
	}

	e.checklist.Notes = notes
	if updated != nil {
		e.checklist.Notes = updated.Notes
	}
	e.propagate(ctx)
	return e.checklist.Clone(), nil
}

// Complete is the single incomplete to completed transition. Every required
// task must be completed first; otherwise nothing is sent.
func (e *ChecklistEngine) Complete(ctx context.Context, notes string) (*domain.Checklist, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.mutable(); err != nil {
		return nil, err
	}
	if missing := e.checklist.RequiredIncomplete(); len(missing) > 0 {
		verr := domain.NewValidationError(domain.CodeRequiredTasksIncomplete,
			"completa tutti i task obbligatori (%d mancanti)", len(missing))
		verr.Count = len(missing)
		return nil, verr
	}

	gctx, cancel := gatewayContext(ctx, e.session.Token(), e.timeout)
	defer cancel()

	done := true
	if _, err := e.gateway.UpdateChecklist(gctx, e.checklist.ID, domain.ChecklistUpdate{Completed: &done, Notes: &notes}); err != nil {
		return nil, fmt.Errorf("complete checklist %d: %w", e.checklist.ID, err)
	}
	e.log.Info().Int64("checklist_id", e.checklist.ID).Msg("checklist completed")

	return e.load(ctx, e.checklist.ID)
}

func (e *ChecklistEngine) load(ctx context.Context, id int64) (*domain.Checklist, error) {
	gctx, cancel := gatewayContext(ctx, e.session.Token(), e.timeout)
	defer cancel()

	fetched, err := e.gateway.GetChecklist(gctx, id)
	if err != nil {
		return nil, fmt.Errorf("load checklist %d: %w", id, err)
	}
	e.checklist = fetched.Clone()
	e.propagate(ctx)
	return e.checklist.Clone(), nil
}

// propagate pushes the cache to the session so other views see fresh progress.
// The backend already holds the change, so a storage failure is only logged.
func (e *ChecklistEngine) propagate(ctx context.Context) {
	if err := e.session.UpdateChecklist(ctx, e.checklist); err != nil {
		e.log.Warn().Err(err).Int64("checklist_id", e.checklist.ID).Msg("session checklist not updated")
	}
}

func (e *ChecklistEngine) mutable() error {
	if e.checklist == nil {
		return domain.NewValidationError(domain.CodeChecklistNotLoaded, "checklist non caricata")
	}
	if e.checklist.Completed {
		return domain.NewValidationError(domain.CodeChecklistCompleted, "la checklist è già completata")
	}
	return nil
}

func (e *ChecklistEngine) mutableTask(taskID int64) (int, error) {
	if err := e.mutable(); err != nil {
		return -1, err
	}
	idx := e.checklist.Task(taskID)
	if idx < 0 {
		return -1, domain.NewValidationError(domain.CodeUnknownTask, "task %d non trovato", taskID)
	}
	return idx, nil
}
