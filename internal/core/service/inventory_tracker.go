package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
)

// InventoryTracker stages quantity changes for one apartment and commits them
// as a single ordered batch. Canonical items are only replaced by
// server-confirmed data; staged values live in the pending overlay.
type InventoryTracker struct {
	gateway  ports.BackendGateway
	session  *SessionStore
	recorder ports.BatchRecorder
	reason   string
	timeout  time.Duration
	log      zerolog.Logger

	mu          sync.Mutex
	loaded      bool
	apartmentID int64
	items       []domain.InventoryItem
	categories  []domain.Category
	pending     domain.PendingChanges
}

// NewInventoryTracker creates a tracker. recorder may be nil when batch
// auditing is disabled; an empty reason falls back to the default one.
func NewInventoryTracker(
	gateway ports.BackendGateway,
	session *SessionStore,
	recorder ports.BatchRecorder,
	reason string,
	timeout time.Duration,
	log zerolog.Logger,
) *InventoryTracker {
	if reason == "" {
		reason = domain.DefaultChangeReason
	}
	return &InventoryTracker{
		gateway:  gateway,
		session:  session,
		recorder: recorder,
		reason:   reason,
		timeout:  timeout,
		log:      log,
		pending:  domain.PendingChanges{},
	}
}

// Load fetches items and categories concurrently and commits them only when
// both succeed. Switching apartment drops staged changes.
func (t *InventoryTracker) Load(ctx context.Context, apartmentID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx, apartmentID)
}

// EnsureLoaded fetches once per apartment context.
func (t *InventoryTracker) EnsureLoaded(ctx context.Context, apartmentID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded && t.apartmentID == apartmentID {
		return nil
	}
	return t.load(ctx, apartmentID)
}

// Reload refreshes the current apartment, keeping staged changes.
func (t *InventoryTracker) Reload(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.loaded {
		return errInventoryNotLoaded()
	}
	return t.load(ctx, t.apartmentID)
}

// ApartmentID returns the apartment the cache belongs to, 0 before Load.
func (t *InventoryTracker) ApartmentID() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.apartmentID
}

// SetQuantity stages a new quantity. Repeated calls overwrite (last write wins).
func (t *InventoryTracker) SetQuantity(itemID int64, quantity int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if quantity < 0 {
		return domain.NewValidationError(domain.CodeNegativeQuantity, "la quantità non può essere negativa")
	}
	if _, err := t.displayed(itemID); err != nil {
		return err
	}
	t.pending[itemID] = quantity
	return nil
}

// Increment stages displayed quantity + 1 and returns it.
func (t *InventoryTracker) Increment(itemID int64) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, err := t.displayed(itemID)
	if err != nil {
		return 0, err
	}
	t.pending[itemID] = current + 1
	return current + 1, nil
}

// Decrement stages displayed quantity - 1. At zero it is a no-op and reports
// changed == false.
func (t *InventoryTracker) Decrement(itemID int64) (quantity int, changed bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	current, err := t.displayed(itemID)
	if err != nil {
		return 0, false, err
	}
	if current == 0 {
		return 0, false, nil
	}
	t.pending[itemID] = current - 1
	return current - 1, true, nil
}

// Discard drops every staged change.
func (t *InventoryTracker) Discard() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = domain.PendingChanges{}
}

// Pending returns a copy of the staged changes.
func (t *InventoryTracker) Pending() domain.PendingChanges {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(domain.PendingChanges, len(t.pending))
	for id, q := range t.pending {
		out[id] = q
	}
	return out
}

// View derives the filtered, grouped list. It never mutates the tracker.
func (t *InventoryTracker) View(filter domain.InventoryFilter) (domain.InventoryView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.loaded {
		return domain.InventoryView{}, errInventoryNotLoaded()
	}

	overlaid := make([]domain.InventoryItem, len(t.items))
	for i, it := range t.items {
		if q, ok := t.pending[it.ID]; ok {
			it.Quantity = q
		}
		overlaid[i] = it
	}

	filtered := domain.FilterItems(overlaid, filter.Predicates()...)
	views := make([]domain.ItemView, len(filtered))
	for i, it := range filtered {
		_, changed := t.pending[it.ID]
		views[i] = domain.ItemView{InventoryItem: it, Status: it.Status(), Changed: changed}
	}

	return domain.InventoryView{
		ApartmentID:  t.apartmentID,
		Items:        views,
		Groups:       domain.GroupByCategory(t.categories, views),
		Stats:        domain.CountStock(overlaid),
		PendingCount: len(t.pending),
	}, nil
}

// Categories returns a copy of the cached categories.
func (t *InventoryTracker) Categories() []domain.Category {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.categories)
}

// Save commits staged changes one item at a time in ascending id order and
// stops at the first failure. Applied items leave the pending set; the failed
// item and the ones never attempted stay staged. The returned report lists
// every item's outcome and is also handed to the recorder.
func (t *InventoryTracker) Save(ctx context.Context) (*domain.BatchReport, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.loaded {
		return nil, errInventoryNotLoaded()
	}
	if len(t.pending) == 0 {
		return &domain.BatchReport{ApartmentID: t.apartmentID, NothingToSave: true}, nil
	}
	user := t.session.User()
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	report := &domain.BatchReport{
		ID:          uuid.NewString(),
		ApartmentID: t.apartmentID,
		UserID:      user.ID,
		Reason:      t.reason,
		StartedAt:   time.Now().UTC(),
	}

	ids := make([]int64, 0, len(t.pending))
	for id := range t.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var failure error
	for _, id := range ids {
		quantity := t.pending[id]
		outcome := domain.ItemOutcome{ItemID: id, Quantity: quantity}

		if failure != nil {
			outcome.Result = domain.OutcomeSkipped
			report.Skipped++
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}

		updated, err := t.updateItem(ctx, id, domain.ItemUpdate{
			Quantity:     quantity,
			UserID:       user.ID,
			ChangeReason: t.reason,
		})
		if err != nil {
			failure = fmt.Errorf("save item %d: %w", id, err)
			outcome.Result = domain.OutcomeFailed
			outcome.Error = err.Error()
			report.Failed++
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}

		t.applyConfirmed(id, quantity, updated)
		delete(t.pending, id)
		outcome.Result = domain.OutcomeApplied
		report.Applied++
		report.Outcomes = append(report.Outcomes, outcome)
	}
	report.FinishedAt = time.Now().UTC()

	if t.recorder != nil {
		t.recorder.Record(*report)
	}

	if failure != nil {
		t.log.Warn().Err(failure).
			Str("batch_id", report.ID).
			Int("applied", report.Applied).
			Int("skipped", report.Skipped).
			Msg("inventory batch aborted")
		return report, failure
	}

	t.log.Info().Str("batch_id", report.ID).Int("applied", report.Applied).Msg("inventory batch saved")
	t.pending = domain.PendingChanges{}
	if err := t.load(ctx, t.apartmentID); err != nil {
		return report, fmt.Errorf("reload after save: %w", err)
	}
	return report, nil
}

// updateItem sends one item of a batch. Each call gets its own timeout.
func (t *InventoryTracker) updateItem(ctx context.Context, id int64, update domain.ItemUpdate) (*domain.InventoryItem, error) {
	gctx, cancel := gatewayContext(ctx, t.session.Token(), t.timeout)
	defer cancel()
	return t.gateway.UpdateItem(gctx, id, update)
}

func (t *InventoryTracker) load(ctx context.Context, apartmentID int64) error {
	gctx, cancel := gatewayContext(ctx, t.session.Token(), t.timeout)
	defer cancel()

	var (
		items      []domain.InventoryItem
		categories []domain.Category
	)
	g, gctx := errgroup.WithContext(gctx)
	g.Go(func() error {
		var err error
		items, err = t.gateway.ListItems(gctx, apartmentID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = t.gateway.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load inventory for apartment %d: %w", apartmentID, err)
	}

	if !t.loaded || t.apartmentID != apartmentID {
		t.pending = domain.PendingChanges{}
	}
	t.items = items
	t.categories = categories
	t.apartmentID = apartmentID
	t.loaded = true
	return nil
}

func (t *InventoryTracker) applyConfirmed(id int64, quantity int, updated *domain.InventoryItem) {
	for i := range t.items {
		if t.items[i].ID != id {
			continue
		}
		if updated != nil {
			t.items[i] = *updated
		} else {
			t.items[i].Quantity = quantity
		}
		return
	}
}

func (t *InventoryTracker) displayed(itemID int64) (int, error) {
	if !t.loaded {
		return 0, errInventoryNotLoaded()
	}
	for _, it := range t.items {
		if it.ID == itemID {
			if q, ok := t.pending[itemID]; ok {
				return q, nil
			}
			return it.Quantity, nil
		}
	}
	return 0, domain.NewValidationError(domain.CodeUnknownItem, "articolo %d non trovato", itemID)
}

func errInventoryNotLoaded() error {
	return domain.NewValidationError(domain.CodeInventoryNotLoaded, "inventario non caricato")
}
