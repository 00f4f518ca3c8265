package domain

import (
	"strings"
	"time"
)

// StockStatus is derived from quantity and minimum quantity; it is never stored.
type StockStatus string

const (
	StockMissing StockStatus = "missing"
	StockLow     StockStatus = "low"
	StockOK      StockStatus = "ok"
)

// DeriveStockStatus: missing at zero, low up to and including the minimum, ok above.
func DeriveStockStatus(quantity, minQuantity int) StockStatus {
	switch {
	case quantity == 0:
		return StockMissing
	case quantity <= minQuantity:
		return StockLow
	default:
		return StockOK
	}
}

// DefaultChangeReason is the reason recorded by the backend for batch saves.
const DefaultChangeReason = "Aggiornamento da checklist"

// Category groups inventory items.
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	IsConsumable bool   `json:"is_consumable"`
}

// InventoryItem is a consumable tracked per apartment.
type InventoryItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CategoryID  int64  `json:"category_id"`
	ApartmentID int64  `json:"apartment_id,omitempty"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
	Unit        string `json:"unit"`
}

// Status derives the stock status of the item.
func (i InventoryItem) Status() StockStatus {
	return DeriveStockStatus(i.Quantity, i.MinQuantity)
}

// LowStock matches the "low stock only" filter, which includes missing items.
func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// ItemUpdate is the body sent to the backend for one staged change.
type ItemUpdate struct {
	Quantity     int    `json:"quantity"`
	UserID       int64  `json:"user_id"`
	ChangeReason string `json:"change_reason"`
}

// PendingChanges maps an item id to its staged quantity.
type PendingChanges map[int64]int

// InventoryFilter holds the inputs of the derived list view.
type InventoryFilter struct {
	Search       string
	CategoryID   int64 // 0 means all categories
	LowStockOnly bool
}

// ItemPredicate selects items for a view. Predicates are independent, so
// they can be applied in any order.
type ItemPredicate func(InventoryItem) bool

// Predicates returns the predicates the filter enables.
func (f InventoryFilter) Predicates() []ItemPredicate {
	var ps []ItemPredicate
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		ps = append(ps, func(i InventoryItem) bool {
			return strings.Contains(strings.ToLower(i.Name), term)
		})
	}
	if f.CategoryID != 0 {
		id := f.CategoryID
		ps = append(ps, func(i InventoryItem) bool { return i.CategoryID == id })
	}
	if f.LowStockOnly {
		ps = append(ps, InventoryItem.LowStock)
	}
	return ps
}

// FilterItems keeps the items matching every predicate, preserving order.
func FilterItems(items []InventoryItem, predicates ...ItemPredicate) []InventoryItem {
	out := make([]InventoryItem, 0, len(items))
next:
	for _, it := range items {
		for _, p := range predicates {
			if !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// ItemView is an item as displayed: staged quantity applied, status derived.
type ItemView struct {
	InventoryItem
	Status  StockStatus `json:"status"`
	Changed bool        `json:"changed"`
}

// CategoryGroup is one section of the grouped view.
type CategoryGroup struct {
	Category Category   `json:"category"`
	Items    []ItemView `json:"items"`
}

// InventoryStats counts items across the whole (unfiltered) list.
type InventoryStats struct {
	Total   int `json:"total"`
	Low     int `json:"low"`
	Missing int `json:"missing"`
}

// InventoryView is the derived, read-only projection served to the client.
type InventoryView struct {
	ApartmentID  int64           `json:"apartment_id"`
	Items        []ItemView      `json:"items"`
	Groups       []CategoryGroup `json:"groups"`
	Stats        InventoryStats  `json:"stats"`
	PendingCount int             `json:"pending_count"`
}

// GroupByCategory follows the category order and drops empty groups. Items
// whose category is unknown are not grouped.
func GroupByCategory(categories []Category, items []ItemView) []CategoryGroup {
	groups := make([]CategoryGroup, 0, len(categories))
	for _, c := range categories {
		var members []ItemView
		for _, it := range items {
			if it.CategoryID == c.ID {
				members = append(members, it)
			}
		}
		if len(members) > 0 {
			groups = append(groups, CategoryGroup{Category: c, Items: members})
		}
	}
	return groups
}

// CountStock computes the header counters.
func CountStock(items []InventoryItem) InventoryStats {
	st := InventoryStats{Total: len(items)}
	for _, it := range items {
		switch it.Status() {
		case StockMissing:
			st.Missing++
		case StockLow:
			st.Low++
		}
	}
	return st
}

// OutcomeResult is the fate of one staged change within a save batch.
type OutcomeResult string

const (
	OutcomeApplied OutcomeResult = "applied"
	OutcomeFailed  OutcomeResult = "failed"
	OutcomeSkipped OutcomeResult = "skipped"
)

// ItemOutcome records what happened to one item in a batch.
type ItemOutcome struct {
	ItemID   int64         `json:"item_id" bson:"item_id"`
	Quantity int           `json:"quantity" bson:"quantity"`
	Result   OutcomeResult `json:"result" bson:"result"`
	Error    string        `json:"error,omitempty" bson:"error,omitempty"`
}

// BatchReport makes the result of a save explicit, item by item.
type BatchReport struct {
	ID            string        `json:"id" bson:"_id"`
	ApartmentID   int64         `json:"apartment_id" bson:"apartment_id"`
	UserID        int64         `json:"user_id" bson:"user_id"`
	Reason        string        `json:"reason" bson:"reason"`
	StartedAt     time.Time     `json:"started_at" bson:"started_at"`
	FinishedAt    time.Time     `json:"finished_at" bson:"finished_at"`
	NothingToSave bool          `json:"nothing_to_save" bson:"-"`
	Outcomes      []ItemOutcome `json:"outcomes" bson:"outcomes"`
	Applied       int           `json:"applied" bson:"applied"`
	Failed        int           `json:"failed" bson:"failed"`
	Skipped       int           `json:"skipped" bson:"skipped"`
}

// Complete reports whether every staged change reached the backend.
func (r *BatchReport) Complete() bool {
	return r.Failed == 0 && r.Skipped == 0
}
