package handler

import (
	"github.com/bennati/checklist-bff/internal/core/domain"
)

// --- Session ---

type loginRequest struct {
	Username    string `json:"username"     validate:"required"`
	Password    string `json:"password"     validate:"required"`
	ApartmentID int64  `json:"apartment_id" validate:"required,gt=0"`
	// Date is the checklist day, YYYY-MM-DD; empty means today.
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type sessionResponse struct {
	State     domain.GateState  `json:"state"`
	User      *domain.User      `json:"user,omitempty"`
	Apartment *domain.Apartment `json:"apartment,omitempty"`
	Checklist *domain.Checklist `json:"checklist,omitempty"`
}

type loginResponse struct {
	Token    string          `json:"token"`
	Session  sessionResponse `json:"session"`
	Redirect string          `json:"redirect"`
}

func newSessionResponse(s domain.Session) sessionResponse {
	return sessionResponse{
		State:     domain.State(domain.GateInput{User: s.User}),
		User:      s.User,
		Apartment: s.Apartment,
		Checklist: s.Checklist,
	}
}

// --- Navigation ---

type navigationResponse struct {
	Path  string           `json:"path"`
	State domain.GateState `json:"state"`
	domain.Decision
}

// --- Checklist ---

type checklistResponse struct {
	Checklist *domain.Checklist `json:"checklist"`
	Progress  domain.Progress   `json:"progress"`
}

type taskUpdateRequest struct {
	Completed     *bool   `json:"completed"`
	TextResponse  *string `json:"text_response" validate:"omitempty,max=4000"`
	YesNoResponse *bool   `json:"yes_no_response"`
}

type notesRequest struct {
	Notes string `json:"notes" validate:"max=4000"`
}

// completeRequest tells absent notes (keep the current ones) from empty ones.
type completeRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=4000"`
}

// --- Inventory ---

type quantityRequest struct {
	// Pointer so a missing field is told apart from an explicit 0.
	Quantity *int `json:"quantity" validate:"required"`
}

type quantityResponse struct {
	ItemID       int64 `json:"item_id"`
	Quantity     int   `json:"quantity"`
	Changed      bool  `json:"changed"`
	PendingCount int   `json:"pending_count"`
}

type saveResponse struct {
	Report  *domain.BatchReport `json:"report"`
	Warning string              `json:"warning,omitempty"`
}
