package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("no authenticated session")
	ErrForbidden       = errors.New("access forbidden")
)

// Validation codes reported to the client alongside the message.
const (
	CodeRequiredTasksIncomplete = "required_tasks_incomplete"
	CodeFileTooLarge            = "file_too_large"
	CodeChecklistCompleted      = "checklist_completed"
	CodeChecklistNotLoaded      = "checklist_not_loaded"
	CodeUnknownTask             = "unknown_task"
	CodeUnknownItem             = "unknown_item"
	CodeNegativeQuantity        = "negative_quantity"
	CodeInventoryNotLoaded      = "inventory_not_loaded"
	CodeMissingField            = "missing_field"
)

// ValidationError is a local precondition failure. It never reaches the
// backend and is never retried.
type ValidationError struct {
	Code    string
	Message string
	// Count is set for errors that report a number of offending entries.
	Count int
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err carries a ValidationError with the given
// code. An empty code matches any ValidationError.
func IsValidation(err error, code string) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	return code == "" || ve.Code == code
}

// DefaultGatewayMessage is shown when the backend gave no usable detail.
const DefaultGatewayMessage = "Errore di connessione al server"

// GatewayError wraps a transport failure or a non-success backend response.
type GatewayError struct {
	Op     string
	Status int    // 0 when the request never got a response
	Detail string // backend-provided reason, if any
	Err    error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Status != 0 && e.Detail != "":
		return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.Status, e.Detail)
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: backend returned %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": gateway failure"
	}
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Message is the user-facing text: the backend detail when present,
// otherwise the generic fallback.
func (e *GatewayError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return DefaultGatewayMessage
}

// BatchError is returned when a save batch stopped early. It carries the
// report so callers can show which items were applied.
type BatchError struct {
	Report *BatchReport
	Err    error
}

func (e *BatchError) Error() string { return e.Err.Error() }

func (e *BatchError) Unwrap() error { return e.Err }
