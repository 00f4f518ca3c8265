package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestValidator_UsesWireNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&loginRequest{Username: "sofia", Password: "Prova123!", Date: "01/01/2024"})
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	msg, _ := he.Message.(string)
	if !strings.Contains(msg, "apartment_id is required") {
		t.Fatalf("expected apartment_id in message, got %q", msg)
	}
	if !strings.Contains(msg, "date must be a date formatted as 2006-01-02") {
		t.Fatalf("expected date format in message, got %q", msg)
	}
}

func TestValidator_Accepts(t *testing.T) {
	v := NewValidator()
	q := 0
	if err := v.Validate(&quantityRequest{Quantity: &q}); err != nil {
		t.Fatalf("zero quantity is valid, got %v", err)
	}
	if err := v.Validate(&loginRequest{Username: "sofia", Password: "Prova123!", ApartmentID: 1, Date: "2024-01-01"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
