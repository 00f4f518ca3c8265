package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/api/metrics"
	"github.com/bennati/checklist-bff/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code,omitempty"`
	Count  int                 `json:"count,omitempty"`
	Report *domain.BatchReport `json:"report,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps local validation failures to 422 with their code.
//   - Passes backend client errors through and turns the rest into 502.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)

		var be *domain.BatchError
		if errors.As(err, &be) {
			body.Report = be.Report
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		metrics.ValidationRejectionsTotal.WithLabelValues(ve.Code).Inc()
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Message, Code: ve.Code, Count: ve.Count}
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "sessione scaduta", Code: "unauthenticated"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "accesso negato", Code: "forbidden"}
	}

	var ge *domain.GatewayError
	if errors.As(err, &ge) {
		return gatewayStatus(ge), errorResponse{Error: ge.Message(), Code: "backend_error"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// gatewayStatus keeps the backend's client errors, which the UI shows as is,
// and reports everything else as a bad gateway.
func gatewayStatus(ge *domain.GatewayError) int {
	switch ge.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound,
		http.StatusConflict, http.StatusUnprocessableEntity:
		return ge.Status
	default:
		return http.StatusBadGateway
	}
}
