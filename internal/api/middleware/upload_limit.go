package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// UploadLimit caps the request body at limit (echo size syntax, e.g. "11M").
// An oversize body fails with tooLarge() instead of a bare 413.
func UploadLimit(limit string, tooLarge func() error) echo.MiddlewareFunc {
	bodyLimit := echomiddleware.BodyLimit(limit)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		limited := bodyLimit(next)
		return func(c echo.Context) error {
			err := limited(c)
			if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
				return tooLarge()
			}
			return err
		}
	}
}
