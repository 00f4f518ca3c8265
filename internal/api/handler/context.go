package handler

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bennati/checklist-bff/internal/api/middleware"
	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
	"github.com/bennati/checklist-bff/internal/core/service"
)

// ctxWorkspace returns the workspace injected by the Session middleware.
// Its absence means the route was registered without the middleware chain,
// which is treated as an unauthenticated request.
func ctxWorkspace(c echo.Context) (*service.Workspace, error) {
	ws, ok := c.Get(middleware.KeyWorkspace).(*service.Workspace)
	if !ok || ws == nil {
		return nil, domain.ErrUnauthenticated
	}
	return ws, nil
}

// bearerContext carries the session's backend token for services that take
// it from the context rather than from a session.
func bearerContext(c echo.Context, ws *service.Workspace) context.Context {
	return ports.WithBearerToken(c.Request().Context(), ws.Session.Token())
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(400, name+" must be a positive integer")
	}
	return id, nil
}

// queryID parses an optional numeric query parameter; absent means 0.
func queryID(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, echo.NewHTTPError(400, name+" must be a non-negative integer")
	}
	return id, nil
}
