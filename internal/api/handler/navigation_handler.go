package handler

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/bennati/checklist-bff/internal/api/middleware"
	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/service"
)

// NavigationHandler applies the authorization gate to the application's
// surfaces. It expects OptionalAuth and OptionalSession upstream.
type NavigationHandler struct {
	index string
}

// NewNavigationHandler serves staticDir/index.html for rendered surfaces.
func NewNavigationHandler(staticDir string) *NavigationHandler {
	return &NavigationHandler{index: filepath.Join(staticDir, "index.html")}
}

// Navigate reports what the client should do with a path.
//
// @Summary      Gate decision
// @Description  Returns render, redirect (with location) or wait for the requested path.
// @Tags         navigation
// @Produce      json
// @Param        path  query     string  true  "Requested path"
// @Success      200   {object}  navigationResponse
// @Router       /api/navigation [get]
func (h *NavigationHandler) Navigate(c echo.Context) error {
	p := c.QueryParam("path")
	if p == "" {
		p = domain.SurfaceLogin.Path
	}
	in := gateInput(c)
	return c.JSON(http.StatusOK, navigationResponse{
		Path:     p,
		State:    domain.State(in),
		Decision: domain.DecidePath(in, cleanPath(p)),
	})
}

// Surface serves a page route: a redirect when the gate says so, the SPA
// index otherwise.
func (h *NavigationHandler) Surface(c echo.Context) error {
	decision := domain.DecidePath(gateInput(c), cleanPath(c.Request().URL.Path))

	switch decision.Action {
	case domain.ActionRedirect:
		return c.Redirect(http.StatusFound, decision.Location)
	case domain.ActionWait:
		c.Response().Header().Set("Retry-After", "1")
		return c.NoContent(http.StatusServiceUnavailable)
	}

	if _, err := os.Stat(h.index); errors.Is(err, os.ErrNotExist) {
		return c.JSON(http.StatusOK, decision)
	}
	return c.File(h.index)
}

// gateInput reads the session loaded by OptionalSession. Anonymous requests
// are unauthenticated, never loading.
func gateInput(c echo.Context) domain.GateInput {
	ws, ok := c.Get(middleware.KeyWorkspace).(*service.Workspace)
	if !ok || ws == nil {
		return domain.GateInput{}
	}
	return ws.Session.GateInput()
}

// cleanPath normalises trailing slashes so "/checklist/" matches "/checklist".
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}
