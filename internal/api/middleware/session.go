package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/service"
)

// KeyWorkspace holds the *service.Workspace of the request's session.
const KeyWorkspace = "workspace"

// Session loads the workspace named by the token and requires it to be
// authenticated. The role in context is replaced by the session user's role.
func Session(workspaces *service.Workspaces) echo.MiddlewareFunc {
	return session(workspaces, true)
}

// OptionalSession loads the workspace when a session id is present.
func OptionalSession(workspaces *service.Workspaces) echo.MiddlewareFunc {
	return session(workspaces, false)
}

func session(workspaces *service.Workspaces, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID, _ := c.Get(KeySessionID).(string)
			if sessionID == "" {
				if required {
					return domain.ErrUnauthenticated
				}
				return next(c)
			}

			ws, err := workspaces.Get(c.Request().Context(), sessionID)
			if err != nil {
				if required {
					return err
				}
				return next(c)
			}

			user := ws.Session.User()
			if user == nil || ws.Session.Token() == "" {
				c.Set(KeyRole, "")
				if required {
					return domain.ErrUnauthenticated
				}
				return next(c)
			}

			c.Set(KeyRole, string(user.Role))
			c.Set(KeyWorkspace, ws)
			return next(c)
		}
	}
}
