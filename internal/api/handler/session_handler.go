package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bennati/checklist-bff/internal/api/metrics"
	"github.com/bennati/checklist-bff/internal/api/middleware"
	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
	"github.com/bennati/checklist-bff/internal/core/service"
)

// SessionHandler opens and closes BFF sessions.
type SessionHandler struct {
	auth         *service.AuthService
	tokens       *middleware.Tokens
	secureCookie bool
	log          zerolog.Logger
}

func NewSessionHandler(auth *service.AuthService, tokens *middleware.Tokens, secureCookie bool, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{auth: auth, tokens: tokens, secureCookie: secureCookie, log: log}
}

// Login authenticates against the backend and opens a session.
//
// @Summary      Login
// @Description  Checks the credentials with the backend, opens the day's checklist and returns the BFF session token (also set as cookie).
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials, apartment and date"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ws, err := h.auth.Login(c.Request().Context(), ports.LoginRequest{
		Username:    req.Username,
		Password:    req.Password,
		ApartmentID: req.ApartmentID,
		Date:        req.Date,
	})
	if err != nil {
		metrics.SessionLoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.SessionLoginsTotal.WithLabelValues("success").Inc()

	snapshot := ws.Session.Snapshot()
	token, err := h.tokens.Issue(ws.Session.ID(), string(snapshot.User.Role))
	if err != nil {
		_ = h.auth.Logout(c.Request().Context(), ws)
		return err
	}
	c.SetCookie(h.cookie(token, h.tokens.TTL()))

	h.log.Info().
		Str("session_id", ws.Session.ID()).
		Int64("user_id", snapshot.User.ID).
		Str("role", string(snapshot.User.Role)).
		Msg("session opened")

	return c.JSON(http.StatusOK, loginResponse{
		Token:    token,
		Session:  newSessionResponse(snapshot),
		Redirect: domain.SurfaceChecklist.Path,
	})
}

// Logout closes the session.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      204
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}

	// The cookie goes regardless: memory is already cleared even if the
	// storage delete failed.
	c.SetCookie(h.cookie("", -1))
	if err := h.auth.Logout(c.Request().Context(), ws); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns the current session.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSessionResponse(ws.Session.Snapshot()))
}

// Apartments lists the apartments offered on the login form.
//
// @Summary      List apartments
// @Tags         session
// @Produce      json
// @Success      200  {array}   domain.Apartment
// @Failure      502  {object}  map[string]string
// @Router       /api/apartments [get]
func (h *SessionHandler) Apartments(c echo.Context) error {
	apartments, err := h.auth.ListApartments(c.Request().Context())
	if err != nil {
		return err
	}
	if apartments == nil {
		apartments = []domain.Apartment{}
	}
	return c.JSON(http.StatusOK, apartments)
}

func (h *SessionHandler) cookie(value string, ttl time.Duration) *http.Cookie {
	ck := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		ck.MaxAge = -1
	} else {
		ck.MaxAge = int(ttl.Seconds())
	}
	return ck
}
