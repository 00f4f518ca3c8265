package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionCookie carries the BFF token for browser clients.
const SessionCookie = "bff_session"

// Context keys set by Auth.
const (
	KeySessionID = "session_id"
	KeyRole      = "role"
)

// Tokens issues and verifies the BFF's own session token. The token only
// names a session; the backend token never leaves the server.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns how long issued tokens stay valid.
func (t *Tokens) TTL() time.Duration { return t.ttl }

// Issue signs a token for a session.
func (t *Tokens) Issue(sessionID, role string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sid":  sessionID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(t.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies a token and returns its session id and role.
func (t *Tokens) Parse(raw string) (sessionID, role string, err error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !tkn.Valid {
		return "", "", errors.New("invalid token")
	}

	sessionID, _ = claims["sid"].(string)
	role, _ = claims["role"].(string)
	if sessionID == "" {
		return "", "", errors.New("token without session")
	}
	return sessionID, role, nil
}

// Auth requires a valid session token, from the Authorization header or the
// session cookie, and injects the session id and role into context.
func Auth(tokens *Tokens) echo.MiddlewareFunc {
	return auth(tokens, true)
}

// OptionalAuth injects the session when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(tokens *Tokens) echo.MiddlewareFunc {
	return auth(tokens, false)
}

func auth(tokens *Tokens, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := extractToken(c)
			if err != nil {
				if required {
					return err
				}
				return next(c)
			}

			sessionID, role, err := tokens.Parse(raw)
			if err != nil {
				if required {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return next(c)
			}

			c.Set(KeySessionID, sessionID)
			c.Set(KeyRole, role)

			return next(c)
		}
	}
}

func extractToken(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
}
