package api

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bennati/checklist-bff/docs"
	"github.com/bennati/checklist-bff/internal/api/handler"
	"github.com/bennati/checklist-bff/internal/api/middleware"
	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/service"
	"github.com/bennati/checklist-bff/internal/infrastructure/http/handlers"
)

const (
	bodyLimit = "2M"
	photoPath = "/api/checklist/tasks/:id/photo"
)

// photoBodyLimit adds 1 MiB of multipart overhead to the photo limit; bodies
// below it reach the exact size check in the handler.
var photoBodyLimit = fmt.Sprintf("%dM", domain.MaxPhotoBytes>>20+1)

// Dependencies are the services the router exposes.
type Dependencies struct {
	Log         zerolog.Logger
	Tokens      *middleware.Tokens
	Workspaces  *service.Workspaces
	Auth        *service.AuthService
	Reports     *service.ReportService
	Readiness   map[string]handlers.Pinger
	StaticDir   string
	CORSOrigins []string
	// SecureCookie marks the session cookie Secure; off in development.
	SecureCookie bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
		Limit:   bodyLimit,
		Skipper: func(c echo.Context) bool { return c.Path() == photoPath },
	}))
	if len(d.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}

	requireSession := []echo.MiddlewareFunc{middleware.Auth(d.Tokens), middleware.Session(d.Workspaces)}
	optionalSession := []echo.MiddlewareFunc{middleware.OptionalAuth(d.Tokens), middleware.OptionalSession(d.Workspaces)}

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(d.Auth, d.Tokens, d.SecureCookie, d.Log)
	navigationHandler := handler.NewNavigationHandler(d.StaticDir)
	checklistHandler := handler.NewChecklistHandler()
	inventoryHandler := handler.NewInventoryHandler(d.Reports, d.Log)
	reportHandler := handler.NewReportHandler(d.Reports)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Public API ---
	api := e.Group("/api")
	api.GET("/apartments", sessionHandler.Apartments)
	api.POST("/session/login", sessionHandler.Login)
	api.GET("/navigation", navigationHandler.Navigate, optionalSession...)

	// --- Session API ---
	authed := api.Group("", requireSession...)
	authed.GET("/session", sessionHandler.Get)
	authed.POST("/session/logout", sessionHandler.Logout)

	authed.GET("/checklist", checklistHandler.Get)
	authed.PUT("/checklist/tasks/:id", checklistHandler.UpdateTask)
	authed.POST("/checklist/tasks/:id/photo", checklistHandler.UploadPhoto,
		middleware.UploadLimit(photoBodyLimit, domain.PhotoTooLarge))
	authed.PUT("/checklist/notes", checklistHandler.SaveNotes)
	authed.POST("/checklist/complete", checklistHandler.Complete)

	authed.GET("/inventory", inventoryHandler.Get)
	authed.POST("/inventory/reload", inventoryHandler.Reload)
	authed.PUT("/inventory/items/:id/quantity", inventoryHandler.SetQuantity)
	authed.POST("/inventory/items/:id/increment", inventoryHandler.Increment)
	authed.POST("/inventory/items/:id/decrement", inventoryHandler.Decrement)
	authed.DELETE("/inventory/pending", inventoryHandler.Discard)
	authed.POST("/inventory/save", inventoryHandler.Save)
	authed.GET("/inventory/batches", inventoryHandler.Batches)

	// --- Manager reports ---
	reports := authed.Group("/reports", middleware.RBAC(domain.RoleManager))
	reports.GET("/dashboard", reportHandler.Dashboard)
	reports.GET("/stats/:id", reportHandler.ApartmentStats)
	reports.GET("/export/inventory/:format", reportHandler.ExportInventory)
	reports.GET("/export/checklists/csv", reportHandler.ExportChecklists)

	api.Any("/*", func(c echo.Context) error { return echo.ErrNotFound })

	// --- Surfaces: gate decides between redirect and the SPA index ---
	e.Static("/assets", filepath.Join(d.StaticDir, "assets"))
	pages := e.Group("", optionalSession...)
	pages.GET("/", navigationHandler.Surface)
	pages.GET(domain.SurfaceChecklist.Path, navigationHandler.Surface)
	pages.GET(domain.SurfaceInventory.Path, navigationHandler.Surface)
	pages.GET(domain.SurfaceDashboard.Path, navigationHandler.Surface)
	pages.GET("/*", navigationHandler.Surface)

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
