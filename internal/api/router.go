package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/affirmly/affirmation-api/docs"
	"github.com/affirmly/affirmation-api/internal/api/handler"
	"github.com/affirmly/affirmation-api/internal/api/middleware"
	"github.com/affirmly/affirmation-api/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Log       zerolog.Logger
	Cache     ports.AffirmationService
	Accounts  ports.AccountService
	JWTSecret string
	// Checks run on GET /health/ready.
	Checks []handler.DependencyCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))

	// --- Affirmation cache ---
	affirmations := handler.NewAffirmationHandler(deps.Cache)
	e.GET("/fetch-affirmation", affirmations.Fetch)
	e.POST("/fetch-affirmation", affirmations.Fetch)
	e.GET("/view-affirmations", affirmations.List)
	e.DELETE("/clear-affirmations", affirmations.Clear)
	e.GET("/affirmation-count", affirmations.Count)
	e.GET("/random-affirmation", affirmations.Random)

	// --- Accounts ---
	accounts := handler.NewAccountHandler(deps.Accounts)
	auth := middleware.Auth(deps.JWTSecret)
	e.POST("/create-account", accounts.Create)
	e.POST("/login", accounts.Login)
	e.GET("/users/:username/id", accounts.LookupID)
	e.PUT("/update-password", accounts.UpdatePassword, auth)
	e.DELETE("/delete-account", accounts.Delete, auth)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Checks...).Readiness)

	// --- Ops ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

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
			if v.Error != nil || v.Status >= 500 {
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
