package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/messagely/messagely-api/docs"
	"github.com/messagely/messagely-api/internal/api/handler"
	"github.com/messagely/messagely-api/internal/api/middleware"
	"github.com/messagely/messagely-api/internal/core/ports"
	"github.com/messagely/messagely-api/internal/infrastructure/http/handlers"
)

const defaultRequestTimeout = 10 * time.Second

// Deps are the services and probes the router mounts.
type Deps struct {
	Auth     ports.AuthService
	Messages ports.MessageService
	Users    ports.UserService
	// Checks are readiness probes keyed by dependency name.
	Checks map[string]handlers.Check

	// Registry receives the HTTP collectors. Nil uses the default registry,
	// which can only back one router per process.
	Registry *prometheus.Registry

	Logger         zerolog.Logger
	RequestTimeout time.Duration
}

const metricsNamespace = "messagely"

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	promConfig := echoprometheus.MiddlewareConfig{
		Namespace:                 metricsNamespace,
		Subsystem:                 "http",
		DoNotUseRequestPathFor404: true,
		StatusCodeResolver:        statusCode,
	}
	promHandler := echoprometheus.NewHandler()
	if d.Registry != nil {
		promConfig.Registerer = d.Registry
		promHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: prometheus.Gatherers{d.Registry, prometheus.DefaultGatherer},
		})
	}

	// --- Global middleware ---
	// Metrics sit outside Recover so panics are counted as the 500 they render.
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.ContextTimeout(timeout))

	requireAuth := middleware.RequireAuth(d.Auth)
	sameUser := middleware.RequireSameUser("username")

	authHandler := handler.NewAuthHandler(d.Auth)
	messageHandler := handler.NewMessageHandler(d.Messages)
	userHandler := handler.NewUserHandler(d.Users, d.Messages)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, requireAuth)

	// --- Message routes ---
	messages := e.Group("/messages", requireAuth)
	messages.POST("", messageHandler.Create)
	messages.GET("/:id", messageHandler.Get)
	messages.POST("/:id/read", messageHandler.MarkRead)

	// --- User routes ---
	users := e.Group("/users", requireAuth)
	users.GET("", userHandler.List)
	users.GET("/:username", userHandler.Get, sameUser)
	users.GET("/:username/to", userHandler.Received, sameUser)
	users.GET("/:username/from", userHandler.Sent, sameUser)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", promHandler)
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
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
