package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/licensehub/console-gateway/docs"
	"github.com/licensehub/console-gateway/internal/api/handler"
	"github.com/licensehub/console-gateway/internal/api/metrics"
	"github.com/licensehub/console-gateway/internal/api/middleware"
	"github.com/licensehub/console-gateway/internal/core/ports"
	"github.com/licensehub/console-gateway/internal/core/service"
)

// Deps are the collaborators the router wires together.
type Deps struct {
	Upstream ports.Upstream
	Proxy    service.ProxyOptions
	Log      zerolog.Logger
	// Registry receives HTTP and upstream metrics and backs /metrics.
	// A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "console_gateway",
		Registerer: reg,
	}))
	e.Use(requestLogger(deps.Log))

	// --- Dependencies ---
	proxy := service.NewProxyService(deps.Upstream, deps.Proxy, metrics.NewUpstream(reg), deps.Log)
	authHandler := handler.NewAuthHandler(proxy)
	partnerHandler := handler.NewPartnerHandler(proxy)
	planHandler := handler.NewPlanHandler(proxy)
	licenseHandler := handler.NewLicenseHandler(proxy)
	healthHandler := handler.NewHealthHandler(deps.Upstream)

	bearer := middleware.RequireBearer()

	// --- Proxy routes ---
	g := e.Group("/api")
	g.POST("/auth/login", authHandler.Login)

	g.GET("/partner", partnerHandler.List, bearer)
	g.POST("/partner", partnerHandler.Create, bearer)
	g.GET("/partner/:id", partnerHandler.Get, bearer)
	g.PUT("/partner/:id", partnerHandler.Update, bearer)
	g.DELETE("/partner/:id", partnerHandler.Delete, bearer)

	g.GET("/subscription-plan", planHandler.List, bearer)
	g.POST("/subscription-plan", planHandler.Create, bearer)

	g.GET("/license", licenseHandler.List, bearer, middleware.Tenant())

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – does the backend answer?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		// Render the error here so the logged status is the one sent.
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
