// Package router assembles the gin engine and its versioned API routes.
package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

const defaultAPIVersion = "v1"

// RouteRegistrar mounts a handler's routes on a group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Dependencies are the collaborators the HTTP surface needs
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	Meter      metric.Meter // optional
	Checkout   handler.CheckoutCalculator
	Database   handler.Pinger
	APIVersion string
}

// NewEngine builds the gin engine with the middleware chain and all routes.
// Order matters: the request ID is assigned before tracing and logging read it,
// and recovery sits innermost so panics still pass through the logger.
func NewEngine(deps Dependencies) (*gin.Engine, error) {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	cors := middleware.DefaultCORSConfig()
	if len(deps.Config.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = deps.Config.HTTP.CORSAllowOrigins
	}
	if len(deps.Config.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = deps.Config.HTTP.CORSAllowMethods
	}
	if len(deps.Config.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = deps.Config.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: deps.Config.Telemetry.ServiceName,
			Enabled:     deps.Config.Telemetry.Enabled,
		}),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(deps.Meter),
		logger.GinMiddleware(deps.Logger),
		middleware.CORSWithConfig(cors),
		middleware.Secure(),
		middleware.BodyLimit(deps.Config.HTTP.MaxBodySize),
		logger.Recovery(deps.Logger),
	)

	handler.NewSystemHandler(deps.Database).RegisterRoutes(engine)

	mountAPI(engine, deps.APIVersion, handler.NewCheckoutHandler(deps.Checkout))
	return engine, nil
}

// mountAPI registers every registrar under /api/<version>, defaulting to v1
func mountAPI(engine *gin.Engine, version string, registrars ...RouteRegistrar) {
	if version == "" {
		version = defaultAPIVersion
	}
	api := engine.Group("/api/" + version)
	for _, r := range registrars {
		r.RegisterRoutes(api)
	}
}
