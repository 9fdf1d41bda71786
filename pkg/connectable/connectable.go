// Package connectable wires the error middleware, CORS and the observability
// middlewares into a gin engine.
package connectable

import (
	"errors"
	"net/http"
	"time"

	"github.com/Aidin1998/connectable/pkg/config"
	apperrors "github.com/Aidin1998/connectable/pkg/errors"
	"github.com/Aidin1998/connectable/pkg/metrics"
	"github.com/Aidin1998/connectable/pkg/middleware"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// DefaultCORSConfig allows every origin with the methods and headers a
// browser client of an enveloped JSON API needs.
func DefaultCORSConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions, http.MethodPatch,
		},
		AllowHeaders: []string{
			"Accept", "Authorization", "Content-Type", "Origin",
			"X-Requested-With", "User-Agent", "Access-Control-Allow-Origin",
		},
	}
}

// ErrRoutesRegistered is returned by ConfigureErrorMiddleware for an engine
// that already has routes.
var ErrRoutesRegistered = errors.New("connectable: error middleware must be configured before routes are registered")

// ConfigureErrorMiddleware drops every middleware already installed on engine
// and installs the default error middleware as the first one. Unknown routes
// and methods are answered through it as well.
//
// gin copies the middleware chain into each route when the route is
// registered, so routes added earlier would keep the old chain. The engine is
// left untouched and ErrRoutesRegistered is returned in that case.
func ConfigureErrorMiddleware(engine *gin.Engine, env config.Environment, logger *zap.Logger, opts ...middleware.Option) error {
	if len(engine.Routes()) > 0 {
		return ErrRoutesRegistered
	}
	engine.Handlers = nil
	engine.Use(middleware.Default(env, logger, opts...))
	abortUnrouted(engine)
	return nil
}

// abortUnrouted makes unmatched requests fail with abort errors so they get an
// envelope instead of gin's plain text bodies.
func abortUnrouted(engine *gin.Engine) {
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.NotFound)
	})
	engine.NoMethod(func(c *gin.Context) {
		_ = c.Error(apperrors.New(http.StatusMethodNotAllowed, ""))
	})
}

// ConfigureCORS installs the CORS middleware. A nil configuration installs
// DefaultCORSConfig.
func ConfigureCORS(engine *gin.Engine, configuration *cors.Config) {
	cfg := DefaultCORSConfig()
	if configuration != nil {
		cfg = *configuration
	}
	engine.Use(cors.New(cfg))
}

// CORSFromConfig overlays the configured CORS settings on DefaultCORSConfig.
func CORSFromConfig(c config.CORSConfig) cors.Config {
	cfg := DefaultCORSConfig()
	if len(c.AllowOrigins) > 0 && !(len(c.AllowOrigins) == 1 && c.AllowOrigins[0] == "*") {
		cfg.AllowAllOrigins = false
		cfg.AllowOrigins = c.AllowOrigins
	}
	if len(c.AllowMethods) > 0 {
		cfg.AllowMethods = c.AllowMethods
	}
	if len(c.AllowHeaders) > 0 {
		cfg.AllowHeaders = c.AllowHeaders
	}
	if len(c.ExposeHeaders) > 0 {
		cfg.ExposeHeaders = c.ExposeHeaders
	}
	cfg.AllowCredentials = c.AllowCredentials
	cfg.MaxAge = c.MaxAge
	return cfg
}

// EngineOption customizes NewEngine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	registry   *prometheus.Registry
	middleware []middleware.Option
}

// WithRegistry registers the engine metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) EngineOption {
	return func(o *engineOptions) {
		o.registry = reg
	}
}

// WithErrorOptions forwards options to the error middleware.
func WithErrorOptions(opts ...middleware.Option) EngineOption {
	return func(o *engineOptions) {
		o.middleware = append(o.middleware, opts...)
	}
}

// NewEngine creates a gin engine for cfg. The gin mode is process-wide and is
// left to the caller.
//
// Access logging, tracing and request metrics only observe and run outside the
// error middleware so they see the final status. The error middleware is the
// first handler that can shape a response; CORS and the routes run inside it.
func NewEngine(cfg *config.Config, logger *zap.Logger, opts ...EngineOption) *gin.Engine {
	o := &engineOptions{}
	for _, opt := range opts {
		opt(o)
	}

	engine := gin.New()
	engine.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	if cfg.Tracing.Enabled {
		engine.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}

	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		reg := o.registry
		if reg == nil {
			reg = prometheus.NewRegistry()
		}
		recorder = metrics.NewRecorder(reg)
		engine.Use(recorder.Middleware())
		engine.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	errOpts := append([]middleware.Option{middleware.WithMetrics(recorder)}, o.middleware...)
	engine.Use(middleware.Default(cfg.Environment, logger, errOpts...))
	abortUnrouted(engine)

	if cfg.CORS.Enabled {
		corsCfg := CORSFromConfig(cfg.CORS)
		ConfigureCORS(engine, &corsCfg)
	}
	return engine
}
