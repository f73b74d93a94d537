package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/craftgate/internal/core/service"
	"github.com/yndnr/craftgate/internal/server/httpserver/handler"
	"github.com/yndnr/craftgate/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// AuthService handles login and bearer token checks.
	AuthService *service.AuthService

	// GameService serves player and server operations.
	GameService *service.GameService

	// RateLimiter admits or rejects each request by client IP.
	RateLimiter Admitter

	// Metrics is the registry served on /metrics. Nil disables the
	// endpoint and request metrics.
	Metrics *metric.Registry

	// MetricsAuthRequired indicates if /metrics requires a bearer token.
	MetricsAuthRequired bool

	// TrustProxyHeaders takes the client IP from X-Forwarded-For.
	TrustProxyHeaders bool

	// Version is reported by /health.
	Version string

	// Logger for request logging.
	Logger *slog.Logger
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := handler.New(handler.Config{
		Auth:    cfg.AuthService,
		Game:    cfg.GameService,
		Version: cfg.Version,
		Metrics: cfg.Metrics,
		Logger:  log,
	})

	auth := Auth(cfg.AuthService, cfg.Metrics)

	mux := http.NewServeMux()
	h.Register(mux, auth)

	if cfg.Metrics != nil {
		var metricsHandler http.Handler = cfg.Metrics.Handler()
		if cfg.MetricsAuthRequired {
			metricsHandler = auth(metricsHandler)
		}
		h.Route(mux, http.MethodGet, "/metrics", metricsHandler)
	}

	// Order: Recover -> RequestID -> Audit -> CORS -> RateLimit -> Metrics -> mux
	middlewares := []Middleware{
		Recover(log),
		RequestID(),
		Audit(log, cfg.TrustProxyHeaders),
		CORS(),
		RateLimit(&RateLimitConfig{
			Limiter:           cfg.RateLimiter,
			TrustProxyHeaders: cfg.TrustProxyHeaders,
			Metrics:           cfg.Metrics,
			Logger:            log,
		}),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, Metrics(cfg.Metrics))
	}

	return Chain(mux, middlewares...)
}
