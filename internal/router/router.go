package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shaibs3/recipebook/internal/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Handler is implemented by every HTTP resource of the service
type Handler interface {
	RegisterRoutes(router *mux.Router, logger *zap.Logger)
}

// Option customizes the router
type Option func(*Router)

// WithCORSOrigin restricts cross-origin requests to a single origin
func WithCORSOrigin(origin string) Option {
	return func(r *Router) {
		r.corsOrigin = origin
	}
}

// Router wires handlers and middleware into one http.Handler
type Router struct {
	mux        *mux.Router
	logger     *zap.Logger
	limiter    *rate.Limiter
	corsOrigin string
	metrics    *httpMetrics
	root       http.Handler
}

// NewRouter creates a router with rate limiting, request logging and metrics
func NewRouter(limiter *rate.Limiter, tel *telemetry.Telemetry, logger *zap.Logger, handlers []Handler, opts ...Option) *Router {
	r := &Router{
		mux:     mux.NewRouter().UseEncodedPath(),
		logger:  logger.Named("router"),
		limiter: limiter,
	}
	for _, opt := range opts {
		opt(r)
	}

	var meter metric.Meter
	if tel != nil {
		meter = tel.Meter
		r.mux.Handle("/metrics", tel.Handler()).Methods(http.MethodGet)
	}
	m, err := newHTTPMetrics(meter)
	if err != nil {
		r.logger.Error("failed to create http metrics, continuing without them", zap.Error(err))
	}
	r.metrics = m

	r.mux.Use(r.loggingMiddleware, r.metricsMiddleware, r.rateLimitMiddleware)
	// mux skips Use middleware when no route matches
	r.mux.NotFoundHandler = r.unmatched(http.NotFoundHandler())
	r.mux.MethodNotAllowedHandler = r.unmatched(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}))

	for _, h := range handlers {
		h.RegisterRoutes(r.mux, logger)
	}
	r.root = r.withCORS(r.mux)
	return r
}

// unmatched wraps the fallback handlers in the same middleware chain as routes
func (r *Router) unmatched(h http.Handler) http.Handler {
	return r.loggingMiddleware(r.metricsMiddleware(r.rateLimitMiddleware(h)))
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.root.ServeHTTP(w, req)
}

func (r *Router) withCORS(next http.Handler) http.Handler {
	if r.corsOrigin == "" {
		return next
	}
	return cors.New(cors.Options{
		AllowedOrigins: []string{r.corsOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(next)
}

// CreateServer builds the HTTP server listening on addr
func (r *Router) CreateServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           r.root,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
}
