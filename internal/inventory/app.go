package inventory

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Inventory/pkg/kit"
)

const (
	itemsPath    = "/api/items"
	readyTimeout = 1 * time.Second
	limitWindow  = time.Minute
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// Workers bounds concurrently served API requests; 0 disables the pool.
	Workers        int
	Backlog        int
	BacklogTimeout time.Duration

	// MutationsPerMinute limits POST /api/items per client IP; 0 disables it.
	MutationsPerMinute int
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)
	setupRoutes(r, s, deps)

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(kit.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.RoutePattern))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func setupRoutes(r *chi.Mux, s *Server, deps HTTPDeps) {
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyz)

	r.Group(func(ar chi.Router) {
		if deps.Workers > 0 {
			ar.Use(kit.WorkerPool(deps.Workers, deps.Backlog, deps.BacklogTimeout))
		}

		ar.Get(itemsPath, s.list)

		post := ar
		if deps.MutationsPerMinute > 0 {
			post = ar.With(kit.NewIPRateLimiter(deps.MutationsPerMinute, limitWindow).Middleware)
		}
		post.Post(itemsPath, s.mutate)

		if s.Assets != nil {
			ar.Get("/", s.Assets.File(indexFile))
			ar.Get("/"+indexFile, s.Assets.File(indexFile))
			ar.Get("/"+styleFile, s.Assets.File(styleFile))
		}
	})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
}
