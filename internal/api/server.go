package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/processor"
	"github.com/nguyentantai21042004/recap-flow/internal/store"
)

// uploadMemory is how much of a multipart body is kept in memory before spilling to temp files.
const uploadMemory = 32 << 20

type handler struct {
	cfg       config.ServerConfig
	processor processor.Processor
	store     store.Repository
	logger    logger.Logger
}

// NewRouter builds the HTTP surface: POST /process, GET /sessions/{id}, GET /health, GET /metrics.
// st may be nil, in which case session lookups report 404.
func NewRouter(cfg config.ServerConfig, proc processor.Processor, st store.Repository, log logger.Logger) http.Handler {
	h := &handler{cfg: cfg, processor: proc, store: st, logger: log}

	r := chi.NewRouter()
	r.Use(Recoverer(log))
	r.Use(RequestID)

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.RequestsPerMin > 0 {
			r.Use(RateLimit(cfg.RequestsPerMin, time.Minute))
		}
		r.Post("/process", h.process)
		r.Get("/sessions/{id}", h.session)
	})

	return r
}

// NewServer wraps the router in an http.Server listening on cfg.Addr.
func NewServer(cfg config.ServerConfig, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
