package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/web3-frozen/smartchef-pools/internal/middleware"
)

type RouterConfig struct {
	Pools          PoolLister
	Chain          BlockNumberer
	AllowedOrigins []string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter wires the public endpoint and the operational routes. Anything
// else is a plain-text 404.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowedOrigins, cfg.Logger))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", Health())
	r.Get("/readyz", Ready(cfg.Chain))

	r.Get("/active", ActivePools(cfg.Pools, cfg.RequestTimeout, cfg.Logger))

	r.NotFound(NotFound())
	r.MethodNotAllowed(NotFound())
	return r
}
