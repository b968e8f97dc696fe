package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/web3-frozen/smartchef-pools/internal/metrics"
	"github.com/web3-frozen/smartchef-pools/internal/pools"
)

// PoolLister produces the enriched active pool list. *pools.Aggregator
// satisfies it.
type PoolLister interface {
	ActivePools(ctx context.Context) ([]pools.EnrichedPool, error)
}

// ActivePools serves the APR-annotated active pools. Upstream calls share a
// deadline of timeout.
func ActivePools(l PoolLister, timeout time.Duration, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		list, err := l.ActivePools(ctx)
		if err != nil {
			logger.Error("load active pools failed", "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"failed to load active pools"}`))
			return
		}
		if list == nil {
			list = []pools.EnrichedPool{}
		}
		metrics.PoolsServed.Set(float64(len(list)))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}

// NotFound answers every unrouted path or method.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "Not Found.", http.StatusNotFound)
	}
}
