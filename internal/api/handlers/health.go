package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BreakerReporter exposes circuit breaker states by upstream name.
type BreakerReporter interface {
	States() map[string]string
}

// CachePinger checks the cache backend is reachable.
type CachePinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store     SnapshotStore
	breakers  BreakerReporter
	cache     CachePinger
	cacheKind string
}

func NewHealthHandler(store SnapshotStore, breakers BreakerReporter, cache CachePinger, cacheKind string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		breakers:  breakers,
		cache:     cache,
		cacheKind: cacheKind,
	}
}

// GetHealth always returns 200 while the server runs. "data" is "loading" until the
// first snapshot is built and "cache_status" is "unreachable" when the cache ping fails.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	resp := gin.H{
		"status":           "ok",
		"service":          "td-boost",
		"timestamp":        time.Now().UTC(),
		"cache":            h.cacheKind,
		"circuit_breakers": h.breakers.States(),
		"cache_status":     "ok",
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		err := h.cache.Ping(ctx)
		cancel()
		if err != nil {
			c.Error(err)
			resp["cache_status"] = "unreachable"
		}
	}

	if snap, ok := h.store.Current(); ok {
		resp["data"] = "loaded"
		resp["snapshot"] = snap.Summary()
	} else {
		resp["data"] = "loading"
	}

	c.JSON(http.StatusOK, resp)
}
