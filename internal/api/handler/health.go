package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Pinger is a dependency that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness plus the reachability of each dependency.
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler. A nil or empty checks map makes
// it a plain liveness probe.
func NewHealthHandler(checks map[string]Pinger, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{checks: checks, timeout: timeout}
}

// Health handles GET /health. Any failing check turns the response into 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if len(h.checks) == 0 {
		JSON(w, http.StatusOK, HealthResponse{Status: "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]string, len(h.checks))
		healthy = true
	)

	var g errgroup.Group
	for name, p := range h.checks {
		g.Go(func() error {
			status := "ok"
			if err := p.Ping(ctx); err != nil {
				status = err.Error()
			}
			mu.Lock()
			defer mu.Unlock()
			results[name] = status
			if status != "ok" {
				healthy = false
			}
			return nil
		})
	}
	_ = g.Wait()

	if !healthy {
		JSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Checks: results})
		return
	}
	JSON(w, http.StatusOK, HealthResponse{Status: "ok", Checks: results})
}
