package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// ReadinessTimeout bounds every dependency check behind /readyz
const ReadinessTimeout = 2 * time.Second

const (
	healthStatusOK          = "ok"
	healthStatusUnavailable = "unavailable"
)

// DependencyCheck is one dependency the engine needs before taking traffic.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthResponse is the body of /healthz and /readyz. Checks maps dependency
// name to its status and is omitted when none are configured.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Description Returns OK if the process is serving
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	}
}

// HandleReadyz runs every dependency check concurrently and reports 503 if any fails.
// With no dependencies (memory store, no redis) the engine is always ready.
// @Summary Readiness check
// @Description Pings the reward store and jackpot cache
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(deps ...DependencyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(deps) == 0 {
			respondJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), ReadinessTimeout)
		defer cancel()

		errs := make([]error, len(deps))
		var wg sync.WaitGroup
		for i, p := range deps {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = p.Check(ctx)
			}()
		}
		wg.Wait()

		resp := HealthResponse{Status: healthStatusOK, Checks: make(map[string]string, len(deps))}
		code := http.StatusOK
		for i, p := range deps {
			if errs[i] != nil {
				logger.FromContext(r.Context()).Error("Readiness check failed", "dependency", p.Name, "error", errs[i])
				resp.Checks[p.Name] = healthStatusUnavailable
				resp.Status = healthStatusUnavailable
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[p.Name] = healthStatusOK
		}
		respondJSON(w, code, resp)
	}
}
