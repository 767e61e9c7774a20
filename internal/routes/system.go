package routes

import (
	"net/http"

	"github.com/dukerupert/vortex/internal/handler"
	"github.com/dukerupert/vortex/internal/router"
)

// RegisterSystemRoutes registers health and metrics endpoints.
func RegisterSystemRoutes(r *router.Router, deps SystemDeps) {
	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.Ready != nil {
			if err := deps.Ready(); err != nil {
				handler.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"error":  err.Error(),
				})
				return
			}
		}
		handler.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Metrics endpoint (should be protected in production via firewall)
	if deps.Metrics != nil {
		r.Get("/metrics", deps.Metrics.ServeHTTP)
	}
}
