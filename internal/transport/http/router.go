// Package httptransport assembles the engine's HTTP surface. It is a thin
// layer: routing, shared middleware and operational endpoints. Business logic
// stays in the domain handlers it mounts.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"autoriza/internal/authorization/handler"
	"autoriza/pkg/platform/httputil"
	"autoriza/pkg/platform/middleware/requestmeta"
	"autoriza/pkg/platform/middleware/requesttime"
	"autoriza/pkg/platform/middleware/reviewerauth"
)

// NewRouter wires the public endpoints. The review route requires a reviewer
// token; everything else is orchestrator-facing and authenticated upstream.
func NewRouter(h *handler.Handler, validator reviewerauth.TokenValidator, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(requestmeta.Middleware)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h.Register(r, reviewerauth.RequireReviewer(validator, logger))

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
