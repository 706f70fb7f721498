// Package requestmeta propagates request and correlation identifiers.
package requestmeta

import (
	"net/http"

	"github.com/google/uuid"

	"autoriza/pkg/requestcontext"
)

const (
	// HeaderRequestID carries the per-request id, minted here when absent.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID carries the orchestrator's correlation id. Never
	// minted here: the engine mints one per case, not per request.
	HeaderCorrelationID = "X-Correlation-ID"
)

// Middleware reads the request and correlation headers into the context and
// echoes the request id back on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		if correlationID := r.Header.Get(HeaderCorrelationID); correlationID != "" {
			ctx = requestcontext.WithCorrelationID(ctx, correlationID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
