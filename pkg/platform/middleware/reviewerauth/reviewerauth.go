// Package reviewerauth guards reviewer-only endpoints with bearer tokens.
package reviewerauth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "autoriza/pkg/domain"
	"autoriza/pkg/requestcontext"
)

// TokenValidator validates a reviewer bearer token and extracts its subject.
type TokenValidator interface {
	ExtractReviewerID(tokenString string) (id.ReviewerID, error)
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireReviewer rejects requests without a valid reviewer token and puts
// the reviewer id on the request context.
func RequireReviewer(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized review access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			reviewerID, err := validator.ExtractReviewerID(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized review access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithReviewerID(ctx, reviewerID)))
		})
	}
}
