package testutil

import (
	"net/http"
	"time"

	id "autoriza/pkg/domain"
	"autoriza/pkg/requestcontext"
)

// WithReviewer adds an authenticated reviewer id to the request context.
// This simulates what the auth middleware would do for reviewer requests.
func WithReviewer(req *http.Request, reviewerID string) *http.Request {
	parsed, err := id.ParseReviewerID(reviewerID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithReviewerID(req.Context(), parsed))
}

// WithCorrelation adds a correlation id to the request context, as the
// correlation middleware would for an X-Correlation-ID header.
func WithCorrelation(req *http.Request, correlationID string) *http.Request {
	return req.WithContext(requestcontext.WithCorrelationID(req.Context(), correlationID))
}

// WithFixedTime pins the request-scoped clock, as the request-time middleware
// would at ingress.
func WithFixedTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
