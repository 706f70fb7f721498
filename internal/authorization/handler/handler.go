package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"autoriza/internal/authorization"
	"autoriza/internal/authorization/ports"
	id "autoriza/pkg/domain"
	dErrors "autoriza/pkg/domain-errors"
	"autoriza/pkg/platform/httputil"
	"autoriza/pkg/platform/sentinel"
	"autoriza/pkg/requestcontext"
)

// Service defines the interface for authorization engine operations.
type Service interface {
	EvaluateAndTransition(ctx context.Context, caseID id.CaseID, input authorization.Input) (*authorization.Result, error)
}

// Handler wires authorization endpoints to the engine.
type Handler struct {
	service Service
	cases   ports.CaseStore
	logger  *slog.Logger
}

// New constructs an authorization handler with its dependencies.
func New(service Service, cases ports.CaseStore, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		cases:   cases,
		logger:  logger,
	}
}

// Register mounts authorization endpoints on the router. The review route
// sits behind the given middlewares, reviewer authentication in production.
func (h *Handler) Register(r chi.Router, reviewMiddlewares ...func(http.Handler) http.Handler) {
	r.Post("/authorizations/evaluate", h.HandleEvaluate)
	r.With(reviewMiddlewares...).Post("/authorizations/{caseID}/review", h.HandleReview)
	r.Post("/authorizations/{caseID}/close", h.HandleClose)
	r.Get("/authorizations/{caseID}", h.HandleGet)
}

// HandleEvaluate handles POST /authorizations/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[*EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.EvaluateAndTransition(ctx, req.ParsedCaseID(), req.ParsedInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "authorization evaluation failed",
			"request_id", requestID,
			"authorization_request_id", req.RequestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "authorization evaluated",
		"request_id", requestID,
		"case_id", result.CaseID.String(),
		"state", result.State.String(),
		"outcome", result.Outcome.String(),
		"replayed", result.Replayed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleReview handles POST /authorizations/{caseID}/review requests.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	// Require an authenticated reviewer
	reviewerID := requestcontext.ReviewerID(ctx)
	if reviewerID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "reviewer authentication required"))
		return
	}

	caseID, ok := h.caseIDParam(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[*ReviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.EvaluateAndTransition(ctx, caseID, req.ParsedInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "reviewer decision failed",
			"request_id", requestID,
			"case_id", caseID.String(),
			"reviewer_id", reviewerID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "reviewer decision applied",
		"request_id", requestID,
		"case_id", caseID.String(),
		"reviewer_id", reviewerID.String(),
		"state", result.State.String(),
		"replayed", result.Replayed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleClose handles POST /authorizations/{caseID}/close requests.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	caseID, ok := h.caseIDParam(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[*CloseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.EvaluateAndTransition(ctx, caseID, req.ParsedInput())
	if err != nil {
		h.logger.ErrorContext(ctx, "case close failed",
			"request_id", requestID,
			"case_id", caseID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "case closed",
		"request_id", requestID,
		"case_id", caseID.String(),
		"replayed", result.Replayed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleGet handles GET /authorizations/{caseID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caseID, ok := h.caseIDParam(w, r)
	if !ok {
		return
	}

	c, err := h.cases.Load(ctx, caseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "authorization case not found"))
			return
		}
		h.logger.ErrorContext(ctx, "case load failed",
			"request_id", requestID,
			"case_id", caseID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromCase(c))
}

func (h *Handler) caseIDParam(w http.ResponseWriter, r *http.Request) (id.CaseID, bool) {
	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed case id"))
		return id.CaseID{}, false
	}
	return caseID, true
}
