package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"autoriza/internal/authorization"
	"autoriza/internal/authorization/handler/mocks"
	enginemocks "autoriza/internal/authorization/mocks"
	"autoriza/internal/authorization/models"
	"autoriza/internal/authorization/notification"
	id "autoriza/pkg/domain"
	dErrors "autoriza/pkg/domain-errors"
	"autoriza/pkg/platform/sentinel"
	"autoriza/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler-mocks.go -package=mocks Service
type AuthorizationHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *AuthorizationHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestAuthorizationHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthorizationHandlerSuite))
}

func newTestHandler(t *testing.T) (*chi.Mux, *mocks.MockService, *enginemocks.MockCaseStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	mockCases := enginemocks.NewMockCaseStore(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := New(mockService, mockCases, logger)
	r := chi.NewRouter()
	handler.Register(r)
	return r, mockService, mockCases
}

func (s *AuthorizationHandlerSuite) TestHandleEvaluate() {
	router, mockService, _ := newTestHandler(s.T())
	caseID := id.NewCaseID()
	validFrom := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	validUntil := validFrom.AddDate(0, 0, 30)
	mockService.EXPECT().EvaluateAndTransition(gomock.Any(), id.CaseID{}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ id.CaseID, input authorization.Input) (*authorization.Result, error) {
			require.NotNil(s.T(), input.Snapshot)
			assert.Equal(s.T(), "delivery-1", input.InputID)
			assert.Equal(s.T(), id.RequestID("REQ-100"), input.Snapshot.RequestID)
			assert.Equal(s.T(), models.RequestTypeConsultation, input.Snapshot.RequestType)
			assert.Equal(s.T(), id.Cents(25000), input.Snapshot.EstimatedValue)
			return &authorization.Result{
				CaseID:              caseID,
				CorrelationID:       "corr-1",
				State:               models.StateApproved,
				Outcome:             models.OutcomeApprovedAutomatic,
				AppliedRule:         "RN007",
				AuthorizationNumber: "AUT-2025-00000001",
				ValidFrom:           &validFrom,
				ValidUntil:          &validUntil,
				Directives: []notification.Directive{{
					Recipient: "BEN-1",
					Kind:      notification.RecipientBeneficiary,
					Channel:   notification.ChannelApp,
					Priority:  notification.PriorityNormal,
				}, {
					Recipient: "PRV-1",
					Kind:      notification.RecipientProvider,
					Channel:   notification.ChannelPortal,
					Priority:  notification.PriorityNormal,
				}},
			}, nil
		})

	body, err := json.Marshal(map[string]any{
		"input_id":              "delivery-1",
		"request_id":            "REQ-100",
		"beneficiary_id":        "BEN-1",
		"provider_id":           "PRV-1",
		"request_type":          "CONSULTATION",
		"procedure_code":        "10101012",
		"estimated_value_cents": 25000,
		"urgency":               "ROUTINE",
		"enrollment_date":       "2024-01-01T00:00:00Z",
		"network_status":        "IN_NETWORK",
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/authorizations/evaluate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), caseID.String(), resp["case_id"])
	assert.Equal(s.T(), "APPROVED", resp["state"])
	assert.Equal(s.T(), "APPROVED_AUTOMATIC", resp["outcome"])
	assert.Equal(s.T(), "AUT-2025-00000001", resp["authorization_number"])
	notifications := resp["notifications"].([]any)
	require.Len(s.T(), notifications, 2)
	directive := notifications[0].(map[string]any)
	assert.Equal(s.T(), "BENEFICIARY", directive["recipient_kind"])
	assert.Equal(s.T(), "APP", directive["channel"])
	assert.Equal(s.T(), "NORMAL", directive["priority"])
	provider := notifications[1].(map[string]any)
	assert.Equal(s.T(), "PRV-1", provider["recipient"])
	assert.Equal(s.T(), "PROVIDER", provider["recipient_kind"])
	assert.Equal(s.T(), "PORTAL", provider["channel"])
}

func (s *AuthorizationHandlerSuite) TestHandleEvaluate_MissingInputID() {
	router, _, _ := newTestHandler(s.T())

	body := []byte(`{"request_id":"REQ-100","beneficiary_id":"BEN-1","provider_id":"PRV-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/authorizations/evaluate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "bad_request", resp["error"])
}

func (s *AuthorizationHandlerSuite) TestHandleEvaluate_MalformedBody() {
	router, _, _ := newTestHandler(s.T())

	req := httptest.NewRequest(http.MethodPost, "/authorizations/evaluate", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuthorizationHandlerSuite) TestHandleReview() {
	router, mockService, _ := newTestHandler(s.T())
	caseID := id.NewCaseID()
	mockService.EXPECT().EvaluateAndTransition(gomock.Any(), caseID, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ id.CaseID, input authorization.Input) (*authorization.Result, error) {
			require.NotNil(s.T(), input.Decision)
			assert.True(s.T(), input.Decision.Approve)
			assert.Equal(s.T(), id.ReviewerID("REV-1"), requestcontext.ReviewerID(ctx))
			return &authorization.Result{
				CaseID: caseID,
				State:  models.StateApproved,
			}, nil
		})

	body := []byte(`{"input_id":"delivery-2","approve":true}`)
	req := httptest.NewRequest(http.MethodPost, "/authorizations/"+caseID.String()+"/review", bytes.NewReader(body))
	req = req.WithContext(requestcontext.WithReviewerID(req.Context(), "REV-1"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
}

func (s *AuthorizationHandlerSuite) TestHandleReview_Unauthenticated() {
	router, _, _ := newTestHandler(s.T())

	body := []byte(`{"input_id":"delivery-2","approve":true}`)
	req := httptest.NewRequest(http.MethodPost, "/authorizations/"+id.NewCaseID().String()+"/review", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *AuthorizationHandlerSuite) TestHandleReview_DenialRequiresJustification() {
	router, _, _ := newTestHandler(s.T())

	body := []byte(`{"input_id":"delivery-2","approve":false}`)
	req := httptest.NewRequest(http.MethodPost, "/authorizations/"+id.NewCaseID().String()+"/review", bytes.NewReader(body))
	req = req.WithContext(requestcontext.WithReviewerID(req.Context(), "REV-1"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuthorizationHandlerSuite) TestHandleReview_MalformedCaseID() {
	router, _, _ := newTestHandler(s.T())

	body := []byte(`{"input_id":"delivery-2","approve":true}`)
	req := httptest.NewRequest(http.MethodPost, "/authorizations/not-a-uuid/review", bytes.NewReader(body))
	req = req.WithContext(requestcontext.WithReviewerID(req.Context(), "REV-1"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuthorizationHandlerSuite) TestHandleClose() {
	router, mockService, _ := newTestHandler(s.T())
	caseID := id.NewCaseID()
	mockService.EXPECT().EvaluateAndTransition(gomock.Any(), caseID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ id.CaseID, input authorization.Input) (*authorization.Result, error) {
			assert.True(s.T(), input.Close)
			return &authorization.Result{CaseID: caseID, State: models.StateClosed}, nil
		})

	body := []byte(`{"input_id":"delivery-3"}`)
	req := httptest.NewRequest(http.MethodPost, "/authorizations/"+caseID.String()+"/close", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "CLOSED", resp["state"])
}

func (s *AuthorizationHandlerSuite) TestHandleClose_ConflictPassedThrough() {
	router, mockService, _ := newTestHandler(s.T())
	caseID := id.NewCaseID()
	mockService.EXPECT().EvaluateAndTransition(gomock.Any(), caseID, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "case is not in a terminal state"))

	body := []byte(`{"input_id":"delivery-3"}`)
	req := httptest.NewRequest(http.MethodPost, "/authorizations/"+caseID.String()+"/close", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusConflict, w.Code)
}

func (s *AuthorizationHandlerSuite) TestHandleGet() {
	router, _, mockCases := newTestHandler(s.T())
	caseID := id.NewCaseID()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	mockCases.EXPECT().Load(gomock.Any(), caseID).Return(models.AuthorizationCase{
		ID:            caseID,
		CorrelationID: "corr-9",
		Request: models.AuthorizationRequest{
			RequestID:     "REQ-55",
			BeneficiaryID: "BEN-55",
			ProviderID:    "PRV-55",
		},
		State:        models.StatePendingAudit,
		Outcome:      models.OutcomePendingAudit,
		AppliedRule:  "RN006",
		ApprovalType: models.ApprovalNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/authorizations/"+caseID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), caseID.String(), resp["case_id"])
	assert.Equal(s.T(), "REQ-55", resp["request_id"])
	assert.Equal(s.T(), "PENDING_AUDIT", resp["state"])
	assert.Equal(s.T(), "RN006", resp["applied_rule"])
}

func (s *AuthorizationHandlerSuite) TestHandleGet_NotFound() {
	router, _, mockCases := newTestHandler(s.T())
	caseID := id.NewCaseID()
	mockCases.EXPECT().Load(gomock.Any(), caseID).Return(models.AuthorizationCase{}, sentinel.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/authorizations/"+caseID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "not_found", resp["error"])
}

func (s *AuthorizationHandlerSuite) TestRegister_ReviewMiddlewareScopedToReviewRoute() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	mockCases := enginemocks.NewMockCaseStore(ctrl)
	h := New(mockService, mockCases, slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := chi.NewRouter()
	h.Register(router, func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	})

	caseID := id.NewCaseID()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/authorizations/"+caseID.String()+"/review", bytes.NewReader([]byte(`{}`))))
	assert.Equal(s.T(), http.StatusTeapot, w.Code, "review route runs the injected middleware")

	mockService.EXPECT().EvaluateAndTransition(gomock.Any(), caseID, gomock.Any()).
		Return(&authorization.Result{CaseID: caseID, State: models.StateClosed}, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/authorizations/"+caseID.String()+"/close", bytes.NewReader([]byte(`{"input_id":"close-1"}`))))
	assert.Equal(s.T(), http.StatusOK, w.Code, "other routes stay outside the middleware")
}
