package authorization

//go:generate mockgen -destination=mocks/mocks.go -package=mocks autoriza/internal/authorization/ports CaseStore,DossierStore,EventPublisher,NotificationTransport,IdentityDirectory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"autoriza/internal/authorization/identifier"
	"autoriza/internal/authorization/mocks"
	"autoriza/internal/authorization/models"
	"autoriza/internal/authorization/notification"
	"autoriza/internal/authorization/ports"
	"autoriza/internal/authorization/store"
	id "autoriza/pkg/domain"
	dErrors "autoriza/pkg/domain-errors"
	"autoriza/pkg/requestcontext"
)

var evalTime = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

type engineFixture struct {
	service  *Service
	cases    *store.InMemoryCaseStore
	dossiers *store.InMemoryDossierStore
	events   *capturingPublisher
}

type capturingPublisher struct {
	events []ports.DecisionEvent
	fail   bool
}

func (p *capturingPublisher) PublishDecision(_ context.Context, ev ports.DecisionEvent) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, ev)
	return nil
}

func newEngine(t *testing.T, opts ...Option) *engineFixture {
	t.Helper()

	f := &engineFixture{
		cases:    store.NewInMemoryCaseStore(),
		dossiers: store.NewInMemoryDossierStore(),
		events:   &capturingPublisher{},
	}
	generator, err := identifier.NewGenerator(identifier.NewInMemorySequence(), identifier.NewInMemoryRegistry())
	require.NoError(t, err)

	all := append([]Option{
		WithEventPublisher(f.events),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	f.service, err = NewService(f.cases, f.dossiers, generator, notification.NewSelector(nil), all...)
	require.NoError(t, err)
	return f
}

func fixedCtx() context.Context {
	return requestcontext.WithTime(context.Background(), evalTime)
}

func routineConsultation() models.AuthorizationRequest {
	return models.AuthorizationRequest{
		RequestID:             "GUIA-100",
		BeneficiaryID:         "BEN-100",
		ProviderID:            "PRE-100",
		RequestType:           models.RequestTypeConsultation,
		ProcedureCode:         "10101012",
		EstimatedValue:        id.CentsFromUnits(250),
		Urgency:               models.UrgencyRoutine,
		ClinicalJustification: "recurring headaches, neurological assessment",
		EnrollmentDate:        evalTime.AddDate(-2, 0, 0),
		EvaluationDate:        evalTime,
		NetworkStatus:         models.NetworkStatusInNetwork,
	}
}

func snapshotInput(inputID string, req models.AuthorizationRequest) Input {
	return Input{InputID: inputID, Snapshot: &req}
}

func TestEvaluateAndTransition_AutomaticApproval(t *testing.T) {
	f := newEngine(t)

	res, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", routineConsultation()))
	require.NoError(t, err)

	assert.Equal(t, models.StateApproved, res.State)
	assert.Equal(t, models.OutcomeApprovedAutomatic, res.Outcome)
	assert.Equal(t, "RN007_AUTO_APPROVE", res.AppliedRule)
	assert.Regexp(t, regexp.MustCompile(`^AUT-2025-\d{8}$`), res.AuthorizationNumber)
	require.NotNil(t, res.ValidUntil)
	assert.Equal(t, evalTime.AddDate(0, 0, 30), *res.ValidUntil)
	assert.NotEmpty(t, res.CorrelationID)

	require.Len(t, res.Directives, 2)
	assert.Equal(t, notification.ChannelApp, res.Directives[0].Channel)
	assert.Equal(t, notification.RecipientProvider, res.Directives[1].Kind)
	assert.Equal(t, notification.ChannelPortal, res.Directives[1].Channel)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, res.AuthorizationNumber, f.events.events[0].AuthorizationNumber)

	saved, err := f.cases.Load(context.Background(), res.CaseID)
	require.NoError(t, err)
	assert.NotNil(t, saved.EventPublishedAt)
	assert.Equal(t, 1, f.dossiers.Versions(res.CaseID))
}

func TestEvaluateAndTransition_AuditThenManualApproval(t *testing.T) {
	f := newEngine(t)

	req := routineConsultation()
	req.RequestType = models.RequestTypeSurgery
	req.ProcedureCode = "30732086"
	req.EstimatedValue = id.CentsFromUnits(45_000)
	req.Urgency = models.UrgencyHigh

	res, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", req))
	require.NoError(t, err)
	assert.Equal(t, models.StatePendingAudit, res.State)
	assert.Equal(t, models.OutcomePendingAudit, res.Outcome)
	assert.Empty(t, res.AuthorizationNumber, "number must not exist before the reviewer decides")
	assert.Empty(t, f.events.events, "pending entry is not a decided state")

	reviewCtx := requestcontext.WithTime(context.Background(), evalTime.Add(2*time.Hour))
	review, err := f.service.EvaluateAndTransition(reviewCtx, res.CaseID, Input{
		InputID: "review-1",
		Decision: &models.ReviewerDecision{
			Approve:       true,
			Justification: "protocol satisfied",
			ReviewerID:    "REV-1",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StateApproved, review.State)
	assert.Regexp(t, regexp.MustCompile(`^AUT-2025-\d{8}$`), review.AuthorizationNumber)

	saved, err := f.cases.Load(context.Background(), res.CaseID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalManual, saved.ApprovalType)
	require.Len(t, f.events.events, 1)

	// Two dossier versions: one on audit entry, one capturing the verdict.
	assert.Equal(t, 2, f.dossiers.Versions(res.CaseID))
	latest, err := f.dossiers.Latest(context.Background(), res.CaseID)
	require.NoError(t, err)
	require.NotNil(t, latest.Decision)
	assert.Equal(t, id.ReviewerID("REV-1"), latest.Decision.ReviewerID)
}

func TestEvaluateAndTransition_MissingJustificationDenial(t *testing.T) {
	f := newEngine(t)

	req := routineConsultation()
	req.RequestType = models.RequestTypeExam
	req.ClinicalJustification = "   "

	res, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", req))
	require.NoError(t, err)
	assert.Equal(t, models.StateDenied, res.State)
	assert.Equal(t, models.OutcomeDeniedMissingJustification, res.Outcome)
	assert.Empty(t, res.AuthorizationNumber)
	assert.NotEmpty(t, res.DenialReason)

	// Denials escalate the beneficiary to two channels; the provider gets
	// the portal directive on top.
	require.Len(t, res.Directives, 3)
	assert.Equal(t, notification.PriorityUrgent, res.Directives[0].Priority)
	assert.Equal(t, notification.RecipientProvider, res.Directives[2].Kind)

	latest, err := f.dossiers.Latest(context.Background(), res.CaseID)
	require.NoError(t, err)
	assert.False(t, latest.Complete)
}

func TestEvaluateAndTransition_WaitingPeriodDenial(t *testing.T) {
	f := newEngine(t)

	req := routineConsultation()
	req.RequestType = models.RequestTypeHospitalization
	req.EnrollmentDate = evalTime.AddDate(0, 0, -30)

	res, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", req))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDeniedWaitingPeriod, res.Outcome)
	assert.Equal(t, models.StateDenied, res.State)
}

func TestEvaluateAndTransition_EmergencyExemption(t *testing.T) {
	f := newEngine(t)

	req := routineConsultation()
	req.RequestType = models.RequestTypeHospitalization
	req.EnrollmentDate = evalTime.AddDate(0, 0, -30)
	req.Urgency = models.UrgencyEmergency

	res, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", req))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeApprovedEmergency, res.Outcome)
	require.NotNil(t, res.ValidUntil)
	assert.Equal(t, evalTime.AddDate(0, 0, 5), *res.ValidUntil, "emergency grants carry the short validity window")

	// Emergency severity escalates the beneficiary channels even on
	// approval; the provider portal directive follows.
	require.Len(t, res.Directives, 3)
}

func TestEvaluateAndTransition_OutOfNetworkPending(t *testing.T) {
	f := newEngine(t)

	req := routineConsultation()
	req.NetworkStatus = models.NetworkStatusOutOfNetwork

	res, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", req))
	require.NoError(t, err)
	assert.Equal(t, models.StatePendingNetworkApproval, res.State)
	assert.Equal(t, models.OutcomePendingNetworkApproval, res.Outcome)
}

func TestEvaluateAndTransition_DuplicateDeliveryIsIdempotent(t *testing.T) {
	f := newEngine(t)

	first, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", routineConsultation()))
	require.NoError(t, err)

	second, err := f.service.EvaluateAndTransition(fixedCtx(), first.CaseID, snapshotInput("in-1", routineConsultation()))
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.State, second.State)
	assert.Equal(t, first.AuthorizationNumber, second.AuthorizationNumber)
	assert.Empty(t, second.Directives, "replay emits no second notification directive")
	assert.Equal(t, 1, f.dossiers.Versions(first.CaseID), "replay compiles no second dossier")
	assert.Len(t, f.events.events, 1, "replay publishes no second event")
}

func TestEvaluateAndTransition_ReplayRepublishesAfterBrokerFailure(t *testing.T) {
	f := newEngine(t)
	f.events.fail = true

	first, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", routineConsultation()))
	require.NoError(t, err, "publish failure must not fail the transition")
	assert.Equal(t, models.StateApproved, first.State)

	saved, err := f.cases.Load(context.Background(), first.CaseID)
	require.NoError(t, err)
	assert.Nil(t, saved.EventPublishedAt)

	f.events.fail = false
	second, err := f.service.EvaluateAndTransition(fixedCtx(), first.CaseID, snapshotInput("in-1", routineConsultation()))
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	require.Len(t, f.events.events, 1)

	saved, err = f.cases.Load(context.Background(), first.CaseID)
	require.NoError(t, err)
	assert.NotNil(t, saved.EventPublishedAt)

	// A third replay must not publish again.
	_, err = f.service.EvaluateAndTransition(fixedCtx(), first.CaseID, snapshotInput("in-1", routineConsultation()))
	require.NoError(t, err)
	assert.Len(t, f.events.events, 1)
}

func TestEvaluateAndTransition_StaleDecisionAfterClose(t *testing.T) {
	f := newEngine(t)

	res, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", routineConsultation()))
	require.NoError(t, err)

	closed, err := f.service.EvaluateAndTransition(fixedCtx(), res.CaseID, Input{InputID: "close-1", Close: true})
	require.NoError(t, err)
	assert.Equal(t, models.StateClosed, closed.State)

	_, err = f.service.EvaluateAndTransition(fixedCtx(), res.CaseID, Input{
		InputID: "review-1",
		Decision: &models.ReviewerDecision{
			Approve:       false,
			Justification: "too late",
			ReviewerID:    "REV-9",
		},
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStaleDecision))

	saved, err := f.cases.Load(context.Background(), res.CaseID)
	require.NoError(t, err)
	assert.Equal(t, models.StateClosed, saved.State)
}

func TestEvaluateAndTransition_CloseBeforeDecisionRejected(t *testing.T) {
	f := newEngine(t)

	req := routineConsultation()
	req.EstimatedValue = id.CentsFromUnits(50_000)

	res, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", req))
	require.NoError(t, err)
	assert.Equal(t, models.StatePendingAudit, res.State)

	_, err = f.service.EvaluateAndTransition(fixedCtx(), res.CaseID, Input{InputID: "close-1", Close: true})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestEvaluateAndTransition_CorrelationIDPropagated(t *testing.T) {
	f := newEngine(t)

	ctx := requestcontext.WithCorrelationID(fixedCtx(), "upstream-corr-42")
	res, err := f.service.EvaluateAndTransition(ctx, id.CaseID{}, snapshotInput("in-1", routineConsultation()))
	require.NoError(t, err)
	assert.Equal(t, "upstream-corr-42", res.CorrelationID)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, "upstream-corr-42", f.events.events[0].CorrelationID)
}

func TestEvaluateAndTransition_MalformedSnapshotRejected(t *testing.T) {
	f := newEngine(t)

	req := routineConsultation()
	req.BeneficiaryID = ""

	_, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", req))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidRequest))
	assert.Empty(t, f.events.events)
}

func TestEvaluateAndTransition_InputContract(t *testing.T) {
	f := newEngine(t)

	t.Run("input id required", func(t *testing.T) {
		req := routineConsultation()
		_, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, Input{Snapshot: &req})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("exactly one input kind", func(t *testing.T) {
		req := routineConsultation()
		_, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, Input{
			InputID:  "in-1",
			Snapshot: &req,
			Close:    true,
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("review needs existing case", func(t *testing.T) {
		_, err := f.service.EvaluateAndTransition(fixedCtx(), id.NewCaseID(), Input{
			InputID:  "in-1",
			Decision: &models.ReviewerDecision{Approve: true, ReviewerID: "REV-1"},
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestEvaluateAndTransition_EnrichesFromDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := mocks.NewMockIdentityDirectory(ctrl)
	directory.EXPECT().
		EnrollmentDate(gomock.Any(), id.BeneficiaryID("BEN-100")).
		Return(evalTime.AddDate(-2, 0, 0), nil)
	directory.EXPECT().
		NetworkStatus(gomock.Any(), id.ProviderID("PRE-100")).
		Return(models.NetworkStatusInNetwork, nil)

	f := newEngine(t, WithIdentityDirectory(directory))

	req := routineConsultation()
	req.EnrollmentDate = time.Time{}
	req.NetworkStatus = ""

	res, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", req))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeApprovedAutomatic, res.Outcome)
}

func TestEvaluateAndTransition_DirectoryFailureIsInvalidRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := mocks.NewMockIdentityDirectory(ctrl)
	directory.EXPECT().
		EnrollmentDate(gomock.Any(), gomock.Any()).
		Return(time.Time{}, errors.New("directory timeout"))

	f := newEngine(t, WithIdentityDirectory(directory))

	req := routineConsultation()
	req.EnrollmentDate = time.Time{}

	_, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", req))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidRequest))
}

func TestEvaluateAndTransition_TransportDeliveryBestEffort(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := mocks.NewMockNotificationTransport(ctrl)
	transport.EXPECT().
		Send(gomock.Any(), "BEN-100", notification.RecipientBeneficiary, notification.ChannelApp, gomock.Any()).
		Return("", errors.New("push gateway down"))
	transport.EXPECT().
		Send(gomock.Any(), "PRE-100", notification.RecipientProvider, notification.ChannelPortal, gomock.Any()).
		Return("prot-1", nil)

	f := newEngine(t, WithNotificationTransport(transport))

	res, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", routineConsultation()))
	require.NoError(t, err, "send failure never fails the transition")
	require.Len(t, res.Directives, 2, "directives still reach the orchestrator")
}

func TestEvaluateAndTransition_ReviewerFromContext(t *testing.T) {
	f := newEngine(t)

	req := routineConsultation()
	req.EstimatedValue = id.CentsFromUnits(20_000)
	res, err := f.service.EvaluateAndTransition(fixedCtx(), id.CaseID{}, snapshotInput("in-1", req))
	require.NoError(t, err)
	require.Equal(t, models.StatePendingAudit, res.State)

	ctx := requestcontext.WithReviewerID(fixedCtx(), "REV-CTX")
	review, err := f.service.EvaluateAndTransition(ctx, res.CaseID, Input{
		InputID:  "review-1",
		Decision: &models.ReviewerDecision{Approve: false, Justification: "insufficient evidence"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StateDenied, review.State)

	saved, err := f.cases.Load(context.Background(), res.CaseID)
	require.NoError(t, err)
	require.NotNil(t, saved.AuditDecision)
	assert.Equal(t, id.ReviewerID("REV-CTX"), saved.AuditDecision.ReviewerID)
}

func TestNewService_RequiresCollaborators(t *testing.T) {
	generator, err := identifier.NewGenerator(identifier.NewInMemorySequence(), identifier.NewInMemoryRegistry())
	require.NoError(t, err)
	selector := notification.NewSelector(nil)
	cases := store.NewInMemoryCaseStore()
	dossiers := store.NewInMemoryDossierStore()

	_, err = NewService(nil, dossiers, generator, selector)
	assert.Error(t, err)
	_, err = NewService(cases, nil, generator, selector)
	assert.Error(t, err)
	_, err = NewService(cases, dossiers, nil, selector)
	assert.Error(t, err)
	_, err = NewService(cases, dossiers, generator, nil)
	assert.Error(t, err)
}
