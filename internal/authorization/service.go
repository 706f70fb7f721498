package authorization

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"autoriza/internal/audit"
	"autoriza/internal/authorization/dossier"
	"autoriza/internal/authorization/identifier"
	"autoriza/internal/authorization/lifecycle"
	"autoriza/internal/authorization/metrics"
	"autoriza/internal/authorization/models"
	"autoriza/internal/authorization/notification"
	"autoriza/internal/authorization/policy"
	"autoriza/internal/authorization/ports"
	id "autoriza/pkg/domain"
	dErrors "autoriza/pkg/domain-errors"
	"autoriza/pkg/platform/sentinel"
	"autoriza/pkg/requestcontext"
)

// Input is one orchestrator activation: exactly one of Snapshot, Decision or
// Close, plus the delivery id the orchestrator retries with.
type Input struct {
	// InputID identifies this delivery. Re-delivering the same id replays the
	// recorded transition without new side effects.
	InputID string

	Snapshot *models.AuthorizationRequest
	Decision *models.ReviewerDecision
	Close    bool

	// Evidence rides along with a snapshot for dossier compilation.
	Evidence dossier.Evidence
}

// Validate enforces the one-of contract.
func (in Input) Validate() error {
	if in.InputID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "input id is required")
	}
	set := 0
	if in.Snapshot != nil {
		set++
	}
	if in.Decision != nil {
		set++
	}
	if in.Close {
		set++
	}
	if set != 1 {
		return dErrors.New(dErrors.CodeBadRequest,
			"exactly one of request snapshot, reviewer decision or close is required")
	}
	return nil
}

// Result is the output bag the orchestrator consumes.
type Result struct {
	CaseID              id.CaseID
	CorrelationID       string
	State               models.State
	Outcome             models.RoutingOutcome
	AppliedRule         string
	AuthorizationNumber string
	ValidFrom           *time.Time
	ValidUntil          *time.Time
	DenialReason        string
	Replayed            bool
	Directives          []notification.Directive
}

// Service is the authorization engine. It evaluates routing rules, drives the
// case lifecycle and fans out number issuance, dossier compilation and
// channel selection around a single case save.
type Service struct {
	cases     ports.CaseStore
	dossiers  ports.DossierStore
	generator *identifier.Generator
	selector  *notification.Selector
	publisher ports.EventPublisher
	transport ports.NotificationTransport
	directory ports.IdentityDirectory
	recorder  *audit.Recorder
	metrics   *metrics.Metrics
	logger    *slog.Logger
	policy    policy.Config
}

// Option configures the Service.
type Option func(*Service)

// WithEventPublisher wires the durable decision-event stream.
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithNotificationTransport wires best-effort direct delivery alongside the
// returned directives.
func WithNotificationTransport(t ports.NotificationTransport) Option {
	return func(s *Service) { s.transport = t }
}

// WithIdentityDirectory wires snapshot enrichment lookups.
func WithIdentityDirectory(d ports.IdentityDirectory) Option {
	return func(s *Service) { s.directory = d }
}

// WithAuditRecorder wires the transition trail.
func WithAuditRecorder(r *audit.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithMetrics wires the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithPolicy overrides the default routing policy.
func WithPolicy(cfg policy.Config) Option {
	return func(s *Service) { s.policy = cfg }
}

// NewService constructs the engine. Stores, generator and selector are
// required; everything else is optional.
func NewService(cases ports.CaseStore, dossiers ports.DossierStore, generator *identifier.Generator, selector *notification.Selector, opts ...Option) (*Service, error) {
	if cases == nil {
		return nil, fmt.Errorf("case store is required")
	}
	if dossiers == nil {
		return nil, fmt.Errorf("dossier store is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("identifier generator is required")
	}
	if selector == nil {
		return nil, fmt.Errorf("channel selector is required")
	}

	s := &Service{
		cases:     cases,
		dossiers:  dossiers,
		generator: generator,
		selector:  selector,
		logger:    slog.Default(),
		policy:    policy.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.policy.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// EvaluateAndTransition is the engine's single operation. A request snapshot
// starts or replays the first transition, a reviewer decision resolves a
// pending case, close retires a decided one.
func (s *Service) EvaluateAndTransition(ctx context.Context, caseID id.CaseID, input Input) (*Result, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveEvaluateLatency(time.Since(start)) }()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	switch {
	case input.Snapshot != nil:
		return s.applySnapshot(ctx, caseID, input)
	case input.Decision != nil:
		return s.applyReview(ctx, caseID, input)
	default:
		return s.applyClose(ctx, caseID, input)
	}
}

func (s *Service) applySnapshot(ctx context.Context, caseID id.CaseID, input Input) (*Result, error) {
	now := requestcontext.Now(ctx)

	c, err := s.loadOrCreate(ctx, caseID, *input.Snapshot, now)
	if err != nil {
		return nil, err
	}

	ev, err := Evaluate(c.Request, s.policy)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementOutcome(ev.Outcome.String(), ev.RuleCode)

	tr, err := lifecycle.ApplyOutcome(c, ev, input.InputID, now)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "routing outcome applied",
		"case_id", tr.Case.ID.String(),
		"outcome", ev.Outcome.String(),
		"rule", ev.RuleCode,
		"replayed", tr.Replayed,
	)
	return s.finish(ctx, tr, input.Evidence, audit.ActionOutcomeApplied, now)
}

func (s *Service) applyReview(ctx context.Context, caseID id.CaseID, input Input) (*Result, error) {
	now := requestcontext.Now(ctx)

	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}

	decision := *input.Decision
	if decision.ReviewerID == "" {
		decision.ReviewerID = requestcontext.ReviewerID(ctx)
	}

	tr, err := lifecycle.ApplyReview(c, decision, input.InputID, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeStaleDecision) {
			s.logger.WarnContext(ctx, "stale reviewer decision dropped",
				"case_id", caseID.String(),
				"state", c.State.String(),
				"reviewer_id", decision.ReviewerID.String(),
			)
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "reviewer decision applied",
		"case_id", tr.Case.ID.String(),
		"approve", decision.Approve,
		"reviewer_id", decision.ReviewerID.String(),
		"replayed", tr.Replayed,
	)
	return s.finish(ctx, tr, input.Evidence, audit.ActionReviewApplied, now)
}

func (s *Service) applyClose(ctx context.Context, caseID id.CaseID, input Input) (*Result, error) {
	now := requestcontext.Now(ctx)

	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}

	tr, err := lifecycle.Close(c, input.InputID, now)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, tr, dossier.Evidence{}, audit.ActionCaseClosed, now)
}

// finish carries out the transition's effects, persists the case and builds
// the result. Save-then-publish: a publish failure leaves the saved case
// marked unpublished so a replay re-publishes exactly once.
func (s *Service) finish(ctx context.Context, tr lifecycle.Transition, ev dossier.Evidence, action audit.Action, now time.Time) (*Result, error) {
	result := &Result{Replayed: tr.Replayed}

	if tr.Replayed {
		s.record(ctx, tr.Case, audit.ActionReplayDetected, "", now)
	} else {
		if tr.IssueNumber {
			grant, err := s.generator.Issue(ctx, tr.Case.ApprovalType, now)
			if err != nil {
				return nil, err
			}
			tr.ApplyGrant(grant.Number, grant.ValidFrom, grant.ValidUntil)
		}

		if tr.CompileDossier {
			d := dossier.Compile(tr.Case, ev, now)
			if err := s.dossiers.Save(ctx, d); err != nil {
				return nil, fmt.Errorf("save dossier: %w", err)
			}
		}

		if tr.Notify {
			severity := notification.SeverityFor(tr.Case.Request.Urgency)
			result.Directives = s.selector.Select(ctx, tr.Case, severity)
			s.deliver(ctx, tr.Case, result.Directives)
		}

		if err := s.cases.Save(ctx, tr.Case); err != nil {
			return nil, fmt.Errorf("save case: %w", err)
		}
		s.metrics.IncrementTransition(tr.Case.State.String(), false)
		s.record(ctx, tr.Case, action, "", now)
	}

	if tr.PublishEvent {
		s.publish(ctx, &tr, now)
	}

	c := tr.Case
	result.CaseID = c.ID
	result.CorrelationID = c.CorrelationID
	result.State = c.State
	result.Outcome = c.Outcome
	result.AppliedRule = c.AppliedRule
	result.AuthorizationNumber = c.AuthorizationNumber
	result.ValidFrom = c.ValidFrom
	result.ValidUntil = c.ValidUntil
	result.DenialReason = c.DenialReason
	return result, nil
}

// publish emits the decided-state event and, on success, persists the publish
// marker. Failure is logged, not returned: the case is already saved and the
// orchestrator's replay re-publishes.
func (s *Service) publish(ctx context.Context, tr *lifecycle.Transition, now time.Time) {
	if s.publisher == nil {
		return
	}
	c := tr.Case
	err := s.publisher.PublishDecision(ctx, ports.DecisionEvent{
		CaseID:              c.ID,
		CorrelationID:       c.CorrelationID,
		RequestID:           c.Request.RequestID,
		BeneficiaryID:       c.Request.BeneficiaryID,
		State:               c.State,
		Outcome:             c.Outcome,
		AppliedRule:         c.AppliedRule,
		AuthorizationNumber: c.AuthorizationNumber,
		DenialReason:        c.DenialReason,
		OccurredAt:          now,
	})
	s.metrics.IncrementEventPublish(err)
	if err != nil {
		s.logger.ErrorContext(ctx, "decision event publish failed",
			"case_id", c.ID.String(),
			"error", err,
		)
		return
	}

	tr.MarkEventPublished(now)
	if err := s.cases.Save(ctx, tr.Case); err != nil {
		s.logger.ErrorContext(ctx, "publish marker save failed",
			"case_id", c.ID.String(),
			"error", err,
		)
		return
	}
	s.record(ctx, tr.Case, audit.ActionEventPublished, "", now)
}

// deliver pushes directives through the transport when one is wired. Fire
// and forget: a failed send is logged and the directive still reaches the
// orchestrator in the result.
func (s *Service) deliver(ctx context.Context, c models.AuthorizationCase, directives []notification.Directive) {
	if s.transport == nil || len(directives) == 0 {
		return
	}
	fields := map[string]string{
		"case_id":              c.ID.String(),
		"state":                c.State.String(),
		"outcome":              c.Outcome.String(),
		"authorization_number": c.AuthorizationNumber,
		"denial_reason":        c.DenialReason,
	}
	if c.ValidFrom != nil {
		fields["valid_from"] = c.ValidFrom.Format(time.RFC3339)
	}
	if c.ValidUntil != nil {
		fields["valid_until"] = c.ValidUntil.Format(time.RFC3339)
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		s.logger.ErrorContext(ctx, "notification payload marshal failed", "error", err)
		return
	}
	for _, d := range directives {
		deliveryID, err := s.transport.Send(ctx, d.Recipient, d.Kind, d.Channel, payload)
		if err != nil {
			s.logger.WarnContext(ctx, "notification send failed",
				"case_id", c.ID.String(),
				"recipient_kind", string(d.Kind),
				"channel", string(d.Channel),
				"error", err,
			)
			continue
		}
		s.logger.InfoContext(ctx, "notification sent",
			"case_id", c.ID.String(),
			"recipient_kind", string(d.Kind),
			"channel", string(d.Channel),
			"delivery_id", deliveryID,
		)
	}
}

func (s *Service) load(ctx context.Context, caseID id.CaseID) (models.AuthorizationCase, error) {
	if caseID.IsZero() {
		return models.AuthorizationCase{}, dErrors.New(dErrors.CodeBadRequest, "case id is required")
	}
	c, err := s.cases.Load(ctx, caseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.AuthorizationCase{}, dErrors.New(dErrors.CodeNotFound, "authorization case not found")
		}
		return models.AuthorizationCase{}, fmt.Errorf("load case: %w", err)
	}
	return c, nil
}

// loadOrCreate returns the existing case for replays, or registers a fresh
// RECEIVED case from the snapshot. The correlation id is propagated from the
// request context when supplied and minted once otherwise.
func (s *Service) loadOrCreate(ctx context.Context, caseID id.CaseID, snapshot models.AuthorizationRequest, now time.Time) (models.AuthorizationCase, error) {
	if !caseID.IsZero() {
		c, err := s.cases.Load(ctx, caseID)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return models.AuthorizationCase{}, fmt.Errorf("load case: %w", err)
		}
	} else {
		caseID = id.NewCaseID()
	}

	enriched, err := s.enrich(ctx, snapshot, now)
	if err != nil {
		return models.AuthorizationCase{}, err
	}
	if err := enriched.Validate(); err != nil {
		return models.AuthorizationCase{}, err
	}

	correlationID := requestcontext.CorrelationID(ctx)
	if correlationID == "" {
		correlationID = id.NewCorrelationID()
	}

	c := lifecycle.NewCase(caseID, correlationID, enriched, now)
	s.record(ctx, c, audit.ActionCaseCreated, "", now)
	return c, nil
}

func (s *Service) record(ctx context.Context, c models.AuthorizationCase, action audit.Action, detail string, now time.Time) {
	if s.recorder == nil {
		return
	}
	entry := audit.Entry{
		CaseID:        c.ID,
		CorrelationID: c.CorrelationID,
		Action:        action,
		State:         c.State.String(),
		Outcome:       c.Outcome.String(),
		AppliedRule:   c.AppliedRule,
		Detail:        detail,
		Timestamp:     now,
	}
	if c.AuditDecision != nil {
		entry.ReviewerID = c.AuditDecision.ReviewerID
	}
	s.recorder.Record(ctx, entry)
}
