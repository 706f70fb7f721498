package authorization

import (
	"autoriza/internal/authorization/models"
	"autoriza/internal/authorization/policy"
	dErrors "autoriza/pkg/domain-errors"
)

// routingRule is one entry of the ordered decision chain. Keeping the chain
// as data makes the precedence independently verifiable and reorderable
// without touching control flow.
type routingRule struct {
	Code    string
	Matches func(req models.AuthorizationRequest, cfg policy.Config) bool
	Outcome models.RoutingOutcome
}

// routingRules is evaluated top to bottom; the first match wins and later
// rules are not evaluated. Ordering rationale:
//
//  1. Missing justification is a data-quality gate that fires before any
//     clinical inference.
//  2. Pre-existing-condition validation is a contractual obligation a
//     reviewer must clear; only true emergencies bypass it.
//  3. Emergencies are exempted by regulation from waiting-period and routing
//     delays.
//  4. Waiting period (carência) applies to all remaining elective requests.
//  5. Out-of-network providers need network approval.
//  6. Financial/clinical risk gates (value above threshold, any surgery) run
//     last: they only matter once the request is otherwise admissible.
//  7. Everything else auto-approves.
var routingRules = []routingRule{
	{
		Code: "RN001_MISSING_JUSTIFICATION",
		Matches: func(req models.AuthorizationRequest, _ policy.Config) bool {
			return !req.HasJustification()
		},
		Outcome: models.OutcomeDeniedMissingJustification,
	},
	{
		Code: "RN002_CPT_VALIDATION",
		Matches: func(req models.AuthorizationRequest, _ policy.Config) bool {
			return req.PreExistingCondition && req.Urgency != models.UrgencyEmergency
		},
		Outcome: models.OutcomePendingCPTValidation,
	},
	{
		Code: "RN003_EMERGENCY",
		Matches: func(req models.AuthorizationRequest, _ policy.Config) bool {
			return req.Urgency == models.UrgencyEmergency
		},
		Outcome: models.OutcomeApprovedEmergency,
	},
	{
		Code: "RN004_WAITING_PERIOD",
		Matches: func(req models.AuthorizationRequest, cfg policy.Config) bool {
			return req.EnrolledFor() < cfg.WaitingPeriod(req.RequestType)
		},
		Outcome: models.OutcomeDeniedWaitingPeriod,
	},
	{
		Code: "RN005_OUT_OF_NETWORK",
		Matches: func(req models.AuthorizationRequest, _ policy.Config) bool {
			return req.NetworkStatus == models.NetworkStatusOutOfNetwork
		},
		Outcome: models.OutcomePendingNetworkApproval,
	},
	{
		Code: "RN006_AUDIT_RISK",
		Matches: func(req models.AuthorizationRequest, cfg policy.Config) bool {
			return req.EstimatedValue > cfg.AuditThreshold ||
				req.RequestType == models.RequestTypeSurgery
		},
		Outcome: models.OutcomePendingAudit,
	},
	{
		Code: "RN007_AUTO_APPROVE",
		Matches: func(models.AuthorizationRequest, policy.Config) bool {
			return true
		},
		Outcome: models.OutcomeApprovedAutomatic,
	},
}

// Evaluate applies the routing rules to a request snapshot. Pure: identical
// input and config always produce the identical evaluation. Malformed
// requests fail fast with an invalid_request error and no outcome.
func Evaluate(req models.AuthorizationRequest, cfg policy.Config) (models.Evaluation, error) {
	if err := req.Validate(); err != nil {
		return models.Evaluation{}, err
	}
	for _, rule := range routingRules {
		if rule.Matches(req, cfg) {
			return models.Evaluation{Outcome: rule.Outcome, RuleCode: rule.Code}, nil
		}
	}
	// The last rule matches unconditionally; reaching here means the table
	// was edited into an unsound shape.
	return models.Evaluation{}, dErrors.New(dErrors.CodeInternal, "routing rule chain has no terminal rule")
}
