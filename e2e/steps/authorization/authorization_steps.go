package authorization

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any, headers map[string]string) error
	GET(path string) error
	ResponseField(field string) (any, error)
	CaseID() string
	SetCaseID(caseID string)
	NextInputID() string
	LastInputID() string
	ReviewerAuthHeader() map[string]string
}

// RegisterSteps registers authorization lifecycle step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authorizationSteps{tc: tc}

	ctx.Step(`^I submit a "([^"]*)" request valued at (\d+) cents with urgency "([^"]*)"$`, steps.submitRequest)
	ctx.Step(`^I submit a "([^"]*)" request valued at (\d+) cents with urgency "([^"]*)" and no justification$`, steps.submitRequestWithoutJustification)
	ctx.Step(`^I save the case id$`, steps.saveCaseID)
	ctx.Step(`^I redeliver the same evaluation$`, steps.redeliverEvaluation)
	ctx.Step(`^the reviewer approves the case$`, steps.reviewerApproves)
	ctx.Step(`^the reviewer denies the case with justification "([^"]*)"$`, steps.reviewerDenies)
	ctx.Step(`^I close the case$`, steps.closeCase)
	ctx.Step(`^I fetch the case$`, steps.fetchCase)
}

type authorizationSteps struct {
	tc TestContext

	lastRequest map[string]any
}

func (s *authorizationSteps) submitRequest(ctx context.Context, requestType string, valueCents int, urgency string) error {
	return s.submit(requestType, valueCents, urgency, "clinical justification for "+requestType)
}

func (s *authorizationSteps) submitRequestWithoutJustification(ctx context.Context, requestType string, valueCents int, urgency string) error {
	return s.submit(requestType, valueCents, urgency, "")
}

func (s *authorizationSteps) submit(requestType string, valueCents int, urgency, justification string) error {
	body := map[string]any{
		"input_id":               s.tc.NextInputID(),
		"request_id":             "REQ-" + s.tc.LastInputID(),
		"beneficiary_id":         "BEN-e2e",
		"provider_id":            "PRV-e2e",
		"request_type":           requestType,
		"procedure_code":         "10101012",
		"estimated_value_cents":  valueCents,
		"urgency":                urgency,
		"clinical_justification": justification,
		"enrollment_date":        "2020-01-01T00:00:00Z",
		"network_status":         "IN_NETWORK",
	}
	s.lastRequest = body
	return s.tc.POST("/authorizations/evaluate", body, nil)
}

func (s *authorizationSteps) saveCaseID(ctx context.Context) error {
	v, err := s.tc.ResponseField("case_id")
	if err != nil {
		return err
	}
	caseID, ok := v.(string)
	if !ok || caseID == "" {
		return fmt.Errorf("case_id missing from response")
	}
	s.tc.SetCaseID(caseID)
	return nil
}

func (s *authorizationSteps) redeliverEvaluation(ctx context.Context) error {
	if s.lastRequest == nil {
		return fmt.Errorf("no evaluation submitted yet")
	}
	body := make(map[string]any, len(s.lastRequest)+1)
	for k, v := range s.lastRequest {
		body[k] = v
	}
	body["case_id"] = s.tc.CaseID()
	return s.tc.POST("/authorizations/evaluate", body, nil)
}

func (s *authorizationSteps) reviewerApproves(ctx context.Context) error {
	return s.tc.POST("/authorizations/"+s.tc.CaseID()+"/review", map[string]any{
		"input_id": s.tc.NextInputID(),
		"approve":  true,
	}, s.tc.ReviewerAuthHeader())
}

func (s *authorizationSteps) reviewerDenies(ctx context.Context, justification string) error {
	return s.tc.POST("/authorizations/"+s.tc.CaseID()+"/review", map[string]any{
		"input_id":      s.tc.NextInputID(),
		"approve":       false,
		"justification": justification,
	}, s.tc.ReviewerAuthHeader())
}

func (s *authorizationSteps) closeCase(ctx context.Context) error {
	return s.tc.POST("/authorizations/"+s.tc.CaseID()+"/close", map[string]any{
		"input_id": s.tc.NextInputID(),
	}, nil)
}

func (s *authorizationSteps) fetchCase(ctx context.Context) error {
	return s.tc.GET("/authorizations/" + s.tc.CaseID())
}
