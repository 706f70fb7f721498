package e2e

import (
	"github.com/cucumber/godog"

	"autoriza/e2e/steps/authorization"
	"autoriza/e2e/steps/common"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register authorization lifecycle steps
	authorization.RegisterSteps(ctx, tc)
}
