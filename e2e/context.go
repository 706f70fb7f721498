// Package e2e drives a running autoriza instance over HTTP with godog. The
// suite is black-box: it only sees the public API, never the stores.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TestContext carries shared state across scenario steps: the last HTTP
// response plus identifiers saved by earlier steps.
type TestContext struct {
	BaseURL       string
	ReviewerToken string

	client *http.Client

	lastStatus int
	lastBody   map[string]any

	caseID  string
	inputID int
}

// NewTestContext builds a context for a server at baseURL. reviewerToken is a
// pre-issued JWT for the review endpoints.
func NewTestContext(baseURL, reviewerToken string) *TestContext {
	return &TestContext{
		BaseURL:       baseURL,
		ReviewerToken: reviewerToken,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.caseID = ""
}

// POST sends a JSON body and records the response.
func (tc *TestContext) POST(path string, body any, headers map[string]string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, tc.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return tc.do(req)
}

// GET fetches a path and records the response.
func (tc *TestContext) GET(path string) error {
	req, err := http.NewRequest(http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = nil
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &tc.lastBody); err != nil {
			return fmt.Errorf("response is not a JSON object: %w", err)
		}
	}
	return nil
}

// LastStatus returns the status code of the most recent response.
func (tc *TestContext) LastStatus() int { return tc.lastStatus }

// ResponseField returns a top-level field of the most recent JSON response.
func (tc *TestContext) ResponseField(field string) (any, error) {
	v, ok := tc.lastBody[field]
	if !ok {
		return nil, fmt.Errorf("response has no field %q", field)
	}
	return v, nil
}

// ReviewerAuthHeader returns the Authorization header for review calls.
func (tc *TestContext) ReviewerAuthHeader() map[string]string {
	if tc.ReviewerToken == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + tc.ReviewerToken}
}

// CaseID returns the case id saved by a previous step.
func (tc *TestContext) CaseID() string { return tc.caseID }

// SetCaseID saves the case id for later steps.
func (tc *TestContext) SetCaseID(caseID string) { tc.caseID = caseID }

// NextInputID mints a fresh delivery id; replay steps reuse the previous one.
func (tc *TestContext) NextInputID() string {
	tc.inputID++
	return fmt.Sprintf("e2e-%d", tc.inputID)
}

// LastInputID returns the most recently minted delivery id.
func (tc *TestContext) LastInputID() string {
	return fmt.Sprintf("e2e-%d", tc.inputID)
}
