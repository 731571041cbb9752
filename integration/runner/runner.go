package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running wayfinder API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...any)
	ErrorHandlingMode ErrorHandlingMode
	ScenarioOverride  string // If set, overrides the scenario for all test cases
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		Logger:            func(string, ...any) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}
	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}
	if !suite.IsSequence() {
		return []TestJob{{Name: suite.Name, Suite: suite, CaseFile: filename}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		subJobs, err := LoadTestSuiteWithExpansion(filepath.Join(casesDir, caseFile), casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}
		jobs = append(jobs, subJobs...)
	}
	return jobs, nil
}

// RunSuite uploads the suite's scenario, runs every step against it and
// deletes it again.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job:     TestJob{Name: suite.Name, Suite: suite},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	file := suite.Scenario
	if r.ScenarioOverride != "" {
		file = r.ScenarioOverride
	}
	id, err := r.uploadScenario(ctx, file)
	if err != nil {
		result.Error = fmt.Errorf("failed to upload scenario: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.Scenario = id
	defer func() {
		if err := r.deleteScenario(context.WithoutCancel(ctx), id); err != nil {
			r.Logger("    failed to delete scenario %s: %v", id, err)
		}
	}()

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, id, suite.Name, step)
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}
		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

func (r *Runner) uploadScenario(ctx context.Context, file string) (uuid.UUID, error) {
	if file == "" {
		return uuid.Nil, fmt.Errorf("suite names no scenario")
	}
	u := r.BaseURL + "/v1/scenarios?file=" + url.QueryEscape(file)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create POST request: %w", err)
	}
	body, status, err := r.do(req)
	if err != nil {
		return uuid.Nil, err
	}
	if status != http.StatusCreated {
		return uuid.Nil, fmt.Errorf("API returned status %d: %s", status, string(body))
	}

	var created struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse create response: %w", err)
	}
	return created.ID, nil
}

func (r *Runner) deleteScenario(ctx context.Context, id uuid.UUID) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/v1/scenarios/%s", r.BaseURL, id), nil)
	if err != nil {
		return err
	}
	body, status, err := r.do(req)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return fmt.Errorf("API returned status %d: %s", status, string(body))
	}
	return nil
}

func (r *Runner) do(req *http.Request) ([]byte, int, error) {
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (r *Runner) runStep(ctx context.Context, id uuid.UUID, testName string, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{TestName: testName, StepName: step.Name}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	params := url.Values{}
	for k, v := range step.Params {
		params.Set(k, v)
	}
	u := fmt.Sprintf("%s/v1/scenarios/%s/%s?%s", r.BaseURL, id, step.Query, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		result.Error = fmt.Errorf("failed to create GET request: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	body, status, err := r.do(req)
	if err == nil {
		err = checkExpectations(step.Expectations, status, body)
	}
	result.Error = err
	result.Success = err == nil
	result.Duration = time.Since(start)
	return result
}

// queryResult is the union of the query response shapes.
type queryResult struct {
	Found    *bool  `json:"found"`
	Distance *int   `json:"distance"`
	Hops     *int   `json:"hops"`
	Error    string `json:"error"`
	Steps    []struct {
		Direction string `json:"direction"`
	} `json:"steps"`
	Matches []struct {
		ThingID string `json:"thing_id"`
	} `json:"matches"`
}

// checkExpectations validates a query response against exp.
func checkExpectations(exp Expectations, status int, body []byte) error {
	wantStatus := http.StatusOK
	if exp.Status != nil {
		wantStatus = *exp.Status
	}
	if status != wantStatus {
		return fmt.Errorf("expected status %d, got %d: %s", wantStatus, status, strings.TrimSpace(string(body)))
	}

	var res queryResult
	if err := json.Unmarshal(body, &res); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if exp.Error != "" && !strings.Contains(res.Error, exp.Error) {
		return fmt.Errorf("expected error containing %q, got %q", exp.Error, res.Error)
	}
	if exp.Found != nil && (res.Found == nil || *res.Found != *exp.Found) {
		return fmt.Errorf("expected found=%v, got %v", *exp.Found, deref(res.Found))
	}
	if exp.Distance != nil && (res.Distance == nil || *res.Distance != *exp.Distance) {
		return fmt.Errorf("expected distance %d, got %v", *exp.Distance, deref(res.Distance))
	}
	if exp.Hops != nil && (res.Hops == nil || *res.Hops != *exp.Hops) {
		return fmt.Errorf("expected %d hops, got %v", *exp.Hops, deref(res.Hops))
	}

	if exp.Directions != nil {
		got := make([]string, len(res.Steps))
		for i, s := range res.Steps {
			got[i] = s.Direction
		}
		if !slices.Equal(got, exp.Directions) {
			return fmt.Errorf("expected directions %v, got %v", exp.Directions, got)
		}
	}
	if exp.Things != nil {
		got := make([]string, len(res.Matches))
		for i, m := range res.Matches {
			got[i] = m.ThingID
		}
		if !slices.Equal(got, exp.Things) {
			return fmt.Errorf("expected things %v, got %v", exp.Things, got)
		}
	}

	if len(exp.Locations) > 0 || len(exp.Excludes) > 0 {
		var raw any
		if err := json.Unmarshal(body, &raw); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		mentioned := make(map[string]bool)
		collectStrings(raw, mentioned)
		for _, loc := range exp.Locations {
			if !mentioned[loc] {
				return fmt.Errorf("expected %s in response", loc)
			}
		}
		for _, loc := range exp.Excludes {
			if mentioned[loc] {
				return fmt.Errorf("expected %s not to appear in response", loc)
			}
		}
	}
	return nil
}

// collectStrings records every string value in a decoded JSON document.
func collectStrings(v any, into map[string]bool) {
	switch v := v.(type) {
	case string:
		into[v] = true
	case []any:
		for _, e := range v {
			collectStrings(e, into)
		}
	case map[string]any:
		for _, e := range v {
			collectStrings(e, into)
		}
	}
}

func deref[T any](p *T) any {
	if p == nil {
		return "nothing"
	}
	return *p
}
