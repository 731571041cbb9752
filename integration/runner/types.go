package runner

import (
	"time"

	"github.com/google/uuid"
)

// TestSuite defines one integration run against a scenario.
// It either has Steps of its own or sequences other case files in Cases.
type TestSuite struct {
	Name     string     `json:"name"`
	Scenario string     `json:"scenario,omitempty"` // bundled scenario file uploaded before the steps run
	Steps    []TestStep `json:"steps,omitempty"`
	Cases    []string   `json:"cases,omitempty"`
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep runs one query against the uploaded scenario.
type TestStep struct {
	Name         string            `json:"name,omitempty"`
	Query        string            `json:"query"` // distance, path, vicinity or acquire
	Params       map[string]string `json:"params,omitempty"`
	Expectations Expectations      `json:"expect"`
}

// Expectations defines what to check in a query response. Unset fields are
// not checked.
type Expectations struct {
	Status     *int     `json:"status,omitempty"` // defaults to 200
	Found      *bool    `json:"found,omitempty"`
	Distance   *int     `json:"distance,omitempty"`
	Hops       *int     `json:"hops,omitempty"`
	Directions []string `json:"directions,omitempty"` // exact step directions of a path
	Locations  []string `json:"locations,omitempty"`  // must all appear in the response
	Excludes   []string `json:"excludes,omitempty"`   // must not appear in the response
	Things     []string `json:"things,omitempty"`     // acquired thing ids, in order
	Error      string   `json:"error,omitempty"`      // substring of the error message
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	Scenario uuid.UUID // ID of the uploaded scenario used for this run
}
