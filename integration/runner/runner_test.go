package runner

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/wayfinder/internal/handlers"
	"github.com/jwebster45206/wayfinder/internal/storage"
	"github.com/jwebster45206/wayfinder/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAPI serves the real handlers over a miniredis-backed store.
func newTestAPI(t *testing.T) (*httptest.Server, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := storage.NewRedisStorage("redis://"+mr.Addr(), "../../data", time.Hour, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	queries := handlers.NewQueryHandler(logger, search.DefaultRegistry(), 32)
	mux := http.NewServeMux()
	mux.Handle("/v1/scenarios", handlers.NewScenarioHandler(logger, store, queries))
	mux.Handle("/v1/scenarios/", handlers.NewScenarioHandler(logger, store, queries))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, mr
}

func TestRunner_BundledCases(t *testing.T) {
	srv, mr := newTestAPI(t)
	r := NewRunner(srv.URL + "/")

	files, err := filepath.Glob("../cases/*.json")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			jobs, err := LoadTestSuiteWithExpansion(f, "../cases")
			require.NoError(t, err)
			for _, job := range jobs {
				result, err := r.RunSuite(context.Background(), job.Suite)
				require.NoError(t, err)
				assert.Len(t, result.Results, len(job.Suite.Steps))
				for _, step := range result.Results {
					assert.True(t, step.Success, "%s: %v", step.StepName, step.Error)
				}
			}
		})
	}

	assert.Empty(t, mr.Keys(), "Expected every uploaded scenario to be deleted")
}

func TestRunner_FailingStep(t *testing.T) {
	srv, _ := newTestAPI(t)
	r := NewRunner(srv.URL)

	three := 3
	suite := TestSuite{
		Name:     "wrong distance",
		Scenario: "hollow_keep.json",
		Steps: []TestStep{
			{
				Name:         "too far",
				Query:        "distance",
				Params:       map[string]string{"from": "gate", "to": "courtyard", "policy": "ignore"},
				Expectations: Expectations{Distance: &three},
			},
			{
				Name:   "still runs",
				Query:  "distance",
				Params: map[string]string{"from": "gate", "to": "gate"},
			},
		},
	}

	result, err := r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected distance 3, got 1")
	require.Len(t, result.Results, 2)
	assert.False(t, result.Results[0].Success)
	assert.True(t, result.Results[1].Success)

	r.ErrorHandlingMode = ErrorHandlingExit
	result, err = r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	assert.Len(t, result.Results, 1)
}

func TestRunner_MissingScenario(t *testing.T) {
	srv, _ := newTestAPI(t)
	r := NewRunner(srv.URL)

	_, err := r.RunSuite(context.Background(), TestSuite{Name: "nothing", Scenario: "nowhere.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = r.RunSuite(context.Background(), TestSuite{Name: "unnamed"})
	require.Error(t, err)
}

func TestLoadTestSuiteWithExpansion(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("a.json", `{"name": "a", "scenario": "hollow_keep.json", "steps": [{"query": "distance"}]}`)
	write("b.json", `{"name": "b", "scenario": "hollow_keep.json"}`)
	write("inner.json", `{"name": "inner", "cases": ["b.json"]}`)
	write("all.json", `{"name": "all", "cases": ["a.json", "inner.json"]}`)
	write("broken.json", `{"name": "broken", "cases": ["missing.json"]}`)

	jobs, err := LoadTestSuiteWithExpansion(filepath.Join(dir, "all.json"), dir)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].Name)
	assert.Equal(t, "b", jobs[1].Name)

	_, err = LoadTestSuiteWithExpansion(filepath.Join(dir, "broken.json"), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
}

func TestCheckExpectations(t *testing.T) {
	yes, two, bad := true, 2, 400
	tests := []struct {
		name    string
		exp     Expectations
		status  int
		body    string
		wantErr string
	}{
		{
			name:   "path matches",
			exp:    Expectations{Found: &yes, Hops: &two, Directions: []string{"north", "north"}},
			status: http.StatusOK,
			body:   `{"found": true, "hops": 2, "steps": [{"direction": "north"}, {"direction": "north"}]}`,
		},
		{
			name:    "wrong status",
			exp:     Expectations{},
			status:  http.StatusNotFound,
			body:    `{"error": "Scenario not found"}`,
			wantErr: "expected status 200",
		},
		{
			name:   "expected error",
			exp:    Expectations{Status: &bad, Error: "max must"},
			status: http.StatusBadRequest,
			body:   `{"error": "max must be an integer"}`,
		},
		{
			name:    "missing location",
			exp:     Expectations{Locations: []string{"hall"}},
			status:  http.StatusOK,
			body:    `{"locations": [{"location": "gate", "hops": 0}]}`,
			wantErr: "expected hall",
		},
		{
			name:    "excluded location present",
			exp:     Expectations{Excludes: []string{"gate"}},
			status:  http.StatusOK,
			body:    `{"locations": [{"location": "gate", "hops": 0}]}`,
			wantErr: "not to appear",
		},
		{
			name:    "things out of order",
			exp:     Expectations{Things: []string{"a", "b"}},
			status:  http.StatusOK,
			body:    `{"matches": [{"thing_id": "b"}, {"thing_id": "a"}]}`,
			wantErr: "expected things",
		},
		{
			name:    "found missing from response",
			exp:     Expectations{Found: &yes},
			status:  http.StatusOK,
			body:    `{}`,
			wantErr: "got nothing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkExpectations(tt.exp, tt.status, []byte(tt.body))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "got %v", err)
		})
	}
}
