package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jwebster45206/wayfinder/pkg/scenario"
)

// ErrScenarioNotFound is returned by GetScenario for a missing file.
var ErrScenarioNotFound = errors.New("scenario not found")

// Storage defines a unified interface for all storage operations.
// Uploaded scenario snapshots live in Redis; bundled scenario files are read
// from the filesystem.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Snapshot operations (Redis-backed). LoadScenario returns nil, nil when
	// the id is unknown or expired.
	SaveScenario(ctx context.Context, id uuid.UUID, s *scenario.Scenario) error
	LoadScenario(ctx context.Context, id uuid.UUID) (*scenario.Scenario, error)
	DeleteScenario(ctx context.Context, id uuid.UUID) error

	// Bundled scenario files (filesystem-backed). ListScenarios maps scenario
	// name to file name.
	ListScenarios(ctx context.Context) (map[string]string, error)
	GetScenario(ctx context.Context, filename string) (*scenario.Scenario, error)
}
