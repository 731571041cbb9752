package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/wayfinder/pkg/scenario"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	snapshots map[uuid.UUID]*scenario.Scenario
	files     map[string]*scenario.Scenario
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		snapshots: make(map[uuid.UUID]*scenario.Scenario),
		files:     make(map[string]*scenario.Scenario),
	}
}

// SetPingError configures the mock to fail on ping with the given error.
// Pass nil to make ping succeed again.
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveScenario(ctx context.Context, id uuid.UUID, s *scenario.Scenario) error {
	if s == nil {
		return errors.New("scenario cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[id] = s
	return nil
}

func (m *MockStorage) LoadScenario(ctx context.Context, id uuid.UUID) (*scenario.Scenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshots[id], nil
}

func (m *MockStorage) DeleteScenario(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
	return nil
}

func (m *MockStorage) ListScenarios(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.files))
	for filename, s := range m.files {
		out[s.Name] = filename
	}
	return out, nil
}

func (m *MockStorage) GetScenario(ctx context.Context, filename string) (*scenario.Scenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.files[filename]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, filename)
	}
	return s, nil
}

// AddScenario registers a bundled scenario file for testing
func (m *MockStorage) AddScenario(filename string, s *scenario.Scenario) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filename] = s
}
