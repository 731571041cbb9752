package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/jwebster45206/wayfinder/pkg/scenario"
	"github.com/jwebster45206/wayfinder/pkg/storage"
)

// Scenario file operations (filesystem-backed)

func (r *RedisStorage) ListScenarios(ctx context.Context) (map[string]string, error) {
	scenariosDir := filepath.Join(r.dataDir, "scenarios")
	scenarios := make(map[string]string)

	err := filepath.WalkDir(scenariosDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		s, err := scenario.Load(path)
		if err != nil {
			r.logger.Warn("Failed to load scenario file", "path", path, "error", err)
			return nil
		}

		scenarios[s.Name] = s.FileName
		return nil
	})

	if err != nil {
		r.logger.Error("Failed to walk scenarios directory", "error", err)
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	return scenarios, nil
}

func (r *RedisStorage) GetScenario(ctx context.Context, filename string) (*scenario.Scenario, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return nil, fmt.Errorf("%w: %q", storage.ErrScenarioNotFound, filename)
	}
	path := filepath.Join(r.dataDir, "scenarios", filename)
	r.logger.Debug("Loading scenario", "filename", filename, "full_path", path, "dataDir", r.dataDir)

	s, err := scenario.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrScenarioNotFound, filename)
		}
		return nil, err
	}
	return s, nil
}
