package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/wayfinder/pkg/scenario"
	"github.com/jwebster45206/wayfinder/pkg/search"
)

// ScenarioValidator collects problems in a scenario file. Errors fail the
// file; warnings are printed but do not.
type ScenarioValidator struct {
	errors   []string
	warnings []string
}

func (v *ScenarioValidator) validateFile(filename string) error {
	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("scenario file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidScenarioFilename(nameWithoutExt) {
		return fmt.Errorf("scenario filename '%s' must be lowercase snake_case (e.g., my_scenario.json, not my-scenario.json or MyScenario.json)", baseName)
	}

	s, err := scenario.Load(filename)
	if err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	v.errors, v.warnings = nil, nil
	v.validateScenario(s)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *ScenarioValidator) validateScenario(s *scenario.Scenario) {
	for _, l := range s.World.Locations {
		v.validateIDFormat("location ID", l.ID)
		for _, e := range l.Exits {
			v.validateIDFormat("exit barrier", e.Barrier)
		}
	}
	for _, b := range s.World.Barriers {
		if b == nil {
			continue
		}
		v.validateIDFormat("barrier ID", b.ID)
		for _, l := range b.Locks {
			if l == nil {
				continue
			}
			v.validateIDFormat("lock ID", l.ID)
			v.validateIDFormat("lock key", l.KeyID)
		}
	}
	for _, it := range s.World.Items {
		v.validateIDFormat("item ID", it.ID)
	}
	for _, a := range s.Actors {
		v.validateIDFormat("actor ID", a.ID)
		v.validateIDFormat("actor faction", a.Faction)
	}

	if err := s.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			v.addError(line)
		}
		return
	}

	v.checkKeys(s)
	v.checkConnectivity(s)
}

// checkKeys warns about locks whose key is neither an item nor carried by
// any actor.
func (v *ScenarioValidator) checkKeys(s *scenario.Scenario) {
	known := make(map[string]bool)
	for _, it := range s.World.Items {
		known[it.ID] = true
	}
	for _, a := range s.Actors {
		for _, k := range a.Keys {
			known[k] = true
		}
	}
	for _, b := range s.World.Barriers {
		for _, l := range b.Locks {
			if l != nil && l.KeyID != "" && !known[l.KeyID] {
				v.addWarning(fmt.Sprintf("barrier %s lock %s needs key %s, which nothing in the scenario provides", b.ID, l.ID, l.KeyID))
			}
		}
	}
}

// checkConnectivity warns about locations that cannot be reached from the
// first location even with every barrier ignored.
func (v *ScenarioValidator) checkConnectivity(s *scenario.Scenario) {
	if len(s.World.Locations) < 2 {
		return
	}
	in, err := s.Instantiate()
	if err != nil {
		v.addError(err.Error())
		return
	}

	eng := in.Engine(search.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	origin := in.World.Location(s.World.Locations[0].ID)
	reached, err := eng.Vicinity(origin, len(s.World.Locations), search.IgnoreBarriers, nil)
	if err != nil {
		v.addError(err.Error())
		return
	}
	seen := make(map[string]bool, len(reached))
	for _, r := range reached {
		seen[r.Location.ID] = true
	}
	for _, l := range s.World.Locations {
		if !seen[l.ID] {
			v.addWarning(fmt.Sprintf("location %s cannot be reached from %s", l.ID, origin.ID))
		}
	}
}

func (v *ScenarioValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}
	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *ScenarioValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *ScenarioValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, msg)
}

var (
	validIDRegex       = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
	validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

func isValidScenarioFilename(name string) bool {
	// Allow 'x.' prefix for experimental scenarios
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
