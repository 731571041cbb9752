package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jwebster45206/wayfinder/pkg/actor"
	"github.com/jwebster45206/wayfinder/pkg/world"
)

// ErrUnknownActor is returned when a scenario has no actor with the
// requested id.
var ErrUnknownActor = errors.New("unknown actor")

// Scenario is a world description plus the actors that start in it.
type Scenario struct {
	Name     string       `json:"name"`                // Name of the scenario
	FileName string       `json:"file_name,omitempty"` // Name of the file containing the scenario
	Story    string       `json:"story,omitempty"`     // Brief description of the scenario
	World    world.Spec   `json:"world"`
	Actors   []actor.Spec `json:"actors,omitempty"`
	Player   string       `json:"player,omitempty"` // actor the console follows by default
}

// Decode reads a scenario strictly: unknown fields are an error.
func Decode(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	return &s, nil
}

// Load reads a scenario file. FileName is set from the path.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario file: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.FileName = filepath.Base(path)
	return s, nil
}

// Validate checks the world and that every actor stands somewhere real.
func (s *Scenario) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("scenario name is required"))
	}
	if err := s.World.Validate(); err != nil {
		errs = append(errs, err)
	}

	locs := make(map[string]bool, len(s.World.Locations))
	for _, l := range s.World.Locations {
		locs[l.ID] = true
	}
	things := make(map[string]bool, len(s.World.Items))
	for _, it := range s.World.Items {
		things[it.ID] = true
	}

	actors := make(map[string]bool, len(s.Actors))
	for i := range s.Actors {
		a := &s.Actors[i]
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if things[a.ID] || locs[a.ID] {
			errs = append(errs, fmt.Errorf("actor %s: id already in use", a.ID))
		}
		things[a.ID] = true
		actors[a.ID] = true
		if !locs[a.Location] {
			errs = append(errs, fmt.Errorf("actor %s: %w: %s", a.ID, world.ErrUnknownLocation, a.Location))
		}
	}

	if s.Player != "" && !actors[s.Player] {
		errs = append(errs, fmt.Errorf("player %s is not an actor", s.Player))
	}
	return errors.Join(errs...)
}
