package scenario

import (
	"fmt"

	"github.com/jwebster45206/wayfinder/pkg/actor"
	"github.com/jwebster45206/wayfinder/pkg/search"
	"github.com/jwebster45206/wayfinder/pkg/world"
)

// Instance is a live copy of a scenario. Instances never share state, so
// mutating one world does not affect another built from the same scenario.
type Instance struct {
	Scenario *Scenario
	World    *world.World
	Actors   map[string]*actor.Actor
}

// Instantiate validates the scenario and builds a fresh world with every
// actor placed.
func (s *Scenario) Instantiate() (*Instance, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", s.Name, err)
	}
	w, err := world.Build(&s.World)
	if err != nil {
		return nil, err
	}

	in := &Instance{
		Scenario: s,
		World:    w,
		Actors:   make(map[string]*actor.Actor, len(s.Actors)),
	}
	for i := range s.Actors {
		spec := s.Actors[i]
		spec.Keys = append([]string(nil), spec.Keys...)
		a, err := actor.New(&spec)
		if err != nil {
			return nil, err
		}
		if err := w.Place(a, w.Location(spec.Location)); err != nil {
			return nil, err
		}
		in.Actors[spec.ID] = a
	}
	return in, nil
}

// Actor returns the actor with the given id, or nil.
func (in *Instance) Actor(id string) *actor.Actor {
	return in.Actors[id]
}

// Engine returns a search engine over the instance's world.
func (in *Instance) Engine(opts ...search.Option) *search.Engine {
	return search.New(in.World, opts...)
}

// Policy resolves a registered policy for this world. as names the
// traveling actor; it may be empty for policies that do not need one.
func (in *Instance) Policy(reg search.Registry, name, as string) (search.Policy, error) {
	args := search.PolicyArgs{
		Capabilities: actor.DoorRules{},
		Contents:     in.World,
	}
	if as != "" {
		a := in.Actor(as)
		if a == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownActor, as)
		}
		args.Traveler = a
	}
	return reg.Resolve(name, args)
}
