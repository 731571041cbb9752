package search

import (
	"fmt"
	"slices"

	"github.com/jwebster45206/wayfinder/pkg/world"
)

// Registered policy names.
const (
	PolicyOpen           = "open"
	PolicyOpenOrUnlocked = "open_or_unlocked"
	PolicySeeThrough     = "see_through"
	PolicyIgnore         = "ignore"
	PolicyCapability     = "capability"
)

// PolicyArgs carries what entity-aware factories need. Stateless policies
// ignore it.
type PolicyArgs struct {
	Traveler     world.Traveler
	Capabilities Capabilities
	Contents     ContentsHost
}

// PolicyFactory builds a policy from args.
type PolicyFactory func(args PolicyArgs) (Policy, error)

// Registry maps policy names to factories. It is an ordinary map built at
// startup; callers may add their own entries before use.
type Registry map[string]PolicyFactory

func static(p Policy) PolicyFactory {
	return func(PolicyArgs) (Policy, error) { return p, nil }
}

// DefaultRegistry returns the canonical policies.
func DefaultRegistry() Registry {
	return Registry{
		PolicyOpen:           static(OpenOnly),
		PolicyOpenOrUnlocked: static(OpenOrUnlocked),
		PolicySeeThrough:     static(OpenOrSeeThrough),
		PolicyIgnore:         static(IgnoreBarriers),
		PolicyCapability: func(args PolicyArgs) (Policy, error) {
			if args.Traveler == nil || args.Capabilities == nil {
				return nil, ErrMissingTraveler
			}
			return CapabilityAware(args.Traveler, args.Capabilities, args.Contents), nil
		},
	}
}

// Resolve builds the named policy.
func (r Registry) Resolve(name string, args PolicyArgs) (Policy, error) {
	f, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
	p, err := f(args)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", name, err)
	}
	return p, nil
}

// Names returns the registered names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
