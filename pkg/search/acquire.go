package search

import (
	"fmt"

	"github.com/jwebster45206/wayfinder/pkg/world"
)

// Predicate selects things for acquisition.
type Predicate func(t world.Thing) bool

// Acquisition is a matched thing, where it is and how to get there. Every
// match in one location shares the same *Path.
type Acquisition struct {
	Thing    world.Thing
	Location *world.Location
	Path     *Path
}

type acquireOptions struct {
	matchLocations bool
}

// AcquireOption tunes an acquisition query.
type AcquireOption func(*acquireOptions)

// MatchLocations also tests each reached location itself against the
// predicate, before its contents.
func MatchLocations() AcquireOption {
	return func(o *acquireOptions) { o.matchLocations = true }
}

// AcquireFirst returns the nearest thing matching pred, or nil. The
// origin's contents are tested first, then each location as it is reached,
// generation by generation.
func (e *Engine) AcquireFirst(origin *world.Location, pred Predicate, maxHops int, edgePolicy Policy, opts ...AcquireOption) (*Acquisition, error) {
	var first *Acquisition
	err := e.acquire("acquire_first", origin, pred, maxHops, edgePolicy, opts, func(a Acquisition) bool {
		first = &a
		return false
	})
	if err != nil {
		return nil, err
	}
	return first, nil
}

// AcquireAll returns every thing matching pred within maxHops, nearest
// first. Nothing is deduplicated.
func (e *Engine) AcquireAll(origin *world.Location, pred Predicate, maxHops int, edgePolicy Policy, opts ...AcquireOption) ([]Acquisition, error) {
	var all []Acquisition
	err := e.acquire("acquire_all", origin, pred, maxHops, edgePolicy, opts, func(a Acquisition) bool {
		all = append(all, a)
		return true
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// acquire sweeps outward from origin, calling emit for every match. It
// stops as soon as emit returns false.
func (e *Engine) acquire(query string, origin *world.Location, pred Predicate, maxHops int, edgePolicy Policy, opts []AcquireOption, emit func(Acquisition) bool) error {
	if err := checkVicinityArgs(origin, maxHops, edgePolicy); err != nil {
		return err
	}
	if pred == nil {
		return fmt.Errorf("%w: predicate", ErrNilPolicy)
	}
	if e.contents == nil {
		return ErrNoContents
	}
	var o acquireOptions
	for _, opt := range opts {
		opt(&o)
	}

	nodes := arena{{loc: origin, parent: -1}}
	matches := 0
	done := func() error {
		e.logger.Debug("search complete", "query", query, "from", origin.ID, "max_hops", maxHops, "found", matches)
		return nil
	}
	// test reports false once emit asks to stop.
	test := func(i int) bool {
		loc := nodes[i].loc
		var path *Path
		check := func(t world.Thing) bool {
			if !pred(t) {
				return true
			}
			if path == nil {
				path = &Path{Origin: origin, Edges: nodes.path(i)}
			}
			matches++
			return emit(Acquisition{Thing: t, Location: loc, Path: path})
		}
		if o.matchLocations && !check(loc) {
			return false
		}
		for _, t := range e.contents.Contents(loc) {
			if !check(t) {
				return false
			}
		}
		return true
	}

	if !test(0) {
		return done()
	}

	visited := map[string]bool{origin.ID: true}
	generation := []int{0}
	for hops := 1; hops <= maxHops && len(generation) > 0; hops++ {
		var next []int
		for _, i := range generation {
			from := nodes[i]
			for _, edge := range e.exits(from.loc) {
				if visited[edge.To.ID] {
					continue
				}
				ok, err := edgePolicy(edge)
				if err != nil {
					return fmt.Errorf("%s: edge %s: %w", query, edge, err)
				}
				if !ok {
					continue
				}
				visited[edge.To.ID] = true
				j := nodes.add(node{edge: edge, loc: edge.To, parent: i, g: from.g + StepCost, hops: hops})
				if !test(j) {
					return done()
				}
				next = append(next, j)
			}
		}
		generation = next
	}
	return done()
}
