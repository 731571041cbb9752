package search

import (
	"fmt"

	"github.com/jwebster45206/wayfinder/pkg/world"
)

// Reached is a location found by a vicinity query with its hop distance.
type Reached struct {
	Location *world.Location
	Hops     int
}

// Vicinity returns every location reachable from origin within maxHops
// whose connecting edges pass edgePolicy and which itself passes locPolicy.
// A rejected location is neither returned nor expanded. The origin is
// exempt from locPolicy: it always comes first at hop 0 and is always
// expanded. The rest follow in discovery order, each once, with its
// minimal hop count. A nil locPolicy accepts every location.
func (e *Engine) Vicinity(origin *world.Location, maxHops int, edgePolicy Policy, locPolicy LocationPolicy) ([]Reached, error) {
	if err := checkVicinityArgs(origin, maxHops, edgePolicy); err != nil {
		return nil, err
	}
	if locPolicy == nil {
		locPolicy = AnyLocation
	}

	out := []Reached{{Location: origin, Hops: 0}}
	visited := map[string]bool{origin.ID: true}
	generation := []*world.Location{origin}

	for hops := 1; hops <= maxHops && len(generation) > 0; hops++ {
		var next []*world.Location
		for _, from := range generation {
			for _, edge := range e.exits(from) {
				if visited[edge.To.ID] {
					continue
				}
				ok, err := edgePolicy(edge)
				if err != nil {
					return nil, fmt.Errorf("vicinity: edge %s: %w", edge, err)
				}
				if !ok {
					continue
				}
				ok, err = locPolicy(edge.To)
				if err != nil {
					return nil, fmt.Errorf("vicinity: location %s: %w", edge.To.ID, err)
				}
				if !ok {
					continue
				}
				visited[edge.To.ID] = true
				out = append(out, Reached{Location: edge.To, Hops: hops})
				next = append(next, edge.To)
			}
		}
		generation = next
	}

	e.logger.Debug("search complete", "query", "vicinity", "from", origin.ID, "max_hops", maxHops, "found", len(out))
	return out, nil
}

// DirectionalVicinity is Vicinity with a no-doubling-back rule: each branch
// carries the set of directions it may still take, and crossing an edge
// towards d removes d's reverse from that set for the rest of the branch.
// Unknown-direction edges are always permitted and never shrink the set.
//
// As with Vicinity, the origin is the root branch and is exempt from
// locPolicy.
//
// Because the permitted set depends on the route taken, a location can be
// entered by several branches. A new branch into a location is dropped only
// when an earlier branch there already permits every direction it would.
func (e *Engine) DirectionalVicinity(origin *world.Location, maxHops int, edgePolicy Policy, locPolicy LocationPolicy) (*BranchTree, error) {
	if err := checkVicinityArgs(origin, maxHops, edgePolicy); err != nil {
		return nil, err
	}
	if locPolicy == nil {
		locPolicy = AnyLocation
	}

	tree := newBranchTree(origin)
	generation := []int{0}

	for hops := 1; hops <= maxHops && len(generation) > 0; hops++ {
		var next []int
		for _, i := range generation {
			from := tree.branches[i]
			for _, edge := range e.exits(from.Location) {
				if !from.Permitted.Has(edge.Direction) {
					continue
				}
				permitted := from.Permitted
				if edge.Direction.IsDirectional() {
					permitted = permitted.Without(edge.Direction.Reverse())
				}
				if tree.dominated(edge.To.ID, permitted) {
					continue
				}
				ok, err := edgePolicy(edge)
				if err != nil {
					return nil, fmt.Errorf("directional vicinity: edge %s: %w", edge, err)
				}
				if !ok {
					continue
				}
				ok, err = locPolicy(edge.To)
				if err != nil {
					return nil, fmt.Errorf("directional vicinity: location %s: %w", edge.To.ID, err)
				}
				if !ok {
					continue
				}
				next = append(next, tree.grow(i, edge, permitted))
			}
		}
		generation = next
	}

	e.logger.Debug("search complete", "query", "directional_vicinity", "from", origin.ID, "max_hops", maxHops,
		"branches", tree.Len(), "found", len(tree.byLoc))
	return tree, nil
}

func checkVicinityArgs(origin *world.Location, maxHops int, edgePolicy Policy) error {
	if origin == nil {
		return ErrNilLocation
	}
	if maxHops < 0 {
		return fmt.Errorf("%w: maxHops=%d", ErrNegativeBound, maxHops)
	}
	if edgePolicy == nil {
		return ErrNilPolicy
	}
	return nil
}
