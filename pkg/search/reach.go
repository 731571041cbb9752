package search

import (
	"fmt"

	"github.com/jwebster45206/wayfinder/pkg/world"
)

// DistanceBetween returns the number of hops from src to dst, or Unreachable
// if dst is not reached within maxHops under policy. A location is zero
// hops from itself.
func (e *Engine) DistanceBetween(src, dst *world.Location, maxHops int, policy Policy) (int, error) {
	i, nodes, err := e.firstFound("distance", src, dst, maxHops, policy)
	if err != nil || i < 0 {
		return Unreachable, err
	}
	return nodes[i].hops, nil
}

// FirstPathBetween returns the first path found from src to dst by a
// breadth-first sweep, or nil if none exists within maxHops.
//
// Visited is a plain set: once a location has a parent it keeps it, and a
// later route to it is dropped rather than spliced in. Use
// ShortestPathBetween where the route itself must be optimal rather than
// merely short.
func (e *Engine) FirstPathBetween(src, dst *world.Location, maxHops int, policy Policy) (*Path, error) {
	i, nodes, err := e.firstFound("first_path", src, dst, maxHops, policy)
	if err != nil || i < 0 {
		return nil, err
	}
	return &Path{Origin: src, Edges: nodes.path(i)}, nil
}

// CellsBetween returns the locations along the first-found path, both ends
// included, or nil if none exists.
func (e *Engine) CellsBetween(src, dst *world.Location, maxHops int, policy Policy) ([]*world.Location, error) {
	p, err := e.FirstPathBetween(src, dst, maxHops, policy)
	if err != nil || p == nil {
		return nil, err
	}
	return p.Locations(), nil
}

// firstFound sweeps outward from src one hop generation at a time and
// returns the arena index of the node that reached dst, or -1.
func (e *Engine) firstFound(query string, src, dst *world.Location, maxHops int, policy Policy) (int, arena, error) {
	if src == nil || dst == nil {
		return -1, nil, ErrNilLocation
	}
	if maxHops < 0 {
		return -1, nil, fmt.Errorf("%w: maxHops=%d", ErrNegativeBound, maxHops)
	}
	if policy == nil {
		return -1, nil, ErrNilPolicy
	}

	nodes := arena{{loc: src, parent: -1}}
	if src.ID == dst.ID {
		return 0, nodes, nil
	}

	visited := map[string]bool{src.ID: true}
	generation := []int{0}
	expanded := 0

	for hops := 1; hops <= maxHops && len(generation) > 0; hops++ {
		var next []int
		for _, i := range generation {
			from := nodes[i]
			expanded++
			for _, edge := range e.exits(from.loc) {
				if visited[edge.To.ID] {
					continue
				}
				ok, err := policy(edge)
				if err != nil {
					return -1, nil, fmt.Errorf("%s: edge %s: %w", query, edge, err)
				}
				if !ok {
					continue
				}
				visited[edge.To.ID] = true
				j := nodes.add(node{edge: edge, loc: edge.To, parent: i, g: from.g + StepCost, hops: hops})
				if edge.To.ID == dst.ID {
					e.logger.Debug("search complete", "query", query, "from", src.ID, "to", dst.ID, "expanded", expanded, "found", true, "hops", hops)
					return j, nodes, nil
				}
				next = append(next, j)
			}
		}
		generation = next
	}

	e.logger.Debug("search complete", "query", query, "from", src.ID, "to", dst.ID, "expanded", expanded, "found", false)
	return -1, nodes, nil
}
