package search

import (
	"fmt"
	"math"

	"github.com/jwebster45206/wayfinder/pkg/world"
)

// ShortestPathBetween returns a least-cost path from src to dst whose cost
// does not exceed maxCost, or nil if there is none. Entries are ordered by
// g + heuristic; an entry whose g is worse than the best recorded for its
// location is stale and skipped.
//
// Paths are optimal when the engine's heuristic never overestimates (see
// Heuristic). Pruning is on g alone: an entry whose g exceeds maxCost is
// never enqueued, so the search ends when the frontier empties. The queued
// g+h is never compared with maxCost, so an overestimating heuristic cannot
// hide a path that fits the bound.
func (e *Engine) ShortestPathBetween(src, dst *world.Location, maxCost float64, policy Policy) (*Path, error) {
	if src == nil || dst == nil {
		return nil, ErrNilLocation
	}
	if maxCost < 0 || math.IsNaN(maxCost) {
		return nil, fmt.Errorf("%w: maxCost=%v", ErrNegativeBound, maxCost)
	}
	if policy == nil {
		return nil, ErrNilPolicy
	}
	if src.ID == dst.ID {
		return &Path{Origin: src}, nil
	}

	nodes := arena{{loc: src, parent: -1}}
	best := map[string]float64{src.ID: 0}
	frontier := NewFrontier[int]()
	frontier.Enqueue(e.heuristic(src, dst), 0)
	expanded, stale := 0, 0

	for frontier.Len() > 0 {
		i, err := frontier.DequeueMin()
		if err != nil {
			return nil, err
		}
		cur := nodes[i]
		if cur.g > best[cur.loc.ID] {
			stale++
			continue
		}
		if cur.loc.ID == dst.ID {
			e.logger.Debug("search complete", "query", "shortest_path", "from", src.ID, "to", dst.ID,
				"expanded", expanded, "stale", stale, "found", true, "cost", cur.g)
			return &Path{Origin: src, Edges: nodes.path(i)}, nil
		}

		expanded++
		for _, edge := range e.exits(cur.loc) {
			g := cur.g + StepCost
			if g > maxCost {
				continue
			}
			if b, ok := best[edge.To.ID]; ok && g >= b {
				continue
			}
			ok, err := policy(edge)
			if err != nil {
				return nil, fmt.Errorf("shortest_path: edge %s: %w", edge, err)
			}
			if !ok {
				continue
			}
			best[edge.To.ID] = g
			j := nodes.add(node{edge: edge, loc: edge.To, parent: i, g: g, hops: cur.hops + 1})
			frontier.Enqueue(g+e.heuristic(edge.To, dst), j)
		}
	}

	e.logger.Debug("search complete", "query", "shortest_path", "from", src.ID, "to", dst.ID,
		"expanded", expanded, "stale", stale, "found", false)
	return nil, nil
}
