package search

import "github.com/jwebster45206/wayfinder/pkg/world"

// StepCost is the cost of crossing any edge. Path cost is hop count.
const StepCost = 1.0

// Heuristic estimates the remaining cost from a to b.
//
// A* returns optimal paths only when the heuristic never overestimates,
// i.e. when adjacent locations are at most one coordinate unit apart. World
// builders are responsible for that scale. With an overestimating heuristic
// the search still terminates and still finds a path whenever one exists
// within the bound; it may just not be the shortest.
type Heuristic func(a, b *world.Location) float64

// Euclidean is straight-line distance between the two locations' coordinates.
func Euclidean(a, b *world.Location) float64 {
	return a.Coord.DistanceTo(b.Coord)
}

// ZeroHeuristic turns A* into uniform-cost search. Use it for worlds whose
// coordinates do not respect the one-unit-per-hop scale.
func ZeroHeuristic(_, _ *world.Location) float64 {
	return 0
}
