package search

import (
	"log/slog"

	"github.com/jwebster45206/wayfinder/pkg/world"
)

// Graph supplies the outbound edges of a location as seen by an observer.
// A nil observer sees every edge.
type Graph interface {
	Exits(loc *world.Location, observer world.Observer) []*world.Edge
}

// ContentsHost supplies the things in a location for acquisition queries.
type ContentsHost interface {
	Contents(loc *world.Location) []world.Thing
}

// Engine runs queries against a graph.
type Engine struct {
	graph     Graph
	contents  ContentsHost
	observer  world.Observer
	heuristic Heuristic
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-query debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithHeuristic replaces the A* heuristic (default Euclidean).
func WithHeuristic(h Heuristic) Option {
	return func(e *Engine) { e.heuristic = h }
}

// WithContents sets the contents host used by acquisition queries.
func WithContents(c ContentsHost) Option {
	return func(e *Engine) { e.contents = c }
}

// WithObserver limits every query to the edges observer can see.
func WithObserver(o world.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New creates an engine over graph. If graph also implements ContentsHost it
// is used for acquisition unless WithContents overrides it.
func New(graph Graph, opts ...Option) *Engine {
	e := &Engine{
		graph:     graph,
		heuristic: Euclidean,
		logger:    slog.Default(),
	}
	if c, ok := graph.(ContentsHost); ok {
		e.contents = c
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// As returns a copy of the engine that sees the graph through observer.
func (e *Engine) As(observer world.Observer) *Engine {
	cp := *e
	cp.observer = observer
	return &cp
}

func (e *Engine) exits(loc *world.Location) []*world.Edge {
	return e.graph.Exits(loc, e.observer)
}

// Unreachable is the distance returned when the target is not found.
const Unreachable = -1

// Path is a sequence of edges starting at Origin. An empty Edges slice is the
// zero-length path from a location to itself.
type Path struct {
	Origin *world.Location
	Edges  []*world.Edge
}

// Len returns the number of edges.
func (p *Path) Len() int {
	return len(p.Edges)
}

// Cost is the summed step cost.
func (p *Path) Cost() float64 {
	return float64(len(p.Edges)) * StepCost
}

// Destination is the last location on the path.
func (p *Path) Destination() *world.Location {
	if len(p.Edges) == 0 {
		return p.Origin
	}
	return p.Edges[len(p.Edges)-1].To
}

// Locations returns every location on the path, origin and destination included.
func (p *Path) Locations() []*world.Location {
	out := make([]*world.Location, 0, len(p.Edges)+1)
	out = append(out, p.Origin)
	for _, edge := range p.Edges {
		out = append(out, edge.To)
	}
	return out
}

// Directions returns the direction of each step.
func (p *Path) Directions() []world.Direction {
	out := make([]world.Direction, len(p.Edges))
	for i, edge := range p.Edges {
		out[i] = edge.Direction
	}
	return out
}

// node is one step in a search tree. Nodes live in a per-query arena and
// refer to their parent by index; -1 marks the root.
type node struct {
	edge   *world.Edge
	loc    *world.Location
	parent int
	g      float64
	hops   int
}

type arena []node

func (a *arena) add(n node) int {
	*a = append(*a, n)
	return len(*a) - 1
}

// path walks parents from i back to the root and returns the edges in
// travel order.
func (a arena) path(i int) []*world.Edge {
	var edges []*world.Edge
	for ; i >= 0 && a[i].edge != nil; i = a[i].parent {
		edges = append(edges, a[i].edge)
	}
	for l, r := 0, len(edges)-1; l < r; l, r = l+1, r-1 {
		edges[l], edges[r] = edges[r], edges[l]
	}
	return edges
}
