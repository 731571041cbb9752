// Package search is the spatial query engine over a world graph.
//
// It answers distance, path, vicinity and acquisition queries against a
// live, externally mutated graph. Queries are synchronous: each call reads
// the graph, runs to completion and returns. Nothing is cached between
// calls, so a door opened between two queries is seen by the second.
//
// # Not found
//
// Failing to find something is a normal outcome and is never an error:
// distance queries return Unreachable, path queries a nil *Path, acquisition
// a nil *Acquisition or an empty slice. Errors are reserved for invalid
// input and for failures raised by policies or collaborators, which are
// returned unchanged (wrapped with context) rather than treated as
// "impassable".
//
// # Thread safety
//
// An Engine holds no per-query state and may be shared, but the graph it
// reads is not synchronised. Callers serialise queries with graph mutation.
package search

import "errors"

// Sentinel errors for search operations.
var (
	// ErrNilLocation is returned when a source, target or origin is nil.
	ErrNilLocation = errors.New("location is nil")

	// ErrNegativeBound is returned when maxHops or maxCost is negative.
	ErrNegativeBound = errors.New("search bound is negative")

	// ErrNilPolicy is returned when a required policy or predicate is nil.
	ErrNilPolicy = errors.New("policy is nil")

	// ErrFrontierEmpty is returned by DequeueMin on an empty frontier.
	ErrFrontierEmpty = errors.New("frontier is empty")

	// ErrUnknownPolicy is returned by Registry.Resolve for an unregistered name.
	ErrUnknownPolicy = errors.New("unknown traversal policy")

	// ErrNoContents is returned by acquisition queries on an engine built
	// without a ContentsHost.
	ErrNoContents = errors.New("engine has no contents host")

	// ErrMissingTraveler is returned when an entity-aware policy is
	// requested without a traveler or capability collaborator.
	ErrMissingTraveler = errors.New("policy requires a traveler and capabilities")
)
