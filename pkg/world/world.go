package world

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownLocation is returned when an id does not name a location in the world.
	ErrUnknownLocation = errors.New("unknown location")

	// ErrDuplicateLocation is returned when adding a location whose id is taken.
	ErrDuplicateLocation = errors.New("duplicate location")

	// ErrThingNotFound is returned when a thing is not in any location.
	ErrThingNotFound = errors.New("thing not found")
)

// World is the mutable location graph. It is not safe for concurrent use;
// the simulation tick that owns it serialises mutation and queries.
type World struct {
	Name string

	locations map[string]*Location
	order     []*Location
	where     map[string]*Location // thing id -> location
	barriers  map[string]*Barrier
}

// New creates an empty world.
func New(name string) *World {
	return &World{
		Name:      name,
		locations: make(map[string]*Location),
		where:     make(map[string]*Location),
		barriers:  make(map[string]*Barrier),
	}
}

// Add registers a location.
func (w *World) Add(loc *Location) error {
	if loc == nil || loc.ID == "" {
		return fmt.Errorf("location must have an id")
	}
	if _, ok := w.locations[loc.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLocation, loc.ID)
	}
	w.locations[loc.ID] = loc
	w.order = append(w.order, loc)
	return nil
}

// Location returns the location with the given id, or nil.
func (w *World) Location(id string) *Location {
	return w.locations[id]
}

// Locations returns every location in insertion order.
func (w *World) Locations() []*Location {
	out := make([]*Location, len(w.order))
	copy(out, w.order)
	return out
}

// Barrier returns a registered barrier by id, or nil.
func (w *World) Barrier(id string) *Barrier {
	return w.barriers[id]
}

// AddBarrier registers a barrier so it can be shared by several edges.
func (w *World) AddBarrier(b *Barrier) {
	w.barriers[b.ID] = b
}

// EdgeOption customises an edge created by Connect.
type EdgeOption func(*Edge)

// WithBarrier gates the edge with b.
func WithBarrier(b *Barrier) EdgeOption {
	return func(e *Edge) { e.Barrier = b }
}

// WithMaxSize limits the size of travellers that fit through the edge.
func WithMaxSize(s Size) EdgeOption {
	return func(e *Edge) { e.MaxSize = s }
}

// WithHidden marks the edge as hidden behind a perception check.
func WithHidden(noticeDC int) EdgeOption {
	return func(e *Edge) {
		e.Hidden = true
		e.NoticeDC = noticeDC
	}
}

// Connect adds a directed edge from -> to and returns it.
func (w *World) Connect(from, to *Location, dir Direction, opts ...EdgeOption) (*Edge, error) {
	if from == nil || to == nil {
		return nil, fmt.Errorf("connect %s: %w", dir, ErrUnknownLocation)
	}
	if w.locations[from.ID] != from || w.locations[to.ID] != to {
		return nil, fmt.Errorf("connect %s -> %s: %w", from.ID, to.ID, ErrUnknownLocation)
	}
	e := &Edge{Direction: dir, From: from, To: to}
	for _, opt := range opts {
		opt(e)
	}
	from.exits = append(from.exits, e)
	return e, nil
}

// ConnectBoth adds dir from a to b and the reverse from b to a. Both edges
// share the options, so a barrier passed with WithBarrier is one door.
// Neither edge is added unless both locations belong to w.
func (w *World) ConnectBoth(a, b *Location, dir Direction, opts ...EdgeOption) (*Edge, *Edge, error) {
	there, err := w.Connect(a, b, dir, opts...)
	if err != nil {
		return nil, nil, err
	}
	// a and b are both registered, so the reverse edge cannot fail.
	back, _ := w.Connect(b, a, dir.Reverse(), opts...)
	return there, back, nil
}

// Exits returns the edges out of loc that observer can use. A nil observer
// sees every edge, hidden or not.
func (w *World) Exits(loc *Location, observer Observer) []*Edge {
	if loc == nil {
		return nil
	}
	if observer == nil {
		return loc.Exits()
	}
	out := make([]*Edge, 0, len(loc.exits))
	for _, e := range loc.exits {
		if e.Hidden && !observer.Notices(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Contents returns the things in loc.
func (w *World) Contents(loc *Location) []Thing {
	if loc == nil {
		return nil
	}
	return loc.Contents()
}

// Place puts t into loc. A thing already placed elsewhere is moved.
func (w *World) Place(t Thing, loc *Location) error {
	if loc == nil || w.locations[loc.ID] != loc {
		return fmt.Errorf("place %s: %w", t.ThingID(), ErrUnknownLocation)
	}
	if prev, ok := w.where[t.ThingID()]; ok {
		prev.removeThing(t.ThingID())
	}
	loc.addThing(t)
	w.where[t.ThingID()] = loc
	return nil
}

// Remove takes the thing with the given id out of the world.
func (w *World) Remove(thingID string) error {
	loc, ok := w.where[thingID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrThingNotFound, thingID)
	}
	loc.removeThing(thingID)
	delete(w.where, thingID)
	return nil
}

// Move relocates a placed thing along e. The thing must be in e.From.
func (w *World) Move(thingID string, e *Edge) error {
	loc, ok := w.where[thingID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrThingNotFound, thingID)
	}
	if loc != e.From {
		return fmt.Errorf("%s is in %s, not %s", thingID, loc.ID, e.From.ID)
	}
	var thing Thing
	for _, t := range loc.contents {
		if t.ThingID() == thingID {
			thing = t
			break
		}
	}
	return w.Place(thing, e.To)
}

// LocationOf returns where the thing is, or nil.
func (w *World) LocationOf(thingID string) *Location {
	return w.where[thingID]
}

// Thing looks up a placed thing by id.
func (w *World) Thing(thingID string) Thing {
	loc := w.where[thingID]
	if loc == nil {
		return nil
	}
	for _, t := range loc.contents {
		if t.ThingID() == thingID {
			return t
		}
	}
	return nil
}
