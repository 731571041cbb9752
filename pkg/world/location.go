package world

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Coord is a position in world space. It only feeds the search heuristic;
// nothing requires locations to lie on a grid.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceTo returns the straight-line distance between two coordinates.
func (c Coord) DistanceTo(o Coord) float64 {
	dx, dy, dz := c.X-o.X, c.Y-o.Y, c.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Size is a creature or opening size category.
type Size uint8

const (
	SizeAny Size = iota // on an edge: no size limit
	Tiny
	Small
	Medium
	Large
	Huge
	Gargantuan
)

var sizeNames = []string{"any", "tiny", "small", "medium", "large", "huge", "gargantuan"}

func ParseSize(s string) (Size, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return SizeAny, nil
	}
	for i, name := range sizeNames {
		if name == key {
			return Size(i), nil
		}
	}
	return SizeAny, fmt.Errorf("invalid size %q", s)
}

func (s Size) String() string {
	if int(s) < len(sizeNames) {
		return sizeNames[s]
	}
	return fmt.Sprintf("size(%d)", s)
}

// Fits reports whether a traveller of size s passes an opening limited to max.
func (s Size) Fits(max Size) bool {
	return max == SizeAny || s <= max
}

func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Size) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("size: %w", err)
	}
	parsed, err := ParseSize(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Thing is anything that can be found in a location.
type Thing interface {
	ThingID() string
	ThingName() string
}

// Traveler is a thing that moves along edges.
type Traveler interface {
	Thing
	Size() Size
}

// Observer decides which hidden exits it can see.
type Observer interface {
	Notices(e *Edge) bool
}

// Item is a plain object lying in a location.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (i *Item) ThingID() string   { return i.ID }
func (i *Item) ThingName() string { return i.Name }

// Edge is a directed exit from one location to another.
type Edge struct {
	Direction Direction
	From      *Location
	To        *Location
	Barrier   *Barrier
	MaxSize   Size // SizeAny means unlimited
	Hidden    bool
	NoticeDC  int // perception needed to notice a hidden exit
}

func (e *Edge) String() string {
	return fmt.Sprintf("%s -%s-> %s", e.From.ID, e.Direction, e.To.ID)
}

// Location is a node in the world graph.
type Location struct {
	ID          string
	Name        string
	Description string
	Coord       Coord

	exits    []*Edge
	contents []Thing
}

// NewLocation creates a detached location.
func NewLocation(id, name string, coord Coord) *Location {
	return &Location{ID: id, Name: name, Coord: coord}
}

func (l *Location) ThingID() string   { return l.ID }
func (l *Location) ThingName() string { return l.Name }

// Exits returns the outbound edges in insertion order.
func (l *Location) Exits() []*Edge {
	out := make([]*Edge, len(l.exits))
	copy(out, l.exits)
	return out
}

// ExitTo returns the first exit in the given direction, or nil.
func (l *Location) ExitTo(dir Direction) *Edge {
	for _, e := range l.exits {
		if e.Direction == dir {
			return e
		}
	}
	return nil
}

// RemoveExit drops the exit in the given direction. It reports whether an
// exit was removed.
func (l *Location) RemoveExit(dir Direction) bool {
	for i, e := range l.exits {
		if e.Direction == dir {
			l.exits = append(l.exits[:i], l.exits[i+1:]...)
			return true
		}
	}
	return false
}

// Contents returns the things currently in the location.
func (l *Location) Contents() []Thing {
	out := make([]Thing, len(l.contents))
	copy(out, l.contents)
	return out
}

func (l *Location) addThing(t Thing) {
	l.contents = append(l.contents, t)
}

func (l *Location) removeThing(id string) bool {
	for i, t := range l.contents {
		if t.ThingID() == id {
			l.contents = append(l.contents[:i], l.contents[i+1:]...)
			return true
		}
	}
	return false
}
