package world

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Direction labels an exit. Unknown is used for non-directional exits
// (portals, "enter", "climb") and has no opposite.
type Direction uint8

const (
	Unknown Direction = iota
	North
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	Up
	Down
)

// Directions lists every labelled direction in a stable order, Unknown last.
var Directions = []Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest, Up, Down, Unknown}

var directionNames = map[Direction]string{
	Unknown:   "unknown",
	North:     "north",
	NorthEast: "northeast",
	East:      "east",
	SouthEast: "southeast",
	South:     "south",
	SouthWest: "southwest",
	West:      "west",
	NorthWest: "northwest",
	Up:        "up",
	Down:      "down",
}

var directionAliases = map[string]Direction{
	"n":  North,
	"ne": NorthEast,
	"e":  East,
	"se": SouthEast,
	"s":  South,
	"sw": SouthWest,
	"w":  West,
	"nw": NorthWest,
	"u":  Up,
	"d":  Down,
}

var reverse = map[Direction]Direction{
	North:     South,
	NorthEast: SouthWest,
	East:      West,
	SouthEast: NorthWest,
	South:     North,
	SouthWest: NorthEast,
	West:      East,
	NorthWest: SouthEast,
	Up:        Down,
	Down:      Up,
	Unknown:   Unknown,
}

var titler = cases.Title(language.English)

// ParseDirection accepts full names ("northeast", "north-east") and the
// usual short forms ("ne").
func ParseDirection(s string) (Direction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	if d, ok := directionAliases[key]; ok {
		return d, nil
	}
	for d, name := range directionNames {
		if name == key {
			return d, nil
		}
	}
	return Unknown, fmt.Errorf("invalid direction %q", s)
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("direction(%d)", d)
}

// Title returns the display form, e.g. "Northeast".
func (d Direction) Title() string {
	return titler.String(d.String())
}

// Reverse returns the opposite direction. Unknown is its own reverse.
func (d Direction) Reverse() Direction {
	if r, ok := reverse[d]; ok {
		return r
	}
	return Unknown
}

// IsDirectional reports whether d has a meaningful opposite.
func (d Direction) IsDirectional() bool {
	return d != Unknown && d <= Down
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("direction: %w", err)
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DirectionSet is a bitmask of directions.
type DirectionSet uint16

// AllDirections permits every direction, including Unknown.
const AllDirections DirectionSet = 1<<(Down+1) - 1

// NewDirectionSet builds a set from the given directions.
func NewDirectionSet(dirs ...Direction) DirectionSet {
	var s DirectionSet
	for _, d := range dirs {
		s |= 1 << d
	}
	return s
}

func (s DirectionSet) Has(d Direction) bool {
	return s&(1<<d) != 0
}

func (s DirectionSet) Without(d Direction) DirectionSet {
	return s &^ (1 << d)
}

// IsSupersetOf reports whether every direction in other is also in s.
func (s DirectionSet) IsSupersetOf(other DirectionSet) bool {
	return s&other == other
}

// Slice returns the members of s in Directions order.
func (s DirectionSet) Slice() []Direction {
	out := make([]Direction, 0, len(Directions))
	for _, d := range Directions {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

func (s DirectionSet) String() string {
	names := make([]string, 0, len(Directions))
	for _, d := range s.Slice() {
		names = append(names, d.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
