package actor

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/jwebster45206/d20"
	"github.com/jwebster45206/wayfinder/pkg/world"
)

// Dispositions an actor can hold toward others.
const (
	Friendly = "friendly"
	Neutral  = "neutral"
	Hostile  = "hostile"
)

// ErrNotActor is returned when door rules are asked about a traveler that
// was not built by this package.
var ErrNotActor = errors.New("traveler is not an actor")

// Stats5e represents the six core ability scores
type Stats5e struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// ToAttributes converts Stats5e to a map for d20.Actor compatibility
func (s *Stats5e) ToAttributes() map[string]int {
	return map[string]int{
		"strength":     s.Strength,
		"dexterity":    s.Dexterity,
		"constitution": s.Constitution,
		"intelligence": s.Intelligence,
		"wisdom":       s.Wisdom,
		"charisma":     s.Charisma,
	}
}

// Spec is the serializable description of an actor placed in a world.
type Spec struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Location    string         `json:"location"`                // location id where the actor starts
	Size        world.Size     `json:"size,omitempty"`          // defaults to medium
	Disposition string         `json:"disposition,omitempty"`   // "friendly", "neutral", "hostile"
	Faction     string         `json:"faction,omitempty"`       // actors of one faction open doors for each other
	NoHands     bool           `json:"no_hands,omitempty"`      // cannot work handles or keys (beasts, oozes)
	AnswersDoor bool           `json:"answers_door,omitempty"`  // opens up when someone knocks
	Keys        []string       `json:"keys,omitempty"`          // item ids that release locks
	Stats       Stats5e        `json:"stats,omitempty"`         // core ability scores
	Attributes  map[string]int `json:"attributes,omitempty"`    // skills, e.g. "perception"
	HP          int            `json:"hp,omitempty"`            // Current HP
	MaxHP       int            `json:"max_hp,omitempty"`        // Maximum HP
	AC          int            `json:"ac,omitempty"`
	Description string         `json:"description,omitempty"`
}

// Actor is the runtime form of a Spec. It travels the world graph and
// answers door questions from its d20 attributes.
type Actor struct {
	Spec  *Spec
	Actor *d20.Actor // Built at runtime from Spec
}

// New builds an Actor from spec.
func New(spec *Spec) (*Actor, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}
	if spec.ID == "" {
		return nil, fmt.Errorf("actor id is required")
	}
	if spec.Size == world.SizeAny {
		spec.Size = world.Medium
	}

	// Core stats first, then skills and anything else on top
	allAttrs := spec.Stats.ToAttributes()
	maps.Copy(allAttrs, spec.Attributes)

	maxHP := spec.MaxHP
	if maxHP <= 0 {
		maxHP = 1
	}
	ac := spec.AC
	if ac <= 0 {
		ac = 10
	}
	a, err := d20.NewActor(spec.ID).
		WithHP(maxHP).
		WithAC(ac).
		WithAttributes(allAttrs).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor %s: %w", spec.ID, err)
	}

	if spec.HP > 0 && spec.HP != maxHP {
		if err := a.SetHP(spec.HP); err != nil {
			return nil, fmt.Errorf("failed to set HP: %w", err)
		}
	}

	return &Actor{Spec: spec, Actor: a}, nil
}

func (a *Actor) ThingID() string { return a.Spec.ID }

func (a *Actor) ThingName() string {
	if a.Spec.Name != "" {
		return a.Spec.Name
	}
	return a.Spec.ID
}

func (a *Actor) Size() world.Size { return a.Spec.Size }

// Attribute returns an attribute value, or 0 if unset.
func (a *Actor) Attribute(key string) int {
	if v, ok := a.Actor.Attribute(key); ok {
		return v
	}
	return 0
}

// Modifier returns the ability modifier for a score attribute.
func (a *Actor) Modifier(key string) int {
	score := a.Attribute(key)
	// floor division, so 9 gives -1
	if score < 10 {
		return (score - 11) / 2
	}
	return (score - 10) / 2
}

// PassivePerception is the explicit "perception" attribute if set, otherwise
// 10 plus the wisdom modifier.
func (a *Actor) PassivePerception() int {
	if v, ok := a.Actor.Attribute("perception"); ok {
		return v
	}
	return 10 + a.Modifier("wisdom")
}

// Notices reports whether the actor sees e. Visible exits are always noticed.
func (a *Actor) Notices(e *world.Edge) bool {
	return !e.Hidden || a.PassivePerception() >= e.NoticeDC
}

// HasKey reports whether the actor carries the key with the given item id.
func (a *Actor) HasKey(keyID string) bool {
	return slices.Contains(a.Spec.Keys, keyID)
}

// Disposition defaults to neutral.
func (a *Actor) Disposition() string {
	if a.Spec.Disposition == "" {
		return Neutral
	}
	return a.Spec.Disposition
}

// Validate checks the fields a scenario file can get wrong.
func (s *Spec) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, fmt.Errorf("actor id is required"))
	}
	if s.Location == "" {
		errs = append(errs, fmt.Errorf("actor %s: location is required", s.ID))
	}
	switch s.Disposition {
	case "", Friendly, Neutral, Hostile:
	default:
		errs = append(errs, fmt.Errorf("actor %s: invalid disposition %q", s.ID, s.Disposition))
	}
	if s.HP < 0 || s.MaxHP < 0 {
		errs = append(errs, fmt.Errorf("actor %s: hp must not be negative", s.ID))
	}
	return errors.Join(errs...)
}
