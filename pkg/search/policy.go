package search

import (
	"fmt"

	"github.com/jwebster45206/wayfinder/pkg/world"
)

// Policy decides whether an edge may be crossed. Policies read barrier state
// at call time and must not cache it.
type Policy func(e *world.Edge) (bool, error)

// LocationPolicy decides whether a reached location is accepted by a
// vicinity query.
type LocationPolicy func(loc *world.Location) (bool, error)

// OpenOnly passes edges with no barrier or an open one.
func OpenOnly(e *world.Edge) (bool, error) {
	return e.Barrier.IsOpen(), nil
}

// OpenOrUnlocked passes open barriers and closed ones with no engaged lock.
func OpenOrUnlocked(e *world.Edge) (bool, error) {
	return e.Barrier.IsOpen() || !e.Barrier.IsLocked(), nil
}

// OpenOrSeeThrough passes open barriers and closed ones that let sight and
// missiles through. Used for line-of-sight and ranged attacks.
func OpenOrSeeThrough(e *world.Edge) (bool, error) {
	return e.Barrier.IsOpen() || e.Barrier.SeeThrough, nil
}

// IgnoreBarriers passes every edge.
func IgnoreBarriers(*world.Edge) (bool, error) {
	return true, nil
}

// AnyLocation accepts every location.
func AnyLocation(*world.Location) (bool, error) {
	return true, nil
}

// All passes an edge only if every policy does. It stops at the first
// rejection or error.
func All(policies ...Policy) Policy {
	return func(e *world.Edge) (bool, error) {
		for _, p := range policies {
			ok, err := p(e)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// Any passes an edge if at least one policy does.
func Any(policies ...Policy) Policy {
	return func(e *world.Edge) (bool, error) {
		for _, p := range policies {
			ok, err := p(e)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
}

// Not inverts a policy.
func Not(p Policy) Policy {
	return func(e *world.Edge) (bool, error) {
		ok, err := p(e)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}

// Interaction is how a third party is asked to open a barrier.
type Interaction int

const (
	Immediate Interaction = iota // opens on sight, e.g. a friendly doorman
	Social                       // opens when asked or persuaded
	Knock                        // opens after someone knocks
)

// Interactions lists the modes in the order the capability policy tries them.
var Interactions = []Interaction{Immediate, Social, Knock}

func (i Interaction) String() string {
	switch i {
	case Immediate:
		return "immediate"
	case Social:
		return "social"
	case Knock:
		return "knock"
	}
	return fmt.Sprintf("interaction(%d)", int(i))
}

// Capabilities answers who can open what. It is supplied by the host
// simulation; the engine only calls it.
type Capabilities interface {
	// CanOpen reports whether traveler can open b by itself (keys, strength).
	CanOpen(traveler world.Traveler, b *world.Barrier) (bool, error)

	// WouldOpenFor reports whether guard would open b for traveler under mode.
	WouldOpenFor(guard, traveler world.Traveler, b *world.Barrier, mode Interaction) (bool, error)
}

// CapabilityAware passes an edge when traveler fits through it and the
// barrier is open, traveler can open it, or another traveler on either side
// would open it. Guards are found through contents; a nil contents host
// means nobody else can help. Size is checked first: an edge too small for
// traveler is impassable whatever the barrier state.
func CapabilityAware(traveler world.Traveler, caps Capabilities, contents ContentsHost) Policy {
	return func(e *world.Edge) (bool, error) {
		if !traveler.Size().Fits(e.MaxSize) {
			return false, nil
		}
		if e.Barrier.IsOpen() {
			return true, nil
		}
		ok, err := caps.CanOpen(traveler, e.Barrier)
		if err != nil {
			return false, fmt.Errorf("can %s open %s: %w", traveler.ThingID(), e.Barrier.ID, err)
		}
		if ok {
			return true, nil
		}
		if contents == nil {
			return false, nil
		}
		for _, guard := range guards(contents, e, traveler) {
			for _, mode := range Interactions {
				ok, err := caps.WouldOpenFor(guard, traveler, e.Barrier, mode)
				if err != nil {
					return false, fmt.Errorf("would %s open %s (%s): %w", guard.ThingID(), e.Barrier.ID, mode, err)
				}
				if ok {
					return true, nil
				}
			}
		}
		return false, nil
	}
}

// guards returns the travelers other than self at either end of e.
func guards(contents ContentsHost, e *world.Edge, self world.Traveler) []world.Traveler {
	var out []world.Traveler
	for _, loc := range []*world.Location{e.From, e.To} {
		for _, t := range contents.Contents(loc) {
			g, ok := t.(world.Traveler)
			if !ok || g.ThingID() == self.ThingID() {
				continue
			}
			out = append(out, g)
		}
	}
	return out
}
