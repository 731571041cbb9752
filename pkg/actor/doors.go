package actor

import (
	"fmt"

	"github.com/jwebster45206/wayfinder/pkg/search"
	"github.com/jwebster45206/wayfinder/pkg/world"
)

// DoorRules decides who can open which barriers. It implements
// search.Capabilities for actors built by this package.
//
// The rules are deterministic: no dice are rolled, so the same world state
// always yields the same route.
//   - An actor with hands opens a closed barrier when it carries a key for
//     every engaged lock.
//   - Any actor forces a forceable barrier when its strength score meets
//     the barrier's ForceDC.
//   - A guard helps only if it could open the barrier itself and is not
//     hostile. Immediate: friendly, or same faction. Social: neutral and the
//     traveler's charisma meets the guard's wisdom. Knock: the guard answers
//     the door.
type DoorRules struct{}

var _ search.Capabilities = DoorRules{}

func (DoorRules) CanOpen(traveler world.Traveler, b *world.Barrier) (bool, error) {
	a, err := asActor(traveler)
	if err != nil {
		return false, err
	}
	return a.canOpen(b), nil
}

func (DoorRules) WouldOpenFor(guard, traveler world.Traveler, b *world.Barrier, mode search.Interaction) (bool, error) {
	g, err := asActor(guard)
	if err != nil {
		return false, err
	}
	t, err := asActor(traveler)
	if err != nil {
		return false, err
	}

	if g.Disposition() == Hostile || !g.canOpen(b) {
		return false, nil
	}
	switch mode {
	case search.Immediate:
		return g.Disposition() == Friendly || (g.Spec.Faction != "" && g.Spec.Faction == t.Spec.Faction), nil
	case search.Social:
		return g.Disposition() == Neutral && t.Attribute("charisma") >= g.Attribute("wisdom"), nil
	case search.Knock:
		return g.Spec.AnswersDoor, nil
	}
	return false, fmt.Errorf("unsupported interaction %s", mode)
}

func (a *Actor) canOpen(b *world.Barrier) bool {
	if b.IsOpen() {
		return true
	}
	if !a.Spec.NoHands && a.holdsKeysFor(b) {
		return true
	}
	return b.Forceable && a.Attribute("strength") >= b.ForceDC
}

func (a *Actor) holdsKeysFor(b *world.Barrier) bool {
	for _, l := range b.EngagedLocks() {
		if l.KeyID == "" || !a.HasKey(l.KeyID) {
			return false
		}
	}
	return true
}

func asActor(t world.Traveler) (*Actor, error) {
	a, ok := t.(*Actor)
	if !ok || a == nil {
		return nil, fmt.Errorf("%w: %T", ErrNotActor, t)
	}
	return a, nil
}
