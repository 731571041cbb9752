package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jwebster45206/wayfinder/pkg/actor"
	"github.com/jwebster45206/wayfinder/pkg/scenario"
	"github.com/jwebster45206/wayfinder/pkg/search"
	"github.com/jwebster45206/wayfinder/pkg/world"
)

var errUsage = errors.New("usage")

// Explorer walks one actor around a live scenario instance. Every route it
// plans uses the capability policy for that actor, so doors only open when
// the actor or someone nearby can open them.
type Explorer struct {
	instance *scenario.Instance
	self     *actor.Actor
	engine   *search.Engine
	policy   search.Policy
	maxHops  int

	// lastRoute is the most recent planned route, as directions.
	lastRoute []world.Direction
}

func NewExplorer(in *scenario.Instance, actorID string, maxHops int) (*Explorer, error) {
	self := in.Actor(actorID)
	if self == nil {
		return nil, fmt.Errorf("%w: %s", scenario.ErrUnknownActor, actorID)
	}
	policy, err := in.Policy(search.DefaultRegistry(), search.PolicyCapability, actorID)
	if err != nil {
		return nil, err
	}
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Explorer{
		instance: in,
		self:     self,
		engine:   in.Engine(search.WithLogger(quiet), search.WithObserver(self)),
		policy:   policy,
		maxHops:  maxHops,
	}, nil
}

// Here is the actor's current location.
func (x *Explorer) Here() *world.Location {
	return x.instance.World.LocationOf(x.self.ThingID())
}

// LastRoute renders the last planned route as a comma separated list.
func (x *Explorer) LastRoute() string {
	parts := make([]string, len(x.lastRoute))
	for i, d := range x.lastRoute {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}

// Run executes one command line and returns its output.
func (x *Explorer) Run(line string) (string, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "look", "l":
		return x.Look(), nil
	case "go":
		if len(args) != 1 {
			return "", fmt.Errorf("%w: go <direction>", errUsage)
		}
		return x.Go(args[0])
	case "n", "s", "e", "w", "ne", "nw", "se", "sw", "u", "d",
		"north", "south", "east", "west", "northeast", "northwest", "southeast", "southwest", "up", "down":
		return x.Go(cmd)
	case "path", "route":
		if len(args) == 0 {
			return "", fmt.Errorf("%w: %s <location>", errUsage, cmd)
		}
		return x.Route(strings.Join(args, " "), cmd == "path")
	case "find":
		if len(args) == 0 {
			return "", fmt.Errorf("%w: find <name>", errUsage)
		}
		return x.Find(strings.Join(args, " "))
	case "near":
		hops := 2
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 || n > x.maxHops {
				return "", fmt.Errorf("%w: near [0-%d]", errUsage, x.maxHops)
			}
			hops = n
		}
		return x.Near(hops)
	}
	return "", fmt.Errorf("unknown command %q, try help", cmd)
}

// Look describes the current location, its visible exits and who or what
// is there.
func (x *Explorer) Look() string {
	here := x.Here()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", here.Name, here.Description)

	exits := x.instance.World.Exits(here, x.self)
	if len(exits) == 0 {
		b.WriteString("There is no way out.\n")
	}
	for _, e := range exits {
		fmt.Fprintf(&b, "• %s to %s", e.Direction.Title(), e.To.Name)
		if e.Barrier != nil {
			state := "open"
			if !e.Barrier.IsOpen() {
				state = "closed"
				if e.Barrier.IsLocked() {
					state = "locked"
				}
			}
			fmt.Fprintf(&b, " (%s, %s)", e.Barrier.Name, state)
		}
		if e.Hidden {
			b.WriteString(" [hidden]")
		}
		b.WriteString("\n")
	}

	for _, t := range x.instance.World.Contents(here) {
		if t.ThingID() == x.self.ThingID() {
			continue
		}
		fmt.Fprintf(&b, "You see %s.\n", t.ThingName())
	}
	return b.String()
}

// Go moves the actor one step when the capability policy lets it through.
func (x *Explorer) Go(dir string) (string, error) {
	d, err := world.ParseDirection(dir)
	if err != nil {
		return "", err
	}
	here := x.Here()
	e := here.ExitTo(d)
	if e == nil || (e.Hidden && !x.self.Notices(e)) {
		return "", fmt.Errorf("you can't go %s from here", d)
	}
	ok, err := x.policy(e)
	if err != nil {
		return "", err
	}
	if !ok {
		if e.Barrier != nil {
			return "", fmt.Errorf("the %s won't let you through", e.Barrier.Name)
		}
		return "", fmt.Errorf("you don't fit through the way %s", d)
	}
	if err := x.instance.World.Move(x.self.ThingID(), e); err != nil {
		return "", err
	}
	return x.Look(), nil
}

// Route plans a path to a location by id or name. Shortest uses A*,
// otherwise the first path found breadth-first.
func (x *Explorer) Route(target string, shortest bool) (string, error) {
	dst := x.resolveLocation(target)
	if dst == nil {
		return "", fmt.Errorf("no place called %q", target)
	}

	var p *search.Path
	var err error
	if shortest {
		p, err = x.engine.ShortestPathBetween(x.Here(), dst, float64(x.maxHops), x.policy)
	} else {
		p, err = x.engine.FirstPathBetween(x.Here(), dst, x.maxHops, x.policy)
	}
	if err != nil {
		return "", err
	}
	if p == nil {
		return fmt.Sprintf("You can't find a way to %s.", dst.Name), nil
	}
	x.lastRoute = p.Directions()
	if p.Len() == 0 {
		return fmt.Sprintf("You are already in %s.", dst.Name), nil
	}
	return fmt.Sprintf("%s is %d steps away: %s", dst.Name, p.Len(), x.LastRoute()), nil
}

// Find looks for the nearest reachable thing whose id or name matches.
func (x *Explorer) Find(name string) (string, error) {
	pred := func(t world.Thing) bool {
		return t.ThingID() != x.self.ThingID() &&
			(t.ThingID() == name || strings.Contains(strings.ToLower(t.ThingName()), name))
	}
	a, err := x.engine.AcquireFirst(x.Here(), pred, x.maxHops, x.policy)
	if err != nil {
		return "", err
	}
	if a == nil {
		return fmt.Sprintf("Nothing called %q is within reach.", name), nil
	}
	x.lastRoute = a.Path.Directions()
	if a.Path.Len() == 0 {
		return fmt.Sprintf("The %s is right here.", a.Thing.ThingName()), nil
	}
	return fmt.Sprintf("The %s is in %s, %d steps away: %s",
		a.Thing.ThingName(), a.Location.Name, a.Path.Len(), x.LastRoute()), nil
}

// Near lists the locations reachable within hops.
func (x *Explorer) Near(hops int) (string, error) {
	reached, err := x.engine.Vicinity(x.Here(), hops, x.policy, nil)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Within %d steps:\n", hops)
	for _, r := range reached {
		fmt.Fprintf(&b, "• %s (%d)\n", r.Location.Name, r.Hops)
	}
	return b.String(), nil
}

func (x *Explorer) resolveLocation(target string) *world.Location {
	if loc := x.instance.World.Location(target); loc != nil {
		return loc
	}
	for _, loc := range x.instance.World.Locations() {
		if strings.EqualFold(loc.Name, target) {
			return loc
		}
	}
	return nil
}
