package search

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/jwebster45206/wayfinder/pkg/world"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newEngine(w *world.World, opts ...Option) *Engine {
	return New(w, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

// lineWorld builds A - B - C running east, two-way, one unit apart.
func lineWorld(t *testing.T) (*world.World, *world.Location, *world.Location, *world.Location) {
	t.Helper()
	w := world.New("line")
	a := world.NewLocation("A", "A", world.Coord{X: 0})
	b := world.NewLocation("B", "B", world.Coord{X: 1})
	c := world.NewLocation("C", "C", world.Coord{X: 2})
	for _, l := range []*world.Location{a, b, c} {
		mustAdd(t, w, l)
	}
	mustConnectBoth(t, w, a, b, world.East)
	mustConnectBoth(t, w, b, c, world.East)
	return w, a, b, c
}

// gridWorld builds a width x height grid of two-way compass links with ids
// "x,y" and unit spacing.
func gridWorld(t *testing.T, width, height int) *world.World {
	t.Helper()
	w := world.New("grid")
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mustAdd(t, w, world.NewLocation(gridID(x, y), gridID(x, y), world.Coord{X: float64(x), Y: float64(y)}))
		}
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			here := w.Location(gridID(x, y))
			if x+1 < width {
				mustConnectBoth(t, w, here, w.Location(gridID(x+1, y)), world.East)
			}
			if y+1 < height {
				mustConnectBoth(t, w, here, w.Location(gridID(x, y+1)), world.North)
			}
		}
	}
	return w
}

func gridID(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

func mustAdd(t *testing.T, w *world.World, l *world.Location) {
	t.Helper()
	if err := w.Add(l); err != nil {
		t.Fatalf("add %s: %v", l.ID, err)
	}
}

func mustConnect(t *testing.T, w *world.World, from, to *world.Location, dir world.Direction, opts ...world.EdgeOption) *world.Edge {
	t.Helper()
	e, err := w.Connect(from, to, dir, opts...)
	if err != nil {
		t.Fatalf("connect %s -> %s: %v", from.ID, to.ID, err)
	}
	return e
}

func mustConnectBoth(t *testing.T, w *world.World, a, b *world.Location, dir world.Direction, opts ...world.EdgeOption) {
	t.Helper()
	if _, _, err := w.ConnectBoth(a, b, dir, opts...); err != nil {
		t.Fatalf("connect %s <-> %s: %v", a.ID, b.ID, err)
	}
}

func lockedDoor(id string) *world.Barrier {
	return &world.Barrier{ID: id, Locks: []*world.Lock{{ID: id + "_lock", KeyID: id + "_key", Engaged: true}}}
}

func edgeIDs(p *Path) []string {
	out := make([]string, len(p.Edges))
	for i, e := range p.Edges {
		out[i] = e.From.ID + "->" + e.To.ID
	}
	return out
}

func locationIDs(locs []*world.Location) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.ID
	}
	return out
}

// bfsHops is an independent reference for true shortest hop distance.
func bfsHops(w *world.World, origin *world.Location) map[string]int {
	dist := map[string]int{origin.ID: 0}
	queue := []*world.Location{origin}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range w.Exits(cur, nil) {
			if _, ok := dist[e.To.ID]; !ok {
				dist[e.To.ID] = dist[cur.ID] + 1
				queue = append(queue, e.To)
			}
		}
	}
	return dist
}

type testTraveler struct {
	id   string
	size world.Size
}

func (tt *testTraveler) ThingID() string   { return tt.id }
func (tt *testTraveler) ThingName() string { return tt.id }
func (tt *testTraveler) Size() world.Size  { return tt.size }
