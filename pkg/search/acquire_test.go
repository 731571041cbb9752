package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/jwebster45206/wayfinder/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(prefix string) Predicate {
	return func(t world.Thing) bool { return strings.HasPrefix(t.ThingName(), prefix) }
}

func TestAcquireFirst_OriginBeforeNeighbours(t *testing.T) {
	w, a, b, _ := lineWorld(t)
	require.NoError(t, w.Place(&world.Item{ID: "coin_b", Name: "coin"}, b))
	require.NoError(t, w.Place(&world.Item{ID: "coin_a", Name: "coin"}, a))
	eng := newEngine(w)

	got, err := eng.AcquireFirst(a, named("coin"), 3, OpenOnly)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "coin_a", got.Thing.ThingID())
	assert.Equal(t, a, got.Location)
	assert.Equal(t, 0, got.Path.Len())
}

func TestAcquireFirst_Nearest(t *testing.T) {
	w, a, _, c := lineWorld(t)
	require.NoError(t, w.Place(&world.Item{ID: "sword", Name: "sword"}, c))
	eng := newEngine(w)

	got, err := eng.AcquireFirst(a, named("sword"), 3, OpenOnly)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c, got.Location)
	assert.Equal(t, []string{"A->B", "B->C"}, edgeIDs(got.Path))

	got, err = eng.AcquireFirst(a, named("sword"), 1, OpenOnly)
	require.NoError(t, err)
	assert.Nil(t, got, "sword is two hops away")
}

func TestAcquireAll_SharedPathAndOrder(t *testing.T) {
	w, a, b, c := lineWorld(t)
	require.NoError(t, w.Place(&world.Item{ID: "rat1", Name: "rat"}, c))
	require.NoError(t, w.Place(&world.Item{ID: "rat2", Name: "rat"}, b))
	require.NoError(t, w.Place(&world.Item{ID: "rat3", Name: "rat"}, b))
	require.NoError(t, w.Place(&world.Item{ID: "cheese", Name: "cheese"}, b))
	eng := newEngine(w)

	all, err := eng.AcquireAll(a, named("rat"), 5, OpenOnly)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "rat2", all[0].Thing.ThingID())
	assert.Equal(t, "rat3", all[1].Thing.ThingID())
	assert.Equal(t, "rat1", all[2].Thing.ThingID())
	assert.Same(t, all[0].Path, all[1].Path, "matches in one location share a path")
	assert.Equal(t, 1, all[0].Path.Len())
	assert.Equal(t, 2, all[2].Path.Len())
}

func TestAcquire_FirstNilIffAllEmpty(t *testing.T) {
	w := gridWorld(t, 4, 4)
	door := lockedDoor("d")
	w.Location("1,1").ExitTo(world.East).Barrier = door
	require.NoError(t, w.Place(&world.Item{ID: "gem", Name: "gem"}, w.Location("3,3")))
	require.NoError(t, w.Place(&world.Item{ID: "key", Name: "key"}, w.Location("0,1")))
	eng := newEngine(w)

	preds := []Predicate{named("gem"), named("key"), named("ghost")}
	for _, origin := range w.Locations() {
		for _, pred := range preds {
			for n := 0; n <= 6; n++ {
				first, err := eng.AcquireFirst(origin, pred, n, OpenOnly)
				require.NoError(t, err)
				all, err := eng.AcquireAll(origin, pred, n, OpenOnly)
				require.NoError(t, err)
				assert.Equal(t, first == nil, len(all) == 0, "origin %s bound %d", origin.ID, n)
				if first != nil {
					assert.Equal(t, first.Thing, all[0].Thing)
					assert.Equal(t, first.Path.Len(), all[0].Path.Len())
				}
			}
		}
	}
}

func TestAcquire_MatchLocations(t *testing.T) {
	w, a, _, c := lineWorld(t)
	eng := newEngine(w)
	isC := func(t world.Thing) bool { return t.ThingID() == "C" }

	got, err := eng.AcquireFirst(a, isC, 5, OpenOnly)
	require.NoError(t, err)
	assert.Nil(t, got, "locations are not tested by default")

	got, err = eng.AcquireFirst(a, isC, 5, OpenOnly, MatchLocations())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c, got.Thing)
	assert.Equal(t, c, got.Location)
}

func TestAcquire_BlockedByPolicy(t *testing.T) {
	w, a, b, c := lineWorld(t)
	b.ExitTo(world.East).Barrier = lockedDoor("bc")
	require.NoError(t, w.Place(&world.Item{ID: "chest", Name: "chest"}, c))
	eng := newEngine(w)

	got, err := eng.AcquireFirst(a, named("chest"), 5, OpenOnly)
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := eng.AcquireAll(a, named("chest"), 5, IgnoreBarriers)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

type emptyGraph struct{}

func (emptyGraph) Exits(*world.Location, world.Observer) []*world.Edge { return nil }

func TestAcquire_Errors(t *testing.T) {
	w, a, _, _ := lineWorld(t)
	eng := newEngine(w)

	_, err := eng.AcquireFirst(a, nil, 2, OpenOnly)
	assert.ErrorIs(t, err, ErrNilPolicy)
	_, err = eng.AcquireAll(nil, named("x"), 2, OpenOnly)
	assert.ErrorIs(t, err, ErrNilLocation)

	bare := New(emptyGraph{}, WithLogger(quietLogger()))
	_, err = bare.AcquireFirst(a, named("x"), 2, OpenOnly)
	assert.ErrorIs(t, err, ErrNoContents)

	boom := errors.New("boom")
	all, err := eng.AcquireAll(a, named("x"), 2, func(*world.Edge) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, all, "no partial results")
}
