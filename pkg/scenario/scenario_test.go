package scenario

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/wayfinder/pkg/actor"
	"github.com/jwebster45206/wayfinder/pkg/search"
	"github.com/jwebster45206/wayfinder/pkg/world"
)

const keepFile = "../../data/scenarios/hollow_keep.json"

func loadKeep(t *testing.T) *Instance {
	t.Helper()
	s, err := Load(keepFile)
	if err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}
	in, err := s.Instantiate()
	if err != nil {
		t.Fatalf("Failed to instantiate scenario: %v", err)
	}
	return in
}

func quietEngine(in *Instance) *search.Engine {
	return in.Engine(search.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestLoad(t *testing.T) {
	s, err := Load(keepFile)
	if err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}
	if s.FileName != "hollow_keep.json" {
		t.Errorf("Expected file name from path, got %q", s.FileName)
	}
	if s.Name != "Hollow Keep" {
		t.Errorf("Expected name 'Hollow Keep', got %q", s.Name)
	}
	if s.Player != "warden" {
		t.Errorf("Expected player warden, got %q", s.Player)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Expected sample scenario to validate, got %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load("does_not_exist.json"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDecode_Strict(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"name": "x", "world": {"name": "w", "locations": []}, "weather": "rain"}`))
	if err == nil {
		t.Error("Expected unknown field to be rejected")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Scenario {
		return &Scenario{
			Name: "tiny",
			World: world.Spec{
				Name:      "tiny",
				Locations: []world.LocationSpec{{ID: "a"}, {ID: "b"}},
				Items:     []world.ItemSpec{{Item: world.Item{ID: "coin", Name: "coin"}, Location: "a"}},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr bool
		is      error
	}{
		{name: "valid", mutate: func(*Scenario) {}},
		{name: "missing name", mutate: func(s *Scenario) { s.Name = "" }, wantErr: true},
		{
			name:    "actor in unknown location",
			mutate:  func(s *Scenario) { s.Actors = []actor.Spec{{ID: "x", Location: "nowhere"}} },
			wantErr: true,
			is:      world.ErrUnknownLocation,
		},
		{
			name:    "actor id collides with item",
			mutate:  func(s *Scenario) { s.Actors = []actor.Spec{{ID: "coin", Location: "a"}} },
			wantErr: true,
		},
		{
			name:    "duplicate actors",
			mutate:  func(s *Scenario) { s.Actors = []actor.Spec{{ID: "x", Location: "a"}, {ID: "x", Location: "b"}} },
			wantErr: true,
		},
		{
			name:    "player is not an actor",
			mutate:  func(s *Scenario) { s.Player = "coin" },
			wantErr: true,
		},
		{
			name: "world errors surface",
			mutate: func(s *Scenario) {
				s.World.Locations[0].Exits = []world.ExitSpec{{Direction: world.North, To: "c"}}
			},
			wantErr: true,
			is:      world.ErrUnknownLocation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Expected %v in error chain, got %v", tt.is, err)
			}
		})
	}
}

func TestInstantiate_PlacesActors(t *testing.T) {
	in := loadKeep(t)
	if len(in.Actors) != 5 {
		t.Fatalf("Expected 5 actors, got %d", len(in.Actors))
	}
	if loc := in.World.LocationOf("cook"); loc == nil || loc.ID != "kitchen" {
		t.Errorf("Expected cook in kitchen, got %v", loc)
	}
	if in.Actor("ogre").Size() != world.Large {
		t.Errorf("Expected large ogre, got %s", in.Actor("ogre").Size())
	}
	if in.Actor("nobody") != nil {
		t.Error("Expected nil for unknown actor")
	}
}

func TestInstantiate_Independent(t *testing.T) {
	s, err := Load(keepFile)
	if err != nil {
		t.Fatal(err)
	}
	first, err := s.Instantiate()
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Instantiate()
	if err != nil {
		t.Fatal(err)
	}

	if err := first.World.Barrier("cellar_door").SetOpen(true); err != nil {
		t.Fatal(err)
	}
	if second.World.Barrier("cellar_door").Open {
		t.Error("Expected instances not to share barriers")
	}
	if err := first.World.Move("cat", first.World.Location("kitchen").ExitTo(world.Down)); err != nil {
		t.Fatal(err)
	}
	if second.World.LocationOf("cat").ID != "kitchen" {
		t.Error("Expected instances not to share actors")
	}
}

func TestInstance_Queries(t *testing.T) {
	in := loadKeep(t)
	reg := search.DefaultRegistry()
	eng := quietEngine(in)
	gate := in.World.Location("gate")

	tests := []struct {
		name     string
		policy   string
		as       string
		to       string
		expected int
	}{
		{name: "gate is locked", policy: search.PolicyOpen, to: "hall", expected: search.Unreachable},
		{name: "porter lets the warden in", policy: search.PolicyCapability, as: "warden", to: "hall", expected: 2},
		{name: "tower door holds", policy: search.PolicyCapability, as: "warden", to: "tower", expected: search.Unreachable},
		{name: "ignoring barriers", policy: search.PolicyIgnore, to: "tower_top", expected: 4},
		{name: "portcullis is locked", policy: search.PolicyOpenOrUnlocked, to: "yard", expected: search.Unreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := in.Policy(reg, tt.policy, tt.as)
			if err != nil {
				t.Fatalf("Failed to resolve policy: %v", err)
			}
			d, err := eng.DistanceBetween(gate, in.World.Location(tt.to), 10, policy)
			if err != nil {
				t.Fatal(err)
			}
			if d != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, d)
			}
		})
	}
}

func TestInstance_SightThroughPortcullis(t *testing.T) {
	in := loadKeep(t)
	eng := quietEngine(in)
	policy, err := in.Policy(search.DefaultRegistry(), search.PolicySeeThrough, "")
	if err != nil {
		t.Fatal(err)
	}
	d, err := eng.DistanceBetween(in.World.Location("courtyard"), in.World.Location("yard"), 1, policy)
	if err != nil {
		t.Fatal(err)
	}
	if d != 1 {
		t.Errorf("Expected the yard to be visible, got %d", d)
	}
}

func TestInstance_HiddenPassage(t *testing.T) {
	in := loadKeep(t)
	eng := quietEngine(in)
	cellar, gate := in.World.Location("cellar"), in.World.Location("gate")

	d, err := eng.As(in.Actor("cat")).DistanceBetween(cellar, gate, 1, search.IgnoreBarriers)
	if err != nil {
		t.Fatal(err)
	}
	if d != 1 {
		t.Errorf("Expected the cat to find the passage, got %d", d)
	}

	d, err = eng.As(in.Actor("ogre")).DistanceBetween(cellar, gate, 1, search.IgnoreBarriers)
	if err != nil {
		t.Fatal(err)
	}
	if d != search.Unreachable {
		t.Errorf("Expected the ogre to miss the passage, got %d", d)
	}
}

func TestInstance_CatNeedsTheCook(t *testing.T) {
	in := loadKeep(t)
	eng := quietEngine(in)
	policy, err := in.Policy(search.DefaultRegistry(), search.PolicyCapability, "cat")
	if err != nil {
		t.Fatal(err)
	}
	kitchen, cellar := in.World.Location("kitchen"), in.World.Location("cellar")

	d, err := eng.DistanceBetween(kitchen, cellar, 1, policy)
	if err != nil {
		t.Fatal(err)
	}
	if d != 1 {
		t.Errorf("Expected the cook to open the cellar for the cat, got %d", d)
	}

	if err := in.World.Remove("cook"); err != nil {
		t.Fatal(err)
	}
	d, err = eng.DistanceBetween(kitchen, cellar, 1, policy)
	if err != nil {
		t.Fatal(err)
	}
	if d != search.Unreachable {
		t.Errorf("Expected the cat to be stuck without the cook, got %d", d)
	}
}

func TestInstance_AcquireLanterns(t *testing.T) {
	in := loadKeep(t)
	eng := quietEngine(in)
	isLantern := func(th world.Thing) bool { return th.ThingName() == "lantern" }

	all, err := eng.AcquireAll(in.World.Location("gate"), isLantern, 10, search.IgnoreBarriers)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 lanterns, got %d", len(all))
	}
	if all[0].Thing.ThingID() != "lantern" || all[0].Path.Len() != 2 {
		t.Errorf("Expected hall lantern first at 2 hops, got %s at %d", all[0].Thing.ThingID(), all[0].Path.Len())
	}
	if all[1].Thing.ThingID() != "spare_lantern" || all[1].Path.Len() != 4 {
		t.Errorf("Expected tower lantern second at 4 hops, got %s at %d", all[1].Thing.ThingID(), all[1].Path.Len())
	}
}

func TestInstance_Policy_Errors(t *testing.T) {
	in := loadKeep(t)
	reg := search.DefaultRegistry()

	if _, err := in.Policy(reg, search.PolicyCapability, "ghost"); !errors.Is(err, ErrUnknownActor) {
		t.Errorf("Expected ErrUnknownActor, got %v", err)
	}
	if _, err := in.Policy(reg, search.PolicyCapability, ""); !errors.Is(err, search.ErrMissingTraveler) {
		t.Errorf("Expected ErrMissingTraveler, got %v", err)
	}
	if _, err := in.Policy(reg, "teleport", ""); !errors.Is(err, search.ErrUnknownPolicy) {
		t.Errorf("Expected ErrUnknownPolicy, got %v", err)
	}
}
