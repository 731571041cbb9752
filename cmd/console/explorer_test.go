package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/jwebster45206/wayfinder/pkg/scenario"
)

func newTestExplorer(t *testing.T, actorID string) *Explorer {
	t.Helper()
	s, err := scenario.Load("../../data/scenarios/hollow_keep.json")
	if err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}
	in, err := s.Instantiate()
	if err != nil {
		t.Fatalf("Failed to instantiate scenario: %v", err)
	}
	x, err := NewExplorer(in, actorID, 16)
	if err != nil {
		t.Fatalf("Failed to create explorer: %v", err)
	}
	return x
}

func TestNewExplorer_UnknownActor(t *testing.T) {
	s, err := scenario.Load("../../data/scenarios/hollow_keep.json")
	if err != nil {
		t.Fatal(err)
	}
	in, err := s.Instantiate()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewExplorer(in, "ghost", 16); !errors.Is(err, scenario.ErrUnknownActor) {
		t.Errorf("Expected ErrUnknownActor, got %v", err)
	}
}

func TestExplorer_Run(t *testing.T) {
	tests := []struct {
		name     string
		commands []string
		contains string
		wantErr  bool
		usage    bool
	}{
		{name: "look", commands: []string{"look"}, contains: "North to Courtyard (iron-bound gate, locked)"},
		{name: "porter opens the gate", commands: []string{"n"}, contains: "Courtyard"},
		{name: "portcullis holds", commands: []string{"north", "go west"}, contains: "rusted portcullis", wantErr: true},
		{name: "no exit that way", commands: []string{"go east"}, wantErr: true},
		{name: "bad direction", commands: []string{"go sideways"}, wantErr: true},
		{name: "shortest path", commands: []string{"path hall"}, contains: "Great Hall is 2 steps away: north, north"},
		{name: "first route by name", commands: []string{"route great hall"}, contains: "2 steps away"},
		{name: "already there", commands: []string{"path gate"}, contains: "already in Gatehouse"},
		{name: "tower door holds", commands: []string{"path tower"}, contains: "can't find a way to Tower Stair"},
		{name: "unknown place", commands: []string{"path moon"}, wantErr: true},
		{name: "find lantern", commands: []string{"find lantern"}, contains: "The lantern is in Great Hall, 2 steps away"},
		{name: "find nothing", commands: []string{"find dragon"}, contains: "Nothing called"},
		{name: "near", commands: []string{"near 1"}, contains: "Courtyard (1)"},
		{name: "near bad count", commands: []string{"near many"}, wantErr: true, usage: true},
		{name: "go without direction", commands: []string{"go"}, wantErr: true, usage: true},
		{name: "unknown command", commands: []string{"dance"}, wantErr: true},
		{name: "blank line", commands: []string{"   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newTestExplorer(t, "warden")
			var out string
			var err error
			for _, cmd := range tt.commands {
				out, err = x.Run(cmd)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if tt.usage && !errors.Is(err, errUsage) {
				t.Errorf("Expected a usage error, got %v", err)
			}
			text := out
			if err != nil {
				text = err.Error()
			}
			if !strings.Contains(text, tt.contains) {
				t.Errorf("Expected %q in output, got:\n%s", tt.contains, text)
			}
		})
	}
}

func TestExplorer_GoMovesActor(t *testing.T) {
	x := newTestExplorer(t, "warden")
	if _, err := x.Run("n"); err != nil {
		t.Fatal(err)
	}
	if x.Here().ID != "courtyard" {
		t.Errorf("Expected warden in courtyard, got %s", x.Here().ID)
	}
	if _, err := x.Run("go west"); err == nil {
		t.Fatal("Expected the portcullis to stop the warden")
	}
	if x.Here().ID != "courtyard" {
		t.Errorf("Expected a failed move to leave the warden in place, got %s", x.Here().ID)
	}
}

func TestExplorer_CatTakesTheHiddenPassage(t *testing.T) {
	x := newTestExplorer(t, "cat")

	out, err := x.Run("d")
	if err != nil {
		t.Fatalf("Expected the cook to open the cellar door: %v", err)
	}
	if !strings.Contains(out, "Southwest to Gatehouse") || !strings.Contains(out, "[hidden]") {
		t.Errorf("Expected the cat to spot the hidden passage, got:\n%s", out)
	}
	if !strings.Contains(out, "Cellar Ogre") {
		t.Errorf("Expected the ogre to be listed, got:\n%s", out)
	}

	if _, err := x.Run("sw"); err != nil {
		t.Fatal(err)
	}
	if x.Here().ID != "gate" {
		t.Errorf("Expected the cat at the gate, got %s", x.Here().ID)
	}
}

func TestExplorer_WardenMissesTheHiddenPassage(t *testing.T) {
	x := newTestExplorer(t, "warden")
	if err := x.instance.World.Place(x.self, x.instance.World.Location("cellar")); err != nil {
		t.Fatal(err)
	}
	out := x.Look()
	if strings.Contains(out, "Southwest") {
		t.Errorf("Expected the passage to stay hidden, got:\n%s", out)
	}
	if _, err := x.Run("sw"); err == nil {
		t.Error("Expected the warden not to use an unseen exit")
	}
}

func TestExplorer_LastRoute(t *testing.T) {
	x := newTestExplorer(t, "warden")
	if x.LastRoute() != "" {
		t.Errorf("Expected no route yet, got %q", x.LastRoute())
	}
	if _, err := x.Run("find lantern"); err != nil {
		t.Fatal(err)
	}
	if x.LastRoute() != "north, north" {
		t.Errorf("Expected north, north, got %q", x.LastRoute())
	}
}
