package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/wayfinder/internal/config"
	"github.com/jwebster45206/wayfinder/pkg/scenario"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <scenario.json> [actor]\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	s, err := scenario.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scenario: %v\n", err)
		os.Exit(1)
	}
	in, err := s.Instantiate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build scenario: %v\n", err)
		os.Exit(1)
	}

	actorID := s.Player
	if len(os.Args) == 3 {
		actorID = os.Args[2]
	}
	if actorID == "" {
		fmt.Fprintf(os.Stderr, "Scenario %s has no player; name an actor to explore as\n", s.Name)
		os.Exit(1)
	}

	x, err := NewExplorer(in, actorID, cfg.MaxHops)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start explorer: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(x, s.Name),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
