package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const PlaceHolderText = "look, go north, path hall, find lantern, near 3..."

const helpText = `Commands:
• look - Describe where you are
• go <dir> or n/s/e/w/ne/nw/se/sw/u/d - Step one way
• path <place> - Shortest route to a place
• route <place> - First route found to a place
• find <name> - Nearest thing or person by name
• near [steps] - Places within reach
• help - Show this help
• Ctrl+Y - Copy the last route
• Ctrl+C - Quit`

// ConsoleUI is the BubbleTea model that runs the explorer.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	explorer     *Explorer
	title        string
	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int

	// log is every command and its result, rewrapped on resize.
	log []entry

	showQuitModal bool
	status        string
}

type entry struct {
	input  string
	output string
	err    error
}

type copiedMsg struct {
	route string
	err   error
}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	placeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(x *Explorer, title string) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	return ConsoleUI{
		explorer:     x,
		title:        title,
		textarea:     ta,
		logViewport:  logVp,
		metaViewport: viewport.New(20, 20),
		log:          []entry{{output: x.Look()}},
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

// layout returns the widths of the log and side panels.
func (m ConsoleUI) layout() (int, int) {
	logWidth := int(float64(m.width)*0.75) - 4
	return logWidth, m.width - logWidth - 6
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logWidth, metaWidth := m.layout()
		m.logViewport.Width = logWidth - 2
		m.logViewport.Height = m.height - 5
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(logWidth - 4)
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			return m, copyRoute(m.explorer.LastRoute())
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			return m.handleCommand(input)
		}

	case copiedMsg:
		switch {
		case msg.err != nil:
			m.status = "Copy failed: " + msg.err.Error()
		case msg.route == "":
			m.status = "No route to copy yet"
		default:
			m.status = "Copied: " + msg.route
		}
		m.refresh()
		return m, nil
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(input) {
	case "quit", "exit":
		m.showQuitModal = true
		return m, nil
	case "help", "?":
		m.log = append(m.log, entry{input: input, output: helpText})
	default:
		out, err := m.explorer.Run(input)
		m.log = append(m.log, entry{input: input, output: out, err: err})
	}
	m.status = ""
	m.refresh()
	return m, nil
}

// copyRoute puts the route on the system clipboard.
func copyRoute(route string) tea.Cmd {
	return func() tea.Msg {
		if route == "" {
			return copiedMsg{}
		}
		return copiedMsg{route: route, err: clipboard.WriteAll(route)}
	}
}

// refresh rewraps the log for the current width and redraws the side panel.
func (m *ConsoleUI) refresh() {
	width := m.logViewport.Width - 6
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.ToUpper(m.title)) + "\n\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")
	for _, e := range m.log {
		if e.input != "" {
			b.WriteString(userStyle.Render("> ") + wordwrap.String(e.input, width-2) + "\n")
		}
		switch {
		case errors.Is(e.err, errUsage):
			b.WriteString(promptStyle.Render(e.err.Error()) + "\n\n")
		case e.err != nil:
			b.WriteString(errorStyle.Render(wordwrap.String(e.err.Error(), width)) + "\n\n")
		default:
			b.WriteString(wordwrap.String(e.output, width) + "\n\n")
		}
	}
	m.logViewport.SetContent(b.String())
	m.logViewport.GotoBottom()
	m.metaViewport.SetContent(m.writeMetadata())
}

func (m ConsoleUI) writeMetadata() string {
	x := m.explorer
	var b strings.Builder
	b.WriteString(titleStyle.Render("EXPLORER") + "\n\n")

	b.WriteString("Playing:\n")
	b.WriteString(x.self.ThingName() + "\n\n")

	b.WriteString("Location:\n")
	b.WriteString(placeStyle.Render(x.Here().Name) + "\n\n")

	fmt.Fprintf(&b, "Size:\n%s\n\n", x.self.Size())
	fmt.Fprintf(&b, "Perception:\n%d\n\n", x.self.PassivePerception())

	b.WriteString("Last route:\n")
	if route := x.LastRoute(); route != "" {
		b.WriteString(route + "\n\n")
	} else {
		b.WriteString("None\n\n")
	}

	if m.status != "" {
		b.WriteString(promptStyle.Render(m.status) + "\n\n")
	}

	b.WriteString("Commands:\n")
	b.WriteString("• help: Help\n")
	b.WriteString("• Ctrl+Y: Copy route\n")
	b.WriteString("• Ctrl+C: Quit\n")
	return b.String()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave?"))
	content.WriteString("\n\n")
	content.WriteString("Stop exploring " + m.title + "?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth, metaWidth := m.layout()
	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", logWidth-4)),
			m.textarea.View(),
		),
	)
	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}
