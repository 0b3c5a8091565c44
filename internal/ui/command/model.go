package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/iboite/internal/theme"
)

// CommandMsg carries an executed palette line.
type CommandMsg string

// maxHistory bounds the recalled lines.
const maxHistory = 50

// Model is the ":" palette. It keeps a recall history (up/down) and
// completes commands, folders and account ids on tab.
type Model struct {
	input textinput.Model

	history []string
	histPos int

	folders  []string
	accounts []string
	matches  []string

	width  int
	height int
}

func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "letters, folder trash, account professional..."
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// SetContext sets what folder and account arguments complete to.
func (m *Model) SetContext(folders, accounts []string) {
	m.folders = folders
	m.accounts = accounts
}

// Value returns the line being edited.
func (m Model) Value() string {
	return m.input.Value()
}

// Matches returns the candidates of the last ambiguous completion.
func (m Model) Matches() []string {
	return m.matches
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.matches = nil
			if line == "" {
				return m, nil
			}
			m.remember(line)
			return m, func() tea.Msg { return CommandMsg(line) }

		case "tab":
			m.complete()
			return m, nil

		case "up":
			if m.histPos > 0 {
				m.histPos--
				m.setValue(m.history[m.histPos])
			}
			return m, nil

		case "down":
			if m.histPos < len(m.history)-1 {
				m.histPos++
				m.setValue(m.history[m.histPos])
			} else {
				m.histPos = len(m.history)
				m.setValue("")
			}
			return m, nil
		}
		m.matches = nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) complete() {
	candidates := Complete(m.input.Value(), m.folders, m.accounts)
	switch len(candidates) {
	case 0:
		m.matches = nil
	case 1:
		m.matches = nil
		m.setValue(candidates[0])
	default:
		m.matches = candidates
		if p := commonPrefix(candidates); len(p) > len(m.input.Value()) {
			m.setValue(p)
		}
	}
}

func (m *Model) remember(line string) {
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
	}
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.histPos = len(m.history)
}

func (m *Model) setValue(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	hint := "letters · parcels · conversations · folder <name> · account <id> · refresh · compose · help · quit"
	if len(m.matches) > 0 {
		hint = strings.Join(m.matches, "   ")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Command"),
		m.input.View(),
		"",
		theme.MutedStyle.Render(hint),
		theme.MutedStyle.Render("tab completes · ↑/↓ history · esc closes"),
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
