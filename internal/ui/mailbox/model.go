package mailbox

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/iboite/internal/keys"
	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/theme"
)

// SelectedItemMsg is sent when the user opens the highlighted item.
type SelectedItemMsg struct {
	ID string
}

// Model is the list of letters, parcels or conversations of the active
// channel.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	empty  string
	width  int
	height int
}

// New creates a new mailbox list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		empty:  "Nothing here.",
		width:  width,
		height: height,
	}
}

// SetClock replaces the time source used for relative dates.
func (m *Model) SetClock(now func() time.Time) {
	m.list.SetDelegate(ItemDelegate{now: now})
}

// SetTitle sets the list heading.
func (m *Model) SetTitle(title string) {
	m.list.Title = title
}

// SetEmptyText sets the guidance shown when the list has no items.
func (m *Model) SetEmptyText(text string) {
	m.empty = text
}

// SetItems replaces the list contents, keeping the cursor on selectedID
// when it is still present.
func (m *Model) SetItems(items []model.ListItem, selectedID string) tea.Cmd {
	wrapped := make([]list.Item, len(items))
	cursor := -1
	for i, it := range items {
		wrapped[i] = ListItemWrapper{Item: it}
		if selectedID != "" && it.GetID() == selectedID {
			cursor = i
		}
	}

	prev := m.list.Index()
	cmd := m.list.SetItems(wrapped)
	switch {
	case cursor >= 0:
		m.list.Select(cursor)
	case prev < len(wrapped):
		m.list.Select(prev)
	default:
		m.list.ResetSelected()
	}
	return cmd
}

// HighlightedID returns the id of the item under the cursor.
func (m Model) HighlightedID() string {
	w, ok := m.list.SelectedItem().(ListItemWrapper)
	if !ok {
		return ""
	}
	return w.Item.GetID()
}

// Len returns the number of items.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Select) {
		id := m.HighlightedID()
		if id == "" {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedItemMsg{ID: id}
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(m.list.Title + "\n\n" + m.empty)
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
