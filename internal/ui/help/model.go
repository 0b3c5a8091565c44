package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/iboite/internal/inbox"
	"github.com/nhle/iboite/internal/keys"
	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/theme"
)

// Model is the help overlay: key bindings, the rules of the active
// channel and the accounts that can be switched to.
type Model struct {
	keys *keys.KeyMap
	help help.Model

	channel  inbox.Channel
	accounts []model.Account
	current  string

	width  int
	height int
}

func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	h.ShowAll = true
	return Model{
		keys:    keys,
		help:    h,
		channel: inbox.ChannelLetters,
		width:   width,
		height:  height,
	}
}

// SetContext records the active channel and the account list.
func (m *Model) SetContext(ch inbox.Channel, accounts []model.Account, currentID string) {
	m.channel = ch
	m.accounts = accounts
	m.current = currentID
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

var sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

func (m Model) View() string {
	title := sectionStyle.MarginBottom(1).Render("Keyboard Shortcuts")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.help.View(m.keys),
		"",
		sectionStyle.Render(m.channel.Label()),
		theme.MutedStyle.Render(channelRules(m.channel)),
		"",
		sectionStyle.Render("Accounts"),
		m.renderAccounts(),
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

func channelRules(ch inbox.Channel) string {
	switch ch {
	case inbox.ChannelParcels:
		return "Parcels are read-only. The badge counts parcels waiting for pickup."
	case inbox.ChannelConversations:
		return "Active and Archived (tab). Opening a conversation marks it read; R replies, c starts a new one."
	default:
		return "Letters move inbox ⇄ pending, and to trash from either. Sent and trash are final.\n" +
			"The badge counts unread letters in the inbox."
	}
}

func (m Model) renderAccounts() string {
	if len(m.accounts) == 0 {
		return theme.MutedStyle.Render("No accounts configured.")
	}
	lines := make([]string, 0, len(m.accounts)+1)
	for _, a := range m.accounts {
		marker := "  "
		if a.ID == m.current {
			marker = "▸ "
		}
		lines = append(lines, fmt.Sprintf("%s%s (%s) · :account %s", marker, a.Name, a.Category, a.ID))
	}
	lines = append(lines, theme.MutedStyle.Render("A cycles through accounts."))
	return strings.Join(lines, "\n")
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
