package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/iboite/internal/keys"
	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/preview"
	"github.com/nhle/iboite/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// ReplyMsg asks the parent to open the compose form for a conversation.
type ReplyMsg struct {
	Conversation model.Conversation
}

type mode int

const (
	modeEmpty mode = iota
	modeLetter
	modeParcel
	modeThread
)

// Model shows the selected item: a letter as a scaled page, a parcel as a
// tracking sheet, or a conversation as a scrollable thread.
type Model struct {
	mode     mode
	renderer *preview.Renderer
	viewport viewport.Model
	keys     *keys.KeyMap

	parcel   model.Parcel
	conv     model.Conversation
	messages []model.Message
	loading  bool

	width  int
	height int
}

// New creates a new detail view model for pages of the given size.
func New(k *keys.KeyMap, page preview.Size, width, height int) Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	m := Model{
		renderer: preview.NewRenderer(page),
		viewport: vp,
		keys:     k,
	}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Reply):
			if m.mode == modeThread && !m.loading {
				conv := m.conv
				return m, func() tea.Msg {
					return ReplyMsg{Conversation: conv}
				}
			}
			return m, nil
		}
	}

	if m.mode != modeParcel && m.mode != modeThread {
		return m, nil
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	switch m.mode {
	case modeLetter:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, m.renderer.View())
	case modeParcel:
		return m.viewport.View()
	case modeThread:
		if m.loading && len(m.messages) == 0 {
			return placeholder(m.width, m.height, "Loading conversation...")
		}
		return m.viewport.View()
	default:
		return placeholder(m.width, m.height, "Nothing selected")
	}
}

func placeholder(width, height int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// ShowLetter displays l as a page.
func (m *Model) ShowLetter(l model.Letter) {
	m.mode = modeLetter
	m.loading = false
	m.renderer.SetLetter(&l)
}

// ShowParcel displays the tracking sheet of p.
func (m *Model) ShowParcel(p model.Parcel) {
	m.mode = modeParcel
	m.loading = false
	m.parcel = p
	m.renderer.SetLetter(nil)
	m.viewport.SetContent(m.renderParcel())
	m.viewport.GotoTop()
}

// ShowThread displays a conversation. Messages are expected oldest first;
// the viewport follows the latest one.
func (m *Model) ShowThread(c model.Conversation, loading bool, msgs []model.Message) {
	changed := m.mode != modeThread || m.conv.ID != c.ID || len(m.messages) != len(msgs)
	m.mode = modeThread
	m.conv = c
	m.loading = loading
	m.messages = msgs
	m.renderer.SetLetter(nil)
	m.viewport.SetContent(m.renderThread())
	if changed {
		m.viewport.GotoBottom()
	}
}

// Clear empties the pane.
func (m *Model) Clear() {
	m.mode = modeEmpty
	m.loading = false
	m.messages = nil
	m.renderer.SetLetter(nil)
	m.viewport.SetContent("")
}

// Scale exposes the page scale of the letter preview.
func (m Model) Scale() float64 {
	return m.renderer.Scale()
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.renderer.SetViewport(width, height)

	switch m.mode {
	case modeParcel:
		m.viewport.SetContent(m.renderParcel())
	case modeThread:
		m.viewport.SetContent(m.renderThread())
	}
}

var (
	metaStyle = lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle  = lipgloss.NewStyle().Foreground(theme.ColorWhite)
)

// renderParcel builds the tracking sheet for the viewport.
func (m Model) renderParcel() string {
	p := m.parcel
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(p.Description))
	sections = append(sections, theme.ParcelStatusStyle(p.Status).Render(p.Status.Label()))
	sections = append(sections, "")

	sections = append(sections, fmt.Sprintf("%s  %s", metaStyle.Render("Tracking:"), valStyle.Render(p.TrackingNumber)))
	sections = append(sections, fmt.Sprintf("%s    %s", metaStyle.Render("Sender:"), valStyle.Render(p.Sender)))
	if p.EstimatedDelivery != nil {
		sections = append(sections, fmt.Sprintf("%s  %s",
			metaStyle.Render("Expected:"),
			valStyle.Render(p.EstimatedDelivery.Format("2006-01-02")),
		))
	}
	if p.Status == model.ParcelAvailable {
		sections = append(sections, "")
		sections = append(sections, theme.StampStyle(model.StampGreen).Render("Ready for pickup at your post office."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderThread builds the conversation transcript for the viewport.
func (m Model) renderThread() string {
	c := m.conv
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(c.Subject))

	names := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		if p.Role != "" {
			names = append(names, fmt.Sprintf("%s (%s)", p.Name, p.Role))
		} else {
			names = append(names, p.Name)
		}
	}
	if len(names) > 0 {
		sections = append(sections, metaStyle.Render(strings.Join(names, ", ")))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, separator, "")

	authorStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorInk)
	bodyStyle := lipgloss.NewStyle().Width(max(m.width-2, 10))

	if len(m.messages) == 0 && !m.loading {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No messages"))
	}
	for _, msg := range m.messages {
		sections = append(sections, fmt.Sprintf("%s  %s",
			authorStyle.Render(msg.Author.Name),
			metaStyle.Render(msg.SentAt.Format("2006-01-02 15:04")),
		))
		sections = append(sections, bodyStyle.Render(msg.Body))
		for _, a := range msg.Attachments {
			sections = append(sections, metaStyle.Render("📎 "+a.Name))
		}
		sections = append(sections, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
