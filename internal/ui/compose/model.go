// Package compose is the form used to start a conversation or reply to one.
package compose

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/iboite/internal/gateway"
	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/theme"
)

// SendFunc delivers a message and returns the id of its conversation. It
// is called from inside a tea.Cmd.
type SendFunc func(model.OutgoingMessage) (string, error)

// SentMsg reports a successful send.
type SentMsg struct {
	ConversationID string
}

// ErrorMsg reports a failed send. Field is set for validation failures.
type ErrorMsg struct {
	Field   string
	Message string
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	recipientIDs []string
	extra        string
	subject      string
	body         string
}

// Model is the compose form.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	send      SendFunc
	directory []model.Recipient
	replyTo   *model.Conversation
	errText   string
	sending   bool
	width     int
	height    int
}

// New creates a compose form that delivers through send.
func New(send SendFunc, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		send:   send,
		width:  width,
		height: height,
	}
}

// StartNew opens the form for a new conversation. directory feeds the
// recipient search.
func (m *Model) StartNew(directory []model.Recipient) tea.Cmd {
	m.replyTo = nil
	m.directory = directory
	*m.fb = formBindings{}
	m.errText = ""
	m.sending = false
	m.form = m.buildNewForm()
	return m.form.Init()
}

// StartReply opens the form for a reply in c.
func (m *Model) StartReply(c model.Conversation) tea.Cmd {
	m.replyTo = &c
	m.directory = nil
	*m.fb = formBindings{}
	m.errText = ""
	m.sending = false
	m.form = m.buildReplyForm()
	return m.form.Init()
}

// ShowError reopens the form with the entered values and an inline error.
func (m *Model) ShowError(e ErrorMsg) tea.Cmd {
	m.sending = false
	m.errText = e.Message
	if e.Field != "" {
		m.errText = e.Field + ": " + e.Message
	}
	if m.replyTo != nil {
		m.form = m.buildReplyForm()
	} else {
		m.form = m.buildNewForm()
	}
	return m.form.Init()
}

// Active reports whether a form is open.
func (m Model) Active() bool {
	return m.form != nil
}

// Close discards the form.
func (m *Model) Close() {
	m.form = nil
	m.sending = false
	m.errText = ""
}

// Update handles messages for the compose form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.sending {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.sending = true
		return m, m.submit()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the compose form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New conversation"
	if m.replyTo != nil {
		titleText = "Reply · " + m.replyTo.Subject
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n"
	if m.errText != "" {
		content += theme.NoticeStyle(true).Render(m.errText) + "\n\n"
	}
	if m.sending {
		content += theme.MutedStyle.Render("Sending...")
	} else {
		content += m.form.View()
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

// Message builds the outgoing message from the current field values.
func (m Model) Message() model.OutgoingMessage {
	out := model.OutgoingMessage{
		Subject: strings.TrimSpace(m.fb.subject),
		Body:    m.fb.body,
	}
	if m.replyTo != nil {
		out.ConversationID = m.replyTo.ID
		out.Subject = m.replyTo.Subject
		return out
	}

	byID := make(map[string]model.Recipient, len(m.directory))
	for _, r := range m.directory {
		byID[r.ID] = r
	}
	for _, id := range m.fb.recipientIDs {
		if r, ok := byID[id]; ok {
			out.Recipients = append(out.Recipients, r)
		}
	}
	out.Recipients = append(out.Recipients, parseExtra(m.fb.extra)...)
	return out
}

// submit validates the message and delivers it. Validation failures never
// reach the send function.
func (m Model) submit() tea.Cmd {
	out := m.Message()
	send := m.send
	return func() tea.Msg {
		if err := gateway.Validate(out); err != nil {
			return errorMsgFor(err)
		}
		id, err := send(out)
		if err != nil {
			return errorMsgFor(err)
		}
		return SentMsg{ConversationID: id}
	}
}

func errorMsgFor(err error) ErrorMsg {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return ErrorMsg{Field: ve.Field, Message: ve.Message}
	}
	return ErrorMsg{Message: err.Error()}
}

// parseExtra turns a comma separated list of addresses into recipients.
func parseExtra(s string) []model.Recipient {
	var out []model.Recipient
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, model.Recipient{ID: part, Name: part, Email: part})
	}
	return out
}

func (m *Model) buildNewForm() *huh.Form {
	var fields []huh.Field
	if len(m.directory) > 0 {
		opts := make([]huh.Option[string], len(m.directory))
		for i, r := range m.directory {
			label := r.Name
			if r.Email != "" {
				label = fmt.Sprintf("%s <%s>", r.Name, r.Email)
			}
			opts[i] = huh.NewOption(label, r.ID)
		}
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Recipients").
			Options(opts...).
			Filterable(true).
			Value(&m.fb.recipientIDs))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Other recipients").
			Placeholder("name@example.ga, ...").
			Value(&m.fb.extra),
		huh.NewInput().
			Title("Subject").
			Value(&m.fb.subject).
			Validate(validateRequired("Subject")),
		huh.NewText().
			Title("Message").
			Value(&m.fb.body).
			Validate(validateRequired("Message")),
	)

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildReplyForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Message").
				Value(&m.fb.body).
				Validate(validateRequired("Message")),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-6, 10)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
