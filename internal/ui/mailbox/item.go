package mailbox

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/theme"
)

// ListItemWrapper wraps a model.ListItem so it can be used in a bubbles/list.
type ListItemWrapper struct {
	Item model.ListItem
}

// FilterValue returns the string used for fuzzy filtering.
func (w ListItemWrapper) FilterValue() string {
	return w.Item.GetTitle()
}

// Title returns the item title for the list.
func (w ListItemWrapper) Title() string {
	return w.Item.GetTitle()
}

// Description returns a short summary line for the list.
func (w ListItemWrapper) Description() string {
	return w.Item.GetSubtitle()
}

// ItemDelegate implements list.ItemDelegate for letters, parcels and
// conversations.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list item line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	wrapper, ok := item.(ListItemWrapper)
	if !ok {
		return
	}

	var line string
	switch li := wrapper.Item.(type) {
	case model.Letter:
		line = d.renderLetter(li)
	case model.Parcel:
		line = d.renderParcel(li)
	case model.Conversation:
		line = d.renderConversation(li)
	default:
		line = wrapper.Item.GetTitle()
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}
	fmt.Fprint(w, line)
}

func (d ItemDelegate) clock() time.Time {
	if d.now == nil {
		return time.Now()
	}
	return d.now()
}

// renderLetter draws a letter with its stamp, sender and subject.
func (d ItemDelegate) renderLetter(l model.Letter) string {
	color := l.StampColor
	if color == "" {
		color = model.StampColorFor(l.Urgency)
	}
	stamp := theme.StampStyle(color).Render("■")

	prefix := " "
	subject := l.Subject
	if !l.Read {
		prefix = "●"
		subject = theme.UnreadStyle.Render(subject)
	}

	overdue := ""
	if l.IsOverdue(d.clock()) {
		overdue = theme.StampStyle(model.StampRed).Render("OVERDUE")
	}

	attach := ""
	if len(l.Attachments) > 0 {
		attach = " 📎"
	}

	when := theme.MutedStyle.Render(relativeTime(l.CreatedAt, d.clock()))
	return fmt.Sprintf("%s%s %s  %s%s %s %s",
		prefix, stamp, truncate(l.Sender, 24), subject, attach, overdue, when)
}

// renderParcel draws a parcel with its status badge and tracking number.
func (d ItemDelegate) renderParcel(p model.Parcel) string {
	status := theme.ParcelStatusStyle(p.Status).Render(p.Status.Label())

	eta := ""
	if p.EstimatedDelivery != nil && p.Status != model.ParcelDelivered {
		eta = theme.MutedStyle.Render("ETA " + p.EstimatedDelivery.Format("Jan 02"))
	}

	return fmt.Sprintf("📦 %s %s  %s %s",
		status, p.Description, theme.MutedStyle.Render(p.TrackingNumber), eta)
}

// renderConversation draws a conversation with its unread counter and the
// excerpt of the latest message.
func (d ItemDelegate) renderConversation(c model.Conversation) string {
	badge := "   "
	subject := c.Subject
	if c.UnreadCount > 0 {
		badge = theme.BadgeStyle(true).Render(fmt.Sprintf("%d", c.UnreadCount))
		subject = theme.UnreadStyle.Render(subject)
	}

	excerpt := ""
	if c.LastMessage != nil {
		excerpt = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(truncate(c.LastMessage.Author+": "+c.LastMessage.Excerpt, 48))
	}

	when := theme.MutedStyle.Render(relativeTime(c.UpdatedAt, d.clock()))
	return fmt.Sprintf("%s %s  %s  %s", badge, subject, excerpt, when)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 02")
	}
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
