package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/iboite/internal/theme"
)

// Layout manages the multi-panel terminal layout dimensions: a channel
// sidebar, the item list and the detail pane.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
	SidebarWidth    int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
		SidebarWidth:    min(26, width/4),
	}
}

// ContentWidth returns the width left of the sidebar.
func (l Layout) ContentWidth() int {
	return max(l.Width-l.SidebarWidth, 0)
}

// ListWidth returns the width of the item list.
func (l Layout) ListWidth() int {
	return l.ContentWidth() * 2 / 5
}

// DetailWidth returns the width of the detail pane.
func (l Layout) DetailWidth() int {
	return l.ContentWidth() - l.ListWidth()
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top header bar with a title and sync status.
func (l Layout) RenderHeader(title string, syncStatus string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(syncStatus)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// SidebarEntry is one line of the sidebar.
type SidebarEntry struct {
	Label     string
	Count     int
	Highlight bool
	Active    bool
	Indent    bool
	Note      string
}

// RenderSidebar renders the channel and folder list.
func (l Layout) RenderSidebar(entries []SidebarEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		label := e.Label
		if e.Indent {
			label = "  " + label
		}
		if e.Active {
			label = theme.SelectedItemStyle.Render(label)
		}

		line := label
		if e.Count > 0 {
			line += " " + theme.BadgeStyle(e.Highlight && e.Count > 0).Render(fmt.Sprintf("%d", e.Count))
		}
		if e.Note != "" {
			line += " " + theme.MutedStyle.Render(e.Note)
		}
		lines = append(lines, line)
	}

	return theme.SidebarStyle.
		Width(max(l.SidebarWidth-1, 0)).
		Height(l.ContentHeight()).
		Render(strings.Join(lines, "\n"))
}

// RenderNotice renders a notice in place of the status bar.
func (l Layout) RenderNotice(text string, isError bool) string {
	return theme.NoticeStyle(isError).
		Width(l.Width).
		MaxHeight(l.StatusBarHeight).
		Render(text + "  (x to dismiss)")
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
