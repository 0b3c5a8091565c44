package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/iboite/internal/inbox"
	"github.com/nhle/iboite/internal/model"
	appsync "github.com/nhle/iboite/internal/sync"
	"github.com/nhle/iboite/internal/ui"
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.syncStatus())
	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.layout.RenderSidebar(m.sidebarEntries()),
		m.renderContent(),
	)

	var statusBar string
	if n, ok := m.ctrl.Notice(); ok {
		statusBar = m.layout.RenderNotice(n.Message, n.Kind == inbox.NoticeError)
	} else {
		statusBar = m.layout.RenderStatusBar(m.keyHints())
	}

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewCompose:
		return m.compose.View()
	default:
		return lipgloss.JoinHorizontal(lipgloss.Top, m.mailbox.View(), m.detail.View())
	}
}

func (m Model) headerTitle() string {
	a := m.ctrl.Account()
	title := "iBoîte · " + a.Name
	if label := a.Address.Label; label != "" {
		title += " (" + label + ")"
	}
	return title
}

// sidebarEntries lists the channels with their badges; the folders of the
// active channel are nested under it.
func (m Model) sidebarEntries() []ui.SidebarEntry {
	badges := m.ctrl.Badges()
	counts := m.ctrl.FolderCounts()

	var entries []ui.SidebarEntry
	for _, ch := range inbox.Channels {
		e := ui.SidebarEntry{Label: ch.Label(), Active: ch == m.ctrl.Channel()}
		switch ch {
		case inbox.ChannelLetters:
			e.Count, e.Highlight = badges.Letters, true
		case inbox.ChannelParcels:
			e.Count, e.Highlight = badges.Parcels, true
			if badges.ParcelsInTransit > 0 {
				e.Note = fmt.Sprintf("%d in transit", badges.ParcelsInTransit)
			}
		case inbox.ChannelConversations:
			e.Count, e.Highlight = badges.Conversations, true
		}
		entries = append(entries, e)

		if ch != m.ctrl.Channel() {
			continue
		}
		for _, f := range ch.Folders() {
			fe := ui.SidebarEntry{Label: f.Label(), Indent: true, Active: f == m.ctrl.Folder()}
			if ch == inbox.ChannelLetters {
				fe.Count = counts[f]
			}
			entries = append(entries, fe)
		}
	}
	return entries
}

func (m Model) listTitle() string {
	title := m.ctrl.Channel().Label()
	if f := m.ctrl.Folder(); f != "" {
		title += " · " + folderLabel(m.ctrl.Channel(), f)
	}
	if m.ctrl.Channel() == inbox.ChannelConversations && m.ctrl.ListState() == inbox.StateLoading {
		title += " ⟳"
	}
	return title
}

// folderLabel names conversation folders after what they hold.
func folderLabel(ch inbox.Channel, f model.Folder) string {
	if ch == inbox.ChannelConversations {
		switch f {
		case model.FolderInbox:
			return "Active"
		case model.FolderTrash:
			return "Archived"
		}
	}
	return f.Label()
}

func (m Model) emptyText() string {
	switch m.ctrl.Channel() {
	case inbox.ChannelParcels:
		return "No parcels on their way."
	case inbox.ChannelConversations:
		if m.ctrl.ListState() == inbox.StateLoading {
			return "Loading conversations..."
		}
		return "No conversations. Press c to start one."
	default:
		return fmt.Sprintf("No letters in %s.", strings.ToLower(m.ctrl.Folder().Label()))
	}
}

// syncStatus returns a short string describing the gateway state.
func (m Model) syncStatus() string {
	s := m.dispatcher.Status()
	switch s.State {
	case appsync.SyncRunning:
		return "syncing"
	case appsync.SyncError:
		return "⚠ message service unreachable"
	}
	if s.LastSync.IsZero() {
		return "offline cache"
	}
	return "synced " + s.LastSync.Format("15:04")
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewCompose:
		return "enter next | ctrl+c quit | esc cancel"
	}

	if m.focus == focusDetail {
		switch m.ctrl.Channel() {
		case inbox.ChannelLetters:
			return "esc back | i inbox | p pending | d trash"
		case inbox.ChannelConversations:
			return "esc back | R reply | j/k scroll"
		default:
			return "esc back | j/k scroll"
		}
	}
	return "q quit | ? help | 1/2/3 channel | tab folder | A account | enter open | c compose | r refresh"
}
