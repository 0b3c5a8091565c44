package app

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/iboite/internal/inbox"
	"github.com/nhle/iboite/internal/keys"
	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/preview"
	appsync "github.com/nhle/iboite/internal/sync"
	"github.com/nhle/iboite/internal/ui"
	"github.com/nhle/iboite/internal/ui/command"
	"github.com/nhle/iboite/internal/ui/compose"
	"github.com/nhle/iboite/internal/ui/detail"
	helpview "github.com/nhle/iboite/internal/ui/help"
	"github.com/nhle/iboite/internal/ui/mailbox"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewMain ViewState = iota
	ViewHelp
	ViewCommand
	ViewCompose
)

// focus tells which pane of the main view receives keys.
type focus int

const (
	focusList focus = iota
	focusDetail
)

// Model is the root Bubble Tea model. It routes messages between the
// inbox controller, the gateway dispatcher and the views.
type Model struct {
	currentView  ViewState
	previousView ViewState
	focus        focus
	layout       ui.Layout
	keys         *keys.KeyMap

	ctrl       *inbox.Controller
	dispatcher *appsync.Dispatcher

	mailbox     mailbox.Model
	detail      detail.Model
	helpView    helpview.Model
	commandView command.Model
	compose     compose.Model

	ready bool
}

// New creates the root model. page is the logical letter size used by the
// preview.
func New(ctrl *inbox.Controller, d *appsync.Dispatcher, page preview.Size) Model {
	k := keys.DefaultKeyMap()
	m := Model{
		currentView: ViewMain,
		layout:      ui.NewLayout(80, 24),
		keys:        k,
		ctrl:        ctrl,
		dispatcher:  d,
		mailbox:     mailbox.New(k, 32, 22),
		detail:      detail.New(k, page, 48, 22),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		compose:     compose.New(d.Send, 80, 24),
	}
	m.syncViews()
	return m
}

// Init warms the conversation lists from the local cache.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.dispatcher.WarmStart(false),
		m.dispatcher.WarmStart(true),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		h := m.layout.ContentHeight()
		m.mailbox.SetSize(m.layout.ListWidth(), h)
		m.detail.SetSize(m.layout.DetailWidth(), h)
		m.helpView.SetSize(m.layout.ContentWidth(), h)
		m.commandView.SetSize(m.layout.ContentWidth(), h)
		m.compose.SetSize(m.layout.ContentWidth(), h)
		m.syncViews()
		// Forward to the compose form so huh can calculate its layout.
		if m.currentView == ViewCompose {
			var cmd tea.Cmd
			m.compose, cmd = m.compose.Update(msg)
			return m, cmd
		}
		return m, nil

	case appsync.CachedMsg:
		m.ctrl.SeedConversations(msg.Archived, msg.Conversations)
		m.syncViews()
		return m, nil

	case appsync.ConversationsMsg:
		m.ctrl.ApplyConversations(msg.Req, msg.Conversations, msg.Err)
		m.syncViews()
		return m, nil

	case appsync.MessagesMsg:
		m.ctrl.ApplyMessages(msg.Req, msg.Messages, msg.Err)
		m.syncViews()
		return m, nil

	case appsync.CachedMessagesMsg:
		m.ctrl.SeedMessages(msg.Req, msg.Messages)
		m.syncViews()
		return m, nil

	case appsync.MarkReadMsg:
		m.ctrl.ApplyMarkRead(msg.Req, msg.Err)
		m.syncViews()
		return m, nil

	case mailbox.SelectedItemMsg:
		req, err := m.ctrl.SelectItem(msg.ID)
		if err != nil {
			m.ctrl.Notify(inbox.NoticeError, err.Error())
		} else {
			m.focus = focusDetail
		}
		m.syncViews()
		return m, m.dispatcher.Open(req)

	case detail.BackMsg:
		m.focus = focusList
		m.ctrl.ClearSelection()
		m.syncViews()
		return m, nil

	case detail.ReplyMsg:
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.compose.StartReply(msg.Conversation)

	case compose.SentMsg:
		m.compose.Close()
		m.currentView = ViewMain
		list, open := m.ctrl.ConversationSent(msg.ConversationID)
		m.syncViews()
		return m, tea.Batch(m.dispatcher.List(list), m.dispatcher.Open(open))

	case compose.ErrorMsg:
		if msg.Field != "" {
			return m, m.compose.ShowError(msg)
		}
		m.compose.Close()
		m.currentView = ViewMain
		m.ctrl.Notify(inbox.NoticeError, "Send failed: "+msg.Message)
		return m, nil

	case compose.CancelMsg:
		m.compose.Close()
		m.currentView = ViewMain
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		m.syncViews()
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

// handleKey routes key presses for the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentView {
	case ViewCompose:
		if key.Matches(msg, m.keys.Back) {
			m.compose.Close()
			m.currentView = ViewMain
			return m, nil
		}
		return m.updateActiveView(msg)

	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil
		}
		return m.updateActiveView(msg)

	case ViewHelp:
		if key.Matches(msg, m.keys.Back, m.keys.Help) {
			m.currentView = m.previousView
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()

	case key.Matches(msg, m.keys.Letters):
		cmd = m.selectChannel(inbox.ChannelLetters)
	case key.Matches(msg, m.keys.Parcels):
		cmd = m.selectChannel(inbox.ChannelParcels)
	case key.Matches(msg, m.keys.Conversations):
		cmd = m.selectChannel(inbox.ChannelConversations)

	case key.Matches(msg, m.keys.NextFolder):
		cmd = m.nextFolder()

	case key.Matches(msg, m.keys.NextAccount):
		cmd = m.nextAccount()

	case key.Matches(msg, m.keys.Refresh):
		cmd = m.dispatcher.List(m.ctrl.Refresh())

	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.DismissNotice()

	case key.Matches(msg, m.keys.MoveInbox):
		m.moveLetter(model.FolderInbox)
	case key.Matches(msg, m.keys.MovePending):
		m.moveLetter(model.FolderPending)
	case key.Matches(msg, m.keys.MoveTrash):
		m.moveLetter(model.FolderTrash)

	case key.Matches(msg, m.keys.Compose):
		return m, m.startCompose()

	default:
		return m.updateActiveView(msg)
	}

	m.syncViews()
	return m, cmd
}

// updateActiveView forwards a message to the component that owns it.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewCompose:
		m.compose, cmd = m.compose.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewMain:
		if m.focus == focusDetail {
			m.detail, cmd = m.detail.Update(msg)
		} else {
			m.mailbox, cmd = m.mailbox.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) quit() tea.Cmd {
	m.ctrl.Close()
	m.dispatcher.Stop()
	return tea.Quit
}

func (m *Model) selectChannel(ch inbox.Channel) tea.Cmd {
	m.focus = focusList
	return m.dispatcher.List(m.ctrl.SelectChannel(ch))
}

func (m *Model) selectFolder(f model.Folder) tea.Cmd {
	req, err := m.ctrl.SelectFolder(f)
	if err != nil {
		m.ctrl.Notify(inbox.NoticeError, err.Error())
		return nil
	}
	m.focus = focusList
	return m.dispatcher.List(req)
}

func (m *Model) nextFolder() tea.Cmd {
	folders := m.ctrl.Channel().Folders()
	if len(folders) == 0 {
		return nil
	}
	next := folders[0]
	for i, f := range folders {
		if f == m.ctrl.Folder() {
			next = folders[(i+1)%len(folders)]
			break
		}
	}
	return m.selectFolder(next)
}

func (m *Model) selectAccount(id string) tea.Cmd {
	req, err := m.ctrl.SelectAccount(id)
	if err != nil {
		m.ctrl.Notify(inbox.NoticeError, err.Error())
		return nil
	}
	m.focus = focusList
	return m.dispatcher.List(req)
}

func (m *Model) nextAccount() tea.Cmd {
	req, err := m.ctrl.NextAccount()
	if err != nil {
		m.ctrl.Notify(inbox.NoticeError, err.Error())
		return nil
	}
	m.focus = focusList
	return m.dispatcher.List(req)
}

// moveLetter moves the selected letter, or the highlighted one when
// nothing is open.
func (m *Model) moveLetter(f model.Folder) {
	if m.ctrl.Channel() != inbox.ChannelLetters {
		return
	}
	id := m.ctrl.Selected()
	if id == "" {
		id = m.mailbox.HighlightedID()
	}
	if id == "" {
		return
	}

	_, err := m.ctrl.MoveLetter(id, f)
	switch {
	case errors.Is(err, model.ErrInvalidTransition):
		m.ctrl.Notify(inbox.NoticeError, "This letter cannot be moved to "+f.Label())
	case err != nil:
		m.ctrl.Notify(inbox.NoticeError, err.Error())
	default:
		m.ctrl.Notify(inbox.NoticeInfo, "Moved to "+f.Label())
		if m.ctrl.Selected() == "" {
			m.focus = focusList
		}
	}
}

func (m *Model) startCompose() tea.Cmd {
	m.previousView = ViewMain
	m.currentView = ViewCompose
	return m.compose.StartNew(m.directory())
}

// directory collects the known participants for the recipient search.
func (m Model) directory() []model.Recipient {
	seen := make(map[string]bool)
	var out []model.Recipient
	for _, c := range m.ctrl.Conversations() {
		for _, p := range c.Participants {
			if p.ID == "" || p.ID == "me" || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, model.Recipient{ID: p.ID, Name: p.Name})
		}
	}
	return out
}

// syncViews pushes controller state into the list and detail views.
func (m *Model) syncViews() {
	m.commandView.SetContext(m.paletteContext())
	m.helpView.SetContext(m.ctrl.Channel(), m.ctrl.Accounts(), m.ctrl.Account().ID)
	m.mailbox.SetTitle(m.listTitle())
	m.mailbox.SetEmptyText(m.emptyText())
	m.mailbox.SetItems(m.ctrl.Items(), m.ctrl.Selected())

	switch m.ctrl.Channel() {
	case inbox.ChannelLetters:
		if l, ok := m.ctrl.SelectedLetter(); ok {
			m.detail.ShowLetter(l)
			return
		}
	case inbox.ChannelParcels:
		if p, ok := m.ctrl.SelectedParcel(); ok {
			m.detail.ShowParcel(p)
			return
		}
	case inbox.ChannelConversations:
		conv, state, msgs := m.ctrl.Thread()
		if state != inbox.StateIdle {
			m.detail.ShowThread(conv, state == inbox.StateLoading, msgs)
			return
		}
	}
	m.detail.Clear()
	if m.focus == focusDetail {
		m.focus = focusList
	}
}
