package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/iboite/internal/gateway"
	"github.com/nhle/iboite/internal/gateway/memory"
	"github.com/nhle/iboite/internal/inbox"
	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/preview"
	"github.com/nhle/iboite/internal/store"
	appsync "github.com/nhle/iboite/internal/sync"
	"github.com/nhle/iboite/internal/ui/command"
	"github.com/nhle/iboite/internal/ui/compose"
	"github.com/nhle/iboite/tests/testutil"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type harness struct {
	m       Model
	letters *store.MemoryLetterStore
	l1, l2  model.Letter
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	registry := store.NewAccountRegistry([]model.Account{
		{ID: "a", Name: "Personnel"},
		{ID: "b", Name: "Cabinet"},
	})
	letters := store.NewMemoryLetterStore()
	parcels := store.NewMemoryParcelStore()
	h := &harness{letters: letters}
	h.l1 = letters.Add(model.Letter{AccountID: "a", Folder: model.FolderInbox, Subject: "Convocation", CreatedAt: fixedNow})
	h.l2 = letters.Add(model.Letter{AccountID: "a", Folder: model.FolderInbox, Subject: "Rapport", CreatedAt: fixedNow.Add(-time.Hour)})
	parcels.Add(model.Parcel{AccountID: "a", Status: model.ParcelTransit, TrackingNumber: "GA1", Description: "Documents"})

	ctrl, err := inbox.NewController(registry, letters, parcels, nil)
	require.NoError(t, err)

	backend := memory.New("Moi")
	backend.Seed(fixedNow)
	d := appsync.New(gateway.New(backend, testutil.NewTestCache(t), nil), time.Second, nil)
	t.Cleanup(d.Stop)

	h.m = New(ctrl, d, preview.A4)
	h.send(t, tea.WindowSizeMsg{Width: 140, Height: 40})
	return h
}

// send feeds msg to the model and runs the resulting gateway commands to
// completion, feeding their results back.
func (h *harness) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	h.run(t, cmd)
}

func (h *harness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(t, c)
		}
	case appsync.ConversationsMsg, appsync.MessagesMsg, appsync.CachedMessagesMsg, appsync.MarkReadMsg, appsync.CachedMsg:
		h.send(t, msg)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_InitialView(t *testing.T) {
	h := newHarness(t)
	h.run(t, h.m.Init())

	out := h.m.View()
	assert.Contains(t, out, "iBoîte · Personnel")
	assert.Contains(t, out, "Convocation")
	assert.Contains(t, out, "1 in transit")
	assert.Equal(t, 2, h.m.ctrl.Badges().Letters)
}

func TestApp_OpenLetterMarksRead(t *testing.T) {
	h := newHarness(t)

	h.send(t, keyMsg("enter"))
	assert.Equal(t, h.l1.ID, h.m.ctrl.Selected())
	assert.Equal(t, focusDetail, h.m.focus)
	assert.Equal(t, 1, h.m.ctrl.Badges().Letters)

	l, err := h.letters.Get(h.l1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FolderInbox, l.Folder)

	h.send(t, keyMsg("esc"))
	assert.Equal(t, focusList, h.m.focus)
	assert.Empty(t, h.m.ctrl.Selected())
}

func TestApp_MoveHighlightedLetter(t *testing.T) {
	h := newHarness(t)

	h.send(t, keyMsg("p"))
	l, err := h.letters.Get(h.l1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FolderPending, l.Folder)

	n, ok := h.m.ctrl.Notice()
	require.True(t, ok)
	assert.Equal(t, "Moved to Pending", n.Message)

	h.send(t, keyMsg("x"))
	_, ok = h.m.ctrl.Notice()
	assert.False(t, ok)
}

func TestApp_ConversationsFlow(t *testing.T) {
	h := newHarness(t)

	h.send(t, keyMsg("3"))
	require.Equal(t, inbox.ChannelConversations, h.m.ctrl.Channel())
	require.Len(t, h.m.ctrl.Conversations(), 3)
	assert.Equal(t, 3, h.m.ctrl.Badges().Conversations)

	// The newest conversation is first and gets opened.
	h.send(t, keyMsg("enter"))
	conv, state, msgs := h.m.ctrl.Thread()
	assert.Equal(t, "conv-budget", conv.ID)
	assert.Equal(t, inbox.StateReady, state)
	assert.Len(t, msgs, 3)
	assert.Equal(t, 1, h.m.ctrl.Badges().Conversations)
	assert.Contains(t, h.m.View(), "article 12")
}

func TestApp_FolderCommandOnConversations(t *testing.T) {
	h := newHarness(t)
	h.send(t, keyMsg("3"))

	h.send(t, keyMsg("tab"))
	assert.Equal(t, model.FolderTrash, h.m.ctrl.Folder())
	require.Len(t, h.m.ctrl.Conversations(), 1)
	assert.True(t, h.m.ctrl.Conversations()[0].Archived)

	h.m.previousView = ViewMain
	h.m.currentView = ViewCommand
	h.send(t, commandMsg("folder active"))
	assert.Equal(t, ViewMain, h.m.currentView)
	assert.Equal(t, model.FolderInbox, h.m.ctrl.Folder())
	assert.Len(t, h.m.ctrl.Conversations(), 3)
}

func TestApp_CommandErrorsBecomeNotices(t *testing.T) {
	h := newHarness(t)

	h.send(t, commandMsg("folder nowhere"))
	n, ok := h.m.ctrl.Notice()
	require.True(t, ok)
	assert.Equal(t, inbox.NoticeError, n.Kind)

	h.send(t, commandMsg("launch"))
	n, _ = h.m.ctrl.Notice()
	assert.Contains(t, n.Message, "unknown command")
}

func TestApp_AccountSwitch(t *testing.T) {
	h := newHarness(t)
	h.send(t, keyMsg("enter"))

	h.send(t, keyMsg("A"))
	assert.Equal(t, "b", h.m.ctrl.Account().ID)
	assert.Empty(t, h.m.ctrl.Selected())
	assert.Equal(t, focusList, h.m.focus)
	assert.Zero(t, h.m.mailbox.Len())
}

func TestApp_SentRefreshes(t *testing.T) {
	h := newHarness(t)
	h.send(t, keyMsg("3"))
	h.send(t, keyMsg("enter"))

	h.m.currentView = ViewCompose
	h.send(t, compose.SentMsg{ConversationID: "conv-budget"})
	assert.Equal(t, ViewMain, h.m.currentView)

	n, ok := h.m.ctrl.Notice()
	require.True(t, ok)
	assert.Equal(t, "Message sent", n.Message)
	_, state, _ := h.m.ctrl.Thread()
	assert.Equal(t, inbox.StateReady, state)
}

func TestApp_SendFailureNotice(t *testing.T) {
	h := newHarness(t)
	h.m.currentView = ViewCompose

	h.send(t, compose.ErrorMsg{Message: "connection refused"})
	assert.Equal(t, ViewMain, h.m.currentView)
	n, ok := h.m.ctrl.Notice()
	require.True(t, ok)
	assert.Equal(t, inbox.NoticeError, n.Kind)
	assert.Contains(t, h.m.View(), "connection refused")
}

func TestApp_Quit(t *testing.T) {
	h := newHarness(t)

	_, cmd := h.m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, h.m.ctrl.Closed())
}

func commandMsg(s string) tea.Msg {
	return command.CommandMsg(s)
}
