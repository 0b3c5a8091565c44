// Package sync runs conversation gateway calls off the Bubble Tea update
// loop and hands their results back as messages.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/iboite/internal/gateway"
	"github.com/nhle/iboite/internal/inbox"
	"github.com/nhle/iboite/internal/logging"
	"github.com/nhle/iboite/internal/model"
)

// SyncState represents the current state of the gateway traffic.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus summarises the last gateway call.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// ConversationsMsg carries the result of a list fetch.
type ConversationsMsg struct {
	Req           *inbox.ListRequest
	Conversations []model.Conversation
	Err           error
}

// MessagesMsg carries the result of a message load.
type MessagesMsg struct {
	Req      *inbox.OpenRequest
	Messages []model.Message
	Err      error
}

// CachedMessagesMsg carries the cached transcript of the conversation
// being opened.
type CachedMessagesMsg struct {
	Req      *inbox.OpenRequest
	Messages []model.Message
}

// MarkReadMsg carries the result of a mark-read call.
type MarkReadMsg struct {
	Req *inbox.OpenRequest
	Err error
}

// CachedMsg carries conversations read from the local cache at startup.
type CachedMsg struct {
	Archived      bool
	Conversations []model.Conversation
}

// Gateway is the subset of gateway.Gateway the dispatcher drives.
type Gateway interface {
	FetchConversations(ctx context.Context, f gateway.Filter) ([]model.Conversation, error)
	FetchMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	MarkConversationAsRead(ctx context.Context, conversationID string) error
	SendMessage(ctx context.Context, msg model.OutgoingMessage) (string, error)
	Cached(ctx context.Context, f gateway.Filter) ([]model.Conversation, error)
	CachedMessages(ctx context.Context, conversationID string) ([]model.Message, error)
}

// defaultTimeout bounds a single gateway call when none is configured.
const defaultTimeout = 30 * time.Second

// Dispatcher turns controller requests into tea.Cmds. A new list fetch
// cancels the previous one, a new open cancels the previous message load,
// and Stop cancels everything.
type Dispatcher struct {
	gw      Gateway
	timeout time.Duration
	log     logging.Logger

	root context.Context
	stop context.CancelFunc

	mu         gosync.Mutex
	listCancel context.CancelFunc
	openCancel context.CancelFunc
	status     SyncStatus
}

// New creates a Dispatcher around gw.
func New(gw Gateway, timeout time.Duration, log logging.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = logging.Discard()
	}
	root, stop := context.WithCancel(context.Background())
	return &Dispatcher{
		gw:      gw,
		timeout: timeout,
		log:     log,
		root:    root,
		stop:    stop,
	}
}

// List returns a command fetching the conversation list for req. It
// returns nil for a nil request.
func (d *Dispatcher) List(req *inbox.ListRequest) tea.Cmd {
	if req == nil {
		return nil
	}

	d.mu.Lock()
	if d.listCancel != nil {
		d.listCancel()
	}
	scope, cancel := context.WithCancel(d.root)
	d.listCancel = cancel
	d.mu.Unlock()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(scope, d.timeout)
		defer cancel()

		d.begin(scope)
		convs, err := d.gw.FetchConversations(ctx, req.Filter)
		d.finish(scope, err)
		return ConversationsMsg{Req: req, Conversations: convs, Err: err}
	}
}

// Open returns a command loading the messages of req.ConversationID and,
// when requested, marking it read. The cached transcript is read
// alongside so the thread shows up before the network answers. A later
// open cancels the load but never the mark-read call.
func (d *Dispatcher) Open(req *inbox.OpenRequest) tea.Cmd {
	if req == nil {
		return nil
	}

	d.mu.Lock()
	if d.openCancel != nil {
		d.openCancel()
	}
	scope, cancel := context.WithCancel(d.root)
	d.openCancel = cancel
	d.mu.Unlock()

	load := func() tea.Msg {
		ctx, cancel := context.WithTimeout(scope, d.timeout)
		defer cancel()

		d.begin(scope)
		msgs, err := d.gw.FetchMessages(ctx, req.ConversationID)
		d.finish(scope, err)
		return MessagesMsg{Req: req, Messages: msgs, Err: err}
	}
	cached := func() tea.Msg {
		ctx, cancel := context.WithTimeout(scope, d.timeout)
		defer cancel()

		msgs, err := d.gw.CachedMessages(ctx, req.ConversationID)
		if err != nil {
			d.log.Debug(ctx, "read message cache", "conversation", req.ConversationID, "error", err)
		}
		return CachedMessagesMsg{Req: req, Messages: msgs}
	}
	if !req.MarkRead {
		return tea.Batch(load, cached)
	}

	markRead := func() tea.Msg {
		ctx, cancel := context.WithTimeout(d.root, d.timeout)
		defer cancel()

		err := d.gw.MarkConversationAsRead(ctx, req.ConversationID)
		if err != nil {
			d.log.Warn(ctx, "mark read failed", "conversation", req.ConversationID, "error", err)
		}
		return MarkReadMsg{Req: req, Err: err}
	}
	return tea.Batch(load, cached, markRead)
}

// WarmStart returns a command reading the cached list for the given
// archive state.
func (d *Dispatcher) WarmStart(archived bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(d.root, d.timeout)
		defer cancel()

		convs, err := d.gw.Cached(ctx, gateway.Filter{Archived: archived})
		if err != nil {
			d.log.Warn(ctx, "read conversation cache", "error", err)
		}
		return CachedMsg{Archived: archived, Conversations: convs}
	}
}

// Send delivers msg synchronously and returns the conversation id. It is
// meant to be called from inside a tea.Cmd.
func (d *Dispatcher) Send(msg model.OutgoingMessage) (string, error) {
	ctx, cancel := context.WithTimeout(d.root, d.timeout)
	defer cancel()

	d.begin(d.root)
	id, err := d.gw.SendMessage(ctx, msg)
	d.finish(d.root, err)
	return id, err
}

// Cancel aborts the in-flight list fetch and message load.
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.listCancel != nil {
		d.listCancel()
		d.listCancel = nil
	}
	if d.openCancel != nil {
		d.openCancel()
		d.openCancel = nil
	}
}

// Stop cancels every pending and future call.
func (d *Dispatcher) Stop() {
	d.Cancel()
	d.stop()
}

// Status returns the outcome of the most recent call.
func (d *Dispatcher) Status() SyncStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// begin and finish record a call's progress in the status. scope is the
// call's cancellable context: once it is done the call was superseded or
// torn down and its outcome no longer speaks for the service.
func (d *Dispatcher) begin(scope context.Context) {
	if scope.Err() == nil {
		d.setStatus(SyncRunning, nil)
	}
}

func (d *Dispatcher) finish(scope context.Context, err error) {
	switch {
	case scope.Err() != nil:
	case err == nil:
		d.setStatus(SyncIdle, nil)
	default:
		d.setStatus(SyncError, err)
	}
}

func (d *Dispatcher) setStatus(state SyncState, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.status.State = state
	d.status.Error = err
	if state == SyncIdle {
		d.status.LastSync = time.Now()
	}
}
