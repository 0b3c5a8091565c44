// Package inbox holds the unified inbox controller: the single source of
// truth for what is currently shown across letters, parcels and
// conversations.
//
// The controller is synchronous and owned by one event loop. Transitions
// that need the message service return request values; the caller runs
// them and feeds results back through the Apply methods, which discard
// anything that no longer matches the current state.
package inbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/iboite/internal/logging"
	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/store"
)

// Controller is the explicit state object behind the inbox view.
type Controller struct {
	accounts *store.AccountRegistry
	letters  store.LetterStore
	parcels  store.ParcelStore
	log      logging.Logger

	account model.Account
	channel Channel

	letterFolder model.Folder
	convFolder   model.Folder

	// selected is the id of the selected item of the active channel.
	// There is at most one selection across all channels.
	selected string

	seq uint64

	// Conversation lists, keyed by the archived filter.
	lists       map[bool][]model.Conversation
	listLoaded  map[bool]bool
	listPending *ListRequest

	// readAt maps a conversation to the seq current when its mark-read
	// was confirmed. Lists dispatched up to that seq may predate the
	// remote update.
	readAt map[string]uint64

	openID    string
	openState LoadState
	openSeq   uint64
	messages  []model.Message

	notice *Notice
	closed bool
}

// NewController creates a controller showing the letters inbox of the
// registry's default account.
func NewController(
	accounts *store.AccountRegistry,
	letters store.LetterStore,
	parcels store.ParcelStore,
	log logging.Logger,
) (*Controller, error) {
	account, ok := accounts.Default()
	if !ok {
		return nil, errors.New("no account configured")
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{
		accounts:     accounts,
		letters:      letters,
		parcels:      parcels,
		log:          log,
		account:      account,
		channel:      ChannelLetters,
		letterFolder: model.FolderInbox,
		convFolder:   model.FolderInbox,
		lists:        make(map[bool][]model.Conversation),
		listLoaded:   make(map[bool]bool),
		readAt:       make(map[string]uint64),
	}, nil
}

// --- queries ---

// Account returns the active account.
func (c *Controller) Account() model.Account { return c.account }

// Accounts lists every configured account.
func (c *Controller) Accounts() []model.Account { return c.accounts.List() }

// Channel returns the active channel.
func (c *Controller) Channel() Channel { return c.channel }

// Folder returns the active folder of the active channel; it is empty for
// parcels.
func (c *Controller) Folder() model.Folder {
	switch c.channel {
	case ChannelLetters:
		return c.letterFolder
	case ChannelConversations:
		return c.convFolder
	default:
		return ""
	}
}

// Selected returns the selected item id, or "" when nothing is selected.
func (c *Controller) Selected() string { return c.selected }

// Letters returns the letters of the active account in the letter folder.
func (c *Controller) Letters() []model.Letter {
	return c.letters.List(c.account.ID, c.letterFolder)
}

// Parcels returns the parcels of the active account.
func (c *Controller) Parcels() []model.Parcel {
	return c.parcels.List(c.account.ID)
}

// Conversations returns the last known list for the active conversation
// folder. It is never cleared by a failed fetch.
func (c *Controller) Conversations() []model.Conversation {
	return c.lists[FilterFor(c.convFolder).Archived]
}

// ListState reports whether the active conversation list is loading.
func (c *Controller) ListState() LoadState {
	switch {
	case c.listPending != nil:
		return StateLoading
	case c.listLoaded[FilterFor(c.convFolder).Archived]:
		return StateReady
	default:
		return StateIdle
	}
}

// Items returns the entries of the active channel and folder.
func (c *Controller) Items() []model.ListItem {
	var items []model.ListItem
	switch c.channel {
	case ChannelLetters:
		for _, l := range c.Letters() {
			items = append(items, l)
		}
	case ChannelParcels:
		for _, p := range c.Parcels() {
			items = append(items, p)
		}
	case ChannelConversations:
		for _, conv := range c.Conversations() {
			items = append(items, conv)
		}
	}
	return items
}

// SelectedLetter returns the selected letter when the letters channel has
// a selection.
func (c *Controller) SelectedLetter() (model.Letter, bool) {
	if c.channel != ChannelLetters || c.selected == "" {
		return model.Letter{}, false
	}
	l, err := c.letters.Get(c.selected)
	if err != nil {
		return model.Letter{}, false
	}
	return l, true
}

// SelectedParcel returns the selected parcel when the parcels channel has
// a selection.
func (c *Controller) SelectedParcel() (model.Parcel, bool) {
	if c.channel != ChannelParcels || c.selected == "" {
		return model.Parcel{}, false
	}
	for _, p := range c.Parcels() {
		if p.ID == c.selected {
			return p, true
		}
	}
	return model.Parcel{}, false
}

// Thread returns the open conversation, its load state and its messages in
// chronological order.
func (c *Controller) Thread() (model.Conversation, LoadState, []model.Message) {
	if c.openID == "" {
		return model.Conversation{}, StateIdle, nil
	}
	conv, _ := c.findConversation(c.openID)
	return conv, c.openState, c.messages
}

// Notice returns the current notice, if any.
func (c *Controller) Notice() (Notice, bool) {
	if c.notice == nil {
		return Notice{}, false
	}
	return *c.notice, true
}

// Badges computes the sidebar counters from the stores and the last known
// active conversation list. Nothing is cached.
func (c *Controller) Badges() Badges {
	pc := c.parcels.Counts(c.account.ID)
	b := Badges{
		Letters:          c.letters.UnreadCount(c.account.ID),
		Parcels:          pc.Available,
		ParcelsInTransit: pc.Transit,
	}
	for _, conv := range c.lists[false] {
		b.Conversations += conv.UnreadCount
	}
	return b
}

// FolderCounts returns the number of letters per folder for the active
// account.
func (c *Controller) FolderCounts() map[model.Folder]int {
	return c.letters.FolderCounts(c.account.ID)
}

// Closed reports whether Close was called.
func (c *Controller) Closed() bool { return c.closed }

// --- transitions ---

// SelectAccount switches the active account. Channel-local state is hard
// reset: folders return to inbox, the selection is cleared, the open
// conversation is closed and in-flight conversation results are dropped.
func (c *Controller) SelectAccount(id string) (*ListRequest, error) {
	if c.closed {
		return nil, nil
	}
	account, err := c.accounts.Select(id)
	if err != nil {
		return nil, err
	}

	c.account = account
	c.letterFolder = model.FolderInbox
	c.convFolder = model.FolderInbox
	c.selected = ""
	c.closeThread()
	c.listPending = nil
	c.log.Debug(context.Background(), "account selected", "account", id)

	if c.channel == ChannelConversations {
		return c.newListRequest(), nil
	}
	return nil, nil
}

// NextAccount switches to the account after the active one, wrapping
// around.
func (c *Controller) NextAccount() (*ListRequest, error) {
	next, ok := c.accounts.Next(c.account.ID)
	if !ok || next.ID == c.account.ID {
		return nil, nil
	}
	return c.SelectAccount(next.ID)
}

// SelectChannel switches the active channel. The selection and the open
// conversation are cleared and pending conversation results are dropped.
// Entering the conversations channel requests a fresh list.
func (c *Controller) SelectChannel(ch Channel) *ListRequest {
	if c.closed {
		return nil
	}
	c.channel = ch
	c.selected = ""
	c.closeThread()
	c.listPending = nil

	if ch == ChannelConversations {
		return c.newListRequest()
	}
	return nil
}

// SelectFolder switches the folder of the active channel and clears the
// selection. On the conversations channel it supersedes any in-flight list
// request with one for the new filter.
func (c *Controller) SelectFolder(f model.Folder) (*ListRequest, error) {
	if c.closed {
		return nil, nil
	}
	if _, err := model.ParseFolder(string(f)); err != nil {
		return nil, err
	}
	if !c.channel.Supports(f) {
		return nil, &model.ValidationError{
			Field:   "folder",
			Message: fmt.Sprintf("%s has no %s folder", c.channel.Label(), f.Label()),
		}
	}

	c.selected = ""
	switch c.channel {
	case ChannelLetters:
		c.letterFolder = f
		return nil, nil
	case ChannelConversations:
		c.convFolder = f
		c.closeThread()
		return c.newListRequest(), nil
	}
	return nil, nil
}

// SelectItem selects an item of the active channel.
//
// Selecting a letter marks it read; it never moves it. Selecting a
// conversation opens it: the returned request loads its messages and
// clears its unread state. Re-selecting the conversation that is already
// open returns no request.
func (c *Controller) SelectItem(id string) (*OpenRequest, error) {
	if c.closed {
		return nil, nil
	}

	switch c.channel {
	case ChannelLetters:
		if !c.inView(id) {
			return nil, &model.NotFoundError{Kind: "letter", ID: id}
		}
		if _, err := c.letters.MarkRead(id); err != nil {
			return nil, err
		}
		c.selected = id
		return nil, nil

	case ChannelParcels:
		if _, ok := c.findParcel(id); !ok {
			return nil, &model.NotFoundError{Kind: "parcel", ID: id}
		}
		c.selected = id
		return nil, nil

	case ChannelConversations:
		if _, ok := c.findConversation(id); !ok {
			return nil, &model.NotFoundError{Kind: "conversation", ID: id}
		}
		c.selected = id
		if c.openID == id && c.openState != StateIdle {
			return nil, nil
		}
		c.seq++
		c.openID = id
		c.openSeq = c.seq
		c.openState = StateLoading
		c.messages = nil
		return &OpenRequest{Seq: c.openSeq, ConversationID: id, MarkRead: true}, nil
	}
	return nil, nil
}

// ClearSelection deselects the current item and closes an open
// conversation; its pending load is dropped.
func (c *Controller) ClearSelection() {
	if c.closed {
		return
	}
	c.selected = ""
	c.closeThread()
}

// MoveLetter reassigns a letter of the active account to folder. When the
// letter leaves the visible folder it is deselected.
func (c *Controller) MoveLetter(id string, folder model.Folder) (model.Letter, error) {
	if c.closed {
		return model.Letter{}, errors.New("inbox closed")
	}
	l, err := c.letters.Get(id)
	if err != nil {
		return model.Letter{}, err
	}
	if l.AccountID != c.account.ID {
		return model.Letter{}, &model.NotFoundError{Kind: "letter", ID: id}
	}

	moved, err := c.letters.MoveToFolder(id, folder)
	if err != nil {
		return model.Letter{}, err
	}
	if c.selected == id && (c.channel != ChannelLetters || moved.Folder != c.letterFolder) {
		c.selected = ""
	}
	return moved, nil
}

// MoveSelected moves the selected letter to folder.
func (c *Controller) MoveSelected(folder model.Folder) (model.Letter, error) {
	if c.channel != ChannelLetters || c.selected == "" {
		return model.Letter{}, &model.ValidationError{Field: "selection", Message: "no letter selected"}
	}
	return c.MoveLetter(c.selected, folder)
}

// MarkLetterRead sets the read flag of a letter of the active account.
func (c *Controller) MarkLetterRead(id string) (model.Letter, error) {
	l, err := c.letters.Get(id)
	if err != nil {
		return model.Letter{}, err
	}
	if l.AccountID != c.account.ID {
		return model.Letter{}, &model.NotFoundError{Kind: "letter", ID: id}
	}
	return c.letters.MarkRead(id)
}

// Refresh re-requests the active conversation list. It returns nil outside
// the conversations channel.
func (c *Controller) Refresh() *ListRequest {
	if c.closed || c.channel != ChannelConversations {
		return nil
	}
	return c.newListRequest()
}

// ConversationSent records a successful send. The conversation list is
// invalidated and re-requested; when the message went to the open
// conversation its messages are reloaded too.
func (c *Controller) ConversationSent(conversationID string) (*ListRequest, *OpenRequest) {
	if c.closed {
		return nil, nil
	}
	c.notice = &Notice{Kind: NoticeInfo, Message: "Message sent"}
	c.listLoaded = make(map[bool]bool)
	if c.channel != ChannelConversations {
		return nil, nil
	}

	list := c.newListRequest()
	var open *OpenRequest
	if c.openID != "" && c.openID == conversationID {
		c.seq++
		c.openSeq = c.seq
		c.openState = StateLoading
		open = &OpenRequest{Seq: c.openSeq, ConversationID: conversationID}
	}
	return list, open
}

// SeedConversations installs a cached list for a filter that has not been
// fetched yet, so the view is populated before the first fetch returns.
func (c *Controller) SeedConversations(archived bool, convs []model.Conversation) {
	if c.closed || c.listLoaded[archived] || len(c.lists[archived]) > 0 {
		return
	}
	c.lists[archived] = convs
}

// DismissNotice clears the current notice.
func (c *Controller) DismissNotice() {
	c.notice = nil
}

// Notify sets a notice from outside the controller, e.g. a failed local
// operation.
func (c *Controller) Notify(kind NoticeKind, message string) {
	if c.closed {
		return
	}
	c.notice = &Notice{Kind: kind, Message: message}
}

// Close tears the controller down. Every result applied afterwards is
// discarded and transitions become no-ops.
func (c *Controller) Close() {
	c.closed = true
	c.listPending = nil
	c.closeThread()
}

// --- results ---

// ApplyConversations applies the result of req. It reports false when the
// result is stale: the controller is closed, the conversations channel is
// no longer active, or a newer request or a different filter superseded
// req. On failure the previous list is kept and a notice is set.
func (c *Controller) ApplyConversations(req *ListRequest, convs []model.Conversation, err error) bool {
	if c.closed || req == nil || c.channel != ChannelConversations {
		return false
	}
	if c.listPending == nil || c.listPending.Seq != req.Seq {
		return false
	}
	if req.Filter != FilterFor(c.convFolder) || req.AccountID != c.account.ID {
		return false
	}
	c.listPending = nil

	if err != nil {
		c.notice = &Notice{Kind: NoticeError, Message: "Could not load conversations: " + err.Error()}
		c.log.Warn(context.Background(), "conversation list failed", "archived", req.Filter.Archived, "error", err)
		return true
	}

	list := make([]model.Conversation, len(convs))
	copy(list, convs)
	for i := range list {
		at, ok := c.readAt[list[i].ID]
		if !ok {
			continue
		}
		if req.Seq <= at {
			list[i].UnreadCount = 0
		} else {
			delete(c.readAt, list[i].ID)
		}
	}
	c.lists[req.Filter.Archived] = list
	c.listLoaded[req.Filter.Archived] = true
	return true
}

// ApplyMessages applies the messages loaded for req, which are expected in
// chronological order. Only the most recent open is applied. On failure
// the conversation returns to idle with a notice.
func (c *Controller) ApplyMessages(req *OpenRequest, msgs []model.Message, err error) bool {
	if c.closed || req == nil || c.channel != ChannelConversations {
		return false
	}
	if req.Seq != c.openSeq || req.ConversationID != c.openID || c.openState != StateLoading {
		return false
	}

	if err != nil {
		c.openState = StateIdle
		c.messages = nil
		c.notice = &Notice{Kind: NoticeError, Message: "Could not open conversation: " + err.Error()}
		return true
	}

	c.openState = StateReady
	c.messages = msgs
	return true
}

// SeedMessages shows a cached transcript while req is still loading. It
// is ignored once the load has completed.
func (c *Controller) SeedMessages(req *OpenRequest, msgs []model.Message) bool {
	if c.closed || req == nil || c.channel != ChannelConversations || len(msgs) == 0 {
		return false
	}
	if req.Seq != c.openSeq || req.ConversationID != c.openID || c.openState != StateLoading {
		return false
	}
	c.messages = msgs
	return true
}

// ApplyMarkRead applies the outcome of the mark-read call of req. The
// local unread counter is zeroed only on success. The remote state has
// changed either way, so the result is applied even when req is no longer
// the open conversation.
func (c *Controller) ApplyMarkRead(req *OpenRequest, err error) bool {
	if c.closed || req == nil || !req.MarkRead {
		return false
	}
	if err != nil {
		c.notice = &Notice{Kind: NoticeError, Message: "Could not mark conversation as read: " + err.Error()}
		return true
	}

	c.readAt[req.ConversationID] = c.seq
	for archived, list := range c.lists {
		for i := range list {
			if list[i].ID == req.ConversationID {
				list[i].UnreadCount = 0
			}
		}
		c.lists[archived] = list
	}
	return true
}

// --- helpers ---

func (c *Controller) newListRequest() *ListRequest {
	c.seq++
	req := &ListRequest{
		Seq:       c.seq,
		AccountID: c.account.ID,
		Filter:    FilterFor(c.convFolder),
	}
	c.listPending = req
	return req
}

func (c *Controller) closeThread() {
	c.seq++
	c.openSeq = c.seq
	c.openID = ""
	c.openState = StateIdle
	c.messages = nil
}

func (c *Controller) inView(letterID string) bool {
	for _, l := range c.Letters() {
		if l.ID == letterID {
			return true
		}
	}
	return false
}

func (c *Controller) findParcel(id string) (model.Parcel, bool) {
	for _, p := range c.Parcels() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Parcel{}, false
}

func (c *Controller) findConversation(id string) (model.Conversation, bool) {
	for _, list := range c.lists {
		for _, conv := range list {
			if conv.ID == id {
				return conv, true
			}
		}
	}
	return model.Conversation{}, false
}
