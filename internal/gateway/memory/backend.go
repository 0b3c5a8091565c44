// Package memory is an in-process message service used for the demo mode
// and in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/iboite/internal/gateway"
	"github.com/nhle/iboite/internal/model"
)

const excerptLen = 80

// Backend keeps conversations and their messages in memory. It implements
// gateway.Backend and is safe for concurrent use.
type Backend struct {
	mu       sync.Mutex
	self     model.Participant
	convs    map[string]*model.Conversation
	messages map[string][]model.Message // oldest first
	now      func() time.Time
}

// New creates an empty backend that sends messages as self.
func New(self string) *Backend {
	return &Backend{
		self:     model.Participant{ID: "me", Name: self, Role: "député"},
		convs:    make(map[string]*model.Conversation),
		messages: make(map[string][]model.Message),
		now:      time.Now,
	}
}

// Name implements gateway.Backend.
func (b *Backend) Name() string { return "memory" }

// AddConversation stores c along with its messages (in any order). The
// conversation summary is derived from the messages when they are given.
func (b *Backend) AddConversation(c model.Conversation, msgs ...model.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sorted := make([]model.Message, len(msgs))
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SentAt.Before(sorted[j].SentAt)
	})
	for i := range sorted {
		sorted[i].ConversationID = c.ID
	}

	cc := c
	b.convs[c.ID] = &cc
	b.messages[c.ID] = sorted
	if len(sorted) > 0 {
		b.touch(&cc, sorted[len(sorted)-1])
	}
}

// GetConversations implements gateway.Backend.
func (b *Backend) GetConversations(ctx context.Context, opts gateway.ListOptions) ([]model.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]model.Conversation, 0, len(b.convs))
	for _, c := range b.convs {
		if c.Archived == opts.Archived {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// GetMessages implements gateway.Backend. Messages are returned newest first.
func (b *Backend) GetMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.convs[conversationID]; !ok {
		return nil, &model.NotFoundError{Kind: "conversation", ID: conversationID}
	}
	msgs := b.messages[conversationID]
	out := make([]model.Message, len(msgs))
	for i, m := range msgs {
		out[len(msgs)-1-i] = m
	}
	return out, nil
}

// MarkConversationAsRead implements gateway.Backend.
func (b *Backend) MarkConversationAsRead(ctx context.Context, conversationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.convs[conversationID]
	if !ok {
		return &model.NotFoundError{Kind: "conversation", ID: conversationID}
	}
	c.UnreadCount = 0
	return nil
}

// SendMessage implements gateway.Backend.
func (b *Backend) SendMessage(ctx context.Context, msg model.OutgoingMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.convs[msg.ConversationID]
	if msg.ConversationID != "" && !ok {
		return "", &model.NotFoundError{Kind: "conversation", ID: msg.ConversationID}
	}
	if !ok {
		participants := []model.Participant{b.self}
		for _, r := range msg.Recipients {
			participants = append(participants, model.Participant{ID: r.ID, Name: r.Name})
		}
		c = &model.Conversation{
			ID:           uuid.NewString(),
			Subject:      msg.Subject,
			Participants: participants,
		}
		b.convs[c.ID] = c
	}

	m := model.Message{
		ID:             uuid.NewString(),
		ConversationID: c.ID,
		Author:         b.self,
		Body:           msg.Body,
		SentAt:         b.now(),
	}
	b.messages[c.ID] = append(b.messages[c.ID], m)
	b.touch(c, m)
	return c.ID, nil
}

// touch refreshes the conversation summary after m was appended.
func (b *Backend) touch(c *model.Conversation, m model.Message) {
	c.UpdatedAt = m.SentAt
	c.LastMessage = &model.MessageSummary{
		Author:  m.Author.Name,
		Excerpt: excerpt(m.Body),
		SentAt:  m.SentAt,
	}
}

func excerpt(body string) string {
	s := strings.Join(strings.Fields(body), " ")
	r := []rune(s)
	if len(r) <= excerptLen {
		return s
	}
	return string(r[:excerptLen-1]) + "…"
}
