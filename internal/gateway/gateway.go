package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/nhle/iboite/internal/logging"
	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/store"
)

// Filter is the conversation list filter the inbox is currently showing.
type Filter struct {
	Archived bool
}

// Gateway is the single entry point the rest of the application uses to
// talk to the message service.
type Gateway struct {
	backend Backend
	cache   store.ConversationCache
	log     logging.Logger
}

// New creates a Gateway. cache may be nil, in which case nothing is cached
// and Cached always returns an empty list.
func New(backend Backend, cache store.ConversationCache, log logging.Logger) *Gateway {
	if log == nil {
		log = logging.Discard()
	}
	return &Gateway{
		backend: backend,
		cache:   cache,
		log:     log.With("backend", backend.Name()),
	}
}

// Backend returns the wrapped backend.
func (g *Gateway) Backend() Backend {
	return g.backend
}

// FetchConversations lists the conversations matching f. On success the
// result replaces the cached list for that filter.
func (g *Gateway) FetchConversations(ctx context.Context, f Filter) ([]model.Conversation, error) {
	convs, err := g.backend.GetConversations(ctx, ListOptions{Archived: f.Archived})
	if err != nil {
		return nil, g.wrap(ctx, "list conversations", err)
	}
	if convs == nil {
		convs = []model.Conversation{}
	}
	g.log.Debug(ctx, "conversations fetched", "archived", f.Archived, "count", len(convs))

	if g.cache != nil {
		if err := g.cache.SaveConversations(ctx, f.Archived, convs); err != nil {
			g.log.Warn(ctx, "caching conversations", "error", err)
		}
	}
	return convs, nil
}

// FetchMessages loads the messages of a conversation in chronological
// order (oldest first).
func (g *Gateway) FetchMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	msgs, err := g.backend.GetMessages(ctx, conversationID)
	if err != nil {
		return nil, g.wrap(ctx, "get messages", err)
	}
	msgs = Chronological(msgs)

	if g.cache != nil {
		if err := g.cache.SaveMessages(ctx, conversationID, msgs); err != nil {
			g.log.Warn(ctx, "caching messages", "conversation", conversationID, "error", err)
		}
	}
	return msgs, nil
}

// MarkConversationAsRead clears the remote unread state of a conversation.
func (g *Gateway) MarkConversationAsRead(ctx context.Context, conversationID string) error {
	if err := g.backend.MarkConversationAsRead(ctx, conversationID); err != nil {
		return g.wrap(ctx, "mark conversation read", err)
	}
	return nil
}

// SendMessage validates msg and hands it to the backend. Invalid input is
// reported as a *model.ValidationError without contacting the backend.
func (g *Gateway) SendMessage(ctx context.Context, msg model.OutgoingMessage) (string, error) {
	if err := Validate(msg); err != nil {
		return "", err
	}
	id, err := g.backend.SendMessage(ctx, msg)
	if err != nil {
		return "", g.wrap(ctx, "send message", err)
	}
	g.log.Info(ctx, "message sent", "conversation", id)
	return id, nil
}

// Cached returns the last successfully fetched list for f, or an empty
// list when nothing is cached yet.
func (g *Gateway) Cached(ctx context.Context, f Filter) ([]model.Conversation, error) {
	if g.cache == nil {
		return []model.Conversation{}, nil
	}
	return g.cache.LoadConversations(ctx, f.Archived)
}

// CachedMessages returns the cached transcript of a conversation, oldest
// first, or an empty slice when it was never opened.
func (g *Gateway) CachedMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	if g.cache == nil {
		return []model.Message{}, nil
	}
	return g.cache.LoadMessages(ctx, conversationID)
}

// wrap classifies a backend failure. Not-found and validation errors pass
// through unchanged; everything else becomes a *model.TransportError.
func (g *Gateway) wrap(ctx context.Context, op string, err error) error {
	if model.IsNotFound(err) || model.IsValidationError(err) || model.IsTransportError(err) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		g.log.Debug(ctx, "request cancelled", "op", op)
	} else {
		g.log.Error(ctx, "backend call failed", "op", op, "error", err)
	}
	return &model.TransportError{Op: op, Err: err}
}

// Chronological returns msgs reordered oldest first. The remote service
// delivers messages newest first; this is the only place that order is
// reversed. The input slice is left untouched.
func Chronological(msgs []model.Message) []model.Message {
	out := make([]model.Message, len(msgs))
	for i, m := range msgs {
		out[len(msgs)-1-i] = m
	}
	return out
}

// Validate checks an outgoing message before it is sent. A new
// conversation needs at least one recipient and a subject; every message
// needs a body.
func Validate(msg model.OutgoingMessage) error {
	if msg.ConversationID == "" {
		if len(msg.Recipients) == 0 {
			return &model.ValidationError{Field: "recipients", Message: "at least one recipient is required"}
		}
		for _, r := range msg.Recipients {
			if strings.TrimSpace(r.ID) == "" && strings.TrimSpace(r.Email) == "" {
				return &model.ValidationError{Field: "recipients", Message: "recipient " + r.Name + " has no address"}
			}
		}
		if strings.TrimSpace(msg.Subject) == "" {
			return &model.ValidationError{Field: "subject", Message: "subject is required"}
		}
	}
	if strings.TrimSpace(msg.Body) == "" {
		return &model.ValidationError{Field: "body", Message: "message body is empty"}
	}
	return nil
}
