// Package httpapi implements the message service backend over its JSON
// REST API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nhle/iboite/internal/gateway"
	"github.com/nhle/iboite/internal/model"
)

// Backend implements gateway.Backend for the REST message service.
type Backend struct {
	client *Client
}

// NewBackend creates a REST backend on top of client.
func NewBackend(client *Client) *Backend {
	return &Backend{client: client}
}

// Name implements gateway.Backend.
func (b *Backend) Name() string { return "http" }

// GetConversations implements gateway.Backend.
func (b *Backend) GetConversations(ctx context.Context, opts gateway.ListOptions) ([]model.Conversation, error) {
	q := url.Values{}
	q.Set("archived", strconv.FormatBool(opts.Archived))

	var resp []conversationDTO
	if err := b.client.Get(ctx, "/conversations?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	convs := make([]model.Conversation, 0, len(resp))
	for _, c := range resp {
		convs = append(convs, c.toModel())
	}
	return convs, nil
}

// GetMessages implements gateway.Backend. The service returns messages
// newest first and they are passed on in that order.
func (b *Backend) GetMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var resp []messageDTO
	path := "/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := b.client.Get(ctx, path, &resp); err != nil {
		return nil, notFound(err, conversationID)
	}

	msgs := make([]model.Message, 0, len(resp))
	for _, m := range resp {
		msgs = append(msgs, m.toModel(conversationID))
	}
	return msgs, nil
}

// MarkConversationAsRead implements gateway.Backend.
func (b *Backend) MarkConversationAsRead(ctx context.Context, conversationID string) error {
	path := "/conversations/" + url.PathEscape(conversationID) + "/read"
	if err := b.client.Post(ctx, path, nil, nil); err != nil {
		return notFound(err, conversationID)
	}
	return nil
}

// SendMessage implements gateway.Backend.
func (b *Backend) SendMessage(ctx context.Context, msg model.OutgoingMessage) (string, error) {
	var resp sendResponse
	if err := b.client.Post(ctx, "/messages", newSendRequest(msg), &resp); err != nil {
		return "", notFound(err, msg.ConversationID)
	}
	if resp.ConversationID == "" {
		return "", fmt.Errorf("sending message: response has no conversationId")
	}
	return resp.ConversationID, nil
}

// notFound turns a 404 into a *model.NotFoundError for the conversation.
func notFound(err error, conversationID string) error {
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return &model.NotFoundError{Kind: "conversation", ID: conversationID}
	}
	return err
}
