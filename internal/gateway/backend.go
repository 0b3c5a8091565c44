// Package gateway is the client-side view of the remote message service.
// It wraps a Backend, normalizes its errors and message order, and keeps
// the local conversation cache up to date.
package gateway

import (
	"context"

	"github.com/nhle/iboite/internal/model"
)

// ListOptions selects which conversations a backend returns.
type ListOptions struct {
	Archived bool
}

// Backend defines the contract every remote message service must implement.
type Backend interface {
	// Name identifies the backend in logs and the status bar.
	Name() string

	// GetConversations returns the conversations matching opts, most
	// recently updated first.
	GetConversations(ctx context.Context, opts ListOptions) ([]model.Conversation, error)

	// GetMessages returns the messages of a conversation, newest first.
	GetMessages(ctx context.Context, conversationID string) ([]model.Message, error)

	// MarkConversationAsRead clears the remote unread state of a conversation.
	MarkConversationAsRead(ctx context.Context, conversationID string) error

	// SendMessage delivers msg and returns the id of the conversation it
	// landed in, which is a new id when msg.ConversationID is empty.
	SendMessage(ctx context.Context, msg model.OutgoingMessage) (string, error)
}
