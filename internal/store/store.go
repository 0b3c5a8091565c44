package store

import (
	"context"

	"github.com/nhle/iboite/internal/model"
)

// LetterStore is the read/mutate contract of the correspondence store.
// Implementations are synchronous; list reads never fail and return an
// empty slice for unknown accounts.
type LetterStore interface {
	// List returns the account's letters in folder, in insertion order.
	List(accountID string, folder model.Folder) []model.Letter

	// Get returns a single letter by id.
	Get(id string) (model.Letter, error)

	// Add stores a newly delivered or composed letter.
	Add(letter model.Letter) model.Letter

	// MoveToFolder atomically reassigns the letter's folder.
	MoveToFolder(id string, target model.Folder) (model.Letter, error)

	// MarkRead sets the read flag; it is idempotent.
	MarkRead(id string) (model.Letter, error)

	// UnreadCount counts unread letters in the account's inbox.
	UnreadCount(accountID string) int

	// FolderCounts returns the number of letters per folder.
	FolderCounts(accountID string) map[model.Folder]int
}

// ParcelCounts holds the parcel aggregates shown as badges.
type ParcelCounts struct {
	// Available parcels are ready for pickup (actionable).
	Available int
	// Transit parcels are on their way (informational).
	Transit int
}

// ParcelStore is the read-mostly contract of the parcel tracker.
type ParcelStore interface {
	List(accountID string) []model.Parcel
	Add(parcel model.Parcel) model.Parcel
	Counts(accountID string) ParcelCounts
}

// ConversationCache persists the last known copy of remote conversations.
type ConversationCache interface {
	SaveConversations(ctx context.Context, archived bool, convs []model.Conversation) error
	LoadConversations(ctx context.Context, archived bool) ([]model.Conversation, error)
	SaveMessages(ctx context.Context, conversationID string, msgs []model.Message) error
	LoadMessages(ctx context.Context, conversationID string) ([]model.Message, error)
}
