package inbox

import (
	"fmt"

	"github.com/nhle/iboite/internal/gateway"
	"github.com/nhle/iboite/internal/model"
)

// Channel is one of the three correspondence channels merged by the inbox.
type Channel string

const (
	ChannelLetters       Channel = "letters"
	ChannelParcels       Channel = "parcels"
	ChannelConversations Channel = "conversations"
)

// Channels lists the channels in sidebar order.
var Channels = []Channel{ChannelLetters, ChannelParcels, ChannelConversations}

// ParseChannel converts a channel name into a Channel.
func ParseChannel(s string) (Channel, error) {
	switch c := Channel(s); c {
	case ChannelLetters, ChannelParcels, ChannelConversations:
		return c, nil
	}
	return "", &model.ValidationError{Field: "channel", Message: fmt.Sprintf("unknown channel %q", s)}
}

// Label returns the display name of the channel.
func (c Channel) Label() string {
	switch c {
	case ChannelLetters:
		return "Letters"
	case ChannelParcels:
		return "Parcels"
	case ChannelConversations:
		return "Conversations"
	default:
		return string(c)
	}
}

// Folders returns the folders a channel can show. Parcels have none;
// conversations map inbox to the active list and trash to the archive.
func (c Channel) Folders() []model.Folder {
	switch c {
	case ChannelLetters:
		return model.Folders
	case ChannelConversations:
		return []model.Folder{model.FolderInbox, model.FolderTrash}
	default:
		return nil
	}
}

// Supports reports whether f is one of the channel's folders.
func (c Channel) Supports(f model.Folder) bool {
	for _, cf := range c.Folders() {
		if cf == f {
			return true
		}
	}
	return false
}

// FilterFor maps a conversation folder to the remote list filter.
func FilterFor(f model.Folder) gateway.Filter {
	return gateway.Filter{Archived: f == model.FolderTrash}
}

// LoadState is the progress of an asynchronous load.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateReady
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "idle"
	}
}

// NoticeKind distinguishes informational notices from failures.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
)

// Notice is a transient, dismissable message for the status bar.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Badges are the per-channel counters shown in the sidebar.
type Badges struct {
	// Letters is the number of unread letters in the inbox folder.
	Letters int
	// Parcels is the number of parcels ready for pickup.
	Parcels int
	// ParcelsInTransit is informational and never highlighted.
	ParcelsInTransit int
	// Conversations is the remote unread total of the active list.
	Conversations int
}

// ListRequest asks for the conversation list matching Filter. Seq
// identifies the dispatch; only the most recent request is applied.
type ListRequest struct {
	Seq       uint64
	AccountID string
	Filter    gateway.Filter
}

// OpenRequest asks for the messages of a conversation and, when MarkRead
// is set, for clearing its unread state.
type OpenRequest struct {
	Seq            uint64
	ConversationID string
	MarkRead       bool
}
