package model

import (
	"fmt"
	"time"
)

// Folder is the triage state of a letter. A letter lives in exactly one
// folder at a time.
type Folder string

const (
	FolderInbox   Folder = "inbox"
	FolderSent    Folder = "sent"
	FolderPending Folder = "pending"
	FolderTrash   Folder = "trash"
)

// Folders lists the letter folders in sidebar order.
var Folders = []Folder{FolderInbox, FolderSent, FolderPending, FolderTrash}

// ParseFolder converts a folder name into a Folder, rejecting unknown names.
func ParseFolder(s string) (Folder, error) {
	switch f := Folder(s); f {
	case FolderInbox, FolderSent, FolderPending, FolderTrash:
		return f, nil
	}
	return "", &ValidationError{Field: "folder", Message: fmt.Sprintf("unknown folder %q", s)}
}

// Label returns the display name of the folder.
func (f Folder) Label() string {
	switch f {
	case FolderInbox:
		return "Inbox"
	case FolderSent:
		return "Sent"
	case FolderPending:
		return "Pending"
	case FolderTrash:
		return "Trash"
	default:
		return string(f)
	}
}

// CanMoveTo reports whether a letter in f may be reassigned to target.
// The folder machine is inbox <-> pending -> trash, inbox -> trash, with
// sent and trash terminal. Nothing can be moved into sent.
func (f Folder) CanMoveTo(target Folder) bool {
	if f == target {
		return true
	}
	switch f {
	case FolderInbox:
		return target == FolderPending || target == FolderTrash
	case FolderPending:
		return target == FolderInbox || target == FolderTrash
	default:
		return false
	}
}

// Urgency classifies how much attention a letter needs.
type Urgency string

const (
	UrgencyActionRequired Urgency = "action_required"
	UrgencyInformational  Urgency = "informational"
	UrgencyStandard       Urgency = "standard"
)

// ParseUrgency converts a stored value into an Urgency.
func ParseUrgency(s string) (Urgency, error) {
	switch u := Urgency(s); u {
	case UrgencyActionRequired, UrgencyInformational, UrgencyStandard:
		return u, nil
	}
	return "", fmt.Errorf("unknown urgency %q", s)
}

// StampColor is a presentation hint derived from urgency.
type StampColor string

const (
	StampRed   StampColor = "red"
	StampBlue  StampColor = "blue"
	StampGreen StampColor = "green"
)

// StampColorFor returns the stamp color used for the given urgency.
func StampColorFor(u Urgency) StampColor {
	switch u {
	case UrgencyActionRequired:
		return StampRed
	case UrgencyInformational:
		return StampBlue
	default:
		return StampGreen
	}
}

// Attachment describes a file attached to a letter or message.
type Attachment struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Letter is a postal-style digital letter owned by one account.
type Letter struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Folder    Folder `json:"folder"`

	Sender           string `json:"sender"`
	SenderAddress    string `json:"sender_address"`
	Recipient        string `json:"recipient"`
	RecipientAddress string `json:"recipient_address"`

	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments,omitempty"`

	Read       bool       `json:"read"`
	Urgency    Urgency    `json:"urgency"`
	StampColor StampColor `json:"stamp_color"`

	CreatedAt time.Time  `json:"created_at"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}

// IsOverdue reports whether the letter has a due date in the past.
func (l Letter) IsOverdue(now time.Time) bool {
	return l.DueDate != nil && l.DueDate.Before(now)
}
