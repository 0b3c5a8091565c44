package model

import "time"

// ListItem is the common interface for entries displayed in the unified
// list view. Letter, Parcel and Conversation implement it.
type ListItem interface {
	GetID() string
	GetTitle() string
	GetSubtitle() string
	IsUnread() bool
	GetTimestamp() time.Time
}

// Letter implements ListItem.

func (l Letter) GetID() string           { return l.ID }
func (l Letter) GetTitle() string        { return l.Subject }
func (l Letter) GetSubtitle() string     { return l.Sender }
func (l Letter) IsUnread() bool          { return !l.Read }
func (l Letter) GetTimestamp() time.Time { return l.CreatedAt }

// Parcel implements ListItem.

func (p Parcel) GetID() string       { return p.ID }
func (p Parcel) GetTitle() string    { return p.Description }
func (p Parcel) GetSubtitle() string { return p.Sender + " · " + p.TrackingNumber }
func (p Parcel) IsUnread() bool      { return p.Status == ParcelAvailable }
func (p Parcel) GetTimestamp() time.Time {
	if p.EstimatedDelivery == nil {
		return time.Time{}
	}
	return *p.EstimatedDelivery
}

// Conversation implements ListItem.

func (c Conversation) GetID() string    { return c.ID }
func (c Conversation) GetTitle() string { return c.Subject }
func (c Conversation) GetSubtitle() string {
	if c.LastMessage == nil {
		return ""
	}
	return c.LastMessage.Author + ": " + c.LastMessage.Excerpt
}
func (c Conversation) IsUnread() bool          { return c.UnreadCount > 0 }
func (c Conversation) GetTimestamp() time.Time { return c.UpdatedAt }
