package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFolder(t *testing.T) {
	for _, f := range Folders {
		got, err := ParseFolder(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFolder("archive")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestFolder_CanMoveTo(t *testing.T) {
	tests := []struct {
		from, to Folder
		want     bool
	}{
		{FolderInbox, FolderPending, true},
		{FolderInbox, FolderTrash, true},
		{FolderPending, FolderInbox, true},
		{FolderPending, FolderTrash, true},
		{FolderInbox, FolderInbox, true},
		{FolderInbox, FolderSent, false},
		{FolderPending, FolderSent, false},
		{FolderSent, FolderInbox, false},
		{FolderTrash, FolderInbox, false},
		{FolderTrash, FolderPending, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.from.CanMoveTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStampColorFor(t *testing.T) {
	assert.Equal(t, StampRed, StampColorFor(UrgencyActionRequired))
	assert.Equal(t, StampBlue, StampColorFor(UrgencyInformational))
	assert.Equal(t, StampGreen, StampColorFor(UrgencyStandard))
	assert.Equal(t, StampGreen, StampColorFor(""))
}

func TestLetter_IsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, Letter{}.IsOverdue(now))
	assert.True(t, Letter{DueDate: &past}.IsOverdue(now))
	assert.False(t, Letter{DueDate: &future}.IsOverdue(now))
}

func TestListItem_Implementations(t *testing.T) {
	conv := Conversation{
		ID:          "c1",
		Subject:     "Budget",
		UnreadCount: 2,
		LastMessage: &MessageSummary{Author: "Awa", Excerpt: "Voici le projet"},
	}
	assert.Equal(t, "Awa: Voici le projet", conv.GetSubtitle())
	assert.True(t, conv.IsUnread())

	p := Parcel{Sender: "La Poste", TrackingNumber: "GA1", Status: ParcelTransit}
	assert.False(t, p.IsUnread())
	assert.True(t, p.GetTimestamp().IsZero())

	var items []ListItem = []ListItem{Letter{Subject: "x"}, p, conv}
	assert.Len(t, items, 3)
}
