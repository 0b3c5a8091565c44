package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhle/iboite/internal/model"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestCache(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSQLiteCache_ConversationsRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	convs := []model.Conversation{
		{
			ID:           "c2",
			Subject:      "Budget",
			Participants: []model.Participant{{ID: "p1", Name: "Awa"}},
			UnreadCount:  3,
			LastMessage:  &model.MessageSummary{Author: "Awa", Excerpt: "ok", SentAt: fixedNow},
			UpdatedAt:    fixedNow,
		},
		{ID: "c1", Subject: "Agenda", UpdatedAt: fixedNow.Add(-time.Hour)},
	}
	require.NoError(t, c.SaveConversations(ctx, false, convs))
	require.NoError(t, c.SaveConversations(ctx, true, []model.Conversation{{ID: "c9", Subject: "Old", UpdatedAt: fixedNow}}))

	got, err := c.LoadConversations(ctx, false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "c2", got[0].ID)
	require.Equal(t, "c1", got[1].ID)
	require.Equal(t, 3, got[0].UnreadCount)
	require.Equal(t, "Awa", got[0].Participants[0].Name)
	require.NotNil(t, got[0].LastMessage)
	require.Nil(t, got[1].LastMessage)
	require.True(t, got[0].UpdatedAt.Equal(fixedNow))

	archived, err := c.LoadConversations(ctx, true)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	require.True(t, archived[0].Archived)

	// Saving again replaces the list for that filter only.
	require.NoError(t, c.SaveConversations(ctx, false, convs[1:]))
	got, err = c.LoadConversations(ctx, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	archived, err = c.LoadConversations(ctx, true)
	require.NoError(t, err)
	require.Len(t, archived, 1)
}

func TestSQLiteCache_MessagesKeepOrder(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	msgs := []model.Message{
		{ID: "m1", ConversationID: "c1", Author: model.Participant{Name: "A"}, Body: "first", SentAt: fixedNow},
		{ID: "m2", ConversationID: "c1", Author: model.Participant{Name: "B"}, Body: "second", SentAt: fixedNow.Add(time.Minute),
			Attachments: []model.Attachment{{Name: "a.pdf", Size: 10}}},
	}
	require.NoError(t, c.SaveMessages(ctx, "c1", msgs))

	got, err := c.LoadMessages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "first", got[0].Body)
	require.Equal(t, "B", got[1].Author.Name)
	require.Equal(t, "a.pdf", got[1].Attachments[0].Name)

	none, err := c.LoadMessages(ctx, "other")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSQLiteCache_ReopenKeepsSchema(t *testing.T) {
	path := t.TempDir() + "/cache.db"

	c, err := NewSQLiteCache(path)
	require.NoError(t, err)
	require.NoError(t, c.SaveConversations(context.Background(), false, []model.Conversation{{ID: "c1", UpdatedAt: fixedNow}}))
	require.NoError(t, c.Close())

	c, err = NewSQLiteCache(path)
	require.NoError(t, err)
	defer c.Close()

	got, err := c.LoadConversations(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
