package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/tests/testutil"
)

type fakeBackend struct {
	convs    []model.Conversation
	msgs     []model.Message
	err      error
	sent     []model.OutgoingMessage
	markRead []string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) GetConversations(_ context.Context, opts ListOptions) ([]model.Conversation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Conversation
	for _, c := range f.convs {
		if c.Archived == opts.Archived {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetMessages(_ context.Context, _ string) ([]model.Message, error) {
	return f.msgs, f.err
}

func (f *fakeBackend) MarkConversationAsRead(_ context.Context, id string) error {
	f.markRead = append(f.markRead, id)
	return f.err
}

func (f *fakeBackend) SendMessage(_ context.Context, msg model.OutgoingMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	if msg.ConversationID != "" {
		return msg.ConversationID, nil
	}
	return "conv-new", nil
}

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newestFirst(n int) []model.Message {
	out := make([]model.Message, n)
	for i := range out {
		out[i] = model.Message{
			ID:     string(rune('a' + i)),
			SentAt: base.Add(-time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestChronological_NonDecreasingTimestamps(t *testing.T) {
	for n := 0; n <= 6; n++ {
		in := newestFirst(n)
		out := Chronological(in)

		require.Len(t, out, n)
		for i := 1; i < len(out); i++ {
			assert.False(t, out[i].SentAt.Before(out[i-1].SentAt), "n=%d i=%d", n, i)
		}
		if n > 0 {
			assert.Equal(t, in[0].ID, out[n-1].ID)
			assert.Equal(t, "a", in[0].ID, "input must not be modified")
		}
	}
}

func TestFetchMessages_ReturnsChronologicalOrder(t *testing.T) {
	fb := &fakeBackend{msgs: newestFirst(3)}
	g := New(fb, nil, nil)

	msgs, err := g.FetchMessages(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{msgs[0].ID, msgs[1].ID, msgs[2].ID})
}

func TestFetchConversations_WrapsTransportFailure(t *testing.T) {
	cause := errors.New("connection reset")
	g := New(&fakeBackend{err: cause}, nil, nil)

	_, err := g.FetchConversations(context.Background(), Filter{})
	require.Error(t, err)
	assert.True(t, model.IsTransportError(err))
	assert.ErrorIs(t, err, cause)

	_, err = g.FetchMessages(context.Background(), "c1")
	assert.True(t, model.IsTransportError(err))

	err = g.MarkConversationAsRead(context.Background(), "c1")
	assert.True(t, model.IsTransportError(err))
}

func TestFetchConversations_NotFoundPassesThrough(t *testing.T) {
	g := New(&fakeBackend{err: &model.NotFoundError{Kind: "conversation", ID: "x"}}, nil, nil)

	_, err := g.FetchMessages(context.Background(), "x")
	assert.True(t, model.IsNotFound(err))
	assert.False(t, model.IsTransportError(err))
}

func TestFetchConversations_EmptyIsNotNil(t *testing.T) {
	g := New(&fakeBackend{}, nil, nil)

	convs, err := g.FetchConversations(context.Background(), Filter{Archived: true})
	require.NoError(t, err)
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
}

func TestFetchConversations_WritesCache(t *testing.T) {
	cache := testutil.NewTestCache(t)
	fb := &fakeBackend{convs: []model.Conversation{
		{ID: "c1", Subject: "Actif", UpdatedAt: base},
		{ID: "c2", Subject: "Archivé", UpdatedAt: base, Archived: true},
	}}
	g := New(fb, cache, nil)
	ctx := context.Background()

	cached, err := g.Cached(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, cached)

	_, err = g.FetchConversations(ctx, Filter{})
	require.NoError(t, err)

	cached, err = g.Cached(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "c1", cached[0].ID)

	cached, err = g.Cached(ctx, Filter{Archived: true})
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestFetchConversations_FailureKeepsCache(t *testing.T) {
	cache := testutil.NewTestCache(t)
	fb := &fakeBackend{convs: []model.Conversation{{ID: "c1", UpdatedAt: base}}}
	g := New(fb, cache, nil)
	ctx := context.Background()

	_, err := g.FetchConversations(ctx, Filter{})
	require.NoError(t, err)

	fb.err = errors.New("timeout")
	_, err = g.FetchConversations(ctx, Filter{})
	require.Error(t, err)

	cached, err := g.Cached(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, cached, 1)
}

func TestFetchMessages_WritesTranscriptCache(t *testing.T) {
	cache := testutil.NewTestCache(t)
	fb := &fakeBackend{msgs: []model.Message{
		{ID: "m2", Body: "second", SentAt: base.Add(time.Minute)},
		{ID: "m1", Body: "first", SentAt: base},
	}}
	g := New(fb, cache, nil)
	ctx := context.Background()

	cached, err := g.CachedMessages(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, cached)

	_, err = g.FetchMessages(ctx, "c1")
	require.NoError(t, err)

	cached, err = g.CachedMessages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, cached, 2)
	assert.Equal(t, "m1", cached[0].ID)

	none, err := New(fb, nil, nil).CachedMessages(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSendMessage_ValidationNeverReachesBackend(t *testing.T) {
	tests := []struct {
		name  string
		msg   model.OutgoingMessage
		field string
	}{
		{"no recipient", model.OutgoingMessage{Subject: "s", Body: "b"}, "recipients"},
		{"recipient without address", model.OutgoingMessage{Recipients: []model.Recipient{{Name: "X"}}, Subject: "s", Body: "b"}, "recipients"},
		{"no subject", model.OutgoingMessage{Recipients: []model.Recipient{{ID: "p1"}}, Body: "b"}, "subject"},
		{"blank body", model.OutgoingMessage{Recipients: []model.Recipient{{ID: "p1"}}, Subject: "s", Body: "  \n"}, "body"},
		{"blank reply", model.OutgoingMessage{ConversationID: "c1"}, "body"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := &fakeBackend{}
			g := New(fb, nil, nil)

			_, err := g.SendMessage(context.Background(), tc.msg)
			require.Error(t, err)

			var ve *model.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
			assert.Empty(t, fb.sent)
		})
	}
}

func TestSendMessage_ReturnsConversationID(t *testing.T) {
	fb := &fakeBackend{}
	g := New(fb, nil, nil)

	id, err := g.SendMessage(context.Background(), model.OutgoingMessage{
		Recipients: []model.Recipient{{ID: "p1", Name: "Hon. Ndong"}},
		Subject:    "Question",
		Body:       "Bonjour",
	})
	require.NoError(t, err)
	assert.Equal(t, "conv-new", id)
	require.Len(t, fb.sent, 1)

	id, err = g.SendMessage(context.Background(), model.OutgoingMessage{ConversationID: "c9", Body: "Suite"})
	require.NoError(t, err)
	assert.Equal(t, "c9", id)
}

func TestSendMessage_TransportFailure(t *testing.T) {
	g := New(&fakeBackend{err: errors.New("503")}, nil, nil)

	_, err := g.SendMessage(context.Background(), model.OutgoingMessage{ConversationID: "c1", Body: "x"})
	assert.True(t, model.IsTransportError(err))
}
