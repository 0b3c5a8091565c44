package mailbox

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/iboite/internal/keys"
	"github.com/nhle/iboite/internal/model"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testItems() []model.ListItem {
	return []model.ListItem{
		model.Letter{ID: "l1", Subject: "Convocation", Sender: "Questure", Urgency: model.UrgencyActionRequired, CreatedAt: fixedNow.Add(-2 * time.Hour)},
		model.Parcel{ID: "p1", Description: "Rapports annuels", TrackingNumber: "GA123", Status: model.ParcelAvailable},
		model.Conversation{ID: "c1", Subject: "Budget", UnreadCount: 3, UpdatedAt: fixedNow.Add(-5 * time.Minute),
			LastMessage: &model.MessageSummary{Author: "Ndong", Excerpt: "Le rapport est prêt"}},
	}
}

func newModel() Model {
	m := New(keys.DefaultKeyMap(), 100, 20)
	m.SetClock(func() time.Time { return fixedNow })
	return m
}

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
		{30 * 24 * time.Hour, "Feb 08"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relativeTime(fixedNow.Add(-tt.ago), fixedNow))
	}
	assert.Empty(t, relativeTime(time.Time{}, fixedNow))
}

func TestSetItems_KeepsSelection(t *testing.T) {
	m := newModel()
	m.SetItems(testItems(), "c1")
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, "c1", m.HighlightedID())

	// Selection gone: the cursor stays in range.
	m.SetItems(testItems()[:1], "c1")
	assert.Equal(t, "l1", m.HighlightedID())
}

func TestUpdate_EnterSelects(t *testing.T) {
	m := newModel()
	m.SetItems(testItems(), "p1")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SelectedItemMsg{ID: "p1"}, cmd())
}

func TestUpdate_EnterOnEmptyList(t *testing.T) {
	m := newModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestDelegate_Render(t *testing.T) {
	m := newModel()
	m.SetItems(testItems(), "")

	d := ItemDelegate{now: func() time.Time { return fixedNow }}
	var out []string
	for i, it := range m.list.Items() {
		var b strings.Builder
		d.Render(&b, m.list, i, it)
		out = append(out, b.String())
	}

	assert.Contains(t, out[0], "Convocation")
	assert.Contains(t, out[0], "2h ago")
	assert.Contains(t, out[1], "GA123")
	assert.Contains(t, out[1], model.ParcelAvailable.Label())
	assert.Contains(t, out[2], "Budget")
	assert.Contains(t, out[2], "3")
	assert.Contains(t, out[2], "Le rapport est prêt")
}

func TestDelegate_IgnoresForeignItems(t *testing.T) {
	var b strings.Builder
	ItemDelegate{}.Render(&b, list.New(nil, ItemDelegate{}, 10, 10), 0, nil)
	assert.Empty(t, b.String())
}

func TestView_EmptyState(t *testing.T) {
	m := newModel()
	m.SetTitle("Letters · Trash")
	m.SetEmptyText("Trash is empty.")
	assert.Contains(t, m.View(), "Trash is empty.")
}
