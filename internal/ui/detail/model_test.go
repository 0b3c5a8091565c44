package detail

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/iboite/internal/keys"
	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/preview"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newModel() Model {
	return New(keys.DefaultKeyMap(), preview.A4, 120, 60)
}

func TestShowLetter_ScalesToPane(t *testing.T) {
	m := newModel()
	m.ShowLetter(model.Letter{ID: "l1", Subject: "Convocation", Sender: "Questure", Body: "Séance à 10h."})

	assert.Contains(t, m.View(), "Convocation")
	assert.InDelta(t, preview.Scale(preview.A4, preview.Size{W: 720, H: 720}), m.Scale(), 1e-9)

	m.SetSize(50, 25)
	assert.InDelta(t, 0.357, m.Scale(), 0.001)
}

func TestShowParcel(t *testing.T) {
	m := newModel()
	eta := fixedNow.Add(48 * time.Hour)
	m.ShowParcel(model.Parcel{ID: "p1", Description: "Rapports", TrackingNumber: "GA42", Status: model.ParcelTransit, EstimatedDelivery: &eta})

	out := m.View()
	assert.Contains(t, out, "GA42")
	assert.Contains(t, out, "In transit")
	assert.Contains(t, out, "2026-03-12")
}

func TestShowThread(t *testing.T) {
	m := newModel()
	conv := model.Conversation{ID: "c1", Subject: "Budget"}

	m.ShowThread(conv, true, nil)
	assert.Contains(t, m.View(), "Loading conversation")

	m.ShowThread(conv, false, []model.Message{
		{ID: "m1", Author: model.Participant{Name: "Ndong"}, Body: "Premier", SentAt: fixedNow.Add(-time.Hour)},
		{ID: "m2", Author: model.Participant{Name: "Moi"}, Body: "Second", SentAt: fixedNow},
	})
	out := m.View()
	assert.Contains(t, out, "Budget")
	assert.Contains(t, out, "Second")
}

func TestReplyOnlyFromLoadedThread(t *testing.T) {
	m := newModel()
	reply := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("R")}

	_, cmd := m.Update(reply)
	assert.Nil(t, cmd)

	conv := model.Conversation{ID: "c1", Subject: "Budget"}
	m.ShowThread(conv, true, nil)
	_, cmd = m.Update(reply)
	assert.Nil(t, cmd)

	m.ShowThread(conv, false, nil)
	_, cmd = m.Update(reply)
	require.NotNil(t, cmd)
	assert.Equal(t, ReplyMsg{Conversation: conv}, cmd())
}

func TestBack(t *testing.T) {
	m := newModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestClear(t *testing.T) {
	m := newModel()
	m.ShowLetter(model.Letter{Subject: "Convocation"})
	m.Clear()
	assert.Contains(t, m.View(), "Nothing selected")
}
