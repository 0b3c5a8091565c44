package help

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/iboite/internal/inbox"
	"github.com/nhle/iboite/internal/keys"
	"github.com/nhle/iboite/internal/model"
)

func TestView_ChannelRules(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 40)

	assert.Contains(t, m.View(), "Sent and trash are final")

	m.SetContext(inbox.ChannelParcels, nil, "")
	view := m.View()
	assert.Contains(t, view, "Parcels are read-only")
	assert.Contains(t, view, "No accounts configured.")

	m.SetContext(inbox.ChannelConversations, nil, "")
	assert.Contains(t, m.View(), "Active and Archived")
}

func TestView_MarksCurrentAccount(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 40)
	m.SetContext(inbox.ChannelLetters, []model.Account{
		{ID: "personal", Name: "Camille", Category: model.CategoryPersonal},
		{ID: "professional", Name: "Cabinet", Category: model.CategoryProfessional},
	}, "professional")

	view := m.View()
	assert.Contains(t, view, "  Camille (personal) · :account personal")
	assert.Contains(t, view, "▸ Cabinet (professional) · :account professional")
}
