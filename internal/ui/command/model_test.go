package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testFolders  = []string{"inbox", "sent", "pending", "trash"}
	testAccounts = []string{"personal", "professional", "association"}
)

func typeText(m Model, s string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

func TestComplete(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"letters", "parcels", "conversations", "folder", "account", "refresh", "compose", "help", "quit"}},
		{"co", []string{"conversations", "compose"}},
		{":le", []string{"letters"}},
		{"folder ", []string{"folder inbox", "folder pending", "folder sent", "folder trash"}},
		{"f p", []string{"folder pending"}},
		{"account pro", []string{"account professional"}},
		{"account x", nil},
		{"refresh now", nil},
		{"launch ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Complete(tt.in, testFolders, testAccounts))
		})
	}
}

func TestCommonPrefix(t *testing.T) {
	assert.Equal(t, "co", commonPrefix([]string{"conversations", "compose"}))
	assert.Equal(t, "account p", commonPrefix([]string{"account personal", "account professional"}))
	assert.Equal(t, "", commonPrefix(nil))
}

func TestModel_EnterEmitsCommand(t *testing.T) {
	m := typeText(New(80, 24), "folder inbox")
	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg("folder inbox"), cmd())
	assert.Empty(t, m.Value())

	_, cmd = press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
}

func TestModel_TabCompletes(t *testing.T) {
	m := New(80, 24)
	m.SetContext(testFolders, testAccounts)

	m = typeText(m, "acc")
	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, "account", m.Value())
	assert.Empty(t, m.Matches())

	m = typeText(m, " p")
	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, "account p", m.Value())
	assert.Equal(t, []string{"account personal", "account professional"}, m.Matches())
	assert.Contains(t, m.View(), "account professional")

	m = typeText(m, "r")
	assert.Empty(t, m.Matches())
	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, "account professional", m.Value())
}

func TestModel_History(t *testing.T) {
	m := New(80, 24)
	for _, line := range []string{"letters", "folder trash", "folder trash"} {
		m = typeText(m, line)
		m, _ = press(m, tea.KeyEnter)
	}

	m, _ = press(m, tea.KeyUp)
	assert.Equal(t, "folder trash", m.Value())
	m, _ = press(m, tea.KeyUp)
	assert.Equal(t, "letters", m.Value())
	m, _ = press(m, tea.KeyUp)
	assert.Equal(t, "letters", m.Value())

	m, _ = press(m, tea.KeyDown)
	assert.Equal(t, "folder trash", m.Value())
	m, _ = press(m, tea.KeyDown)
	assert.Empty(t, m.Value())
}
