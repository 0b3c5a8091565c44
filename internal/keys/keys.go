package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh of the conversation list
	Refresh key.Binding

	// Channels
	Letters       key.Binding
	Parcels       key.Binding
	Conversations key.Binding

	// Folder and account cycling
	NextFolder  key.Binding
	NextAccount key.Binding

	// Letter triage
	MoveInbox   key.Binding
	MovePending key.Binding
	MoveTrash   key.Binding

	// Conversations
	Compose key.Binding
	Reply   key.Binding

	// Notices
	Dismiss key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Letters: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "letters"),
		),
		Parcels: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "parcels"),
		),
		Conversations: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "conversations"),
		),
		NextFolder: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next folder"),
		),
		NextAccount: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "switch account"),
		),
		MoveInbox: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "move to inbox"),
		),
		MovePending: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "move to pending"),
		),
		MoveTrash: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "move to trash"),
		),
		Compose: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "new conversation"),
		),
		Reply: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reply"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss notice"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.NextFolder, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Letters, k.Parcels, k.Conversations, k.NextFolder, k.NextAccount},
		{k.MoveInbox, k.MovePending, k.MoveTrash},
		{k.Compose, k.Reply, k.Refresh, k.Dismiss, k.Command, k.Help},
	}
}
