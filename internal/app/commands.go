package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/iboite/internal/inbox"
	"github.com/nhle/iboite/internal/model"
	"github.com/nhle/iboite/internal/ui/command"
)

// executeCommand handles a line from the command palette.
func (m *Model) executeCommand(line string) tea.Cmd {
	cmd, err := command.Parse(line)
	if err != nil {
		m.ctrl.Notify(inbox.NoticeError, err.Error())
		return nil
	}

	switch cmd.Name {
	case command.Letters:
		return m.selectChannel(inbox.ChannelLetters)
	case command.Parcels:
		return m.selectChannel(inbox.ChannelParcels)
	case command.Conversations:
		return m.selectChannel(inbox.ChannelConversations)
	case command.Folder:
		f, err := model.ParseFolder(conversationFolderAlias(cmd.Arg))
		if err != nil {
			m.ctrl.Notify(inbox.NoticeError, err.Error())
			return nil
		}
		return m.selectFolder(f)
	case command.Account:
		return m.selectAccount(cmd.Arg)
	case command.Refresh:
		return m.dispatcher.List(m.ctrl.Refresh())
	case command.Compose:
		return m.startCompose()
	case command.Help:
		m.previousView = ViewMain
		m.currentView = ViewHelp
		return nil
	case command.Quit:
		return m.quit()
	}
	return nil
}

// conversationFolderAlias accepts the conversation folder names shown in
// the list title.
func conversationFolderAlias(name string) string {
	switch name {
	case "active":
		return string(model.FolderInbox)
	case "archived", "archive":
		return string(model.FolderTrash)
	}
	return name
}

// paletteContext lists the folder and account arguments the palette
// completes for the active channel.
func (m Model) paletteContext() (folders, accounts []string) {
	switch m.ctrl.Channel() {
	case inbox.ChannelLetters:
		for _, f := range model.Folders {
			folders = append(folders, string(f))
		}
	case inbox.ChannelConversations:
		folders = []string{"active", "archived"}
	}
	for _, a := range m.ctrl.Accounts() {
		accounts = append(accounts, a.ID)
	}
	return folders, accounts
}
