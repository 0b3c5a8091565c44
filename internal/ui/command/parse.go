package command

import (
	"fmt"
	"strings"
)

// Name identifies a palette command.
type Name string

const (
	Letters       Name = "letters"
	Parcels       Name = "parcels"
	Conversations Name = "conversations"
	Folder        Name = "folder"
	Account       Name = "account"
	Refresh       Name = "refresh"
	Compose       Name = "compose"
	Help          Name = "help"
	Quit          Name = "quit"
)

var aliases = map[string]Name{
	"letters":       Letters,
	"l":             Letters,
	"parcels":       Parcels,
	"p":             Parcels,
	"conversations": Conversations,
	"c":             Conversations,
	"folder":        Folder,
	"f":             Folder,
	"account":       Account,
	"a":             Account,
	"refresh":       Refresh,
	"sync":          Refresh,
	"compose":       Compose,
	"new":           Compose,
	"help":          Help,
	"quit":          Quit,
	"q":             Quit,
}

// Command is a parsed palette input.
type Command struct {
	Name Name
	Arg  string
}

// Parse reads a palette line such as "folder trash".
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	name, ok := aliases[strings.ToLower(fields[0])]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}

	cmd := Command{Name: name, Arg: strings.Join(fields[1:], " ")}
	switch name {
	case Folder, Account:
		if cmd.Arg == "" {
			return Command{}, fmt.Errorf("%s needs an argument", name)
		}
	}
	return cmd, nil
}
