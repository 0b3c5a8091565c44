package command

import (
	"sort"
	"strings"
)

// names lists the canonical spellings offered as completions. Short
// aliases still parse but are never suggested.
var names = []Name{Letters, Parcels, Conversations, Folder, Account, Refresh, Compose, Help, Quit}

// Complete returns the full palette lines that extend line. The first word
// completes against command names; the argument of folder and account
// completes against folders and accounts.
func Complete(line string, folders, accounts []string) []string {
	line = strings.TrimPrefix(strings.TrimLeft(line, " "), ":")

	head, arg, hasArg := strings.Cut(line, " ")
	if !hasArg {
		var out []string
		for _, n := range names {
			if strings.HasPrefix(string(n), strings.ToLower(head)) {
				out = append(out, string(n))
			}
		}
		return out
	}

	name, ok := aliases[strings.ToLower(head)]
	if !ok {
		return nil
	}

	var pool []string
	switch name {
	case Folder:
		pool = folders
	case Account:
		pool = accounts
	default:
		return nil
	}

	arg = strings.TrimLeft(arg, " ")
	var out []string
	for _, p := range pool {
		if strings.HasPrefix(p, arg) {
			out = append(out, string(name)+" "+p)
		}
	}
	sort.Strings(out)
	return out
}

// commonPrefix returns the longest prefix shared by every candidate.
func commonPrefix(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	prefix := candidates[0]
	for _, c := range candidates[1:] {
		for !strings.HasPrefix(c, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
