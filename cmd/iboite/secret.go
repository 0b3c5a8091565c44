package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/nhle/iboite/internal/credential"
)

// Test seams.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
	setSecret    = credential.Set
	deleteSecret = credential.Delete
	stdinFd      = func() int { return int(os.Stdin.Fd()) }
)

var knownSecrets = []string{
	credential.KeyBackendToken,
	credential.KeyIMAPPassword,
	credential.KeySMTPPassword,
}

// runSecret implements "iboite secret set|delete <key>". The value is read
// without echo from a terminal, or as the first line of in otherwise.
func runSecret(args []string, in io.Reader, out io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: iboite secret set|delete <key>")
	}
	action, key := args[0], args[1]
	if !isKnownSecret(key) {
		return fmt.Errorf("unknown secret %q (want one of %s)", key, strings.Join(knownSecrets, ", "))
	}

	switch action {
	case "set":
		value, err := readValue(in, out)
		if err != nil {
			return err
		}
		if value == "" {
			return fmt.Errorf("empty value")
		}
		if err := setSecret(key, value); err != nil {
			return err
		}
		fmt.Fprintln(out, "stored", key)
		return nil

	case "delete":
		if err := deleteSecret(key); err != nil {
			return err
		}
		fmt.Fprintln(out, "deleted", key)
		return nil
	}
	return fmt.Errorf("unknown action %q", action)
}

func readValue(in io.Reader, out io.Writer) (string, error) {
	if fd := stdinFd(); isTerminal(fd) {
		fmt.Fprint(out, "value: ")
		b, err := readPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading value: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading value: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func isKnownSecret(key string) bool {
	for _, k := range knownSecrets {
		if k == key {
			return true
		}
	}
	return false
}
