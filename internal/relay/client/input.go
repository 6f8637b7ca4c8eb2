package client

import (
	"errors"
	"strings"

	"github.com/wtask/relay/internal/relay/message"
)

var (
	// ErrUnknownCommand - input line starts with slash but names no known command.
	ErrUnknownCommand = errors.New("client: unknown command")
	// ErrUsage - known command with missing arguments.
	ErrUsage = errors.New("client: invalid command usage")
)

// Help - list of commands understood by ParseInput.
const Help = "Commands: /who, /nick <alias>, /msg <dest> <text>, /quit"

// ParseInput - turns typed line into message ready to send.
// Lines starting with slash are commands, anything else is broadcast chat text.
func ParseInput(line string) (message.ChatMessage, error) {
	m := message.New("", "")
	if !strings.HasPrefix(line, "/") {
		m.Body = line
		return m, nil
	}

	name, rest := line[1:], ""
	if i := strings.IndexByte(name, ' '); i > -1 {
		name, rest = name[:i], strings.TrimSpace(name[i+1:])
	}
	switch name {
	case "who":
		m.Command = message.Who.String()
	case "quit":
		m.Command = message.Quit.String()
	case "nick":
		if rest == "" {
			return message.ChatMessage{}, ErrUsage
		}
		m.Command = message.Nick(rest).String()
	case "msg":
		parts := strings.SplitN(rest, " ", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
			return message.ChatMessage{}, ErrUsage
		}
		m.Destination = parts[0]
		m.Body = parts[1]
	default:
		return message.ChatMessage{}, ErrUnknownCommand
	}
	return m, nil
}

// IsQuit - reports whether message asks server to close the connection.
func IsQuit(m message.ChatMessage) bool {
	return message.ParseCommand(m.Command).Kind == message.CommandQuit
}
