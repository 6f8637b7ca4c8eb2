package message

import "strings"

// CommandKind - discriminates parsed commands.
type CommandKind int

const (
	// CommandNone - plain chat, no command at all.
	CommandNone CommandKind = iota
	// CommandWho - list display names of connected clients.
	CommandWho
	// CommandNick - change display name, Arg holds new alias (may be empty).
	CommandNick
	// CommandQuit - close own connection.
	CommandQuit
	// CommandUnknown - any other non-empty command, Arg holds raw command string.
	CommandUnknown
)

// Command - parsed form of ChatMessage.Command.
type Command struct {
	Kind CommandKind
	Arg  string
}

// Who, Nick and Quit - helpers to build commands on the client side.
var (
	Who  = Command{Kind: CommandWho}
	Quit = Command{Kind: CommandQuit}
)

// Nick - builds alias change command.
func Nick(alias string) Command {
	return Command{Kind: CommandNick, Arg: alias}
}

// ParseCommand - parses raw command string once, at the session boundary.
// Only empty string means plain chat, blank one is unknown command.
// The keyword is case-insensitive, nick alias is trimmed.
func ParseCommand(raw string) Command {
	if raw == "" {
		return Command{Kind: CommandNone}
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return Command{Kind: CommandUnknown, Arg: raw}
	}
	keyword, rest := s, ""
	if i := strings.IndexFunc(s, isSpace); i > -1 {
		keyword, rest = s[:i], strings.TrimSpace(s[i:])
	}
	switch strings.ToLower(keyword) {
	case "who":
		if rest == "" {
			return Who
		}
	case "quit":
		if rest == "" {
			return Quit
		}
	case "nick":
		return Nick(rest)
	}
	return Command{Kind: CommandUnknown, Arg: raw}
}

// String - returns wire form of command.
func (c Command) String() string {
	switch c.Kind {
	case CommandWho:
		return "who"
	case CommandQuit:
		return "quit"
	case CommandNick:
		if c.Arg == "" {
			return "nick"
		}
		return "nick " + c.Arg
	case CommandUnknown:
		return c.Arg
	default:
		return ""
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
