package relay

import (
	"fmt"
	"strings"
)

const commandList = "/who, /nick <alias>, /quit"

func welcomeNotice(addr string) string {
	return fmt.Sprintf("Welcome %s! Use %s, /msg <dest> <text>", addr, commandList)
}

func whoNotice(names []string) string {
	return "Connected: " + strings.Join(names, ", ")
}

func nickNotice(alias string) string {
	return "Alias updated to " + alias
}

func nickUsageNotice() string {
	return "Usage: /nick <alias>"
}

func helpNotice(raw string) string {
	return fmt.Sprintf("Unknown command %q. Commands: %s", raw, commandList)
}

func notFoundNotice(destination string) string {
	return "Destination not found: " + destination
}
