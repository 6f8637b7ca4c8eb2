// Package `relaycli` implements interactive line-oriented client of the relay.
//
// Typed lines are broadcast to all connected clients, lines starting with slash are commands:
//
//	/who                  list connected aliases
//	/nick <alias>         change own alias
//	/msg <dest> <text>    send text to comma-separated aliases or addresses
//	/quit                 leave the relay
//
// Launch client with command:
//
//	go run . -host 127.0.0.1 -port 5555
package main
