// Package `relaysrv` implements text message relay server over TCP and, optionally, WebSocket.
//
// To compile relay server locally, run from package directory:
//
//	go install .
//
// Defaults of the options may be placed into `.env` file of working directory
// or into environment (RELAY_IP, RELAY_PORT, RELAY_WS_PORT, RELAY_MAX_FRAME,
// RELAY_CLIENT_TIMEOUT, RELAY_LOG_LEVEL). Command line flags take precedence.
//
// Or quickly launch server with command:
//
//	go run . -port 5555 -ws-port 8080
package main
