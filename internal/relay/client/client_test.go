package client

import (
	"errors"
	"io"
	"net"
	"testing"

	"github.com/wtask/relay/internal/relay/frame"
	"github.com/wtask/relay/internal/relay/message"
)

func TestParseInput(test *testing.T) {
	cases := []struct {
		line                       string
		command, destination, body string
	}{
		{"hello there", "", "*", "hello there"},
		{"", "", "*", ""},
		{"/who", "who", "*", ""},
		{"/quit", "quit", "*", ""},
		{"/nick Neo", "nick Neo", "*", ""},
		{"/nick  The One ", "nick The One", "*", ""},
		{"/msg bob hi bob", "", "bob", "hi bob"},
		{"/msg bob,10.0.0.2 hi all", "", "bob,10.0.0.2", "hi all"},
	}
	for _, c := range cases {
		m, err := ParseInput(c.line)
		if err != nil {
			test.Errorf("ParseInput(%q): unexpected error %v", c.line, err)
			continue
		}
		if m.Command != c.command || m.Destination != c.destination || m.Body != c.body {
			test.Errorf("ParseInput(%q): unexpected message %+v", c.line, m)
		}
		if m.Sender != "" || m.MessageID == "" || m.Timestamp == 0 {
			test.Errorf("ParseInput(%q): unexpected metadata %+v", c.line, m)
		}
	}
}

func TestParseInput_errors(test *testing.T) {
	cases := []struct {
		line     string
		expected error
	}{
		{"/nick", ErrUsage},
		{"/nick   ", ErrUsage},
		{"/msg", ErrUsage},
		{"/msg bob", ErrUsage},
		{"/dance", ErrUnknownCommand},
		{"/", ErrUnknownCommand},
	}
	for _, c := range cases {
		if _, err := ParseInput(c.line); !errors.Is(err, c.expected) {
			test.Errorf("ParseInput(%q): expected %v, got %v", c.line, c.expected, err)
		}
	}
}

func TestIsQuit(test *testing.T) {
	quit, _ := ParseInput("/quit")
	who, _ := ParseInput("/who")
	if !IsQuit(quit) || IsQuit(who) {
		test.Error("unexpected IsQuit result")
	}
}

func TestClient_SendReceive(test *testing.T) {
	clientConn, serverConn := net.Pipe()
	c, err := New(clientConn)
	if err != nil {
		test.Fatal("New:", err)
	}
	defer c.Close()
	server, _ := frame.NewReader(serverConn)

	go c.Say("bob", "hi")
	payload, err := server.Next()
	if err != nil {
		test.Fatal("server read:", err)
	}
	m, err := message.Unmarshal(payload)
	if err != nil || m.Destination != "bob" || m.Body != "hi" || m.Command != "" {
		test.Errorf("unexpected message %+v, %v", m, err)
	}

	go c.Command(message.Nick("Neo"))
	payload, _ = server.Next()
	if m, _ := message.Unmarshal(payload); m.Command != "nick Neo" {
		test.Errorf("unexpected command %q", m.Command)
	}

	go func() {
		frame.Write(serverConn, []byte(`{"sender":"server","body":"welcome"}`))
		frame.Write(serverConn, []byte(`not json`))
		serverConn.Close()
	}()
	if m, err := c.Receive(); err != nil || m.Sender != "server" || m.Body != "welcome" {
		test.Errorf("unexpected message %+v, %v", m, err)
	}
	var decodeErr *message.DecodeError
	if _, err := c.Receive(); !errors.As(err, &decodeErr) {
		test.Error("expected decode error, got", err)
	}
	if _, err := c.Receive(); err != io.EOF {
		test.Error("expected io.EOF, got", err)
	}
}
