package message

import (
	"errors"
	"testing"
	"time"
)

func TestMarshal_roundTrip(test *testing.T) {
	cases := []ChatMessage{
		{},
		{Destination: Broadcast},
		{Sender: "10.0.0.7", Body: "hola", Timestamp: 1700000000.25, MessageID: "5b1c", Destination: "*"},
		{Body: "", Timestamp: 1, MessageID: "id", Command: "nick Neo", Destination: "*"},
		{Body: "<b>&\"quoted\"</b>\n⌘ 世界", Destination: "alice, 10.0.0.2"},
		{Sender: "server", Body: "x", Command: "who", Destination: ""},
	}
	for _, expected := range cases {
		data, err := Marshal(expected)
		if err != nil {
			test.Fatalf("Marshal(%+v): %v", expected, err)
		}
		actual, err := Unmarshal(data)
		if err != nil {
			test.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if actual != expected {
			test.Errorf("round trip mismatch: expected %+v, actual %+v (payload %s)", expected, actual, data)
		}
	}
}

func TestUnmarshal_defaults(test *testing.T) {
	cases := []struct {
		payload  string
		expected ChatMessage
	}{
		{`{}`, ChatMessage{Destination: Broadcast}},
		{`{"body":"hi"}`, ChatMessage{Body: "hi", Destination: Broadcast}},
		{`{"body":"hi","command":null,"destination":null}`, ChatMessage{Body: "hi", Destination: Broadcast}},
		{`{"body":"","timestamp":12,"destination":"bob"}`, ChatMessage{Timestamp: 12, Destination: "bob"}},
		{` {"sender":"spoof","message_id":"m1","extra":true} `, ChatMessage{Sender: "spoof", MessageID: "m1", Destination: Broadcast}},
	}
	for _, c := range cases {
		actual, err := Unmarshal([]byte(c.payload))
		if err != nil {
			test.Errorf("Unmarshal(%s): unexpected error %v", c.payload, err)
			continue
		}
		if actual != c.expected {
			test.Errorf("Unmarshal(%s): expected %+v, actual %+v", c.payload, c.expected, actual)
		}
	}
}

func TestUnmarshal_decodeError(test *testing.T) {
	cases := []string{
		``,
		`garbage`,
		`{"body":`,
		`null`,
		`[1,2]`,
		`"text"`,
		`{"timestamp":"yesterday"}`,
		`{"body":42}`,
	}
	for _, payload := range cases {
		_, err := Unmarshal([]byte(payload))
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			test.Errorf("Unmarshal(%q): expected *DecodeError, got %v", payload, err)
		}
	}
}

func TestNew(test *testing.T) {
	before := time.Now().Add(-time.Second)
	m := New("server", "hello")
	if m.Sender != "server" || m.Body != "hello" || m.Destination != Broadcast {
		test.Error("unexpected message fields", m)
	}
	if m.MessageID == "" || m.MessageID == New("server", "hello").MessageID {
		test.Error("expected unique message id, got", m.MessageID)
	}
	if m.Time().Before(before) || m.Time().After(time.Now().Add(time.Second)) {
		test.Error("unexpected message time", m.Time())
	}
}

func TestParseCommand(test *testing.T) {
	cases := []struct {
		raw      string
		expected Command
	}{
		{"", Command{Kind: CommandNone}},
		{"   ", Command{Kind: CommandUnknown, Arg: "   "}},
		{"\t", Command{Kind: CommandUnknown, Arg: "\t"}},
		{"who", Who},
		{"WHO", Who},
		{" quit ", Quit},
		{"nick Neo", Nick("Neo")},
		{"nick   Trinity  ", Nick("Trinity")},
		{"nick The One", Nick("The One")},
		{"nick", Nick("")},
		{"nick   ", Nick("")},
		{"nickname", Command{Kind: CommandUnknown, Arg: "nickname"}},
		{"who me", Command{Kind: CommandUnknown, Arg: "who me"}},
		{"dance", Command{Kind: CommandUnknown, Arg: "dance"}},
	}
	for _, c := range cases {
		if actual := ParseCommand(c.raw); actual != c.expected {
			test.Errorf("ParseCommand(%q): expected %+v, actual %+v", c.raw, c.expected, actual)
		}
	}
}

func TestCommand_String(test *testing.T) {
	for _, c := range []Command{Who, Quit, Nick("Neo"), Nick("")} {
		if parsed := ParseCommand(c.String()); parsed != c {
			test.Errorf("ParseCommand(%q): expected %+v, actual %+v", c.String(), c, parsed)
		}
	}
}
