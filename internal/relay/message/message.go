package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Broadcast - destination which addresses every connection except the sender.
const Broadcast = "*"

// ChatMessage - application level unit of communication.
type ChatMessage struct {
	// Sender - display name of author, always assigned by the relay.
	Sender    string  `json:"sender"`
	Body      string  `json:"body"`
	Timestamp float64 `json:"timestamp"`
	// MessageID - globally unique id generated by the author, opaque to the relay.
	MessageID string `json:"message_id"`
	// Command - empty for plain chat.
	Command     string `json:"command,omitempty"`
	Destination string `json:"destination"`
}

// wireMessage - decoding shape which tells absent (or null) fields from empty ones.
type wireMessage struct {
	Sender      *string  `json:"sender"`
	Body        *string  `json:"body"`
	Timestamp   *float64 `json:"timestamp"`
	MessageID   *string  `json:"message_id"`
	Command     *string  `json:"command"`
	Destination *string  `json:"destination"`
}

var errNotObject = errors.New("top level value is not an object")

// DecodeError - returns when payload is not a valid message encoding.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "message: decode: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// New - builds message stamped with current time and fresh message id.
func New(sender, body string) ChatMessage {
	return ChatMessage{
		Sender:      sender,
		Body:        body,
		Timestamp:   Timestamp(time.Now()),
		MessageID:   uuid.NewString(),
		Destination: Broadcast,
	}
}

// Timestamp - converts t into seconds since epoch with sub-second precision.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// Time - converts message timestamp back to time.
func (m ChatMessage) Time() time.Time {
	return time.Unix(0, int64(m.Timestamp*float64(time.Second)))
}

// Marshal - encodes all message fields into UTF-8 JSON object.
// Text is kept as is, without HTML escaping.
func Marshal(m ChatMessage) ([]byte, error) {
	buf := bytes.Buffer{}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// Unmarshal - decodes message and fills defaults for missing fields.
// Semantically odd but well-formed messages (empty body, unknown command) are not errors.
func Unmarshal(data []byte) (ChatMessage, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return ChatMessage{}, &DecodeError{errNotObject}
	}
	w := wireMessage{}
	if err := json.Unmarshal(data, &w); err != nil {
		return ChatMessage{}, &DecodeError{err}
	}
	m := ChatMessage{Destination: Broadcast}
	if w.Sender != nil {
		m.Sender = *w.Sender
	}
	if w.Body != nil {
		m.Body = *w.Body
	}
	if w.Timestamp != nil {
		m.Timestamp = *w.Timestamp
	}
	if w.MessageID != nil {
		m.MessageID = *w.MessageID
	}
	if w.Command != nil {
		m.Command = *w.Command
	}
	if w.Destination != nil {
		m.Destination = *w.Destination
	}
	return m, nil
}
