package relay

import (
	"errors"
	"io"

	"github.com/wtask/relay/internal/relay/frame"
	"github.com/wtask/relay/internal/relay/transport"
)

// closeReason - describes the way of parting with client.
type closeReason int

const (
	_ closeReason = iota
	reasonLeft
	reasonQuit
	reasonTimeout
	reasonOversized
	reasonError
	reasonDropped
)

func (r closeReason) String() string {
	switch r {
	case reasonLeft:
		return "left"
	case reasonQuit:
		return "quit"
	case reasonTimeout:
		return "timeout"
	case reasonOversized:
		return "oversized"
	case reasonError:
		return "error"
	case reasonDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// readFailure - classifies transport read error.
func readFailure(err error) closeReason {
	switch {
	case err == io.EOF:
		return reasonLeft
	case errors.Is(err, transport.ErrTimeout):
		return reasonTimeout
	case errors.Is(err, frame.ErrTooLarge):
		return reasonOversized
	default:
		return reasonError
	}
}
