package transport

import (
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wtask/relay/internal/relay/frame"
)

func TestNewStream_options(test *testing.T) {
	conn, _ := net.Pipe()
	defer conn.Close()
	if _, err := NewStream(nil); err == nil {
		test.Error("expected error for nil conn")
	}
	if _, err := NewStream(conn, WithReadTimeout(-time.Second)); err == nil {
		test.Error("expected error for negative read timeout")
	}
	if _, err := NewStream(conn, WithWriteTimeout(-time.Second)); err == nil {
		test.Error("expected error for negative write timeout")
	}
	s, err := NewStream(conn, WithReadTimeout(time.Minute), WithWriteTimeout(time.Second), WithMaxSize(10))
	if err != nil {
		test.Fatal("NewStream:", err)
	}
	if s.readTimeout != time.Minute || s.writeTimeout != time.Second || s.maxSize != 10 {
		test.Errorf("unexpected settings %+v", s.settings)
	}
}

func TestStream_ReadWrite(test *testing.T) {
	clientConn, serverConn := net.Pipe()
	server, _ := NewStream(serverConn)
	client, _ := NewStream(clientConn)
	defer client.Close()

	go func() {
		client.Write([]byte("ping"))
		client.Write([]byte{})
	}()
	for _, expected := range []string{"ping", ""} {
		payload, err := server.Read()
		if err != nil {
			test.Fatal("Read:", err)
		}
		if string(payload) != expected {
			test.Errorf("expected %q, got %q", expected, payload)
		}
	}

	go server.Write([]byte("pong"))
	if payload, err := client.Read(); err != nil || string(payload) != "pong" {
		test.Errorf("expected pong, got %q, %v", payload, err)
	}

	server.Close()
	if _, err := client.Read(); err != io.EOF {
		test.Error("expected io.EOF after remote close, got", err)
	}
}

func TestStream_Read_timeout(test *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	server, _ := NewStream(serverConn, WithReadTimeout(10*time.Millisecond))
	defer server.Close()
	if _, err := server.Read(); !errors.Is(err, ErrTimeout) {
		test.Error("expected ErrTimeout, got", err)
	}
}

func TestStream_Write_timeout(test *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	// nobody reads clientConn
	server, _ := NewStream(serverConn, WithWriteTimeout(10*time.Millisecond))
	defer server.Close()
	if err := server.Write([]byte("stalled")); !errors.Is(err, ErrTimeout) {
		test.Error("expected ErrTimeout, got", err)
	}
}

func TestStream_Read_tooLarge(test *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	server, _ := NewStream(serverConn, WithMaxSize(3))
	defer server.Close()
	go frame.Write(clientConn, []byte("four"))
	if _, err := server.Read(); !errors.Is(err, frame.ErrTooLarge) {
		test.Error("expected frame.ErrTooLarge, got", err)
	}
}

// websocketLink - connects websocket client to server side Websocket transport.
func websocketLink(test *testing.T, options ...Option) (client *websocket.Conn, server <-chan *Websocket, stop func()) {
	accepted := make(chan *Websocket, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			test.Error("upgrade:", err)
			return
		}
		ws, err := NewWebsocket(conn, options...)
		if err != nil {
			test.Error("NewWebsocket:", err)
			return
		}
		accepted <- ws
	}))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		test.Fatal("dial:", err)
	}
	return client, accepted, func() {
		client.Close()
		srv.Close()
	}
}

func TestWebsocket_ReadWrite(test *testing.T) {
	client, accepted, stop := websocketLink(test)
	defer stop()
	server := <-accepted

	client.WriteMessage(websocket.TextMessage, []byte(`{"body":"hi"}`))
	client.WriteMessage(websocket.BinaryMessage, []byte{})
	for _, expected := range []string{`{"body":"hi"}`, ""} {
		payload, err := server.Read()
		if err != nil {
			test.Fatal("Read:", err)
		}
		if string(payload) != expected {
			test.Errorf("expected %q, got %q", expected, payload)
		}
	}

	if err := server.Write([]byte("pong")); err != nil {
		test.Fatal("Write:", err)
	}
	kind, payload, err := client.ReadMessage()
	if err != nil || kind != websocket.BinaryMessage || string(payload) != "pong" {
		test.Errorf("expected binary pong, got %d %q %v", kind, payload, err)
	}

	client.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if _, err := server.Read(); err != io.EOF {
		test.Error("expected io.EOF after close frame, got", err)
	}
	server.Close()
}

func TestWebsocket_Read_tooLarge(test *testing.T) {
	client, accepted, stop := websocketLink(test, WithMaxSize(4))
	defer stop()
	server := <-accepted
	defer server.Close()

	client.WriteMessage(websocket.BinaryMessage, []byte("too long"))
	if _, err := server.Read(); !errors.Is(err, frame.ErrTooLarge) {
		test.Error("expected frame.ErrTooLarge, got", err)
	}
}
