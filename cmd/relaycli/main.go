package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/wtask/relay/internal/relay/client"
	"github.com/wtask/relay/internal/relay/message"
)

func newLogger() *zap.Logger {
	if !Config.Debug {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	logger := newLogger()
	defer logger.Sync()

	node := net.JoinHostPort(Config.Host, fmt.Sprintf("%d", Config.Port))
	ctx, cancel := context.WithTimeout(context.Background(), Config.DialTimeout)
	c, err := client.Dial(ctx, node)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Unable to connect:", err)
		os.Exit(1)
	}
	defer c.Close()
	logger.Debug("connected", zap.String("relay", node), zap.Stringer("local", c.LocalAddr()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		receive(c, os.Stdout, logger)
	}()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-done:
			fmt.Println("Disconnected.")
			return
		case line, ok := <-lines:
			if !ok {
				c.Command(message.Quit)
				waitClosed(done)
				return
			}
			m, err := client.ParseInput(line)
			if err != nil {
				fmt.Println(err.Error()+".", client.Help)
				continue
			}
			if err := c.Send(m); err != nil {
				logger.Debug("send failed", zap.Error(err))
				fmt.Println("Disconnected.")
				return
			}
			if client.IsQuit(m) {
				waitClosed(done)
				return
			}
		}
	}
}

// receive - prints incoming messages until connection is closed.
func receive(c *client.Client, out io.Writer, logger *zap.Logger) {
	for {
		m, err := c.Receive()
		var decodeErr *message.DecodeError
		switch {
		case err == nil:
			fmt.Fprintf(out, "%s [%s] %s\n", m.Time().Format("15:04:05"), m.Sender, m.Body)
		case errors.As(err, &decodeErr):
			logger.Debug("invalid message skipped", zap.Error(err))
		default:
			if err != io.EOF {
				logger.Debug("receive failed", zap.Error(err))
			}
			return
		}
	}
}

func waitClosed(done <-chan struct{}) {
	select {
	case <-done:
	case <-time.After(time.Second):
	}
}
