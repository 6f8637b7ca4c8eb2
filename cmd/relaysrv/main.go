package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wtask/relay/internal/relay"
)

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if Config.Debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = Config.LogLevel
	return cfg.Build(zap.Fields(zap.String("app", BinaryName), zap.String("version", Version)))
}

func main() {
	logger, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Can't build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("started with config", zap.Any("config", Config))

	options := []relay.Option{
		relay.WithLogger(logger),
		relay.WithReadTimeout(Config.ClientTimeout),
		relay.WithMaxFrameSize(uint32(Config.MaxFrameSize)),
	}
	if Config.DedupWindow > 0 {
		options = append(options, relay.WithDedupWindow(Config.DedupWindow))
	}
	server, err := relay.NewServer(options...)
	if err != nil {
		logger.Fatal("can't create relay server", zap.Error(err))
	}

	node := net.JoinHostPort(Config.IPAddress, fmt.Sprintf("%d", Config.Port))
	listener, err := net.Listen("tcp", node)
	if err != nil {
		logger.Fatal("unable to listen TCP", zap.String("addr", node), zap.Error(err))
	}
	go func() {
		if err := server.Serve(listener); err != nil {
			logger.Error("TCP listener stopped", zap.Error(err))
		}
	}()

	var web *http.Server
	if Config.WebsocketPort > 0 {
		mux := http.NewServeMux()
		mux.Handle(WebsocketPath, server.WebsocketHandler())
		web = &http.Server{
			Addr:              net.JoinHostPort(Config.IPAddress, fmt.Sprintf("%d", Config.WebsocketPort)),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("listen", zap.String("addr", web.Addr), zap.String("path", WebsocketPath))
			if err := web.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("WebSocket listener stopped", zap.Error(err))
			}
		}()
	}
	logger.Info("relay server has started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	logger.Info("got stop signal", zap.Stringer("signal", <-sig))

	if web != nil {
		// hijacked websocket connections are dropped by relay shutdown below
		web.Close()
	}
	logger.Info("relay server stopped, bye", zap.Duration("spent", server.Shutdown(Config.ShutdownTimeout)))
}
