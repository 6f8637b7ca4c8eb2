package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/wtask/relay/internal/relay/frame"
	"github.com/wtask/relay/pkg/semver"
)

type (
	// Configuration - server configuration
	Configuration struct {
		// IPAddress - bind the address
		IPAddress string
		// Port - bind the TCP port
		Port uint
		// WebsocketPort - bind the port of WebSocket listener, 0 disables it
		WebsocketPort uint
		// MaxFrameSize - max payload size in bytes, 0 means unlimited
		MaxFrameSize uint
		// ClientTimeout - idle period before client is disconnected, 0 means never
		ClientTimeout time.Duration
		// ShutdownTimeout - max time to wait running sessions on stop
		ShutdownTimeout time.Duration
		// DedupWindow - num of recent message ids to drop duplicates, 0 disables dedup
		DedupWindow int
		// Debug - use human-friendly development logger
		Debug bool
		// LogLevel - minimal level of log records
		LogLevel zap.AtomicLevel
	}
)

const (
	// WebsocketPath - http path of WebSocket endpoint
	WebsocketPath = "/ws"
)

var (
	// Config - current configuration of the server
	Config = Configuration{
		IPAddress:       "",
		Port:            5555,
		WebsocketPort:   0,
		MaxFrameSize:    frame.DefaultMaxSize,
		ClientTimeout:   0,
		ShutdownTimeout: 10 * time.Second,
		DedupWindow:     0,
		LogLevel:        zap.NewAtomicLevelAt(zap.InfoLevel),
	}

	// BinaryName - name of run application binary
	BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

	// buildVersion - set with -ldflags "-X main.buildVersion=1.2.3"
	buildVersion = ""

	// Version - application version fingerprint
	Version = semver.Or(buildVersion, semver.V{Major: 1}).String()
)

func init() {
	out := flag.CommandLine.Output()
	printUsage := func() {
		fmt.Fprintf(out, "Launch text message relay over TCP\n\n\t%s [options]\nOptions:\n\n", BinaryName)
		flag.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	printError := func(msg string) {
		fmt.Fprintf(out, "%s (v%s) error:\n\n\t%s\n", BinaryName, Version, msg)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		printError("can't load .env: " + err.Error())
		os.Exit(1)
	}
	env := environment{}
	Config.IPAddress = env.str("RELAY_IP", Config.IPAddress)
	Config.Port = env.number("RELAY_PORT", Config.Port)
	Config.WebsocketPort = env.number("RELAY_WS_PORT", Config.WebsocketPort)
	Config.MaxFrameSize = env.number("RELAY_MAX_FRAME", Config.MaxFrameSize)
	clientTTL := int(env.number("RELAY_CLIENT_TIMEOUT", 0))
	logLevel := env.str("RELAY_LOG_LEVEL", Config.LogLevel.String())
	if env.failed != nil {
		printError(env.failed.Error())
		os.Exit(1)
	}

	help := false
	flag.BoolVar(&help, "help", false, "Print usage help")
	flag.StringVar(&Config.IPAddress, "ip", Config.IPAddress, "Listen address")
	flag.UintVar(&Config.Port, "port", Config.Port, "Listen TCP port")
	flag.UintVar(&Config.WebsocketPort, "ws-port", Config.WebsocketPort, "Listen WebSocket port, path "+WebsocketPath+", 0 to disable")
	flag.UintVar(&Config.MaxFrameSize, "max-frame", Config.MaxFrameSize, "Max payload size in bytes, 0 for unlimited")
	flag.IntVar(&clientTTL, "client-timeout", clientTTL, "Idle duration in seconds before client is disconnected, 0 to keep idle clients.")
	flag.DurationVar(&Config.ShutdownTimeout, "shutdown-timeout", Config.ShutdownTimeout, "Max time to wait for sessions on stop")
	flag.IntVar(&Config.DedupWindow, "dedup-window", Config.DedupWindow, "Num of recent message ids used to drop duplicates, 0 to disable")
	flag.BoolVar(&Config.Debug, "debug", false, "Use development console logger")
	flag.StringVar(&logLevel, "log-level", logLevel, "Log level: debug, info, warn, error")

	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}

	if Config.Port < 1 || Config.Port > 65535 {
		printError("port value should be in range 1..65535")
		os.Exit(1)
	}
	if Config.WebsocketPort > 65535 {
		printError("ws-port value should be in range 0..65535")
		os.Exit(1)
	}
	if Config.WebsocketPort == Config.Port {
		printError("ws-port should differ from port")
		os.Exit(1)
	}
	if Config.MaxFrameSize > 1<<32-1 {
		printError("max-frame value does not fit into frame header")
		os.Exit(1)
	}
	if clientTTL < 0 {
		printError("client-timeout value should be greater or equal 0")
		os.Exit(1)
	}
	Config.ClientTimeout = time.Duration(clientTTL) * time.Second
	if Config.ShutdownTimeout <= 0 {
		printError("shutdown-timeout value should be positive")
		os.Exit(1)
	}
	if Config.DedupWindow < 0 {
		printError("dedup-window value should be greater or equal 0")
		os.Exit(1)
	}
	level, err := zap.ParseAtomicLevel(logLevel)
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	Config.LogLevel = level

	fmt.Fprint(out, "Relay server is launching, press Ctrl-C to stop...\n")
}

// environment - reads optional defaults from process environment, keeps first failure.
type environment struct {
	failed error
}

func (e *environment) str(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func (e *environment) number(key string, fallback uint) uint {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 0)
	if err != nil {
		if e.failed == nil {
			e.failed = fmt.Errorf("invalid %s value %q", key, v)
		}
		return fallback
	}
	return uint(n)
}
