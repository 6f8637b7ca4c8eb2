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

	"github.com/wtask/relay/pkg/semver"
)

type (
	// Configuration - client configuration
	Configuration struct {
		// Host - relay host name or address
		Host string
		// Port - relay TCP port
		Port uint
		// DialTimeout - max time to establish connection
		DialTimeout time.Duration
		// Debug - print diagnostic records
		Debug bool
	}
)

var (
	// Config - current configuration of the client
	Config = Configuration{
		Host:        "127.0.0.1",
		Port:        5555,
		DialTimeout: 5 * time.Second,
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
		fmt.Fprintf(out, "Interactive client of text message relay\n\n\t%s [options]\nOptions:\n\n", BinaryName)
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
	if v := os.Getenv("RELAY_HOST"); v != "" {
		Config.Host = v
	}
	if v := os.Getenv("RELAY_PORT"); v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			printError(fmt.Sprintf("invalid RELAY_PORT value %q", v))
			os.Exit(1)
		}
		Config.Port = uint(port)
	}

	help := false
	flag.BoolVar(&help, "help", false, "Print usage help")
	flag.StringVar(&Config.Host, "host", Config.Host, "Relay host")
	flag.UintVar(&Config.Port, "port", Config.Port, "Relay TCP port")
	flag.DurationVar(&Config.DialTimeout, "dial-timeout", Config.DialTimeout, "Max time to connect")
	flag.BoolVar(&Config.Debug, "debug", false, "Print diagnostic records")

	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}
	if Config.Port < 1 || Config.Port > 65535 {
		printError("port value should be in range 1..65535")
		os.Exit(1)
	}
	if Config.DialTimeout <= 0 {
		printError("dial-timeout value should be positive")
		os.Exit(1)
	}
}
