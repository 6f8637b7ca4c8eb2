package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wtask/relay/internal/relay/bench"
	"github.com/wtask/relay/pkg/semver"
)

type (
	// Configuration - benchmark run parameters
	Configuration struct {
		// Host - relay host
		Host string
		// Port - relay TCP port
		Port uint
		// Size - body size of every message in bytes
		Size int
		// Sizes - body sizes of the sweep, it replaces Size when not empty
		Sizes []int
		// OutFile - CSV file of the sweep results
		OutFile string
		// Count - num of messages to send
		Count int
		// To - destination of messages
		To string
		// DialTimeout - max time to establish connection
		DialTimeout time.Duration
	}
)

var (
	// Config - current run parameters
	Config = Configuration{
		Port:        5555,
		Size:        1024,
		Count:       100,
		To:          "*",
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
		fmt.Fprintf(out, "Send N messages of fixed size (or of every size from the list) to the relay\n\n\t%s -host <host> [options]\nOptions:\n\n", BinaryName)
		flag.PrintDefaults()
		fmt.Fprint(out, "\n")
	}
	printError := func(msg string) {
		fmt.Fprintf(out, "%s (v%s) error:\n\n\t%s\n", BinaryName, Version, msg)
	}

	help := false
	flag.BoolVar(&help, "help", false, "Print usage help")
	flag.StringVar(&Config.Host, "host", "", "Relay host, required")
	flag.UintVar(&Config.Port, "port", Config.Port, "Relay TCP port")
	flag.IntVar(&Config.Size, "size", Config.Size, "Body size of every message in bytes")
	sizes := ""
	flag.StringVar(&sizes, "sizes", "", "Comma-separated body sizes to run one after another, e.g. "+bench.DefaultSizes)
	flag.StringVar(&Config.OutFile, "outfile", "", "CSV file of results, sweep writes results/size_results_<unix time>.csv by default")
	flag.IntVar(&Config.Count, "count", Config.Count, "Num of messages")
	flag.StringVar(&Config.To, "to", Config.To, "Destination: * for broadcast, alias or address otherwise")
	flag.DurationVar(&Config.DialTimeout, "dial-timeout", Config.DialTimeout, "Max time to connect")

	flag.Parse()

	if help {
		printUsage()
		os.Exit(0)
	}
	if Config.Host == "" {
		printError("host is required")
		os.Exit(1)
	}
	if Config.Port < 1 || Config.Port > 65535 {
		printError("port value should be in range 1..65535")
		os.Exit(1)
	}
	if Config.Size < 0 || Config.Count < 1 {
		printError("size should be greater or equal 0 and count should be greater 0")
		os.Exit(1)
	}
	if sizes != "" {
		list, err := bench.ParseSizes(sizes)
		if err != nil {
			printError(err.Error())
			os.Exit(1)
		}
		Config.Sizes = list
	}
	if Config.To == "" {
		Config.To = "*"
	}
}
