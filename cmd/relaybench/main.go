package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/wtask/relay/internal/relay/bench"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Can't build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	node := net.JoinHostPort(Config.Host, fmt.Sprintf("%d", Config.Port))
	sweep := len(Config.Sizes) > 0
	sizes := Config.Sizes
	if !sweep {
		sizes = []int{Config.Size}
	}

	results := make([]bench.Result, 0, len(sizes))
	for _, size := range sizes {
		if sweep {
			fmt.Printf("==> size %d bytes\n", size)
		}
		ctx, cancel := context.WithTimeout(context.Background(), Config.DialTimeout)
		r, err := bench.Run(ctx, node, size, Config.Count, Config.To)
		cancel()
		if err != nil {
			logger.Fatal("run failed", zap.String("relay", node), zap.Int("size", size), zap.Error(err))
		}
		fmt.Println(r)
		results = append(results, r)
	}

	outfile := Config.OutFile
	if outfile == "" && sweep {
		outfile = filepath.Join("results", fmt.Sprintf("size_results_%d.csv", time.Now().Unix()))
	}
	if outfile == "" {
		return
	}
	if err := save(outfile, results); err != nil {
		logger.Fatal("can't save results", zap.String("file", outfile), zap.Error(err))
	}
	fmt.Printf("\nCSV saved to: %s\n", outfile)
}

func save(name string, results []bench.Result) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := bench.WriteCSV(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
