// Package bench measures how fast single client pushes chat messages into the relay.
package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/wtask/relay/internal/relay/client"
	"github.com/wtask/relay/internal/relay/message"
)

// DefaultSizes - body sizes of the sweep unless configured otherwise.
const DefaultSizes = "1,64,512,1024,4096,16384,65536"

// Result - outcome of single run.
type Result struct {
	Host  string
	To    string
	Size  int
	Count int
	// Bytes - total size of encoded payloads, frame headers are not counted
	Bytes    int
	Duration time.Duration
}

// Throughput - application level throughput in KiB per second.
func (r Result) Throughput() float64 {
	seconds := r.Duration.Seconds()
	if seconds < 1e-9 {
		seconds = 1e-9
	}
	return float64(r.Bytes) / 1024 / seconds
}

// String - single line of fixed keys.
func (r Result) String() string {
	return fmt.Sprintf(
		"host=%s to=%s size=%dB count=%d duration=%.6f app_throughput_KiB_s=%.2f",
		r.Host, r.To, r.Size, r.Count, r.Duration.Seconds(), r.Throughput(),
	)
}

// Run - connects to relay at address, sends warm-up and then count messages with body of size bytes to destination.
// Every run uses its own connection.
func Run(ctx context.Context, address string, size, count int, to string) (Result, error) {
	if size < 0 || count < 1 {
		return Result{}, fmt.Errorf("bench.Run: invalid size (%d) or count (%d)", size, count)
	}
	if to == "" {
		to = message.Broadcast
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return Result{}, fmt.Errorf("bench.Run: %w", err)
	}
	c, err := client.Dial(ctx, address)
	if err != nil {
		return Result{}, err
	}
	defer c.Close()

	if err := c.Say(to, "warmup"); err != nil {
		return Result{}, fmt.Errorf("bench.Run: warm-up: %w", err)
	}

	r := Result{Host: host, To: to, Size: size, Count: count}
	text := strings.Repeat("x", size)
	from := time.Now()
	for i := 0; i < count; i++ {
		m := message.New("", text)
		m.Destination = to
		payload, err := message.Marshal(m)
		if err != nil {
			return Result{}, err
		}
		if err := c.SendRaw(payload); err != nil {
			return Result{}, fmt.Errorf("bench.Run: message %d: %w", i, err)
		}
		r.Bytes += len(payload)
	}
	r.Duration = time.Since(from)
	return r, nil
}

// ParseSizes - reads comma-separated list of body sizes, empty items are skipped.
func ParseSizes(s string) ([]int, error) {
	sizes := []int{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		n, err := strconv.Atoi(item)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bench.ParseSizes: invalid size %q", item)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("bench.ParseSizes: no sizes in %q", s)
	}
	return sizes, nil
}

// WriteCSV - writes results with header host,to,size,count,duration_s,app_throughput_KiB_s.
func WriteCSV(w io.Writer, results []Result) error {
	out := csv.NewWriter(w)
	out.Write([]string{"host", "to", "size", "count", "duration_s", "app_throughput_KiB_s"})
	for _, r := range results {
		out.Write([]string{
			r.Host,
			r.To,
			strconv.Itoa(r.Size),
			strconv.Itoa(r.Count),
			strconv.FormatFloat(r.Duration.Seconds(), 'f', 6, 64),
			strconv.FormatFloat(r.Throughput(), 'f', 2, 64),
		})
	}
	out.Flush()
	return out.Error()
}
