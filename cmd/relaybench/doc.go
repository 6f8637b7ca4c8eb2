// Package `relaybench` measures how fast single client pushes messages into the relay.
//
// After a warm-up message it sends `count` messages with body of `size` bytes
// to destination `to` and prints single line of fixed keys:
//
//	host=127.0.0.1 to=* size=1024B count=100 duration=0.001234 app_throughput_KiB_s=81234.56
//
// With `-sizes 1,64,512` the run is repeated for every size over a new connection,
// and results are saved as CSV with columns host,to,size,count,duration_s,app_throughput_KiB_s
// into `-outfile` (results/size_results_<unix time>.csv by default).
//
// Throughput counts encoded JSON payloads, frame headers are not included.
package main
