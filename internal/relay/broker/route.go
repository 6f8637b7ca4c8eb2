package broker

import (
	"strings"
	"sync"
)

// IsBroadcast - reports whether destination addresses everybody.
func IsBroadcast(destination string) bool {
	d := strings.TrimSpace(destination)
	return d == "*" || strings.EqualFold(d, "all")
}

// Targets - splits multicast destination into trimmed non-empty tokens.
func Targets(destination string) []string {
	targets := []string{}
	for _, token := range strings.Split(destination, ",") {
		if token = strings.TrimSpace(token); token != "" {
			targets = append(targets, token)
		}
	}
	return targets
}

// Resolve - selects peers from snapshot addressed by destination.
// Broadcast gives every peer. Otherwise peer matches when its name or its raw address
// is listed in destination. Sender is not excluded here.
func Resolve(destination string, snapshot map[*Peer]string) []*Peer {
	resolved := []*Peer{}
	if IsBroadcast(destination) {
		for p := range snapshot {
			resolved = append(resolved, p)
		}
		return resolved
	}
	targets := map[string]struct{}{}
	for _, t := range Targets(destination) {
		targets[t] = struct{}{}
	}
	if len(targets) == 0 {
		return resolved
	}
	for p, name := range snapshot {
		_, byName := targets[name]
		_, byAddr := targets[p.Addr()]
		if byName || byAddr {
			resolved = append(resolved, p)
		}
	}
	return resolved
}

// Exclude - returns peers without the given one.
func Exclude(peers []*Peer, excluded *Peer) []*Peer {
	result := make([]*Peer, 0, len(peers))
	for _, p := range peers {
		if p != excluded {
			result = append(result, p)
		}
	}
	return result
}

// Report - outcome of fan-out, independent for every target.
type Report struct {
	Delivered []*Peer
	Failed    map[*Peer]error
}

// Deliver - sends payload to every peer concurrently and waits all attempts.
// A failure of one target never affects the others; partial delivery is normal outcome.
func Deliver(peers []*Peer, payload []byte) Report {
	report := Report{
		Delivered: make([]*Peer, 0, len(peers)),
		Failed:    map[*Peer]error{},
	}
	mu := sync.Mutex{}
	wg := sync.WaitGroup{}
	for _, p := range peers {
		wg.Add(1)
		go func(p *Peer) {
			defer wg.Done()
			err := p.Send(payload)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[p] = err
				return
			}
			report.Delivered = append(report.Delivered, p)
		}(p)
	}
	wg.Wait()
	return report
}
