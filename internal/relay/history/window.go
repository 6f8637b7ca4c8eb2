package history

import (
	"fmt"
	"sync"
)

// Window - remembers a limited number of recent message ids in arrival order.
// When window is full, it forgets the oldest id on every new one.
type Window struct {
	max   int
	mu    sync.Mutex
	order []string
	index map[string]struct{}
}

// NewWindow - builds id window.
func NewWindow(max int) (*Window, error) {
	if max <= 0 {
		return nil, fmt.Errorf("history.NewWindow: max (%d) must be greater than 0", max)
	}
	return &Window{
		max:   max,
		order: make([]string, 0, max),
		index: make(map[string]struct{}, max),
	}, nil
}

// Len - returns number of currently remembered ids.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// Seen - reports whether id is within the window and remembers it otherwise.
// Empty id is never remembered and never reported as seen.
func (w *Window) Seen(id string) bool {
	if id == "" {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.index[id]; ok {
		return true
	}
	if len(w.order) == w.max {
		delete(w.index, w.order[0])
		w.order = w.order[1:]
	}
	w.order = append(w.order, id)
	w.index[id] = struct{}{}
	return false
}

// Tail - makes copy of last n ids. The first item in resulting slice is the oldest.
func (w *Window) Tail(n int) []string {
	if n < 0 {
		n *= -1
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	l := len(w.order)
	if n > l {
		n = l
	}
	tail := make([]string, n)
	copy(tail, w.order[l-n:])
	return tail
}
