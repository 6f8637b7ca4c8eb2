package history

import (
	"reflect"
	"strconv"
	"sync"
	"testing"
)

func TestNewWindow(test *testing.T) {
	if _, err := NewWindow(0); err == nil {
		test.Error("NewWindow(0):", "expected error got nil")
	}
	if _, err := NewWindow(-1); err == nil {
		test.Error("NewWindow(-1):", "expected error got nil")
	}
}

func TestWindow_Seen(test *testing.T) {
	w, _ := NewWindow(2)
	steps := []struct {
		id   string
		seen bool
	}{
		{"1", false},
		{"1", true},
		{"2", false},
		{"3", false}, // "1" is forgotten here
		{"2", true},
		{"1", false},
		{"", false},
		{"", false},
	}
	for i, s := range steps {
		if actual := w.Seen(s.id); actual != s.seen {
			test.Errorf("step %d: Seen(%q) expected %v, actual %v", i, s.id, s.seen, actual)
		}
	}
	if w.Len() != 2 {
		test.Error("Unexpected Window len", w.Len())
	}
	if t := w.Tail(0); !reflect.DeepEqual(t, []string{}) {
		test.Error("Unexpected Tail(0) result", t)
	}
	if t := w.Tail(2); !reflect.DeepEqual(t, []string{"3", "1"}) {
		test.Error("Unexpected Tail(2) result", t)
	}
	if t := w.Tail(-1); !reflect.DeepEqual(t, []string{"1"}) {
		test.Error("Unexpected Tail(-1) result", t)
	}
	if t := w.Tail(100); !reflect.DeepEqual(t, []string{"3", "1"}) {
		test.Error("Unexpected Tail(100) result", t)
	}
}

func TestWindow_concurrent(test *testing.T) {
	w, _ := NewWindow(1000)
	wg := sync.WaitGroup{}
	mu := sync.Mutex{}
	fresh := 0
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if !w.Seen(strconv.Itoa(i)) {
					mu.Lock()
					fresh++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	if fresh != 100 {
		test.Error("every id must be fresh exactly once, got", fresh)
	}
}
