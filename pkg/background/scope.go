package background

import (
	"context"
	"sync"
	"time"
)

// Scope - cancellable group of goroutines which can be awaited together.
type Scope struct {
	ctx       context.Context
	ctxCancel context.CancelFunc
	scope     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// NewScope - concurrency scope builder.
// Returned cancel func stops the scope context and waits for all members.
func NewScope() (scope *Scope, cancel func()) {
	ctx, cancelFunc := context.WithCancel(context.Background())
	s := &Scope{
		ctx:       ctx,
		ctxCancel: cancelFunc,
	}
	return s,
		func() {
			s.Stop()
			s.scope.Wait()
		}
}

// Context - return scope context, it is done after cancellation.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go - runs f in new member goroutine, unless the scope is cancelled already.
// Returns false if f was not started.
// Members are never added after Stop, so Wait can't miss them.
func (s *Scope) Go(f func(ctx context.Context)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.scope.Add(1)
	go func() {
		defer s.scope.Done()
		f(s.ctx)
	}()
	return true
}

// Stop - cancels scope context without waiting for members.
func (s *Scope) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.ctxCancel()
}

// Wait - waits for all members at most timeout, zero timeout waits forever.
// Returns true if all members are done.
func (s *Scope) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.scope.Wait()
		close(done)
	}()
	if timeout <= 0 {
		<-done
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
