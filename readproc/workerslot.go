package readproc

import "sync"

// workerSlot models a single-slot background worker: at
// most one goroutine may be in flight at a time, and spawning a new one
// first joins whichever is currently running. This is deliberately not a
// worker pool (github.com/grailbio/base/traverse.Each, used elsewhere in
// this repo for bounded-parallel fan-out, would mis-model the "at most
// one in flight" invariant here).
type workerSlot struct {
	mu   sync.Mutex
	done chan struct{} // nil until the first spawn; closed when the latest worker completes
}

// spawn joins any worker already running, then starts fn in a new one.
func (s *workerSlot) spawn(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		<-s.done
	}
	done := make(chan struct{})
	s.done = done
	go func() {
		defer close(done)
		fn()
	}()
}

// join waits for any worker currently running to finish.
func (s *workerSlot) join() {
	s.mu.Lock()
	d := s.done
	s.mu.Unlock()
	if d != nil {
		<-d
	}
}
