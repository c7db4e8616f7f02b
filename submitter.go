package crunchpool

import "sync/atomic"

// Job is a one-shot callable that mutates a worker's state. Invoking it
// consumes it; a Job is never invoked more than once.
type Job[W any] func(worker *W)

// Submitter is a cloneable handle to a pool's bounded job queue. It carries
// no worker state of its own — the worker-state argument required for the
// synchronous-overflow branch of Send is supplied by the caller at each
// call, which is whichever worker is currently executing.
//
// The zero value is not usable; obtain a Submitter from a Pool or from
// Execute's init closure.
type Submitter[W any] struct {
	jobs    chan Job[W]
	pending *atomic.Int64
}

func newSubmitter[W any](capacity int) Submitter[W] {
	pending := new(atomic.Int64)
	pending.Store(1) // the owner's own reference, released by close()
	return Submitter[W]{jobs: make(chan Job[W], capacity), pending: pending}
}

// Clone returns another handle to the same queue. Cloning itself never
// blocks closure: a clone captured inside a job is kept alive by that
// job's own accounting in Send (see release), not by Clone incrementing
// anything on its own — Go has no destructor to tell us when a clone
// captured by a closure stops being reachable, so the live-handle count
// tracks in-flight jobs instead of clone instances directly.
func (s Submitter[W]) Clone() Submitter[W] {
	return s
}

// IsFull reports whether the queue is currently full. This is an advisory
// hint only, useful for deciding whether to recurse inline rather than pay
// the cost of constructing a Job — by the time Send is called the answer
// may already be stale.
func (s Submitter[W]) IsFull() bool {
	return len(s.jobs) >= cap(s.jobs)
}

// Send enqueues job onto the bounded queue. If the queue is full — either
// because IsFull already reported so, or because of a race where a
// not-full check was immediately followed by the queue filling up — job
// runs synchronously on the caller's own goroutine against worker instead
// of being queued. Send never blocks and never drops job.
//
// worker must be the caller's own worker state: the one it currently holds
// exclusively. Passing another worker's state would violate the pool's
// exclusivity invariant.
//
// Send marks job as outstanding before handing it off, and does not let
// the queue close until job has actually finished running — whether it
// ran inline here or was dequeued and run by a worker later — so that a
// job which itself recurses via a cloned Submitter never sends on a queue
// that a concurrent Join/Execute has already closed out from under it.
func (s Submitter[W]) Send(worker *W, job Job[W]) {
	s.pending.Add(1)
	wrapped := func(w *W) {
		defer s.release()
		job(w)
	}
	if cap(s.jobs) == 0 {
		// The degenerate N=0 pool: the queue always reports full, so every
		// send runs synchronously. Short-circuiting avoids a select on a
		// zero-capacity channel that nothing will ever drain.
		wrapped(worker)
		return
	}
	select {
	case s.jobs <- wrapped:
	default:
		// Lost the race, or the queue was already full: run inline rather
		// than block or drop.
		wrapped(worker)
	}
}

// release drops one outstanding reference — either a finished job's, or
// (from close) the owner's own — and closes the queue once none remain.
func (s Submitter[W]) release() {
	if s.pending.Add(-1) == 0 {
		close(s.jobs)
	}
}

func (s Submitter[W]) close() {
	s.release()
}
