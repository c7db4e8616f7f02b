package crunchpool

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Void is a convenience type for workloads that produce no meaningful
// worker output — used by Build and NewDefault.
type Void struct{}

// PanicError wraps a panic recovered from a worker's factory, a job, or its
// destroy function. The pool isolates panics per worker: one worker
// panicking does not cancel or corrupt its siblings, but the panic is
// still fatal to that worker's own output, and is surfaced to the joiner.
type PanicError struct {
	Worker int // 1-based ordinal of the worker that panicked
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("crunchpool: worker %d panicked: %v", e.Worker, e.Value)
}

// Pool owns a set of worker goroutines, each running its own exclusively
// owned state W, and the Submitter used to feed them jobs.
type Pool[W, X any] struct {
	sender  Submitter[W]
	workers []*poolWorker[X]
}

type poolWorker[X any] struct {
	out   X
	err   error
	ready chan struct{}
}

// New constructs a Pool. The effective thread count is computed from
// options (see Options.threadCount); a count of 0 spawns no workers and
// puts every Send on the synchronous path.
//
// param is cloned once per worker (by value, since Go has no move
// semantics to give up) and passed to create to build that worker's state.
// destroy is applied to each worker's state once its queue has drained and
// its result is collected in Join, in spawn order.
func New[T, W, X any](options Options, param T, create func(T) W, destroy func(W) X) *Pool[W, X] {
	threads := options.threadCount()
	capacity := threads * options.slotCount()
	sender := newSubmitter[W](capacity)

	workers := make([]*poolWorker[X], threads)
	for i := range workers {
		pw := &poolWorker[X]{ready: make(chan struct{})}
		workers[i] = pw
		ordinal := i + 1
		go runWorker(ordinal, sender.jobs, param, create, destroy, pw)
	}

	return &Pool[W, X]{sender: sender, workers: workers}
}

// NewDefault builds a Pool with default Options, a zero-valued worker
// state, and an identity destroy — the Go analogue of a parameterless
// constructor for types with no setup to do.
func NewDefault[W any]() *Pool[W, W] {
	return New(NewOptions(), struct{}{}, func(struct{}) W {
		var w W
		return w
	}, func(w W) W {
		return w
	})
}

func runWorker[T, W, X any](ordinal int, jobs <-chan Job[W], param T, create func(T) W, destroy func(W) X, pw *poolWorker[X]) {
	defer close(pw.ready)
	defer func() {
		if r := recover(); r != nil {
			pw.err = &PanicError{Worker: ordinal, Value: r, Stack: debug.Stack()}
		}
	}()

	state := create(param)
	for job := range jobs {
		job(&state)
	}
	pw.out = destroy(state)
}

// Sender returns the Submitter used to feed jobs into the pool. It may be
// cloned freely. The queue closes once Join has released the Pool's own
// reference and every job sent through any clone has finished running;
// clones themselves are not counted, so a clone kept outside a job must not
// be used to Send after that point.
func (p *Pool[W, X]) Sender() Submitter[W] {
	return p.sender
}

// Join closes the pool's own Submitter handle (other clones may still be
// live inside already-enqueued jobs — that's fine, they drop in turn as
// those jobs finish), waits for every worker to terminate, and returns
// their destroy outputs in spawn order.
//
// If any worker's factory, job, or destroy function panicked, Join returns
// a non-nil error aggregating every such panic (via errors.Join); the
// outputs slice still has one entry per worker, zero-valued for any worker
// that panicked.
func (p *Pool[W, X]) Join() ([]X, error) {
	p.sender.close()

	outs := make([]X, len(p.workers))
	var errs []error
	for i, w := range p.workers {
		<-w.ready
		outs[i] = w.out
		if w.err != nil {
			errs = append(errs, w.err)
		}
	}
	return outs, errors.Join(errs...)
}
