package crunchpool

import (
	"errors"
	"runtime/debug"
	"sync"
)

// Execute runs one bounded batch of work with a fresh pool scoped to this
// call: it spawns the worker threads, runs init once on the calling
// goroutine to seed jobs and produce an initial accumulator of type X, then
// blocks until every worker has drained its queue and finished, folding
// each worker's destroyed output Y into the accumulator via combine.
//
// Because Execute does not return until all worker goroutines have
// terminated, Y (and the closures passed in) may reference data owned by
// the calling goroutine's stack frame without needing to be heap-allocated
// or synchronized beyond what the pool already does.
//
// create is given each worker's 1-based ordinal rather than a shared
// parameter, matching the ordinal-based constructor variant named in the
// data model (as opposed to New's parameter-based factory).
//
// Workers are folded in spawn order. If a worker panics, Execute still
// folds every worker's output (a zero value for each worker that panicked)
// and returns the accumulator alongside an aggregated error.
func Execute[W, X, Y any](
	options Options,
	create func(ordinal int) W,
	init func(sender Submitter[W]) X,
	destroy func(W) Y,
	combine func(X, Y) X,
) (X, error) {
	threads := options.threadCount()
	capacity := threads * options.slotCount()
	sender := newSubmitter[W](capacity)

	var wg sync.WaitGroup
	results := make([]Y, threads)
	errs := make([]error, threads)

	wg.Add(threads)
	for i := 0; i < threads; i++ {
		ordinal := i + 1
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[ordinal-1] = &PanicError{Worker: ordinal, Value: r, Stack: debug.Stack()}
				}
			}()
			state := create(ordinal)
			for job := range sender.jobs {
				job(&state)
			}
			results[ordinal-1] = destroy(state)
		}()
	}

	// Seed jobs before the queue can possibly be observed as drained and
	// closed: workers are already running and blocked in their receive, so
	// init is free to enqueue (or run synchronously on overflow) before any
	// worker could have exhausted the queue.
	acc := init(sender)

	sender.close()
	wg.Wait()

	for _, y := range results {
		acc = combine(acc, y)
	}
	return acc, errors.Join(errs...)
}
