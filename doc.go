// Package crunchpool is a bounded worker pool for recursive, CPU- and
// I/O-bound workloads.
//
// Jobs are one-shot closures that mutate a per-worker state of type W. The
// pool's submission queue is bounded; when it is full, Submitter.Send does
// not block and does not drop the job — it runs the job synchronously on
// the caller's own worker state instead. This lets recursive traversal code
// submit child jobs freely without deadlocking when producers outnumber
// consumers.
//
// There is no work-stealing, no priorities, and no cancellation of enqueued
// jobs. Workers never see each other's state; the only shared object is the
// bounded queue itself.
package crunchpool

import "go.uber.org/automaxprocs/maxprocs"

func init() {
	// Adjust GOMAXPROCS for cgroup limits before Options ever probes host
	// parallelism, so the zero-value (unconfigured) thread count reflects
	// what the process can actually use, not the host's raw core count.
	// The core does no logging of its own (see Non-goals), so silence
	// automaxprocs' default status line.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}
