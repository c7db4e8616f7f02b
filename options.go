package crunchpool

import "runtime"

// defaultSlots is the per-thread queue-slot multiplier used when Options is
// zero-valued or constructed via NewOptions without an explicit Slots call.
const defaultSlots = 8

// Options collects the configuration needed to build a Pool or to drive
// Execute. The zero value behaves like NewOptions: a Slots value of zero or
// less falls back to defaultSlots.
type Options struct {
	threads   *int
	slots     int
	oneIsZero bool
	ioBound   bool
}

// NewOptions returns the default Options: host parallelism, 8 slots per
// thread, no remaps.
func NewOptions() Options {
	return Options{slots: defaultSlots}
}

// Threads sets the configured thread count. A nil value (the default)
// means "read GOMAXPROCS".
func (o Options) Threads(threads int) Options {
	o.threads = &threads
	return o
}

// Slots sets the per-thread queue slot count; queue capacity is
// threads * slots.
func (o Options) Slots(slots int) Options {
	o.slots = slots
	return o
}

// OneIsZero requests that a computed thread count of exactly 1 be remapped
// to 0, producing a fully synchronous pool. Useful for tests and for
// deterministic single-core behavior.
func (o Options) OneIsZero() Options {
	o.oneIsZero = true
	return o
}

// IOBound requests that the thread count be multiplied by 4 to compensate
// for threads that spend most of their time blocked on I/O.
func (o Options) IOBound() Options {
	o.ioBound = true
	return o
}

// EffectiveThreads returns the worker count this Options value resolves to
// (see threadCount): the configured or probed count, remapped by
// OneIsZero and IOBound. Callers that need to know up front how many
// workers a Pool or Execute call will spawn — e.g. to seed exactly one job
// per worker — use this instead of duplicating the algorithm.
func (o Options) EffectiveThreads() int {
	return o.threadCount()
}

// threadCount implements the effective thread-count algorithm:
//  1. start from the configured count, or runtime.GOMAXPROCS(0) if
//     unconfigured — this reads the value doc.go's init() already set via
//     automaxprocs, so the unconfigured case reflects cgroup CPU quotas
//     rather than the host's raw core count;
//  2. if the result is exactly 1 and OneIsZero was requested, remap to 0;
//  3. otherwise, if IOBound was requested, multiply by 4.
//
// Note the remap order: a thread count of 1 that gets remapped to 0 by
// OneIsZero is never subsequently multiplied by IOBound, even if both are
// set — see DESIGN.md. This is preserved deliberately even though it is
// likely an accidental interaction rather than an intentional one, since
// changing it would be a silent behavior change for existing callers.
func (o Options) threadCount() int {
	n := 0
	if o.threads != nil {
		n = *o.threads
	} else {
		n = runtime.GOMAXPROCS(0)
	}
	switch {
	case n == 1 && o.oneIsZero:
		return 0
	case o.ioBound:
		return 4 * n
	default:
		return n
	}
}

func (o Options) slotCount() int {
	if o.slots <= 0 {
		return defaultSlots
	}
	return o.slots
}

// Build constructs a Pool whose worker state is default-constructed and
// whose output is discarded (destroy drops the state and Join's caller
// gets Void values back) — a one-line shortcut for fire-and-forget
// workloads where W implements a zero-argument constructor contract of its
// own (via newW).
func Build[W any](o Options, newW func() W) *Pool[W, Void] {
	return New(o, struct{}{}, func(struct{}) W {
		return newW()
	}, func(W) Void {
		return Void{}
	})
}
