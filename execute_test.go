package crunchpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// TestExecuteScopedCombine is end-to-end scenario 6: seed a thousand
// increment jobs from init, destroy returns each worker's counter, combine
// sums them onto init's accumulator, which starts from the count of jobs
// that overflowed onto the caller.
func TestExecuteScopedCombine(t *testing.T) {
	defer goleak.VerifyNone(t)

	const jobs = 1_000

	sum, err := Execute(
		NewOptions(),
		func(ordinal int) uint64 { return 0 },
		func(sender Submitter[uint64]) uint64 {
			var caller uint64
			for i := 0; i < jobs; i++ {
				sender.Send(&caller, func(c *uint64) { *c++ })
			}
			return caller
		},
		func(c uint64) uint64 { return c },
		func(acc, y uint64) uint64 { return acc + y },
	)

	assert.NoError(t, err)
	assert.Equal(t, uint64(jobs), sum)
}

// TestExecuteInitRunsBeforeQueueCanDrain guards the ordering guarantee of
// §4.4: workers must be started (and therefore able to receive) before
// init's own sends happen, and init must get to enqueue everything it
// wants before the scope can be considered drained.
func TestExecuteInitRunsBeforeQueueCanDrain(t *testing.T) {
	defer goleak.VerifyNone(t)

	seen, err := Execute(
		NewOptions().Threads(4).Slots(4),
		func(ordinal int) int { return 0 },
		func(sender Submitter[int]) int {
			var caller int
			for i := 0; i < 500; i++ {
				sender.Send(&caller, func(c *int) { *c++ })
			}
			return caller
		},
		func(c int) int { return c },
		func(acc, y int) int { return acc + y },
	)

	assert.NoError(t, err)
	assert.Equal(t, 500, seen)
}

// TestExecuteZeroThreads exercises the N=0 degenerate case through the
// scoped entry point: every job runs synchronously inside init.
func TestExecuteZeroThreads(t *testing.T) {
	defer goleak.VerifyNone(t)

	total, err := Execute(
		NewOptions().Threads(1).OneIsZero(),
		func(ordinal int) int { return 0 },
		func(sender Submitter[int]) int {
			var caller int
			sender.Send(&caller, func(c *int) { *c += 41 })
			sender.Send(&caller, func(c *int) { *c++ })
			return caller
		},
		func(c int) int { return c },
		func(acc, y int) int { return acc + y },
	)

	assert.NoError(t, err)
	assert.Equal(t, 42, total)
}
