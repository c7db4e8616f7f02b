package crunchpool

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreadCountDefaultsToHostParallelism(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, runtime.GOMAXPROCS(0), o.threadCount())
}

func TestThreadCountHonorsExplicitThreads(t *testing.T) {
	o := NewOptions().Threads(3)
	assert.Equal(t, 3, o.threadCount())
}

func TestOneIsZeroRemapsOnlyExactlyOne(t *testing.T) {
	assert.Equal(t, 0, NewOptions().Threads(1).OneIsZero().threadCount())
	assert.Equal(t, 2, NewOptions().Threads(2).OneIsZero().threadCount())
	assert.Equal(t, 0, NewOptions().Threads(0).OneIsZero().threadCount())
}

func TestIOBoundMultipliesByFour(t *testing.T) {
	assert.Equal(t, 16, NewOptions().Threads(4).IOBound().threadCount())
}

// TestIOBoundIneffectiveAfterOneIsZeroRemap documents the remap-order
// behavior: when both flags are set and the configured count is exactly 1,
// OneIsZero remaps to 0 before IOBound ever gets a chance to multiply, so
// IOBound has no effect. See Options.threadCount and DESIGN.md.
func TestIOBoundIneffectiveAfterOneIsZeroRemap(t *testing.T) {
	assert.Equal(t, 0, NewOptions().Threads(1).OneIsZero().IOBound().threadCount())
}

func TestSlotCountDefaultsToEight(t *testing.T) {
	assert.Equal(t, defaultSlots, NewOptions().slotCount())
	assert.Equal(t, 3, NewOptions().Slots(3).slotCount())
}

func TestBuildProducesWorkingPool(t *testing.T) {
	pool := Build(NewOptions().Threads(2), func() int { return 0 })
	outs, err := pool.Join()
	assert.NoError(t, err)
	assert.Len(t, outs, 2)
}
