// Command vecbench is a portable vector-add benchmark: it detects AVX2 and
// AVX512F support (informational only, since Go has no inline assembly) and
// runs an "add into an accumulator until told to stop" workload in plain Go
// arithmetic over a []uint64 buffer, one job per available worker, each
// looping until a shared atomic flag flips, with the worker's final
// counters read back on Join.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	crunchpool "github.com/Appboy/crunch-pool"
	"golang.org/x/sys/cpu"
)

const (
	runFor    = 2 * time.Second
	bufferLen = 4096
)

type workerState struct {
	ops   uint64
	accum uint64
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info("cpu features", "avx2", cpu.X86.HasAVX2, "avx512f", cpu.X86.HasAVX512F)

	options := crunchpool.NewOptions()
	pool := crunchpool.New(options, struct{}{},
		func(struct{}) workerState { return workerState{} },
		func(w workerState) workerState { return w },
	)
	sender := pool.Sender()

	var running atomic.Bool
	running.Store(true)

	threads := options.EffectiveThreads()
	if threads == 0 {
		threads = 1
	}
	for i := 0; i < threads; i++ {
		var caller workerState
		sender.Send(&caller, func(w *workerState) {
			buf := make([]uint64, bufferLen)
			for running.Load() {
				for j := range buf {
					buf[j] += uint64(j) + 1
				}
				w.accum += buf[0]
				w.ops += bufferLen
			}
		})
	}

	time.Sleep(runFor)
	running.Store(false)

	outs, err := pool.Join()
	if err != nil {
		logger.Error("worker failure", "err", err)
		os.Exit(1)
	}

	var totalOps uint64
	for _, w := range outs {
		totalOps += w.ops
	}
	fmt.Printf("ops %d - %.3f Gops/s\n", totalOps, float64(totalOps)/runFor.Seconds()/1e9)
}
