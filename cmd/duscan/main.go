// Command duscan walks one or more directory trees and reports the entry
// count (files and directories, the root included) and disk usage in bytes
// (allocated 512-byte blocks times 512) under each, using crunchpool
// to parallelize the recursive directory walk.
//
// visit checks Submitter.IsFull before deciding whether to recurse on the
// caller's own goroutine or hand the subdirectory to another worker, rather
// than relying solely on Send's own overflow fallback — doing the check up
// front avoids constructing a closure (and cloning the Submitter into it)
// for work that is going to run inline anyway.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	crunchpool "github.com/Appboy/crunch-pool"
)

type walkerState struct {
	count  uint64
	blocks uint64
}

func visit(sender crunchpool.Submitter[walkerState], path string, state *walkerState) {
	info, err := os.Lstat(path)
	if err != nil {
		return
	}
	addEntry(state, info)

	if !info.IsDir() {
		return
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return
	}

	for _, entry := range entries {
		childPath := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			if sender.IsFull() {
				visit(sender, childPath, state)
				continue
			}
			child := sender.Clone()
			sender.Send(state, func(s *walkerState) {
				visit(child, childPath, s)
			})
		} else {
			if info, err := entry.Info(); err == nil {
				addEntry(state, info)
			}
		}
	}
}

func addEntry(state *walkerState, info os.FileInfo) {
	state.count++
	if sys, ok := info.Sys().(*syscall.Stat_t); ok {
		state.blocks += uint64(sys.Blocks)
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: duscan <path> [path...]")
		os.Exit(1)
	}

	for _, root := range os.Args[1:] {
		options := crunchpool.NewOptions().OneIsZero().IOBound()
		root := root

		totals, err := crunchpool.Execute(
			options,
			func(int) walkerState { return walkerState{} },
			func(sender crunchpool.Submitter[walkerState]) walkerState {
				var seed walkerState
				child := sender.Clone()
				sender.Send(&seed, func(s *walkerState) {
					visit(child, root, s)
				})
				return seed
			},
			func(s walkerState) walkerState { return s },
			func(acc, y walkerState) walkerState {
				acc.count += y.count
				acc.blocks += y.blocks
				return acc
			},
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "duscan: %s: %v\n", root, err)
			continue
		}
		fmt.Printf("%s %d %d\n", root, totals.count, totals.blocks<<9)
	}
}
