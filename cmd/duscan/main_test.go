package main

import (
	"os"
	"path/filepath"
	"testing"

	crunchpool "github.com/Appboy/crunch-pool"
	"github.com/stretchr/testify/assert"
)

func TestVisitCountsFilesAndDirs(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("bb"), 0o644))

	totals, err := crunchpool.Execute(
		crunchpool.NewOptions().OneIsZero(),
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
	assert.NoError(t, err)
	// root dir + sub dir + a.txt + sub/b.txt == 4 entries.
	assert.Equal(t, uint64(4), totals.count)
}
