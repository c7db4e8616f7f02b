// Package mmapfile maps byte ranges of a file into memory.
//
// It is a thin, read/write-capable generalization of the read-only mapping
// helper the crunch-pool workloads were originally paired with: callers
// that need to hand one mapped region per worker (see cmd/fbfill) mmap a
// disjoint byte range per worker rather than the whole file.
package mmapfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mapping is a memory-mapped byte range of an open file. The zero value is
// not usable; construct one with Map.
type Mapping struct {
	Bytes []byte
}

// Map maps length bytes of f starting at offset, which must be a multiple
// of the system page size (os.Getpagesize); any other offset makes Map
// return an error. If writable is false the
// mapping is read-only (PROT_READ) and shared; if true it is read-write
// and shared, so writes are visible to other mappings of the same file and
// are eventually written back by the kernel.
//
// The kernel is advised MADV_RANDOM: crunch-pool workers access disjoint
// regions concurrently, not sequentially, so read-ahead would waste page
// cache on data a worker has no intention of reading next.
func Map(f *os.File, offset int64, length int, writable bool) (*Mapping, error) {
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	data, err := unix.Mmap(int(f.Fd()), offset, length, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: mmap offset=%d length=%d: %w", offset, length, err)
	}
	if err := unix.Madvise(data, unix.MADV_RANDOM); err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("mmapfile: madvise: %w", err)
	}
	return &Mapping{Bytes: data}, nil
}

// Close unmaps the region. It is not safe to call Close more than once.
func (m *Mapping) Close() error {
	if m.Bytes == nil {
		return nil
	}
	err := unix.Munmap(m.Bytes)
	m.Bytes = nil
	return err
}
