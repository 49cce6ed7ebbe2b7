package memory

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

const WasmPageSize = 65536 // (64 KB)

// DefaultArenaSize backs the kernel heap when no size is configured.
const DefaultArenaSize = 16 * WasmPageSize

func pageRound(sz int) int {
	if sz < WasmPageSize {
		return WasmPageSize
	}

	diff := sz % WasmPageSize
	if diff == 0 {
		return sz
	}

	return sz + (WasmPageSize - diff)
}

var (
	ErrArenaExhausted = errors.New("arena exhausted")
	ErrBadAlignment   = errors.New("alignment must be a power of two")
)

// Arena is a bump allocator over a fixed region. Allocations are never
// reclaimed; the cursor only moves forward.
type Arena struct {
	heap   []byte
	cursor atomic.Uint64
}

// NewArena reserves a region of at least size bytes, rounded up to whole
// wasm pages.
func NewArena(size int) *Arena {
	if size <= 0 {
		size = DefaultArenaSize
	}

	return &Arena{
		heap: make([]byte, pageRound(size)),
	}
}

// Alloc returns size bytes aligned to align relative to the region base.
// The returned slice has its capacity clamped so appends can never spill
// into a neighbouring allocation.
func (a *Arena) Alloc(size, align uint32) ([]byte, error) {
	if align == 0 || align&(align-1) != 0 {
		return nil, errors.Wrapf(ErrBadAlignment, "align=%d", align)
	}

	limit := uint64(len(a.heap))

	for {
		cur := a.cursor.Load()

		start := (cur + uint64(align) - 1) &^ (uint64(align) - 1)
		end := start + uint64(size)

		if end > limit {
			return nil, errors.Wrapf(ErrArenaExhausted, "size=%d, used=%d, total=%d", size, cur, limit)
		}

		if a.cursor.CompareAndSwap(cur, end) {
			return a.heap[start:end:end], nil
		}
	}
}

// Free is accepted for symmetry with Alloc and does nothing.
func (a *Arena) Free(b []byte) {}

func (a *Arena) Used() int {
	return int(a.cursor.Load())
}

func (a *Arena) Size() int {
	return len(a.heap)
}

func (a *Arena) Available() int {
	return a.Size() - a.Used()
}
