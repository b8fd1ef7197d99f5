package memory

import (
	"github.com/wippyai/ascabi/errors"
)

// Alignment of every block returned by Bump.
const Alignment = 8

// DefaultHeapBase keeps the first KiB free so that no block starts at the
// null offset.
const DefaultHeapBase = 1024

// Bump is a bump-pointer memory manager over a Linear memory. Blocks are
// never reused, so every block is disjoint from all earlier ones.
type Bump struct {
	mem  *Linear
	base uint32
	top  uint32
}

// NewBump creates an allocator whose first block starts at base.
func NewBump(mem *Linear, base uint32) (*Bump, error) {
	if mem == nil {
		return nil, errors.NotInitialized(errors.PhaseAlloc, "linear memory")
	}
	if base == 0 {
		return nil, errors.InvalidInput(errors.PhaseAlloc, "heap base must be non-zero")
	}
	aligned := alignUp(uint64(base))
	if aligned > 0xFFFFFFFF {
		return nil, errors.InvalidInput(errors.PhaseAlloc, "heap base out of range")
	}
	return &Bump{mem: mem, base: uint32(aligned), top: uint32(aligned)}, nil
}

// Alloc reserves size bytes. Zero-sized requests still consume one
// alignment unit so that returned offsets stay unique.
func (b *Bump) Alloc(size uint32) (uint32, error) {
	n := uint64(size)
	if n == 0 {
		n = Alignment
	}
	ptr := b.top
	end := uint64(ptr) + alignUp(n)
	if end > 0xFFFFFFFF {
		return 0, errors.AllocationFailed(errors.PhaseAlloc, size, nil)
	}
	if end > uint64(len(b.mem.data)) {
		need := (end - uint64(len(b.mem.data)) + PageSize - 1) / PageSize
		if _, ok := b.mem.Grow(uint32(need)); !ok {
			return 0, errors.New(errors.PhaseAlloc, errors.KindAllocation).
				Detail("failed to allocate %d bytes: page limit %d reached", size, b.mem.maxPages).
				Value(size).
				Build()
		}
	}
	b.top = uint32(end)
	return ptr, nil
}

// Base returns the offset of the first block.
func (b *Bump) Base() uint32 {
	return b.base
}

// Used returns the number of bytes handed out so far.
func (b *Bump) Used() uint32 {
	return b.top - b.base
}

func alignUp(n uint64) uint64 {
	return (n + Alignment - 1) &^ (Alignment - 1)
}
