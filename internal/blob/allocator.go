// Package blob provides the sequential byte-range allocator the BLAS and
// TLAS assemblers use to lay out blob sections: header, then node array,
// then primitive array, then vertex array (BLAS), or header, then node
// array, then instance array, then the concatenated de-duplicated BLAS
// blobs (TLAS). Every section begins exactly where its predecessor ends.
package blob

import (
	"fmt"
	"sort"
)

// Block tracks one allocated byte range [Offset, Offset+Size).
type Block struct {
	Offset uint64
	Size   uint64
}

// Allocator hands out contiguous byte ranges at the current end of the
// blob, in call order, and never reuses or reclaims space. This matches
// the section layout described in spec.md §4.D/§4.E: sections are placed
// back to back with no gaps and no freed-space reuse.
type Allocator struct {
	blocks     []Block
	nextOffset uint64
}

// New returns an Allocator whose first Allocate call starts at initialOffset.
func New(initialOffset uint64) *Allocator {
	return &Allocator{
		blocks:     make([]Block, 0, 8),
		nextOffset: initialOffset,
	}
}

// Allocate reserves size bytes at the current end of the blob and
// advances the end pointer past it.
func (a *Allocator) Allocate(size uint64) (uint64, error) {
	if size == 0 {
		return 0, fmt.Errorf("blob: cannot allocate zero bytes")
	}

	offset := a.nextOffset
	a.blocks = append(a.blocks, Block{Offset: offset, Size: size})
	a.nextOffset = offset + size

	return offset, nil
}

// End returns the current end-of-blob offset — the total size the blob
// must be once every allocated section has been written.
func (a *Allocator) End() uint64 {
	return a.nextOffset
}

// IsAllocated reports whether [offset, offset+size) overlaps any block
// already allocated.
func (a *Allocator) IsAllocated(offset, size uint64) bool {
	if size == 0 {
		return false
	}

	rangeEnd := offset + size
	for _, block := range a.blocks {
		blockEnd := block.Offset + block.Size
		if offset < blockEnd && block.Offset < rangeEnd {
			return true
		}
	}

	return false
}

// Blocks returns a copy of every allocated block, sorted by offset.
func (a *Allocator) Blocks() []Block {
	blocks := make([]Block, len(a.blocks))
	copy(blocks, a.blocks)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Offset < blocks[j].Offset })
	return blocks
}

// ValidateNoOverlaps confirms the allocator's own invariant: since
// Allocate only ever appends at the end, two blocks overlapping would
// mean a caller mutated state behind the allocator's back.
func (a *Allocator) ValidateNoOverlaps() error {
	blocks := a.Blocks()

	for i := 0; i < len(blocks)-1; i++ {
		current, next := blocks[i], blocks[i+1]
		if current.Offset+current.Size > next.Offset {
			return fmt.Errorf("blob: overlap detected: block at %d (size %d) overlaps block at %d",
				current.Offset, current.Size, next.Offset)
		}
	}

	return nil
}
