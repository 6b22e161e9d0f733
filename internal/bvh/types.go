// Package bvh implements the binned Surface-Area-Heuristic BVH builder
// (component B) and its pre-order linearizer (component C). The builder
// is generic over primitive payload: it never dereferences Payload, only
// carries it through to the leaves it emits.
package bvh

import "github.com/rtcore/accelstruct/internal/geom"

// BBoxTmp is one primitive's bounding box plus the split-classification
// centroid and an opaque payload index into the caller's source slice.
type BBoxTmp struct {
	Bottom, Top, Center geom.Vec3
	Payload             int
}

// AABB returns the bounding box portion of the entry.
func (b BBoxTmp) AABB() geom.AABB {
	return geom.AABB{Bottom: b.Bottom, Top: b.Top}
}

// Node is a tagged tree: Left/Right non-nil marks an inner node, Prims
// non-nil marks a leaf. A node never has both set.
type Node struct {
	Bounds geom.AABB
	Left   *Node
	Right  *Node
	Prims  []int // payload indices, build-time (leaf) order
}

// IsLeaf reports whether n is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Options configures a single Build call.
type Options struct {
	// MaxLeafSize is MAX_LEAF_PRIM_SIZE: a working list strictly smaller
	// than this is always emitted as a leaf without a split search. There
	// is no built-in default — spec.md notes the reference disagrees
	// between 4 and 100 across variants, so callers must choose.
	MaxLeafSize int

	// OnProgress, if non-nil, is invoked with a fraction in [0,1] at the
	// same points the original implementation updated its console
	// counter: on entry to each of the three per-axis bin scans, and
	// before recursing into each child. It is never required for
	// correctness and is skipped entirely when nil.
	OnProgress func(fraction float64)
}

// LinearNode is one pre-order slot of a linearized tree: either an inner
// node (Left/Right index child slots) or a leaf (FirstPrim/Count index
// into the companion prims array). IsLeaf distinguishes the two; the
// on-disk encoding of that distinction (a tagged high bit) is the
// assembler's concern, not this package's.
type LinearNode struct {
	Bounds    geom.AABB
	IsLeaf    bool
	Left      uint32 // valid iff !IsLeaf
	Right     uint32 // valid iff !IsLeaf
	FirstPrim uint32 // valid iff IsLeaf
	Count     uint32 // valid iff IsLeaf
}
