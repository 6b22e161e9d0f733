package bvh

import (
	"fmt"

	"github.com/rtcore/accelstruct/internal/fault"
)

// Linearize flattens root into a pre-order depth-first node array plus a
// prims array holding the concatenation of every leaf's payload indices
// in emission order (spec.md §4.C). The returned prims slice is the
// permutation callers apply when writing flattened triangle/instance
// records: prims[i] is the payload index that belongs at primitive slot i.
func Linearize(root *Node) ([]LinearNode, []int, error) {
	nodeCount := countNodes(root)
	primCount := countPrims(root)

	nodes := make([]LinearNode, nodeCount)
	prims := make([]int, 0, primCount)

	nextNode := 0
	var walk func(n *Node) int
	walk = func(n *Node) int {
		slot := nextNode
		nextNode++

		if n.IsLeaf() {
			nodes[slot] = LinearNode{
				Bounds:    n.Bounds,
				IsLeaf:    true,
				FirstPrim: uint32(len(prims)),
				Count:     uint32(len(n.Prims)),
			}
			prims = append(prims, n.Prims...)
			return slot
		}

		leftSlot := walk(n.Left)
		rightSlot := walk(n.Right)
		nodes[slot] = LinearNode{
			Bounds: n.Bounds,
			IsLeaf: false,
			Left:   uint32(leftSlot),
			Right:  uint32(rightSlot),
		}
		return slot
	}
	walk(root)

	if nextNode != len(nodes) {
		return nil, nil, fault.Wrap(fault.InvariantViolation,
			fmt.Sprintf("linearize: node count mismatch: visited %d want %d", nextNode, len(nodes)), nil)
	}
	if len(prims) != primCount {
		return nil, nil, fault.Wrap(fault.InvariantViolation,
			fmt.Sprintf("linearize: prim count mismatch: emitted %d want %d", len(prims), primCount), nil)
	}

	return nodes, prims, nil
}

func countNodes(n *Node) int {
	if n.IsLeaf() {
		return 1
	}
	return 1 + countNodes(n.Left) + countNodes(n.Right)
}

func countPrims(n *Node) int {
	if n.IsLeaf() {
		return len(n.Prims)
	}
	return countPrims(n.Left) + countPrims(n.Right)
}
