package bvh

import "github.com/rtcore/accelstruct/internal/geom"

// Build runs the binned SAH recursion over work and returns the root of
// the resulting tagged tree. work is consumed by value (copied into
// per-call slices as the recursion partitions it) and is never mutated
// in place, so callers may reuse their backing array afterward.
//
// Build is total on non-empty input; an empty work list is a caller
// error the package does not defend against (spec.md §4.B: "undefined
// for the builder").
func Build(work []BBoxTmp, opts Options) *Node {
	return recurse(work, 0, opts, 0, 1)
}

// recurse implements one level of the Recurse() contract from
// original_source/bvh.h, generalized to an arbitrary payload. pctStart
// and pctSpan only feed OnProgress and have no effect on the tree shape.
func recurse(work []BBoxTmp, depth int, opts Options, pctStart, pctSpan float64) *Node {
	bounds := unionAll(work)

	if len(work) < opts.MaxLeafSize {
		return leafOf(work, bounds)
	}

	minCost := float32(len(work)) * bounds.SurfaceArea()
	bestAxis := -1
	var bestSplit float32

	childSpan := pctSpan / 3

	for axis := 0; axis < 3; axis++ {
		if opts.OnProgress != nil {
			opts.OnProgress(clamp01(pctStart + float64(axis)*childSpan))
		}

		start := bounds.Bottom.Axis(axis)
		stop := bounds.Top.Axis(axis)
		span := stop - start
		if abs32(span) < 1e-4 {
			continue
		}

		step := span * float32(depth+1) / 1024

		for testSplit := start + step; testSplit < stop-step; testSplit += step {
			countLeft, countRight := 0, 0
			lb, lt := geom.EmptyAABB().Bottom, geom.EmptyAABB().Top
			rb, rt := lb, lt

			for _, v := range work {
				if v.Center.Axis(axis) < testSplit {
					lb, lt = minVec(lb, v.Bottom), maxVec(lt, v.Top)
					countLeft++
				} else {
					rb, rt = minVec(rb, v.Bottom), maxVec(rt, v.Top)
					countRight++
				}
			}

			if countLeft <= 1 || countRight <= 1 {
				continue
			}

			left := geom.AABB{Bottom: lb, Top: lt}
			right := geom.AABB{Bottom: rb, Top: rt}
			cost := left.SurfaceArea()*float32(countLeft) + right.SurfaceArea()*float32(countRight)

			if cost < minCost {
				minCost = cost
				bestAxis = axis
				bestSplit = testSplit
			}
		}
	}

	if bestAxis == -1 {
		return leafOf(work, bounds)
	}

	left, right := partition(work, bestAxis, bestSplit)

	if opts.OnProgress != nil {
		opts.OnProgress(clamp01(pctStart + 3*childSpan))
	}
	leftNode := recurse(left, depth+1, opts, pctStart+3*childSpan, childSpan)

	if opts.OnProgress != nil {
		opts.OnProgress(clamp01(pctStart + 6*childSpan))
	}
	rightNode := recurse(right, depth+1, opts, pctStart+6*childSpan, childSpan)

	return &Node{
		Bounds: bounds,
		Left:   leftNode,
		Right:  rightNode,
	}
}

func leafOf(work []BBoxTmp, bounds geom.AABB) *Node {
	prims := make([]int, len(work))
	for i, v := range work {
		prims[i] = v.Payload
	}
	return &Node{Bounds: bounds, Prims: prims}
}

// partition splits work into (left, right) by the tie convention center[axis] < split ⇒ left.
func partition(work []BBoxTmp, axis int, split float32) (left, right []BBoxTmp) {
	for _, v := range work {
		if v.Center.Axis(axis) < split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}
	return left, right
}

func unionAll(work []BBoxTmp) geom.AABB {
	box := geom.EmptyAABB()
	for _, v := range work {
		box = geom.Union(box, v.AABB())
	}
	return box
}

func minVec(a, b geom.Vec3) geom.Vec3 { return geom.Min(a, b) }
func maxVec(a, b geom.Vec3) geom.Vec3 { return geom.Max(a, b) }

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
