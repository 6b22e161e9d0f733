package geom

import "math"

// AABB is an axis-aligned bounding box, Bottom <= Top component-wise.
type AABB struct {
	Bottom, Top Vec3
}

// EmptyAABB returns the identity box for Union: Bottom=+inf, Top=-inf, so
// unioning it with anything yields that thing's own box.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Bottom: Vec3{inf, inf, inf},
		Top:    Vec3{-inf, -inf, -inf},
	}
}

// Union returns the smallest AABB containing both a and b.
func Union(a, b AABB) AABB {
	return AABB{
		Bottom: Min(a.Bottom, b.Bottom),
		Top:    Max(a.Top, b.Top),
	}
}

// ExpandPoint grows a to also contain p.
func (a AABB) ExpandPoint(p Vec3) AABB {
	return AABB{Bottom: Min(a.Bottom, p), Top: Max(a.Top, p)}
}

// Center returns (Bottom+Top)/2. This is the BBoxTmp centroid used only
// for split classification — spec §3 is explicit it need not be the true
// primitive centroid.
func (a AABB) Center() Vec3 {
	return a.Bottom.Add(a.Top).Scale(0.5)
}

// Span returns Top[axis] - Bottom[axis].
func (a AABB) Span(axis int) float32 {
	return a.Top.Axis(axis) - a.Bottom.Axis(axis)
}

// SurfaceArea returns the shortened SAH surface-area form
// dx*dy + dy*dz + dz*dx (the leading factor of 2 is dropped throughout the
// builder since only relative costs matter, per spec §3/§4.A).
func (a AABB) SurfaceArea() float32 {
	d := a.Top.Sub(a.Bottom)
	return d.X*d.Y + d.Y*d.Z + d.Z*d.X
}

// Contains reports whether a contains box b (used by invariant checks in
// tests, not by the builder itself).
func (a AABB) Contains(b AABB) bool {
	return a.Bottom.X <= b.Bottom.X && a.Bottom.Y <= b.Bottom.Y && a.Bottom.Z <= b.Bottom.Z &&
		a.Top.X >= b.Top.X && a.Top.Y >= b.Top.Y && a.Top.Z >= b.Top.Z
}

// Corners returns the eight corners of a, in no particular order beyond
// being stable and exhaustive — §4.E only needs their union after an
// affine transform, not a canonical ordering.
func (a AABB) Corners() [8]Vec3 {
	return [8]Vec3{
		{a.Bottom.X, a.Bottom.Y, a.Bottom.Z},
		{a.Top.X, a.Bottom.Y, a.Bottom.Z},
		{a.Bottom.X, a.Top.Y, a.Bottom.Z},
		{a.Top.X, a.Top.Y, a.Bottom.Z},
		{a.Bottom.X, a.Bottom.Y, a.Top.Z},
		{a.Top.X, a.Bottom.Y, a.Top.Z},
		{a.Bottom.X, a.Top.Y, a.Top.Z},
		{a.Top.X, a.Top.Y, a.Top.Z},
	}
}
