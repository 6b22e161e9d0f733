package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptyAABB_UnionIdentity(t *testing.T) {
	box := AABB{Bottom: Vec3{1, 2, 3}, Top: Vec3{4, 5, 6}}
	got := Union(EmptyAABB(), box)
	require.Equal(t, box, got)
}

func TestUnion(t *testing.T) {
	a := AABB{Bottom: Vec3{0, 0, 0}, Top: Vec3{1, 1, 1}}
	b := AABB{Bottom: Vec3{-1, 2, 0}, Top: Vec3{3, 3, 0.5}}

	got := Union(a, b)
	require.Equal(t, Vec3{-1, 0, 0}, got.Bottom)
	require.Equal(t, Vec3{3, 3, 1}, got.Top)
}

func TestExpandPoint(t *testing.T) {
	box := AABB{Bottom: Vec3{0, 0, 0}, Top: Vec3{1, 1, 1}}
	got := box.ExpandPoint(Vec3{2, -1, 0.5})
	require.Equal(t, Vec3{0, -1, 0}, got.Bottom)
	require.Equal(t, Vec3{2, 1, 1}, got.Top)
}

func TestSurfaceArea(t *testing.T) {
	box := AABB{Bottom: Vec3{0, 0, 0}, Top: Vec3{2, 3, 4}}
	// dx*dy + dy*dz + dz*dx = 6 + 12 + 8 = 26
	require.Equal(t, float32(26), box.SurfaceArea())
}

func TestSurfaceArea_Degenerate(t *testing.T) {
	box := AABB{Bottom: Vec3{1, 1, 1}, Top: Vec3{1, 1, 1}}
	require.Equal(t, float32(0), box.SurfaceArea())
}

func TestContains(t *testing.T) {
	outer := AABB{Bottom: Vec3{0, 0, 0}, Top: Vec3{10, 10, 10}}
	inner := AABB{Bottom: Vec3{1, 1, 1}, Top: Vec3{2, 2, 2}}
	require.True(t, outer.Contains(inner))
	require.False(t, inner.Contains(outer))
}

func TestCorners(t *testing.T) {
	box := AABB{Bottom: Vec3{0, 0, 0}, Top: Vec3{1, 1, 1}}
	corners := box.Corners()
	require.Len(t, corners, 8)

	rebuilt := EmptyAABB()
	for _, c := range corners {
		rebuilt = rebuilt.ExpandPoint(c)
	}
	require.Equal(t, box, rebuilt)
}

func TestCenterAndSpan(t *testing.T) {
	box := AABB{Bottom: Vec3{0, 0, 0}, Top: Vec3{2, 4, 6}}
	require.Equal(t, Vec3{1, 2, 3}, box.Center())
	require.Equal(t, float32(2), box.Span(0))
	require.Equal(t, float32(4), box.Span(1))
	require.Equal(t, float32(6), box.Span(2))
}
