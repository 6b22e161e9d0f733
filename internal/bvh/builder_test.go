package bvh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rtcore/accelstruct/internal/geom"
)

func bbox(payload int, bottom, top geom.Vec3) BBoxTmp {
	return BBoxTmp{
		Bottom:  bottom,
		Top:     top,
		Center:  bottom.Add(top).Scale(0.5),
		Payload: payload,
	}
}

func TestBuild_SingleLeafBelowCutoff(t *testing.T) {
	work := []BBoxTmp{
		bbox(0, geom.Vec3{0, 0, 0}, geom.Vec3{1, 0, 0}),
		bbox(1, geom.Vec3{0, 1, 0}, geom.Vec3{0, 1, 0}),
	}
	root := Build(work, Options{MaxLeafSize: 4})

	require.True(t, root.IsLeaf())
	require.Equal(t, []int{0, 1}, root.Prims)
}

// S2 — two well-separated triangles.
func TestBuild_WellSeparated_MaxLeaf2(t *testing.T) {
	a := bbox(0, geom.Vec3{0, 0, 0}, geom.Vec3{1, 0, 0})
	b := bbox(1, geom.Vec3{10, 0, 0}, geom.Vec3{11, 0, 0})

	root := Build([]BBoxTmp{a, b}, Options{MaxLeafSize: 2})
	require.True(t, root.IsLeaf())
}

func TestBuild_WellSeparated_MaxLeaf1(t *testing.T) {
	a := bbox(0, geom.Vec3{0, 0, 0}, geom.Vec3{1, 0, 0})
	b := bbox(1, geom.Vec3{10, 0, 0}, geom.Vec3{11, 0, 0})

	root := Build([]BBoxTmp{a, b}, Options{MaxLeafSize: 1})
	require.False(t, root.IsLeaf())
	require.NotNil(t, root.Left)
	require.NotNil(t, root.Right)
	require.True(t, root.Left.IsLeaf())
	require.True(t, root.Right.IsLeaf())
	require.Equal(t, []int{0}, root.Left.Prims)
	require.Equal(t, []int{1}, root.Right.Prims)
}

// S3 — co-located triangles: no axis has span > 1e-4, so the builder must
// never find a split regardless of MaxLeafSize.
func TestBuild_CoLocated_AlwaysOneLeaf(t *testing.T) {
	work := make([]BBoxTmp, 100)
	for i := range work {
		work[i] = bbox(i, geom.Vec3{1, 1, 1}, geom.Vec3{1, 1, 1})
	}

	for _, maxLeaf := range []int{1, 2, 4, 8} {
		root := Build(work, Options{MaxLeafSize: maxLeaf})
		require.True(t, root.IsLeaf(), "maxLeaf=%d", maxLeaf)
		require.Len(t, root.Prims, 100)
	}
}

func TestBuild_Determinism(t *testing.T) {
	work := make([]BBoxTmp, 50)
	for i := range work {
		x := float32(i % 7)
		work[i] = bbox(i, geom.Vec3{x, 0, 0}, geom.Vec3{x + 1, 1, 1})
	}

	r1 := Build(work, Options{MaxLeafSize: 4})
	r2 := Build(work, Options{MaxLeafSize: 4})

	n1, p1, err := Linearize(r1)
	require.NoError(t, err)
	n2, p2, err := Linearize(r2)
	require.NoError(t, err)

	require.Equal(t, n1, n2)
	require.Equal(t, p1, p2)
}

func TestBuild_ProgressCallback(t *testing.T) {
	work := make([]BBoxTmp, 20)
	for i := range work {
		x := float32(i)
		work[i] = bbox(i, geom.Vec3{x, 0, 0}, geom.Vec3{x + 1, 0, 0})
	}

	var calls int
	Build(work, Options{MaxLeafSize: 2, OnProgress: func(f float64) {
		calls++
		require.GreaterOrEqual(t, f, 0.0)
		require.LessOrEqual(t, f, 1.0)
	}})

	require.Greater(t, calls, 0)
}

func TestBuild_AllPrimitivesPreserved(t *testing.T) {
	work := make([]BBoxTmp, 30)
	for i := range work {
		x := float32(i)
		work[i] = bbox(i, geom.Vec3{x, 0, 0}, geom.Vec3{x + 0.5, 1, 1})
	}

	root := Build(work, Options{MaxLeafSize: 4})
	_, prims, err := Linearize(root)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, p := range prims {
		require.False(t, seen[p], "duplicate payload %d", p)
		seen[p] = true
	}
	require.Len(t, seen, 30)
}
