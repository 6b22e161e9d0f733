package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rtcore/accelstruct/internal/geom"
)

func TestNode_RoundTrip_Leaf(t *testing.T) {
	n := FlattenedNode{
		Bounds:       geom.AABB{Bottom: geom.Vec3{0, 0, 0}, Top: geom.Vec3{1, 1, 1}},
		IsLeaf:       true,
		Count:        1,
		FirstPrimIdx: 0,
		PrimKind:     PrimKindTriangle,
	}

	buf := make([]byte, FlattenedNodeSize)
	EncodeNode(buf, n)

	got, err := DecodeNode(buf)
	require.NoError(t, err)
	require.Equal(t, n, got)
}

func TestNode_Leaf_CountFlagSetsSentinelBit(t *testing.T) {
	n := FlattenedNode{IsLeaf: true, Count: 1, PrimKind: PrimKindTriangle}
	buf := make([]byte, FlattenedNodeSize)
	EncodeNode(buf, n)

	word := uint32(buf[32]) | uint32(buf[33])<<8 | uint32(buf[34])<<16 | uint32(buf[35])<<24
	require.Equal(t, uint32(0x80000001), word)
}

func TestNode_RoundTrip_Inner(t *testing.T) {
	n := FlattenedNode{
		Bounds:   geom.AABB{Bottom: geom.Vec3{-1, -1, -1}, Top: geom.Vec3{2, 2, 2}},
		IsLeaf:   false,
		LeftIdx:  1,
		RightIdx: 5,
	}

	buf := make([]byte, FlattenedNodeSize)
	EncodeNode(buf, n)

	got, err := DecodeNode(buf)
	require.NoError(t, err)
	require.Equal(t, n, got)
}

func TestDecodeNode_ShortBuffer(t *testing.T) {
	_, err := DecodeNode(make([]byte, 10))
	require.Error(t, err)
}

func TestTriangle_RoundTrip(t *testing.T) {
	tri := FlattenedTriangle{I0: 0, I1: 1, I2: 2, PrimID: 7}
	buf := make([]byte, FlattenedTriangleSize)
	EncodeTriangle(buf, tri)

	got, err := DecodeTriangle(buf)
	require.NoError(t, err)
	require.Equal(t, tri, got)
}

func TestVertex_RoundTrip(t *testing.T) {
	v := FlattenedVertex{X: 1.5, Y: -2.5, Z: 0, W: 0}
	buf := make([]byte, FlattenedVertexSize)
	EncodeVertex(buf, v)

	got, err := DecodeVertex(buf)
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestInstance_RoundTrip(t *testing.T) {
	inst := FlattenedInstance{
		SbtOffset:      3,
		InstanceID:     1,
		CustomID:       42,
		BlasByteOffset: 128,
	}
	for i := range inst.Transform {
		inst.Transform[i] = float32(i)
	}

	buf := make([]byte, FlattenedInstanceSize)
	EncodeInstance(buf, inst)

	got, err := DecodeInstance(buf)
	require.NoError(t, err)
	require.Equal(t, inst, got)
}

func TestBlasHeader_RoundTrip(t *testing.T) {
	h := BlasHeader{NodeByteOffset: 16, FaceByteOffset: 96, VertexByteOffset: 160}
	buf := make([]byte, BlasHeaderSize)
	EncodeBlasHeader(buf, h)

	got, err := DecodeBlasHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestBlasHeader_WrongType(t *testing.T) {
	buf := make([]byte, BlasHeaderSize)
	EncodeTlasHeader(buf, TlasHeader{})

	_, err := DecodeBlasHeader(buf)
	require.Error(t, err)
}

func TestTlasHeader_RoundTrip(t *testing.T) {
	h := TlasHeader{NodeByteOffset: 16, InstByteOffset: 80, TotalBufferSize: 4096}
	buf := make([]byte, TlasHeaderSize)
	EncodeTlasHeader(buf, h)

	got, err := DecodeTlasHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}
