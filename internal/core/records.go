// Package core defines the fixed-size, little-endian binary records that
// make up a BLAS or TLAS blob (spec §6.3/§6.4): node, header, triangle,
// vertex, and instance. Every record is bit-exact and 4-byte aligned, and
// every Encode/Decode pair round-trips exactly — no versioning, no
// per-field transformation.
package core

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/rtcore/accelstruct/internal/geom"
)

func f32bits(f float32) uint32 { return math.Float32bits(f) }
func bits32f(u uint32) float32 { return math.Float32frombits(u) }

// Primitive kinds discriminating a leaf's FlattenedNode payload.
const (
	PrimKindInstance uint32 = 1
	PrimKindTriangle uint32 = 2
)

// Blob type tags, the first word of BlasHeader/TlasHeader.
const (
	TypeTlas uint32 = 1
	TypeBlas uint32 = 2
)

// leafFlag is the sentinel bit identifying a leaf FlattenedNode: set on
// the countFlag word, cleared on an inner node's leftIdx word.
const leafFlag = uint32(0x80000000)

// FlattenedNode is the 48-byte on-disk node record (spec §6.3): two
// padded bound vectors (32 bytes) followed by the 16-byte inner/leaf union.
type FlattenedNode struct {
	Bounds geom.AABB

	IsLeaf bool

	// Inner-node fields.
	LeftIdx  uint32
	RightIdx uint32

	// Leaf fields.
	Count        uint32
	FirstPrimIdx uint32
	PrimKind     uint32
}

const FlattenedNodeSize = 48

func putVec3(buf []byte, v geom.Vec3) {
	binary.LittleEndian.PutUint32(buf[0:4], f32bits(v.X))
	binary.LittleEndian.PutUint32(buf[4:8], f32bits(v.Y))
	binary.LittleEndian.PutUint32(buf[8:12], f32bits(v.Z))
}

func getVec3(buf []byte) geom.Vec3 {
	return geom.Vec3{
		X: bits32f(binary.LittleEndian.Uint32(buf[0:4])),
		Y: bits32f(binary.LittleEndian.Uint32(buf[4:8])),
		Z: bits32f(binary.LittleEndian.Uint32(buf[8:12])),
	}
}

// EncodeNode writes a full 48-byte node record: bounds, then the 16-byte
// inner/leaf union.
func EncodeNode(buf []byte, n FlattenedNode) {
	if len(buf) < FlattenedNodeSize {
		panic("core: EncodeNode: buffer too short")
	}
	putVec3(buf[0:12], n.Bounds.Bottom)
	binary.LittleEndian.PutUint32(buf[12:16], 0)
	putVec3(buf[16:28], n.Bounds.Top)
	binary.LittleEndian.PutUint32(buf[28:32], 0)

	if n.IsLeaf {
		binary.LittleEndian.PutUint32(buf[32:36], leafFlag|n.Count)
		binary.LittleEndian.PutUint32(buf[36:40], n.FirstPrimIdx)
		binary.LittleEndian.PutUint32(buf[40:44], n.PrimKind)
		binary.LittleEndian.PutUint32(buf[44:48], 0)
	} else {
		binary.LittleEndian.PutUint32(buf[32:36], n.LeftIdx)
		binary.LittleEndian.PutUint32(buf[36:40], n.RightIdx)
		binary.LittleEndian.PutUint32(buf[40:44], 0)
		binary.LittleEndian.PutUint32(buf[44:48], 0)
	}
}

// DecodeNode reads a full 48-byte node record from buf.
func DecodeNode(buf []byte) (FlattenedNode, error) {
	if len(buf) < FlattenedNodeSize {
		return FlattenedNode{}, fmt.Errorf("core: DecodeNode: need %d bytes, got %d", FlattenedNodeSize, len(buf))
	}

	bounds := geom.AABB{
		Bottom: getVec3(buf[0:12]),
		Top:    getVec3(buf[16:28]),
	}

	u0 := binary.LittleEndian.Uint32(buf[32:36])
	u1 := binary.LittleEndian.Uint32(buf[36:40])
	u2 := binary.LittleEndian.Uint32(buf[40:44])

	if u0&leafFlag != 0 {
		return FlattenedNode{
			Bounds:       bounds,
			IsLeaf:       true,
			Count:        u0 &^ leafFlag,
			FirstPrimIdx: u1,
			PrimKind:     u2,
		}, nil
	}

	return FlattenedNode{
		Bounds:   bounds,
		IsLeaf:   false,
		LeftIdx:  u0,
		RightIdx: u1,
	}, nil
}

// FlattenedTriangle is the 16-byte on-disk triangle record.
type FlattenedTriangle struct {
	I0, I1, I2 uint32
	PrimID     uint32
}

const FlattenedTriangleSize = 16

func EncodeTriangle(buf []byte, t FlattenedTriangle) {
	if len(buf) < FlattenedTriangleSize {
		panic("core: EncodeTriangle: buffer too short")
	}
	binary.LittleEndian.PutUint32(buf[0:4], t.I0)
	binary.LittleEndian.PutUint32(buf[4:8], t.I1)
	binary.LittleEndian.PutUint32(buf[8:12], t.I2)
	binary.LittleEndian.PutUint32(buf[12:16], t.PrimID)
}

func DecodeTriangle(buf []byte) (FlattenedTriangle, error) {
	if len(buf) < FlattenedTriangleSize {
		return FlattenedTriangle{}, fmt.Errorf("core: DecodeTriangle: need %d bytes, got %d", FlattenedTriangleSize, len(buf))
	}
	return FlattenedTriangle{
		I0:     binary.LittleEndian.Uint32(buf[0:4]),
		I1:     binary.LittleEndian.Uint32(buf[4:8]),
		I2:     binary.LittleEndian.Uint32(buf[8:12]),
		PrimID: binary.LittleEndian.Uint32(buf[12:16]),
	}, nil
}

// FlattenedVertex is the 16-byte on-disk vertex record; W is reserved
// padding, always encoded as 0.
type FlattenedVertex struct {
	X, Y, Z, W float32
}

const FlattenedVertexSize = 16

func EncodeVertex(buf []byte, v FlattenedVertex) {
	if len(buf) < FlattenedVertexSize {
		panic("core: EncodeVertex: buffer too short")
	}
	binary.LittleEndian.PutUint32(buf[0:4], f32bits(v.X))
	binary.LittleEndian.PutUint32(buf[4:8], f32bits(v.Y))
	binary.LittleEndian.PutUint32(buf[8:12], f32bits(v.Z))
	binary.LittleEndian.PutUint32(buf[12:16], f32bits(v.W))
}

func DecodeVertex(buf []byte) (FlattenedVertex, error) {
	if len(buf) < FlattenedVertexSize {
		return FlattenedVertex{}, fmt.Errorf("core: DecodeVertex: need %d bytes, got %d", FlattenedVertexSize, len(buf))
	}
	return FlattenedVertex{
		X: bits32f(binary.LittleEndian.Uint32(buf[0:4])),
		Y: bits32f(binary.LittleEndian.Uint32(buf[4:8])),
		Z: bits32f(binary.LittleEndian.Uint32(buf[8:12])),
		W: bits32f(binary.LittleEndian.Uint32(buf[12:16])),
	}, nil
}

// FlattenedInstance is the on-disk instance record: a 4x4 row-major
// transform (64 bytes) followed by four u32 fields (16 bytes) = 80 bytes.
type FlattenedInstance struct {
	Transform      [16]float32 // row-major, full 4x4 including {0,0,0,1}
	SbtOffset      uint32
	InstanceID     uint32
	CustomID       uint32
	BlasByteOffset uint32
}

const FlattenedInstanceSize = 16*4 + 16

func EncodeInstance(buf []byte, inst FlattenedInstance) {
	if len(buf) < FlattenedInstanceSize {
		panic("core: EncodeInstance: buffer too short")
	}
	for i, f := range inst.Transform {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], f32bits(f))
	}
	off := 16 * 4
	binary.LittleEndian.PutUint32(buf[off:off+4], inst.SbtOffset)
	binary.LittleEndian.PutUint32(buf[off+4:off+8], inst.InstanceID)
	binary.LittleEndian.PutUint32(buf[off+8:off+12], inst.CustomID)
	binary.LittleEndian.PutUint32(buf[off+12:off+16], inst.BlasByteOffset)
}

func DecodeInstance(buf []byte) (FlattenedInstance, error) {
	if len(buf) < FlattenedInstanceSize {
		return FlattenedInstance{}, fmt.Errorf("core: DecodeInstance: need %d bytes, got %d", FlattenedInstanceSize, len(buf))
	}
	var inst FlattenedInstance
	for i := range inst.Transform {
		inst.Transform[i] = bits32f(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
	}
	off := 16 * 4
	inst.SbtOffset = binary.LittleEndian.Uint32(buf[off : off+4])
	inst.InstanceID = binary.LittleEndian.Uint32(buf[off+4 : off+8])
	inst.CustomID = binary.LittleEndian.Uint32(buf[off+8 : off+12])
	inst.BlasByteOffset = binary.LittleEndian.Uint32(buf[off+12 : off+16])
	return inst, nil
}

// BlasHeader is the 16-byte header at offset 0 of every BLAS blob.
type BlasHeader struct {
	NodeByteOffset   uint32
	FaceByteOffset   uint32
	VertexByteOffset uint32
}

const BlasHeaderSize = 16

func EncodeBlasHeader(buf []byte, h BlasHeader) {
	if len(buf) < BlasHeaderSize {
		panic("core: EncodeBlasHeader: buffer too short")
	}
	binary.LittleEndian.PutUint32(buf[0:4], TypeBlas)
	binary.LittleEndian.PutUint32(buf[4:8], h.NodeByteOffset)
	binary.LittleEndian.PutUint32(buf[8:12], h.FaceByteOffset)
	binary.LittleEndian.PutUint32(buf[12:16], h.VertexByteOffset)
}

func DecodeBlasHeader(buf []byte) (BlasHeader, error) {
	if len(buf) < BlasHeaderSize {
		return BlasHeader{}, fmt.Errorf("core: DecodeBlasHeader: need %d bytes, got %d", BlasHeaderSize, len(buf))
	}
	if t := binary.LittleEndian.Uint32(buf[0:4]); t != TypeBlas {
		return BlasHeader{}, fmt.Errorf("core: DecodeBlasHeader: type=%d, want %d (BLAS)", t, TypeBlas)
	}
	return BlasHeader{
		NodeByteOffset:   binary.LittleEndian.Uint32(buf[4:8]),
		FaceByteOffset:   binary.LittleEndian.Uint32(buf[8:12]),
		VertexByteOffset: binary.LittleEndian.Uint32(buf[12:16]),
	}, nil
}

// TlasHeader is the 16-byte header at offset 0 of every TLAS blob.
type TlasHeader struct {
	NodeByteOffset  uint32
	InstByteOffset  uint32
	TotalBufferSize uint32
}

const TlasHeaderSize = 16

func EncodeTlasHeader(buf []byte, h TlasHeader) {
	if len(buf) < TlasHeaderSize {
		panic("core: EncodeTlasHeader: buffer too short")
	}
	binary.LittleEndian.PutUint32(buf[0:4], TypeTlas)
	binary.LittleEndian.PutUint32(buf[4:8], h.NodeByteOffset)
	binary.LittleEndian.PutUint32(buf[8:12], h.InstByteOffset)
	binary.LittleEndian.PutUint32(buf[12:16], h.TotalBufferSize)
}

func DecodeTlasHeader(buf []byte) (TlasHeader, error) {
	if len(buf) < TlasHeaderSize {
		return TlasHeader{}, fmt.Errorf("core: DecodeTlasHeader: need %d bytes, got %d", TlasHeaderSize, len(buf))
	}
	if t := binary.LittleEndian.Uint32(buf[0:4]); t != TypeTlas {
		return TlasHeader{}, fmt.Errorf("core: DecodeTlasHeader: type=%d, want %d (TLAS)", t, TypeTlas)
	}
	return TlasHeader{
		NodeByteOffset:  binary.LittleEndian.Uint32(buf[4:8]),
		InstByteOffset:  binary.LittleEndian.Uint32(buf[8:12]),
		TotalBufferSize: binary.LittleEndian.Uint32(buf[12:16]),
	}, nil
}
