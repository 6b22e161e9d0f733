package accelstruct

import (
	"github.com/rtcore/accelstruct/internal/blob"
	"github.com/rtcore/accelstruct/internal/bvh"
	"github.com/rtcore/accelstruct/internal/core"
	"github.com/rtcore/accelstruct/internal/fault"
	"github.com/rtcore/accelstruct/internal/geom"
	"github.com/rtcore/accelstruct/internal/utils"
)

// Blas is a built bottom-level acceleration structure: a self-contained,
// position-independent byte blob plus the root AABB kept alongside it so
// the TLAS assembler can derive instance bounds without re-parsing Blob
// (spec §4.D note: "the BLAS's root AABB is retained on the in-memory
// *Blas value").
type Blas struct {
	Blob   []byte
	Bounds geom.AABB
}

// BuildBlas builds the SAH tree over mesh's triangles, linearizes it, and
// assembles the result into a single blob laid out
// [BlasHeader | nodes[] | triangles[] | vertices[]].
func BuildBlas(mesh Mesh, opts bvh.Options) (*Blas, error) {
	if len(mesh.Triangles) == 0 {
		return nil, fault.Wrap(fault.InvalidInput, "BuildBlas: mesh has no triangles", nil)
	}

	work := make([]bvh.BBoxTmp, len(mesh.Triangles))
	for i, tri := range mesh.Triangles {
		v0 := mesh.Vertices[tri.I0]
		v1 := mesh.Vertices[tri.I1]
		v2 := mesh.Vertices[tri.I2]

		bottom := geom.Min(geom.Min(v0, v1), v2)
		top := geom.Max(geom.Max(v0, v1), v2)

		work[i] = bvh.BBoxTmp{
			Bottom:  bottom,
			Top:     top,
			Center:  bottom.Add(top).Scale(0.5),
			Payload: i,
		}
	}

	root := bvh.Build(work, opts)
	linearNodes, prims, err := bvh.Linearize(root)
	if err != nil {
		return nil, err
	}

	nodesSize, err := utils.SafeMultiply(uint64(len(linearNodes)), core.FlattenedNodeSize)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "BuildBlas: node section size", err)
	}
	trisSize, err := utils.SafeMultiply(uint64(len(prims)), core.FlattenedTriangleSize)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "BuildBlas: triangle section size", err)
	}
	vertsSize, err := utils.SafeMultiply(uint64(len(mesh.Vertices)), core.FlattenedVertexSize)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "BuildBlas: vertex section size", err)
	}

	alloc := blob.New(core.BlasHeaderSize)
	nodeByteOffset64, err := alloc.Allocate(nodesSize)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "BuildBlas: node section", err)
	}
	faceByteOffset64, err := alloc.Allocate(trisSize)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "BuildBlas: triangle section", err)
	}
	vertexByteOffset64, err := alloc.Allocate(vertsSize)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "BuildBlas: vertex section", err)
	}
	total64 := alloc.End()
	if err := utils.ValidateBufferSize(total64, utils.MaxBlobSize, "BuildBlas: blob"); err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "BuildBlas", err)
	}

	nodeByteOffset := uint32(nodeByteOffset64)
	faceByteOffset := uint32(faceByteOffset64)
	vertexByteOffset := uint32(vertexByteOffset64)
	total := uint32(total64)

	blobBytes := make([]byte, total)

	core.EncodeBlasHeader(blobBytes[:core.BlasHeaderSize], core.BlasHeader{
		NodeByteOffset:   nodeByteOffset,
		FaceByteOffset:   faceByteOffset,
		VertexByteOffset: vertexByteOffset,
	})

	for i, n := range linearNodes {
		rec := core.FlattenedNode{Bounds: n.Bounds}
		if n.IsLeaf {
			rec.IsLeaf = true
			rec.Count = n.Count
			rec.FirstPrimIdx = n.FirstPrim
			rec.PrimKind = core.PrimKindTriangle
		} else {
			rec.LeftIdx = n.Left
			rec.RightIdx = n.Right
		}
		off := nodeByteOffset + uint32(i)*core.FlattenedNodeSize
		core.EncodeNode(blobBytes[off:off+core.FlattenedNodeSize], rec)
	}

	for i, triIdx := range prims {
		tri := mesh.Triangles[triIdx]
		off := faceByteOffset + uint32(i)*core.FlattenedTriangleSize
		core.EncodeTriangle(blobBytes[off:off+core.FlattenedTriangleSize], core.FlattenedTriangle{
			I0:     tri.I0,
			I1:     tri.I1,
			I2:     tri.I2,
			PrimID: uint32(triIdx),
		})
	}

	for i, v := range mesh.Vertices {
		off := vertexByteOffset + uint32(i)*core.FlattenedVertexSize
		core.EncodeVertex(blobBytes[off:off+core.FlattenedVertexSize], core.FlattenedVertex{X: v.X, Y: v.Y, Z: v.Z, W: 0})
	}

	return &Blas{Blob: blobBytes, Bounds: root.Bounds}, nil
}

// Upload copies Blob into device-owned memory and returns the handle the
// caller now owns.
func (b *Blas) Upload(dev DeviceMemory) (Handle, error) {
	h, err := dev.Alloc(len(b.Blob))
	if err != nil {
		return nil, fault.Wrap(fault.AllocationFailure, "Blas.Upload", err)
	}
	if err := dev.Write(h, 0, b.Blob); err != nil {
		return nil, fault.Wrap(fault.AllocationFailure, "Blas.Upload: write", err)
	}
	return h, nil
}
